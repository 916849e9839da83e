package model

// User is a catalog person record, keyed by email. Users are created and
// updated by the identity-provider sync upstream; this service only reads
// them and hangs relationship edges off them.
type User struct {
	Email           string `json:"email"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	FullName        string `json:"full_name,omitempty"`
	TeamName        string `json:"team_name,omitempty"`
	EmployeeType    string `json:"employee_type,omitempty"`
	SlackID         string `json:"slack_id,omitempty"`
	GithubUsername  string `json:"github_username,omitempty"`
	ManagerFullname string `json:"manager_fullname,omitempty"`
	IsActive        bool   `json:"is_active"`
}
