package model

// Table is a catalogued data asset. Identity is the table URI
// (db://cluster.schema/table); everything else is descriptive metadata.
// Table existence is owned by the ingestion pipeline, the service mutates
// only descriptions, tags, owners and relationship edges.
type Table struct {
	Database    string   `json:"database"`
	Cluster     string   `json:"cluster"`
	Schema      string   `json:"schema"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Columns     []Column `json:"columns"`
	Owners      []User   `json:"owners"`
	Tags        []Tag    `json:"tags"`
	IsView      bool     `json:"is_view"`
}

// URI reassembles the canonical table URI from the segments.
func (t *Table) URI() string {
	return t.Database + "://" + t.Cluster + "." + t.Schema + "/" + t.Name
}

type Column struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ColType     string `json:"col_type"`
	SortOrder   int    `json:"sort_order"`
}

// PopularTable is the slim table view returned by list-style operations
// (related tables, frequently read, popularity ranking).
type PopularTable struct {
	Database    string `json:"database"`
	Cluster     string `json:"cluster"`
	Schema      string `json:"schema"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (t *PopularTable) URI() string {
	return t.Database + "://" + t.Cluster + "." + t.Schema + "/" + t.Name
}

// TableRead pairs a table with the usage signal that ranked it for one user.
type TableRead struct {
	Table     PopularTable `json:"table"`
	ReadCount int64        `json:"read_count"`
	LastRead  int64        `json:"last_read"`
}
