package proxy

import (
	"errors"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/opencatalog/metagraph/internal/model"
)

var errEmptyResult = errors.New("query returned no records")

// Bolt hands values back as interface{}; these helpers tolerate missing
// keys and nulls so OPTIONAL MATCH columns read back as zero values.

func recString(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func recBool(rec *neo4j.Record, key string) bool {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

func recInt(rec *neo4j.Record, key string) int64 {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

// recMaps unpacks a collect() column, dropping the NULL placeholders the
// CASE expressions emit when an OPTIONAL MATCH found nothing.
func recMaps(rec *neo4j.Record, key string) []map[string]interface{} {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	maps := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok && m != nil {
			maps = append(maps, m)
		}
	}
	return maps
}

func mapString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok && v != nil {
		s, _ := v.(string)
		return s
	}
	return ""
}

func mapInt(m map[string]interface{}, key string) int64 {
	if v, ok := m[key]; ok && v != nil {
		switch n := v.(type) {
		case int64:
			return n
		case int:
			return int64(n)
		case float64:
			return int64(n)
		}
	}
	return 0
}

func userFromRecord(rec *neo4j.Record) model.User {
	return model.User{
		Email:           recString(rec, "email"),
		FirstName:       recString(rec, "first_name"),
		LastName:        recString(rec, "last_name"),
		FullName:        recString(rec, "full_name"),
		TeamName:        recString(rec, "team_name"),
		EmployeeType:    recString(rec, "employee_type"),
		SlackID:         recString(rec, "slack_id"),
		GithubUsername:  recString(rec, "github_username"),
		ManagerFullname: recString(rec, "manager_fullname"),
		IsActive:        recBool(rec, "is_active"),
	}
}
