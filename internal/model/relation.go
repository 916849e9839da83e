package model

import "fmt"

// RelationType is the kind of edge between a User and a Table.
type RelationType string

const (
	RelationFollow RelationType = "follow"
	RelationOwn    RelationType = "own"
)

// ParseRelationType maps the wire value onto a known relation type.
func ParseRelationType(s string) (RelationType, error) {
	switch RelationType(s) {
	case RelationFollow:
		return RelationFollow, nil
	case RelationOwn:
		return RelationOwn, nil
	}
	return "", fmt.Errorf("unknown relation type %q", s)
}

func (r RelationType) Valid() bool {
	return r == RelationFollow || r == RelationOwn
}
