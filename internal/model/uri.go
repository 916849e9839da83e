package model

import (
	"fmt"
	"strings"
)

// TableURI is the parsed form of db://cluster.schema/table. The cluster
// segment may itself contain dots; the schema is everything after the last
// dot before the table separator.
type TableURI struct {
	Database string
	Cluster  string
	Schema   string
	Table    string
}

func (u TableURI) String() string {
	return u.Database + "://" + u.Cluster + "." + u.Schema + "/" + u.Table
}

// ParseTableURI validates and splits a table URI into its segments.
func ParseTableURI(uri string) (TableURI, error) {
	database, rest, ok := strings.Cut(uri, "://")
	if !ok || database == "" {
		return TableURI{}, fmt.Errorf("table URI %q: missing database scheme", uri)
	}

	qualified, table, ok := cutLast(rest, "/")
	if !ok || table == "" {
		return TableURI{}, fmt.Errorf("table URI %q: missing table name", uri)
	}

	cluster, schema, ok := cutLast(qualified, ".")
	if !ok || cluster == "" || schema == "" {
		return TableURI{}, fmt.Errorf("table URI %q: missing cluster.schema segment", uri)
	}

	return TableURI{Database: database, Cluster: cluster, Schema: schema, Table: table}, nil
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
