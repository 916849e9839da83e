// Package proxy defines the relationship-and-annotation contract every
// request handler delegates to, and its backing-store implementations.
// The graph store owns Users and Tables; the proxy owns the relation,
// usage, tag and description edges that hang off them.
package proxy

import (
	"context"

	"github.com/opencatalog/metagraph/internal/model"
)

// DefaultReadsLimit is applied by callers when no explicit limit is given
// for frequently-read queries.
const DefaultReadsLimit = 10

// EntityStore resolves identity and attributes of users and tables. It is
// read-only: entity lifecycle belongs to the upstream ingestion pipeline.
type EntityStore interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUsers(ctx context.Context) ([]model.User, error)
	GetTable(ctx context.Context, tableURI string) (*model.Table, error)
}

// RelationManager toggles typed edges between a user and a table. Add and
// delete are set-membership operations: repeating either is a no-op
// success, which is what makes client retries safe.
type RelationManager interface {
	AddRelation(ctx context.Context, userID, tableURI string, relType model.RelationType) error
	DeleteRelation(ctx context.Context, userID, tableURI string, relType model.RelationType) error
	GetTablesByUserRelation(ctx context.Context, userID string, relType model.RelationType) ([]model.PopularTable, error)
}

// UsageTracker records read events and ranks a user's tables by them.
type UsageTracker interface {
	RecordTableRead(ctx context.Context, userID, tableURI string) error
	GetFrequentlyReadTables(ctx context.Context, userID string, limit int) ([]model.TableRead, error)
}

// AnnotationManager owns tags and free-text descriptions. An absent
// description reads back as the empty string, not an error.
type AnnotationManager interface {
	AddTag(ctx context.Context, tableURI, tag, tagType string) error
	DeleteTag(ctx context.Context, tableURI, tag, tagType string) error
	GetTags(ctx context.Context) ([]model.TagDetail, error)
	GetTableDescription(ctx context.Context, tableURI string) (string, error)
	PutTableDescription(ctx context.Context, tableURI, description string) error
	GetColumnDescription(ctx context.Context, tableURI, columnName string) (string, error)
	PutColumnDescription(ctx context.Context, tableURI, columnName, description string) error
}

// PopularityRanker exposes the global usage-derived ranking and the
// mutation high-water mark callers use for staleness checks.
type PopularityRanker interface {
	GetPopularTables(ctx context.Context, limit int) ([]model.PopularTable, error)
	GetLatestUpdatedTs(ctx context.Context) (int64, error)
}

// Proxy is the single capability surface over a backing graph engine.
// One implementation exists per engine; all of them classify failures
// into NotFound, InvalidArgument or Internal and never retry.
type Proxy interface {
	EntityStore
	RelationManager
	UsageTracker
	AnnotationManager
	PopularityRanker
}
