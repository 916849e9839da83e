package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphDriver is the thin seam between the proxy layer and the bolt
// protocol. Every operation runs as a single auto-commit query; the proxy
// relies on MERGE semantics rather than explicit transactions for
// idempotence.
type GraphDriver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error)
	BuildIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
