package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Neo4jDriver talks bolt to a Neo4j (or Memgraph) instance. One driver is
// constructed at process start and shared across requests; session pooling
// lives inside the neo4j driver.
type Neo4jDriver struct {
	Driver neo4j.DriverWithContext
	log    *zap.Logger
}

func NewNeo4jDriver(uri, username, password string, log *zap.Logger) (*Neo4jDriver, error) {
	drv, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := drv.VerifyConnectivity(context.Background()); err != nil {
		return nil, err
	}

	log.Info("connected to graph store", zap.String("uri", uri))
	return &Neo4jDriver{Driver: drv, log: log}, nil
}

func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *Neo4jDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

// BuildIndices creates the key indexes the proxy queries depend on. Index
// creation is best effort: an index that already exists under another name
// is not worth failing startup over.
func (d *Neo4jDriver) BuildIndices(ctx context.Context) error {
	queries := []string{
		"CREATE INDEX user_email IF NOT EXISTS FOR (u:User) ON (u.email)",
		"CREATE INDEX table_key IF NOT EXISTS FOR (t:Table) ON (t.key)",
		"CREATE INDEX tag_key IF NOT EXISTS FOR (t:Tag) ON (t.key)",
		"CREATE INDEX column_name IF NOT EXISTS FOR (c:Column) ON (c.name)",
	}

	for _, q := range queries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			d.log.Warn("failed to create index", zap.String("query", q), zap.Error(err))
		}
	}

	return nil
}
