package proxy

import (
	"context"

	"github.com/opencatalog/metagraph/internal/driver"
	"github.com/opencatalog/metagraph/internal/model"
)

func (p *GraphProxy) GetPopularTables(ctx context.Context, limit int) ([]model.PopularTable, error) {
	if limit <= 0 {
		return nil, invalidf("limit must be positive, got %d", limit)
	}

	result, err := p.driver.ExecuteQuery(ctx, driver.PopularTablesQuery, map[string]interface{}{"limit": limit})
	if err != nil {
		return nil, internalf(err, "popular tables")
	}

	tables := make([]model.PopularTable, 0, len(result.Records))
	for _, rec := range result.Records {
		tables = append(tables, popularTableFromRecord(rec))
	}
	return tables, nil
}

func (p *GraphProxy) GetLatestUpdatedTs(ctx context.Context) (int64, error) {
	result, err := p.driver.ExecuteQuery(ctx, driver.GetLatestUpdatedTsQuery, nil)
	if err != nil {
		return 0, internalf(err, "latest updated timestamp")
	}
	if len(result.Records) == 0 {
		// No mutation recorded yet.
		return 0, nil
	}
	return recInt(result.Records[0], "latest_timestamp"), nil
}
