package proxy

import (
	"context"

	"github.com/opencatalog/metagraph/internal/driver"
	"github.com/opencatalog/metagraph/internal/model"
)

func (p *GraphProxy) RecordTableRead(ctx context.Context, userID, tableURI string) error {
	result, err := p.driver.ExecuteQuery(ctx, driver.RecordReadQuery, map[string]interface{}{
		"email": userID,
		"key":   tableURI,
		"ts":    p.now().Unix(),
	})
	if err != nil {
		return internalf(err, "record read %s -> %s", userID, tableURI)
	}
	if len(result.Records) == 0 {
		return p.ensureEndpoints(ctx, userID, tableURI)
	}

	p.touchUpdatedTs(ctx)
	return nil
}

func (p *GraphProxy) GetFrequentlyReadTables(ctx context.Context, userID string, limit int) ([]model.TableRead, error) {
	if limit <= 0 {
		return nil, invalidf("limit must be positive, got %d", limit)
	}
	if err := p.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	result, err := p.driver.ExecuteQuery(ctx, driver.FrequentlyReadQuery, map[string]interface{}{
		"email": userID,
		"limit": limit,
	})
	if err != nil {
		return nil, internalf(err, "frequently read tables for %s", userID)
	}

	reads := make([]model.TableRead, 0, len(result.Records))
	for _, rec := range result.Records {
		reads = append(reads, model.TableRead{
			Table:     popularTableFromRecord(rec),
			ReadCount: recInt(rec, "read_count"),
			LastRead:  recInt(rec, "last_read"),
		})
	}
	return reads, nil
}
