package proxy

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/opencatalog/metagraph/internal/driver"
	"github.com/opencatalog/metagraph/internal/model"
)

// relationLabels maps a relation type onto its forward and reverse edge
// labels in the graph.
func relationLabels(relType model.RelationType) (forward, reverse string, err error) {
	switch relType {
	case model.RelationFollow:
		return "FOLLOW", "FOLLOWED_BY", nil
	case model.RelationOwn:
		return "OWNER_OF", "OWNER", nil
	}
	return "", "", invalidf("relation type %q", relType)
}

func (p *GraphProxy) AddRelation(ctx context.Context, userID, tableURI string, relType model.RelationType) error {
	forward, reverse, err := relationLabels(relType)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(driver.AddRelationQuery, forward, reverse)
	result, err := p.driver.ExecuteQuery(ctx, query, map[string]interface{}{
		"email": userID,
		"key":   tableURI,
	})
	if err != nil {
		return internalf(err, "add %s relation %s -> %s", relType, userID, tableURI)
	}
	if len(result.Records) == 0 {
		// The MATCH clauses found nothing; report which endpoint is missing.
		return p.ensureEndpoints(ctx, userID, tableURI)
	}

	p.touchUpdatedTs(ctx)
	return nil
}

func (p *GraphProxy) DeleteRelation(ctx context.Context, userID, tableURI string, relType model.RelationType) error {
	forward, reverse, err := relationLabels(relType)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(driver.DeleteRelationQuery, forward, reverse)
	result, err := p.driver.ExecuteQuery(ctx, query, map[string]interface{}{
		"email": userID,
		"key":   tableURI,
	})
	if err != nil {
		return internalf(err, "delete %s relation %s -> %s", relType, userID, tableURI)
	}
	if len(result.Records) == 0 {
		// Deleting an absent edge is fine; absent endpoints are not.
		return p.ensureEndpoints(ctx, userID, tableURI)
	}

	p.touchUpdatedTs(ctx)
	return nil
}

func (p *GraphProxy) GetTablesByUserRelation(ctx context.Context, userID string, relType model.RelationType) ([]model.PopularTable, error) {
	forward, _, err := relationLabels(relType)
	if err != nil {
		return nil, err
	}

	if err := p.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(driver.RelatedTablesQuery, forward)
	result, err := p.driver.ExecuteQuery(ctx, query, map[string]interface{}{"email": userID})
	if err != nil {
		return nil, internalf(err, "list %s tables for %s", relType, userID)
	}

	tables := make([]model.PopularTable, 0, len(result.Records))
	for _, rec := range result.Records {
		tables = append(tables, popularTableFromRecord(rec))
	}
	return tables, nil
}

func (p *GraphProxy) ensureUser(ctx context.Context, userID string) error {
	result, err := p.driver.ExecuteQuery(ctx, driver.GetUserQuery, map[string]interface{}{"email": userID})
	if err != nil {
		return internalf(err, "resolve user %s", userID)
	}
	if len(result.Records) == 0 {
		return notFoundf("user %s", userID)
	}
	return nil
}

func popularTableFromRecord(rec *neo4j.Record) model.PopularTable {
	return model.PopularTable{
		Database:    recString(rec, "database"),
		Cluster:     recString(rec, "cluster"),
		Schema:      recString(rec, "schema"),
		Name:        recString(rec, "name"),
		Description: recString(rec, "description"),
	}
}
