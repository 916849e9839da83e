package proxy

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/opencatalog/metagraph/internal/driver"
	"github.com/opencatalog/metagraph/internal/model"
)

// GraphProxy implements Proxy on top of a bolt graph store. It is
// stateless and reentrant: each operation is a single round trip (or an
// existence check plus a MERGE write, which is safe to re-execute because
// every write is idempotent).
type GraphProxy struct {
	driver driver.GraphDriver
	log    *zap.Logger
	now    func() time.Time
}

func NewGraphProxy(d driver.GraphDriver, log *zap.Logger) *GraphProxy {
	return &GraphProxy{driver: d, log: log, now: time.Now}
}

func (p *GraphProxy) GetUser(ctx context.Context, id string) (*model.User, error) {
	result, err := p.driver.ExecuteQuery(ctx, driver.GetUserQuery, map[string]interface{}{"email": id})
	if err != nil {
		return nil, internalf(err, "get user %s", id)
	}
	if len(result.Records) == 0 {
		return nil, notFoundf("user %s", id)
	}
	u := userFromRecord(result.Records[0])
	return &u, nil
}

func (p *GraphProxy) GetUsers(ctx context.Context) ([]model.User, error) {
	result, err := p.driver.ExecuteQuery(ctx, driver.GetUsersQuery, nil)
	if err != nil {
		return nil, internalf(err, "list users")
	}
	users := make([]model.User, 0, len(result.Records))
	for _, rec := range result.Records {
		users = append(users, userFromRecord(rec))
	}
	return users, nil
}

func (p *GraphProxy) GetTable(ctx context.Context, tableURI string) (*model.Table, error) {
	if _, err := model.ParseTableURI(tableURI); err != nil {
		return nil, invalidf("%v", err)
	}

	result, err := p.driver.ExecuteQuery(ctx, driver.GetTableQuery, map[string]interface{}{"key": tableURI})
	if err != nil {
		return nil, internalf(err, "get table %s", tableURI)
	}
	if len(result.Records) == 0 {
		return nil, notFoundf("table %s", tableURI)
	}

	rec := result.Records[0]
	table := &model.Table{
		Database:    recString(rec, "database"),
		Cluster:     recString(rec, "cluster"),
		Schema:      recString(rec, "schema"),
		Name:        recString(rec, "name"),
		Description: recString(rec, "description"),
		IsView:      recBool(rec, "is_view"),
		Columns:     []model.Column{},
		Tags:        []model.Tag{},
		Owners:      []model.User{},
	}

	for _, m := range recMaps(rec, "columns") {
		table.Columns = append(table.Columns, model.Column{
			Name:        mapString(m, "name"),
			ColType:     mapString(m, "col_type"),
			SortOrder:   int(mapInt(m, "sort_order")),
			Description: mapString(m, "description"),
		})
	}
	for _, m := range recMaps(rec, "tags") {
		table.Tags = append(table.Tags, model.Tag{
			TagName: mapString(m, "tag_name"),
			TagType: mapString(m, "tag_type"),
		})
	}
	for _, m := range recMaps(rec, "owners") {
		table.Owners = append(table.Owners, model.User{
			Email:    mapString(m, "email"),
			FullName: mapString(m, "full_name"),
			TeamName: mapString(m, "team_name"),
		})
	}

	return table, nil
}

// ensureEndpoints resolves both ends of a (user, table) mutation in one
// round trip so a miss can be reported as NotFound for the right identity.
func (p *GraphProxy) ensureEndpoints(ctx context.Context, userID, tableURI string) error {
	result, err := p.driver.ExecuteQuery(ctx, driver.EndpointsExistQuery, map[string]interface{}{
		"email": userID,
		"key":   tableURI,
	})
	if err != nil {
		return internalf(err, "resolve endpoints %s, %s", userID, tableURI)
	}
	if len(result.Records) == 0 {
		return internalf(errEmptyResult, "resolve endpoints %s, %s", userID, tableURI)
	}
	rec := result.Records[0]
	if !recBool(rec, "user_exists") {
		return notFoundf("user %s", userID)
	}
	if !recBool(rec, "table_exists") {
		return notFoundf("table %s", tableURI)
	}
	return nil
}

// touchUpdatedTs advances the mutation high-water mark. A failure here is
// logged but not surfaced: the mutation itself already committed.
func (p *GraphProxy) touchUpdatedTs(ctx context.Context) {
	ts := p.now().Unix()
	if _, err := p.driver.ExecuteQuery(ctx, driver.TouchUpdatedTsQuery, map[string]interface{}{"ts": ts}); err != nil {
		p.log.Warn("failed to advance updated timestamp", zap.Error(err))
	}
}
