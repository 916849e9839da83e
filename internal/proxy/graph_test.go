package proxy

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opencatalog/metagraph/internal/model"
)

func newGraphProxy(d *MockDriver) *GraphProxy {
	p := NewGraphProxy(d, zap.NewNop())
	p.now = func() time.Time { return time.Unix(1700000000, 0) }
	return p
}

func TestGraphGetUser(t *testing.T) {
	mock := &MockDriver{Results: []neo4j.EagerResult{singleRecord(
		[]string{"email", "full_name", "team_name", "is_active"},
		[]interface{}{"alice@co.com", "Alice Doe", "data-platform", true},
	)}}
	p := newGraphProxy(mock)

	user, err := p.GetUser(context.Background(), "alice@co.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@co.com", user.Email)
	assert.Equal(t, "Alice Doe", user.FullName)
	assert.True(t, user.IsActive)
	assert.Equal(t, "alice@co.com", mock.Params[0]["email"])
}

func TestGraphGetUser_NotFound(t *testing.T) {
	mock := &MockDriver{Results: []neo4j.EagerResult{emptyResult()}}
	p := newGraphProxy(mock)

	_, err := p.GetUser(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestGraphGetUser_StoreFaultIsInternal(t *testing.T) {
	mock := &MockDriver{Err: fmt.Errorf("bolt connection reset")}
	p := newGraphProxy(mock)

	_, err := p.GetUser(context.Background(), "alice@co.com")
	assert.ErrorIs(t, err, ErrInternal)
	assert.Contains(t, err.Error(), "bolt connection reset")
}

func TestGraphGetTable_MalformedURI(t *testing.T) {
	p := newGraphProxy(&MockDriver{})

	_, err := p.GetTable(context.Background(), "not-a-uri")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGraphGetTable(t *testing.T) {
	mock := &MockDriver{Results: []neo4j.EagerResult{singleRecord(
		[]string{"database", "cluster", "schema", "name", "is_view", "description", "columns", "tags", "owners"},
		[]interface{}{
			"hive", "gold", "core", "orders", false, "order facts",
			[]interface{}{
				map[string]interface{}{"name": "id", "col_type": "bigint", "sort_order": int64(0), "description": "primary key"},
				nil,
			},
			[]interface{}{map[string]interface{}{"tag_name": "pii", "tag_type": "default"}},
			[]interface{}{map[string]interface{}{"email": "alice@co.com", "full_name": "Alice Doe", "team_name": "data"}},
		},
	)}}
	p := newGraphProxy(mock)

	table, err := p.GetTable(context.Background(), "hive://gold.core/orders")
	require.NoError(t, err)
	assert.Equal(t, "orders", table.Name)
	assert.Equal(t, "order facts", table.Description)
	require.Len(t, table.Columns, 1)
	assert.Equal(t, "primary key", table.Columns[0].Description)
	require.Len(t, table.Tags, 1)
	assert.Equal(t, "pii", table.Tags[0].TagName)
	require.Len(t, table.Owners, 1)
	assert.Equal(t, "alice@co.com", table.Owners[0].Email)
}

func TestGraphAddRelation(t *testing.T) {
	mock := &MockDriver{Results: []neo4j.EagerResult{singleRecord(
		[]string{"email"}, []interface{}{"alice@co.com"},
	)}}
	p := newGraphProxy(mock)

	err := p.AddRelation(context.Background(), "alice@co.com", "hive://gold.core/orders", model.RelationFollow)
	require.NoError(t, err)

	assert.Contains(t, mock.Queries[0], "MERGE (u)-[:FOLLOW]->(t)")
	assert.Contains(t, mock.Queries[0], "MERGE (t)-[:FOLLOWED_BY]->(u)")
	// The mutation high-water mark advances after a successful write.
	require.Len(t, mock.Queries, 2)
	assert.Contains(t, mock.Queries[1], "Updatedtimestamp")
	assert.Equal(t, int64(1700000000), mock.Params[1]["ts"])
}

func TestGraphAddRelation_OwnLabels(t *testing.T) {
	mock := &MockDriver{Results: []neo4j.EagerResult{singleRecord(
		[]string{"email"}, []interface{}{"alice@co.com"},
	)}}
	p := newGraphProxy(mock)

	err := p.AddRelation(context.Background(), "alice@co.com", "hive://gold.core/orders", model.RelationOwn)
	require.NoError(t, err)
	assert.Contains(t, mock.Queries[0], "MERGE (u)-[:OWNER_OF]->(t)")
	assert.Contains(t, mock.Queries[0], "MERGE (t)-[:OWNER]->(u)")
}

func TestGraphAddRelation_InvalidType(t *testing.T) {
	p := newGraphProxy(&MockDriver{})

	err := p.AddRelation(context.Background(), "alice@co.com", "hive://gold.core/orders", "likes")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGraphAddRelation_MissingUser(t *testing.T) {
	mock := &MockDriver{Results: []neo4j.EagerResult{
		emptyResult(),
		singleRecord([]string{"user_exists", "table_exists"}, []interface{}{false, true}),
	}}
	p := newGraphProxy(mock)

	err := p.AddRelation(context.Background(), "ghost@x.com", "hive://gold.core/orders", model.RelationOwn)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "ghost@x.com")
}

func TestGraphDeleteRelation_MissingTable(t *testing.T) {
	mock := &MockDriver{Results: []neo4j.EagerResult{
		emptyResult(),
		singleRecord([]string{"user_exists", "table_exists"}, []interface{}{true, false}),
	}}
	p := newGraphProxy(mock)

	err := p.DeleteRelation(context.Background(), "alice@co.com", "hive://gold.core/ghost", model.RelationFollow)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "hive://gold.core/ghost")
}

func TestGraphDeleteRelation_AbsentEdgeSucceeds(t *testing.T) {
	// Both endpoints exist so the MATCH yields a row even with no edge to
	// delete; the operation is a no-op success.
	mock := &MockDriver{Results: []neo4j.EagerResult{singleRecord(
		[]string{"email"}, []interface{}{"alice@co.com"},
	)}}
	p := newGraphProxy(mock)

	err := p.DeleteRelation(context.Background(), "alice@co.com", "hive://gold.core/orders", model.RelationFollow)
	assert.NoError(t, err)
}

func TestGraphGetTablesByUserRelation(t *testing.T) {
	mock := &MockDriver{Results: []neo4j.EagerResult{
		singleRecord([]string{"email"}, []interface{}{"alice@co.com"}),
		{Records: []*neo4j.Record{
			record([]string{"database", "cluster", "schema", "name", "description"},
				[]interface{}{"hive", "gold", "core", "orders", "order facts"}),
			record([]string{"database", "cluster", "schema", "name", "description"},
				[]interface{}{"hive", "gold", "core", "users", nil}),
		}},
	}}
	p := newGraphProxy(mock)

	tables, err := p.GetTablesByUserRelation(context.Background(), "alice@co.com", model.RelationFollow)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "hive://gold.core/orders", tables[0].URI())
	assert.Contains(t, mock.Queries[1], "[:FOLLOW]")
}

func TestGraphRecordTableRead(t *testing.T) {
	mock := &MockDriver{Results: []neo4j.EagerResult{singleRecord(
		[]string{"read_count"}, []interface{}{int64(3)},
	)}}
	p := newGraphProxy(mock)

	err := p.RecordTableRead(context.Background(), "alice@co.com", "hive://gold.core/orders")
	require.NoError(t, err)
	assert.Contains(t, mock.Queries[0], "r.read_count = r.read_count + 1")
	assert.Equal(t, int64(1700000000), mock.Params[0]["ts"])
}

func TestGraphGetFrequentlyReadTables_InvalidLimit(t *testing.T) {
	p := newGraphProxy(&MockDriver{})

	_, err := p.GetFrequentlyReadTables(context.Background(), "alice@co.com", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = p.GetFrequentlyReadTables(context.Background(), "alice@co.com", -5)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGraphGetPopularTables_InvalidLimit(t *testing.T) {
	p := newGraphProxy(&MockDriver{})

	_, err := p.GetPopularTables(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGraphGetLatestUpdatedTs_NoMutationsYet(t *testing.T) {
	mock := &MockDriver{Results: []neo4j.EagerResult{emptyResult()}}
	p := newGraphProxy(mock)

	ts, err := p.GetLatestUpdatedTs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), ts)
}

func TestGraphAddTag_DefaultsTagType(t *testing.T) {
	mock := &MockDriver{Results: []neo4j.EagerResult{singleRecord(
		[]string{"key"}, []interface{}{"hive://gold.core/orders"},
	)}}
	p := newGraphProxy(mock)

	err := p.AddTag(context.Background(), "hive://gold.core/orders", "pii", "")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTagType, mock.Params[0]["tag_type"])
}

func TestGraphGetTableDescription_AbsentIsEmpty(t *testing.T) {
	mock := &MockDriver{Results: []neo4j.EagerResult{singleRecord(
		[]string{"description"}, []interface{}{nil},
	)}}
	p := newGraphProxy(mock)

	desc, err := p.GetTableDescription(context.Background(), "hive://gold.core/orders")
	require.NoError(t, err)
	assert.Equal(t, "", desc)
}

func TestGraphGetColumnDescription_MissingColumn(t *testing.T) {
	mock := &MockDriver{Results: []neo4j.EagerResult{emptyResult()}}
	p := newGraphProxy(mock)

	_, err := p.GetColumnDescription(context.Background(), "hive://gold.core/orders", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
