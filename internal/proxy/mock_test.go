package proxy

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// MockDriver scripts query results in order and records everything the
// proxy executed. Once the scripted results run out it answers with empty
// result sets, which covers fire-and-forget queries like the timestamp
// touch.
type MockDriver struct {
	Queries []string
	Params  []map[string]interface{}
	Results []neo4j.EagerResult
	Err     error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.Queries = append(m.Queries, query)
	m.Params = append(m.Params, params)
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	if len(m.Results) == 0 {
		return neo4j.EagerResult{}, nil
	}
	result := m.Results[0]
	m.Results = m.Results[1:]
	return result, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func record(keys []string, values []interface{}) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func singleRecord(keys []string, values []interface{}) neo4j.EagerResult {
	return neo4j.EagerResult{Records: []*neo4j.Record{record(keys, values)}}
}

func emptyResult() neo4j.EagerResult {
	return neo4j.EagerResult{Records: []*neo4j.Record{}}
}
