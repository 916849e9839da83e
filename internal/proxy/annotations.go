package proxy

import (
	"context"

	"github.com/opencatalog/metagraph/internal/driver"
	"github.com/opencatalog/metagraph/internal/model"
)

func (p *GraphProxy) AddTag(ctx context.Context, tableURI, tag, tagType string) error {
	if tag == "" {
		return invalidf("tag name must not be empty")
	}
	if tagType == "" {
		tagType = model.DefaultTagType
	}

	result, err := p.driver.ExecuteQuery(ctx, driver.AddTagQuery, map[string]interface{}{
		"key":      tableURI,
		"tag":      tag,
		"tag_type": tagType,
	})
	if err != nil {
		return internalf(err, "add tag %s to %s", tag, tableURI)
	}
	if len(result.Records) == 0 {
		return notFoundf("table %s", tableURI)
	}

	p.touchUpdatedTs(ctx)
	return nil
}

func (p *GraphProxy) DeleteTag(ctx context.Context, tableURI, tag, tagType string) error {
	if tag == "" {
		return invalidf("tag name must not be empty")
	}

	result, err := p.driver.ExecuteQuery(ctx, driver.DeleteTagQuery, map[string]interface{}{
		"key": tableURI,
		"tag": tag,
	})
	if err != nil {
		return internalf(err, "delete tag %s from %s", tag, tableURI)
	}
	if len(result.Records) == 0 {
		return notFoundf("table %s", tableURI)
	}

	p.touchUpdatedTs(ctx)
	return nil
}

func (p *GraphProxy) GetTags(ctx context.Context) ([]model.TagDetail, error) {
	result, err := p.driver.ExecuteQuery(ctx, driver.GetTagsQuery, nil)
	if err != nil {
		return nil, internalf(err, "list tags")
	}

	tags := make([]model.TagDetail, 0, len(result.Records))
	for _, rec := range result.Records {
		tags = append(tags, model.TagDetail{
			TagName:  recString(rec, "tag_name"),
			TagCount: recInt(rec, "tag_count"),
		})
	}
	return tags, nil
}

func (p *GraphProxy) GetTableDescription(ctx context.Context, tableURI string) (string, error) {
	result, err := p.driver.ExecuteQuery(ctx, driver.GetTableDescriptionQuery, map[string]interface{}{"key": tableURI})
	if err != nil {
		return "", internalf(err, "get description of %s", tableURI)
	}
	if len(result.Records) == 0 {
		return "", notFoundf("table %s", tableURI)
	}
	// A table with no description answers with an empty string, not an error.
	return recString(result.Records[0], "description"), nil
}

func (p *GraphProxy) PutTableDescription(ctx context.Context, tableURI, description string) error {
	result, err := p.driver.ExecuteQuery(ctx, driver.PutTableDescriptionQuery, map[string]interface{}{
		"key":         tableURI,
		"description": description,
	})
	if err != nil {
		return internalf(err, "put description of %s", tableURI)
	}
	if len(result.Records) == 0 {
		return notFoundf("table %s", tableURI)
	}

	p.touchUpdatedTs(ctx)
	return nil
}

func (p *GraphProxy) GetColumnDescription(ctx context.Context, tableURI, columnName string) (string, error) {
	result, err := p.driver.ExecuteQuery(ctx, driver.GetColumnDescriptionQuery, map[string]interface{}{
		"key":         tableURI,
		"column_name": columnName,
	})
	if err != nil {
		return "", internalf(err, "get description of %s.%s", tableURI, columnName)
	}
	if len(result.Records) == 0 {
		return "", notFoundf("column %s on table %s", columnName, tableURI)
	}
	return recString(result.Records[0], "description"), nil
}

func (p *GraphProxy) PutColumnDescription(ctx context.Context, tableURI, columnName, description string) error {
	result, err := p.driver.ExecuteQuery(ctx, driver.PutColumnDescriptionQuery, map[string]interface{}{
		"key":         tableURI,
		"column_name": columnName,
		"description": description,
	})
	if err != nil {
		return internalf(err, "put description of %s.%s", tableURI, columnName)
	}
	if len(result.Records) == 0 {
		return notFoundf("column %s on table %s", columnName, tableURI)
	}

	p.touchUpdatedTs(ctx)
	return nil
}
