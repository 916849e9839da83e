package model

// DefaultTagType is applied when callers do not specify a tag type.
const DefaultTagType = "default"

type Tag struct {
	TagName string `json:"tag_name"`
	TagType string `json:"tag_type"`
}

// TagDetail is a tag plus how many tables currently carry it.
type TagDetail struct {
	TagName  string `json:"tag_name"`
	TagCount int64  `json:"tag_count"`
}
