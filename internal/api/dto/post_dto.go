package dto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TagList accepts either a JSON array of strings or a single comma-separated
// string, the two forms clients submit tags in.
type TagList []string

// UnmarshalJSON decodes both accepted tag forms.
func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*t = nil
			return nil
		}
		*t = strings.Split(single, ",")
		return nil
	}
	return fmt.Errorf("tags must be an array of strings or a comma-separated string")
}

// Normalize returns the ordered sequence of trimmed, non-empty tags. It is
// idempotent: normalizing an already-normalized list is a no-op.
func (t TagList) Normalize() []string {
	tags := make([]string, 0, len(t))
	for _, tag := range t {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		tags = append(tags, trimmed)
	}
	return tags
}

// SavePostRequest is the payload for creating or updating a post.
type SavePostRequest struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Author  string  `json:"author"`
	Tags    TagList `json:"tags"`
}
