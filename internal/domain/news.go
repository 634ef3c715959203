package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type Category struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// NewsItem is a single news entry as echoed by the server. Only the fields
// below are decoded; anything else in a response or update is dropped.
type NewsItem struct {
	ID           int64     `json:"id"`
	ArticleID    string    `json:"article_id,omitempty"`
	Title        string    `json:"title"`
	Content      string    `json:"content,omitempty"`
	Images       []string  `json:"images,omitempty"`
	Documents    []string  `json:"documents,omitempty"`
	CategoryID   int64     `json:"categoryId,omitempty"`
	Category     *Category `json:"Category,omitempty"`
	TargetRole   string    `json:"targetRole,omitempty"`
	Faculty      string    `json:"faculty,omitempty"`
	PublishedBy  string    `json:"publishedBy,omitempty"`
	IsPaused     bool      `json:"isPaused"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	BookmarkedAt time.Time `json:"bookmarkCreatedAt,omitzero"`
}

// Eligible reports whether the item may appear in a feed or bookmark list.
func (n NewsItem) Eligible() bool {
	if n.ID == 0 || n.IsPaused {
		return false
	}
	return n.Category != nil && n.Category.Name != ""
}

// Merge overlays the given JSON fields onto a copy of the item. Fields the
// item does not declare are ignored; the id is never changed.
func (n NewsItem) Merge(fields map[string]json.RawMessage) (NewsItem, error) {
	if len(fields) == 0 {
		return n, nil
	}

	raw, err := json.Marshal(n)
	if err != nil {
		return n, fmt.Errorf("marshal news %d: %w", n.ID, err)
	}

	var current map[string]json.RawMessage
	if err := json.Unmarshal(raw, &current); err != nil {
		return n, fmt.Errorf("unmarshal news %d: %w", n.ID, err)
	}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		current[k] = v
	}

	merged, err := json.Marshal(current)
	if err != nil {
		return n, fmt.Errorf("marshal merged news %d: %w", n.ID, err)
	}

	var out NewsItem
	if err := json.Unmarshal(merged, &out); err != nil {
		return n, fmt.Errorf("apply fields to news %d: %w", n.ID, err)
	}
	out.ID = n.ID
	return out, nil
}

// FilterFeed builds a displayable list from a raw response: items keep
// response order, the first occurrence of an id wins, and ineligible
// items are dropped.
func FilterFeed(items []NewsItem) []NewsItem {
	out := make([]NewsItem, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if !item.Eligible() {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

// RemoveNews returns a copy of items without the given id.
func RemoveNews(items []NewsItem, id int64) []NewsItem {
	out := make([]NewsItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// NewsQuery selects a slice of the news feed. A zero CategoryID means all
// categories.
type NewsQuery struct {
	Query      string
	Limit      int
	Offset     int
	CategoryID int64
}

type NewsList struct {
	Items   []NewsItem
	HasMore bool
}

// NewsDetail is the cached value of a single-item view. Unavailable is a
// terminal state: the item was deleted, paused while viewed, or returned
// 404.
type NewsDetail struct {
	ID          int64
	Item        *NewsItem
	Unavailable bool
}
