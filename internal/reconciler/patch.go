package reconciler

import (
	"encoding/json"
	"log/slog"

	"news_sync/internal/domain"
)

// The updaters below understand the three cached shapes a news key can
// hold. Anything else is returned unchanged.

func removeNews(id int64) func(any) any {
	return func(v any) any {
		switch val := v.(type) {
		case []domain.NewsItem:
			return domain.FilterFeed(domain.RemoveNews(val, id))
		case domain.PagedNews:
			return val.MapItems(func(items []domain.NewsItem) []domain.NewsItem {
				return domain.FilterFeed(domain.RemoveNews(items, id))
			})
		}
		return v
	}
}

func mergeNews(id int64, fields map[string]json.RawMessage, logger *slog.Logger) func(any) any {
	mergeList := func(items []domain.NewsItem) []domain.NewsItem {
		out := make([]domain.NewsItem, len(items))
		for i, item := range items {
			out[i] = item
			if item.ID != id {
				continue
			}
			merged, err := item.Merge(fields)
			if err != nil {
				logger.Warn("merge news update", "news_id", id, "error", err)
				continue
			}
			out[i] = merged
		}
		return domain.FilterFeed(out)
	}

	return func(v any) any {
		switch val := v.(type) {
		case []domain.NewsItem:
			return mergeList(val)
		case domain.PagedNews:
			return val.MapItems(mergeList)
		case domain.NewsDetail:
			if val.Item == nil || val.Item.ID != id || val.Unavailable {
				return val
			}
			merged, err := val.Item.Merge(fields)
			if err != nil {
				logger.Warn("merge news update", "news_id", id, "error", err)
				return val
			}
			val.Item = &merged
			return val
		}
		return v
	}
}
