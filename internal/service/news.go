package service

import (
	"context"
	"errors"
	"fmt"

	"news_sync/internal/api"
	"news_sync/internal/cache"
	"news_sync/internal/domain"
)

var allCategories = domain.Category{ID: 0, Name: "All"}

func (s *Service) BreakingNews(ctx context.Context) ([]domain.NewsItem, error) {
	sess, ok := s.Session()
	if !ok {
		return nil, ErrNoCredential
	}
	v, err := s.store.Query(ctx, BreakingNewsKey(sess.User.ID, sess.Token), s.fetchBreaking)
	if err != nil {
		return nil, err
	}
	items, _ := v.([]domain.NewsItem)
	return items, nil
}

func (s *Service) fetchBreaking(ctx context.Context, _ any) (any, error) {
	list, err := s.api.ListNews(ctx, domain.NewsQuery{Limit: s.feed.BreakingLimit})
	if err != nil {
		return nil, fmt.Errorf("fetch breaking news: %w", err)
	}
	return domain.FilterFeed(list.Items), nil
}

// Feed returns the loaded pages of one category, fetching the first page
// on a miss.
func (s *Service) Feed(ctx context.Context, categoryID int64) (domain.PagedNews, error) {
	sess, ok := s.Session()
	if !ok {
		return domain.PagedNews{}, ErrNoCredential
	}
	v, err := s.store.Query(ctx, FeedKey(sess.User.ID, sess.Token, categoryID), s.fetchFeed(categoryID))
	if err != nil {
		return domain.PagedNews{}, err
	}
	paged, _ := v.(domain.PagedNews)
	return paged, nil
}

// fetchFeed reloads every page currently held so a refetch does not shrink
// the list the user scrolled through.
func (s *Service) fetchFeed(categoryID int64) cache.FetchFunc {
	return func(ctx context.Context, current any) (any, error) {
		offsets := []int{0}
		if paged, ok := current.(domain.PagedNews); ok && len(paged.PageOffsets) > 0 {
			offsets = paged.PageOffsets
		}

		var out domain.PagedNews
		for _, offset := range offsets {
			page, err := s.fetchPage(ctx, categoryID, offset)
			if err != nil {
				return nil, err
			}
			out = out.WithPage(offset, page)
			if !page.HasMore {
				break
			}
		}
		return out, nil
	}
}

func (s *Service) fetchPage(ctx context.Context, categoryID int64, offset int) (domain.Page, error) {
	list, err := s.api.ListNews(ctx, domain.NewsQuery{
		Limit:      s.feed.PageSize,
		Offset:     offset,
		CategoryID: categoryID,
	})
	if err != nil {
		return domain.Page{}, fmt.Errorf("fetch feed page %d: %w", offset, err)
	}
	return domain.Page{
		Items:      domain.FilterFeed(list.Items),
		HasMore:    list.HasMore,
		NextOffset: offset + s.feed.PageSize,
	}, nil
}

// FetchPage loads the page at offset into the feed. An offset that is
// already loaded is a cache hit; any other offset must be the next one.
func (s *Service) FetchPage(ctx context.Context, categoryID int64, offset int) (domain.PagedNews, error) {
	sess, ok := s.Session()
	if !ok {
		return domain.PagedNews{}, ErrNoCredential
	}
	key := FeedKey(sess.User.ID, sess.Token, categoryID)

	entry, ok := s.store.Read(key)
	if !ok || !entry.HasValue {
		return s.Feed(ctx, categoryID)
	}
	paged, _ := entry.Value.(domain.PagedNews)
	if paged.HasOffset(offset) {
		return paged, nil
	}
	next, more := paged.NextOffset()
	if !more {
		return paged, nil
	}
	if offset != next {
		return paged, fmt.Errorf("fetch feed page %d: %w", offset, ErrPageOutOfOrder)
	}

	page, err := s.fetchPage(ctx, categoryID, offset)
	if err != nil {
		return paged, err
	}
	s.store.Patch(key, func(v any) any {
		current, ok := v.(domain.PagedNews)
		if !ok {
			return v
		}
		return current.WithPage(offset, page)
	})

	if entry, ok := s.store.Read(key); ok {
		if current, ok := entry.Value.(domain.PagedNews); ok {
			return current, nil
		}
	}
	return paged.WithPage(offset, page), nil
}

func (s *Service) FetchNextPage(ctx context.Context, categoryID int64) (domain.PagedNews, error) {
	paged, err := s.Feed(ctx, categoryID)
	if err != nil {
		return paged, err
	}
	next, more := paged.NextOffset()
	if !more {
		return paged, nil
	}
	return s.FetchPage(ctx, categoryID, next)
}

// Detail returns one item. A 404 is cached as unavailable rather than
// surfaced as an error.
func (s *Service) Detail(ctx context.Context, id int64) (domain.NewsDetail, error) {
	v, err := s.store.Query(ctx, NewsKey(id), s.fetchDetail(id))
	if err != nil {
		return domain.NewsDetail{}, err
	}
	detail, _ := v.(domain.NewsDetail)
	return detail, nil
}

func (s *Service) fetchDetail(id int64) cache.FetchFunc {
	return func(ctx context.Context, _ any) (any, error) {
		item, err := s.api.GetNews(ctx, id)
		if errors.Is(err, api.ErrNotFound) {
			return domain.NewsDetail{ID: id, Unavailable: true}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("fetch news %d: %w", id, err)
		}
		return domain.NewsDetail{ID: id, Item: &item}, nil
	}
}

func (s *Service) Search(ctx context.Context, query string) ([]domain.NewsItem, error) {
	if query == "" {
		return nil, nil
	}
	sess, ok := s.Session()
	if !ok {
		return nil, ErrNoCredential
	}
	v, err := s.store.Query(ctx, SearchKey(query, sess.Token), func(ctx context.Context, _ any) (any, error) {
		list, err := s.api.ListNews(ctx, domain.NewsQuery{Query: query, Limit: s.feed.PageSize})
		if err != nil {
			return nil, fmt.Errorf("search news: %w", err)
		}
		return domain.FilterFeed(list.Items), nil
	})
	if err != nil {
		return nil, err
	}
	items, _ := v.([]domain.NewsItem)
	return items, nil
}

// Categories lists the server's categories behind a leading "All" entry.
func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	v, err := s.store.Query(ctx, CategoriesKey(), func(ctx context.Context, _ any) (any, error) {
		categories, err := s.api.ListCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch categories: %w", err)
		}
		return append([]domain.Category{allCategories}, categories...), nil
	})
	if err != nil {
		return nil, err
	}
	categories, _ := v.([]domain.Category)
	return categories, nil
}

var newsListPrefixes = []cache.Key{
	cache.NewKey("breakingNews"),
	cache.NewKey("allNews"),
	cache.NewKey("searchNews"),
	cache.NewKey("bookmarks"),
}

// lookupNews finds an item in any cached view.
func (s *Service) lookupNews(id int64) (domain.NewsItem, error) {
	if entry, ok := s.store.Read(NewsKey(id)); ok {
		if detail, ok := entry.Value.(domain.NewsDetail); ok && detail.Item != nil {
			return *detail.Item, nil
		}
	}

	var (
		found domain.NewsItem
		ok    bool
	)
	for _, prefix := range newsListPrefixes {
		s.store.Range(prefix, func(e cache.Entry) bool {
			var items []domain.NewsItem
			switch v := e.Value.(type) {
			case []domain.NewsItem:
				items = v
			case domain.PagedNews:
				items = v.Items()
			}
			for _, item := range items {
				if item.ID == id {
					found, ok = item, true
					return false
				}
			}
			return true
		})
		if ok {
			return found, nil
		}
	}
	return domain.NewsItem{}, ErrNewsUnknown
}
