package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"news_sync/internal/cache"
	"news_sync/internal/domain"
)

func (s *Service) Bookmarks(ctx context.Context) ([]domain.NewsItem, error) {
	sess, ok := s.Session()
	if !ok {
		return nil, ErrNoCredential
	}
	v, err := s.store.Query(ctx, BookmarksKey(sess.User.ID), s.fetchBookmarks(sess.User.ID))
	if err != nil {
		return nil, err
	}
	items, _ := v.([]domain.NewsItem)
	return items, nil
}

func (s *Service) fetchBookmarks(userID int64) cache.FetchFunc {
	return func(ctx context.Context, _ any) (any, error) {
		bookmarks, err := s.api.ListBookmarks(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("fetch bookmarks: %w", err)
		}
		return domain.BookmarkedNews(bookmarks), nil
	}
}

func (s *Service) IsBookmarked(ctx context.Context, newsID int64) (bool, error) {
	sess, ok := s.Session()
	if !ok {
		return false, ErrNoCredential
	}
	v, err := s.store.Query(ctx, BookmarkFlagKey(newsID, sess.User.ID), s.fetchBookmarkFlag(newsID, sess.User.ID))
	if err != nil {
		return false, err
	}
	flag, _ := v.(bool)
	return flag, nil
}

func (s *Service) fetchBookmarkFlag(newsID, userID int64) cache.FetchFunc {
	return func(ctx context.Context, _ any) (any, error) {
		bookmarks, err := s.api.ListBookmarks(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("fetch bookmarks: %w", err)
		}
		return slices.ContainsFunc(bookmarks, func(b domain.Bookmark) bool {
			return b.NewsID == newsID
		}), nil
	}
}

func (s *Service) AddBookmark(ctx context.Context, newsID int64) error {
	return s.setBookmark(ctx, newsID, true)
}

func (s *Service) RemoveBookmark(ctx context.Context, newsID int64) error {
	return s.setBookmark(ctx, newsID, false)
}

// setBookmark applies the change to the cached list and flag, then asks the
// server. On failure both keys are restored exactly.
func (s *Service) setBookmark(ctx context.Context, newsID int64, bookmarked bool) error {
	sess, ok := s.Session()
	if !ok {
		return ErrNoCredential
	}
	listKey := BookmarksKey(sess.User.ID)
	flagKey := BookmarkFlagKey(newsID, sess.User.ID)

	s.store.Cancel(listKey)
	s.store.Cancel(flagKey)
	listSnap := s.store.Snapshot(listKey)
	flagSnap := s.store.Snapshot(flagKey)

	if bookmarked {
		s.insertBookmark(listKey, newsID)
	} else {
		s.store.Patch(listKey, func(v any) any {
			items, ok := v.([]domain.NewsItem)
			if !ok {
				return v
			}
			return domain.RemoveNews(items, newsID)
		})
	}
	s.store.Write(flagKey, bookmarked)

	op, call := "add bookmark", s.api.AddBookmark
	if !bookmarked {
		op, call = "remove bookmark", s.api.RemoveBookmark
	}
	if err := call(ctx, newsID); err != nil {
		s.store.Restore(listSnap)
		s.store.Restore(flagSnap)
		s.logger.Warn("bookmark change rolled back", "news_id", newsID, "bookmarked", bookmarked, "error", err)
		return &MutationError{Op: op, NewsID: newsID, Err: err}
	}

	s.store.Invalidate(listKey, cache.Prefix)
	return nil
}

func (s *Service) insertBookmark(listKey cache.Key, newsID int64) {
	item, err := s.lookupNews(newsID)
	if errors.Is(err, ErrNewsUnknown) {
		s.logger.Debug("bookmarked item not cached, list waits for refetch", "news_id", newsID)
		return
	}
	item.BookmarkedAt = s.now()

	if s.store.Patch(listKey, func(v any) any {
		items, ok := v.([]domain.NewsItem)
		if !ok {
			return v
		}
		return domain.FilterFeed(append(slices.Clone(items), item))
	}) {
		return
	}
	s.store.Write(listKey, []domain.NewsItem{item})
}
