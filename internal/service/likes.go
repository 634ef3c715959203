package service

import (
	"context"
	"fmt"

	"news_sync/internal/cache"
	"news_sync/internal/domain"
)

func (s *Service) Likes(ctx context.Context, newsID int64) (domain.LikeState, error) {
	v, err := s.store.Query(ctx, LikesKey(newsID), s.fetchLikes(newsID))
	if err != nil {
		return domain.LikeState{}, err
	}
	state, _ := v.(domain.LikeState)
	return state, nil
}

func (s *Service) fetchLikes(newsID int64) cache.FetchFunc {
	return func(ctx context.Context, _ any) (any, error) {
		state, err := s.api.GetLikes(ctx, newsID)
		if err != nil {
			return nil, fmt.Errorf("fetch likes: %w", err)
		}
		state.NewsID = newsID
		return state, nil
	}
}

// ToggleLike flips the cached like immediately and replaces it with the
// server's counts once confirmed.
func (s *Service) ToggleLike(ctx context.Context, newsID int64) (domain.LikeState, error) {
	sess, ok := s.Session()
	if !ok {
		return domain.LikeState{}, ErrNoCredential
	}
	key := LikesKey(newsID)

	s.store.Cancel(key)
	snap := s.store.Snapshot(key)
	s.store.Patch(key, func(v any) any {
		state, ok := v.(domain.LikeState)
		if !ok {
			return v
		}
		return state.Toggled()
	})

	state, err := s.api.ToggleLike(ctx, newsID, sess.User.ID)
	if err != nil {
		s.store.Restore(snap)
		s.logger.Warn("like toggle rolled back", "news_id", newsID, "error", err)
		return domain.LikeState{}, &MutationError{Op: "toggle like", NewsID: newsID, Err: err}
	}
	state.NewsID = newsID

	s.store.Write(key, state)
	s.store.Invalidate(NewsKey(newsID), cache.Exact)
	return state, nil
}
