package service

import (
	"context"
	"fmt"
	"strings"

	"news_sync/internal/cache"
	"news_sync/internal/domain"
)

// Comments returns one page of comments as the current user may see them.
func (s *Service) Comments(ctx context.Context, newsID int64, page int) (domain.CommentPage, error) {
	sess, ok := s.Session()
	if !ok {
		return domain.CommentPage{}, ErrNoCredential
	}
	if page < 1 {
		page = 1
	}
	v, err := s.store.Query(ctx, CommentsKey(newsID, page), func(ctx context.Context, _ any) (any, error) {
		comments, err := s.api.ListComments(ctx, newsID, page, s.feed.CommentsLimit)
		if err != nil {
			return nil, fmt.Errorf("fetch comments: %w", err)
		}
		return comments, nil
	})
	if err != nil {
		return domain.CommentPage{}, err
	}
	comments, _ := v.(domain.CommentPage)
	return comments.Visible(sess.User.Privileged()), nil
}

func (s *Service) AddComment(ctx context.Context, newsID int64, content string) error {
	sess, ok := s.Session()
	if !ok {
		return ErrNoCredential
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyComment
	}
	if err := s.api.AddComment(ctx, newsID, sess.User.ID, content); err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	s.store.Invalidate(CommentsPrefix(newsID), cache.Prefix)
	return nil
}

func (s *Service) EditComment(ctx context.Context, newsID, commentID int64, content string) error {
	if _, ok := s.Session(); !ok {
		return ErrNoCredential
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyComment
	}
	if err := s.api.EditComment(ctx, commentID, content); err != nil {
		return fmt.Errorf("edit comment: %w", err)
	}
	s.store.Invalidate(CommentsPrefix(newsID), cache.Prefix)
	return nil
}

// DeleteComment removes the comment from the cached page in place.
func (s *Service) DeleteComment(ctx context.Context, newsID int64, page int, commentID int64) error {
	if _, ok := s.Session(); !ok {
		return ErrNoCredential
	}
	if err := s.api.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	s.store.Patch(CommentsKey(newsID, page), func(v any) any {
		comments, ok := v.(domain.CommentPage)
		if !ok {
			return v
		}
		return comments.Without(commentID)
	})
	return nil
}

func (s *Service) ApproveComment(ctx context.Context, newsID, commentID int64) error {
	sess, ok := s.Session()
	if !ok {
		return ErrNoCredential
	}
	if !sess.User.Privileged() {
		return ErrNotPrivileged
	}
	if err := s.api.ApproveComment(ctx, commentID); err != nil {
		return fmt.Errorf("approve comment: %w", err)
	}
	s.store.Invalidate(CommentsPrefix(newsID), cache.Prefix)
	return nil
}
