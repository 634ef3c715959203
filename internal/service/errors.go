package service

import (
	"errors"
	"fmt"

	"news_sync/internal/reconciler"
)

var (
	ErrNoCredential   = reconciler.ErrNoCredential
	ErrNewsUnknown    = errors.New("news item is not cached")
	ErrEmptyComment   = errors.New("comment is empty")
	ErrNotPrivileged  = errors.New("action requires an admin account")
	ErrPageOutOfOrder = errors.New("page offset is not the next page")
	ErrNotFocused     = errors.New("view is not focused")
)

// MutationError reports an optimistic change that failed on the server
// and was rolled back.
type MutationError struct {
	Op     string
	NewsID int64
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s %d rolled back: %v", e.Op, e.NewsID, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}
