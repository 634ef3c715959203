package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"news_sync/internal/domain"
	"news_sync/internal/realtime"
)

type NewsAPI interface {
	SetToken(token string)
	ListNews(ctx context.Context, q domain.NewsQuery) (domain.NewsList, error)
	GetNews(ctx context.Context, id int64) (domain.NewsItem, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListBookmarks(ctx context.Context, userID int64) ([]domain.Bookmark, error)
	AddBookmark(ctx context.Context, newsID int64) error
	RemoveBookmark(ctx context.Context, newsID int64) error
	GetLikes(ctx context.Context, newsID int64) (domain.LikeState, error)
	ToggleLike(ctx context.Context, newsID, userID int64) (domain.LikeState, error)
	ListComments(ctx context.Context, newsID int64, page, limit int) (domain.CommentPage, error)
	AddComment(ctx context.Context, newsID, userID int64, content string) error
	EditComment(ctx context.Context, commentID int64, content string) error
	DeleteComment(ctx context.Context, commentID int64) error
	ApproveComment(ctx context.Context, commentID int64) error
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	SignOut(ctx context.Context) error
}

type Channel interface {
	Connect(ctx context.Context, credential string) (realtime.Conn, error)
	Disconnect()
	Current() (realtime.Conn, bool)
}

type LocalState interface {
	MarkLaunched(ctx context.Context) error
	SlideIndex(ctx context.Context) (int, error)
	SetSlideIndex(ctx context.Context, index int) error
	ClearSlideIndex(ctx context.Context) error
	ShouldShowBirthday(ctx context.Context, user domain.User) (bool, error)
	SaveSession(ctx context.Context, s domain.Session) error
	LoadSession(ctx context.Context) (domain.Session, error)
	ClearSession(ctx context.Context) error
}
