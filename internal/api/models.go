package api

import "news_sync/internal/domain"

type newsListResponse struct {
	News    []domain.NewsItem `json:"news"`
	HasMore bool              `json:"hasMore"`
}

type addBookmarkRequest struct {
	NewsID int64 `json:"newsId"`
}

type toggleLikeRequest struct {
	UserID int64 `json:"userId,omitempty"`
}

type likesResponse struct {
	LikesCount int  `json:"likesCount"`
	IsLiked    bool `json:"isLiked"`
}

type addCommentRequest struct {
	UserID  int64  `json:"userId"`
	Content string `json:"content"`
}

type editCommentRequest struct {
	Content string `json:"content"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
