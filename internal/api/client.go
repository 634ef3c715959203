package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"news_sync/internal/domain"
)

const userAgent = "newsctl/1.0"

// Config holds REST client configuration.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client talks to the news backend. Reads are retried on transport errors
// and 5xx/429 responses; mutations are sent once.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger

	mu    sync.RWMutex
	token string
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("component", "api"),
	}
}

// SetToken sets the bearer credential sent with every request. An empty
// token sends none.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) ListNews(ctx context.Context, q domain.NewsQuery) (domain.NewsList, error) {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.CategoryID != 0 {
		params.Set("categoryId", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.Query != "" {
		params.Set("query", q.Query)
	}

	var resp newsListResponse
	if err := c.do(ctx, http.MethodGet, "/api/news/user", params, nil, &resp); err != nil {
		return domain.NewsList{}, fmt.Errorf("list news: %w", err)
	}
	return domain.NewsList{Items: resp.News, HasMore: resp.HasMore}, nil
}

func (c *Client) GetNews(ctx context.Context, id int64) (domain.NewsItem, error) {
	var item domain.NewsItem
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/news/news/%d", id), nil, nil, &item); err != nil {
		return domain.NewsItem{}, fmt.Errorf("get news %d: %w", id, err)
	}
	return item, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &categories); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (c *Client) ListBookmarks(ctx context.Context, userID int64) ([]domain.Bookmark, error) {
	var bookmarks []domain.Bookmark
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/bookmarks/%d", userID), nil, nil, &bookmarks); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return bookmarks, nil
}

func (c *Client) AddBookmark(ctx context.Context, newsID int64) error {
	if err := c.do(ctx, http.MethodPost, "/api/bookmarks", nil, addBookmarkRequest{NewsID: newsID}, nil); err != nil {
		return fmt.Errorf("add bookmark %d: %w", newsID, err)
	}
	return nil
}

func (c *Client) RemoveBookmark(ctx context.Context, newsID int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/bookmarks/%d", newsID), nil, nil, nil); err != nil {
		return fmt.Errorf("remove bookmark %d: %w", newsID, err)
	}
	return nil
}

func (c *Client) GetLikes(ctx context.Context, newsID int64) (domain.LikeState, error) {
	var resp likesResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/likes/%d", newsID), nil, nil, &resp); err != nil {
		return domain.LikeState{}, fmt.Errorf("get likes %d: %w", newsID, err)
	}
	return domain.LikeState{NewsID: newsID, LikesCount: resp.LikesCount, IsLiked: resp.IsLiked}, nil
}

func (c *Client) ToggleLike(ctx context.Context, newsID, userID int64) (domain.LikeState, error) {
	var resp likesResponse
	path := fmt.Sprintf("/api/likes/%d", newsID)
	if err := c.do(ctx, http.MethodPost, path, nil, toggleLikeRequest{UserID: userID}, &resp); err != nil {
		return domain.LikeState{}, fmt.Errorf("toggle like %d: %w", newsID, err)
	}
	return domain.LikeState{NewsID: newsID, LikesCount: resp.LikesCount, IsLiked: resp.IsLiked}, nil
}

func (c *Client) ListComments(ctx context.Context, newsID int64, page, limit int) (domain.CommentPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	var resp domain.CommentPage
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/comments/%d", newsID), params, nil, &resp); err != nil {
		return domain.CommentPage{}, fmt.Errorf("list comments %d: %w", newsID, err)
	}
	return resp, nil
}

func (c *Client) AddComment(ctx context.Context, newsID, userID int64, content string) error {
	body := addCommentRequest{UserID: userID, Content: content}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/comments/%d", newsID), nil, body, nil); err != nil {
		return fmt.Errorf("add comment to %d: %w", newsID, err)
	}
	return nil
}

func (c *Client) EditComment(ctx context.Context, commentID int64, content string) error {
	body := editCommentRequest{Content: content}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/comments/edit/%d", commentID), nil, body, nil); err != nil {
		return fmt.Errorf("edit comment %d: %w", commentID, err)
	}
	return nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/comments/%d", commentID), nil, nil, nil); err != nil {
		return fmt.Errorf("delete comment %d: %w", commentID, err)
	}
	return nil
}

func (c *Client) ApproveComment(ctx context.Context, commentID int64) error {
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/comments/approve/%d", commentID), nil, struct{}{}, nil); err != nil {
		return fmt.Errorf("approve comment %d: %w", commentID, err)
	}
	return nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	var resp domain.Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin", nil, signInRequest{Email: email, Password: password}, &resp); err != nil {
		return domain.Session{}, fmt.Errorf("sign in: %w", err)
	}
	if resp.Token == "" {
		return domain.Session{}, errors.New("sign in: response has no token")
	}
	return resp, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/signout", nil, struct{}{}, nil); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	attempts := 1
	if method == http.MethodGet {
		attempts = c.maxAttempts
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = c.doRequest(ctx, method, path, query, body, out)
		if err == nil {
			return nil
		}

		if attempt == attempts || !retryable(err) {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"method", method,
			"path", path,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return err
}

func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := ulid.Make().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request done",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(method, path, resp.StatusCode, readErrorBody(resp.Body))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &decodeError{err: err}
	}
	return nil
}

func readErrorBody(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var e errorResponse
	if json.Unmarshal(raw, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}
