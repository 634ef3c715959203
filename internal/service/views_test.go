package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/mock/gomock"

	"news_sync/internal/cache"
	"news_sync/internal/domain"
	"news_sync/internal/realtime"
)

type fakeConn struct {
	mu       sync.Mutex
	handlers map[int]realtime.Handler
	next     int
}

func (c *fakeConn) Subscribe(h realtime.Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handlers == nil {
		c.handlers = make(map[int]realtime.Handler)
	}
	id := c.next
	c.next++
	c.handlers[id] = h
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.handlers, id)
	}
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) emit(ev domain.Event) {
	c.mu.Lock()
	handlers := make([]realtime.Handler, 0, len(c.handlers))
	for _, h := range c.handlers {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
}

func (c *fakeConn) subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handlers)
}

func (s *ServiceTestSuite) connected() *fakeConn {
	conn := &fakeConn{}
	s.channel.EXPECT().Connect(gomock.Any(), "opaque-token").Return(conn, nil).AnyTimes()
	s.channel.EXPECT().Current().Return(conn, true).AnyTimes()
	return conn
}

func (s *ServiceTestSuite) items(key cache.Key) []int64 {
	entry, ok := s.store.Read(key)
	if !ok || !entry.HasValue {
		return nil
	}
	switch v := entry.Value.(type) {
	case []domain.NewsItem:
		return newsIDs(v)
	case domain.PagedNews:
		return newsIDs(v.Items())
	}
	return nil
}

func (s *ServiceTestSuite) loaded(key cache.Key) func() bool {
	return func() bool {
		entry, ok := s.store.Read(key)
		return ok && entry.HasValue && entry.Status == cache.Fresh && entry.FetchState == cache.Idle
	}
}

func (s *ServiceTestSuite) TestHomeView_FocusLoadsAndReconciles() {
	ctx := context.Background()
	s.signIn()
	conn := s.connected()
	feed := &fakeFeed{items: []domain.NewsItem{newsItem(1, 1), newsItem(2, 1), newsItem(3, 2)}}
	s.api.EXPECT().ListNews(gomock.Any(), gomock.Any()).DoAndReturn(feed.list).AnyTimes()

	home := s.service.NewHomeView(nil)
	s.Require().NoError(home.Focus(ctx))
	defer home.Blur()

	breaking := BreakingNewsKey(7, "opaque-token")
	all := FeedKey(7, "opaque-token", 0)
	s.Eventually(s.loaded(breaking), time.Second, 5*time.Millisecond)
	s.Eventually(s.loaded(all), time.Second, 5*time.Millisecond)
	s.True(home.Focused())
	s.True(home.Live())
	s.Equal(1, conn.subscribers())

	before := feed.queried(func(q domain.NewsQuery) bool { return q.Limit == 2 })
	feed.remove(2)
	conn.emit(domain.NewsDeleted{ID: 2})

	s.Equal([]int64{1, 3}, s.items(breaking))
	s.Equal([]int64{1}, s.items(all))

	s.Eventually(func() bool {
		return feed.queried(func(q domain.NewsQuery) bool { return q.Limit == 2 }) > before
	}, time.Second, 5*time.Millisecond)
	s.Eventually(s.loaded(all), time.Second, 5*time.Millisecond)
	s.Equal([]int64{1, 3}, s.items(all))
}

func (s *ServiceTestSuite) TestHomeView_BlurStopsEvents() {
	ctx := context.Background()
	s.signIn()
	conn := s.connected()
	feed := &fakeFeed{items: []domain.NewsItem{newsItem(1, 1), newsItem(2, 1)}}
	s.api.EXPECT().ListNews(gomock.Any(), gomock.Any()).DoAndReturn(feed.list).AnyTimes()

	home := s.service.NewHomeView(nil)
	s.Require().NoError(home.Focus(ctx))
	breaking := BreakingNewsKey(7, "opaque-token")
	s.Eventually(s.loaded(breaking), time.Second, 5*time.Millisecond)
	s.Eventually(s.loaded(FeedKey(7, "opaque-token", 0)), time.Second, 5*time.Millisecond)

	home.Blur()
	conn.emit(domain.NewsDeleted{ID: 1})

	s.False(home.Focused())
	s.False(home.Live())
	s.Equal(0, conn.subscribers())
	s.Equal([]int64{1, 2}, s.items(breaking))
	s.ErrorIs(home.Refresh(ctx), ErrNotFocused)
}

func (s *ServiceTestSuite) TestHomeView_FocusWithoutChannel() {
	ctx := context.Background()
	s.signIn()
	s.channel.EXPECT().Connect(gomock.Any(), "opaque-token").Return(nil, errServer)
	s.channel.EXPECT().Current().Return(nil, false)
	feed := &fakeFeed{items: []domain.NewsItem{newsItem(1, 1)}}
	s.api.EXPECT().ListNews(gomock.Any(), gomock.Any()).DoAndReturn(feed.list).AnyTimes()

	home := s.service.NewHomeView(nil)
	s.Require().NoError(home.Focus(ctx))
	defer home.Blur()

	s.True(home.Focused())
	s.False(home.Live())
	s.Eventually(s.loaded(BreakingNewsKey(7, "opaque-token")), time.Second, 5*time.Millisecond)
	s.Eventually(s.loaded(FeedKey(7, "opaque-token", 0)), time.Second, 5*time.Millisecond)
}

func (s *ServiceTestSuite) TestHomeView_FocusRequiresSession() {
	home := s.service.NewHomeView(nil)

	s.ErrorIs(home.Focus(context.Background()), ErrNoCredential)
}

func (s *ServiceTestSuite) TestHomeView_SetCategorySwapsFeed() {
	ctx := context.Background()
	s.signIn()
	conn := s.connected()
	feed := &fakeFeed{items: []domain.NewsItem{newsItem(1, 1), newsItem(2, 2), newsItem(3, 2)}}
	s.api.EXPECT().ListNews(gomock.Any(), gomock.Any()).DoAndReturn(feed.list).AnyTimes()

	home := s.service.NewHomeView(nil)
	s.Require().NoError(home.Focus(ctx))
	defer home.Blur()
	s.Eventually(s.loaded(FeedKey(7, "opaque-token", 0)), time.Second, 5*time.Millisecond)
	s.Eventually(s.loaded(BreakingNewsKey(7, "opaque-token")), time.Second, 5*time.Millisecond)

	s.Require().NoError(home.SetCategory(2))
	second := FeedKey(7, "opaque-token", 2)
	s.Eventually(s.loaded(second), time.Second, 5*time.Millisecond)
	s.Equal(int64(2), home.Category())
	s.Equal([]int64{2, 3}, s.items(second))

	feed.remove(3)
	conn.emit(domain.NewsPaused{ID: 3, IsPaused: true})

	s.Equal([]int64{2}, s.items(second))
	s.Equal([]int64{1, 2}, s.items(FeedKey(7, "opaque-token", 0)))
}

func (s *ServiceTestSuite) TestHomeView_RefreshResetsCarousel() {
	ctx := context.Background()
	s.signIn()
	s.connected()
	feed := &fakeFeed{items: []domain.NewsItem{newsItem(1, 1)}}
	s.api.EXPECT().ListNews(gomock.Any(), gomock.Any()).DoAndReturn(feed.list).AnyTimes()
	s.state.EXPECT().ClearSlideIndex(ctx).Return(nil)

	home := s.service.NewHomeView(nil)
	s.Require().NoError(home.Focus(ctx))
	defer home.Blur()
	s.Eventually(s.loaded(BreakingNewsKey(7, "opaque-token")), time.Second, 5*time.Millisecond)
	s.Eventually(s.loaded(FeedKey(7, "opaque-token", 0)), time.Second, 5*time.Millisecond)

	before := feed.queried(func(domain.NewsQuery) bool { return true })
	s.NoError(home.Refresh(ctx))
	s.Equal(before+2, feed.queried(func(domain.NewsQuery) bool { return true }))
}

func (s *ServiceTestSuite) TestSavedView_NotifiesOnChange() {
	ctx := context.Background()
	s.signIn()
	conn := s.connected()
	first, second := newsItem(1, 1), newsItem(2, 1)
	s.api.EXPECT().ListBookmarks(gomock.Any(), int64(7)).Return([]domain.Bookmark{
		{ID: 10, NewsID: 1, News: &first},
		{ID: 11, NewsID: 2, News: &second},
	}, nil).AnyTimes()

	var (
		mu      sync.Mutex
		updates int
	)
	saved := s.service.NewSavedView(func(cache.Entry) {
		mu.Lock()
		defer mu.Unlock()
		updates++
	})
	s.Require().NoError(saved.Focus(ctx))
	defer saved.Blur()
	s.Eventually(s.loaded(BookmarksKey(7)), time.Second, 5*time.Millisecond)

	conn.emit(domain.NewsUpdated{ID: 1, Fields: map[string]json.RawMessage{"title": json.RawMessage(`"renamed"`)}})
	entry, _ := s.store.Read(BookmarksKey(7))
	s.Equal("renamed", entry.Value.([]domain.NewsItem)[0].Title)

	conn.emit(domain.NewsDeleted{ID: 1})
	s.Equal([]int64{2}, s.items(BookmarksKey(7)))
	mu.Lock()
	defer mu.Unlock()
	s.GreaterOrEqual(updates, 2)
}

func (s *ServiceTestSuite) TestDetailView_PausedItemBecomesUnavailable() {
	ctx := context.Background()
	s.signIn()
	conn := s.connected()
	s.api.EXPECT().GetNews(gomock.Any(), int64(4)).Return(newsItem(4, 1), nil)
	s.api.EXPECT().GetLikes(gomock.Any(), int64(4)).Return(domain.LikeState{LikesCount: 2}, nil)
	s.api.EXPECT().ListBookmarks(gomock.Any(), int64(7)).Return(nil, nil)

	detail := s.service.NewDetailView(4, nil)
	s.Require().NoError(detail.Focus(ctx))
	defer detail.Blur()
	s.Eventually(s.loaded(NewsKey(4)), time.Second, 5*time.Millisecond)
	s.Eventually(s.loaded(LikesKey(4)), time.Second, 5*time.Millisecond)
	s.Eventually(s.loaded(BookmarkFlagKey(4, 7)), time.Second, 5*time.Millisecond)

	conn.emit(domain.NewsPaused{ID: 4, IsPaused: true})

	entry, _ := s.store.Read(NewsKey(4))
	s.Equal(domain.NewsDetail{ID: 4, Unavailable: true}, entry.Value)
	likes, _ := s.store.Read(LikesKey(4))
	s.Equal(domain.LikeState{NewsID: 4, LikesCount: 2}, likes.Value)
}

func (s *ServiceTestSuite) TestLogout_BlursFocusedViews() {
	ctx := context.Background()
	s.signIn()
	conn := s.connected()
	s.api.EXPECT().ListBookmarks(gomock.Any(), int64(7)).Return(nil, nil).AnyTimes()

	saved := s.service.NewSavedView(nil)
	s.Require().NoError(saved.Focus(ctx))
	s.Eventually(s.loaded(BookmarksKey(7)), time.Second, 5*time.Millisecond)

	s.api.EXPECT().SignOut(ctx).Return(nil)
	s.channel.EXPECT().Disconnect()
	s.api.EXPECT().SetToken("")
	s.state.EXPECT().ClearSession(ctx).Return(nil)

	s.NoError(s.service.Logout(ctx))

	s.False(saved.Focused())
	s.Equal(0, conn.subscribers())
}
