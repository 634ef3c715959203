package reconciler

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

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

type fakeChannel struct {
	conn *fakeConn
}

func (f *fakeChannel) Current() (realtime.Conn, bool) {
	if f.conn == nil {
		return nil, false
	}
	return f.conn, true
}

type ReconcilerTestSuite struct {
	suite.Suite

	store   *cache.Store
	conn    *fakeConn
	channel *fakeChannel
	logger  *slog.Logger

	breaking cache.Key
	feed     cache.Key
	detail   cache.Key
	likes    cache.Key

	feedFetches   atomic.Int32
	detailFetches atomic.Int32
	server        []domain.NewsItem
	serverMu      sync.Mutex
}

func (s *ReconcilerTestSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.store = cache.New(cache.Options{StaleTime: time.Minute}, s.logger)
	s.conn = &fakeConn{}
	s.channel = &fakeChannel{conn: s.conn}

	s.breaking = cache.NewKey("breakingNews", 1, "tok")
	s.feed = cache.NewKey("allNews", 1, "tok", 0)
	s.detail = cache.NewKey("news", 5)
	s.likes = cache.NewKey("likes", 5)

	s.feedFetches.Store(0)
	s.detailFetches.Store(0)
	s.server = nil
}

func (s *ReconcilerTestSuite) TearDownTest() {
	s.store.Close()
}

func TestReconcilerTestSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerTestSuite))
}

func news(id int64, title string) domain.NewsItem {
	return domain.NewsItem{ID: id, Title: title, Category: &domain.Category{ID: 1, Name: "Campus"}}
}

func ids(items []domain.NewsItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, i := range items {
		out = append(out, i.ID)
	}
	return out
}

func (s *ReconcilerTestSuite) newReconciler(t Targets) *Reconciler {
	return New(s.store, s.channel, t, Config{InvalidateDelay: 20 * time.Millisecond}, s.logger)
}

func (s *ReconcilerTestSuite) homeTargets() Targets {
	return Targets{Lists: []cache.Key{s.breaking, s.feed}}
}

func (s *ReconcilerTestSuite) seedHome() {
	s.store.Write(s.breaking, []domain.NewsItem{news(1, "a"), news(5, "A"), news(9, "z")})
	s.store.Write(s.feed, domain.PagedNews{
		Pages: []domain.Page{
			{Items: []domain.NewsItem{news(5, "A"), news(6, "b")}, HasMore: true, NextOffset: 10},
			{Items: []domain.NewsItem{news(7, "c")}, HasMore: false, NextOffset: 20},
		},
		PageOffsets: []int{0, 10},
	})
}

func (s *ReconcilerTestSuite) setServer(items ...domain.NewsItem) {
	s.serverMu.Lock()
	defer s.serverMu.Unlock()
	s.server = items
}

func (s *ReconcilerTestSuite) observeFeed() *cache.Observer {
	return s.store.Observe(s.feed, func(context.Context, any) (any, error) {
		s.feedFetches.Add(1)
		s.serverMu.Lock()
		defer s.serverMu.Unlock()
		return domain.PagedNews{
			Pages:       []domain.Page{{Items: domain.FilterFeed(s.server), NextOffset: 10}},
			PageOffsets: []int{0},
		}, nil
	}, nil)
}

func (s *ReconcilerTestSuite) readList(key cache.Key) []domain.NewsItem {
	e, ok := s.store.Read(key)
	s.Require().True(ok)
	switch v := e.Value.(type) {
	case []domain.NewsItem:
		return v
	case domain.PagedNews:
		return v.Items()
	}
	s.FailNow("unexpected cached value")
	return nil
}

func (s *ReconcilerTestSuite) readDetail() domain.NewsDetail {
	e, ok := s.store.Read(s.detail)
	s.Require().True(ok)
	return e.Value.(domain.NewsDetail)
}

func (s *ReconcilerTestSuite) TestActivate_RequiresCredentialAndChannel() {
	r := s.newReconciler(s.homeTargets())
	s.ErrorIs(r.Activate(""), ErrNoCredential)

	r = New(s.store, &fakeChannel{}, s.homeTargets(), Config{}, s.logger)
	s.ErrorIs(r.Activate("tok"), ErrNoChannel)
	s.False(r.Active())
}

func (s *ReconcilerTestSuite) TestActivateDeactivate_ManagesSubscription() {
	r := s.newReconciler(s.homeTargets())

	s.Require().NoError(r.Activate("tok"))
	s.Require().NoError(r.Activate("tok"))
	s.Equal(1, s.conn.subscribers())
	s.True(r.Active())

	r.Deactivate()
	r.Deactivate()
	s.Equal(0, s.conn.subscribers())
	s.False(r.Active())
}

func (s *ReconcilerTestSuite) TestInactive_IgnoresEvents() {
	s.seedHome()
	r := s.newReconciler(s.homeTargets())

	r.Handle(domain.NewsDeleted{ID: 5})

	s.Equal([]int64{1, 5, 9}, ids(s.readList(s.breaking)))
}

func (s *ReconcilerTestSuite) TestDeleted_RemovesFromFlatAndPagedLists() {
	s.seedHome()
	r := s.newReconciler(s.homeTargets())
	s.Require().NoError(r.Activate("tok"))
	defer r.Deactivate()

	s.conn.emit(domain.NewsDeleted{ID: 5})

	s.Equal([]int64{1, 9}, ids(s.readList(s.breaking)))
	s.Equal([]int64{6, 7}, ids(s.readList(s.feed)))
}

func (s *ReconcilerTestSuite) TestDeleted_IsIdempotent() {
	s.seedHome()
	r := s.newReconciler(s.homeTargets())
	s.Require().NoError(r.Activate("tok"))
	defer r.Deactivate()

	s.conn.emit(domain.NewsDeleted{ID: 5})
	once := s.readList(s.feed)
	s.conn.emit(domain.NewsDeleted{ID: 5})

	s.Equal(once, s.readList(s.feed))
}

func (s *ReconcilerTestSuite) TestDeleted_SchedulesDelayedInvalidation() {
	s.seedHome()
	r := s.newReconciler(s.homeTargets())
	s.Require().NoError(r.Activate("tok"))
	defer r.Deactivate()

	s.conn.emit(domain.NewsDeleted{ID: 5})

	e, _ := s.store.Read(s.feed)
	s.Equal(cache.Fresh, e.Status)

	s.Eventually(func() bool {
		e, _ := s.store.Read(s.feed)
		return e.Status == cache.Stale
	}, time.Second, 5*time.Millisecond)
}

func (s *ReconcilerTestSuite) TestDeactivate_CancelsScheduledInvalidation() {
	s.seedHome()
	r := s.newReconciler(s.homeTargets())
	s.Require().NoError(r.Activate("tok"))

	s.conn.emit(domain.NewsDeleted{ID: 5})
	r.Deactivate()
	time.Sleep(80 * time.Millisecond)

	e, _ := s.store.Read(s.feed)
	s.Equal(cache.Fresh, e.Status)
}

func (s *ReconcilerTestSuite) TestDeleted_MarksOpenDetailUnavailable() {
	item := news(5, "A")
	s.store.Write(s.detail, domain.NewsDetail{ID: 5, Item: &item})
	r := s.newReconciler(Targets{Detail: &DetailTarget{NewsID: 5, Key: s.detail}})
	s.Require().NoError(r.Activate("tok"))
	defer r.Deactivate()

	s.conn.emit(domain.NewsDeleted{ID: 6})
	s.False(s.readDetail().Unavailable)

	s.conn.emit(domain.NewsDeleted{ID: 5})
	s.True(s.readDetail().Unavailable)
}

func (s *ReconcilerTestSuite) TestPaused_RemovesAndMarksDetail() {
	s.seedHome()
	item := news(5, "A")
	s.store.Write(s.detail, domain.NewsDetail{ID: 5, Item: &item})
	r := s.newReconciler(Targets{
		Lists:  []cache.Key{s.breaking},
		Detail: &DetailTarget{NewsID: 5, Key: s.detail},
	})
	s.Require().NoError(r.Activate("tok"))
	defer r.Deactivate()

	s.conn.emit(domain.NewsPaused{ID: 5, IsPaused: true})

	s.Equal([]int64{1, 9}, ids(s.readList(s.breaking)))
	s.True(s.readDetail().Unavailable)
}

func (s *ReconcilerTestSuite) TestPauseUnpause_RoundTripRestoresItem() {
	s.setServer(news(5, "A"), news(6, "b"))
	obs := s.observeFeed()
	defer obs.Close()
	s.Eventually(func() bool {
		e, _ := s.store.Read(s.feed)
		return e.HasValue
	}, time.Second, 5*time.Millisecond)

	r := s.newReconciler(Targets{Lists: []cache.Key{s.feed}})
	s.Require().NoError(r.Activate("tok"))
	defer r.Deactivate()

	paused := news(5, "A")
	paused.IsPaused = true
	s.setServer(paused, news(6, "b"))
	s.conn.emit(domain.NewsPaused{ID: 5, IsPaused: true})
	s.Equal([]int64{6}, ids(s.readList(s.feed)))

	s.Eventually(func() bool { return s.feedFetches.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Equal([]int64{6}, ids(s.readList(s.feed)))

	s.setServer(news(5, "A"), news(6, "b"))
	s.conn.emit(domain.NewsPaused{ID: 5, IsPaused: false})

	s.Eventually(func() bool {
		return len(s.readList(s.feed)) == 2
	}, time.Second, 5*time.Millisecond)
	s.Equal([]int64{5, 6}, ids(s.readList(s.feed)))
}

func (s *ReconcilerTestSuite) TestUnpaused_DoesNotPatch() {
	s.seedHome()
	r := s.newReconciler(s.homeTargets())
	s.Require().NoError(r.Activate("tok"))
	defer r.Deactivate()

	s.conn.emit(domain.NewsPaused{ID: 42, IsPaused: false})

	s.Equal([]int64{1, 5, 9}, ids(s.readList(s.breaking)))
	s.Eventually(func() bool {
		e, _ := s.store.Read(s.breaking)
		return e.Status == cache.Stale
	}, time.Second, 5*time.Millisecond)
}

func (s *ReconcilerTestSuite) TestUpdated_MergesFieldsEverywhere() {
	s.seedHome()
	item := news(5, "A")
	item.Content = "body"
	s.store.Write(s.detail, domain.NewsDetail{ID: 5, Item: &item})
	r := s.newReconciler(Targets{
		Lists:  []cache.Key{s.breaking, s.feed},
		Detail: &DetailTarget{NewsID: 5, Key: s.detail, Related: []cache.Key{s.likes}},
	})
	s.Require().NoError(r.Activate("tok"))
	defer r.Deactivate()

	s.conn.emit(domain.NewsUpdated{ID: 5, Fields: map[string]json.RawMessage{"title": json.RawMessage(`"B"`)}})

	for _, key := range []cache.Key{s.breaking, s.feed} {
		for _, it := range s.readList(key) {
			if it.ID == 5 {
				s.Equal("B", it.Title)
			}
		}
	}
	d := s.readDetail()
	s.Equal("B", d.Item.Title)
	s.Equal("body", d.Item.Content)
	s.Equal("Campus", d.Item.Category.Name)
}

func (s *ReconcilerTestSuite) TestUpdated_ReappliesFeedFilter() {
	s.seedHome()
	r := s.newReconciler(s.homeTargets())
	s.Require().NoError(r.Activate("tok"))
	defer r.Deactivate()

	s.conn.emit(domain.NewsUpdated{ID: 5, Fields: map[string]json.RawMessage{"Category": json.RawMessage(`null`)}})

	s.Equal([]int64{1, 9}, ids(s.readList(s.breaking)))
}

func (s *ReconcilerTestSuite) TestUpdated_BadFieldLeavesItem() {
	s.seedHome()
	r := s.newReconciler(s.homeTargets())
	s.Require().NoError(r.Activate("tok"))
	defer r.Deactivate()

	s.NotPanics(func() {
		s.conn.emit(domain.NewsUpdated{ID: 5, Fields: map[string]json.RawMessage{"title": json.RawMessage(`42`)}})
	})

	s.Equal("A", s.readList(s.breaking)[1].Title)
}

func (s *ReconcilerTestSuite) TestUpdated_InvalidatesDetailAndRelated() {
	item := news(5, "A")
	s.store.Write(s.detail, domain.NewsDetail{ID: 5, Item: &item})
	s.store.Write(s.likes, domain.LikeState{NewsID: 5, LikesCount: 1})
	r := s.newReconciler(Targets{Detail: &DetailTarget{NewsID: 5, Key: s.detail, Related: []cache.Key{s.likes}}})
	s.Require().NoError(r.Activate("tok"))
	defer r.Deactivate()

	s.conn.emit(domain.NewsUpdated{ID: 5, Fields: map[string]json.RawMessage{"title": json.RawMessage(`"B"`)}})

	s.Eventually(func() bool {
		d, _ := s.store.Read(s.detail)
		l, _ := s.store.Read(s.likes)
		return d.Status == cache.Stale && l.Status == cache.Stale
	}, time.Second, 5*time.Millisecond)
}

func (s *ReconcilerTestSuite) TestResync_InvalidatesAllKeysImmediately() {
	s.seedHome()
	r := s.newReconciler(s.homeTargets())
	s.Require().NoError(r.Activate("tok"))
	defer r.Deactivate()

	s.conn.emit(domain.Resync{})

	for _, key := range []cache.Key{s.breaking, s.feed} {
		e, _ := s.store.Read(key)
		s.Equal(cache.Stale, e.Status)
	}
}

func (s *ReconcilerTestSuite) TestRetarget_SwitchesPatchedKeys() {
	s.seedHome()
	r := s.newReconciler(Targets{Lists: []cache.Key{s.breaking}})
	s.Require().NoError(r.Activate("tok"))
	defer r.Deactivate()

	r.Retarget(Targets{Lists: []cache.Key{s.feed}})
	s.conn.emit(domain.NewsDeleted{ID: 5})

	s.Equal([]int64{1, 5, 9}, ids(s.readList(s.breaking)))
	s.Equal([]int64{6, 7}, ids(s.readList(s.feed)))
}

func (s *ReconcilerTestSuite) TestPatch_MissingKeysAreTolerated() {
	r := s.newReconciler(s.homeTargets())
	s.Require().NoError(r.Activate("tok"))
	defer r.Deactivate()

	s.NotPanics(func() {
		s.conn.emit(domain.NewsDeleted{ID: 5})
		s.conn.emit(domain.NewsUpdated{ID: 5, Fields: map[string]json.RawMessage{"title": json.RawMessage(`"B"`)}})
	})
	_, ok := s.store.Read(s.breaking)
	s.False(ok)
}
