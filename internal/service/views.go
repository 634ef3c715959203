package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"news_sync/internal/cache"
	"news_sync/internal/domain"
	"news_sync/internal/reconciler"
)

type binding struct {
	key   cache.Key
	fetch cache.FetchFunc
}

// view holds the observers and reconciler of one screen. Focusing
// revalidates its keys and subscribes to live events; blurring releases
// both.
type view struct {
	svc      *Service
	self     blurrer
	rec      *reconciler.Reconciler
	onChange cache.Listener

	mu        sync.Mutex
	focused   bool
	observers []*cache.Observer
}

func (v *view) init(svc *Service, self blurrer, onChange cache.Listener) {
	v.svc = svc
	v.self = self
	v.onChange = onChange
	v.rec = reconciler.New(svc.store, svc.channel, reconciler.Targets{}, reconciler.Config{
		InvalidateDelay: svc.cacheCfg.InvalidateDelay,
	}, svc.logger)
}

func (v *view) focus(ctx context.Context, bind func(domain.Session) ([]binding, reconciler.Targets)) error {
	sess, ok := v.svc.Session()
	if !ok {
		return ErrNoCredential
	}
	if _, err := v.svc.channel.Connect(ctx, sess.Token); err != nil {
		v.svc.logger.Warn("live channel unavailable", "error", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.focused {
		return nil
	}

	bindings, targets := bind(sess)
	v.rebindLocked(bindings, targets)
	if err := v.rec.Activate(sess.Token); err != nil {
		if !errors.Is(err, reconciler.ErrNoChannel) {
			v.releaseLocked()
			return fmt.Errorf("activate reconciler: %w", err)
		}
		v.svc.logger.Warn("focused without live updates", "error", err)
	}
	v.focused = true
	v.svc.register(v.self)
	return nil
}

// rebindLocked keeps observers whose key is still bound and observes the
// new keys after marking them stale.
func (v *view) rebindLocked(bindings []binding, targets reconciler.Targets) {
	kept := make([]*cache.Observer, 0, len(bindings))
	for _, b := range bindings {
		idx := slices.IndexFunc(v.observers, func(o *cache.Observer) bool {
			return o.Key().Equal(b.key)
		})
		if idx >= 0 {
			kept = append(kept, v.observers[idx])
			continue
		}
		v.svc.store.Invalidate(b.key, cache.Exact)
		kept = append(kept, v.svc.store.Observe(b.key, b.fetch, v.onChange))
	}
	for _, o := range v.observers {
		if !slices.Contains(kept, o) {
			o.Close()
		}
	}
	v.observers = kept
	v.rec.Retarget(targets)
}

func (v *view) blur() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.focused {
		return
	}
	v.releaseLocked()
	v.focused = false
	v.svc.unregister(v.self)
}

func (v *view) releaseLocked() {
	v.rec.Deactivate()
	for _, o := range v.observers {
		o.Close()
	}
	v.observers = nil
}

func (v *view) Focused() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.focused
}

// Live reports whether channel events currently reach this view.
func (v *view) Live() bool {
	return v.rec.Active()
}

func (v *view) refetch(ctx context.Context) error {
	v.mu.Lock()
	if !v.focused {
		v.mu.Unlock()
		return ErrNotFocused
	}
	observers := slices.Clone(v.observers)
	v.mu.Unlock()

	var errs []error
	for _, o := range observers {
		if _, err := o.Refetch(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HomeView is the breaking strip plus the paged feed of one category.
type HomeView struct {
	view
	categoryID int64
}

func (s *Service) NewHomeView(onChange cache.Listener) *HomeView {
	h := &HomeView{}
	h.init(s, h, onChange)
	return h
}

func (h *HomeView) Focus(ctx context.Context) error {
	return h.focus(ctx, h.bindings)
}

func (h *HomeView) Blur() {
	h.blur()
}

func (h *HomeView) bindings(sess domain.Session) ([]binding, reconciler.Targets) {
	breaking := BreakingNewsKey(sess.User.ID, sess.Token)
	feed := FeedKey(sess.User.ID, sess.Token, h.categoryID)
	return []binding{
			{key: breaking, fetch: h.svc.fetchBreaking},
			{key: feed, fetch: h.svc.fetchFeed(h.categoryID)},
		}, reconciler.Targets{
			Lists: []cache.Key{breaking, feed},
		}
}

func (h *HomeView) Category() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.categoryID
}

// SetCategory switches the feed. A focused view swaps its feed observer and
// retargets its reconciler; the breaking strip is left alone.
func (h *HomeView) SetCategory(categoryID int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.categoryID = categoryID
	if !h.focused {
		return nil
	}
	sess, ok := h.svc.Session()
	if !ok {
		return ErrNoCredential
	}
	h.rebindLocked(h.bindings(sess))
	return nil
}

// Refresh is the pull-to-refresh gesture: it resets the carousel position
// and refetches every key of the screen.
func (h *HomeView) Refresh(ctx context.Context) error {
	if !h.Focused() {
		return ErrNotFocused
	}
	if err := h.svc.state.ClearSlideIndex(ctx); err != nil {
		h.svc.logger.Warn("clear slide index", "error", err)
	}
	return h.refetch(ctx)
}

// SavedView is the user's bookmark list.
type SavedView struct {
	view
}

func (s *Service) NewSavedView(onChange cache.Listener) *SavedView {
	v := &SavedView{}
	v.init(s, v, onChange)
	return v
}

func (v *SavedView) Focus(ctx context.Context) error {
	return v.focus(ctx, func(sess domain.Session) ([]binding, reconciler.Targets) {
		key := BookmarksKey(sess.User.ID)
		return []binding{{key: key, fetch: v.svc.fetchBookmarks(sess.User.ID)}},
			reconciler.Targets{Lists: []cache.Key{key}}
	})
}

func (v *SavedView) Blur() {
	v.blur()
}

func (v *SavedView) Refresh(ctx context.Context) error {
	return v.refetch(ctx)
}

// DetailView is one item with its likes and bookmark flag.
type DetailView struct {
	view
	newsID int64
}

func (s *Service) NewDetailView(newsID int64, onChange cache.Listener) *DetailView {
	v := &DetailView{newsID: newsID}
	v.init(s, v, onChange)
	return v
}

func (v *DetailView) Focus(ctx context.Context) error {
	return v.focus(ctx, func(sess domain.Session) ([]binding, reconciler.Targets) {
		detail := NewsKey(v.newsID)
		likes := LikesKey(v.newsID)
		flag := BookmarkFlagKey(v.newsID, sess.User.ID)
		return []binding{
				{key: detail, fetch: v.svc.fetchDetail(v.newsID)},
				{key: likes, fetch: v.svc.fetchLikes(v.newsID)},
				{key: flag, fetch: v.svc.fetchBookmarkFlag(v.newsID, sess.User.ID)},
			}, reconciler.Targets{
				Detail: &reconciler.DetailTarget{
					NewsID:  v.newsID,
					Key:     detail,
					Related: []cache.Key{likes},
				},
			}
	})
}

func (v *DetailView) Blur() {
	v.blur()
}

func (v *DetailView) NewsID() int64 {
	return v.newsID
}
