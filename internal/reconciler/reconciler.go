package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"news_sync/internal/cache"
	"news_sync/internal/domain"
	"news_sync/internal/realtime"
)

var (
	ErrNoCredential = errors.New("no credential")
	ErrNoChannel    = errors.New("no live channel connection")
)

// Channel exposes the session's live connection, if any.
type Channel interface {
	Current() (realtime.Conn, bool)
}

// DetailTarget is the single-item view a reconciler keeps consistent.
// Related keys are invalidated together with Key when the item changes.
type DetailTarget struct {
	NewsID  int64
	Key     cache.Key
	Related []cache.Key
}

// Targets are the cache keys of one screen. Lists hold either a flat
// []domain.NewsItem or a domain.PagedNews.
type Targets struct {
	Lists  []cache.Key
	Detail *DetailTarget
}

func (t Targets) all() []cache.Key {
	keys := append([]cache.Key(nil), t.Lists...)
	if t.Detail != nil {
		keys = append(keys, t.Detail.Key)
		keys = append(keys, t.Detail.Related...)
	}
	return keys
}

type Config struct {
	// InvalidateDelay lets a patch render before the backstop refetch.
	InvalidateDelay time.Duration
}

type pending struct {
	key   cache.Key
	exact bool
}

// Reconciler applies channel events to the cache keys of one screen. It is
// inactive until Activate and stops receiving events on Deactivate, which
// also cancels any invalidation not yet fired.
type Reconciler struct {
	store   *cache.Store
	channel Channel
	cfg     Config
	logger  *slog.Logger

	mu          sync.Mutex
	targets     Targets
	active      bool
	generation  uint64
	unsubscribe func()
	scheduled   *ttlcache.Cache[string, pending]
}

func New(store *cache.Store, channel Channel, targets Targets, cfg Config, logger *slog.Logger) *Reconciler {
	if cfg.InvalidateDelay <= 0 {
		cfg.InvalidateDelay = 100 * time.Millisecond
	}
	return &Reconciler{
		store:   store,
		channel: channel,
		cfg:     cfg,
		targets: targets,
		logger:  logger.With("component", "reconciler"),
	}
}

// Activate subscribes to the live channel. It is a no-op when already
// active.
func (r *Reconciler) Activate(credential string) error {
	if credential == "" {
		return ErrNoCredential
	}
	conn, ok := r.channel.Current()
	if !ok {
		return ErrNoChannel
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		return nil
	}
	r.generation++
	generation := r.generation

	scheduled := ttlcache.New[string, pending](
		ttlcache.WithTTL[string, pending](r.cfg.InvalidateDelay),
		ttlcache.WithDisableTouchOnHit[string, pending](),
	)
	scheduled.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, pending]) {
		if reason == ttlcache.EvictionReasonExpired {
			r.fire(generation, item.Value())
		}
	})
	go scheduled.Start()

	r.scheduled = scheduled
	r.unsubscribe = conn.Subscribe(r.Handle)
	r.active = true
	r.logger.Debug("activated", "lists", len(r.targets.Lists), "detail", r.targets.Detail != nil)
	return nil
}

func (r *Reconciler) Deactivate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return
	}
	r.active = false
	r.generation++
	r.unsubscribe()
	r.unsubscribe = nil
	r.scheduled.DeleteAll()
	r.scheduled.Stop()
	r.scheduled = nil
	r.logger.Debug("deactivated")
}

func (r *Reconciler) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Retarget replaces the keys patched by subsequent events.
func (r *Reconciler) Retarget(t Targets) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = t
}

func (r *Reconciler) Handle(ev domain.Event) {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return
	}
	t := r.targets
	r.mu.Unlock()

	switch e := ev.(type) {
	case domain.NewsDeleted:
		r.remove(t, e.ID)
	case domain.NewsPaused:
		if e.IsPaused {
			r.remove(t, e.ID)
			return
		}
		// Position of a resumed item is unknown; let the server place it.
		r.schedule(t.Lists...)
	case domain.NewsUpdated:
		r.update(t, e)
	case domain.Resync:
		for _, key := range t.all() {
			r.store.Invalidate(key, cache.Exact)
		}
	default:
		r.logger.Warn("ignoring event", "kind", ev.Kind())
	}
}

func (r *Reconciler) remove(t Targets, id int64) {
	for _, key := range t.Lists {
		r.store.Patch(key, removeNews(id))
	}
	if t.Detail != nil && t.Detail.NewsID == id {
		r.store.Write(t.Detail.Key, domain.NewsDetail{ID: id, Unavailable: true})
	}
	r.schedule(t.Lists...)
}

func (r *Reconciler) update(t Targets, e domain.NewsUpdated) {
	patch := mergeNews(e.ID, e.Fields, r.logger)
	for _, key := range t.Lists {
		r.store.Patch(key, patch)
	}
	r.schedule(t.Lists...)

	if t.Detail != nil && t.Detail.NewsID == e.ID {
		r.store.Patch(t.Detail.Key, patch)
		r.schedule(t.Detail.Key)
		r.schedule(t.Detail.Related...)
	}
}

// schedule arms a delayed exact invalidation per key. A key already armed
// keeps its deadline, so a burst of events causes one refetch.
func (r *Reconciler) schedule(keys ...cache.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return
	}
	for _, key := range keys {
		id := key.String()
		if r.scheduled.Has(id) {
			continue
		}
		r.scheduled.Set(id, pending{key: key, exact: true}, ttlcache.DefaultTTL)
	}
}

func (r *Reconciler) fire(generation uint64, p pending) {
	r.mu.Lock()
	live := r.active && r.generation == generation
	r.mu.Unlock()
	if !live {
		return
	}

	opts := cache.Prefix
	if p.exact {
		opts = cache.Exact
	}
	r.store.Invalidate(p.key, opts)
}
