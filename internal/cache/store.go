package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/singleflight"
)

type Status int

const (
	Fresh Status = iota
	Stale
)

func (s Status) String() string {
	if s == Fresh {
		return "fresh"
	}
	return "stale"
}

type FetchState int

const (
	Idle FetchState = iota
	InFlight
	Failed
)

func (f FetchState) String() string {
	switch f {
	case InFlight:
		return "in-flight"
	case Failed:
		return "error"
	}
	return "idle"
}

// Entry is a point-in-time copy of one cached result.
type Entry struct {
	Key        Key
	Value      any
	HasValue   bool
	Status     Status
	FetchState FetchState
	Err        error
	UpdatedAt  time.Time
}

// Listener is notified synchronously after every change to the entry it is
// bound to.
type Listener func(Entry)

// FetchFunc loads a fresh value for a key. current is the cached value, or
// nil, so that paged results can refetch the pages already loaded.
type FetchFunc func(ctx context.Context, current any) (any, error)

// InvalidateOptions selects entries by exact key or by key prefix.
type InvalidateOptions struct {
	Exact bool
}

var (
	Exact  = InvalidateOptions{Exact: true}
	Prefix = InvalidateOptions{Exact: false}
)

type Options struct {
	// StaleTime is how long a successful fetch stays fresh.
	StaleTime time.Duration
	Now       func() time.Time
}

// Store holds query results keyed by composite keys. All mutation goes
// through Write, Patch, Invalidate, Restore and fetches started by the
// store; values handed out must be treated as immutable.
type Store struct {
	mu      sync.Mutex
	buckets map[uint64][]*entry
	closed  bool

	group     singleflight.Group
	staleTime time.Duration
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *slog.Logger
}

type entry struct {
	key        Key
	value      any
	hasValue   bool
	stale      bool
	fetchState FetchState
	err        error
	updatedAt  time.Time

	// version advances whenever an outstanding fetch must no longer be
	// applied: a new fetch, a direct write, a cancel or a restore.
	version uint64

	listeners []*subscription
	observers []*Observer
}

type subscription struct {
	id ulid.ULID
	fn Listener
}

func New(opts Options, logger *slog.Logger) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		buckets:   make(map[uint64][]*entry),
		staleTime: opts.StaleTime,
		now:       opts.Now,
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger.With("component", "cache"),
	}
}

// Read returns the entry for key without side effects.
func (s *Store) Read(key Key) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookupLocked(key)
	if e == nil {
		return Entry{}, false
	}
	return s.snapshotLocked(e), true
}

// Write replaces the value, marks it fresh and resets the fetch state.
// Any fetch still in flight for the key is superseded.
func (s *Store) Write(key Key, value any) {
	s.mu.Lock()
	e := s.getOrCreateLocked(key)
	s.supersedeLocked(e)
	e.value = value
	e.hasValue = true
	e.stale = false
	e.fetchState = Idle
	e.err = nil
	e.updatedAt = s.now()
	snap, ls := s.snapshotLocked(e), listenersOf(e)
	s.mu.Unlock()

	s.notify(ls, snap)
}

// Patch applies a pure transformation to the cached value. It is a no-op
// when the key has no value, and a panicking updater leaves the value
// unchanged. It reports whether the value was replaced.
func (s *Store) Patch(key Key, updater func(any) any) bool {
	s.mu.Lock()
	e := s.lookupLocked(key)
	if e == nil || !e.hasValue {
		s.mu.Unlock()
		return false
	}

	next, err := applyUpdater(updater, e.value)
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("patch failed", "key", key.String(), "error", err)
		return false
	}
	e.value = next
	snap, ls := s.snapshotLocked(e), listenersOf(e)
	s.mu.Unlock()

	s.notify(ls, snap)
	return true
}

func applyUpdater(updater func(any) any, value any) (next any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("updater panic: %v", r)
		}
	}()
	return updater(value), nil
}

// Invalidate marks matching entries stale and refetches those that have an
// active observer. It returns the number of entries matched.
func (s *Store) Invalidate(key Key, opts InvalidateOptions) int {
	type refetch struct {
		key Key
		fn  FetchFunc
	}

	var (
		matched  int
		snaps    []Entry
		lists    [][]Listener
		refetchs []refetch
	)

	s.mu.Lock()
	for _, bucket := range s.buckets {
		for _, e := range bucket {
			if opts.Exact && !e.key.Equal(key) || !opts.Exact && !e.key.HasPrefix(key) {
				continue
			}
			matched++
			e.stale = true
			if o := activeObserver(e); o != nil {
				s.supersedeLocked(e)
				refetchs = append(refetchs, refetch{key: e.key, fn: o.fetch})
			}
			snaps = append(snaps, s.snapshotLocked(e))
			lists = append(lists, listenersOf(e))
		}
	}
	s.mu.Unlock()

	for i := range snaps {
		s.notify(lists[i], snaps[i])
	}
	for _, r := range refetchs {
		s.refetchInBackground(r.key, r.fn)
	}

	s.logger.Debug("invalidated", "key", key.String(), "exact", opts.Exact, "matched", matched, "refetching", len(refetchs))
	return matched
}

// Fetch loads the key through fn and stores the result. Concurrent fetches
// of the same key share one call. A result that was superseded while in
// flight is returned to the caller but not stored.
func (s *Store) Fetch(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	v, err, _ := s.group.Do(key.String(), func() (any, error) {
		return s.fetch(ctx, key, fn)
	})
	return v, err
}

func (s *Store) fetch(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	s.mu.Lock()
	e := s.getOrCreateLocked(key)
	e.version++
	version := e.version
	current := e.value
	e.fetchState = InFlight
	snap, ls := s.snapshotLocked(e), listenersOf(e)
	s.mu.Unlock()
	s.notify(ls, snap)

	value, err := fn(ctx, current)

	s.mu.Lock()
	if e.version != version {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded fetch", "key", key.String())
		return value, err
	}
	if err != nil {
		e.fetchState = Failed
		e.err = err
	} else {
		e.value = value
		e.hasValue = true
		e.stale = false
		e.fetchState = Idle
		e.err = nil
		e.updatedAt = s.now()
	}
	snap, ls = s.snapshotLocked(e), listenersOf(e)
	s.mu.Unlock()
	s.notify(ls, snap)

	if err != nil {
		return nil, err
	}
	return value, nil
}

// Query returns the cached value while it is fresh and fetches otherwise.
func (s *Store) Query(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	s.mu.Lock()
	if e := s.lookupLocked(key); e != nil && e.hasValue && !s.isStaleLocked(e) {
		v := e.value
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	return s.Fetch(ctx, key, fn)
}

// Cancel drops the result of any fetch in flight for key.
func (s *Store) Cancel(key Key) {
	s.mu.Lock()
	e := s.lookupLocked(key)
	if e == nil {
		s.mu.Unlock()
		return
	}
	s.supersedeLocked(e)
	if e.fetchState == InFlight {
		e.fetchState = Idle
	}
	snap, ls := s.snapshotLocked(e), listenersOf(e)
	s.mu.Unlock()

	s.notify(ls, snap)
}

// Snapshot captures an entry so that it can be restored exactly, including
// its absence.
type Snapshot struct {
	key     Key
	existed bool
	entry   Entry
	stale   bool
}

func (s *Store) Snapshot(key Key) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookupLocked(key)
	if e == nil {
		return Snapshot{key: key}
	}
	return Snapshot{key: key, existed: true, entry: s.snapshotLocked(e), stale: e.stale}
}

func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	e := s.lookupLocked(snap.key)
	if e == nil && !snap.existed {
		s.mu.Unlock()
		return
	}
	if e == nil {
		e = s.getOrCreateLocked(snap.key)
	}
	s.supersedeLocked(e)

	if !snap.existed {
		if len(e.listeners) == 0 && len(e.observers) == 0 {
			s.removeLocked(e)
			s.mu.Unlock()
			return
		}
		e.value, e.hasValue, e.stale = nil, false, false
		e.fetchState, e.err, e.updatedAt = Idle, nil, time.Time{}
	} else {
		e.value = snap.entry.Value
		e.hasValue = snap.entry.HasValue
		e.stale = snap.stale
		e.fetchState = snap.entry.FetchState
		if e.fetchState == InFlight {
			e.fetchState = Idle
		}
		e.err = snap.entry.Err
		e.updatedAt = snap.entry.UpdatedAt
	}
	snap2, ls := s.snapshotLocked(e), listenersOf(e)
	s.mu.Unlock()

	s.notify(ls, snap2)
}

// Subscribe binds fn to key. The returned function removes the binding.
func (s *Store) Subscribe(key Key, fn Listener) func() {
	s.mu.Lock()
	e := s.getOrCreateLocked(key)
	sub := &subscription{id: ulid.Make(), fn: fn}
	e.listeners = append(e.listeners, sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(key, sub.id) })
	}
}

func (s *Store) unsubscribe(key Key, id ulid.ULID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookupLocked(key)
	if e == nil {
		return
	}
	for i, sub := range e.listeners {
		if sub.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Range calls fn for every entry with a value whose key starts with
// prefix, until fn returns false.
func (s *Store) Range(prefix Key, fn func(Entry) bool) {
	s.mu.Lock()
	var snaps []Entry
	for _, bucket := range s.buckets {
		for _, e := range bucket {
			if e.hasValue && e.key.HasPrefix(prefix) {
				snaps = append(snaps, s.snapshotLocked(e))
			}
		}
	}
	s.mu.Unlock()

	for _, snap := range snaps {
		if !fn(snap) {
			return
		}
	}
}

// RefetchStale refetches every observed entry that is stale and idle. It
// returns the number of entries refetched.
func (s *Store) RefetchStale(ctx context.Context) int {
	type refetch struct {
		key Key
		fn  FetchFunc
	}

	s.mu.Lock()
	var todo []refetch
	for _, bucket := range s.buckets {
		for _, e := range bucket {
			o := activeObserver(e)
			if o == nil || e.fetchState == InFlight || !s.isStaleLocked(e) {
				continue
			}
			todo = append(todo, refetch{key: e.key, fn: o.fetch})
		}
	}
	s.mu.Unlock()

	for _, r := range todo {
		if _, err := s.Fetch(ctx, r.key, r.fn); err != nil {
			s.logger.Warn("stale refetch failed", "key", r.key.String(), "error", err)
		}
	}
	return len(todo)
}

// Close stops background refetches and waits for them to return.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Store) refetchInBackground(key Key, fn FetchFunc) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		if _, err := s.Fetch(s.ctx, key, fn); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("background refetch failed", "key", key.String(), "error", err)
		}
	}()
}

func (s *Store) notify(listeners []Listener, snap Entry) {
	for _, fn := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Warn("listener panic", "key", snap.Key.String(), "panic", r)
				}
			}()
			fn(snap)
		}()
	}
}

func (s *Store) supersedeLocked(e *entry) {
	e.version++
	s.group.Forget(e.key.String())
}

func (s *Store) isStaleLocked(e *entry) bool {
	if !e.hasValue || e.stale {
		return true
	}
	return s.now().Sub(e.updatedAt) > s.staleTime
}

func (s *Store) snapshotLocked(e *entry) Entry {
	status := Fresh
	if s.isStaleLocked(e) {
		status = Stale
	}
	return Entry{
		Key:        e.key,
		Value:      e.value,
		HasValue:   e.hasValue,
		Status:     status,
		FetchState: e.fetchState,
		Err:        e.err,
		UpdatedAt:  e.updatedAt,
	}
}

func (s *Store) lookupLocked(key Key) *entry {
	for _, e := range s.buckets[key.hash()] {
		if e.key.Equal(key) {
			return e
		}
	}
	return nil
}

func (s *Store) getOrCreateLocked(key Key) *entry {
	if e := s.lookupLocked(key); e != nil {
		return e
	}
	e := &entry{key: NewKey(key...)}
	h := key.hash()
	s.buckets[h] = append(s.buckets[h], e)
	return e
}

func (s *Store) removeLocked(e *entry) {
	h := e.key.hash()
	bucket := s.buckets[h]
	for i, other := range bucket {
		if other == e {
			s.buckets[h] = append(bucket[:i:i], bucket[i+1:]...)
			break
		}
	}
	if len(s.buckets[h]) == 0 {
		delete(s.buckets, h)
	}
}

func listenersOf(e *entry) []Listener {
	out := make([]Listener, len(e.listeners))
	for i, sub := range e.listeners {
		out[i] = sub.fn
	}
	return out
}

func activeObserver(e *entry) *Observer {
	if len(e.observers) == 0 {
		return nil
	}
	return e.observers[len(e.observers)-1]
}
