package cache

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Observer is an active subscriber. While it is registered, invalidating
// its key triggers a refetch through its FetchFunc.
type Observer struct {
	store *Store
	key   Key
	fetch FetchFunc
	sub   *subscription
	once  sync.Once
}

// Observe registers an active subscriber for key and starts a fetch when
// the entry is missing or stale. listener may be nil.
func (s *Store) Observe(key Key, fn FetchFunc, listener Listener) *Observer {
	o := &Observer{store: s, key: NewKey(key...), fetch: fn}

	s.mu.Lock()
	e := s.getOrCreateLocked(key)
	e.observers = append(e.observers, o)
	if listener != nil {
		o.sub = &subscription{id: ulid.Make(), fn: listener}
		e.listeners = append(e.listeners, o.sub)
	}
	needFetch := s.isStaleLocked(e) && e.fetchState != InFlight
	s.mu.Unlock()

	if needFetch {
		s.refetchInBackground(key, fn)
	}
	return o
}

func (o *Observer) Key() Key {
	return o.key
}

// Refetch fetches the observed key now and waits for the result.
func (o *Observer) Refetch(ctx context.Context) (any, error) {
	return o.store.Fetch(ctx, o.key, o.fetch)
}

// Close deregisters the observer. It is safe to call more than once.
func (o *Observer) Close() {
	o.once.Do(func() {
		s := o.store
		s.mu.Lock()
		defer s.mu.Unlock()

		e := s.lookupLocked(o.key)
		if e == nil {
			return
		}
		for i, other := range e.observers {
			if other == o {
				e.observers = append(e.observers[:i:i], e.observers[i+1:]...)
				break
			}
		}
		if o.sub != nil {
			for i, sub := range e.listeners {
				if sub == o.sub {
					e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
					break
				}
			}
		}
	})
}
