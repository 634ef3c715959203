package realtime

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/oklog/ulid/v2"

	"news_sync/internal/domain"
)

// Handler receives validated events. It is called from the connection's
// receive goroutine and must not block.
type Handler func(domain.Event)

// Conn is one live, receive-only channel connection.
type Conn interface {
	Subscribe(h Handler) (unsubscribe func())
	Close() error
}

// Dialer opens a connection authenticated with the bearer credential.
type Dialer interface {
	Dial(ctx context.Context, credential string) (Conn, error)
}

type hub struct {
	mu       sync.RWMutex
	handlers map[ulid.ULID]Handler
	logger   *slog.Logger
}

func newHub(logger *slog.Logger) *hub {
	return &hub{handlers: make(map[ulid.ULID]Handler), logger: logger}
}

func (h *hub) Subscribe(fn Handler) func() {
	id := ulid.Make()

	h.mu.Lock()
	h.handlers[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.handlers, id)
		h.mu.Unlock()
	}
}

// dispatch validates a raw frame and fans it out. Bad frames are dropped.
func (h *hub) dispatch(name string, payload []byte) {
	ev, err := domain.DecodeEvent(name, payload)
	if err != nil {
		h.logger.Warn("dropping event", "event", name, "error", err)
		return
	}
	h.publish(ev)
}

func (h *hub) publish(ev domain.Event) {
	h.mu.RLock()
	ids := make([]ulid.ULID, 0, len(h.handlers))
	for id := range h.handlers {
		ids = append(ids, id)
	}
	handlers := make([]Handler, 0, len(ids))
	slices.SortFunc(ids, func(a, b ulid.ULID) int { return a.Compare(b) })
	for _, id := range ids {
		handlers = append(handlers, h.handlers[id])
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
