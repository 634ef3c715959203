package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// session is one transport connection. run delivers frames to emit until
// the connection fails or ctx is done.
type session interface {
	run(ctx context.Context, emit func(name string, payload []byte)) error
	close() error
}

type connectFunc func(ctx context.Context) (session, error)

type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

func (b Backoff) delay(attempt int) time.Duration {
	backoff := b.Initial
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > b.Max {
		backoff = b.Max
	}
	return backoff
}

// link is a Conn that keeps a transport session alive, reconnecting with
// backoff. Each successful reconnect publishes domain.Resync.
type link struct {
	*hub
	connect connectFunc
	backoff Backoff
	logger  *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	current session
}

func openLink(ctx context.Context, connect connectFunc, backoff Backoff, logger *slog.Logger) (*link, error) {
	first, err := connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	l := &link{
		hub:     newHub(logger),
		connect: connect,
		backoff: backoff,
		logger:  logger,
		cancel:  cancel,
		done:    make(chan struct{}),
		current: first,
	}
	go l.supervise(runCtx, first)
	return l, nil
}

func (l *link) supervise(ctx context.Context, s session) {
	defer close(l.done)

	for {
		err := s.run(ctx, l.dispatch)
		_ = s.close()
		if ctx.Err() != nil {
			return
		}
		l.logger.Warn("channel disconnected", "error", err)

		s = l.reconnect(ctx)
		if s == nil {
			return
		}
		l.logger.Info("channel reconnected")
		l.publish(resync)
	}
}

func (l *link) reconnect(ctx context.Context) session {
	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.backoff.delay(attempt)):
		}

		s, err := l.connect(ctx)
		if err == nil {
			l.mu.Lock()
			l.current = s
			l.mu.Unlock()
			return s
		}
		if errors.Is(err, context.Canceled) {
			return nil
		}
		l.logger.Warn("reconnect failed", "attempt", attempt, "error", err)
	}
}

func (l *link) Close() error {
	l.cancel()

	l.mu.Lock()
	s := l.current
	l.mu.Unlock()
	var err error
	if s != nil {
		err = s.close()
	}

	<-l.done
	return err
}
