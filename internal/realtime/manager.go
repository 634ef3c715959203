package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"news_sync/internal/domain"
)

var resync domain.Event = domain.Resync{}

// Manager owns the single live connection of a session.
type Manager struct {
	dialer Dialer
	logger *slog.Logger

	mu         sync.Mutex
	conn       Conn
	credential string
}

func NewManager(dialer Dialer, logger *slog.Logger) *Manager {
	return &Manager{dialer: dialer, logger: logger.With("component", "realtime")}
}

// Connect returns the live connection for credential, replacing one opened
// with a different credential.
func (m *Manager) Connect(ctx context.Context, credential string) (Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil && m.credential == credential {
		return m.conn, nil
	}
	if m.conn != nil {
		m.closeLocked()
	}

	conn, err := m.dialer.Dial(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("dial channel: %w", err)
	}
	m.conn = conn
	m.credential = credential
	m.logger.Info("channel connected")
	return conn, nil
}

func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil {
		m.closeLocked()
		m.logger.Info("channel disconnected")
	}
}

func (m *Manager) Current() (Conn, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn, m.conn != nil
}

func (m *Manager) closeLocked() {
	if err := m.conn.Close(); err != nil {
		m.logger.Warn("close channel", "error", err)
	}
	m.conn = nil
	m.credential = ""
}
