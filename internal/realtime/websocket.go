package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocketConfig struct {
	URL              string
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	PingInterval     time.Duration
	Backoff          Backoff
}

// WebSocketDialer connects to a push endpoint that sends one JSON frame
// per event: {"event": "news:deleted", "data": {...}}.
type WebSocketDialer struct {
	cfg    WebSocketConfig
	dialer *websocket.Dialer
	logger *slog.Logger
}

func NewWebSocketDialer(cfg WebSocketConfig, logger *slog.Logger) *WebSocketDialer {
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 60 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.PingInterval == 0 {
		cfg.PingInterval = 25 * time.Second
	}
	if cfg.Backoff.Initial == 0 {
		cfg.Backoff = Backoff{Initial: time.Second, Max: 30 * time.Second}
	}

	return &WebSocketDialer{
		cfg:    cfg,
		dialer: &websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout, Proxy: http.ProxyFromEnvironment},
		logger: logger.With("transport", "websocket"),
	}
}

func (d *WebSocketDialer) Dial(ctx context.Context, credential string) (Conn, error) {
	connect := func(ctx context.Context) (session, error) {
		header := http.Header{}
		header.Set("Authorization", "Bearer "+credential)

		ws, resp, err := d.dialer.DialContext(ctx, d.cfg.URL, header)
		if err != nil {
			if resp != nil {
				return nil, fmt.Errorf("dial %s: status %d: %w", d.cfg.URL, resp.StatusCode, err)
			}
			return nil, fmt.Errorf("dial %s: %w", d.cfg.URL, err)
		}
		return &wsSession{ws: ws, cfg: d.cfg, logger: d.logger}, nil
	}

	l, err := openLink(ctx, connect, d.cfg.Backoff, d.logger)
	if err != nil {
		return nil, err
	}
	return l, nil
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type wsSession struct {
	ws        *websocket.Conn
	cfg       WebSocketConfig
	logger    *slog.Logger
	closeOnce sync.Once
	closeErr  error
}

func (s *wsSession) run(ctx context.Context, emit func(string, []byte)) error {
	_ = s.ws.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	s.ws.SetPongHandler(func(string) error {
		return s.ws.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	})

	stop := make(chan struct{})
	defer close(stop)
	go s.keepalive(ctx, stop)

	for {
		msgType, data, err := s.ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("read frame: %w", err)
		}
		_ = s.ws.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))

		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			s.logger.Warn("dropping frame", "error", err)
			continue
		}
		emit(f.Event, f.Data)
	}
}

func (s *wsSession) keepalive(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			_ = s.close()
			return
		case <-ticker.C:
			deadline := time.Now().Add(s.cfg.WriteTimeout)
			if err := s.ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.logger.Debug("ping failed", "error", err)
			}
		}
	}
}

func (s *wsSession) close() error {
	s.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.cfg.WriteTimeout))
		s.closeErr = s.ws.Close()
	})
	return s.closeErr
}
