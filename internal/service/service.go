package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"news_sync/internal/auth"
	"news_sync/internal/cache"
	"news_sync/internal/config"
	"news_sync/internal/domain"
)

type blurrer interface {
	Blur()
}

// Service is the client's data layer: queries and mutations go through the
// shared cache store, and views keep their keys in sync with the channel.
type Service struct {
	api      NewsAPI
	channel  Channel
	state    LocalState
	store    *cache.Store
	logger   *slog.Logger
	feed     config.FeedConfig
	cacheCfg config.CacheConfig
	now      func() time.Time

	mu      sync.RWMutex
	session domain.Session
	views   map[blurrer]struct{}
}

func New(
	api NewsAPI,
	channel Channel,
	state LocalState,
	store *cache.Store,
	logger *slog.Logger,
	feed config.FeedConfig,
	cacheCfg config.CacheConfig,
) *Service {
	return &Service{
		api:      api,
		channel:  channel,
		state:    state,
		store:    store,
		logger:   logger.With("component", "service"),
		feed:     feed,
		cacheCfg: cacheCfg,
		now:      time.Now,
		views:    make(map[blurrer]struct{}),
	}
}

func (s *Service) Session() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.session.Valid()
}

func (s *Service) setSession(sess domain.Session) {
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	s.api.SetToken(sess.Token)
}

// Resume marks the launch and restores a persisted session. An expired
// credential is discarded.
func (s *Service) Resume(ctx context.Context) (domain.Session, bool, error) {
	if err := s.state.MarkLaunched(ctx); err != nil {
		return domain.Session{}, false, fmt.Errorf("mark launched: %w", err)
	}

	sess, err := s.state.LoadSession(ctx)
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("load session: %w", err)
	}
	if !sess.Valid() {
		return domain.Session{}, false, nil
	}

	claims, err := auth.ParseCredential(sess.Token)
	if err != nil {
		// Opaque tokens are left for the server to judge.
		s.logger.Debug("credential is not a jwt", "error", err)
	} else if claims.Expired(s.now()) {
		s.logger.Info("stored credential expired", "user_id", sess.User.ID)
		if err := s.state.ClearSession(ctx); err != nil {
			return domain.Session{}, false, fmt.Errorf("clear session: %w", err)
		}
		return domain.Session{}, false, nil
	}

	s.setSession(sess)
	return sess, true, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (domain.Session, error) {
	sess, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("sign in: %w", err)
	}
	if !sess.Valid() {
		return domain.Session{}, fmt.Errorf("sign in: %w", ErrNoCredential)
	}
	if err := s.state.SaveSession(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}
	s.setSession(sess)
	s.logger.Info("signed in", "user_id", sess.User.ID)
	return sess, nil
}

// Logout blurs every focused view, closes the channel and forgets the
// credential. A failed server sign-out does not keep the session alive.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	views := make([]blurrer, 0, len(s.views))
	for v := range s.views {
		views = append(views, v)
	}
	s.mu.Unlock()
	for _, v := range views {
		v.Blur()
	}

	if _, ok := s.Session(); ok {
		if err := s.api.SignOut(ctx); err != nil {
			s.logger.Warn("server sign out failed", "error", err)
		}
	}
	s.channel.Disconnect()
	s.setSession(domain.Session{})

	if err := s.state.ClearSession(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// ShouldShowBirthday reports whether today's greeting is still due.
func (s *Service) ShouldShowBirthday(ctx context.Context) (bool, error) {
	sess, ok := s.Session()
	if !ok {
		return false, ErrNoCredential
	}
	return s.state.ShouldShowBirthday(ctx, sess.User)
}

func (s *Service) SlideIndex(ctx context.Context) (int, error) {
	return s.state.SlideIndex(ctx)
}

func (s *Service) SetSlideIndex(ctx context.Context, index int) error {
	return s.state.SetSlideIndex(ctx, index)
}

func (s *Service) register(v blurrer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[v] = struct{}{}
}

func (s *Service) unregister(v blurrer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, v)
}
