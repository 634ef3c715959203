package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"news_sync/internal/domain"
	"news_sync/internal/storage/kv"
)

const (
	keyAppRestarted = "appRestarted"
	keySlideIndex   = "breakingNewsIndex"
	keySession      = "user-storage"
)

func birthdayKey(userID int64, year int) string {
	return fmt.Sprintf("birthdayShown_%d_%d", userID, year)
}

// KV is the persisted string store the preferences live in.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Prefs is the typed local state of the app.
type Prefs struct {
	kv     KV
	now    func() time.Time
	logger *slog.Logger
}

func New(store KV, logger *slog.Logger) *Prefs {
	return &Prefs{kv: store, now: time.Now, logger: logger.With("component", "prefs")}
}

// MarkLaunched records a fresh launch so the next slide index read starts
// over.
func (p *Prefs) MarkLaunched(ctx context.Context) error {
	if err := p.kv.Set(ctx, keyAppRestarted, "true"); err != nil {
		return fmt.Errorf("mark launched: %w", err)
	}
	return nil
}

// SlideIndex returns the breaking news slide to show. After a fresh launch
// it is 0 and the saved index is discarded.
func (p *Prefs) SlideIndex(ctx context.Context) (int, error) {
	restarted, err := p.kv.Get(ctx, keyAppRestarted)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return 0, fmt.Errorf("read launch flag: %w", err)
	}

	if restarted == "true" {
		err := p.kv.WithTransaction(ctx, func(ctx context.Context) error {
			if err := p.kv.Delete(ctx, keySlideIndex); err != nil {
				return err
			}
			return p.kv.Delete(ctx, keyAppRestarted)
		})
		if err != nil {
			return 0, fmt.Errorf("reset slide index: %w", err)
		}
		p.logger.Debug("fresh launch, slide index reset")
		return 0, nil
	}

	raw, err := p.kv.Get(ctx, keySlideIndex)
	if errors.Is(err, kv.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read slide index: %w", err)
	}
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		p.logger.Warn("ignoring bad slide index", "value", raw)
		return 0, nil
	}
	return index, nil
}

// SetSlideIndex saves the carousel position. It also consumes a pending
// launch flag, so the position chosen in this run survives the next read.
func (p *Prefs) SetSlideIndex(ctx context.Context, index int) error {
	err := p.kv.WithTransaction(ctx, func(ctx context.Context) error {
		if err := p.kv.Delete(ctx, keyAppRestarted); err != nil {
			return err
		}
		return p.kv.Set(ctx, keySlideIndex, strconv.Itoa(index))
	})
	if err != nil {
		return fmt.Errorf("save slide index: %w", err)
	}
	return nil
}

func (p *Prefs) ClearSlideIndex(ctx context.Context) error {
	if err := p.kv.Delete(ctx, keySlideIndex); err != nil {
		return fmt.Errorf("clear slide index: %w", err)
	}
	return nil
}

// ShouldShowBirthday reports whether the birthday banner is due for user
// today. It returns true at most once per user per year and drops the
// previous year's flag.
func (p *Prefs) ShouldShowBirthday(ctx context.Context, user domain.User) (bool, error) {
	if user.ID == 0 {
		return false, nil
	}
	today := p.now()
	year := today.Year()

	if err := p.kv.Delete(ctx, birthdayKey(user.ID, year-1)); err != nil {
		return false, fmt.Errorf("clear old birthday flag: %w", err)
	}

	dob, ok := user.Birthday()
	if !ok || dob.Day() != today.Day() || dob.Month() != today.Month() {
		return false, nil
	}

	key := birthdayKey(user.ID, year)
	_, err := p.kv.Get(ctx, key)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return false, fmt.Errorf("read birthday flag: %w", err)
	}
	if err := p.kv.Set(ctx, key, "true"); err != nil {
		return false, fmt.Errorf("save birthday flag: %w", err)
	}
	return true, nil
}

func (p *Prefs) SaveSession(ctx context.Context, s domain.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := p.kv.Set(ctx, keySession, string(raw)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns the persisted session. A missing or unreadable blob
// yields a zero session.
func (p *Prefs) LoadSession(ctx context.Context) (domain.Session, error) {
	raw, err := p.kv.Get(ctx, keySession)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		p.logger.Warn("discarding unreadable session", "error", err)
		return domain.Session{}, nil
	}
	return s, nil
}

func (p *Prefs) ClearSession(ctx context.Context) error {
	if err := p.kv.Delete(ctx, keySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
