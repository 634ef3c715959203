package prefs

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"news_sync/internal/domain"
	"news_sync/internal/storage/kv"
)

type PrefsTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *kv.Store
	prefs *Prefs
}

func (s *PrefsTestSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := kv.Open(s.ctx, kv.DriverSQLite, filepath.Join(s.T().TempDir(), "kv.db"))
	s.Require().NoError(err)
	s.T().Cleanup(func() { db.Close() })

	s.store = kv.New(db)
	s.Require().NoError(s.store.Migrate(s.ctx))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.prefs = New(s.store, logger)
	s.prefs.now = func() time.Time { return time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC) }
}

func TestPrefsTestSuite(t *testing.T) {
	suite.Run(t, new(PrefsTestSuite))
}

func (s *PrefsTestSuite) TestSlideIndex_DefaultsToZero() {
	index, err := s.prefs.SlideIndex(s.ctx)
	s.NoError(err)
	s.Equal(0, index)
}

func (s *PrefsTestSuite) TestSlideIndex_RestoredWithoutFreshLaunch() {
	s.Require().NoError(s.prefs.SetSlideIndex(s.ctx, 3))

	index, err := s.prefs.SlideIndex(s.ctx)
	s.NoError(err)
	s.Equal(3, index)
}

func (s *PrefsTestSuite) TestSlideIndex_ResetAfterFreshLaunch() {
	s.Require().NoError(s.prefs.SetSlideIndex(s.ctx, 3))
	s.Require().NoError(s.prefs.MarkLaunched(s.ctx))

	index, err := s.prefs.SlideIndex(s.ctx)
	s.NoError(err)
	s.Equal(0, index)

	_, err = s.store.Get(s.ctx, "appRestarted")
	s.ErrorIs(err, kv.ErrNotFound)

	s.Require().NoError(s.prefs.SetSlideIndex(s.ctx, 2))
	index, err = s.prefs.SlideIndex(s.ctx)
	s.NoError(err)
	s.Equal(2, index)
}

func (s *PrefsTestSuite) TestSlideIndex_SetAfterLaunchIsKept() {
	s.Require().NoError(s.prefs.MarkLaunched(s.ctx))
	s.Require().NoError(s.prefs.SetSlideIndex(s.ctx, 3))

	index, err := s.prefs.SlideIndex(s.ctx)
	s.NoError(err)
	s.Equal(3, index)

	index, err = s.prefs.SlideIndex(s.ctx)
	s.NoError(err)
	s.Equal(3, index)

	s.Require().NoError(s.prefs.MarkLaunched(s.ctx))
	index, err = s.prefs.SlideIndex(s.ctx)
	s.NoError(err)
	s.Equal(0, index)
}

func (s *PrefsTestSuite) TestSlideIndex_BadValueIgnored() {
	s.Require().NoError(s.store.Set(s.ctx, "breakingNewsIndex", "abc"))

	index, err := s.prefs.SlideIndex(s.ctx)
	s.NoError(err)
	s.Equal(0, index)
}

func (s *PrefsTestSuite) TestClearSlideIndex() {
	s.Require().NoError(s.prefs.SetSlideIndex(s.ctx, 5))
	s.Require().NoError(s.prefs.ClearSlideIndex(s.ctx))

	index, err := s.prefs.SlideIndex(s.ctx)
	s.NoError(err)
	s.Equal(0, index)
}

func (s *PrefsTestSuite) TestShouldShowBirthday_OncePerYear() {
	user := domain.User{ID: 7, DateOfBirth: "2001-06-14"}
	s.Require().NoError(s.store.Set(s.ctx, "birthdayShown_7_2024", "true"))

	show, err := s.prefs.ShouldShowBirthday(s.ctx, user)
	s.NoError(err)
	s.True(show)

	show, err = s.prefs.ShouldShowBirthday(s.ctx, user)
	s.NoError(err)
	s.False(show)

	keys, err := s.store.Keys(s.ctx, "birthdayShown_7_")
	s.NoError(err)
	s.Equal([]string{"birthdayShown_7_2025"}, keys)
}

func (s *PrefsTestSuite) TestShouldShowBirthday_NotToday() {
	show, err := s.prefs.ShouldShowBirthday(s.ctx, domain.User{ID: 7, DateOfBirth: "2001-06-15"})
	s.NoError(err)
	s.False(show)

	show, err = s.prefs.ShouldShowBirthday(s.ctx, domain.User{ID: 7})
	s.NoError(err)
	s.False(show)
}

func (s *PrefsTestSuite) TestSession_RoundTrip() {
	in := domain.Session{Token: "tok", User: domain.User{ID: 7, FirstName: "Ada", Role: "admin"}}
	s.Require().NoError(s.prefs.SaveSession(s.ctx, in))

	out, err := s.prefs.LoadSession(s.ctx)
	s.NoError(err)
	s.Equal(in, out)

	s.Require().NoError(s.prefs.ClearSession(s.ctx))
	out, err = s.prefs.LoadSession(s.ctx)
	s.NoError(err)
	s.False(out.Valid())
}

func (s *PrefsTestSuite) TestLoadSession_UnreadableBlob() {
	s.Require().NoError(s.store.Set(s.ctx, "user-storage", "{"))

	out, err := s.prefs.LoadSession(s.ctx)
	s.NoError(err)
	s.Equal(domain.Session{}, out)
}
