package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/eliot-client/internal/model"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	return s, dir
}

func TestOpenEmptyDir(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestOpenLockedDir(t *testing.T) {
	s, dir := openTemp(t)

	_, err := Open(dir)
	require.ErrorIs(t, err, ErrLocked)
	assert.Contains(t, err.Error(), "in use by another eliot process")

	require.NoError(t, s.Close())
	s2, err := Open(dir)
	require.NoError(t, err, "lock is released on close")
	require.NoError(t, s2.Close())
}

func TestPrefsRoundTripAcrossReopen(t *testing.T) {
	s, dir := openTemp(t)
	p := s.Prefs()

	assert.Equal(t, "dark", p.StringWithFallback("theme", "dark"))
	p.SetString("theme", "light")
	p.SetString("cookieSupport", "true")
	require.NoError(t, s.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	assert.Equal(t, "light", s2.Prefs().String("theme"))
	assert.Equal(t, "true", s2.Prefs().String("cookieSupport"))

	s2.Prefs().RemoveValue("theme")
	assert.Equal(t, "", s2.Prefs().String("theme"))
}

func TestHistoryNewestFirst(t *testing.T) {
	s, dir := openTemp(t)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.AppendHistory(model.HistoryEntry{
			SessionID:   id,
			Filename:    id + ".mp4",
			CompletedAt: time.Now(),
		}))
	}

	all, err := s.History(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].SessionID)
	assert.Equal(t, "a", all[2].SessionID)

	two, err := s.History(2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "b", two[1].SessionID)

	// Sequence continues after reopen.
	require.NoError(t, s.Close())
	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()
	require.NoError(t, s2.AppendHistory(model.HistoryEntry{SessionID: "d"}))
	latest, err := s2.History(1)
	require.NoError(t, err)
	assert.Equal(t, "d", latest[0].SessionID)
}

func TestHistoryDoesNotSeePrefs(t *testing.T) {
	s, _ := openTemp(t)
	defer s.Close()

	s.Prefs().SetString("theme", "light")
	entries, err := s.History(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClearHistory(t *testing.T) {
	s, _ := openTemp(t)
	defer s.Close()

	require.NoError(t, s.AppendHistory(model.HistoryEntry{SessionID: "x"}))
	require.NoError(t, s.ClearHistory())
	entries, err := s.History(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
