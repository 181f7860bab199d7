package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vesaa/showcase/internal/models"
	"github.com/vesaa/showcase/internal/widgets"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "")
	assert.Error(t, err)
}

func TestLoadUnknown(t *testing.T) {
	s := openTest(t)
	_, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSaveReplaces(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "s1", widgets.Values{"name": "Ann", "age": "30"}))
	require.NoError(t, s.Save(ctx, "s1", widgets.Values{"name": "Bob"}))
	require.NoError(t, s.Save(ctx, "s2", widgets.Values{"name": "Cy"}))

	got, err := s.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, widgets.Values{"name": "Bob"}, got)

	got, err = s.Load(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, widgets.Values{"name": "Cy"}, got)
}

func TestTouchCreatesEmptySession(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	require.NoError(t, s.Touch(ctx, "s1"))
	got, err := s.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPrune(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "old", widgets.Values{"name": "Ann"}))
	require.NoError(t, s.Save(ctx, "new", widgets.Values{"name": "Bob"}))
	require.NoError(t, s.db.Model(&models.Session{}).Where("id = ?", "old").
		Update("last_seen", time.Now().Add(-48*time.Hour)).Error)

	n, err := s.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrNoSession)

	var orphans int64
	require.NoError(t, s.db.Model(&models.WidgetValue{}).Where("session_id = ?", "old").Count(&orphans).Error)
	assert.Zero(t, orphans)

	_, err = s.Load(ctx, "new")
	assert.NoError(t, err)
}
