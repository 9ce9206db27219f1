package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "portfolio.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.NoError(t, s.Ping(context.Background()))
}

func TestContactLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	saved, err := s.SaveContact(ctx, ContactMessage{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Hello",
		Message: "Loved the particle background",
	})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	_, err = s.SaveContact(ctx, ContactMessage{Name: "Grace", Email: "grace@example.com", Message: "Hi"})
	require.NoError(t, err)

	list, err := s.ListContacts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Grace", list[0].Name)
	assert.Equal(t, "Ada", list[1].Name)
	assert.Equal(t, "Hello", list[1].Subject)

	require.NoError(t, s.DeleteContact(ctx, saved.ID))
	assert.ErrorIs(t, s.DeleteContact(ctx, saved.ID), ErrNotFound)

	list, err = s.ListContacts(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return now.Add(-30 * 24 * time.Hour) }
	require.NoError(t, s.RecordVisit(ctx, "aaa", "curl", "/"))
	s.now = func() time.Time { return now.Add(-3 * 24 * time.Hour) }
	require.NoError(t, s.RecordVisit(ctx, "bbb", "firefox", "/"))
	s.now = func() time.Time { return now.Add(-time.Hour) }
	require.NoError(t, s.RecordVisit(ctx, "aaa", "curl", "/section/skills"))
	_, err := s.SaveContact(ctx, ContactMessage{Name: "n", Email: "e@example.com", Message: "m"})
	require.NoError(t, err)

	s.now = func() time.Time { return now }
	stats, err := s.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalVisitors)
	assert.Equal(t, int64(2), stats.UniqueVisitors)
	assert.Equal(t, int64(1), stats.VisitorsToday)
	assert.Equal(t, int64(2), stats.VisitorsThisWeek)
	assert.Equal(t, int64(1), stats.TotalMessages)
	require.NotEmpty(t, stats.TopPaths)
	assert.Equal(t, PathCount{Path: "/", Views: 2}, stats.TopPaths[0])
	require.Len(t, stats.RecentVisitors, 3)
	assert.Equal(t, "/section/skills", stats.RecentVisitors[0].Path)
	assert.Len(t, stats.RecentMessages, 1)
}

func TestCleanupVisitors(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return now.AddDate(-2, 0, 0) }
	require.NoError(t, s.RecordVisit(ctx, "old", "", "/"))
	s.now = func() time.Time { return now }
	require.NoError(t, s.RecordVisit(ctx, "new", "", "/"))

	n, err := s.CleanupVisitors(ctx, 365*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	visits, err := s.RecentVisits(ctx, 10)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "new", visits[0].HashedIP)
}
