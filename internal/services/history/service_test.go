package history

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkarpov/plank/internal/database"
	"github.com/dkarpov/plank/internal/models"
	"github.com/dkarpov/plank/internal/types"
	_ "modernc.org/sqlite"
)

func setupTestRepo(t *testing.T) *database.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "failed to create test database")
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return database.NewRepository(db)
}

func appendEntry(t *testing.T, repo *database.Repository, taskID types.ID, desc string, ts time.Time) {
	t.Helper()
	err := repo.AppendHistory(context.Background(), &models.HistoryEntry{
		ID:          types.NewID(),
		TaskID:      taskID,
		Operation:   models.OpTaskUpdated,
		Description: desc,
		Timestamp:   ts,
	})
	require.NoError(t, err)
}

func TestGetTaskHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	svc := NewService(repo)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	appendEntry(t, repo, "card-a", "A", base)
	appendEntry(t, repo, "card-a", "B", base.Add(time.Minute))
	appendEntry(t, repo, "card-a", "C", base.Add(2*time.Minute))

	entries, err := svc.GetTaskHistory(ctx, "card-a")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "C", entries[0].Description)
	assert.Equal(t, "B", entries[1].Description)
	assert.Equal(t, "A", entries[2].Description)
}

func TestGetTaskHistoryTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	svc := NewService(repo)

	// All three share one timestamp; the latest append still comes first.
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	appendEntry(t, repo, "card-a", "first", ts)
	appendEntry(t, repo, "card-a", "second", ts)
	appendEntry(t, repo, "card-a", "third", ts)

	entries, err := svc.GetTaskHistory(ctx, "card-a")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Description)
	assert.Equal(t, "second", entries[1].Description)
	assert.Equal(t, "first", entries[2].Description)
}

func TestGetTaskHistoryEmpty(t *testing.T) {
	svc := NewService(setupTestRepo(t))

	entries, err := svc.GetTaskHistory(context.Background(), "card-none")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClearTaskHistory(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	svc := NewService(repo)

	ts := time.Now()
	appendEntry(t, repo, "card-a", "A", ts)
	appendEntry(t, repo, "card-a", "B", ts)
	appendEntry(t, repo, "card-b", "keep", ts)

	require.NoError(t, svc.ClearTaskHistory(ctx, "card-a"))

	cleared, err := svc.GetTaskHistory(ctx, "card-a")
	require.NoError(t, err)
	assert.Empty(t, cleared)

	kept, err := svc.GetTaskHistory(ctx, "card-b")
	require.NoError(t, err)
	assert.Len(t, kept, 1, "other cards keep their history")

	// Clearing again is a no-op.
	require.NoError(t, svc.ClearTaskHistory(ctx, "card-a"))
}
