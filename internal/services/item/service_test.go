package item

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkarpov/plank/internal/database"
	"github.com/dkarpov/plank/internal/models"
	"github.com/dkarpov/plank/internal/services/project"
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

func createTestProject(t *testing.T, repo *database.Repository) *models.Project {
	t.Helper()
	p, err := project.NewService(repo, nil).CreateProject(
		context.Background(), project.CreateProjectRequest{Name: "P1"})
	require.NoError(t, err)
	return p
}

func TestCreateTaskItem(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	p := createTestProject(t, repo)
	svc := NewService(repo, nil)

	time.Sleep(2 * time.Millisecond)
	created, err := svc.CreateTaskItem(ctx, CreateTaskItemRequest{
		ProjectID: p.ID, Title: "T1", Description: "desc",
	})
	require.NoError(t, err)

	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "T1", created.Title)
	assert.Equal(t, models.StatusActive, created.Status, "default status is active")
	assert.Nil(t, created.Board, "board stays nil until first opened")

	// The owning project is updated too.
	reloaded, err := repo.GetProjectByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.TaskItems, 1)
	assert.True(t, reloaded.UpdatedAt.After(p.UpdatedAt), "project updatedAt should be bumped")
}

func TestCreateTaskItemProjectNotFound(t *testing.T) {
	svc := NewService(setupTestRepo(t), nil)

	_, err := svc.CreateTaskItem(context.Background(), CreateTaskItemRequest{
		ProjectID: "missing", Title: "T1",
	})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestUpdateTaskItemPartial(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	p := createTestProject(t, repo)
	svc := NewService(repo, nil)

	created, err := svc.CreateTaskItem(ctx, CreateTaskItemRequest{
		ProjectID: p.ID, Title: "T1", Description: "keep",
	})
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	status := models.StatusCompleted
	updated, err := svc.UpdateTaskItem(ctx, UpdateTaskItemRequest{
		ProjectID: p.ID, ItemID: created.ID, Status: &status,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, "T1", updated.Title, "title should be untouched")
	assert.Equal(t, "keep", updated.Description, "description should be untouched")
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	reloaded, err := repo.GetProjectByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.UpdatedAt.After(created.UpdatedAt),
		"project updatedAt should follow child mutations")
}

func TestUpdateTaskItemInvalidStatus(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	p := createTestProject(t, repo)
	svc := NewService(repo, nil)

	created, err := svc.CreateTaskItem(ctx, CreateTaskItemRequest{ProjectID: p.ID, Title: "T1"})
	require.NoError(t, err)

	bad := models.TaskStatus("archived")
	_, err = svc.UpdateTaskItem(ctx, UpdateTaskItemRequest{
		ProjectID: p.ID, ItemID: created.ID, Status: &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateTaskItemNotFound(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	p := createTestProject(t, repo)
	svc := NewService(repo, nil)

	title := "x"
	_, err := svc.UpdateTaskItem(ctx, UpdateTaskItemRequest{
		ProjectID: p.ID, ItemID: "missing", Title: &title,
	})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeleteTaskItem(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	p := createTestProject(t, repo)
	svc := NewService(repo, nil)

	created, err := svc.CreateTaskItem(ctx, CreateTaskItemRequest{ProjectID: p.ID, Title: "T1"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTaskItem(ctx, p.ID, created.ID))

	_, err = svc.GetTaskItem(ctx, p.ID, created.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeleteTaskItemClearsCardHistory(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	p := createTestProject(t, repo)
	svc := NewService(repo, nil)

	created, err := svc.CreateTaskItem(ctx, CreateTaskItemRequest{ProjectID: p.ID, Title: "T1"})
	require.NoError(t, err)

	// Attach a board with one card and give the card a history entry.
	cardID := types.NewID()
	board := &models.BoardState{
		Stages: []models.Stage{{ID: types.NewID(), Name: "To Do", Order: 0}},
		Tasks:  []models.Task{{ID: cardID, Title: "Card1"}},
	}
	_, err = svc.UpdateTaskItem(ctx, UpdateTaskItemRequest{
		ProjectID: p.ID, ItemID: created.ID, Board: board,
	})
	require.NoError(t, err)
	require.NoError(t, repo.AppendHistory(ctx, &models.HistoryEntry{
		ID: types.NewID(), TaskID: cardID,
		Operation: models.OpTaskCreated, Timestamp: time.Now(),
	}))

	require.NoError(t, svc.DeleteTaskItem(ctx, p.ID, created.ID))

	entries, err := repo.ListHistoryByTask(ctx, cardID)
	require.NoError(t, err)
	assert.Empty(t, entries, "card history should be cleared with the item")
}
