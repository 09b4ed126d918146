package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dkarpov/plank/internal/models"
	"github.com/dkarpov/plank/internal/types"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(setupTestDB(t))
}

func testProject(name string) *models.Project {
	now := time.Now()
	return &models.Project{
		ID:        types.NewID(),
		Name:      name,
		TaskItems: []models.TaskItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProjectRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	project := testProject("Alpha")
	project.TaskItems = append(project.TaskItems, models.TaskItem{
		ID:     types.NewID(),
		Title:  "first item",
		Status: models.StatusActive,
	})

	if err := repo.PutProject(ctx, project); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := repo.GetProjectByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "Alpha" {
		t.Errorf("expected name Alpha, got %q", got.Name)
	}
	if len(got.TaskItems) != 1 || got.TaskItems[0].Title != "first item" {
		t.Errorf("embedded items lost in round-trip: %+v", got.TaskItems)
	}
}

func TestProjectRepoGetMissing(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.GetProjectByID(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProjectRepoGetByName(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	// Names are not unique across projects.
	a := testProject("Shared")
	b := testProject("Shared")
	c := testProject("Other")
	for _, p := range []*models.Project{a, b, c} {
		if err := repo.PutProject(ctx, p); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	matches, err := repo.GetProjectsByName(ctx, "Shared")
	if err != nil {
		t.Fatalf("getByName failed: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("expected 2 matches, got %d", len(matches))
	}
}

func TestProjectRepoRenameUpdatesIndex(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	project := testProject("Before")
	if err := repo.PutProject(ctx, project); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	project.Name = "After"
	if err := repo.PutProject(ctx, project); err != nil {
		t.Fatalf("rename put failed: %v", err)
	}

	before, err := repo.GetProjectsByName(ctx, "Before")
	if err != nil {
		t.Fatalf("getByName failed: %v", err)
	}
	if len(before) != 0 {
		t.Errorf("old name still indexed: %d matches", len(before))
	}

	after, err := repo.GetProjectsByName(ctx, "After")
	if err != nil {
		t.Fatalf("getByName failed: %v", err)
	}
	if len(after) != 1 {
		t.Errorf("new name not indexed: %d matches", len(after))
	}
}

func TestProjectRepoDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	project := testProject("Doomed")
	if err := repo.PutProject(ctx, project); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := repo.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := repo.GetProjectByID(ctx, project.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again stays a no-op.
	if err := repo.DeleteProject(ctx, project.ID); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}
}
