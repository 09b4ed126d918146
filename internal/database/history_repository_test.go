package database

import (
	"context"
	"testing"
	"time"

	"github.com/dkarpov/plank/internal/models"
	"github.com/dkarpov/plank/internal/types"
)

func appendTestEntry(t *testing.T, repo *Repository, taskID types.ID, op models.Operation, desc string) {
	t.Helper()
	err := repo.AppendHistory(context.Background(), &models.HistoryEntry{
		ID:          types.NewID(),
		TaskID:      taskID,
		Operation:   op,
		Description: desc,
		Timestamp:   time.Now(),
	})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
}

func TestHistoryRepoListByTask(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	appendTestEntry(t, repo, "card-a", models.OpTaskCreated, "A")
	appendTestEntry(t, repo, "card-a", models.OpTaskMoved, "B")
	appendTestEntry(t, repo, "card-b", models.OpTaskCreated, "other")

	entries, err := repo.ListHistoryByTask(ctx, "card-a")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Repo returns insertion order; display ordering is the service's job.
	if entries[0].Description != "A" || entries[1].Description != "B" {
		t.Errorf("unexpected order: %q, %q", entries[0].Description, entries[1].Description)
	}
}

func TestHistoryRepoListEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	entries, err := repo.ListHistoryByTask(ctx, "card-none")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestHistoryRepoClearByTask(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	appendTestEntry(t, repo, "card-a", models.OpTaskCreated, "A")
	appendTestEntry(t, repo, "card-a", models.OpNoteAdded, "B")
	appendTestEntry(t, repo, "card-b", models.OpTaskCreated, "keep")

	if err := repo.ClearHistoryByTask(ctx, "card-a"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	cleared, err := repo.ListHistoryByTask(ctx, "card-a")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(cleared) != 0 {
		t.Errorf("expected cleared log, got %d entries", len(cleared))
	}

	kept, err := repo.ListHistoryByTask(ctx, "card-b")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(kept) != 1 {
		t.Errorf("other card's log should be untouched, got %d entries", len(kept))
	}

	// Clearing an empty log is fine.
	if err := repo.ClearHistoryByTask(ctx, "card-a"); err != nil {
		t.Errorf("clearing empty log should succeed, got %v", err)
	}
}
