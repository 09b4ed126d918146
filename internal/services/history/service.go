// Package history implements queries over the persisted audit log.
package history

import (
	"context"
	"fmt"
	"sort"

	"github.com/dkarpov/plank/internal/database"
	"github.com/dkarpov/plank/internal/models"
	"github.com/dkarpov/plank/internal/types"
)

// Service defines the history query operations
type Service interface {
	// GetTaskHistory returns the card's entries, most recent first.
	GetTaskHistory(ctx context.Context, taskID types.ID) ([]*models.HistoryEntry, error)

	// ClearTaskHistory removes every entry for the card.
	ClearTaskHistory(ctx context.Context, taskID types.ID) error
}

// service implements Service interface
type service struct {
	repo database.DataStore
}

// NewService creates a new history service
func NewService(repo database.DataStore) Service {
	return &service{repo: repo}
}

// GetTaskHistory returns entries sorted by timestamp descending. Entries
// with equal timestamps keep reverse insertion order, so the latest append
// still comes first.
func (s *service) GetTaskHistory(ctx context.Context, taskID types.ID) ([]*models.HistoryEntry, error) {
	entries, err := s.repo.ListHistoryByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	// The repo returns insertion order (oldest first); reverse before the
	// stable sort so ties stay newest-first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	return entries, nil
}

// ClearTaskHistory deletes all entries for the card. The repo removes them
// in one statement, so the caller observes all-or-nothing.
func (s *service) ClearTaskHistory(ctx context.Context, taskID types.ID) error {
	if err := s.repo.ClearHistoryByTask(ctx, taskID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
