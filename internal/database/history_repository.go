package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dkarpov/plank/internal/models"
	"github.com/dkarpov/plank/internal/types"
)

// HistoryRepo stores audit entries in the history collection, keyed by entry
// id and indexed by the card id the entry describes. The log is append-only:
// entries are never updated, only appended or cleared per card.
type HistoryRepo struct {
	store *Store
}

// Append persists a new history entry.
func (r *HistoryRepo) Append(ctx context.Context, entry *models.HistoryEntry) error {
	doc, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding history entry %s: %w", entry.ID, err)
	}
	return r.store.Put(ctx, CollectionHistory, Record{
		ID:       entry.ID,
		IndexKey: string(entry.TaskID),
		Doc:      doc,
	})
}

// ListByTask returns the entries for one card in insertion order (oldest
// first). Callers apply their own display ordering.
func (r *HistoryRepo) ListByTask(ctx context.Context, taskID types.ID) ([]*models.HistoryEntry, error) {
	recs, err := r.store.GetByIndex(ctx, CollectionHistory, string(taskID))
	if err != nil {
		return nil, err
	}
	entries := make([]*models.HistoryEntry, 0, len(recs))
	for i := range recs {
		var entry models.HistoryEntry
		if err := json.Unmarshal(recs[i].Doc, &entry); err != nil {
			return nil, fmt.Errorf("decoding history entry %s: %w", recs[i].ID, err)
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

// ClearByTask removes every entry for the given card in one statement, so
// the caller observes all-or-nothing.
func (r *HistoryRepo) ClearByTask(ctx context.Context, taskID types.ID) error {
	return r.store.DeleteByIndex(ctx, CollectionHistory, string(taskID))
}
