package models

import (
	"time"

	"github.com/dkarpov/plank/internal/types"
)

// Operation describes what kind of mutation a history entry records.
type Operation string

const (
	OpTaskCreated Operation = "task_created"
	OpTaskMoved   Operation = "task_moved"
	OpTaskUpdated Operation = "task_updated"
	OpTaskDeleted Operation = "task_deleted"
	OpNoteAdded   Operation = "note_added"
	OpNoteUpdated Operation = "note_updated"
	OpNoteDeleted Operation = "note_deleted"
)

// HistoryEntry is one immutable audit record of a mutation against a card.
// Entries are append-only and queried by card id, newest first.
type HistoryEntry struct {
	ID          types.ID  `json:"id"`
	TaskID      types.ID  `json:"taskId"`
	Operation   Operation `json:"operationType"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}
