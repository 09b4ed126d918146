package models

import (
	"time"

	"github.com/dkarpov/plank/internal/types"
)

// TaskStatus is the lifecycle state of a task item within its project.
type TaskStatus string

const (
	StatusActive    TaskStatus = "active"
	StatusCompleted TaskStatus = "completed"
	StatusRevision  TaskStatus = "revision"
)

// ValidTaskStatus reports whether s is one of the known statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case StatusActive, StatusCompleted, StatusRevision:
		return true
	}
	return false
}

// TaskItem is a unit of work tracked within a project. It lives inside
// exactly one project's TaskItems slice and may own its own kanban board.
// Board stays nil until the user first opens the item's board view.
type TaskItem struct {
	ID          types.ID    `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      TaskStatus  `json:"status"`
	Board       *BoardState `json:"boardState,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
