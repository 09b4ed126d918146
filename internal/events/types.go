package events

import (
	"time"

	"github.com/dkarpov/plank/internal/types"
)

// EventType indicates what kind of change occurred.
type EventType string

const (
	EventDatabaseChanged EventType = "db_changed"
)

// Event represents a database change notification.
type Event struct {
	Type      EventType
	ProjectID types.ID  // which project was modified
	Timestamp time.Time // when the event occurred
}
