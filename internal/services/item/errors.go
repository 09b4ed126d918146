package item

import "errors"

// Task-item-related errors
var (
	// ErrProjectNotFound indicates the owning project does not exist
	ErrProjectNotFound = errors.New("project not found")

	// ErrItemNotFound indicates the task item does not exist in the project
	ErrItemNotFound = errors.New("task item not found")

	// ErrInvalidStatus indicates a status outside the known enumeration
	ErrInvalidStatus = errors.New("invalid task item status")
)
