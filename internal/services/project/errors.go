package project

import "errors"

// Project-related errors
var (
	// ErrProjectNotFound indicates the referenced project does not exist
	ErrProjectNotFound = errors.New("project not found")
)
