package database

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist in its
	// collection. Callers translate this into their own not-found errors.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable marks a storage operation that failed at the backend.
	// There is no automatic retry: the failure propagates up so the surface
	// layer can report it and let the user retry the action.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrUnknownCollection indicates a collection name outside the schema.
	ErrUnknownCollection = errors.New("unknown collection")
)
