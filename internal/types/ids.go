// Package types holds the identifier type shared by every domain model.
package types

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID is an opaque record identifier. IDs are unique within a process
// lifetime, immutable after creation, and carry no meaning beyond identity.
type ID string

// NewID generates a fresh identifier from the current time (base-36 unix
// milliseconds) and a random suffix. The time component keeps ids roughly
// sortable by creation; the random component makes collisions negligible
// without any global counter.
func NewID() ID {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return ID(ts + suffix)
}

// String returns the id as a plain string.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool {
	return id == ""
}
