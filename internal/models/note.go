package models

import (
	"time"

	"github.com/dkarpov/plank/internal/types"
)

// Note is a short write-up attached to a card. A note's display number is
// its 1-based position in the card's Notes slice, computed when needed.
type Note struct {
	ID        types.ID  `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
