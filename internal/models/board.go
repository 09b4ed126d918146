package models

import (
	"time"

	"github.com/dkarpov/plank/internal/types"
)

// BoardState is the complete kanban board of one task item: its stages and
// the cards placed on them. History is persisted in its own collection and
// queried by card id; the embedded slice exists only for document-shape
// compatibility and stays empty.
type BoardState struct {
	Stages  []Stage        `json:"stages"`
	Tasks   []Task         `json:"tasks"`
	History []HistoryEntry `json:"history"`
}

// Stage is a named, colored board column. Order is a dense 0-based rank:
// within one board the orders are unique and contiguous, and they stay
// contiguous after deletions.
type Stage struct {
	ID    types.ID `json:"id"`
	Name  string   `json:"name"`
	Color string   `json:"color"`
	Order int      `json:"order"`
}

// Task is a kanban card. StageID references a stage in the same board.
// CardTypes is set-like: the toggle operation enforces deduplication.
type Task struct {
	ID          types.ID   `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StageID     types.ID   `json:"stageId"`
	CardTypes   []CardType `json:"cardTypes"`
	Notes       []Note     `json:"notes"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FindStage returns the stage with the given id, or nil.
func (b *BoardState) FindStage(id types.ID) *Stage {
	for i := range b.Stages {
		if b.Stages[i].ID == id {
			return &b.Stages[i]
		}
	}
	return nil
}

// FindTask returns the card with the given id, or nil.
func (b *BoardState) FindTask(id types.ID) *Task {
	for i := range b.Tasks {
		if b.Tasks[i].ID == id {
			return &b.Tasks[i]
		}
	}
	return nil
}

// TasksInStage returns the cards whose StageID equals the given stage,
// in their stored order.
func (b *BoardState) TasksInStage(stageID types.ID) []*Task {
	var out []*Task
	for i := range b.Tasks {
		if b.Tasks[i].StageID == stageID {
			out = append(out, &b.Tasks[i])
		}
	}
	return out
}

// HasCardType reports whether the card already carries the given type.
func (t *Task) HasCardType(ct CardType) bool {
	for _, existing := range t.CardTypes {
		if existing == ct {
			return true
		}
	}
	return false
}

// NotePosition returns the 1-based position of the note with the given id,
// or 0 if it is not on this card. Positions are derived at call time, never
// stored, so they renumber implicitly as notes are added or removed.
func (t *Task) NotePosition(noteID types.ID) int {
	for i := range t.Notes {
		if t.Notes[i].ID == noteID {
			return i + 1
		}
	}
	return 0
}
