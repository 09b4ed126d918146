package models

import (
	"time"

	"github.com/dkarpov/plank/internal/types"
)

// Project is the root aggregate: it owns its task items by embedding.
// The whole aggregate is persisted as one document, so deleting a project
// removes every embedded task item and board with it.
type Project struct {
	ID          types.ID   `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	TaskItems   []TaskItem `json:"taskItems"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FindTaskItem returns the embedded task item with the given id, or nil.
func (p *Project) FindTaskItem(id types.ID) *TaskItem {
	for i := range p.TaskItems {
		if p.TaskItems[i].ID == id {
			return &p.TaskItems[i]
		}
	}
	return nil
}

// ActiveItemCount returns the number of task items still in StatusActive.
func (p *Project) ActiveItemCount() int {
	n := 0
	for i := range p.TaskItems {
		if p.TaskItems[i].Status == StatusActive {
			n++
		}
	}
	return n
}
