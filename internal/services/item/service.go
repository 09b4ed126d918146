// Package item implements task-item operations within a project.
package item

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkarpov/plank/internal/database"
	"github.com/dkarpov/plank/internal/events"
	"github.com/dkarpov/plank/internal/models"
	"github.com/dkarpov/plank/internal/types"
)

// Service defines all task-item business operations
type Service interface {
	// Read operations
	GetTaskItem(ctx context.Context, projectID, itemID types.ID) (*models.TaskItem, error)

	// Write operations
	CreateTaskItem(ctx context.Context, req CreateTaskItemRequest) (*models.TaskItem, error)
	UpdateTaskItem(ctx context.Context, req UpdateTaskItemRequest) (*models.TaskItem, error)
	DeleteTaskItem(ctx context.Context, projectID, itemID types.ID) error
}

// CreateTaskItemRequest encapsulates data for creating a task item
type CreateTaskItemRequest struct {
	ProjectID   types.ID
	Title       string
	Description string
}

// UpdateTaskItemRequest encapsulates data for updating a task item.
// Pointer fields are optional - nil means don't update.
type UpdateTaskItemRequest struct {
	ProjectID   types.ID
	ItemID      types.ID
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Board       *models.BoardState
}

// service implements Service interface
type service struct {
	repo     database.DataStore
	notifier events.Publisher
}

// NewService creates a new task-item service
func NewService(repo database.DataStore, notifier events.Publisher) Service {
	return &service{repo: repo, notifier: notifier}
}

func (s *service) getProject(ctx context.Context, projectID types.ID) (*models.Project, error) {
	project, err := s.repo.GetProjectByID(ctx, projectID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// GetTaskItem returns one embedded task item.
func (s *service) GetTaskItem(ctx context.Context, projectID, itemID types.ID) (*models.TaskItem, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	item := project.FindTaskItem(itemID)
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// CreateTaskItem appends a new active task item to the project and bumps
// the project's updatedAt.
func (s *service) CreateTaskItem(ctx context.Context, req CreateTaskItemRequest) (*models.TaskItem, error) {
	project, err := s.getProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := models.TaskItem{
		ID:          types.NewID(),
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	project.TaskItems = append(project.TaskItems, item)
	project.UpdatedAt = now

	if err := s.repo.PutProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create task item: %w", err)
	}

	events.PublishChange(s.notifier, project.ID)
	return &project.TaskItems[len(project.TaskItems)-1], nil
}

// UpdateTaskItem merges the provided fields into the task item and bumps
// both the item's and the project's updatedAt.
func (s *service) UpdateTaskItem(ctx context.Context, req UpdateTaskItemRequest) (*models.TaskItem, error) {
	if req.Status != nil && !models.ValidTaskStatus(*req.Status) {
		return nil, ErrInvalidStatus
	}

	project, err := s.getProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	item := project.FindTaskItem(req.ItemID)
	if item == nil {
		return nil, ErrItemNotFound
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	if req.Board != nil {
		item.Board = req.Board
	}

	now := time.Now()
	item.UpdatedAt = now
	project.UpdatedAt = now

	if err := s.repo.PutProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update task item: %w", err)
	}

	events.PublishChange(s.notifier, project.ID)
	return item, nil
}

// DeleteTaskItem removes the task item from the project's sequence, taking
// its embedded board with it, and clears the persisted history of the
// board's cards. History goes first so a partial failure never leaves a
// surviving item referencing cleared state.
func (s *service) DeleteTaskItem(ctx context.Context, projectID, itemID types.ID) error {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return err
	}

	item := project.FindTaskItem(itemID)
	if item == nil {
		return ErrItemNotFound
	}

	if item.Board != nil {
		for i := range item.Board.Tasks {
			if err := s.repo.ClearHistoryByTask(ctx, item.Board.Tasks[i].ID); err != nil {
				return fmt.Errorf("failed to clear card history: %w", err)
			}
		}
	}

	kept := project.TaskItems[:0]
	for i := range project.TaskItems {
		if project.TaskItems[i].ID != itemID {
			kept = append(kept, project.TaskItems[i])
		}
	}
	project.TaskItems = kept
	project.UpdatedAt = time.Now()

	if err := s.repo.PutProject(ctx, project); err != nil {
		return fmt.Errorf("failed to delete task item: %w", err)
	}

	events.PublishChange(s.notifier, project.ID)
	return nil
}
