// Package project implements the project-level business operations.
package project

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

// Service defines all project-related business operations
type Service interface {
	// Read operations
	GetAllProjects(ctx context.Context) ([]*models.Project, error)
	GetProjectByID(ctx context.Context, id types.ID) (*models.Project, error)
	GetActiveItemCount(ctx context.Context, id types.ID) (int, error)

	// Write operations
	CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, req UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, id types.ID) error
}

// CreateProjectRequest encapsulates data for creating a project
type CreateProjectRequest struct {
	Name        string
	Description string
}

// UpdateProjectRequest encapsulates data for updating a project.
// Pointer fields are optional - nil means don't update.
type UpdateProjectRequest struct {
	ID          types.ID
	Name        *string
	Description *string
}

// service implements Service interface
type service struct {
	repo     database.DataStore
	notifier events.Publisher
}

// NewService creates a new project service
func NewService(repo database.DataStore, notifier events.Publisher) Service {
	return &service{repo: repo, notifier: notifier}
}

// GetAllProjects returns every project. Order is as stored; the surface
// layer applies its own sort.
func (s *service) GetAllProjects(ctx context.Context) ([]*models.Project, error) {
	return s.repo.GetAllProjects(ctx)
}

// GetProjectByID returns one project aggregate.
func (s *service) GetProjectByID(ctx context.Context, id types.ID) (*models.Project, error) {
	project, err := s.repo.GetProjectByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// GetActiveItemCount returns how many of the project's task items are
// still active.
func (s *service) GetActiveItemCount(ctx context.Context, id types.ID) (int, error) {
	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return project.ActiveItemCount(), nil
}

// CreateProject creates and persists a new empty project.
func (s *service) CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	now := time.Now()
	project := &models.Project{
		ID:          types.NewID(),
		Name:        req.Name,
		Description: req.Description,
		TaskItems:   []models.TaskItem{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.PutProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	events.PublishChange(s.notifier, project.ID)
	return project, nil
}

// UpdateProject merges the provided fields into the project and bumps its
// updatedAt.
func (s *service) UpdateProject(ctx context.Context, req UpdateProjectRequest) (*models.Project, error) {
	project, err := s.GetProjectByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	project.UpdatedAt = time.Now()

	if err := s.repo.PutProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	events.PublishChange(s.notifier, project.ID)
	return project, nil
}

// DeleteProject removes the project aggregate, which removes all embedded
// task items and boards with it, and clears the persisted history of every
// card on the project's boards. History goes first so a partial failure
// leaves orphaned history at worst, never a project referencing cleared
// state.
func (s *service) DeleteProject(ctx context.Context, id types.ID) error {
	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}

	for i := range project.TaskItems {
		board := project.TaskItems[i].Board
		if board == nil {
			continue
		}
		for j := range board.Tasks {
			if err := s.repo.ClearHistoryByTask(ctx, board.Tasks[j].ID); err != nil {
				return fmt.Errorf("failed to clear card history: %w", err)
			}
		}
	}

	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	events.PublishChange(s.notifier, id)
	return nil
}
