package database

import (
	"context"
	"database/sql"

	"github.com/dkarpov/plank/internal/models"
	"github.com/dkarpov/plank/internal/types"
)

// Repository provides a unified interface to all data operations.
// It composes the collection repositories over one shared store.
type Repository struct {
	projects *ProjectRepo
	history  *HistoryRepo
}

// NewRepository creates a Repository wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	store := NewStore(db)
	return &Repository{
		projects: &ProjectRepo{store: store},
		history:  &HistoryRepo{store: store},
	}
}

// DataStore is the unified interface the service layer depends on.
// It enables mocking with testify for unit testing.
type DataStore interface {
	// Project aggregates
	PutProject(ctx context.Context, project *models.Project) error
	GetProjectByID(ctx context.Context, id types.ID) (*models.Project, error)
	GetAllProjects(ctx context.Context) ([]*models.Project, error)
	GetProjectsByName(ctx context.Context, name string) ([]*models.Project, error)
	DeleteProject(ctx context.Context, id types.ID) error

	// History log
	AppendHistory(ctx context.Context, entry *models.HistoryEntry) error
	ListHistoryByTask(ctx context.Context, taskID types.ID) ([]*models.HistoryEntry, error)
	ClearHistoryByTask(ctx context.Context, taskID types.ID) error
}

var _ DataStore = (*Repository)(nil)

func (r *Repository) PutProject(ctx context.Context, project *models.Project) error {
	return r.projects.Put(ctx, project)
}

func (r *Repository) GetProjectByID(ctx context.Context, id types.ID) (*models.Project, error) {
	return r.projects.GetByID(ctx, id)
}

func (r *Repository) GetAllProjects(ctx context.Context) ([]*models.Project, error) {
	return r.projects.GetAll(ctx)
}

func (r *Repository) GetProjectsByName(ctx context.Context, name string) ([]*models.Project, error) {
	return r.projects.GetByName(ctx, name)
}

func (r *Repository) DeleteProject(ctx context.Context, id types.ID) error {
	return r.projects.Delete(ctx, id)
}

func (r *Repository) AppendHistory(ctx context.Context, entry *models.HistoryEntry) error {
	return r.history.Append(ctx, entry)
}

func (r *Repository) ListHistoryByTask(ctx context.Context, taskID types.ID) ([]*models.HistoryEntry, error) {
	return r.history.ListByTask(ctx, taskID)
}

func (r *Repository) ClearHistoryByTask(ctx context.Context, taskID types.ID) error {
	return r.history.ClearByTask(ctx, taskID)
}
