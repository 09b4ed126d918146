package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dkarpov/plank/internal/models"
	"github.com/dkarpov/plank/internal/types"
)

// ProjectRepo stores whole project aggregates (project plus embedded task
// items and board state) as documents in the projects collection, keyed by
// id and indexed by name.
type ProjectRepo struct {
	store *Store
}

// Put inserts or replaces the project document.
func (r *ProjectRepo) Put(ctx context.Context, project *models.Project) error {
	doc, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("encoding project %s: %w", project.ID, err)
	}
	return r.store.Put(ctx, CollectionProjects, Record{
		ID:       project.ID,
		IndexKey: project.Name,
		Doc:      doc,
	})
}

// GetByID returns the project aggregate, or ErrNotFound.
func (r *ProjectRepo) GetByID(ctx context.Context, id types.ID) (*models.Project, error) {
	rec, err := r.store.Get(ctx, CollectionProjects, id)
	if err != nil {
		return nil, err
	}
	return decodeProject(rec)
}

// GetAll returns every project in insertion order.
func (r *ProjectRepo) GetAll(ctx context.Context) ([]*models.Project, error) {
	recs, err := r.store.GetAll(ctx, CollectionProjects)
	if err != nil {
		return nil, err
	}
	projects := make([]*models.Project, 0, len(recs))
	for i := range recs {
		project, err := decodeProject(&recs[i])
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// GetByName returns the projects carrying the given name. Names are not
// unique, so this can return more than one.
func (r *ProjectRepo) GetByName(ctx context.Context, name string) ([]*models.Project, error) {
	recs, err := r.store.GetByIndex(ctx, CollectionProjects, name)
	if err != nil {
		return nil, err
	}
	projects := make([]*models.Project, 0, len(recs))
	for i := range recs {
		project, err := decodeProject(&recs[i])
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// Delete removes the project document. No-op when absent.
func (r *ProjectRepo) Delete(ctx context.Context, id types.ID) error {
	return r.store.Delete(ctx, CollectionProjects, id)
}

func decodeProject(rec *Record) (*models.Project, error) {
	var project models.Project
	if err := json.Unmarshal(rec.Doc, &project); err != nil {
		return nil, fmt.Errorf("decoding project %s: %w", rec.ID, err)
	}
	return &project, nil
}
