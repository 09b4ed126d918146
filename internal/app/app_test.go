package app

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkarpov/plank/internal/database"
	"github.com/dkarpov/plank/internal/events"
	"github.com/dkarpov/plank/internal/services/project"
	_ "modernc.org/sqlite"
)

func TestNewWiresAllServices(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	notifier := events.NewNotifier()
	a := New(database.NewRepository(db), notifier)

	assert.NotNil(t, a.ProjectService)
	assert.NotNil(t, a.ItemService)
	assert.NotNil(t, a.BoardService)
	assert.NotNil(t, a.HistoryService)
	assert.NotNil(t, a.Repo())

	// Services share the one repository.
	created, err := a.ProjectService.CreateProject(context.Background(),
		project.CreateProjectRequest{Name: "P1"})
	require.NoError(t, err)
	got, err := a.Repo().GetProjectByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "P1", got.Name)

	require.NoError(t, a.Close())
}
