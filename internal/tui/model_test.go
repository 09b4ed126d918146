package tui

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkarpov/plank/internal/app"
	"github.com/dkarpov/plank/internal/config"
	"github.com/dkarpov/plank/internal/database"
	"github.com/dkarpov/plank/internal/events"
	itemservice "github.com/dkarpov/plank/internal/services/item"
	projectservice "github.com/dkarpov/plank/internal/services/project"
	_ "modernc.org/sqlite"
)

func setupModel(t *testing.T) (*Model, *app.App) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	notifier := events.NewNotifier()
	application := app.New(database.NewRepository(db), notifier)

	cfg := &config.Config{}
	cfg.KeyMappings = config.DefaultKeyMappings()
	cfg.Theme = config.DefaultTheme()

	m := NewModel(context.Background(), application, cfg, notifier)
	m.width = 120
	m.height = 40
	return m, application
}

// drain runs a command and feeds resulting messages back until none remain.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				drain(t, m, c)
			}
			return
		}
		if _, isChange := msg.(dbChangedMsg); isChange {
			// Would re-subscribe forever; the loop under test is done.
			return
		}
		_, cmd = m.Update(msg)
	}
}

func TestInitialViewIsProjectList(t *testing.T) {
	m, _ := setupModel(t)
	drain(t, m, m.loadProjects())

	assert.Equal(t, viewProjects, m.view)
	assert.Contains(t, m.View(), "No projects")
}

func TestProjectListNavigation(t *testing.T) {
	m, application := setupModel(t)
	ctx := context.Background()

	for _, name := range []string{"Alpha", "Beta"} {
		_, err := application.ProjectService.CreateProject(ctx, projectservice.CreateProjectRequest{Name: name})
		require.NoError(t, err)
	}
	drain(t, m, m.loadProjects())
	require.Len(t, m.projects, 2)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, m.projectIdx)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, m.projectIdx, "cursor stops at the last project")
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 0, m.projectIdx)
}

func TestOpenProjectThenBoard(t *testing.T) {
	m, application := setupModel(t)
	ctx := context.Background()

	p, err := application.ProjectService.CreateProject(ctx, projectservice.CreateProjectRequest{Name: "Alpha"})
	require.NoError(t, err)
	_, err = application.ItemService.CreateTaskItem(ctx, itemservice.CreateTaskItemRequest{
		ProjectID: p.ID, Title: "Sprint 1",
	})
	require.NoError(t, err)

	drain(t, m, m.loadProjects())

	// Enter opens the item list.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(t, m, cmd)
	assert.Equal(t, viewItems, m.view)
	assert.Contains(t, m.View(), "Sprint 1")

	// Enter again opens the board with the default stages.
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(t, m, cmd)
	assert.Equal(t, viewBoard, m.view)
	require.NotNil(t, m.board)
	assert.Len(t, m.board.Stages, 4)

	rendered := m.View()
	for _, name := range []string{"To Do", "In Progress", "Testing", "Done"} {
		assert.True(t, strings.Contains(rendered, name), "board should show stage %q", name)
	}
}

func TestNewCardViaInputLine(t *testing.T) {
	m, application := setupModel(t)
	ctx := context.Background()

	p, err := application.ProjectService.CreateProject(ctx, projectservice.CreateProjectRequest{Name: "Alpha"})
	require.NoError(t, err)
	item, err := application.ItemService.CreateTaskItem(ctx, itemservice.CreateTaskItemRequest{
		ProjectID: p.ID, Title: "Sprint 1",
	})
	require.NoError(t, err)

	drain(t, m, m.openBoard(p.ID, item.ID))
	require.Equal(t, viewBoard, m.view)

	// "a" starts the input line for a new card on the selected stage.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	require.Equal(t, inputNewCard, m.inputPurpose)

	for _, r := range "Fix login" {
		_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, inputNone, m.inputPurpose)
	drain(t, m, cmd)

	require.NotNil(t, m.board)
	require.Len(t, m.board.Tasks, 1)
	assert.Equal(t, "Fix login", m.board.Tasks[0].Title)
}

func TestEscapeClosesInputWithoutCreating(t *testing.T) {
	m, _ := setupModel(t)
	drain(t, m, m.loadProjects())

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	require.Equal(t, inputNewProject, m.inputPurpose)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, inputNone, m.inputPurpose)
	drain(t, m, m.loadProjects())
	assert.Empty(t, m.projects)
}

func TestQuitKey(t *testing.T) {
	m, _ := setupModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestErrorShowsInStatusLine(t *testing.T) {
	m, _ := setupModel(t)

	_, _ = m.Update(opFailedMsg{err: assert.AnError})
	assert.Contains(t, m.View(), assert.AnError.Error())

	// Any keypress clears it.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.NotContains(t, m.View(), assert.AnError.Error())
}
