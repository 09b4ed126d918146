// Package tui implements the interactive board: project and item lists,
// the kanban board itself, the card view with notes, and the history view.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkarpov/plank/internal/app"
	"github.com/dkarpov/plank/internal/config"
	"github.com/dkarpov/plank/internal/events"
	"github.com/dkarpov/plank/internal/models"
	"github.com/dkarpov/plank/internal/types"
)

// autosaveDelay is how long the description editor waits after the last
// keystroke before persisting.
const autosaveDelay = 750 * time.Millisecond

// view identifies which screen is active.
type view int

const (
	viewProjects view = iota
	viewItems
	viewBoard
	viewCard
	viewHistory
	viewHelp
)

// inputPurpose says what the text input line is collecting.
type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputNewProject
	inputNewItem
	inputNewCard
	inputNewStage
	inputRenameCard
	inputNewNote
)

// Model is the bubbletea model for the whole UI.
type Model struct {
	ctx context.Context
	app *app.App
	cfg *config.Config

	keys   config.KeyMappings
	styles styles

	width  int
	height int

	view     view
	prevView view

	// Project list
	projects   []*models.Project
	projectIdx int

	// Item list (within the selected project)
	project *models.Project
	itemIdx int

	// Board (within the selected item)
	item     *models.TaskItem
	board    *models.BoardState
	stageIdx int
	cardIdx  int

	// Card view
	card *models.Task

	// History view
	history []*models.HistoryEntry

	// Text input line, used by several creation flows
	input        textinput.Model
	inputPurpose inputPurpose

	// Description editor with debounced autosave
	editor    textarea.Model
	editing   bool
	debouncer *events.Debouncer

	// Live updates
	sub <-chan events.Event

	statusErr  string
	statusInfo string
}

// Run starts the UI and blocks until it exits.
func Run(ctx context.Context, application *app.App, cfg *config.Config, notifier *events.Notifier) error {
	model := NewModel(ctx, application, cfg, notifier)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	model.debouncer.Flush()
	model.debouncer.Stop()
	return err
}

// NewModel builds the initial model showing the project list.
func NewModel(ctx context.Context, application *app.App, cfg *config.Config, notifier *events.Notifier) *Model {
	input := textinput.New()
	input.CharLimit = 120

	editor := textarea.New()
	editor.Placeholder = "Describe this card (markdown)..."

	var sub <-chan events.Event
	if notifier != nil {
		sub = notifier.Subscribe()
	}

	return &Model{
		ctx:       ctx,
		app:       application,
		cfg:       cfg,
		keys:      cfg.KeyMappings,
		styles:    newStyles(cfg.Theme),
		view:      viewProjects,
		input:     input,
		editor:    editor,
		debouncer: events.NewDebouncer(autosaveDelay),
		sub:       sub,
	}
}

// Init loads the project list and starts listening for change events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadProjects(), m.waitForChange())
}

// Messages

type projectsLoadedMsg struct {
	projects []*models.Project
}

type projectOpenedMsg struct {
	project *models.Project
}

type boardOpenedMsg struct {
	project *models.Project
	item    *models.TaskItem
	board   *models.BoardState
}

type historyLoadedMsg struct {
	entries []*models.HistoryEntry
}

type dbChangedMsg struct {
	event events.Event
}

type opFailedMsg struct {
	err error
}

type opDoneMsg struct {
	info string
}

// Commands

func (m *Model) loadProjects() tea.Cmd {
	return func() tea.Msg {
		projects, err := m.app.ProjectService.GetAllProjects(m.ctx)
		if err != nil {
			return opFailedMsg{err: err}
		}
		return projectsLoadedMsg{projects: projects}
	}
}

func (m *Model) openProject(id types.ID) tea.Cmd {
	return func() tea.Msg {
		project, err := m.app.ProjectService.GetProjectByID(m.ctx, id)
		if err != nil {
			return opFailedMsg{err: err}
		}
		return projectOpenedMsg{project: project}
	}
}

func (m *Model) openBoard(projectID, itemID types.ID) tea.Cmd {
	return func() tea.Msg {
		board, err := m.app.BoardService.Open(m.ctx, projectID, itemID)
		if err != nil {
			return opFailedMsg{err: err}
		}
		project, err := m.app.ProjectService.GetProjectByID(m.ctx, projectID)
		if err != nil {
			return opFailedMsg{err: err}
		}
		item := project.FindTaskItem(itemID)
		if item == nil {
			return opFailedMsg{err: err}
		}
		return boardOpenedMsg{project: project, item: item, board: board}
	}
}

func (m *Model) loadHistory(cardID types.ID) tea.Cmd {
	return func() tea.Msg {
		entries, err := m.app.HistoryService.GetTaskHistory(m.ctx, cardID)
		if err != nil {
			return opFailedMsg{err: err}
		}
		return historyLoadedMsg{entries: entries}
	}
}

// waitForChange blocks on the notifier subscription and converts the next
// event into a message. Re-issued after every delivery.
func (m *Model) waitForChange() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-m.sub
		if !ok {
			return nil
		}
		return dbChangedMsg{event: event}
	}
}

// Selection helpers

// stagesInOrder returns the board's stages sorted by Order.
func (m *Model) stagesInOrder() []*models.Stage {
	if m.board == nil {
		return nil
	}
	ordered := make([]*models.Stage, 0, len(m.board.Stages))
	for i := range m.board.Stages {
		ordered = append(ordered, &m.board.Stages[i])
	}
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j-1].Order > ordered[j].Order; j-- {
			ordered[j-1], ordered[j] = ordered[j], ordered[j-1]
		}
	}
	return ordered
}

// selectedStage returns the stage the cursor is on.
func (m *Model) selectedStage() *models.Stage {
	stages := m.stagesInOrder()
	if len(stages) == 0 {
		return nil
	}
	if m.stageIdx >= len(stages) {
		m.stageIdx = len(stages) - 1
	}
	return stages[m.stageIdx]
}

// selectedCard returns the card the cursor is on, or nil.
func (m *Model) selectedCard() *models.Task {
	stage := m.selectedStage()
	if stage == nil || m.board == nil {
		return nil
	}
	cards := m.board.TasksInStage(stage.ID)
	if len(cards) == 0 {
		return nil
	}
	if m.cardIdx >= len(cards) {
		m.cardIdx = len(cards) - 1
	}
	return cards[m.cardIdx]
}

// clampCursors keeps the cursors valid after a reload.
func (m *Model) clampCursors() {
	if m.projectIdx >= len(m.projects) {
		m.projectIdx = max(0, len(m.projects)-1)
	}
	if m.project != nil && m.itemIdx >= len(m.project.TaskItems) {
		m.itemIdx = max(0, len(m.project.TaskItems)-1)
	}
	if m.board != nil {
		if m.stageIdx >= len(m.board.Stages) {
			m.stageIdx = max(0, len(m.board.Stages)-1)
		}
		stage := m.selectedStage()
		if stage != nil {
			cards := m.board.TasksInStage(stage.ID)
			if m.cardIdx >= len(cards) {
				m.cardIdx = max(0, len(cards)-1)
			}
		}
	}
}
