package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	boardservice "github.com/dkarpov/plank/internal/services/board"
	itemservice "github.com/dkarpov/plank/internal/services/item"
	projectservice "github.com/dkarpov/plank/internal/services/project"
	"github.com/dkarpov/plank/internal/types"
)

// Update routes messages to the active screen.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(msg.Width - 8)
		m.editor.SetHeight(msg.Height / 2)
		return m, nil

	case projectsLoadedMsg:
		m.projects = msg.projects
		m.clampCursors()
		return m, nil

	case projectOpenedMsg:
		m.project = msg.project
		m.view = viewItems
		m.clampCursors()
		return m, nil

	case boardOpenedMsg:
		m.project = msg.project
		m.item = msg.item
		m.board = msg.board
		if m.view != viewCard && m.view != viewHistory {
			m.view = viewBoard
		}
		if m.card != nil {
			// Re-resolve the open card against the fresh board.
			m.card = m.board.FindTask(m.card.ID)
			if m.card == nil {
				m.view = viewBoard
			}
		}
		m.clampCursors()
		return m, nil

	case historyLoadedMsg:
		m.history = msg.entries
		m.view = viewHistory
		return m, nil

	case dbChangedMsg:
		return m, tea.Batch(m.reloadCurrent(), m.waitForChange())

	case opFailedMsg:
		m.statusErr = msg.err.Error()
		m.statusInfo = ""
		return m, nil

	case opDoneMsg:
		m.statusErr = ""
		m.statusInfo = msg.info
		return m, m.reloadCurrent()

	case tea.KeyMsg:
		m.statusErr = ""
		m.statusInfo = ""
		if m.editing {
			return m.updateEditor(msg)
		}
		if m.inputPurpose != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

// reloadCurrent refreshes whatever the active view shows.
func (m *Model) reloadCurrent() tea.Cmd {
	switch m.view {
	case viewProjects:
		return m.loadProjects()
	case viewItems:
		if m.project != nil {
			return m.openProject(m.project.ID)
		}
	case viewBoard, viewCard:
		if m.project != nil && m.item != nil {
			return m.openBoard(m.project.ID, m.item.ID)
		}
	case viewHistory:
		if m.card != nil {
			return m.loadHistory(m.card.ID)
		}
	}
	return nil
}

// updateEditor handles keys while the description editor is focused.
// Every change re-arms the debounced save; esc flushes and leaves.
func (m *Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.editing = false
		m.editor.Blur()
		m.debouncer.Flush()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)

	if m.card != nil {
		projectID, itemID, cardID := m.project.ID, m.item.ID, m.card.ID
		description := m.editor.Value()
		m.debouncer.Trigger(func() {
			_, _ = m.app.BoardService.UpdateTask(m.ctx, boardservice.UpdateTaskRequest{
				ProjectID:   projectID,
				ItemID:      itemID,
				TaskID:      cardID,
				Description: &description,
			})
		})
	}

	return m, cmd
}

// updateInput handles keys while the one-line input is collecting a name.
func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputPurpose = inputNone
		m.input.Blur()
		m.input.SetValue("")
		return m, nil

	case tea.KeyEnter:
		value := m.input.Value()
		purpose := m.inputPurpose
		m.inputPurpose = inputNone
		m.input.Blur()
		m.input.SetValue("")
		if value == "" && purpose != inputNewNote {
			return m, nil
		}
		return m, m.submitInput(purpose, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitInput turns a finished input line into the matching service call.
func (m *Model) submitInput(purpose inputPurpose, value string) tea.Cmd {
	switch purpose {
	case inputNewProject:
		return func() tea.Msg {
			_, err := m.app.ProjectService.CreateProject(m.ctx, projectservice.CreateProjectRequest{Name: value})
			if err != nil {
				return opFailedMsg{err: err}
			}
			return opDoneMsg{info: "Project created"}
		}

	case inputNewItem:
		projectID := m.project.ID
		return func() tea.Msg {
			_, err := m.app.ItemService.CreateTaskItem(m.ctx, itemservice.CreateTaskItemRequest{
				ProjectID: projectID,
				Title:     value,
			})
			if err != nil {
				return opFailedMsg{err: err}
			}
			return opDoneMsg{info: "Item created"}
		}

	case inputNewCard:
		stage := m.selectedStage()
		if stage == nil {
			return nil
		}
		projectID, itemID, stageID := m.project.ID, m.item.ID, stage.ID
		return func() tea.Msg {
			_, err := m.app.BoardService.CreateTask(m.ctx, boardservice.CreateTaskRequest{
				ProjectID: projectID,
				ItemID:    itemID,
				StageID:   stageID,
				Title:     value,
			})
			if err != nil {
				return opFailedMsg{err: err}
			}
			return opDoneMsg{info: "Card created"}
		}

	case inputNewStage:
		projectID, itemID := m.project.ID, m.item.ID
		color := m.cfg.Board.NewStageColor
		return func() tea.Msg {
			_, err := m.app.BoardService.CreateStage(m.ctx, boardservice.CreateStageRequest{
				ProjectID: projectID,
				ItemID:    itemID,
				Name:      value,
				Color:     color,
			})
			if err != nil {
				return opFailedMsg{err: err}
			}
			return opDoneMsg{info: "Stage created"}
		}

	case inputRenameCard:
		card := m.selectedCard()
		if card == nil {
			return nil
		}
		projectID, itemID, cardID := m.project.ID, m.item.ID, card.ID
		return func() tea.Msg {
			_, err := m.app.BoardService.UpdateTask(m.ctx, boardservice.UpdateTaskRequest{
				ProjectID: projectID,
				ItemID:    itemID,
				TaskID:    cardID,
				Title:     &value,
			})
			if err != nil {
				return opFailedMsg{err: err}
			}
			return opDoneMsg{info: "Card renamed"}
		}

	case inputNewNote:
		if m.card == nil {
			return nil
		}
		projectID, itemID, cardID := m.project.ID, m.item.ID, m.card.ID
		return func() tea.Msg {
			_, err := m.app.BoardService.AddNote(m.ctx, boardservice.AddNoteRequest{
				ProjectID: projectID,
				ItemID:    itemID,
				TaskID:    cardID,
				Title:     value,
			})
			if err != nil {
				return opFailedMsg{err: err}
			}
			return opDoneMsg{info: "Note added"}
		}
	}
	return nil
}

// startInput focuses the input line for the given purpose.
func (m *Model) startInput(purpose inputPurpose, prompt string) tea.Cmd {
	m.inputPurpose = purpose
	m.input.Placeholder = prompt
	m.input.Focus()
	return nil
}

// updateKeys handles navigation and actions in the active view.
func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == m.keys.Quit || msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if key == m.keys.Help {
		if m.view == viewHelp {
			m.view = m.prevView
		} else {
			m.prevView = m.view
			m.view = viewHelp
		}
		return m, nil
	}

	switch m.view {
	case viewProjects:
		return m.updateProjectKeys(msg)
	case viewItems:
		return m.updateItemKeys(msg)
	case viewBoard:
		return m.updateBoardKeys(msg)
	case viewCard:
		return m.updateCardKeys(msg)
	case viewHistory, viewHelp:
		if msg.Type == tea.KeyEsc || key == m.keys.History {
			m.view = m.prevView
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateProjectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case key == m.keys.Down:
		if m.projectIdx < len(m.projects)-1 {
			m.projectIdx++
		}
	case key == m.keys.Up:
		if m.projectIdx > 0 {
			m.projectIdx--
		}
	case msg.Type == tea.KeyEnter || key == m.keys.ViewCard:
		if m.projectIdx < len(m.projects) {
			return m, m.openProject(m.projects[m.projectIdx].ID)
		}
	case key == m.keys.AddCard:
		return m, m.startInput(inputNewProject, "New project name")
	case key == m.keys.Delete:
		if m.projectIdx < len(m.projects) {
			id := m.projects[m.projectIdx].ID
			return m, func() tea.Msg {
				if err := m.app.ProjectService.DeleteProject(m.ctx, id); err != nil {
					return opFailedMsg{err: err}
				}
				return opDoneMsg{info: "Project deleted"}
			}
		}
	}
	return m, nil
}

func (m *Model) updateItemKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	items := m.project.TaskItems
	switch {
	case msg.Type == tea.KeyEsc:
		m.view = viewProjects
		return m, m.loadProjects()
	case key == m.keys.Down:
		if m.itemIdx < len(items)-1 {
			m.itemIdx++
		}
	case key == m.keys.Up:
		if m.itemIdx > 0 {
			m.itemIdx--
		}
	case msg.Type == tea.KeyEnter || key == m.keys.ViewCard:
		if m.itemIdx < len(items) {
			return m, m.openBoard(m.project.ID, items[m.itemIdx].ID)
		}
	case key == m.keys.AddCard:
		return m, m.startInput(inputNewItem, "New item title")
	case key == m.keys.Delete:
		if m.itemIdx < len(items) {
			projectID, itemID := m.project.ID, items[m.itemIdx].ID
			return m, func() tea.Msg {
				if err := m.app.ItemService.DeleteTaskItem(m.ctx, projectID, itemID); err != nil {
					return opFailedMsg{err: err}
				}
				return opDoneMsg{info: "Item deleted"}
			}
		}
	}
	return m, nil
}

func (m *Model) updateBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	stages := m.stagesInOrder()

	switch {
	case msg.Type == tea.KeyEsc:
		m.view = viewItems
		m.board = nil
		m.item = nil
		return m, m.openProject(m.project.ID)

	case key == m.keys.Right:
		if m.stageIdx < len(stages)-1 {
			m.stageIdx++
			m.cardIdx = 0
		}
	case key == m.keys.Left:
		if m.stageIdx > 0 {
			m.stageIdx--
			m.cardIdx = 0
		}
	case key == m.keys.Down:
		m.cardIdx++
		m.clampCursors()
	case key == m.keys.Up:
		if m.cardIdx > 0 {
			m.cardIdx--
		}

	case key == m.keys.MoveRight || key == m.keys.MoveLeft:
		return m, m.moveSelectedCard(key == m.keys.MoveRight)

	case msg.Type == tea.KeyEnter || key == m.keys.ViewCard:
		if card := m.selectedCard(); card != nil {
			m.card = card
			m.prevView = viewBoard
			m.view = viewCard
		}

	case key == m.keys.AddCard:
		if m.selectedStage() != nil {
			return m, m.startInput(inputNewCard, "New card title")
		}
	case key == m.keys.AddStage:
		return m, m.startInput(inputNewStage, "New stage name")
	case key == m.keys.EditCard:
		if m.selectedCard() != nil {
			return m, m.startInput(inputRenameCard, "New card title")
		}

	case key == m.keys.Delete:
		if card := m.selectedCard(); card != nil {
			projectID, itemID, cardID := m.project.ID, m.item.ID, card.ID
			return m, func() tea.Msg {
				if err := m.app.BoardService.DeleteTask(m.ctx, projectID, itemID, cardID); err != nil {
					return opFailedMsg{err: err}
				}
				return opDoneMsg{info: "Card deleted"}
			}
		}
		if stage := m.selectedStage(); stage != nil {
			projectID, itemID, stageID := m.project.ID, m.item.ID, stage.ID
			return m, func() tea.Msg {
				if err := m.app.BoardService.DeleteStage(m.ctx, projectID, itemID, stageID); err != nil {
					return opFailedMsg{err: err}
				}
				return opDoneMsg{info: "Stage deleted"}
			}
		}

	case key == m.keys.History:
		if card := m.selectedCard(); card != nil {
			m.card = card
			m.prevView = viewBoard
			return m, m.loadHistory(card.ID)
		}
	}
	return m, nil
}

func (m *Model) updateCardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case msg.Type == tea.KeyEsc:
		m.view = viewBoard
		m.card = nil
	case key == m.keys.EditCard:
		if m.card != nil {
			m.editor.SetValue(m.card.Description)
			m.editor.Focus()
			m.editing = true
		}
	case key == "n":
		return m, m.startInput(inputNewNote, "New note title (empty for Untitled)")
	case key == m.keys.History:
		if m.card != nil {
			m.prevView = viewCard
			return m, m.loadHistory(m.card.ID)
		}
	}
	return m, nil
}

// moveSelectedCard shifts the selected card one stage left or right.
func (m *Model) moveSelectedCard(right bool) tea.Cmd {
	card := m.selectedCard()
	stages := m.stagesInOrder()
	if card == nil || len(stages) == 0 {
		return nil
	}

	target := m.stageIdx
	if right {
		target++
	} else {
		target--
	}
	if target < 0 || target >= len(stages) {
		return nil
	}

	projectID, itemID, cardID := m.project.ID, m.item.ID, card.ID
	destID := stages[target].ID
	m.stageIdx = target
	m.cardIdx = 0
	return func() tea.Msg {
		_, err := m.app.BoardService.UpdateTask(m.ctx, boardservice.UpdateTaskRequest{
			ProjectID: projectID,
			ItemID:    itemID,
			TaskID:    cardID,
			StageID:   &destID,
		})
		if err != nil {
			return opFailedMsg{err: err}
		}
		return opDoneMsg{info: "Card moved"}
	}
}

// cardsOf is a small helper for the views.
func (m *Model) cardsOf(stageID types.ID) int {
	if m.board == nil {
		return 0
	}
	return len(m.board.TasksInStage(stageID))
}
