package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// View renders the active screen plus the status line.
func (m *Model) View() string {
	var body string
	switch m.view {
	case viewProjects:
		body = m.viewProjectList()
	case viewItems:
		body = m.viewItemList()
	case viewBoard:
		body = m.viewBoardScreen()
	case viewCard:
		body = m.viewCardScreen()
	case viewHistory:
		body = m.viewHistoryScreen()
	case viewHelp:
		body = m.viewHelpScreen()
	}

	sections := []string{body}
	if m.inputPurpose != inputNone {
		sections = append(sections, m.styles.inputPrompt.Render("> ")+m.input.View())
	}
	if status := m.viewStatusLine(); status != "" {
		sections = append(sections, status)
	}
	return strings.Join(sections, "\n")
}

func (m *Model) viewStatusLine() string {
	switch {
	case m.statusErr != "":
		return m.styles.statusError.Render("✗ " + m.statusErr)
	case m.statusInfo != "":
		return m.styles.statusInfo.Render(m.statusInfo)
	default:
		return m.styles.subtle.Render(m.keyHint())
	}
}

// keyHint is a one-line reminder of the common bindings for the view.
func (m *Model) keyHint() string {
	k := m.keys
	switch m.view {
	case viewProjects:
		return fmt.Sprintf("%s/%s move · enter open · %s new · %s delete · %s help · %s quit",
			k.Up, k.Down, k.AddCard, k.Delete, k.Help, k.Quit)
	case viewItems:
		return fmt.Sprintf("%s/%s move · enter open board · %s new · %s delete · esc back",
			k.Up, k.Down, k.AddCard, k.Delete)
	case viewBoard:
		return fmt.Sprintf("%s%s%s%s move · %s/%s shift card · enter view · %s card · %s stage · %s history · esc back",
			k.Left, k.Down, k.Up, k.Right, k.MoveLeft, k.MoveRight, k.AddCard, k.AddStage, k.History)
	case viewCard:
		return fmt.Sprintf("%s edit description · n note · %s history · esc back", k.EditCard, k.History)
	default:
		return "esc back"
	}
}

func (m *Model) viewProjectList() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Projects"))
	b.WriteString("\n\n")

	if len(m.projects) == 0 {
		b.WriteString(m.styles.subtle.Render("No projects. Press '" + m.keys.AddCard + "' to create one."))
		return b.String()
	}

	for i, p := range m.projects {
		cursor := "  "
		line := fmt.Sprintf("%s (%d active)", p.Name, p.ActiveItemCount())
		if i == m.projectIdx {
			cursor = m.styles.listCursor.Render("> ")
			line = m.styles.selected.Render(line)
		} else {
			line = m.styles.normal.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}
	return b.String()
}

func (m *Model) viewItemList() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.project.Name))
	b.WriteString("\n\n")

	if len(m.project.TaskItems) == 0 {
		b.WriteString(m.styles.subtle.Render("No task items. Press '" + m.keys.AddCard + "' to create one."))
		return b.String()
	}

	for i, item := range m.project.TaskItems {
		cursor := "  "
		line := fmt.Sprintf("[%s] %s", item.Status, item.Title)
		if i == m.itemIdx {
			cursor = m.styles.listCursor.Render("> ")
			line = m.styles.selected.Render(line)
		} else {
			line = m.styles.normal.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}
	return b.String()
}

func (m *Model) viewBoardScreen() string {
	if m.board == nil {
		return m.styles.subtle.Render("Loading board...")
	}

	stages := m.stagesInOrder()
	columnWidth := 28
	if m.width > 0 && len(stages) > 0 {
		if w := m.width/len(stages) - 4; w > 16 && w < columnWidth {
			columnWidth = w
		}
	}

	columns := make([]string, 0, len(stages))
	for si, stage := range stages {
		header := stageHeaderStyle(m.styles.columnHeader, stage.Color).
			Width(columnWidth).
			Render(fmt.Sprintf("%s (%d)", stage.Name, m.cardsOf(stage.ID)))

		var cards []string
		for ci, task := range m.board.TasksInStage(stage.ID) {
			style := m.styles.card
			if si == m.stageIdx && ci == m.cardIdx {
				style = m.styles.selectedCard
			}
			content := task.Title
			if len(task.CardTypes) > 0 {
				tags := make([]string, len(task.CardTypes))
				for i, ct := range task.CardTypes {
					tags[i] = string(ct)
				}
				content += "\n" + m.styles.cardTypeChip.Render(strings.Join(tags, " "))
			}
			if len(task.Notes) > 0 {
				content += "\n" + m.styles.subtle.Render(fmt.Sprintf("%d note(s)", len(task.Notes)))
			}
			cards = append(cards, style.Width(columnWidth).Render(content))
		}

		column := header
		if len(cards) > 0 {
			column += "\n" + strings.Join(cards, "\n")
		}
		columns = append(columns, m.styles.column.Render(column))
	}

	title := m.styles.title.Render(m.project.Name + " / " + m.item.Title)
	board := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	return title + "\n\n" + board
}

func (m *Model) viewCardScreen() string {
	if m.card == nil {
		return m.styles.subtle.Render("No card selected")
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.card.Title))
	if len(m.card.CardTypes) > 0 {
		tags := make([]string, len(m.card.CardTypes))
		for i, ct := range m.card.CardTypes {
			tags[i] = string(ct)
		}
		b.WriteString("  " + m.styles.cardTypeChip.Render(strings.Join(tags, " ")))
	}
	b.WriteString("\n\n")

	if m.editing {
		b.WriteString(m.editor.View())
		b.WriteString("\n" + m.styles.subtle.Render("esc to stop editing (saves automatically)"))
		return b.String()
	}

	if m.card.Description != "" {
		b.WriteString(m.renderMarkdown(m.card.Description))
	} else {
		b.WriteString(m.styles.subtle.Render("No description. Press '" + m.keys.EditCard + "' to write one."))
	}
	b.WriteString("\n")

	if len(m.card.Notes) > 0 {
		b.WriteString(m.styles.title.Render("Notes") + "\n")
		for i, note := range m.card.Notes {
			b.WriteString(m.styles.selected.Render(fmt.Sprintf("#%d %s", i+1, note.Title)) + "\n")
			if note.Content != "" {
				b.WriteString(m.renderMarkdown(note.Content))
			}
		}
	}
	return m.styles.viewportBorder.Render(b.String())
}

func (m *Model) viewHistoryScreen() string {
	var b strings.Builder
	title := "History"
	if m.card != nil {
		title = "History: " + m.card.Title
	}
	b.WriteString(m.styles.title.Render(title))
	b.WriteString("\n\n")

	if len(m.history) == 0 {
		b.WriteString(m.styles.subtle.Render("No history for this card"))
		return b.String()
	}

	for _, entry := range m.history {
		b.WriteString(m.styles.historyTime.Render(entry.Timestamp.Format("2006-01-02 15:04")))
		b.WriteString("  ")
		b.WriteString(m.styles.historyOp.Render(string(entry.Operation)))
		b.WriteString("  ")
		b.WriteString(m.styles.normal.Render(entry.Description))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewHelpScreen() string {
	k := m.keys
	rows := [][2]string{
		{k.Up + "/" + k.Down + "/" + k.Left + "/" + k.Right, "navigate"},
		{"enter / " + k.ViewCard, "open selection"},
		{k.AddCard, "new project / item / card"},
		{k.AddStage, "new stage"},
		{k.EditCard, "rename card, edit description"},
		{k.MoveLeft + "/" + k.MoveRight, "move card between stages"},
		{k.Delete, "delete selection"},
		{k.History, "card history"},
		{"esc", "back"},
		{k.Quit, "quit"},
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("Keys"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			m.styles.helpKey.Render(fmt.Sprintf("%-8s", row[0])),
			m.styles.helpDesc.Render(row[1])))
	}
	return b.String()
}

// renderMarkdown renders markdown for the card view, falling back to the
// raw text if the renderer fails.
func (m *Model) renderMarkdown(content string) string {
	width := m.width - 8
	if width < 20 {
		width = 60
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}
