package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dkarpov/plank/internal/config"
)

// styles holds every lipgloss style the views use, derived from the theme.
type styles struct {
	title    lipgloss.Style
	subtle   lipgloss.Style
	normal   lipgloss.Style
	selected lipgloss.Style

	column         lipgloss.Style
	columnHeader   lipgloss.Style
	card           lipgloss.Style
	selectedCard   lipgloss.Style
	cardTypeChip   lipgloss.Style
	statusError    lipgloss.Style
	statusInfo     lipgloss.Style
	historyOp      lipgloss.Style
	historyTime    lipgloss.Style
	listCursor     lipgloss.Style
	inputPrompt    lipgloss.Style
	helpKey        lipgloss.Style
	helpDesc       lipgloss.Style
	viewportBorder lipgloss.Style
}

func newStyles(theme config.Theme) styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Title)).
			Bold(true),
		subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)),
		normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Normal)),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Accent)).
			Bold(true),

		column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.ColumnBorder)).
			Padding(0, 1),
		columnHeader: lipgloss.NewStyle().
			Bold(true).
			Align(lipgloss.Center),
		card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(theme.CardBorder)).
			Padding(0, 1),
		selectedCard: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(theme.SelectedBorder)).
			Padding(0, 1),
		cardTypeChip: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)).
			Italic(true),
		statusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ErrorFg)).
			Bold(true),
		statusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.InfoFg)),
		historyOp: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Accent)),
		historyTime: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)),
		listCursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.SelectedBorder)).
			Bold(true),
		inputPrompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Accent)),
		helpKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Accent)),
		helpDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)),
		viewportBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.ColumnBorder)).
			Padding(0, 1),
	}
}

// stageHeaderStyle styles a stage header with the stage's own color.
func stageHeaderStyle(base lipgloss.Style, color string) lipgloss.Style {
	if color == "" {
		return base
	}
	return base.Foreground(lipgloss.Color(color))
}
