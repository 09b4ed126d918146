package config

// defaultNewStageColor matches the muted blue used for stages created
// without an explicit color.
const defaultNewStageColor = "#4a90d9"

// Theme defines the configurable color values used by the terminal UI.
type Theme struct {
	// Primary accent color (selections, titles, highlights)
	Accent string `yaml:"accent"`

	// UI element colors
	ColumnBorder   string `yaml:"column_border"`
	CardBorder     string `yaml:"card_border"`
	SelectedBorder string `yaml:"selected_border"`

	// Text colors
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"`
	Normal string `yaml:"normal"`

	// Status line colors
	ErrorFg string `yaml:"error_fg"`
	InfoFg  string `yaml:"info_fg"`
}

// DefaultTheme returns the built-in color scheme.
func DefaultTheme() Theme {
	return Theme{
		Accent:         "#9bc9a3",
		ColumnBorder:   "#5c6370",
		CardBorder:     "#3e4452",
		SelectedBorder: "#e09f7d",
		Title:          "#e6e6e6",
		Subtle:         "#8a8f98",
		Normal:         "#c8ccd4",
		ErrorFg:        "#e06c75",
		InfoFg:         "#61afef",
	}
}

// applyDefaults fills in missing color values.
func (t *Theme) applyDefaults() {
	def := DefaultTheme()
	if t.Accent == "" {
		t.Accent = def.Accent
	}
	if t.ColumnBorder == "" {
		t.ColumnBorder = def.ColumnBorder
	}
	if t.CardBorder == "" {
		t.CardBorder = def.CardBorder
	}
	if t.SelectedBorder == "" {
		t.SelectedBorder = def.SelectedBorder
	}
	if t.Title == "" {
		t.Title = def.Title
	}
	if t.Subtle == "" {
		t.Subtle = def.Subtle
	}
	if t.Normal == "" {
		t.Normal = def.Normal
	}
	if t.ErrorFg == "" {
		t.ErrorFg = def.ErrorFg
	}
	if t.InfoFg == "" {
		t.InfoFg = def.InfoFg
	}
}
