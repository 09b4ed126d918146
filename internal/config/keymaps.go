package config

// KeyMappings defines the keyboard shortcuts for the terminal UI.
type KeyMappings struct {
	Quit string `yaml:"quit"`
	Help string `yaml:"help"`

	// Navigation
	Up    string `yaml:"up"`
	Down  string `yaml:"down"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`

	// Cards
	AddCard   string `yaml:"add_card"`
	ViewCard  string `yaml:"view_card"`
	EditCard  string `yaml:"edit_card"`
	Delete    string `yaml:"delete"`
	MoveLeft  string `yaml:"move_left"`
	MoveRight string `yaml:"move_right"`

	// Stages
	AddStage string `yaml:"add_stage"`

	// Views
	History string `yaml:"history"`
}

// DefaultKeyMappings returns the default keyboard shortcuts
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		Quit:      "q",
		Help:      "?",
		Up:        "k",
		Down:      "j",
		Left:      "h",
		Right:     "l",
		AddCard:   "a",
		ViewCard:  " ",
		EditCard:  "e",
		Delete:    "d",
		MoveLeft:  "H",
		MoveRight: "L",
		AddStage:  "S",
		History:   "y",
	}
}

// applyDefaults fills in missing key bindings with defaults
func (k *KeyMappings) applyDefaults() {
	defaults := DefaultKeyMappings()
	if k.Quit == "" {
		k.Quit = defaults.Quit
	}
	if k.Help == "" {
		k.Help = defaults.Help
	}
	if k.Up == "" {
		k.Up = defaults.Up
	}
	if k.Down == "" {
		k.Down = defaults.Down
	}
	if k.Left == "" {
		k.Left = defaults.Left
	}
	if k.Right == "" {
		k.Right = defaults.Right
	}
	if k.AddCard == "" {
		k.AddCard = defaults.AddCard
	}
	if k.ViewCard == "" {
		k.ViewCard = defaults.ViewCard
	}
	if k.EditCard == "" {
		k.EditCard = defaults.EditCard
	}
	if k.Delete == "" {
		k.Delete = defaults.Delete
	}
	if k.MoveLeft == "" {
		k.MoveLeft = defaults.MoveLeft
	}
	if k.MoveRight == "" {
		k.MoveRight = defaults.MoveRight
	}
	if k.AddStage == "" {
		k.AddStage = defaults.AddStage
	}
	if k.History == "" {
		k.History = defaults.History
	}
}
