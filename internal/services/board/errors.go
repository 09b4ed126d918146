package board

import "errors"

// Board-related errors
var (
	// ErrProjectNotFound indicates the owning project does not exist
	ErrProjectNotFound = errors.New("project not found")

	// ErrItemNotFound indicates the task item does not exist in the project
	ErrItemNotFound = errors.New("task item not found")

	// ErrBoardNotOpened indicates the task item has no board yet;
	// Open materializes one
	ErrBoardNotOpened = errors.New("board not opened")

	// ErrStageNotFound indicates the referenced stage is not on the board
	ErrStageNotFound = errors.New("stage not found")

	// ErrTaskNotFound indicates the referenced card is not on the board
	ErrTaskNotFound = errors.New("task not found")

	// ErrNoteNotFound indicates the referenced note is not on the card
	ErrNoteNotFound = errors.New("note not found")

	// ErrInvalidCardType indicates a card type outside the enumeration
	ErrInvalidCardType = errors.New("invalid card type")
)
