package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/dkarpov/plank/internal/services/board"
	"github.com/dkarpov/plank/internal/services/item"
	"github.com/dkarpov/plank/internal/services/project"
)

// addOutputFlags registers the agent-friendly output flags every noun
// command supports.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")
}

// formatterFrom builds the output formatter from the command's flags.
func formatterFrom(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
}

// exitCodeFor maps service errors to exit codes.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, item.ErrProjectNotFound),
		errors.Is(err, item.ErrItemNotFound),
		errors.Is(err, board.ErrProjectNotFound),
		errors.Is(err, board.ErrItemNotFound),
		errors.Is(err, board.ErrBoardNotOpened),
		errors.Is(err, board.ErrStageNotFound),
		errors.Is(err, board.ErrTaskNotFound),
		errors.Is(err, board.ErrNoteNotFound):
		return ExitNotFound
	case errors.Is(err, item.ErrInvalidStatus),
		errors.Is(err, board.ErrInvalidCardType):
		return ExitValidation
	default:
		return ExitError
	}
}

// fail prints the error through the formatter and exits with the code the
// error maps to.
func fail(formatter *OutputFormatter, code string, err error) error {
	_ = formatter.Error(code, err.Error())
	os.Exit(exitCodeFor(err))
	return nil
}
