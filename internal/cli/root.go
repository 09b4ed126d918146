package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dkarpov/plank/internal/config"
	"github.com/dkarpov/plank/internal/tui"
)

// NewRootCmd builds the plank command tree. A bare invocation opens the
// terminal UI; subcommands expose the same operations for scripts.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "plank",
		Short: "Plank - a terminal kanban board",
		Long: `Plank is a terminal kanban board for tracking projects, their task
items, and each item's board of staged cards.

Run without arguments to open the interactive board. Subcommands expose
the same operations for scripts and agents.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.AddCommand(
		ProjectCmd(),
		ItemCmd(),
		StageCmd(),
		CardCmd(),
		NoteCmd(),
		HistoryCmd(),
	)

	return rootCmd
}

// Execute runs the command tree.
func Execute() error {
	return NewRootCmd().Execute()
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("error closing cli", "error", err)
		}
	}()

	return tui.Run(ctx, cliInstance.App, cfg, cliInstance.notifier)
}
