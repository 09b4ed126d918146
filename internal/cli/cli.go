// Package cli implements the plank command line surface: noun subcommands
// for scripts and agents, and the terminal UI on a bare invocation.
package cli

import (
	"context"
	"fmt"

	"github.com/dkarpov/plank/internal/app"
	"github.com/dkarpov/plank/internal/database"
	"github.com/dkarpov/plank/internal/events"
)

// CLI represents the CLI application context
type CLI struct {
	App      *app.App
	notifier *events.Notifier
	ctx      context.Context
}

// NewCLI initializes the CLI with the database and the in-process notifier.
func NewCLI(ctx context.Context) (*CLI, error) {
	db, err := database.InitDB(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	notifier := events.NewNotifier()
	application := app.New(database.NewRepository(db), notifier)

	return &CLI{
		App:      application,
		notifier: notifier,
		ctx:      ctx,
	}, nil
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	return c.App.Close()
}
