// Package app wires the repository, the change notifier, and the service
// layer into one container.
package app

import (
	"github.com/dkarpov/plank/internal/database"
	"github.com/dkarpov/plank/internal/events"
	boardservice "github.com/dkarpov/plank/internal/services/board"
	historyservice "github.com/dkarpov/plank/internal/services/history"
	itemservice "github.com/dkarpov/plank/internal/services/item"
	projectservice "github.com/dkarpov/plank/internal/services/project"
)

// App holds all application services and provides dependency injection.
type App struct {
	// Repository layer (direct database access)
	repo database.DataStore

	// Event system for live updates
	notifier events.Publisher

	// Service layer (business logic)
	ProjectService projectservice.Service
	ItemService    itemservice.Service
	BoardService   boardservice.Service
	HistoryService historyservice.Service
}

// New creates a new App with all services initialized. This is the single
// entry point for creating the application container.
func New(repo database.DataStore, notifier events.Publisher) *App {
	return &App{
		repo:           repo,
		notifier:       notifier,
		ProjectService: projectservice.NewService(repo, notifier),
		ItemService:    itemservice.NewService(repo, notifier),
		BoardService:   boardservice.NewService(repo, notifier),
		HistoryService: historyservice.NewService(repo),
	}
}

// Repo returns the underlying repository for direct database access.
func (a *App) Repo() database.DataStore {
	return a.repo
}

// Notifier returns the change publisher, for callers that subscribe to
// live updates.
func (a *App) Notifier() events.Publisher {
	return a.notifier
}

// Close releases application resources.
func (a *App) Close() error {
	if n, ok := a.notifier.(*events.Notifier); ok && n != nil {
		n.Close()
	}
	return nil
}
