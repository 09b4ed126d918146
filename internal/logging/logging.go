package logging

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is the global slog instance for the application
var Logger *slog.Logger

// Init initializes the logging system, writing logs to ~/.plank/logs/plank.log
// (or $PLANK_HOME/logs/plank.log). Uses text format for human readability.
// The terminal stays clean for the UI.
func Init() error {
	plankDir := os.Getenv("PLANK_HOME")
	if plankDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		plankDir = filepath.Join(homeDir, ".plank")
	}

	logDir := filepath.Join(plankDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}

	logPath := filepath.Join(logDir, "plank.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	handler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	// Redirect standard log package output to the same file
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags)

	return nil
}
