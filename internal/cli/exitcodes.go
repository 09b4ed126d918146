package cli

// Exit codes for CLI commands, following Unix conventions.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error: database errors, unexpected
	// failures, anything that doesn't fit the categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage: missing required flags
	// or invalid flag combinations.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found: project,
	// task item, stage, card, or note.
	ExitNotFound = 3

	// ExitValidation indicates input that fails validation rules, such as
	// an unknown card type or status.
	ExitValidation = 5
)
