// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task, bad config).
	UserError = 1

	// AuthError indicates a missing or invalid Google login.
	AuthError = 2

	// BackendError indicates a storage write failure or a Google API error.
	BackendError = 3
)
