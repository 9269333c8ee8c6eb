// Package exitcode lists the process exit codes of the todolist CLI.
package exitcode

const (
	// Success: the command did what was asked.
	Success = 0

	// UserError: bad arguments, an invalid filter, or a task reference
	// that matches nothing.
	UserError = 1

	// AuthError: the configuration is unusable or Google credentials are
	// missing, expired or revoked.
	AuthError = 2

	// BackendError: the store could not be reached or rejected the call.
	BackendError = 3
)
