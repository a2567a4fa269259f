// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// Failure indicates a runtime error (load, save, terminal).
	Failure = 1

	// Usage indicates bad arguments, an empty title or an index out of range.
	Usage = 2
)
