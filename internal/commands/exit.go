// internal/commands/exit.go
package mlxbench

// Process exit codes shared across subcommands.
const (
	exitBackendFailure = 1
	exitUsage          = 2
	exitNoRows         = 3
)

// exitError wraps a command error with the process exit code Execute should
// use. Cobra still prints the underlying message.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}
