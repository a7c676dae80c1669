package interp

import "fmt"

// Status codes returned by the interpreter itself. The practice of using
// 0 for success is well known enough that no constant is defined for it.
const (
	// StatusSyntaxError is returned for lines that fail to parse.
	StatusSyntaxError = 2

	// StatusCommandNotExecutable and StatusCommandNotFound are the
	// POSIX-specified statuses for PATH resolution failures.
	StatusCommandNotExecutable = 126
	StatusCommandNotFound      = 127
)

// CommandNotFoundError reports a command name that resolved to nothing:
// not a built-in and not an executable on PATH.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("%s: command not found", e.Name)
}
