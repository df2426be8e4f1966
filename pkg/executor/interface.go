package executor

import (
	"context"
	"io"
)

// Executor defines the interface for executing external commands
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Command describes one child process invocation.
// Stdout and Stderr, when set, receive a copy of the child's streams;
// the streams are always captured into the Result as well.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// Result holds the captured output and exit code of a finished child.
// ExitCode is -1 when the process could not be started or was killed.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}
