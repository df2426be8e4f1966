package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long a cancelled child may keep its pipes open.
const waitDelay = 10 * time.Second

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	res, err := e.Run(ctx, Command{Name: name, Args: args})
	if err != nil {
		if tail := Tail(res.Stderr); tail != "" {
			return "", fmt.Errorf("command '%s' failed: %w\nstderr: %s", name, err, tail)
		}
		return "", fmt.Errorf("command '%s' failed: %w", name, err)
	}
	return res.Stdout, nil
}

// Run starts the command, waits for it and reports its streams and exit code.
// The child runs in its own process group so cancelling ctx reaches every
// process it spawned.
func (e *implExecutor) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, c.Stdout)
	cmd.Stderr = tee(&stderr, c.Stderr)

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		res.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("command '%s' interrupted: %w", c.Name, ctxErr)
		}
		return res, fmt.Errorf("command '%s' failed: %w", c.Name, err)
	}

	return res, nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

// Tail bounds a diagnostic stream for error messages.
const (
	TailLines = 20
	TailBytes = 2048
)

// Tail returns the last TailLines lines of s, capped at TailBytes.
func Tail(s string) string {
	s = strings.TrimRight(s, "\r\n\t ")
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	if len(lines) > TailLines {
		lines = lines[len(lines)-TailLines:]
	}
	out := strings.Join(lines, "\n")

	if len(out) > TailBytes {
		out = out[len(out)-TailBytes:]
		// drop a partial line or rune at the cut
		if i := strings.IndexByte(out, '\n'); i >= 0 && i < len(out)-1 {
			out = out[i+1:]
		}
	}
	return strings.ToValidUTF8(out, "")
}
