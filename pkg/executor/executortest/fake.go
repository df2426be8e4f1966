// Package executortest provides a scripted Executor for tests.
package executortest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nguyentantai21042004/ytscript/pkg/executor"
)

// HandlerFunc simulates one child process.
type HandlerFunc func(ctx context.Context, cmd executor.Command) (executor.Result, error)

// Fake records every command and dispatches it to Handler.
// A nil Handler succeeds with empty output.
type Fake struct {
	Handler HandlerFunc

	mu    sync.Mutex
	calls []executor.Command
}

// Execute runs the handler and returns stdout.
func (f *Fake) Execute(ctx context.Context, name string, args ...string) (string, error) {
	res, err := f.Run(ctx, executor.Command{Name: name, Args: args})
	return res.Stdout, err
}

// Run records cmd and invokes the handler.
func (f *Fake) Run(ctx context.Context, cmd executor.Command) (executor.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	if f.Handler == nil {
		return executor.Result{}, nil
	}
	return f.Handler(ctx, cmd)
}

// Calls returns a copy of the recorded commands.
func (f *Fake) Calls() []executor.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]executor.Command(nil), f.calls...)
}

// Names returns the program names in call order.
func (f *Fake) Names() []string {
	var names []string
	for _, c := range f.Calls() {
		names = append(names, c.Name)
	}
	return names
}

// Exit builds the result of a child that exited with code.
func Exit(code int, stderr string) (executor.Result, error) {
	return executor.Result{Stderr: stderr, ExitCode: code}, fmt.Errorf("exit status %d", code)
}

// NotFound builds the result of a binary that could not be started.
func NotFound(name string) (executor.Result, error) {
	return executor.Result{ExitCode: -1}, fmt.Errorf("exec: %q: %w", name, errors.New("executable file not found in $PATH"))
}

// ArgValue returns the value following key in args.
func ArgValue(args []string, key string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == key {
			return args[i+1]
		}
	}
	return ""
}

// HasArg reports whether args include key.
func HasArg(args []string, key string) bool {
	for _, a := range args {
		if a == key {
			return true
		}
	}
	return false
}
