package transcriber

import (
	"io"
	"os"

	"github.com/nguyentantai21042004/ytscript/internal/logger"
	"github.com/nguyentantai21042004/ytscript/pkg/executor"
)

type implTranscriber struct {
	binary   string
	model    string
	executor executor.Executor
	logger   logger.Logger
	stdout   io.Writer
	stderr   io.Writer
}

// New creates a Transcriber for the recognizer binary and model file.
// When verbose is set the recognizer's streams are mirrored to the terminal.
func New(binary, model string, verbose bool, exec executor.Executor, log logger.Logger) Transcriber {
	t := &implTranscriber{
		binary:   binary,
		model:    model,
		executor: exec,
		logger:   log,
	}
	if verbose {
		t.stdout = os.Stdout
		t.stderr = os.Stderr
	}
	return t
}
