package summarizer

import (
	"io"
	"os"

	"github.com/nguyentantai21042004/ytscript/internal/logger"
	"github.com/nguyentantai21042004/ytscript/pkg/executor"
)

type implSummarizer struct {
	executor executor.Executor
	logger   logger.Logger
	stderr   io.Writer
	tempDir  string
}

// New creates a Summarizer. When verbose is set the model's diagnostic
// stream is mirrored to the terminal; stdout is always captured for extraction.
func New(exec executor.Executor, log logger.Logger, verbose bool) Summarizer {
	s := &implSummarizer{
		executor: exec,
		logger:   log,
	}
	if verbose {
		s.stderr = os.Stderr
	}
	return s
}
