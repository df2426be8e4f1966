package fetcher

import (
	"io"
	"os"

	"github.com/nguyentantai21042004/ytscript/internal/logger"
	"github.com/nguyentantai21042004/ytscript/pkg/executor"
)

type implFetcher struct {
	downloader string
	opts       Options
	executor   executor.Executor
	logger     logger.Logger
	stdout     io.Writer
	stderr     io.Writer
}

// New creates a Fetcher that runs the downloader named by downloader.
func New(downloader string, opts Options, exec executor.Executor, log logger.Logger) Fetcher {
	f := &implFetcher{
		downloader: downloader,
		opts:       opts,
		executor:   exec,
		logger:     log,
	}
	if opts.Verbose {
		f.stdout = os.Stdout
		f.stderr = os.Stderr
	}
	return f
}
