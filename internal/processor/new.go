package processor

import (
	"os"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/ytscript/internal/config"
	"github.com/nguyentantai21042004/ytscript/internal/fetcher"
	"github.com/nguyentantai21042004/ytscript/internal/logger"
	"github.com/nguyentantai21042004/ytscript/internal/probe"
	"github.com/nguyentantai21042004/ytscript/internal/summarizer"
	"github.com/nguyentantai21042004/ytscript/internal/transcriber"
	"github.com/nguyentantai21042004/ytscript/pkg/executor"
)

// Options are process-wide knobs shared by every job.
type Options struct {
	// Verbose mirrors child output streams to the terminal.
	Verbose bool
	// MaxChars bounds the transcript fed to the summarizer.
	MaxChars int
	// MaxTokens bounds the summary length.
	MaxTokens int
}

type implProcessor struct {
	tools  config.ToolConfig
	opts   Options
	logger logger.Logger

	prober      *probe.Prober
	fetcher     fetcher.Fetcher
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer

	newID func() string
	getwd func() (string, error)
}

// New creates a new Processor instance
func New(tools config.ToolConfig, opts Options, exec executor.Executor, log logger.Logger) Processor {
	return &implProcessor{
		tools:       tools,
		opts:        opts,
		logger:      log,
		prober:      probe.New(exec, log),
		fetcher:     fetcher.New(tools.Downloader, fetcher.Options{Verbose: opts.Verbose}, exec, log),
		transcriber: transcriber.New(tools.RecognizerBinary, tools.RecognizerModel, opts.Verbose, exec, log),
		summarizer:  summarizer.New(exec, log, opts.Verbose),
		newID:       uuid.NewString,
		getwd:       os.Getwd,
	}
}
