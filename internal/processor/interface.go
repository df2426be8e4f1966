package processor

import (
	"context"

	"github.com/nguyentantai21042004/ytscript/internal/probe"
)

// Processor runs one URL-to-transcript job at a time.
type Processor interface {
	// Process runs the whole job. A fatal failure returns an error and leaves
	// no artifacts with the job's stem; a summary failure is reported in
	// Result.SummaryErr only.
	Process(ctx context.Context, req Request) (Result, error)
	// Probe checks the dependencies without touching the filesystem.
	Probe(ctx context.Context) (probe.Report, error)
}

// Request describes one job.
type Request struct {
	URL string
	// OutputDir receives the artifacts. Empty means the working directory,
	// staged through a temporary workspace.
	OutputDir string
	// TempWorkspace stages the job in a temporary directory even when
	// OutputDir is set; artifacts are copied out on success.
	TempWorkspace bool

	KeepAudio   bool
	WantSRT     bool
	WantSummary bool
	WantDocx    bool
	// Language is a two-letter hint; empty means auto-detect.
	Language string
	// LLMPath overrides the configured summarizer model for this job.
	LLMPath string

	// DryRun stops after the dependency probe.
	DryRun bool

	// OnState, when set, observes every state transition.
	OnState func(State)
}

// Artifacts are the final file paths of a job. Unproduced ones are empty.
type Artifacts struct {
	Transcript string
	Subtitles  string
	Audio      string
	Summary    string
	Docx       []string
}

// Result is the outcome of a job that did not fail fatally.
type Result struct {
	JobID     string
	State     State
	Stem      string
	Dir       string
	Artifacts Artifacts

	Transcript string
	Summary    string
	Truncated  bool
	SummaryErr error

	Probe probe.Report
}
