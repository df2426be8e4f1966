package watcher

import (
	"context"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/ytscript/internal/config"
	"github.com/nguyentantai21042004/ytscript/internal/logger"
	"github.com/nguyentantai21042004/ytscript/internal/processor"
)

// Job file suffixes appended once a job finishes.
const (
	SuffixDone   = ".done"
	SuffixFailed = ".failed"
)

// Runner turns job files into pipeline runs.
type Runner struct {
	proc       processor.Processor
	outputRoot string
	defaults   processor.Request
	logger     logger.Logger
}

// NewRunner creates a Runner. defaults supplies the flags a manifest leaves unset.
func NewRunner(proc processor.Processor, outputRoot string, defaults processor.Request, log logger.Logger) *Runner {
	return &Runner{
		proc:       proc,
		outputRoot: outputRoot,
		defaults:   defaults,
		logger:     log,
	}
}

// Handle runs one job into <output-root>/<job-name> and marks the job file
// done or failed. A cancelled job is left in place to run again later.
func (r *Runner) Handle(ctx context.Context, path string) error {
	name := JobName(path)
	ctx = logger.WithField(ctx, "job_file", name)

	m, err := LoadManifest(path)
	if err != nil {
		r.finish(ctx, path, false)
		return err
	}

	req := r.request(m)
	req.OutputDir = filepath.Join(r.outputRoot, name)

	res, err := r.proc.Process(ctx, req)
	if ctx.Err() != nil {
		r.logger.Warn(ctx, "Job %s interrupted, leaving %s for the next run", name, filepath.Base(path))
		return err
	}
	if err != nil {
		r.finish(ctx, path, false)
		return err
	}

	if res.SummaryErr != nil {
		r.logger.Warn(ctx, "Job %s finished without summary: %v", name, res.SummaryErr)
	}
	r.logger.Info(ctx, "[DONE] %s -> %s", name, res.Artifacts.Transcript)
	r.finish(ctx, path, true)
	return nil
}

func (r *Runner) request(m Manifest) processor.Request {
	req := r.defaults
	req.URL = m.URL
	if m.SRT != nil {
		req.WantSRT = *m.SRT
	}
	if m.Summarize != nil {
		req.WantSummary = *m.Summarize
	}
	if m.Docx != nil {
		req.WantDocx = *m.Docx
	}
	if m.KeepAudio != nil {
		req.KeepAudio = *m.KeepAudio
	}
	if m.Language != "" {
		req.Language = m.Language
	}
	if m.LLMPath != "" {
		req.LLMPath = m.LLMPath
		if abs, err := config.ExpandPath(m.LLMPath); err == nil {
			req.LLMPath = abs
		}
	}
	return req
}

// finish renames the job file so it is not picked up again.
func (r *Runner) finish(ctx context.Context, path string, ok bool) {
	suffix := SuffixFailed
	if ok {
		suffix = SuffixDone
	}
	if err := os.Rename(path, path+suffix); err != nil {
		r.logger.Warn(ctx, "Failed to mark %s: %v", path, err)
	}
}
