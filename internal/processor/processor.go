package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/ytscript/internal/apperr"
	"github.com/nguyentantai21042004/ytscript/internal/logger"
	"github.com/nguyentantai21042004/ytscript/internal/probe"
	"github.com/nguyentantai21042004/ytscript/internal/summarizer"
	"github.com/nguyentantai21042004/ytscript/internal/transcriber"
	"github.com/nguyentantai21042004/ytscript/internal/workspace"
)

// Probe checks the downloader, recognizer and model.
func (p *implProcessor) Probe(ctx context.Context) (probe.Report, error) {
	return p.prober.Check(ctx, p.tools)
}

// Process orchestrates the entire pipeline for one URL
func (p *implProcessor) Process(ctx context.Context, req Request) (Result, error) {
	startTime := time.Now()
	j := &job{
		req:    req,
		logger: p.logger,
		res:    Result{JobID: p.newID(), State: StateInit},
	}
	ctx = logger.WithField(ctx, "job", j.res.JobID)
	j.notify()

	p.logger.Info(ctx, "Starting job: %s", req.URL)

	// Step 1: Verify dependencies
	report, err := p.prober.Check(ctx, p.tools)
	if err != nil {
		return j.fail(ctx, err)
	}
	j.res.Probe = report
	if req.DryRun {
		p.logger.Info(ctx, "Dry run: all dependencies found")
		return j.res, nil
	}

	dest, staged, err := p.destination(req)
	if err != nil {
		return j.fail(ctx, err)
	}
	j.res.Dir = dest

	// Step 2: Fetch audio, into a temporary workspace when staging
	if err := checkpoint(ctx); err != nil {
		return j.fail(ctx, err)
	}
	j.transition(ctx, StateFetching)

	fetchDir := ""
	if !staged {
		if _, err := workspace.Persistent(dest); err != nil {
			return j.fail(ctx, err)
		}
		fetchDir = dest
	}
	audio, tmp, err := p.fetcher.Fetch(ctx, req.URL, fetchDir)
	if err != nil {
		return j.fail(ctx, err)
	}
	defer p.release(ctx, tmp)

	workDir := filepath.Dir(audio.Path)
	j.res.Stem = audio.Stem
	j.track(audio.Created...)

	// Step 3: Transcribe
	if err := checkpoint(ctx); err != nil {
		return j.fail(ctx, err)
	}
	j.transition(ctx, StateTranscribing)

	out, err := p.transcriber.Transcribe(ctx, audio.Path, workDir, transcriber.Options{
		WantSRT:  req.WantSRT,
		Language: req.Language,
	})
	if err != nil {
		return j.fail(ctx, err)
	}
	j.track(out.TxtPath, out.SRTPath)

	text, err := os.ReadFile(out.TxtPath)
	if err != nil {
		return j.fail(ctx, apperr.TranscribeFailed("unreadable transcript").WithCause(err))
	}
	j.res.Transcript = string(text)

	produced := []string{out.TxtPath}
	if out.SRTPath != "" {
		produced = append(produced, out.SRTPath)
	}

	// Step 4: Keep or drop the audio
	if !staged {
		p.retainAudio(ctx, req.KeepAudio, audio.Path, audio.Created)
		if req.KeepAudio {
			j.res.Artifacts.Audio = audio.Path
		}
	}
	j.transition(ctx, StateDoneText)

	// Step 5: Summarize (optional, never fatal)
	if req.WantSummary {
		if err := checkpoint(ctx); err != nil {
			return j.fail(ctx, err)
		}
		j.transition(ctx, StateSummarizing)

		summaryPath, err := p.summarize(ctx, j, out.TxtPath, workDir)
		if ctx.Err() != nil {
			return j.fail(ctx, fmt.Errorf("job cancelled: %w", ctx.Err()))
		}
		if err != nil {
			j.res.SummaryErr = err
			p.logger.Warn(ctx, "Summary skipped: %v", err)
			j.transition(ctx, StateDoneText)
		} else {
			produced = append(produced, summaryPath)
			j.transition(ctx, StateDoneFull)
		}
	}

	// Step 6: Documents (optional)
	if req.WantDocx {
		produced = append(produced, p.exportDocx(ctx, j, workDir)...)
	}

	// Step 7: Place artifacts in the destination
	placed := produced
	if staged {
		placed, err = p.place(ctx, j, produced, dest)
		if err != nil {
			return j.fail(ctx, err)
		}
	}
	j.setArtifacts(placed)

	p.logger.Info(ctx, "Job completed: %s (%s) in %s", j.res.Stem, j.res.State, time.Since(startTime).Round(time.Millisecond))
	return j.res, nil
}

// destination resolves the output directory and whether the job is staged
// through a temporary workspace.
func (p *implProcessor) destination(req Request) (string, bool, error) {
	if req.OutputDir == "" {
		wd, err := p.getwd()
		if err != nil {
			return "", false, fmt.Errorf("resolve working directory: %w", err)
		}
		return wd, true, nil
	}

	abs, err := filepath.Abs(req.OutputDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve output directory: %w", err)
	}
	return abs, req.TempWorkspace, nil
}

// summarize runs the model and writes <stem>_summary.txt beside the transcript.
func (p *implProcessor) summarize(ctx context.Context, j *job, txtPath, workDir string) (string, error) {
	tools := p.tools.WithSummarizerModel(j.req.LLMPath)

	sum, err := p.summarizer.Summarize(ctx, txtPath, summarizer.Options{
		Binary:    tools.SummarizerBinary,
		Model:     tools.SummarizerModel,
		MaxChars:  p.opts.MaxChars,
		MaxTokens: p.opts.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	path := filepath.Join(workDir, j.res.Stem+"_summary.txt")
	j.track(path)
	if err := os.WriteFile(path, []byte(sum.Text+"\n"), 0o644); err != nil {
		p.removeFile(ctx, path)
		return "", apperr.SummarizeFailed("write summary").WithCause(err)
	}

	j.res.Summary = sum.Text
	j.res.Truncated = sum.Truncated
	return path, nil
}

// exportDocx writes the transcript and summary as documents. Failures are
// logged and skipped.
func (p *implProcessor) exportDocx(ctx context.Context, j *job, workDir string) []string {
	var written []string

	path := filepath.Join(workDir, j.res.Stem+".docx")
	j.track(path)
	if err := summarizer.TranscriptToDocx(j.res.Stem, j.res.Transcript, path); err != nil {
		p.logger.Warn(ctx, "Failed to export transcript document: %v", err)
	} else {
		written = append(written, path)
	}

	if j.res.Summary != "" {
		path := filepath.Join(workDir, j.res.Stem+"_summary.docx")
		j.track(path)
		if err := summarizer.SummaryToDocx(j.res.Stem+" summary", j.res.Summary, path); err != nil {
			p.logger.Warn(ctx, "Failed to export summary document: %v", err)
		} else {
			written = append(written, path)
		}
	}
	return written
}

func checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("job cancelled: %w", err)
	}
	return nil
}
