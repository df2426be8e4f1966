package processor

import (
	"context"
	"os"
	"strings"

	"github.com/nguyentantai21042004/ytscript/internal/apperr"
	"github.com/nguyentantai21042004/ytscript/internal/logger"
)

// job carries the mutable state of one Process call.
type job struct {
	req    Request
	logger logger.Logger
	res    Result
	// tracked are files this job created; a fatal failure removes them.
	tracked []string
}

func (j *job) notify() {
	if j.req.OnState != nil {
		j.req.OnState(j.res.State)
	}
}

func (j *job) transition(ctx context.Context, to State) {
	from := j.res.State
	if !CanTransition(from, to) {
		j.logger.Warn(ctx, "Unexpected state change %s -> %s", from, to)
	}
	j.logger.Debug(ctx, "State %s -> %s", from, to)
	j.res.State = to
	j.notify()
}

func (j *job) track(paths ...string) {
	for _, p := range paths {
		if p != "" {
			j.tracked = append(j.tracked, p)
		}
	}
}

// fail removes every tracked file and moves the job to FAILED.
func (j *job) fail(ctx context.Context, err error) (Result, error) {
	for i := len(j.tracked) - 1; i >= 0; i-- {
		path := j.tracked[i]
		if rmErr := os.Remove(path); rmErr != nil {
			if !os.IsNotExist(rmErr) {
				j.logger.Warn(ctx, "Failed to remove %s: %v", path, rmErr)
			}
			continue
		}
		j.logger.Debug(ctx, "Removed %s", path)
	}
	j.tracked = nil
	j.res.Artifacts = Artifacts{}

	if kind := apperr.KindOf(err); kind != "" {
		j.logger.Debug(ctx, "Job failed in %s with %s", j.res.State, kind)
	} else {
		j.logger.Debug(ctx, "Job failed in %s", j.res.State)
	}
	j.transition(ctx, StateFailed)
	return j.res, err
}

// setArtifacts sorts final paths into their roles by suffix.
func (j *job) setArtifacts(paths []string) {
	stem := j.res.Stem
	for _, p := range paths {
		switch {
		case strings.HasSuffix(p, stem+"_summary.txt"):
			j.res.Artifacts.Summary = p
		case strings.HasSuffix(p, stem+".txt"):
			j.res.Artifacts.Transcript = p
		case strings.HasSuffix(p, stem+".srt"):
			j.res.Artifacts.Subtitles = p
		case strings.HasSuffix(p, ".docx"):
			j.res.Artifacts.Docx = append(j.res.Artifacts.Docx, p)
		}
	}
}
