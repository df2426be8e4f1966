// Package fetcher drives the external downloader.
package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/ytscript/internal/apperr"
	"github.com/nguyentantai21042004/ytscript/internal/workspace"
	"github.com/nguyentantai21042004/ytscript/pkg/executor"
)

const (
	audioExt       = ".wav"
	outputTemplate = "%(id)s.%(ext)s"
	printFinalPath = "after_move:filepath"
)

// Fetch runs the downloader and locates the WAV it produced.
func (f *implFetcher) Fetch(ctx context.Context, url, dir string) (Audio, *workspace.Workspace, error) {
	var ws *workspace.Workspace
	if dir == "" {
		tmp, err := workspace.NewTemp("ytscript-fetch-*")
		if err != nil {
			return Audio{}, nil, apperr.FetchFailed(url, "no workspace").WithCause(err)
		}
		ws = tmp
		dir = tmp.Dir
	}

	audio, err := f.fetchInto(ctx, url, dir)
	if err != nil {
		if relErr := ws.Release(); relErr != nil {
			f.logger.Warn(ctx, "Failed to release workspace: %v", relErr)
		}
		return Audio{}, nil, err
	}
	return audio, ws, nil
}

func (f *implFetcher) fetchInto(ctx context.Context, url, dir string) (Audio, error) {
	before, err := workspace.Take(dir, "")
	if err != nil {
		return Audio{}, apperr.FetchFailed(url, "unreadable output directory").WithCause(err)
	}

	f.logger.Info(ctx, "Fetching audio: %s", url)
	res, runErr := f.executor.Run(ctx, executor.Command{
		Name:   f.downloader,
		Args:   f.args(url, dir),
		Stdout: f.stdout,
		Stderr: f.stderr,
	})

	after, err := workspace.Take(dir, "")
	if err != nil {
		return Audio{}, apperr.FetchFailed(url, "unreadable output directory").WithCause(err)
	}
	created := before.Added(after)

	if runErr != nil {
		f.removeCreated(ctx, dir, created)
		return Audio{}, apperr.FetchFailed(url, "downloader failed").
			WithCause(runErr).
			WithExit(res.ExitCode, executor.Tail(res.Stderr))
	}

	name, ok := reportedAudio(res.Stdout, dir, after)
	if !ok {
		name, ok = f.pickAudio(ctx, before, after)
	}
	if !ok {
		f.removeCreated(ctx, dir, created)
		return Audio{}, apperr.FetchFailed(url, "no audio produced")
	}

	audio := Audio{
		Path:    filepath.Join(dir, name),
		Stem:    strings.TrimSuffix(name, filepath.Ext(name)),
		Created: make([]string, 0, len(created)),
	}
	for _, c := range created {
		audio.Created = append(audio.Created, filepath.Join(dir, c))
	}

	f.logger.Info(ctx, "Audio fetched: %s", audio.Path)
	return audio, nil
}

// args builds: extract audio, WAV container, best quality, id-named output.
// A rerun rewrites the existing file, and the final path is printed to stdout.
func (f *implFetcher) args(url, dir string) []string {
	args := []string{
		"--extract-audio",
		"--audio-format", "wav",
		"--audio-quality", "0",
		"--force-overwrites",
		"--print", printFinalPath,
		"--output", filepath.Join(dir, outputTemplate),
	}
	if f.opts.Verbose {
		args = append(args, "--progress")
	} else {
		args = append(args, "--quiet")
	}
	return append(args, url)
}

// reportedAudio returns the WAV the downloader printed as its final file, if
// that file sits in dir.
func reportedAudio(stdout, dir string, after workspace.Snapshot) (string, bool) {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" || !strings.EqualFold(filepath.Ext(line), audioExt) {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(dir, line)
		}
		if filepath.Dir(line) != filepath.Clean(dir) {
			continue
		}
		name := filepath.Base(line)
		if _, ok := after[name]; ok {
			return name, true
		}
	}
	return "", false
}

// pickAudio prefers WAV files written by this run. A single pre-existing WAV
// is accepted when the downloader left the file untouched.
func (f *implFetcher) pickAudio(ctx context.Context, before, after workspace.Snapshot) (string, bool) {
	wavs := func(s workspace.Snapshot) workspace.Snapshot {
		out := workspace.Snapshot{}
		for name, st := range s {
			if strings.EqualFold(filepath.Ext(name), audioExt) {
				out[name] = st
			}
		}
		return out
	}
	wb, wa := wavs(before), wavs(after)

	candidates := wb.Changed(wa)
	if len(candidates) == 0 {
		if len(wa) != 1 {
			return "", false
		}
		for name := range wa {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) > 1 {
		f.logger.Warn(ctx, "Downloader produced %d audio files, using %s", len(candidates), candidates[0])
	}
	return candidates[0], true
}

func (f *implFetcher) removeCreated(ctx context.Context, dir string, names []string) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			f.logger.Warn(ctx, "Failed to remove partial download %s: %v", path, err)
			continue
		}
		f.logger.Debug(ctx, "Removed partial download: %s", path)
	}
}

