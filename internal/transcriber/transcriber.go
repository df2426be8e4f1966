// Package transcriber drives the external speech recognizer.
package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/ytscript/internal/apperr"
	"github.com/nguyentantai21042004/ytscript/pkg/executor"
)

// Transcribe runs the recognizer with outDir as its working directory, since
// the recognizer writes <stem>.txt and <stem>.srt relative to its cwd.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath, outDir string, opts Options) (Output, error) {
	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	out := Output{TxtPath: filepath.Join(outDir, stem+".txt")}
	if opts.WantSRT {
		out.SRTPath = filepath.Join(outDir, stem+".srt")
	}

	lang := strings.TrimSpace(opts.Language)
	if lang == "" {
		t.logger.Info(ctx, "Transcribing %s (language: auto)", audioPath)
	} else {
		t.logger.Info(ctx, "Transcribing %s (language: %s)", audioPath, lang)
	}

	res, err := t.executor.Run(ctx, executor.Command{
		Name:   t.binary,
		Args:   t.args(audioPath, opts.WantSRT, lang),
		Dir:    outDir,
		Stdout: t.stdout,
		Stderr: t.stderr,
	})
	if err != nil {
		t.removeOutputs(ctx, out)
		return Output{}, apperr.TranscribeFailed("recognizer failed").
			WithCause(err).
			WithExit(res.ExitCode, executor.Tail(res.Stderr))
	}

	for _, path := range []string{out.TxtPath, out.SRTPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			t.removeOutputs(ctx, out)
			return Output{}, apperr.TranscribeFailed("output missing").
				WithCause(fmt.Errorf("expected %s: %w", filepath.Base(path), err))
		}
	}

	t.logger.Info(ctx, "Transcription completed: %s", out.TxtPath)
	return out, nil
}

// args builds: -m <model> -f <audio> -otxt [-osrt] [-l <lang>]
func (t *implTranscriber) args(audioPath string, wantSRT bool, lang string) []string {
	args := []string{
		"-m", t.model,
		"-f", audioPath,
		"-otxt",
	}
	if wantSRT {
		args = append(args, "-osrt")
	}
	if lang != "" {
		args = append(args, "-l", lang)
	}
	return args
}

// removeOutputs deletes whatever a failed or killed recognizer left behind.
func (t *implTranscriber) removeOutputs(ctx context.Context, out Output) {
	for _, path := range []string{out.TxtPath, out.SRTPath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil {
			if !os.IsNotExist(err) {
				t.logger.Warn(ctx, "Failed to remove partial output %s: %v", path, err)
			}
			continue
		}
		t.logger.Debug(ctx, "Removed partial output: %s", path)
	}
}
