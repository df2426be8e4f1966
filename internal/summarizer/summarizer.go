// Package summarizer drives the external language model and exports
// transcripts and summaries as documents.
package summarizer

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/ytscript/internal/apperr"
	"github.com/nguyentantai21042004/ytscript/pkg/executor"
)

// Summarize reads the transcript, writes the prompt to a temporary file and
// runs the model over it.
func (s *implSummarizer) Summarize(ctx context.Context, transcriptPath string, opts Options) (Summary, error) {
	if strings.TrimSpace(opts.Model) == "" {
		return Summary{}, apperr.SummarizeFailed("no model").
			WithCause(fmt.Errorf("pass --llm-path or run 'ytscript models' to list candidates"))
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}

	data, err := os.ReadFile(transcriptPath)
	if err != nil {
		return Summary{}, apperr.SummarizeFailed("read transcript").WithCause(err)
	}
	if !utf8.Valid(data) {
		s.logger.Warn(ctx, "Transcript %s is not valid UTF-8", transcriptPath)
	}

	text, truncated := truncate(string(data), opts.MaxChars)
	if truncated {
		s.logger.Info(ctx, "Transcript truncated to %d characters for summarization", opts.MaxChars)
	}

	promptPath, err := s.writePrompt(buildPrompt(text))
	if err != nil {
		return Summary{}, apperr.SummarizeFailed("write prompt").WithCause(err)
	}
	defer s.cleanupTempFile(ctx, promptPath)

	s.logger.Info(ctx, "Summarizing with %s", opts.Model)
	res, err := s.executor.Run(ctx, executor.Command{
		Name:   opts.Binary,
		Args:   args(opts, promptPath),
		Stderr: s.stderr,
	})
	if err != nil {
		return Summary{}, apperr.SummarizeFailed("model failed").
			WithCause(err).
			WithExit(res.ExitCode, executor.Tail(res.Stderr))
	}

	summary := extractResponse(res.Stdout)
	if summary == "" {
		return Summary{}, apperr.SummarizeFailed("empty response")
	}
	return Summary{Text: summary, Truncated: truncated}, nil
}

// args builds: -m <model> -f <prompt> --temp 0.7 --top-p 0.9 -n <tokens> --color 0
func args(opts Options, promptPath string) []string {
	return []string{
		"-m", opts.Model,
		"-f", promptPath,
		"--temp", "0.7",
		"--top-p", "0.9",
		"-n", strconv.Itoa(opts.MaxTokens),
		"--color", "0",
	}
}

func (s *implSummarizer) writePrompt(prompt string) (string, error) {
	f, err := os.CreateTemp(s.tempDir, "ytscript-prompt-*.txt")
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(prompt); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (s *implSummarizer) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil {
		s.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		s.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}
