package summarizer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/ytscript/internal/apperr"
	"github.com/nguyentantai21042004/ytscript/internal/logger"
	"github.com/nguyentantai21042004/ytscript/pkg/executor"
	"github.com/nguyentantai21042004/ytscript/pkg/executor/executortest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSummarizer(fake *executortest.Fake, tempDir string) *implSummarizer {
	s := New(fake, logger.Nop(), false).(*implSummarizer)
	s.tempDir = tempDir
	return s
}

func writeTranscript(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "V.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

// echoModel behaves like llama.cpp: it echoes the prompt, then the completion.
func echoModel(t *testing.T, completion string, seen *string) executortest.HandlerFunc {
	return func(_ context.Context, cmd executor.Command) (executor.Result, error) {
		prompt, err := os.ReadFile(executortest.ArgValue(cmd.Args, "-f"))
		require.NoError(t, err)
		if seen != nil {
			*seen = string(prompt)
		}
		return executor.Result{Stdout: string(prompt) + completion}, nil
	}
}

func TestSummarize(t *testing.T) {
	tmp := t.TempDir()
	var prompt string
	fake := &executortest.Fake{Handler: echoModel(t, "  A short summary.\n", &prompt)}
	s := newTestSummarizer(fake, tmp)

	sum, err := s.Summarize(context.Background(), writeTranscript(t, "hello world"), Options{
		Binary: "/models/main",
		Model:  "/models/m.gguf",
	})
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", sum.Text)
	assert.False(t, sum.Truncated)

	assert.Equal(t, "<|system|>\n"+
		"You are an AI assistant that summarizes transcripts accurately and concisely.\n"+
		"</s>\n<|user|>\n"+
		"Please summarize the following transcript in about 250 words:\n\n"+
		"hello world\n</s>\n<|assistant|>\n", prompt)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/models/main", calls[0].Name)
	promptPath := executortest.ArgValue(calls[0].Args, "-f")
	assert.Equal(t, []string{
		"-m", "/models/m.gguf",
		"-f", promptPath,
		"--temp", "0.7",
		"--top-p", "0.9",
		"-n", "500",
		"--color", "0",
	}, calls[0].Args)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "prompt file removed")
}

func TestSummarizeMaxTokens(t *testing.T) {
	fake := &executortest.Fake{Handler: echoModel(t, "ok", nil)}
	s := newTestSummarizer(fake, t.TempDir())

	_, err := s.Summarize(context.Background(), writeTranscript(t, "x"), Options{Binary: "main", Model: "m", MaxTokens: 64})
	require.NoError(t, err)
	assert.Equal(t, "64", executortest.ArgValue(fake.Calls()[0].Args, "-n"))
}

func TestSummarizeCeilingBoundary(t *testing.T) {
	tests := []struct {
		name      string
		length    int
		truncated bool
	}{
		{name: "at ceiling", length: DefaultMaxChars, truncated: false},
		{name: "ceiling plus one", length: DefaultMaxChars + 1, truncated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompt string
			fake := &executortest.Fake{Handler: echoModel(t, "ok", &prompt)}
			s := newTestSummarizer(fake, t.TempDir())

			// multi-byte runes make sure the ceiling counts characters
			text := strings.Repeat("é", tt.length)
			sum, err := s.Summarize(context.Background(), writeTranscript(t, text), Options{Binary: "main", Model: "m"})
			require.NoError(t, err)
			assert.Equal(t, tt.truncated, sum.Truncated)

			body := strings.TrimSuffix(prompt, "\n</s>\n<|assistant|>\n")
			if tt.truncated {
				assert.True(t, strings.HasSuffix(body, TruncationMarker))
				assert.Contains(t, body, strings.Repeat("é", DefaultMaxChars)+TruncationMarker)
				assert.NotContains(t, body, strings.Repeat("é", DefaultMaxChars+1))
			} else {
				assert.True(t, strings.HasSuffix(body, text))
				assert.NotContains(t, body, TruncationMarker)
			}
		})
	}
}

func TestSummarizeNonZeroExit(t *testing.T) {
	tmp := t.TempDir()
	fake := &executortest.Fake{Handler: func(context.Context, executor.Command) (executor.Result, error) {
		return executortest.Exit(1, "error: failed to load model")
	}}
	s := newTestSummarizer(fake, tmp)

	_, err := s.Summarize(context.Background(), writeTranscript(t, "x"), Options{Binary: "main", Model: "m"})
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindSummarizeFailed, appErr.Kind)
	assert.Equal(t, 1, appErr.ExitCode)
	assert.False(t, appErr.Kind.Fatal())

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "prompt file removed on failure")
}

func TestSummarizeMissingBinary(t *testing.T) {
	fake := &executortest.Fake{Handler: func(_ context.Context, cmd executor.Command) (executor.Result, error) {
		return executortest.NotFound(cmd.Name)
	}}
	s := newTestSummarizer(fake, t.TempDir())

	_, err := s.Summarize(context.Background(), writeTranscript(t, "x"), Options{Binary: "/nope/main", Model: "m"})
	assert.True(t, apperr.IsKind(err, apperr.KindSummarizeFailed))
}

func TestSummarizeEmptyResponse(t *testing.T) {
	fake := &executortest.Fake{Handler: echoModel(t, "   \n", nil)}
	s := newTestSummarizer(fake, t.TempDir())

	_, err := s.Summarize(context.Background(), writeTranscript(t, "x"), Options{Binary: "main", Model: "m"})
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "empty response", appErr.Reason)
}

func TestSummarizeNoModel(t *testing.T) {
	fake := &executortest.Fake{}
	s := newTestSummarizer(fake, t.TempDir())

	_, err := s.Summarize(context.Background(), writeTranscript(t, "x"), Options{Binary: "main"})
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "no model", appErr.Reason)
	assert.Contains(t, err.Error(), "--llm-path")
	assert.Empty(t, fake.Calls())
}

func TestExtractResponse(t *testing.T) {
	tests := map[string]string{
		"a<|assistant|>b<|assistant|>\n final \n": "final",
		"no tag at all":                          "no tag at all",
		"<|assistant|>":                          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, extractResponse(in), in)
	}
}

func TestDocxExport(t *testing.T) {
	dir := t.TempDir()

	transcript := filepath.Join(dir, "V.docx")
	require.NoError(t, TranscriptToDocx("V", "hello\nhello\n\nworld\n", transcript))
	info, err := os.Stat(transcript)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	summary := filepath.Join(dir, "V_summary.docx")
	require.NoError(t, SummaryToDocx("V summary", "# Topic\n- **key** point\n1. step\nplain", summary))
	info, err = os.Stat(summary)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
