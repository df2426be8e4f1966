package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/ytscript/internal/apperr"
	"github.com/nguyentantai21042004/ytscript/internal/config"
	"github.com/nguyentantai21042004/ytscript/internal/logger"
	"github.com/nguyentantai21042004/ytscript/pkg/executor"
	"github.com/nguyentantai21042004/ytscript/pkg/executor/executortest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stem     = "dQw4w9WgXcQ"
	llmModel = "/models/m.gguf"
	llmBin   = "/models/main"
)

// toolchain fakes yt-dlp, whisper.cpp and llama.cpp by the files they write.
type toolchain struct {
	t     *testing.T
	tools config.ToolConfig

	fetchFails    bool
	llmMissing    bool
	llmEmpty      bool
	onRecognize   func()
	fetchDirs     []string
	transcript    string
	summaryOutput string
}

func newToolchain(t *testing.T) *toolchain {
	t.Helper()
	dir := t.TempDir()
	bin := filepath.Join(dir, "whisper.cpp", "main")
	model := filepath.Join(dir, "models", "ggml-base.en.bin")
	require.NoError(t, os.MkdirAll(filepath.Dir(bin), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(model), 0o755))
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.WriteFile(model, []byte("ggml"), 0o644))

	return &toolchain{
		t: t,
		tools: config.Settings{
			WhisperPath: filepath.Dir(bin),
			ModelPath:   model,
			LLMPath:     llmModel,
		}.Tools(),
		transcript:    "never gonna give you up\nnever gonna let you down\n",
		summaryOutput: "A song about commitment.",
	}
}

func (tc *toolchain) run(_ context.Context, cmd executor.Command) (executor.Result, error) {
	t := tc.t
	switch cmd.Name {
	case tc.tools.Downloader:
		if executortest.HasArg(cmd.Args, "--version") {
			return executor.Result{Stdout: "2024.08.06\n"}, nil
		}
		tmpl := executortest.ArgValue(cmd.Args, "--output")
		tc.fetchDirs = append(tc.fetchDirs, filepath.Dir(tmpl))
		if tc.fetchFails {
			return executortest.Exit(1, "ERROR: Unsupported URL")
		}
		path := strings.NewReplacer("%(id)s", stem, "%(ext)s", "wav").Replace(tmpl)
		require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVE"), 0o644))
		return executor.Result{}, nil

	case tc.tools.RecognizerBinary:
		if tc.onRecognize != nil {
			tc.onRecognize()
		}
		audio := executortest.ArgValue(cmd.Args, "-f")
		s := strings.TrimSuffix(filepath.Base(audio), filepath.Ext(audio))
		require.NoError(t, os.WriteFile(filepath.Join(cmd.Dir, s+".txt"), []byte(tc.transcript), 0o644))
		if executortest.HasArg(cmd.Args, "-osrt") {
			srt := "1\n00:00:00,000 --> 00:00:02,000\nnever gonna give you up\n"
			require.NoError(t, os.WriteFile(filepath.Join(cmd.Dir, s+".srt"), []byte(srt), 0o644))
		}
		return executor.Result{}, nil

	case llmBin:
		if tc.llmMissing {
			return executortest.NotFound(cmd.Name)
		}
		prompt, err := os.ReadFile(executortest.ArgValue(cmd.Args, "-f"))
		require.NoError(t, err)
		if tc.llmEmpty {
			return executor.Result{Stdout: string(prompt)}, nil
		}
		return executor.Result{Stdout: string(prompt) + tc.summaryOutput + "\n"}, nil
	}
	return executortest.NotFound(cmd.Name)
}

func (tc *toolchain) processor() (Processor, *executortest.Fake) {
	fake := &executortest.Fake{Handler: tc.run}
	return New(tc.tools, Options{}, fake, logger.Nop()), fake
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestProcessTranscriptOnly(t *testing.T) {
	tc := newToolchain(t)
	proc, _ := tc.processor()
	out := filepath.Join(t.TempDir(), "a")

	res, err := proc.Process(context.Background(), Request{URL: "https://youtu.be/x", OutputDir: out})
	require.NoError(t, err)

	assert.Equal(t, []string{stem + ".txt"}, listDir(t, out))
	assert.Equal(t, StateDoneText, res.State)
	assert.Equal(t, stem, res.Stem)
	assert.Equal(t, filepath.Join(out, stem+".txt"), res.Artifacts.Transcript)
	assert.Empty(t, res.Artifacts.Subtitles)
	assert.Empty(t, res.Artifacts.Audio)
	assert.Equal(t, tc.transcript, res.Transcript)
	assert.NotEmpty(t, res.JobID)
	assert.Len(t, res.Probe.Items, 3)
}

func TestProcessSubtitlesAndKeepAudio(t *testing.T) {
	tc := newToolchain(t)
	proc, _ := tc.processor()
	out := filepath.Join(t.TempDir(), "a")

	res, err := proc.Process(context.Background(), Request{URL: "u", OutputDir: out, WantSRT: true, KeepAudio: true})
	require.NoError(t, err)

	assert.Equal(t, []string{stem + ".srt", stem + ".txt", stem + ".wav"}, listDir(t, out))
	assert.Equal(t, filepath.Join(out, stem+".wav"), res.Artifacts.Audio)
	assert.Equal(t, filepath.Join(out, stem+".srt"), res.Artifacts.Subtitles)
}

func TestProcessWithSummary(t *testing.T) {
	tc := newToolchain(t)
	proc, fake := tc.processor()
	out := filepath.Join(t.TempDir(), "a")

	var states []State
	res, err := proc.Process(context.Background(), Request{
		URL:         "u",
		OutputDir:   out,
		WantSummary: true,
		LLMPath:     llmModel,
		OnState:     func(s State) { states = append(states, s) },
	})
	require.NoError(t, err)
	require.NoError(t, res.SummaryErr)

	assert.Equal(t, []string{stem + ".txt", stem + "_summary.txt"}, listDir(t, out))
	data, err := os.ReadFile(filepath.Join(out, stem+"_summary.txt"))
	require.NoError(t, err)
	assert.Equal(t, tc.summaryOutput+"\n", string(data))
	assert.Equal(t, tc.summaryOutput, res.Summary)

	assert.Equal(t, StateDoneFull, res.State)
	assert.Equal(t, []State{
		StateInit, StateFetching, StateTranscribing, StateDoneText, StateSummarizing, StateDoneFull,
	}, states)
	assert.Equal(t, llmBin, fake.Names()[len(fake.Names())-1])
}

func TestProcessSummarizerMissing(t *testing.T) {
	tc := newToolchain(t)
	tc.llmMissing = true
	proc, _ := tc.processor()
	out := filepath.Join(t.TempDir(), "a")

	var states []State
	res, err := proc.Process(context.Background(), Request{
		URL:         "u",
		OutputDir:   out,
		WantSummary: true,
		LLMPath:     llmModel,
		OnState:     func(s State) { states = append(states, s) },
	})
	require.NoError(t, err, "summary failure is not fatal")
	assert.True(t, apperr.IsKind(res.SummaryErr, apperr.KindSummarizeFailed))

	assert.Equal(t, []string{stem + ".txt"}, listDir(t, out))
	assert.Equal(t, StateDoneText, res.State)
	assert.Equal(t, StateDoneText, states[len(states)-1])
	assert.Contains(t, states, StateSummarizing)
}

func TestProcessSummaryEmptyResponse(t *testing.T) {
	tc := newToolchain(t)
	tc.llmEmpty = true
	proc, _ := tc.processor()
	out := t.TempDir()

	res, err := proc.Process(context.Background(), Request{URL: "u", OutputDir: out, WantSummary: true})
	require.NoError(t, err)
	assert.True(t, apperr.IsKind(res.SummaryErr, apperr.KindSummarizeFailed))
	assert.NotContains(t, listDir(t, out), stem+"_summary.txt")
}

func TestProcessModelMissing(t *testing.T) {
	tc := newToolchain(t)
	tc.tools.RecognizerModel = filepath.Join(t.TempDir(), "nope.bin")
	proc, fake := tc.processor()
	out := filepath.Join(t.TempDir(), "a")

	res, err := proc.Process(context.Background(), Request{URL: "u", OutputDir: out})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DependencyMissing{model")
	assert.Equal(t, StateFailed, res.State)

	assert.Empty(t, listDir(t, out))
	assert.Equal(t, []string{"yt-dlp"}, fake.Names(), "only the version probe ran")
}

func TestProcessFetchFails(t *testing.T) {
	for _, staged := range []bool{false, true} {
		t.Run(map[bool]string{false: "persistent", true: "staged"}[staged], func(t *testing.T) {
			tc := newToolchain(t)
			tc.fetchFails = true
			proc, _ := tc.processor()
			out := filepath.Join(t.TempDir(), "a")

			res, err := proc.Process(context.Background(), Request{URL: "u", OutputDir: out, TempWorkspace: staged})
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindFetchFailed))
			assert.Equal(t, StateFailed, res.State)

			assert.Empty(t, listDir(t, out))
			require.Len(t, tc.fetchDirs, 1)
			if staged {
				assert.NoDirExists(t, tc.fetchDirs[0])
			}
		})
	}
}

func TestProcessTranscribeFailsRemovesAudio(t *testing.T) {
	tc := newToolchain(t)
	fake := &executortest.Fake{Handler: func(ctx context.Context, cmd executor.Command) (executor.Result, error) {
		if cmd.Name == tc.tools.RecognizerBinary {
			return executortest.Exit(2, "whisper: failed to initialize")
		}
		return tc.run(ctx, cmd)
	}}
	proc := New(tc.tools, Options{}, fake, logger.Nop())
	out := t.TempDir()

	res, err := proc.Process(context.Background(), Request{URL: "u", OutputDir: out, KeepAudio: true})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindTranscribeFailed))
	assert.Equal(t, StateFailed, res.State)
	assert.Empty(t, listDir(t, out))
}

func TestProcessStagedWorkspace(t *testing.T) {
	tc := newToolchain(t)
	proc, _ := tc.processor()
	out := filepath.Join(t.TempDir(), "a")

	res, err := proc.Process(context.Background(), Request{
		URL:           "u",
		OutputDir:     out,
		TempWorkspace: true,
		WantSRT:       true,
		KeepAudio:     true,
		WantSummary:   true,
	})
	require.NoError(t, err)

	// audio dies with the temporary workspace
	assert.Equal(t, []string{stem + ".srt", stem + ".txt", stem + "_summary.txt"}, listDir(t, out))
	assert.Empty(t, res.Artifacts.Audio)
	assert.Equal(t, filepath.Join(out, stem+"_summary.txt"), res.Artifacts.Summary)

	require.Len(t, tc.fetchDirs, 1)
	assert.NotEqual(t, out, tc.fetchDirs[0])
	assert.NoDirExists(t, tc.fetchDirs[0])
}

func TestProcessDefaultsToWorkingDirectory(t *testing.T) {
	tc := newToolchain(t)
	wd := t.TempDir()
	fake := &executortest.Fake{Handler: tc.run}
	proc := New(tc.tools, Options{}, fake, logger.Nop()).(*implProcessor)
	proc.getwd = func() (string, error) { return wd, nil }

	res, err := proc.Process(context.Background(), Request{URL: "u"})
	require.NoError(t, err)
	assert.Equal(t, wd, res.Dir)
	assert.Equal(t, []string{stem + ".txt"}, listDir(t, wd))
	assert.NoDirExists(t, tc.fetchDirs[0])
}

func TestProcessTwiceIsIdempotent(t *testing.T) {
	tc := newToolchain(t)
	proc, _ := tc.processor()
	out := t.TempDir()
	req := Request{URL: "u", OutputDir: out, WantSRT: true}

	_, err := proc.Process(context.Background(), req)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(out, stem+".txt"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(out, stem+".srt"), []byte("edited"), 0o644))

	_, err = proc.Process(context.Background(), req)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(out, stem+".txt"))
	require.NoError(t, err)
	srt, err := os.ReadFile(filepath.Join(out, stem+".srt"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, "edited", string(srt))
	assert.Equal(t, []string{stem + ".srt", stem + ".txt"}, listDir(t, out))
}

func TestProcessDryRun(t *testing.T) {
	tc := newToolchain(t)
	proc, fake := tc.processor()
	out := filepath.Join(t.TempDir(), "never-created")

	res, err := proc.Process(context.Background(), Request{URL: "u", OutputDir: out, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, StateInit, res.State)
	assert.Len(t, res.Probe.Items, 3)

	assert.NoDirExists(t, out)
	assert.Equal(t, []string{"yt-dlp"}, fake.Names())
}

func TestProcessCancelledDuringTranscription(t *testing.T) {
	tc := newToolchain(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tc.onRecognize = cancel
	proc, _ := tc.processor()
	out := t.TempDir()

	res, err := proc.Process(ctx, Request{URL: "u", OutputDir: out, WantSummary: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, StateFailed, res.State)
	assert.Empty(t, listDir(t, out))
}

func TestProcessDocxExport(t *testing.T) {
	tc := newToolchain(t)
	proc, _ := tc.processor()
	out := t.TempDir()

	res, err := proc.Process(context.Background(), Request{URL: "u", OutputDir: out, WantSummary: true, WantDocx: true})
	require.NoError(t, err)

	assert.Equal(t, []string{stem + ".docx", stem + ".txt", stem + "_summary.docx", stem + "_summary.txt"}, listDir(t, out))
	assert.Len(t, res.Artifacts.Docx, 2)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StateInit, StateFetching))
	assert.True(t, CanTransition(StateSummarizing, StateDoneText))
	assert.False(t, CanTransition(StateFetching, StateDoneFull))
	assert.False(t, CanTransition(StateFailed, StateFetching))
}
