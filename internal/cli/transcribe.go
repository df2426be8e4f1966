package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/ytscript/internal/processor"
	"github.com/nguyentantai21042004/ytscript/internal/probe"
	"github.com/spf13/cobra"
)

const (
	previewLines = 5
	previewChars = 500
	rule         = "----------------------------------------"
)

type transcribeOptions struct {
	outputDir     string
	tempWorkspace bool
	dryRun        bool
	listLLMs      bool
	job           jobFlags
}

func runTranscribe(cmd *cobra.Command, app *App, g *globalOptions, o *transcribeOptions, url string) error {
	ctx := cmd.Context()
	log, resolved, err := app.setup(ctx, g, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	tools := resolved.Settings.Tools()
	proc := processor.New(tools, o.job.processorOptions(g.verbose), app.Exec, log)

	req := o.job.request(url)
	req.OutputDir = o.outputDir
	req.TempWorkspace = o.tempWorkspace
	req.DryRun = o.dryRun

	res, err := proc.Process(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if o.dryRun {
		printProbe(out, res.Probe)
		return nil
	}

	printTranscript(out, res)
	if req.WantSummary {
		if res.SummaryErr != nil {
			stderr := cmd.ErrOrStderr()
			fmt.Fprintf(stderr, "\nError generating summary: %v\n", res.SummaryErr)
			if tools.SummarizerModel == "" {
				fmt.Fprintln(stderr, "\nTip: Use --llm-path to specify a local LLM model for summarization.")
				fmt.Fprintln(stderr, "     Use --list-llms to see available models.")
			}
		} else {
			printSummary(out, res)
		}
	}
	return nil
}

func printProbe(out io.Writer, report probe.Report) {
	fmt.Fprintln(out, "All dependencies found:")
	for _, item := range report.Items {
		if item.Detail != "" {
			fmt.Fprintf(out, "  %-10s %s (%s)\n", item.Name, item.Path, item.Detail)
		} else {
			fmt.Fprintf(out, "  %-10s %s\n", item.Name, item.Path)
		}
	}
}

func printTranscript(out io.Writer, res processor.Result) {
	a := res.Artifacts
	fmt.Fprintln(out, "\nTranscription complete!")
	fmt.Fprintf(out, "Text transcript saved to: %s\n", a.Transcript)
	if a.Subtitles != "" {
		fmt.Fprintf(out, "SRT subtitle file saved to: %s\n", a.Subtitles)
	}
	if a.Audio != "" {
		fmt.Fprintf(out, "Audio kept at: %s\n", a.Audio)
	}
	for _, d := range a.Docx {
		fmt.Fprintf(out, "Document saved to: %s\n", d)
	}

	fmt.Fprintln(out, "\nTranscript preview:")
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, transcriptPreview(res.Transcript)+"...")
	fmt.Fprintln(out, rule)
}

func printSummary(out io.Writer, res processor.Result) {
	fmt.Fprintf(out, "\nSummary saved to: %s\n", res.Artifacts.Summary)
	fmt.Fprintln(out, "\nSummary preview:")
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, summaryPreview(res.Summary))
	fmt.Fprintln(out, rule)
}

// transcriptPreview returns the first few lines of the transcript.
func transcriptPreview(text string) string {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) > previewLines {
		lines = lines[:previewLines]
	}
	return strings.TrimRight(strings.Join(lines, ""), "\n")
}

// summaryPreview cuts the summary to previewChars characters.
func summaryPreview(text string) string {
	if utf8.RuneCountInString(text) <= previewChars {
		return text
	}
	return string([]rune(text)[:previewChars]) + "..."
}
