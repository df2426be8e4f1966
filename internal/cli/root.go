// Package cli implements the ytscript command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, NewRootCmd(NewApp()), os.Stderr)
}

// run executes cmd and maps any error to exit code 1.
func run(ctx context.Context, cmd *cobra.Command, stderr io.Writer) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCmd builds the command tree around app.
func NewRootCmd(app *App) *cobra.Command {
	g := &globalOptions{}
	o := &transcribeOptions{}

	rootCmd := &cobra.Command{
		Use:   "ytscript [url]",
		Short: "Transcribe online videos with local speech recognition",
		Long: `ytscript - Transcribe and summarize online videos locally

Fetches the audio of a video with yt-dlp, transcribes it with whisper.cpp and
optionally summarizes the transcript with a llama.cpp model. No network access
is needed beyond the audio download.

Configuration is layered, lowest precedence first: built-in defaults,
WHISPER_CPP_PATH / WHISPER_MODEL_PATH, <user-config>/ytscript/config.json,
./config.json, then flags.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.listLLMs {
				return runModels(cmd, app, g)
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			return runTranscribe(cmd, app, g, o, args[0])
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.whisperPath, "whisper-path", "", "directory containing the whisper.cpp 'main' binary")
	pf.StringVar(&g.modelPath, "model-path", "", "whisper model file")
	pf.StringVar(&g.llmPath, "llm-path", "", "local LLM model used for summaries")
	pf.StringVar(&g.llmBinary, "llm-binary", "", "llama.cpp binary (default: 'main' beside the LLM model)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "show tool output and debug logs")
	pf.StringVar(&g.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.BoolVar(&g.jsonLogs, "json-logs", false, "enable JSON formatted logs")

	f := rootCmd.Flags()
	f.StringVarP(&o.outputDir, "output-dir", "o", ".", "directory for the transcript and other outputs")
	f.BoolVar(&o.tempWorkspace, "temp-workspace", false, "work in a temporary directory and copy results out on success")
	f.BoolVar(&o.dryRun, "dry-run", false, "check dependencies and exit")
	f.BoolVar(&o.listLLMs, "list-llms", false, "list LLM models found in common locations and exit")
	o.job.register(f)

	rootCmd.AddCommand(newModelsCmd(app, g))
	rootCmd.AddCommand(newWatchCmd(app, g))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}
