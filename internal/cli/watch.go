package cli

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/ytscript/internal/config"
	"github.com/nguyentantai21042004/ytscript/internal/processor"
	"github.com/nguyentantai21042004/ytscript/internal/watcher"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App, g *globalOptions) *cobra.Command {
	cfg := config.WatchConfig{}
	job := &jobFlags{}

	cmd := &cobra.Command{
		Use:   "watch <inbox>",
		Short: "Transcribe every job file dropped into an inbox directory",
		Long: `Watch an inbox directory for job files and run each one.

A *.url file holds the video URL on its first non-empty, non-comment line.
A *.yaml / *.yml manifest may set: url, srt, summarize, docx, keep_audio,
language, llm_path. Unset keys fall back to this command's flags.

Each job writes into <output-root>/<job-name>. Finished job files are renamed
with a .done or .failed suffix. Files already in the inbox are processed first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log, resolved, err := app.setup(ctx, g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			cfg.Inbox = args[0]
			if err := cfg.Validate(); err != nil {
				return err
			}

			proc := processor.New(resolved.Settings.Tools(), job.processorOptions(g.verbose), app.Exec, log)
			if _, err := proc.Probe(ctx); err != nil {
				return err
			}

			runner := watcher.NewRunner(proc, cfg.OutputRoot, job.request(""), log)
			w, err := watcher.New(cfg, runner.Handle, log)
			if err != nil {
				return err
			}
			defer w.Stop()

			log.Info(ctx, "Output root: %s", cfg.OutputRoot)
			log.Info(ctx, "Press Ctrl+C to stop")

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info(ctx, "Shutdown complete")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.OutputRoot, "output-root", "transcripts", "directory that receives one subdirectory per job")
	f.IntVar(&cfg.MaxConcurrent, "max-concurrent", 1, "jobs run at the same time")
	job.register(f)
	return cmd
}
