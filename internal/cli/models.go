package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newModelsCmd(app *App, g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List LLM models found in common locations",
		Long: `List candidate LLM model files (.gguf, .bin, .ggml) found under
~/.local/share/llama.cpp/models, ~/llama.cpp/models, ~/models,
~/.local/share/models, ~/AI/models and ./models.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels(cmd, app, g)
		},
	}
}

func runModels(cmd *cobra.Command, app *App, g *globalOptions) error {
	log, _, err := app.setup(cmd.Context(), g, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	for _, dir := range app.Finder.Dirs() {
		log.Debug(cmd.Context(), "Searching %s", dir)
	}

	out := cmd.OutOrStdout()
	models := app.Finder.Find()
	if len(models) == 0 {
		fmt.Fprintln(out, "No LLM models found in common locations.")
		return nil
	}

	fmt.Fprintln(out, "Found the following LLM models:")
	for i, m := range models {
		fmt.Fprintf(out, "%d. %s\n", i+1, m)
	}
	return nil
}
