package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/nguyentantai21042004/ytscript/internal/config"
	"github.com/nguyentantai21042004/ytscript/internal/discovery"
	"github.com/nguyentantai21042004/ytscript/internal/logger"
	"github.com/nguyentantai21042004/ytscript/pkg/executor"
)

// App holds the collaborators the commands share.
type App struct {
	Exec     executor.Executor
	Resolver *config.Resolver
	Finder   discovery.Finder
	// EnvFile is loaded before configuration is resolved; empty skips it.
	EnvFile string
	// LogOut receives diagnostics; nil means the command's stderr.
	LogOut io.Writer
}

// NewApp wires the real executor, resolver and model finder.
func NewApp() *App {
	return &App{
		Exec:     executor.New(),
		Resolver: config.NewResolver(),
		Finder:   discovery.New(),
		EnvFile:  ".env",
	}
}

// globalOptions are flags shared by every command.
type globalOptions struct {
	whisperPath string
	modelPath   string
	llmPath     string
	llmBinary   string
	verbose     bool
	logLevel    string
	jsonLogs    bool
}

// setup loads .env, builds the logger and resolves configuration.
func (a *App) setup(ctx context.Context, g *globalOptions, stderr io.Writer) (logger.Logger, config.Resolved, error) {
	envErr := a.loadEnv()

	level := g.logLevel
	if g.verbose {
		level = "debug"
	}
	out := a.LogOut
	if out == nil {
		out = stderr
	}
	log := logger.NewWithOptions(logger.Options{Level: level, JSON: g.jsonLogs, Out: out})

	if envErr != nil {
		log.Warn(ctx, "Failed to load %s: %v", a.EnvFile, envErr)
	}

	resolved, err := a.Resolver.Resolve(config.Settings{
		WhisperPath:   g.whisperPath,
		ModelPath:     g.modelPath,
		LLMPath:       g.llmPath,
		LLMBinaryPath: g.llmBinary,
	})
	if err != nil {
		return nil, config.Resolved{}, err
	}
	for _, w := range resolved.Warnings {
		log.Warn(ctx, "%s", w)
	}
	for key, layer := range resolved.Sources {
		log.Debug(ctx, "Config %s from %s", key, layer)
	}
	return log, resolved, nil
}

// loadEnv reads KEY=VALUE pairs without overriding the process environment.
func (a *App) loadEnv() error {
	if a.EnvFile == "" {
		return nil
	}
	err := godotenv.Load(a.EnvFile)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

