package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/cargo-plumbing/internal/config"
	"github.com/danieljhkim/cargo-plumbing/internal/engine"
	"github.com/danieljhkim/cargo-plumbing/internal/fsops"
	"github.com/danieljhkim/cargo-plumbing/internal/hash"
	"github.com/danieljhkim/cargo-plumbing/internal/manifest"
)

// session bundles what a command needs: settings, a logger and an engine.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	eng    *engine.Engine
}

// newSession loads settings and builds the engine for cmd. Logs go to the
// command's error stream so stdout carries only command output.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return &session{
		cfg:    cfg,
		logger: logger,
		eng:    newEngine(cfg, logger),
	}, nil
}

// loadConfig reads the config file named by --config, or the default one,
// and applies environment overrides. An explicit --config file must exist.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		paths, err := config.DefaultPaths()
		if err != nil {
			return nil, fmt.Errorf("failed to get config paths: %w", err)
		}
		path = paths.Config
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine(cfg *config.Config, logger *slog.Logger) *engine.Engine {
	fs := fsops.NewRealFS()
	locator := manifest.NewLocator(fs, cfg.ManifestName, cfg.WorkspaceMarker, logger)
	return engine.New(fs, locator, hash.NewSHA256Hasher(), logger)
}

// FormatError formats an error for display.
func FormatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}
