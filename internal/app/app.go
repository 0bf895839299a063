// Package app wires the preprocessor library into the command-line tool:
// it scans the workspace root, applies -D defines, and expands the
// requested shader.
package app

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/vk/wgslpp"
	"github.com/vk/wgslpp/internal/ctxlog"
	"github.com/vk/wgslpp/value"
)

// App encapsulates the tool's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	errW      io.Writer
	logger    *slog.Logger
	workspace *wgslpp.Workspace
}

// NewApp constructs the application: it builds an isolated logger, scans
// the workspace root for shader files, and applies the configured
// defines. A failure to load the workspace is a fatal startup error.
func NewApp(outW, errW io.Writer, cfg *Config) *App {
	return newApp(outW, errW, cfg, os.DirFS(cfg.RootPath))
}

// newApp is the fs-injectable constructor used by tests.
func newApp(outW, errW io.Writer, cfg *Config, fsys fs.FS) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	logger.Debug("Logger configured successfully.")

	ws, err := wgslpp.Scan(fsys)
	if err != nil {
		panic(fmt.Errorf("failed to load workspace from %q: %w", cfg.RootPath, err))
	}
	logger.Debug("Workspace scanned.", "root", cfg.RootPath, "shaders", ws.Sources().Len())

	for _, d := range cfg.Defines {
		v, err := parseDefine(d)
		if err != nil {
			// Unreachable after NewConfig validation.
			panic(err)
		}
		switch v.Kind() {
		case value.KindInt:
			ws.SetGlobalInt(d.Name, v.IntVal())
		case value.KindFloat:
			ws.SetGlobalFloat(d.Name, v.FloatVal())
		case value.KindBool:
			ws.SetGlobalBool(d.Name, v.BoolVal())
		}
	}
	logger.Debug("Globals applied.", "defines", len(cfg.Defines), "globals", ws.Registry().Len())

	return &App{outW: outW, errW: errW, logger: logger, workspace: ws}
}

// Workspace returns the app's workspace. This is primarily for testing.
func (a *App) Workspace() *wgslpp.Workspace { return a.workspace }

// Run expands the configured entry shader and writes the result to the
// output path, or to the app's output writer when none is configured.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.logger.Info("Expanding shader.", "entry", cfg.EntryPath)
	expanded, err := a.workspace.GetShader(ctx, cfg.EntryPath)
	if err != nil {
		return fmt.Errorf("expansion failed: %w", err)
	}
	a.logger.Info("Expansion finished.", "entry", cfg.EntryPath, "bytes", len(expanded))

	if cfg.OutputPath != "" {
		if err := os.WriteFile(cfg.OutputPath, []byte(expanded), 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		a.logger.Debug("Output written.", "path", cfg.OutputPath)
		return nil
	}

	if _, err := io.WriteString(a.outW, expanded); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}
