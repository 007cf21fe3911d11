package main

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mgomes/pfind/internal/catalog"
	"github.com/mgomes/pfind/internal/config"
	"github.com/mgomes/pfind/internal/tui"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func formCommand() *cli.Command {
	return &cli.Command{
		Name:   "form",
		Usage:  "Open the interactive search form (default)",
		Action: runForm,
	}
}

func runForm(ctx *cli.Context) error {
	cfg := configFrom(ctx)

	entries, err := catalog.LoadOrDefault(cfg.CatalogPath)
	if err != nil {
		return err
	}

	client, closeClient, err := searchClient(cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	model := tui.NewFormModel(ctx.Context, client, entries)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx.Context))

	if cfg.CatalogPath != "" {
		stop, err := watchCatalog(ctx.Context, cfg.CatalogPath, program)
		if err != nil {
			return err
		}
		defer stop()
	}

	// The form owns the terminal from here on, so logs go to a file unless
	// one was given.
	if !ctx.IsSet("log-file") {
		path, err := config.LogPath()
		if err != nil {
			return errors.WithStack(err)
		}
		f, err := openLogFile(path)
		if err != nil {
			return err
		}
		setupLogger(f, logLevel(ctx, cfg))
	}

	slog.InfoContext(ctx.Context, "form started",
		slog.String("endpoint", client.Endpoint()),
		slog.Int("examples", len(entries)),
	)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.WithStack(err)
	}

	return nil
}

// watchCatalog forwards every reload of path to the running form.
func watchCatalog(ctx context.Context, path string, program *tea.Program) (func(), error) {
	onReload := func(entries []catalog.Entry) {
		slog.Info("catalog reloaded", slog.String("path", path), slog.Int("entries", len(entries)))
		program.Send(tui.CatalogMsg{Entries: entries})
	}

	onError := func(err error) {
		slog.Warn("catalog reload failed", slog.String("path", path), slog.Any("error", err))
		program.Send(tui.CatalogErrorMsg{Err: err})
	}

	watcher, err := catalog.NewWatcher(path, onReload, onError)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	ctx, cancel := context.WithCancel(ctx)

	go func() {
		if err := watcher.Start(ctx); err != nil {
			slog.Error("catalog watcher stopped", slog.Any("error", err))
		}
	}()

	return func() {
		watcher.Stop()
		cancel()
	}, nil
}
