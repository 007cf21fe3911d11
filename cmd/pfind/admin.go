package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mgomes/pfind/internal/catalog"
	"github.com/mgomes/pfind/internal/mockbackend"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 5 * time.Second

func examplesCommand() *cli.Command {
	return &cli.Command{
		Name:  "examples",
		Usage: "List the example company/designation pairs",
		Action: func(ctx *cli.Context) error {
			entries, err := catalog.LoadOrDefault(configFrom(ctx).CatalogPath)
			if err != nil {
				return err
			}

			for _, e := range entries {
				fmt.Fprintln(ctx.App.Writer, e.Label())
			}
			return nil
		},
	}
}

func diagnosticsCommand() *cli.Command {
	return &cli.Command{
		Name:  "diagnostics",
		Usage: "Show recorded connection failures",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Value: 20,
				Usage: "Number of failures to show",
			},
			&cli.IntFlag{
				Name:  "prune-days",
				Usage: "Delete failures older than this many days first",
			},
		},
		Action: runDiagnostics,
	}
}

func runDiagnostics(ctx *cli.Context) error {
	database, err := openDiagnostics()
	if err != nil {
		return err
	}
	defer database.Close() //nolint:errcheck

	w := ctx.App.Writer

	if days := ctx.Int("prune-days"); days > 0 {
		pruned, err := database.PruneFailures(time.Now().AddDate(0, 0, -days))
		if err != nil {
			return errors.WithStack(err)
		}
		fmt.Fprintf(w, "Pruned %d failures older than %d days\n", pruned, days)
	}

	count, err := database.FailureCount()
	if err != nil {
		return errors.WithStack(err)
	}

	failures, err := database.RecentFailures(ctx.Int("limit"))
	if err != nil {
		return errors.WithStack(err)
	}

	fmt.Fprintf(w, "%d connection failures recorded\n", count)
	for _, f := range failures {
		fmt.Fprintf(w, "\n%s  %s\n", f.OccurredAt.Local().Format(time.RFC3339), f.Endpoint)
		fmt.Fprintf(w, "  request: %s\n", f.RequestID)
		fmt.Fprintf(w, "  cause:   %s\n", f.Cause)
	}

	return nil
}

func mockServerCommand() *cli.Command {
	return &cli.Command{
		Name:  "mock-server",
		Usage: "Run a search backend that answers from canned people",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: ":5000",
				Usage: "Address to listen on",
			},
		},
		Action: runMockServer,
	}
}

func runMockServer(ctx *cli.Context) error {
	addr := ctx.String("addr")

	server := &http.Server{
		Addr:              addr,
		Handler:           mockbackend.New().Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Context.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("mock backend shutdown failed", slog.Any("error", err))
		}
	}()

	slog.Info("mock search backend listening", slog.String("addr", addr))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}
