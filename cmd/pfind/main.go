package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/mgomes/pfind/internal/config"
	"github.com/mgomes/pfind/internal/db"
	"github.com/mgomes/pfind/internal/search"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var version = "dev"

const configKey = "config"

// logFile is the file the current command logs to, if any.
var logFile *os.File

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := &cli.App{
		Name:     "pfind",
		Usage:    "Find who holds a given role at a company",
		Version:  version,
		Metadata: map[string]interface{}{},
		Before:   before,
		After:    after,
		Action:   runForm,
		Commands: []*cli.Command{
			formCommand(),
			searchCommand(),
			examplesCommand(),
			diagnosticsCommand(),
			setupCommand(),
			mockServerCommand(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				EnvVars: []string{config.EnvPrefix + "CONFIG"},
				Usage:   "Path to the config file (default ~/.config/pfind/config.json)",
			},
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "URL of the search endpoint",
			},
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "YAML file of example company/designation pairs",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Set logging level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:    "log-file",
				EnvVars: []string{config.EnvPrefix + "LOG_FILE"},
				Usage:   "Write logs to this file instead of stderr",
			},
			&cli.BoolFlag{
				Name:    "debug",
				EnvVars: []string{config.EnvPrefix + "DEBUG"},
				Usage:   "Enable debug mode",
			},
		},
	}

	app.ExitErrHandler = func(ctx *cli.Context, err error) {
		reportError(ctx.Context, ctx.App.ErrWriter, err, ctx.Bool("debug"))
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))

	return app
}

// reportError logs err and, when logs go to a file, also prints it to
// errWriter so the user sees why the command failed.
func reportError(ctx context.Context, errWriter io.Writer, err error, debug bool) {
	if err == nil {
		return
	}

	// Commands that already printed their failure exit with an empty message.
	if _, ok := err.(cli.ExitCoder); ok && err.Error() == "" {
		return
	}

	message := err.Error()
	if debug {
		message = fmt.Sprintf("%+v", err)
	}

	slog.ErrorContext(ctx, message)

	if logFile != nil {
		if errWriter == nil {
			errWriter = os.Stderr
		}
		fmt.Fprintf(errWriter, "Error: %s\n", message)
	}
}

func before(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	ctx.App.Metadata[configKey] = cfg

	out := ctx.App.ErrWriter
	if out == nil {
		out = os.Stderr
	}
	if path := ctx.String("log-file"); path != "" {
		f, err := openLogFile(path)
		if err != nil {
			return err
		}
		out = f
	}

	setupLogger(out, logLevel(ctx, cfg))

	return nil
}

func after(ctx *cli.Context) error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return errors.WithStack(err)
}

// loadConfig layers defaults, the config file, .env and PFIND_* variables,
// then command line flags.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	if err := config.LoadEnvFiles(); err != nil {
		return nil, errors.WithStack(err)
	}

	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return nil, errors.Wrap(err, "could not load config")
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, errors.WithStack(err)
	}

	if ctx.IsSet("endpoint") {
		cfg.Endpoint = ctx.String("endpoint")
	}
	if ctx.IsSet("catalog") {
		cfg.CatalogPath = ctx.String("catalog")
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}

	return cfg, nil
}

func configFrom(ctx *cli.Context) *config.Config {
	cfg, _ := ctx.App.Metadata[configKey].(*config.Config)
	return cfg
}

func logLevel(ctx *cli.Context, cfg *config.Config) slog.Level {
	if ctx.Bool("debug") {
		return slog.LevelDebug
	}

	switch cfg.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogger(out io.Writer, level slog.Level) {
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(err, "could not create log directory")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, errors.Wrap(err, "could not open log file")
	}

	if logFile != nil {
		logFile.Close() //nolint:errcheck
	}
	logFile = f

	return f, nil
}

// openDiagnostics opens the transport failure log, creating its directory
// on first use.
func openDiagnostics() (*db.DB, error) {
	path, err := config.DBPath()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(err, "could not create data directory")
	}

	database, err := db.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return database, nil
}

func newClient(cfg *config.Config, recorder search.Recorder) *search.Client {
	opts := []search.Option{
		search.WithTimeout(cfg.TimeoutDuration()),
		search.WithHealthURL(cfg.HealthURL),
	}

	if recorder != nil {
		opts = append(opts, search.WithRecorder(recorder))
	}

	return search.NewClient(cfg.Endpoint, opts...)
}

// searchClient validates the config and returns a client that records
// transport failures when the diagnostics log is available. The returned
// close func is always safe to call.
func searchClient(cfg *config.Config) (*search.Client, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid configuration")
	}

	database, err := openDiagnostics()
	if err != nil {
		slog.Warn("diagnostics log unavailable", slog.Any("error", err))
		return newClient(cfg, nil), func() {}, nil
	}

	closeDB := func() {
		if err := database.Close(); err != nil {
			slog.Warn("could not close diagnostics log", slog.Any("error", err))
		}
	}

	return newClient(cfg, database), closeDB, nil
}
