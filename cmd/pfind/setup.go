package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mgomes/pfind/internal/catalog"
	"github.com/mgomes/pfind/internal/config"
	"github.com/mgomes/pfind/internal/tui"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const setupHealthTimeout = 3 * time.Second

func setupCommand() *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Run the setup wizard",
		Action: runSetup,
	}
}

func runSetup(ctx *cli.Context) error {
	// Start from the file alone so env and flag overrides are not persisted.
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return errors.Wrap(err, "could not load config")
	}

	program := tea.NewProgram(newSetupRunner(cfg), tea.WithContext(ctx.Context))

	finalModel, err := program.Run()
	if err != nil {
		return errors.WithStack(err)
	}

	runner, ok := finalModel.(setupRunner)
	if !ok || runner.endpoint == "" {
		return errors.New("setup cancelled")
	}

	cfg.Endpoint = runner.endpoint
	cfg.CatalogPath = runner.catalogPath

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	if err := cfg.Save(); err != nil {
		return errors.Wrap(err, "could not save config")
	}

	w := ctx.App.Writer
	fmt.Fprintf(w, "Saved %s\n", cfg.Path())

	healthCtx, cancel := context.WithTimeout(ctx.Context, setupHealthTimeout)
	defer cancel()

	if err := newClient(cfg, nil).Health(healthCtx); err != nil {
		fmt.Fprintf(w, "Warning: the search backend did not answer its health check: %v\n", err)
	}

	return nil
}

type setupRunner struct {
	setupModel  tui.SetupModel
	endpoint    string
	catalogPath string
}

func newSetupRunner(cfg *config.Config) setupRunner {
	return setupRunner{
		setupModel: tui.NewSetupModel(cfg.Endpoint, cfg.CatalogPath),
	}
}

func (m setupRunner) Init() tea.Cmd {
	return tea.Batch(m.setupModel.Init(), tea.EnableBracketedPaste)
}

func (m setupRunner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.SetupSubmitMsg:
		if msg.CatalogPath != "" {
			if _, err := catalog.Load(msg.CatalogPath); err != nil {
				return m.fail("Invalid catalog: " + err.Error())
			}
		}

		m.endpoint = msg.Endpoint
		m.catalogPath = msg.CatalogPath
		return m, tea.Quit

	default:
		newModel, cmd := m.setupModel.Update(msg)
		if sm, ok := newModel.(tui.SetupModel); ok {
			m.setupModel = sm
		}
		return m, cmd
	}
}

func (m setupRunner) fail(message string) (tea.Model, tea.Cmd) {
	newModel, _ := m.setupModel.Update(tui.SetupErrorMsg{Error: message})
	if sm, ok := newModel.(tui.SetupModel); ok {
		m.setupModel = sm
	}
	return m, nil
}

func (m setupRunner) View() string {
	return m.setupModel.View()
}
