package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mgomes/pfind/internal/search"
	"github.com/mgomes/pfind/internal/view"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	formatText = "text"
	formatHTML = "html"
	formatJSON = "json"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run one search and print the outcome",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "company",
				Aliases: []string{"c"},
				Usage:   "Company name",
			},
			&cli.StringFlag{
				Name:    "designation",
				Aliases: []string{"d"},
				Usage:   "Job title to look up",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   formatText,
				Usage:   "Output format: text, html or json",
			},
		},
		Action: runSearch,
	}
}

func runSearch(ctx *cli.Context) error {
	format := ctx.String("format")
	switch format {
	case formatText, formatHTML, formatJSON:
	default:
		return errors.Errorf("unknown format %q", format)
	}

	client, closeClient, err := searchClient(configFrom(ctx))
	if err != nil {
		return err
	}
	defer closeClient()

	outcome := client.Submit(ctx.Context, search.Query{
		Company:     ctx.String("company"),
		Designation: ctx.String("designation"),
	})

	if err := printOutcome(ctx.App.Writer, format, outcome); err != nil {
		return err
	}

	if outcome.Failed() {
		return cli.Exit("", 1)
	}

	return nil
}

func printOutcome(w io.Writer, format string, outcome search.Outcome) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.WithStack(enc.Encode(outcome))

	case formatHTML:
		var (
			out string
			err error
		)
		if r, ok := view.FromOutcome(outcome); ok {
			out, err = r.HTML()
		} else {
			out, err = view.ErrorHTML(outcome.Message)
		}
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return errors.WithStack(err)

	default:
		if r, ok := view.FromOutcome(outcome); ok {
			_, err := io.WriteString(w, r.Plain())
			return errors.WithStack(err)
		}
		_, err := fmt.Fprintf(w, "Error: %s\n", outcome.Message)
		return errors.WithStack(err)
	}
}
