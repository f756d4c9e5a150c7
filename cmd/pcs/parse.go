package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/use-agent/pcstats/scraper"
)

func (a *app) newParseCmd() *cobra.Command {
	var (
		htmlFile  string
		fields    []string
		fullTable bool
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "parse <url>",
		Short: "Parses a page and prints the selected fields.",
		Long: `Parses a page and prints the selected fields in catalog order.

The page is fetched unless --html names a file holding its markup. Tables
longer than 13 rows are shortened to their first and last 5 rows unless
--fulltable is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := a.load(cmd.Context(), args[0], htmlFile)
			if err != nil {
				return err
			}
			res, err := entity.Parse(fields...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintf(out, "%s (%s)\n\n", entity.Identifier(), entity.Kind())
			printResult(out, res, fullTable)
			return nil
		},
	}
	cmd.Flags().StringVar(&htmlFile, "html", "", "read the page markup from this file instead of fetching it")
	cmd.Flags().StringSliceVarP(&fields, "field", "f", nil, "field to parse; repeat or separate with commas (default all)")
	cmd.Flags().BoolVar(&fullTable, "fulltable", false, "print every table row")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func (a *app) newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <url>",
		Short: "Lists the fields available for a page.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := scraper.New(args[0], "")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", entity.Identifier(), entity.Kind())
			for _, f := range entity.Fields() {
				fmt.Fprintf(out, "  %s\n", f)
			}
			return nil
		},
	}
}

// load binds the scraper for identifier to markup read from htmlFile, or
// fetches the page when htmlFile is empty.
func (a *app) load(ctx context.Context, identifier, htmlFile string) (scraper.Entity, error) {
	if htmlFile != "" {
		b, err := os.ReadFile(htmlFile)
		if err != nil {
			return nil, fmt.Errorf("read markup: %w", err)
		}
		return scraper.New(identifier, string(b))
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Fetch.Timeout)
	defer cancel()
	return scraper.Fetch(ctx, a.fetcher(), identifier)
}
