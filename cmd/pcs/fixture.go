package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/go-cmp/cmp"
	pretty "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/use-agent/pcstats/engine"
	"github.com/use-agent/pcstats/fixtures"
	"github.com/use-agent/pcstats/scraper"
)

func (a *app) newFixtureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Records and verifies fixture pages.",
	}
	cmd.AddCommand(a.newFixtureSaveCmd(), a.newFixtureCheckCmd(), a.newFixtureDriftCmd())
	return cmd
}

func (a *app) newFixtureSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <url>...",
		Short: "Downloads pages and stores their markup with the data parsed from it.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := fixtures.New(a.cfg.Fixtures.Dir)
			live := engine.FromConfig(a.cfg.Fetch)
			for _, id := range args {
				if _, err := scraper.KindOf(id); err != nil {
					return err
				}
				page, err := live.Fetch(cmd.Context(), &engine.FetchRequest{URL: id})
				if err != nil {
					return err
				}
				entity, err := scraper.New(id, page.HTML)
				if err != nil {
					return err
				}
				res, err := entity.Parse()
				if err != nil {
					return fmt.Errorf("%s: %w", id, err)
				}
				if err := store.SaveHTML(entity.Identifier(), page.HTML); err != nil {
					return err
				}
				if err := store.SaveData(entity.Identifier(), res); err != nil {
					return err
				}
				slog.Info("fixture saved", "identifier", entity.Identifier(), "fields", res.Len())
			}
			return nil
		},
	}
}

func (a *app) newFixtureCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Re-parses every stored page and compares it with its stored data.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := fixtures.New(a.cfg.Fixtures.Dir)
			ids, err := store.Pairs()
			if err != nil {
				return err
			}

			t := pretty.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(pretty.Row{"Fixture", "Result"})
			failed := 0
			for _, id := range ids {
				diff, err := checkFixture(store, id)
				switch {
				case err != nil:
					failed++
					t.AppendRow(pretty.Row{id, "error: " + err.Error()})
				case diff != "":
					failed++
					t.AppendRow(pretty.Row{id, "FAIL"})
					slog.Warn("fixture differs", "identifier", id, "diff", diff)
				default:
					t.AppendRow(pretty.Row{id, "ok"})
				}
			}
			t.SetStyle(pretty.StyleRounded)
			t.Render()

			if failed > 0 {
				return fmt.Errorf("%d of %d fixtures failed", failed, len(ids))
			}
			return nil
		},
	}
}

// checkFixture parses the stored page of id and returns how the result
// differs from the stored data, or "" when they agree.
func checkFixture(store *fixtures.Store, id string) (string, error) {
	markup, err := store.LoadHTML(id)
	if err != nil {
		return "", err
	}
	entity, err := scraper.New(id, markup)
	if err != nil {
		return "", err
	}
	res, err := entity.Parse()
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return "", err
	}
	stored, err := store.LoadData(id)
	if err != nil {
		return "", err
	}

	var got, want any
	if err := json.Unmarshal(raw, &got); err != nil {
		return "", err
	}
	if err := json.Unmarshal(stored, &want); err != nil {
		return "", fmt.Errorf("stored data: %w", err)
	}
	return cmp.Diff(want, got), nil
}

func (a *app) newFixtureDriftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drift <url>...",
		Short: "Reports whether the live layout of pages moved away from their recordings.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := fixtures.New(a.cfg.Fixtures.Dir)
			live := engine.FromConfig(a.cfg.Fetch)

			t := pretty.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(pretty.Row{"Page", "Distance", "Drifted"})
			drifted := 0
			for _, id := range args {
				stored, err := store.LoadHTML(id)
				if errors.Is(err, fixtures.ErrNotFound) {
					fmt.Fprintf(os.Stderr, "%s: no recording, skipped\n", id)
					continue
				}
				if err != nil {
					return err
				}
				res, err := live.Fetch(cmd.Context(), &engine.FetchRequest{URL: id})
				if err != nil {
					return err
				}
				dist := fixtures.LayoutDistance(fixtures.LayoutFingerprint(stored), fixtures.LayoutFingerprint(res.HTML))
				moved := fixtures.Drifted(stored, res.HTML)
				if moved {
					drifted++
				}
				t.AppendRow(pretty.Row{id, dist, moved})
			}
			t.SetStyle(pretty.StyleRounded)
			t.Render()

			if drifted > 0 {
				return fmt.Errorf("%d pages drifted beyond distance %d", drifted, fixtures.DriftThreshold)
			}
			return nil
		},
	}
}
