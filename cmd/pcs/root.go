package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/use-agent/pcstats/config"
	"github.com/use-agent/pcstats/engine"
	"github.com/use-agent/pcstats/fixtures"
)

// app carries what every subcommand needs.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Load()}

	root := &cobra.Command{
		Use:          "pcs",
		Short:        "pcs extracts structured data from procyclingstats.com pages.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogger(a.cfg.Log)
		},
	}
	root.PersistentFlags().StringVar(&a.cfg.Fixtures.Dir, "fixtures", a.cfg.Fixtures.Dir, "directory holding recorded pages")
	root.PersistentFlags().BoolVar(&a.cfg.Fixtures.Replay, "replay", a.cfg.Fixtures.Replay, "serve recorded pages before going to the network")
	root.PersistentFlags().StringVar(&a.cfg.Log.Level, "log-level", a.cfg.Log.Level, "debug, info, warn or error")

	root.AddCommand(a.newParseCmd(), a.newFieldsCmd(), a.newFixtureCmd())
	return root
}

// fetcher returns the live engine, fronted by the fixture store when replay
// is on.
func (a *app) fetcher() engine.Engine {
	live := engine.FromConfig(a.cfg.Fetch)
	if !a.cfg.Fixtures.Replay {
		return live
	}
	return engine.NewDispatcher(fixtures.New(a.cfg.Fixtures.Dir), live)
}

// initLogger configures slog based on the LogConfig. Output goes to stderr
// so that it never mixes with parsed data on stdout.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
