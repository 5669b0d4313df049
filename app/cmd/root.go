// Package cmd wires the stratint command line.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"stratint/outlook/app/config"
	"stratint/outlook/app/env"
	"stratint/outlook/app/logger"
)

// app carries what the persistent pre-run loaded into the subcommands.
type app struct {
	cfgFile  string
	logLevel string
	cfg      *config.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "stratint",
		Short: "Renewable energy outlook from live news feeds",
		Long: `stratint pulls renewable energy headlines from RSS feeds, keeps the ones
relevant to a country, and asks a hosted model for a structured investment
outlook per topic. Without an API key it prints a deterministic offline outlook.

Example usage:
  stratint scan                         # all topics, default country
  stratint scan -t Renewables -c India  # one topic, one country
  stratint scan --format json           # machine readable output
  stratint scan --digest feed.xml       # also write an RSS digest
  stratint topics                       # list the topic catalogue`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file layered over the built-in defaults")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	root.AddCommand(
		scanCmd(a),
		topicsCmd(a),
		infoCmd(),
		normalizeCmd(),
	)
	return root
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) init() error {
	if err := env.LoadDotEnv(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Logging.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	if err := logger.Init(level, cfg.Logging.File); err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	logger.Debug("configuration loaded",
		"provider", cfg.LLM.Provider,
		"topics", len(cfg.Topics),
		"default_country", cfg.DefaultCountry)

	a.cfg = cfg
	return nil
}
