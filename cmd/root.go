// Package cmd defines and implements the CLI commands for the marquee
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tmcfarland/marquee/internal/adapter"
	"github.com/tmcfarland/marquee/internal/clock/system"
	"github.com/tmcfarland/marquee/internal/config"
	collyfetcher "github.com/tmcfarland/marquee/internal/fetcher/colly"
	"github.com/tmcfarland/marquee/internal/id/uuid"
	"github.com/tmcfarland/marquee/internal/logging"
	"github.com/tmcfarland/marquee/internal/metrics"
	"github.com/tmcfarland/marquee/internal/normalize"
	"github.com/tmcfarland/marquee/internal/runner"
)

var cfgFile string

// env bundles the shared services every subcommand needs.
type env struct {
	cfg    config.Config
	logger *zap.Logger
	runner *runner.Runner
	runID  string
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "marquee",
		Short: "Aggregates repertory cinema showtimes into one schedule.",
		Long: `marquee scrapes showtime listings from a configured set of independent
cinema venues (HTML calendars, RSS feeds, iCal feeds), normalizes them into
one deduplicated chronological schedule, and writes a JSON snapshot.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "marquee.yaml", "config file path")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// buildEnv loads configuration and wires the pipeline services.
func buildEnv() (*env, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metrics.Init()

	runID, err := uuid.New().NewID()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}
	logger = logger.With(zap.String("run_id", runID))

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.HTTP.UserAgent,
		Accept:    cfg.HTTP.Accept,
		Timeout:   cfg.FetchTimeout(),
	})
	clk := system.New()
	selector := adapter.NewSelector(fetcher, cfg.FetchHeaders(), logger)
	normalizer := normalize.New(clk)
	run := runner.New(selector, normalizer, cfg.PipelineVenues(), cfg.Scrape.Concurrency, clk, logger)

	return &env{
		cfg:    cfg,
		logger: logger,
		runner: run,
		runID:  runID,
	}, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
