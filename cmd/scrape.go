package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tmcfarland/marquee/internal/clock/system"
	"github.com/tmcfarland/marquee/internal/snapshot"
)

// newScrapeCmd creates the 'scrape' subcommand: one full pipeline run,
// snapshot written, exit.
func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Run the pipeline once and write the snapshot",
		RunE:  runScrapeCommand,
	}
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	environment, err := buildEnv()
	if err != nil {
		return err
	}
	logger := environment.logger
	defer logger.Sync() //nolint:errcheck // best-effort flush

	writer, err := snapshot.NewWriter(environment.cfg.Output.Path)
	if err != nil {
		return fmt.Errorf("init snapshot writer: %w", err)
	}

	listings := environment.runner.Run(cmd.Context())

	doc := snapshot.NewDocument(listings, system.New().Now())
	if err := writer.Write(doc); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	logger.Info("snapshot written",
		zap.String("path", environment.cfg.Output.Path),
		zap.Int("listings", len(listings)))
	return nil
}
