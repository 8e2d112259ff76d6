package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tmcfarland/marquee/internal/api"
	"github.com/tmcfarland/marquee/internal/clock/system"
	"github.com/tmcfarland/marquee/internal/snapshot"
)

// newServeCmd creates the 'serve' subcommand: re-scrape on an interval and
// serve the latest snapshot over HTTP.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Scrape on an interval and serve the latest schedule over HTTP",
		RunE:  runServeCommand,
	}
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
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

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	holder := &snapshot.Holder{}
	clk := system.New()

	refresh := func() {
		listings := environment.runner.Run(ctx)
		doc := snapshot.NewDocument(listings, clk.Now())
		holder.Set(doc)
		if err := writer.Write(doc); err != nil {
			logger.Error("snapshot write failed", zap.Error(err))
		}
	}

	// First run happens before the listener accepts traffic so /readyz
	// flips as soon as data exists.
	refresh()

	go func() {
		ticker := time.NewTicker(environment.cfg.ScrapeInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				refresh()
			}
		}
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", environment.cfg.Server.Port),
		Handler:           api.NewServer(holder, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.Int("port", environment.cfg.Server.Port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.Info("shutdown complete")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}
