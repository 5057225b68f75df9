package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kjet-platform/countydata/internal/observability"
	"github.com/kjet-platform/countydata/internal/pipeline"
	"github.com/kjet-platform/countydata/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve county datasets over HTTP",
	Long: `Serve exposes dataset resolution over HTTP:

  GET /api/v1/counties/{name}/evaluation   evaluation results for a county
  GET /api/v1/national-summary             national evaluation summary
  GET /api/v1/inventory                    application file inventory
  GET /api/v1/variants/{name}              spelling variants for a county
  GET /healthz                             liveness
  GET /metrics                             Prometheus metrics

The cohort is read from the ?cohort= query parameter; an X-Cohort request
header overrides it.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if err := requireOrigin(cfg); err != nil {
		return err
	}

	logger := newLogger(cfg, os.Stderr)
	metrics := observability.NewMetrics()
	locator := pipeline.NewLocatorFromConfig(cfg, logger, metrics)
	srv := server.NewServer(cfg.Server.Addr, locator, nil, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
