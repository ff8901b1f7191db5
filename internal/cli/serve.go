package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldmark/popover/internal/api"
)

// newServeCmd creates the serve command: the solver plus trace recording
// behind an HTTP API.
func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the positioning solver over HTTP",
		Long: `Serve exposes POST /v1/solve for remote placement computation and
GET /v1/traces for replaying recorded solves. The trace backend (memory,
file, redis or mongo) comes from the TOML config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}

			store, err := cfg.Trace.OpenStore(ctx)
			if err != nil {
				return fmt.Errorf("open trace store: %w", err)
			}
			if store != nil {
				defer store.Close()
			}

			srv := &http.Server{
				Addr:              cfg.Serve.Addr,
				Handler:           api.NewServer(store, logger).Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", cfg.Serve.Addr, "trace_backend", cfg.Trace.Backend)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
