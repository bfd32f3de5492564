package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/edvin/dbaccess/internal/api"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig("serve")
			if err != nil {
				return err
			}

			if migrate {
				logger.Info().Msg("running catalog migrations")
				if err := runMigrations(cfg.CatalogDatabaseURL); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := connect(ctx, cfg, logger, true)
			if err != nil {
				return err
			}
			defer rt.Close()
			rt.registerPoolMetrics(prometheus.DefaultRegisterer)

			srv := api.NewServer(logger, rt.services, map[string]api.ReadinessCheck{
				"catalog_db": rt.pool.Ping,
				"native_db":  rt.nativeDB.PingContext,
			})

			httpServer := &http.Server{
				Addr:         cfg.HTTPListenAddr,
				Handler:      srv,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting dbaccess API server")
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Run catalog migrations before starting")
	return cmd
}
