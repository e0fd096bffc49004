package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/cvrguide/internal/cli"
	"github.com/aretw0/cvrguide/internal/logging"
	cvrhttp "github.com/aretw0/cvrguide/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the web chat (/chat, /reset), the Telex A2A endpoints (/telex/a2a,
/telex/webhook), health and info probes, Prometheus metrics and the /events stream.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		httpLogger := logging.NewJSON(os.Stderr, cfg.LogLevel)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		app, err := cli.Build(cfg, httpLogger, cli.WithMetrics(reg), cli.WithStreams(), cli.WithAuditLog())
		if err != nil {
			return err
		}
		defer app.Close()

		handler := cvrhttp.NewHandler(app.Engine,
			cvrhttp.WithLogger(httpLogger),
			cvrhttp.WithStreams(app.Streams),
			cvrhttp.WithMetricsHandler(app.Metrics.Handler()),
			cvrhttp.WithHealthCheck(app.Ping),
		)

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			httpLogger.Info("Starting CVR Guide server", "address", srv.Addr, "store", cfg.Store, "version", cvrguideVersion())
			serverErrors <- srv.ListenAndServe()
		}()

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			httpLogger.Info("Start shutdown", "signal", fmt.Sprint(sigCtx.Signal()))

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				httpLogger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			httpLogger.Info("CVR Guide server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
