package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayercalc/internal/server"
)

var flagListen string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve prayer times over HTTP",
		Long:  "Run a JSON API (/v1/timings, /v1/qibla, /v1/methods) with Prometheus metrics on /metrics.\nConfigured location and method are used as defaults for requests that omit them.",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&flagListen, "listen", "", "Address to listen on (default: config listen, or :8080)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		if err := cfg.Set("listen", flagListen); err != nil {
			return err
		}
	}
	// Validate the defaults once so a bad config fails at startup rather
	// than on every request.
	if _, err := cfg.Parameters(); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := server.NewMetrics(reg)

	srvLogger := logger.With().Str("component", "server").Logger()
	if !FlagVerbose {
		// Request logs are the point of a server's output.
		srvLogger = srvLogger.Level(zerolog.InfoLevel)
	}
	h := server.New(*cfg, srvLogger, metrics)
	router := server.NewRouter(h, metrics, reg, srvLogger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, cfg.Listen, router, srvLogger)
}
