package cmd

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olivierh59500/netgraph/internal/logger"
	"github.com/olivierh59500/netgraph/internal/metrics"
	"github.com/olivierh59500/netgraph/internal/store"
	"github.com/olivierh59500/netgraph/internal/window"
)

func viewCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the contact graph in a window",
		Long: `Open the contact graph in a window.

  drag a node     move and pin it while held
  drag elsewhere  pan
  wheel           zoom about the pointer
  space           pause / resume the simulation
  + / -           zoom about the centre
  r               reset the view
  l               reload the document`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.Get()
			if metricsAddr == "" {
				metricsAddr = cfg.Metrics.Addr
			}

			var m *metrics.Metrics
			if metricsAddr != "" {
				reg := prometheus.NewRegistry()
				m = metrics.New(reg)
				srv := metricsServer(metricsAddr, reg)
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("metrics server stopped", zap.Error(err))
					}
				}()
				defer srv.Close()
				log.Info("serving metrics", zap.String("addr", metricsAddr))
			}

			f := store.Open(cfg.Data.Path)
			return window.Run(window.Options{
				Title:   cfg.Window.Title,
				Width:   cfg.Window.Width,
				Height:  cfg.Window.Height,
				MinSize: cfg.Window.MinSize,
				TPS:     cfg.Window.TPS,
				Scene:   sceneOptions(cfg, log, m),
			}, graphLoader(f, log))
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9100")
	return cmd
}

func metricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
