package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/usesig/history"
	"github.com/AnatoleLucet/usesig/internal/config"
)

func newRootCmd() *cobra.Command {
	var (
		configPath     string
		includeCurrent bool
		logLevel       string
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "usesig",
		Short: "Edit a key/value document with undo and redo",
		Long: `usesig reads commands from stdin and applies them to an in-memory document.

Commands:
  set <key> <value>   set a key
  del <key>           delete a key
  undo, redo          walk the history
  show                print the document
  history             print the undo and redo stacks
  clear               forget the history
  quit                exit`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("include-current") {
				cfg.IncludeCurrent = includeCurrent
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("metrics-addr") {
				cfg.MetricsAddr = metricsAddr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))

			reg := prometheus.NewRegistry()
			metrics := history.NewMetrics(reg)
			if cfg.MetricsAddr != "" {
				srv := serveMetrics(cfg.MetricsAddr, reg, logger)
				defer srv.Close()
			}

			doc := history.NewState(map[string]string{},
				history.WithIncludeCurrent(cfg.IncludeCurrent),
				history.WithLogger(logger),
				history.WithMetrics(metrics),
			)
			defer doc.Dispose()

			if err := newREPL(doc, cmd.OutOrStdout(), cfg.Prompt).Run(cmd.InOrStdin()); err != nil {
				return fmt.Errorf("read commands: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().BoolVar(&includeCurrent, "include-current", false, "keep the current document as the top history entry")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	return cmd
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", slog.String("addr", addr), slog.String("error", err.Error()))
		}
	}()

	logger.Info("serving metrics", slog.String("addr", addr))
	return srv
}
