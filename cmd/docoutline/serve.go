package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/api"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve outline extraction over HTTP",
	Long: `Start the HTTP API.

Endpoints:
  GET    /health               - liveness check
  POST   /api/outline          - multipart upload (field "file"), returns the outline record
  GET    /api/stats            - rolling extraction latency
  GET    /api/outlines         - records in the output directory
  GET    /api/outlines/{stem}  - one stored record
  DELETE /api/outlines/{stem}  - remove a stored record

When DOCOUTLINE_API_KEY is set, /api/* requires "Authorization: Bearer <key>".`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		if servePort != "" {
			cfg.Port = servePort
		}

		extractor := outline.NewExtractor(cfg.Thresholds(), log)
		srv := api.NewServer(extractor, pipeline.NewLatencyStats(cfg.StatsWindow), log, cfg)

		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      srv,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Graceful shutdown.
		ctx := cmd.Context()
		go func() {
			<-ctx.Done()
			log.Info("shutting down...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		log.Info("starting docoutline", "port", cfg.Port, "auth", cfg.DocoutlineAPIKey != "")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "port to listen on (default: $PORT or 8090)")
}
