package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/avinse/reportage/internal/api"
	"github.com/avinse/reportage/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the run ledger and ingest pipeline over HTTP",
	Long: `Serve starts the HTTP API: document listing and detail from the run
ledger, multipart PDF ingest onto the worker pool with polled job
status, and a health probe.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	bindFlags(cmd, "addr", "output", "workers", "ocr-lang", "keywords")

	cfg, runner, ledger, err := openRunner()
	if err != nil {
		return err
	}
	defer ledger.Close()

	log := newLogger()
	srv := api.NewServer(runner, ledger, log, cfg)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
		srv.Drain()
	}()

	log.Info("starting reportage API", "addr", cfg.Addr, "workers", cfg.Workers)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func init() {
	serveCmd.Flags().String("addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().String("output", config.DefaultOutputDir, "output directory root")
	serveCmd.Flags().Int("workers", config.DefaultWorkers, "concurrent ingest jobs")
	serveCmd.Flags().String("ocr-lang", "", "OCR language for scanned documents (implies OCR)")
	serveCmd.Flags().String("keywords", "", "YAML keyword table overriding the built-in detection phrases")

	rootCmd.AddCommand(serveCmd)
}
