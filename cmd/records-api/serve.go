package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/records-api/internal/http/api"
	"github.com/aanand-mishra/records-api/internal/http/router"
)

var shutdownTimeout time.Duration

// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the store (and set up its schema)
//  4. Build the router
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// ── 1. Load Config ────────────────────────────────────────────────
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// ── 2. Initialise Logger ──────────────────────────────────────────
		log := setupLogger(cfg.Env)
		slog.SetDefault(log)

		log.Info("starting records-api",
			slog.String("env", cfg.Env),
			slog.String("version", Version),
		)

		// ── 3. Initialise Storage ─────────────────────────────────────────
		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			log.Error("failed to initialise storage", slog.String("error", err.Error()))
			return err
		}
		defer store.Close()

		log.Info("storage initialised", slog.String("driver", cfg.Storage.Driver))

		// ── 4. Build the Router ───────────────────────────────────────────
		handler := api.New(store, log, api.Options{
			LegacyStatusCodes: cfg.LegacyStatusCodes,
			Metrics:           router.NewMetrics(),
		})

		server := &http.Server{
			Addr:         cfg.HTTPServer.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.HTTPServer.ReadTimeout,
			WriteTimeout: cfg.HTTPServer.WriteTimeout,
			IdleTimeout:  cfg.HTTPServer.IdleTimeout,
		}

		// ── 5. Start Server in a Goroutine ────────────────────────────────
		// ListenAndServe returns http.ErrServerClosed once Shutdown is
		// called; anything else ends the command.
		serverErr := make(chan error, 1)
		go func() {
			log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
			close(serverErr)
		}()

		// ── 6. Wait for Shutdown Signal ───────────────────────────────────
		done := make(chan os.Signal, 1)
		signal.Notify(done, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(done)

		select {
		case <-done:
			log.Info("shutdown signal received, stopping server...")
		case err, ok := <-serverErr:
			if ok {
				log.Error("server encountered an error", slog.String("error", err.Error()))
				return err
			}
		}

		// ── 7. Graceful Shutdown ──────────────────────────────────────────
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
			return fmt.Errorf("shutdown: %w", err)
		}

		log.Info("server stopped gracefully")
		return nil
	},
}

func init() {
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 5*time.Second, "how long in-flight requests may take to finish")
	rootCmd.AddCommand(serveCmd)
}
