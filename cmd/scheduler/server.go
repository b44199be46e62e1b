/**
 * CONTEXT:   The "serve" subcommand wiring internal/httpapi to a real listener
 * INPUT:     A listen address and the engine's default scheduling parameters
 * OUTPUT:    A running HTTP server until interrupted, then a graceful shutdown
 * BUSINESS:  Lets other systems request schedules over HTTP instead of the CLI
 * CHANGE:    Initial Go port of the daemon command's graceful start/stop flow,
 *            retargeted at the demonstration scheduling HTTP surface
 * RISK:      Low - demonstration surface only, no auth or production hardening
 */

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arlen-roster/dutyplanner/internal/config"
	"github.com/arlen-roster/dutyplanner/internal/httpapi"
)

var (
	serveListenAddr  string
	serveConfigPath  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduling engine as an HTTP server",
	Long: `serve exposes POST /schedule, accepting a worker roster and date range
and returning the resulting schedule as JSON. Every request builds its own
engine over its own roster, so concurrent requests never interfere.

  scheduler serve --listen localhost:8193`,
	RunE: runServeCommand,
}

func init() {
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", "", "address to listen on, defaults to the engine config's listen_addr")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "path to an engine config JSON file")
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadEngineConfig(serveConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	listenAddr := serveListenAddr
	if listenAddr == "" {
		listenAddr = cfg.Server.ListenAddr
	}

	api := httpapi.New(cfg.WeeklyLimit, cfg.MaxSameTaskType, cfg.ScoringConfigPath)

	httpServer := &http.Server{
		Addr:         listenAddr,
		Handler:      api.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	headerColor.Printf("Starting scheduler HTTP server\n")
	infoColor.Printf("Listening on %s\n", listenAddr)

	serverErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-sigCh:
		warningColor.Println("Shutting down...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	successColor.Println("Server stopped cleanly.")
	return nil
}
