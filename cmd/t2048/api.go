package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/platform/httpapi"
)

var flagHTTPAddr string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the 2048 HTTP API",
	Long: `Start an HTTP server exposing the board engine.

Every request carries its own board; the server keeps no games.

Endpoints:
  POST /api/v1/move       {grid, direction}  -> {grid, changed, score, can_move}
  POST /api/v1/spawn      {grid, seed?}      -> {grid, spawned, cell}
  POST /api/v1/can-move   {grid}             -> {can_move}
  POST /api/v1/score      {grid}             -> {score}
  POST /api/v1/render     {grid, width?}     -> image/png
  GET  /api/v1/scores/:board?limit=n         -> top finished games
  GET  /healthz

The theme and spawn odds are reloaded when the config file changes.

Examples:
  t2048 api
  t2048 api --addr :8080
  curl -s localhost:8048/api/v1/move -d '{"grid":[[2,2],[0,0]],"direction":"left"}'`,
	Args: cobra.NoArgs,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagHTTPAddr, "addr", "", "HTTP listen address (overrides config)")
}

func runAPI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagHTTPAddr != "" {
		cfg.HTTP.Address = flagHTTPAddr
	}

	logger := newLogger(os.Stderr, "t2048-api", cfg)

	opts := httpapi.Options{
		Address:    cfg.HTTP.Address,
		Spawn4Prob: cfg.Board.Spawn4Prob,
		Theme:      cfg.Theme,
		Logger:     logger,
	}
	if store := openStore(cfg, logger); store != nil {
		defer store.Close()
		opts.Store = store
	}
	server := httpapi.New(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if path := watchedConfigPath(); path != "" {
		go func() {
			if err := server.WatchConfig(ctx, path); err != nil {
				logger.Warn("config watch stopped", "error", err)
			}
		}()
	}

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// watchedConfigPath returns the config file to watch: --config if given,
// else the user config if it exists.
func watchedConfigPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	if path := config.UserConfigPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
