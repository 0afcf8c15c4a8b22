package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/DirtdiverIV/SuperHero/internal/heroserver"
	"github.com/spf13/cobra"
)

const shutdownGrace = 6 * time.Second

// serveCmd starts the bundled dev collection server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dev collection server",
	Long: `Start the SQLite-backed dev collection server.

The server exposes the hero collection API the store talks to:
  GET/POST /heroes and GET/PATCH/DELETE /heroes/{id}

With --seed an empty collection is populated with a set of well-known
heroes. The server runs until interrupted (Ctrl+C) or SIGTERM.

Example:
  superhero serve --seed
  superhero serve -c config.yaml
  superhero serve --port 8080 --db heroes.db`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().String("db", "", "SQLite database path (overrides config, \":memory:\" for ephemeral)")
	serveCmd.Flags().Bool("seed", false, "seed an empty collection with sample heroes")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Server.DB = db
	}
	if seed, _ := cmd.Flags().GetBool("seed"); seed {
		cfg.Server.Seed = true
	}

	repo, err := heroserver.OpenRepository(cfg.Server.DB)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	// cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Seed {
		if err := repo.Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	srv := heroserver.NewServer(repo, cfg.Server.Port, logger)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	logger.Info("collection server listening",
		"addr", srv.Addr(),
		"db", cfg.Server.DB,
		"seeded", cfg.Server.Seed,
	)

	<-ctx.Done()

	// wait for graceful shutdown, but never hang past its drain window
	waited := make(chan struct{})
	go func() {
		srv.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		logger.Info("shutdown complete")
	case <-time.After(shutdownGrace):
		logger.Warn("shutdown timed out", "timeout", shutdownGrace.String())
	}
	return nil
}
