package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/playwave/tunequiz/internal/catalog"
	"github.com/playwave/tunequiz/internal/config"
	"github.com/playwave/tunequiz/internal/database"
	"github.com/playwave/tunequiz/internal/media"
	"github.com/playwave/tunequiz/internal/migrations"
	"github.com/playwave/tunequiz/internal/quiz"
	"github.com/playwave/tunequiz/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite catalog ---
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if err := catalog.Seed(ctx, logger, db); err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}
	songs, err := catalog.Load(ctx, db)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("catalog loaded", "songs", songs.Len(), "path", cfg.DBPath)

	// --- Media resolver ---
	if err := media.Install(ctx); err != nil {
		return fmt.Errorf("preparing yt-dlp: %w", err)
	}
	resolver := media.NewResolver(cfg.MediaTempDir, logger)

	// --- Gateway + quiz controller ---
	deps, chat, hub, err := server.NewDeps(db, logger, cfg.HostPassword, cfg.SongsPerGame)
	if err != nil {
		return fmt.Errorf("wiring gateway: %w", err)
	}

	sched := quiz.NewPlaybackScheduler(resolver, logger)
	ctrl := quiz.NewController(logger, songs, chat, hub, sched)
	deps.Controller = ctrl

	srv := server.New(cfg.HTTPAddr, logger, deps)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		ctrl.Shutdown(context.Background())
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
