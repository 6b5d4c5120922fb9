package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"mytodos/internal/config"
	"mytodos/internal/metrics"
	"mytodos/internal/seed"
	"mytodos/internal/store"
	"mytodos/internal/taskstore"
)

// app is the wired set of collaborators shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	kv      store.KV
	metrics *metrics.Metrics
	tasks   *taskstore.Store
}

func newApp(configPath string, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := newLogger(logOut, cfg)

	seedList, err := seed.Load(cfg.SeedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed data: %w", err)
	}

	kv, err := store.Open(store.Options{
		Backend:   cfg.Backend,
		DBPath:    cfg.DBPath,
		BadgerDir: cfg.BadgerDir,
		Logger:    logger.With(slog.String("component", "badger")),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	m := metrics.New()
	tasks := taskstore.New(kv, seedList,
		taskstore.WithLogger(logger.With(slog.String("component", "taskstore"))),
		taskstore.WithMetrics(m),
	)

	return &app{cfg: cfg, logger: logger, kv: kv, metrics: m, tasks: tasks}, nil
}

// close flushes pending writes and closes the backend.
func (a *app) close(ctx context.Context) error {
	flushErr := a.tasks.Close(ctx)
	if flushErr != nil {
		flushErr = fmt.Errorf("failed to flush task list: %w", flushErr)
	}
	return errors.Join(flushErr, a.kv.Close())
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
