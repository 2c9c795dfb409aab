package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskman-go/internal/config"
	"github.com/nibzard/taskman-go/internal/logging"
	"github.com/nibzard/taskman-go/internal/repo"
	"github.com/nibzard/taskman-go/internal/store"
	"github.com/nibzard/taskman-go/internal/store/filekv"
	"github.com/nibzard/taskman-go/internal/store/sqlkv"
	"github.com/nibzard/taskman-go/internal/task"
)

// app wires configuration to a storage backend and an initialized repository.
type app struct {
	cfg        *config.Config
	logger     *log.Logger
	kv         store.KV
	adapter    *store.Adapter
	repo       *repo.Repository
	storeLabel string
	closers    []io.Closer
}

func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	logger, closer, err := logging.Open(cfg.LogFile, logOptions(cfg))
	if err != nil {
		// Logging must not block task management.
		fmt.Fprintf(stderr, "Warning: %v; logging disabled\n", err)
		logger = logging.Discard()
	} else {
		a.closers = append(a.closers, closer)
	}
	a.logger = logger

	kv, label, err := openKV(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.kv = kv
	a.storeLabel = label
	a.closers = append([]io.Closer{kv}, a.closers...)

	adapter, err := newAdapter(cfg, kv, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.adapter = adapter

	a.repo = repo.New(adapter, repo.WithLogger(logger))
	if err := a.repo.Initialize(ctx); err != nil {
		a.Close()
		return nil, err
	}
	logger.Debug("Opened task store", "backend", cfg.StoreBackend, "store", label, "tasks", a.repo.Len())
	return a, nil
}

// Close releases the backend and the log file.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func logOptions(cfg *config.Config) logging.Options {
	return logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
	}
}

// openKV opens the configured backend and returns a label for display.
func openKV(cfg *config.Config) (store.KV, string, error) {
	switch cfg.StoreBackend {
	case config.BackendFile:
		kv, err := filekv.Open(cfg.DataDir)
		if err != nil {
			return nil, "", fmt.Errorf("opening file store: %w", err)
		}
		return kv, "file:" + kv.Dir(), nil
	case config.BackendSQLite:
		kv, err := sqlkv.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, "", fmt.Errorf("opening sqlite store: %w", err)
		}
		return kv, "sqlite:" + cfg.SQLitePath, nil
	case config.BackendMySQL:
		kv, err := sqlkv.OpenMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, "", fmt.Errorf("opening mysql store: %w", err)
		}
		return kv, "mysql", nil
	default:
		return nil, "", fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

func newAdapter(cfg *config.Config, kv store.KV, logger *log.Logger) (*store.Adapter, error) {
	theme, err := store.ParseTheme(cfg.Theme)
	if err != nil {
		return nil, err
	}
	opts := []store.Option{
		store.WithLogger(logger),
		store.WithDefaultTheme(theme),
	}
	if cfg.SchemaFile != "" {
		schema, err := task.LoadSchema(cfg.SchemaFile)
		if err != nil {
			return nil, fmt.Errorf("loading schema: %w", err)
		}
		opts = append(opts, store.WithSchema(schema))
	}
	return store.NewAdapter(kv, opts...), nil
}

// withApp opens the app, runs fn, and closes the app.
func withApp(ctx context.Context, cfg *config.Config, fn func(a *app) error) (err error) {
	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}
