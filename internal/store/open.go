package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Options selects and configures a persistence backend.
type Options struct {
	Backend   string
	DBPath    string
	BadgerDir string
	Logger    *slog.Logger
}

// Open creates the backend named by opts.Backend.
func Open(opts Options) (KV, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		if opts.DBPath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(opts.DBPath), 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		return NewSQLiteStore(opts.DBPath)
	case BackendBadger:
		return NewBadgerStore(BadgerConfig{
			Dir:        opts.BadgerDir,
			SyncWrites: true,
			GCInterval: 5 * time.Minute,
			Logger:     opts.Logger,
		})
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}
}
