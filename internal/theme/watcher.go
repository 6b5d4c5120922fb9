package theme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileSource mirrors the system appearance from a file containing "light" or
// "dark" into an Appearance.
type FileSource struct {
	path       string
	appearance *Appearance
	logger     *slog.Logger
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string, appearance *Appearance, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileSource{path: path, appearance: appearance, logger: logger}
}

// ReadScheme reads the scheme stored at path.
func ReadScheme(path string) (Scheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return ParseScheme(string(data))
}

// WriteScheme stores scheme at path, creating parent directories.
func WriteScheme(path string, scheme Scheme) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create appearance directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(string(scheme)+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write appearance file: %w", err)
	}
	return nil
}

// Sync reads the file once and applies it. A missing file is not an error.
func (f *FileSource) Sync() error {
	scheme, err := ReadScheme(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	f.appearance.Set(scheme)
	return nil
}

// Run watches the file and applies its contents, once at start and on every
// change, until ctx is done.
// The parent directory is watched so editors that replace the file are seen.
func (f *FileSource) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create appearance watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create appearance directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if err := f.Sync(); err != nil {
		f.logger.Warn("failed to read appearance file", slog.String("path", f.path), slog.String("error", err.Error()))
	}

	target := filepath.Clean(f.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := f.Sync(); err != nil {
				f.logger.Warn("ignoring invalid appearance file", slog.String("path", f.path), slog.String("error", err.Error()))
				continue
			}
			f.logger.Info("system appearance changed", slog.String("scheme", string(f.appearance.Get())))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("appearance watcher error", slog.String("error", err.Error()))
		}
	}
}
