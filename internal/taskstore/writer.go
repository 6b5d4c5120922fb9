package taskstore

import (
	"context"
	"log/slog"
	"sync"

	"mytodos/internal/metrics"
	"mytodos/internal/models"
	"mytodos/internal/store"
)

// writer persists task list snapshots from a single goroutine.
//
// It holds at most one pending snapshot: enqueueing while a write is in
// flight replaces whatever was waiting, so the backend only ever sees
// snapshots in the order they were produced and always ends on the latest.
type writer struct {
	kv      store.KV
	key     string
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu         sync.Mutex
	pending    models.TaskList
	hasPending bool
	enqueued   uint64 // sequence number of the newest enqueued snapshot
	written    uint64 // sequence number of the newest finished write
	progress   chan struct{}
	closed     bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func newWriter(kv store.KV, key string, logger *slog.Logger, m *metrics.Metrics) *writer {
	w := &writer{
		kv:       kv,
		key:      key,
		logger:   logger,
		metrics:  m,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

// enqueue schedules list to be written and returns immediately.
func (w *writer) enqueue(list models.TaskList) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn("task list changed after store was closed; not persisted")
		return
	}
	w.pending = list
	w.hasPending = true
	w.enqueued++
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.done)

	for {
		select {
		case <-w.stop:
			return
		case <-w.wake:
		}

		for {
			w.mu.Lock()
			if !w.hasPending {
				w.mu.Unlock()
				break
			}
			list, seq := w.pending, w.enqueued
			w.pending, w.hasPending = nil, false
			w.mu.Unlock()

			w.write(list)

			w.mu.Lock()
			w.written = seq
			close(w.progress)
			w.progress = make(chan struct{})
			w.mu.Unlock()
		}
	}
}

func (w *writer) write(list models.TaskList) {
	data, err := models.EncodeTaskList(list)
	if err == nil {
		err = w.kv.Set(context.Background(), w.key, string(data))
	}
	w.metrics.ObserveWrite(err)
	if err != nil {
		w.logger.Warn("failed to persist task list",
			slog.String("key", w.key),
			slog.Int("tasks", len(list)),
			slog.String("error", err.Error()),
		)
		return
	}
	w.logger.Debug("persisted task list", slog.String("key", w.key), slog.Int("tasks", len(list)))
}

// flush blocks until every snapshot enqueued before the call has been written
// or superseded by a later written snapshot.
func (w *writer) flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.enqueued
	w.mu.Unlock()

	for {
		w.mu.Lock()
		if w.written >= target {
			w.mu.Unlock()
			return nil
		}
		progress := w.progress
		w.mu.Unlock()

		select {
		case <-progress:
		case <-w.done:
			return store.ErrClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// close flushes outstanding writes and stops the writer goroutine.
func (w *writer) close(ctx context.Context) error {
	err := w.flush(ctx)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return err
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stop)
	<-w.done
	return err
}
