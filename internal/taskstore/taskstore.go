// Package taskstore owns the in-memory task list, applies create/toggle/delete
// commands to it, and keeps the persistence backend in sync.
//
// Every command builds a new list and swaps it in whole; a list handed out by
// Snapshot or a subscription is never modified afterwards. Writes to the
// backend happen on a background goroutine and never block or roll back a
// command: the in-memory list is the source of truth for the session.
package taskstore

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"mytodos/internal/metrics"
	"mytodos/internal/models"
	"mytodos/internal/store"
)

// Source identifies where the initial task list came from.
type Source string

const (
	SourceStorage Source = "storage"
	SourceSeed    Source = "seed"
)

// Store is the task list state owner.
type Store struct {
	kv      store.KV
	key     string
	seed    models.TaskList
	logger  *slog.Logger
	metrics *metrics.Metrics
	writer  *writer

	loadOnce sync.Once
	source   Source
	ready    chan struct{}

	mu      sync.Mutex
	tasks   models.TaskList
	loaded  bool
	subs    map[int]chan models.TaskList
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithKey overrides the storage key. The default is store.TaskListKey.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// New creates a Store backed by kv. seed is adopted at startup when kv holds no
// usable task list. The store is not ready until Start or Load has run.
func New(kv store.KV, seed models.TaskList, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    store.TaskListKey,
		seed:   seed.Clone(),
		logger: slog.New(slog.DiscardHandler),
		ready:  make(chan struct{}),
		tasks:  models.TaskList{},
		subs:   make(map[int]chan models.TaskList),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.writer = newWriter(kv, s.key, s.logger, s.metrics)
	return s
}

// Start runs the startup load in the background. Ready is closed when it finishes.
func (s *Store) Start(ctx context.Context) {
	go s.Load(ctx)
}

// Load reads the persisted task list, falling back to the seed list when the
// key is absent, unreadable, unparseable or empty. It only does work the first
// time it is called; later calls wait for that load and return its source.
func (s *Store) Load(ctx context.Context) Source {
	s.loadOnce.Do(func() {
		list, source := s.readInitial(ctx)

		s.mu.Lock()
		s.tasks = list.SortNewestFirst()
		s.loaded = true
		s.source = source
		s.metrics.SetTaskCount(len(s.tasks))
		s.publishLocked()
		s.mu.Unlock()

		s.metrics.ObserveLoad(string(source))
		s.logger.Info("task list loaded",
			slog.String("source", string(source)),
			slog.Int("tasks", len(list)),
		)
		close(s.ready)
	})
	<-s.ready
	return s.source
}

func (s *Store) readInitial(ctx context.Context) (models.TaskList, Source) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	switch {
	case err != nil:
		s.logger.Warn("failed to read persisted task list; using seed data",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
	case !ok:
		s.logger.Debug("no persisted task list; using seed data", slog.String("key", s.key))
	default:
		list, err := models.DecodeTaskList([]byte(raw))
		if err != nil {
			s.logger.Warn("failed to parse persisted task list; using seed data",
				slog.String("key", s.key),
				slog.String("error", err.Error()),
			)
			break
		}
		if len(list) == 0 {
			s.logger.Debug("persisted task list is empty; using seed data", slog.String("key", s.key))
			break
		}
		return list, SourceStorage
	}

	return s.seed.Clone(), SourceSeed
}

// Ready is closed once the startup load has completed.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// IsReady reports whether the startup load has completed.
func (s *Store) IsReady() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// Snapshot returns a copy of the current task list, newest first.
func (s *Store) Snapshot() models.TaskList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Clone()
}

// Create prepends a new, incomplete task with the trimmed title and an id one
// greater than the current maximum. It is a no-op returning false when the
// trimmed title is empty or the store is not ready.
func (s *Store) Create(title string) (models.Task, bool) {
	trimmed, ok := models.NormalizeTitle(title)
	if !ok {
		s.metrics.ObserveMutation("create", false)
		return models.Task{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.ignoreLocked("create")
		return models.Task{}, false
	}

	task := models.Task{ID: s.tasks.NextID(), Title: trimmed}
	next := make(models.TaskList, 0, len(s.tasks)+1)
	next = append(next, task)
	next = append(next, s.tasks...)

	s.commitLocked("create", next)
	return task, true
}

// ToggleCompleted flips the completed flag of the task with the given id.
// It is a no-op returning false when no task has that id.
func (s *Store) ToggleCompleted(id int64) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.ignoreLocked("toggle")
		return models.Task{}, false
	}

	i := s.tasks.Find(id)
	if i < 0 {
		s.metrics.ObserveMutation("toggle", false)
		return models.Task{}, false
	}

	next := s.tasks.Clone()
	next[i].Completed = !next[i].Completed

	s.commitLocked("toggle", next)
	return next[i], true
}

// Delete removes the task with the given id.
// It is a no-op returning false when no task has that id.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.ignoreLocked("delete")
		return false
	}

	i := s.tasks.Find(id)
	if i < 0 {
		s.metrics.ObserveMutation("delete", false)
		return false
	}

	next := make(models.TaskList, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)

	s.commitLocked("delete", next)
	return true
}

func (s *Store) ignoreLocked(op string) {
	s.metrics.ObserveMutation(op, false)
	s.logger.Debug("command ignored before task list was loaded", slog.String("op", op))
}

func (s *Store) commitLocked(op string, next models.TaskList) {
	s.tasks = next
	s.metrics.ObserveMutation(op, true)
	s.metrics.SetTaskCount(len(next))
	s.publishLocked()
	s.writer.enqueue(next)
}

// Subscribe returns a channel that receives the new task list after every
// change. Only the latest list is kept for a slow reader. The returned
// function unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan models.TaskList, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan models.TaskList, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

func (s *Store) publishLocked() {
	for _, ch := range s.subs {
		// drop a stale, unread snapshot so the newest one always fits
		select {
		case <-ch:
		default:
		}
		ch <- s.tasks.Clone()
	}
}

// Flush waits until every change made before the call has been handed to the
// backend. Write failures are logged, not returned.
func (s *Store) Flush(ctx context.Context) error {
	return s.writer.flush(ctx)
}

// Close flushes pending writes and stops the background writer. It does not
// close the backend.
func (s *Store) Close(ctx context.Context) error {
	err := s.writer.close(ctx)
	if errors.Is(err, store.ErrClosed) {
		return nil
	}
	return err
}
