package taskstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mytodos/internal/metrics"
	"mytodos/internal/models"
	"mytodos/internal/store"
)

var testSeed = models.TaskList{
	{ID: 1, Title: "Seed one"},
	{ID: 3, Title: "Seed three", Completed: true},
	{ID: 2, Title: "Seed two"},
}

func newLoadedStore(t *testing.T, kv store.KV, seed models.TaskList) *Store {
	t.Helper()
	s := New(kv, seed)
	s.Load(context.Background())
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func persisted(t *testing.T, kv store.KV) models.TaskList {
	t.Helper()
	raw, ok, err := kv.Get(context.Background(), store.TaskListKey)
	require.NoError(t, err)
	require.True(t, ok, "expected a persisted task list")
	list, err := models.DecodeTaskList([]byte(raw))
	require.NoError(t, err)
	return list
}

func TestLoad_FallsBackToSeedWhenAbsent(t *testing.T) {
	s := newLoadedStore(t, store.NewMemoryStore(), testSeed)

	assert.True(t, s.IsReady())
	got := s.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, []int64{3, 2, 1}, ids(got))
}

func TestLoad_UsesPersistedList(t *testing.T) {
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(context.Background(), store.TaskListKey,
		`[{"id":4,"title":"old","completed":true},{"id":9,"title":"new","completed":false}]`))

	s := New(kv, testSeed)
	source := s.Load(context.Background())
	defer s.Close(context.Background())

	assert.Equal(t, SourceStorage, source)
	assert.Equal(t, models.TaskList{
		{ID: 9, Title: "new"},
		{ID: 4, Title: "old", Completed: true},
	}, s.Snapshot())
}

func TestLoad_FallbackCases(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		getErr error
	}{
		{name: "corrupt json", value: `[{"id":`},
		{name: "schema violation", value: `[{"id":"x","title":"a","completed":false}]`},
		{name: "empty list", value: `[]`},
		{name: "read failure", getErr: errors.New("disk unreadable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := store.NewMemoryStore()
			if tt.value != "" {
				require.NoError(t, kv.Set(context.Background(), store.TaskListKey, tt.value))
			}
			kv.SetFailure(tt.getErr, nil)

			s := New(kv, testSeed)
			defer s.Close(context.Background())

			var source Source
			require.NotPanics(t, func() { source = s.Load(context.Background()) })
			assert.Equal(t, SourceSeed, source)
			assert.Equal(t, testSeed.SortNewestFirst(), s.Snapshot())
		})
	}
}

func TestStart_SignalsReady(t *testing.T) {
	s := New(store.NewMemoryStore(), testSeed)
	defer s.Close(context.Background())

	s.Start(context.Background())

	select {
	case <-s.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("store never became ready")
	}
	assert.True(t, s.IsReady())
	assert.Len(t, s.Snapshot(), 3)
}

func TestCommandsBeforeReadyAreIgnored(t *testing.T) {
	s := New(store.NewMemoryStore(), testSeed)
	defer s.Close(context.Background())

	assert.False(t, s.IsReady())
	_, ok := s.Create("too early")
	assert.False(t, ok)
	_, ok = s.ToggleCompleted(1)
	assert.False(t, ok)
	assert.False(t, s.Delete(1))
	assert.Empty(t, s.Snapshot())
}

func TestCreate_OnEmptyList(t *testing.T) {
	s := newLoadedStore(t, store.NewMemoryStore(), nil)

	task, ok := s.Create("Buy milk")

	require.True(t, ok)
	assert.Equal(t, models.Task{ID: 1, Title: "Buy milk", Completed: false}, task)
	assert.Equal(t, models.TaskList{{ID: 1, Title: "Buy milk"}}, s.Snapshot())
}

func TestCreate_PrependsWithNextID(t *testing.T) {
	s := newLoadedStore(t, store.NewMemoryStore(), models.TaskList{
		{ID: 2, Title: "b"},
		{ID: 1, Title: "a"},
	})

	task, ok := s.Create("New")

	require.True(t, ok)
	assert.Equal(t, int64(3), task.ID)
	got := s.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, task, got[0])
	assert.Equal(t, models.TaskList{{ID: 2, Title: "b"}, {ID: 1, Title: "a"}}, got[1:])
}

func TestCreate_TrimsTitle(t *testing.T) {
	s := newLoadedStore(t, store.NewMemoryStore(), nil)

	task, ok := s.Create("   Walk the dog \t")

	require.True(t, ok)
	assert.Equal(t, "Walk the dog", task.Title)
}

func TestCreate_EmptyTitleIsNoop(t *testing.T) {
	kv := store.NewMemoryStore()
	s := newLoadedStore(t, kv, testSeed)
	before := s.Snapshot()

	for _, title := range []string{"", "   ", "\n\t"} {
		_, ok := s.Create(title)
		assert.False(t, ok, "title %q", title)
	}

	assert.Equal(t, before, s.Snapshot())
	require.NoError(t, s.Flush(context.Background()))
	_, ok, err := kv.Get(context.Background(), store.TaskListKey)
	require.NoError(t, err)
	assert.False(t, ok, "no-op must not write")
}

func TestCreate_UsesMaxIDNotFirstElement(t *testing.T) {
	kv := store.NewMemoryStore()
	s := newLoadedStore(t, kv, models.TaskList{{ID: 5, Title: "five"}, {ID: 2, Title: "two"}})

	require.True(t, s.Delete(5))
	task, ok := s.Create("after delete")

	require.True(t, ok)
	assert.Equal(t, int64(3), task.ID)
}

func TestToggleCompleted(t *testing.T) {
	s := newLoadedStore(t, store.NewMemoryStore(), models.TaskList{{ID: 1, Title: "X"}})

	task, ok := s.ToggleCompleted(1)

	require.True(t, ok)
	assert.True(t, task.Completed)
	assert.Equal(t, models.TaskList{{ID: 1, Title: "X", Completed: true}}, s.Snapshot())
}

func TestToggleCompleted_TwiceRestores(t *testing.T) {
	s := newLoadedStore(t, store.NewMemoryStore(), testSeed)
	before := s.Snapshot()

	_, ok := s.ToggleCompleted(2)
	require.True(t, ok)
	mid := s.Snapshot()
	for i := range mid {
		if mid[i].ID == 2 {
			assert.NotEqual(t, before[i].Completed, mid[i].Completed)
		} else {
			assert.Equal(t, before[i], mid[i])
		}
	}

	_, ok = s.ToggleCompleted(2)
	require.True(t, ok)
	assert.Equal(t, before, s.Snapshot())
}

func TestToggleCompleted_UnknownIDIsNoop(t *testing.T) {
	s := newLoadedStore(t, store.NewMemoryStore(), testSeed)
	before := s.Snapshot()

	_, ok := s.ToggleCompleted(42)

	assert.False(t, ok)
	assert.Equal(t, before, s.Snapshot())
}

func TestDelete(t *testing.T) {
	s := newLoadedStore(t, store.NewMemoryStore(), models.TaskList{{ID: 1, Title: "only"}})

	require.True(t, s.Delete(1))
	assert.Empty(t, s.Snapshot())
}

func TestDelete_RemovesExactlyOne(t *testing.T) {
	s := newLoadedStore(t, store.NewMemoryStore(), testSeed)

	require.True(t, s.Delete(2))

	assert.Equal(t, []int64{3, 1}, ids(s.Snapshot()))
}

func TestDelete_UnknownIDIsNoop(t *testing.T) {
	s := newLoadedStore(t, store.NewMemoryStore(), testSeed)
	before := s.Snapshot()

	assert.False(t, s.Delete(99))
	assert.Equal(t, before, s.Snapshot())
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := newLoadedStore(t, store.NewMemoryStore(), testSeed)

	snap := s.Snapshot()
	snap[0].Title = "mutated by caller"

	assert.NotEqual(t, "mutated by caller", s.Snapshot()[0].Title)
}

func TestSeedIsCopied(t *testing.T) {
	seed := models.TaskList{{ID: 1, Title: "a"}}
	s := newLoadedStore(t, store.NewMemoryStore(), seed)

	_, ok := s.ToggleCompleted(1)
	require.True(t, ok)
	assert.False(t, seed[0].Completed)
}

func TestMutationsArePersisted(t *testing.T) {
	kv := store.NewMemoryStore()
	s := newLoadedStore(t, kv, nil)
	ctx := context.Background()

	s.Create("one")
	s.Create("two")
	s.ToggleCompleted(1)
	require.NoError(t, s.Flush(ctx))
	assert.Equal(t, s.Snapshot(), persisted(t, kv))

	s.Delete(2)
	require.NoError(t, s.Flush(ctx))
	assert.Equal(t, models.TaskList{{ID: 1, Title: "one", Completed: true}}, persisted(t, kv))
}

func TestRestartRoundTrip(t *testing.T) {
	kv := store.NewMemoryStore()
	ctx := context.Background()

	first := New(kv, testSeed)
	first.Load(ctx)
	first.Create("added")
	first.ToggleCompleted(1)
	first.Delete(3)
	require.NoError(t, first.Close(ctx))
	want := first.Snapshot()

	second := New(kv, nil)
	defer second.Close(ctx)

	assert.Equal(t, SourceStorage, second.Load(ctx))
	assert.ElementsMatch(t, want, second.Snapshot())
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	kv := store.NewMemoryStore()
	kv.SetFailure(nil, errors.New("disk full"))
	m := metrics.New()
	s := New(kv, nil, WithMetrics(m))
	s.Load(context.Background())
	defer s.Close(context.Background())

	task, ok := s.Create("still here")
	require.True(t, ok)
	require.NoError(t, s.Flush(context.Background()))

	assert.Equal(t, models.TaskList{task}, s.Snapshot())

	// a later successful write catches the backend up
	kv.SetFailure(nil, nil)
	s.Create("second")
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, s.Snapshot(), persisted(t, kv))
}

func TestWritesAreSequencedAndConverge(t *testing.T) {
	kv := store.NewMemoryStore()
	var (
		mu     sync.Mutex
		writes []int
	)
	kv.OnSet = func(key, value string) {
		list, err := models.DecodeTaskList([]byte(value))
		if err != nil {
			return
		}
		mu.Lock()
		writes = append(writes, len(list))
		mu.Unlock()
		time.Sleep(time.Millisecond)
	}

	s := newLoadedStore(t, kv, nil)
	for i := 0; i < 50; i++ {
		s.Create("task")
	}
	require.NoError(t, s.Flush(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, writes)
	for i := 1; i < len(writes); i++ {
		assert.Greater(t, writes[i], writes[i-1], "writes must land in issue order")
	}
	assert.Equal(t, 50, writes[len(writes)-1])
	assert.Len(t, persisted(t, kv), 50)
}

func TestSubscribe(t *testing.T) {
	s := newLoadedStore(t, store.NewMemoryStore(), nil)

	updates, unsubscribe := s.Subscribe()
	s.Create("a")
	s.Create("b")

	// only the newest snapshot is retained for a slow reader
	got := <-updates
	assert.Equal(t, []int64{2, 1}, ids(got))

	unsubscribe()
	unsubscribe()
	_, open := <-updates
	assert.False(t, open)

	assert.NotPanics(t, func() { s.Create("c") })
}

func TestClose_FlushesAndStopsWriting(t *testing.T) {
	kv := store.NewMemoryStore()
	s := New(kv, nil)
	ctx := context.Background()
	s.Load(ctx)

	s.Create("last")
	require.NoError(t, s.Close(ctx))
	assert.Len(t, persisted(t, kv), 1)

	// commands still update memory after close but are no longer written
	s.Create("unsaved")
	assert.Len(t, s.Snapshot(), 2)
	assert.Len(t, persisted(t, kv), 1)
	assert.NoError(t, s.Close(ctx))
}

func TestFlush_RespectsContext(t *testing.T) {
	kv := store.NewMemoryStore()
	block := make(chan struct{})
	kv.OnSet = func(string, string) { <-block }
	s := newLoadedStore(t, kv, nil)
	defer close(block)

	s.Create("slow")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, s.Flush(ctx), context.DeadlineExceeded)
}

func ids(list models.TaskList) []int64 {
	out := make([]int64, 0, len(list))
	for _, t := range list {
		out = append(out, t.ID)
	}
	return out
}
