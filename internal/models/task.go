package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrEmptyTitle is returned when a task title is empty after trimming.
	ErrEmptyTitle = errors.New("title is required")

	// ErrInvalidID is returned when a task id is not a positive integer.
	ErrInvalidID = errors.New("id must be a positive integer")
)

// Task represents a single to-do entry.
type Task struct {
	ID        int64  `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// NormalizeTitle trims surrounding whitespace from a title.
// The second return value is false if nothing is left.
func NormalizeTitle(title string) (string, bool) {
	trimmed := strings.TrimSpace(title)
	return trimmed, trimmed != ""
}

// Validate checks that the task has valid field values.
func (t *Task) Validate() error {
	if t.ID < 1 {
		return ErrInvalidID
	}

	if _, ok := NormalizeTitle(t.Title); !ok {
		return ErrEmptyTitle
	}

	return nil
}

// TaskList is the ordered collection of all tasks, newest first.
type TaskList []Task

// NextID returns one greater than the largest id in the list, or 1 if the list is empty.
func (l TaskList) NextID() int64 {
	var highest int64
	for _, t := range l {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest + 1
}

// Find returns the index of the task with the given id, or -1.
func (l TaskList) Find(id int64) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy of the list that shares no backing array with l.
func (l TaskList) Clone() TaskList {
	if l == nil {
		return TaskList{}
	}
	out := make(TaskList, len(l))
	copy(out, l)
	return out
}

// SortNewestFirst returns a copy of the list sorted descending by id.
func (l TaskList) SortNewestFirst() TaskList {
	out := l.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ID > out[j].ID
	})
	return out
}

// Validate checks every task and that all ids are unique.
func (l TaskList) Validate() error {
	seen := make(map[int64]struct{}, len(l))
	for i := range l {
		if err := l[i].Validate(); err != nil {
			return fmt.Errorf("task %d: %w", l[i].ID, err)
		}
		if _, dup := seen[l[i].ID]; dup {
			return fmt.Errorf("duplicate task id: %d", l[i].ID)
		}
		seen[l[i].ID] = struct{}{}
	}
	return nil
}

// CompletedCount returns the number of completed tasks.
func (l TaskList) CompletedCount() int {
	n := 0
	for _, t := range l {
		if t.Completed {
			n++
		}
	}
	return n
}
