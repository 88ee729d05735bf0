// Package testutil provides testing utilities.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"ltask/internal/kv"
	"ltask/internal/persist"
	"ltask/internal/service"
	"ltask/internal/store"
)

// Epoch is the first timestamp handed out by Clock.
var Epoch = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// Clock returns a time source that advances one second per call.
func Clock() func() time.Time {
	at := Epoch
	return func() time.Time {
		now := at
		at = at.Add(time.Second)
		return now
	}
}

// IDs returns an id generator yielding task-0001, task-0002, ...
func IDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("task-%04d", n)
	}
}

// NewStore returns a store over an in-memory slot with deterministic ids and
// timestamps. The backing MemoryStore is returned for error injection.
func NewStore(t *testing.T) (*store.Store, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemoryStore()
	s := store.New(persist.NewSlot(mem, "", nil),
		store.WithClock(Clock()),
		store.WithIDGenerator(IDs()),
	)
	return s, mem
}

// Seed adds tasks with the given titles and completes those listed in done
// (0-based positions). It returns the created tasks.
func Seed(t *testing.T, s service.Service, titles []string, done ...int) []service.Task {
	t.Helper()
	var created []service.Task
	for _, title := range titles {
		task, ok := s.Add(title, "")
		if !ok {
			t.Fatalf("failed to seed task %q", title)
		}
		created = append(created, task)
	}
	for _, i := range done {
		s.ToggleCompletion(created[i].ID)
	}
	return created
}
