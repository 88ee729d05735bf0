// Package persist stores the task collection in a single named slot of a
// key-value store.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"ltask/internal/kv"
	"ltask/internal/service"
)

// DefaultSlot is the slot key used when none is configured.
const DefaultSlot = "taskManager_tasks"

// Record is the serialized form of a task. Timestamps are text and must be
// parsed back into time values on load.
type Record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Slot reads and writes the whole collection under one key.
type Slot struct {
	kv  kv.Store
	key string
	log *zap.Logger
}

// NewSlot binds a key of store. An empty key selects DefaultSlot.
func NewSlot(store kv.Store, key string, log *zap.Logger) *Slot {
	if key == "" {
		key = DefaultSlot
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Slot{kv: store, key: key, log: log.With(zap.String("slot", key))}
}

// Key returns the slot key.
func (s *Slot) Key() string { return s.key }

// Load returns the stored collection. A missing, unreadable or corrupt slot
// yields an empty collection; the failure is only logged.
func (s *Slot) Load() []service.Task {
	data, err := s.kv.Get(s.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Warn("read slot failed, starting empty", zap.Error(err))
		}
		return []service.Task{}
	}

	// Each element is decoded on its own so one malformed record does not
	// take the rest of the collection with it.
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.Warn("slot is not valid JSON, starting empty", zap.Error(err))
		return []service.Task{}
	}

	tasks := make([]service.Task, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, msg := range raw {
		var r Record
		if err := json.Unmarshal(msg, &r); err != nil {
			s.log.Warn("dropping record", zap.Int("index", i), zap.Error(err))
			continue
		}
		t, err := Decode(r)
		if err != nil {
			s.log.Warn("dropping record", zap.Int("index", i), zap.Error(err))
			continue
		}
		if seen[t.ID] {
			s.log.Warn("dropping duplicate record", zap.Int("index", i), zap.String("id", t.ID))
			continue
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	s.log.Debug("slot loaded", zap.Int("tasks", len(tasks)))
	return tasks
}

// Save serializes the whole collection and replaces the slot value.
func (s *Slot) Save(tasks []service.Task) error {
	data, err := Marshal(tasks)
	if err != nil {
		return err
	}
	if err := s.kv.Put(s.key, data); err != nil {
		return fmt.Errorf("write slot %s: %w", s.key, err)
	}
	return nil
}

// Marshal encodes tasks as a JSON array of records.
func Marshal(tasks []service.Task) ([]byte, error) {
	records := make([]Record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, Encode(t))
	}
	return json.MarshalIndent(records, "", "  ")
}

// Encode converts a task to its record.
func Encode(t service.Task) Record {
	return Record{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
}

// Decode converts a record back to a task, rejecting records that would
// break the collection's invariants.
func Decode(r Record) (service.Task, error) {
	if strings.TrimSpace(r.ID) == "" {
		return service.Task{}, errors.New("record: empty id")
	}
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return service.Task{}, fmt.Errorf("record %s: empty title", r.ID)
	}
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return service.Task{}, fmt.Errorf("record %s: createdAt: %w", r.ID, err)
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return service.Task{}, fmt.Errorf("record %s: updatedAt: %w", r.ID, err)
	}
	if updated.Before(created) {
		updated = created
	}
	return service.Task{
		ID:          r.ID,
		Title:       title,
		Description: strings.TrimSpace(r.Description),
		Completed:   r.Completed,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime accepts RFC 3339 with or without fractional seconds, which
// covers both our own output and ISO-8601 strings from browser storage.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
