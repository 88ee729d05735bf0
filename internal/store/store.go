// Package store implements the in-memory task store that backs service.Service.
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ltask/internal/service"
)

// Persister loads and saves the whole task collection.
// Load never fails; unreadable data yields an empty collection.
type Persister interface {
	Load() []service.Task
	Save(tasks []service.Task) error
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the function used to assign task ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger used to report persistence failures.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// Store owns the task collection and the active filter.
type Store struct {
	mu      sync.RWMutex
	p       Persister
	tasks   []service.Task
	filter  service.Filter
	saveErr error

	now   func() time.Time
	newID func() string
	log   *zap.Logger
}

var _ service.Service = (*Store)(nil)

// New creates a store and loads the collection from p.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		p:      p,
		filter: service.FilterAll,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = p.Load()
	if s.tasks == nil {
		s.tasks = []service.Task{}
	}
	s.log.Debug("store loaded", zap.Int("tasks", len(s.tasks)))
	return s
}

// Add implements service.Service.
func (s *Store) Add(title, description string) (service.Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return service.Task{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t := service.Task{
		ID:          s.newID(),
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks = append(s.tasks, t)
	s.persist()
	return t, true
}

// Update implements service.Service.
func (s *Store) Update(id string, fields service.Fields) bool {
	var title string
	if fields.Title != nil {
		title = strings.TrimSpace(*fields.Title)
		if title == "" {
			return false
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return false
	}
	t := &s.tasks[i]
	if fields.Title != nil {
		t.Title = title
	}
	if fields.Description != nil {
		t.Description = strings.TrimSpace(*fields.Description)
	}
	if fields.Completed != nil {
		t.Completed = *fields.Completed
	}
	s.touch(t)
	s.persist()
	return true
}

// Delete implements service.Service.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.persist()
	return true
}

// ToggleCompletion implements service.Service.
func (s *Store) ToggleCompletion(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return false
	}
	t := &s.tasks[i]
	t.Completed = !t.Completed
	s.touch(t)
	s.persist()
	return true
}

// ClearCompleted implements service.Service.
func (s *Store) ClearCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]service.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	if removed == 0 {
		return 0
	}
	s.tasks = kept
	s.persist()
	return removed
}

// SetFilter implements service.Service.
func (s *Store) SetFilter(f service.Filter) {
	if !f.Valid() {
		return
	}
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

// Filter implements service.Service.
func (s *Store) Filter() service.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// FilteredView implements service.Service.
func (s *Store) FilteredView() []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]service.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if s.filter.Match(t) {
			result = append(result, t)
		}
	}
	return result
}

// All implements service.Service.
func (s *Store) All() []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]service.Task, len(s.tasks))
	copy(result, s.tasks)
	return result
}

// Get implements service.Service.
func (s *Store) Get(id string) (service.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return service.Task{}, false
	}
	return s.tasks[i], true
}

// Stats implements service.Service.
func (s *Store) Stats() service.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := service.Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.Active = st.Total - st.Completed
	return st
}

// Err implements service.Service.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveErr
}

// index returns the position of id, or -1. Caller holds mu.
func (s *Store) index(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// touch refreshes UpdatedAt, keeping it strictly increasing even when the
// clock has not moved since the last stamp.
func (s *Store) touch(t *service.Task) {
	now := s.now()
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Nanosecond)
	}
	t.UpdatedAt = now
}

// persist writes the full collection. Caller holds mu.
func (s *Store) persist() {
	snapshot := make([]service.Task, len(s.tasks))
	copy(snapshot, s.tasks)
	if err := s.p.Save(snapshot); err != nil {
		s.log.Error("save tasks", zap.Int("tasks", len(snapshot)), zap.Error(err))
		s.saveErr = err
		return
	}
	s.saveErr = nil
}
