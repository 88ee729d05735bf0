package store_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"ltask/internal/service"
	"ltask/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakePersister records saves and can fail on demand.
type fakePersister struct {
	items    []service.Task
	saveErr  error
	saveCall int
	loadCall int
}

func (f *fakePersister) Load() []service.Task {
	f.loadCall++
	cp := make([]service.Task, len(f.items))
	copy(cp, f.items)
	return cp
}

func (f *fakePersister) Save(items []service.Task) error {
	f.saveCall++
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := make([]service.Task, len(items))
	copy(cp, items)
	f.items = cp
	return nil
}

// fixedClock returns the same instant on every call.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// seqIDs yields id-1, id-2, ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newStore(t *testing.T, initial []service.Task, opts ...store.Option) (*store.Store, *fakePersister) {
	t.Helper()
	fp := &fakePersister{items: initial}
	opts = append([]store.Option{store.WithIDGenerator(seqIDs())}, opts...)
	return store.New(fp, opts...), fp
}

func ptr[T any](v T) *T { return &v }

func TestNew_LoadsOnce(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	initial := []service.Task{
		{ID: "a", Title: "A", CreatedAt: now, UpdatedAt: now},
		{ID: "b", Title: "B", Completed: true, CreatedAt: now, UpdatedAt: now},
	}
	s, fp := newStore(t, initial)

	if fp.loadCall != 1 {
		t.Fatalf("expected 1 load, got %d", fp.loadCall)
	}
	if fp.saveCall != 0 {
		t.Fatalf("expected no saves on startup, got %d", fp.saveCall)
	}
	if diff := cmp.Diff(initial, s.All()); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
	if s.Filter() != service.FilterAll {
		t.Errorf("expected filter %q, got %q", service.FilterAll, s.Filter())
	}
}

func TestAdd(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s, fp := newStore(t, nil, store.WithClock(fixedClock(now)))

	got, ok := s.Add("  Buy milk  ", "  2 liters ")
	if !ok {
		t.Fatal("expected task to be added")
	}
	want := service.Task{
		ID:          "id-1",
		Title:       "Buy milk",
		Description: "2 liters",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Add() mismatch (-want +got):\n%s", diff)
	}
	if s.Stats().Total != 1 {
		t.Errorf("expected total 1, got %d", s.Stats().Total)
	}
	if fp.saveCall != 1 {
		t.Errorf("expected 1 save, got %d", fp.saveCall)
	}
	if diff := cmp.Diff([]service.Task{want}, fp.items); diff != "" {
		t.Errorf("persisted mismatch (-want +got):\n%s", diff)
	}
}

func TestAdd_BlankDescriptionOmitted(t *testing.T) {
	s, _ := newStore(t, nil)
	got, ok := s.Add("Title", "   ")
	if !ok {
		t.Fatal("expected task to be added")
	}
	if got.Description != "" {
		t.Errorf("expected empty description, got %q", got.Description)
	}
	if got.Completed {
		t.Error("new task should not be completed")
	}
	if !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Errorf("expected CreatedAt == UpdatedAt, got %v and %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestAdd_EmptyTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		s, fp := newStore(t, nil)
		if _, ok := s.Add(title, "desc"); ok {
			t.Errorf("Add(%q) should be rejected", title)
		}
		if n := len(s.All()); n != 0 {
			t.Errorf("Add(%q): expected empty collection, got %d", title, n)
		}
		if fp.saveCall != 0 {
			t.Errorf("Add(%q): expected no saves, got %d", title, fp.saveCall)
		}
	}
}

func TestAdd_PreservesOrder(t *testing.T) {
	s, _ := newStore(t, nil)
	for _, title := range []string{"one", "two", "three"} {
		s.Add(title, "")
	}
	var titles []string
	for _, tk := range s.All() {
		titles = append(titles, tk.Title)
	}
	if diff := cmp.Diff([]string{"one", "two", "three"}, titles); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdate(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	later := created.Add(time.Minute)
	clock := created
	s, fp := newStore(t, nil, store.WithClock(func() time.Time { return clock }))

	tk, _ := s.Add("A", "x")
	clock = later

	if !s.Update(tk.ID, service.Fields{Title: ptr(" B "), Description: ptr("")}) {
		t.Fatal("expected update to apply")
	}
	got, _ := s.Get(tk.ID)
	want := service.Task{ID: tk.ID, Title: "B", CreatedAt: created, UpdatedAt: later}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Update() mismatch (-want +got):\n%s", diff)
	}
	if fp.saveCall != 2 {
		t.Errorf("expected 2 saves, got %d", fp.saveCall)
	}
}

func TestUpdate_AlwaysRefreshesUpdatedAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s, _ := newStore(t, nil, store.WithClock(fixedClock(now)))
	tk, _ := s.Add("A", "")

	s.Update(tk.ID, service.Fields{})
	got, _ := s.Get(tk.ID)
	if !got.UpdatedAt.After(tk.UpdatedAt) {
		t.Errorf("expected UpdatedAt to advance past %v, got %v", tk.UpdatedAt, got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(tk.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", tk.CreatedAt, got.CreatedAt)
	}
}

func TestUpdate_EmptyTitleRejected(t *testing.T) {
	s, fp := newStore(t, nil)
	tk, _ := s.Add("A", "desc")
	before := s.All()

	if s.Update(tk.ID, service.Fields{Title: ptr("  "), Description: ptr("other")}) {
		t.Error("expected update with blank title to be rejected")
	}
	if diff := cmp.Diff(before, s.All()); diff != "" {
		t.Errorf("collection changed (-before +after):\n%s", diff)
	}
	if fp.saveCall != 1 {
		t.Errorf("expected 1 save, got %d", fp.saveCall)
	}
}

func TestUpdate_UnknownID(t *testing.T) {
	s, fp := newStore(t, nil)
	s.Add("A", "")
	before := s.All()

	if s.Update("missing", service.Fields{Title: ptr("x")}) {
		t.Error("expected no match for unknown id")
	}
	if diff := cmp.Diff(before, s.All()); diff != "" {
		t.Errorf("collection changed (-before +after):\n%s", diff)
	}
	if fp.saveCall != 1 {
		t.Errorf("expected 1 save, got %d", fp.saveCall)
	}
}

func TestUpdate_Completed(t *testing.T) {
	s, _ := newStore(t, nil)
	tk, _ := s.Add("A", "")
	s.Update(tk.ID, service.Fields{Completed: ptr(true)})
	got, _ := s.Get(tk.ID)
	if !got.Completed {
		t.Error("expected task to be completed")
	}
}

func TestDelete(t *testing.T) {
	s, fp := newStore(t, nil)
	a, _ := s.Add("A", "")
	b, _ := s.Add("B", "")
	c, _ := s.Add("C", "")

	if !s.Delete(b.ID) {
		t.Fatal("expected delete to apply")
	}
	var ids []string
	for _, tk := range s.All() {
		ids = append(ids, tk.ID)
	}
	if diff := cmp.Diff([]string{a.ID, c.ID}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if fp.saveCall != 4 {
		t.Errorf("expected 4 saves, got %d", fp.saveCall)
	}

	if s.Delete(b.ID) {
		t.Error("second delete should not match")
	}
	if fp.saveCall != 4 {
		t.Errorf("no-op delete should not save, got %d saves", fp.saveCall)
	}
}

func TestToggleCompletion_Twice(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s, _ := newStore(t, nil, store.WithClock(fixedClock(now)))
	tk, _ := s.Add("A", "")

	s.ToggleCompletion(tk.ID)
	first, _ := s.Get(tk.ID)
	if !first.Completed {
		t.Fatal("expected completed after first toggle")
	}
	if !first.UpdatedAt.After(tk.UpdatedAt) {
		t.Errorf("UpdatedAt did not increase: %v -> %v", tk.UpdatedAt, first.UpdatedAt)
	}

	s.ToggleCompletion(tk.ID)
	second, _ := s.Get(tk.ID)
	if second.Completed != tk.Completed {
		t.Errorf("expected completed=%v after two toggles, got %v", tk.Completed, second.Completed)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("UpdatedAt did not increase: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}
}

func TestToggleCompletion_UnknownID(t *testing.T) {
	s, fp := newStore(t, nil)
	if s.ToggleCompletion("missing") {
		t.Error("expected no match")
	}
	if fp.saveCall != 0 {
		t.Errorf("expected no saves, got %d", fp.saveCall)
	}
}

func TestClearCompleted_Idempotent(t *testing.T) {
	s, fp := newStore(t, nil)
	a, _ := s.Add("A", "")
	b, _ := s.Add("B", "")
	c, _ := s.Add("C", "")
	s.ToggleCompletion(a.ID)
	s.ToggleCompletion(c.ID)

	if n := s.ClearCompleted(); n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}
	once := s.All()
	saves := fp.saveCall

	if n := s.ClearCompleted(); n != 0 {
		t.Errorf("expected 0 removed on second call, got %d", n)
	}
	if diff := cmp.Diff(once, s.All()); diff != "" {
		t.Errorf("second clear changed the collection (-once +twice):\n%s", diff)
	}
	if fp.saveCall != saves {
		t.Errorf("second clear should not save, got %d saves", fp.saveCall)
	}
	if len(once) != 1 || once[0].ID != b.ID {
		t.Errorf("expected only %s to remain, got %+v", b.ID, once)
	}
}

func TestFilteredView(t *testing.T) {
	s, _ := newStore(t, nil)
	a, _ := s.Add("A", "")
	b, _ := s.Add("B", "")
	c, _ := s.Add("C", "")
	d, _ := s.Add("D", "")
	s.ToggleCompletion(b.ID)
	s.ToggleCompletion(d.ID)

	tests := []struct {
		filter service.Filter
		want   []string
	}{
		{service.FilterAll, []string{a.ID, b.ID, c.ID, d.ID}},
		{service.FilterActive, []string{a.ID, c.ID}},
		{service.FilterCompleted, []string{b.ID, d.ID}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			s.SetFilter(tt.filter)
			var ids []string
			for _, tk := range s.FilteredView() {
				ids = append(ids, tk.ID)
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("FilteredView() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetFilter_NoPersistence(t *testing.T) {
	s, fp := newStore(t, nil)
	s.SetFilter(service.FilterCompleted)
	s.SetFilter(service.Filter("bogus"))

	if s.Filter() != service.FilterCompleted {
		t.Errorf("expected %q, got %q", service.FilterCompleted, s.Filter())
	}
	if fp.saveCall != 0 {
		t.Errorf("expected no saves, got %d", fp.saveCall)
	}
}

func TestStats_Invariant(t *testing.T) {
	s, _ := newStore(t, nil)
	check := func() {
		t.Helper()
		st := s.Stats()
		if st.Active+st.Completed != st.Total {
			t.Fatalf("active+completed != total: %+v", st)
		}
	}
	check()
	var ids []string
	for i := 0; i < 5; i++ {
		tk, _ := s.Add(fmt.Sprintf("task %d", i), "")
		ids = append(ids, tk.ID)
		check()
	}
	s.ToggleCompletion(ids[1])
	check()
	s.ToggleCompletion(ids[3])
	check()
	s.Delete(ids[0])
	check()
	s.ClearCompleted()
	check()
	if got := s.Stats(); got != (service.Stats{Total: 2, Active: 2}) {
		t.Errorf("unexpected stats: %+v", got)
	}
}

func TestScenario_BuyMilk(t *testing.T) {
	s, _ := newStore(t, nil)

	tk, ok := s.Add("Buy milk", "")
	if !ok {
		t.Fatal("expected add to succeed")
	}
	if got, want := s.Stats(), (service.Stats{Total: 1, Active: 1}); got != want {
		t.Errorf("after add: expected %+v, got %+v", want, got)
	}

	s.ToggleCompletion(tk.ID)
	if got, want := s.Stats(), (service.Stats{Total: 1, Completed: 1}); got != want {
		t.Errorf("after toggle: expected %+v, got %+v", want, got)
	}

	s.ClearCompleted()
	if got, want := s.Stats(), (service.Stats{}); got != want {
		t.Errorf("after clear: expected %+v, got %+v", want, got)
	}
}

func TestSaveError_RecordedNotRaised(t *testing.T) {
	s, fp := newStore(t, nil)
	fp.saveErr = errors.New("disk full")

	tk, ok := s.Add("A", "")
	if !ok {
		t.Fatal("add should still apply in memory")
	}
	if _, found := s.Get(tk.ID); !found {
		t.Error("task should be present after failed save")
	}
	if !errors.Is(s.Err(), fp.saveErr) {
		t.Errorf("expected Err() to report %v, got %v", fp.saveErr, s.Err())
	}

	fp.saveErr = nil
	s.ToggleCompletion(tk.ID)
	if s.Err() != nil {
		t.Errorf("expected Err() to clear after a good save, got %v", s.Err())
	}
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	s, _ := newStore(t, nil)
	s.Add("A", "")

	all := s.All()
	all[0].Title = "mutated"
	view := s.FilteredView()
	view[0].Completed = true

	got := s.All()[0]
	if got.Title != "A" || got.Completed {
		t.Errorf("store state leaked through returned slices: %+v", got)
	}
}
