// Package service defines the task model and the interface the presentation
// layers use to drive the task store.
package service

// Service defines the operations the CLI and TUI perform on tasks.
// Commands and views never touch persistence directly.
type Service interface {
	// Add creates a task. Returns false, and changes nothing, if the
	// trimmed title is empty.
	Add(title, description string) (Task, bool)

	// Update applies the set fields to the task with the given id.
	// Returns false if no task matches or the new title is empty.
	Update(id string, fields Fields) bool

	// Delete removes a task. Returns false if no task matches.
	Delete(id string) bool

	// ToggleCompletion flips the completed flag. Returns false if no task matches.
	ToggleCompletion(id string) bool

	// ClearCompleted removes every completed task and returns how many were removed.
	ClearCompleted() int

	// SetFilter replaces the active filter. Invalid filters are ignored.
	SetFilter(f Filter)

	// Filter returns the active filter.
	Filter() Filter

	// FilteredView returns the tasks passing the active filter, in collection order.
	FilteredView() []Task

	// All returns every task in collection order.
	All() []Task

	// Get returns the task with the given id.
	Get(id string) (Task, bool)

	// Stats counts tasks over the whole collection.
	Stats() Stats

	// Err returns the error of the last persistence write, or nil.
	Err() error
}
