// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"ltask/internal/service"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"

	// TimeLayout is used for timestamps in task details.
	TimeLayout = "Jan 2, 2006 15:04"
)

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TITLE}\n" (4-wide right-aligned number, checkbox, title)
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, Checkbox(task.Completed), normalizeTitle(task.Title))
}

// FormatFilterHeader formats the header shown above a filtered list.
func FormatFilterHeader(w io.Writer, f service.Filter, stats service.Stats) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "%s (%d)\n", f, stats.Count(f))
	fmt.Fprintln(w, ListSeparator)
}

// FormatStats formats collection counts on one line.
func FormatStats(w io.Writer, stats service.Stats) {
	fmt.Fprintf(w, "total: %d  active: %d  completed: %d\n", stats.Total, stats.Active, stats.Completed)
}

// FormatTaskDetails formats every field of a task. The description is
// written as-is; callers may render it first.
func FormatTaskDetails(w io.Writer, task service.Task, description string) {
	status := "active"
	if task.Completed {
		status = "completed"
	}
	fmt.Fprintf(w, "Title:   %s\n", normalizeTitle(task.Title))
	fmt.Fprintf(w, "ID:      %s\n", task.ID)
	fmt.Fprintf(w, "Status:  %s\n", status)
	fmt.Fprintf(w, "Created: %s\n", FormatTime(task.CreatedAt))
	// Only shown once the task has been modified.
	if !task.UpdatedAt.Equal(task.CreatedAt) {
		fmt.Fprintf(w, "Updated: %s\n", FormatTime(task.UpdatedAt))
	}
	if description != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, description)
		if !strings.HasSuffix(description, "\n") {
			fmt.Fprintln(w)
		}
	}
}

// Checkbox renders the completion flag.
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// FormatTime renders a timestamp in local time.
func FormatTime(t time.Time) string {
	return t.Local().Format(TimeLayout)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
