// Package tui is an interactive terminal front end for the task store.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ltask/internal/service"
)

type mode int

const (
	modeList mode = iota
	modeNew
	modeEdit
)

const (
	fieldTitle = iota
	fieldDesc
)

// Model is the bubbletea model. It holds no task state of its own beyond
// the current filtered view, which is re-read from the service after every
// mutation.
type Model struct {
	svc    service.Service
	styles Styles

	view   []service.Task
	cursor int

	mode   mode
	editID string
	inputs [2]textinput.Model
	focus  int

	status    string
	statusErr bool
	quitting  bool
}

// New returns a model over svc.
func New(svc service.Service) Model {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 256
	title.Width = 50

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 1024
	desc.Width = 50

	m := Model{
		svc:    svc,
		styles: DefaultStyles(),
		inputs: [2]textinput.Model{title, desc},
		status: "n new • space toggle • e edit • d delete • tab filter • c clear • q quit",
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != modeList {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	case tea.WindowSizeMsg:
		w := msg.Width - 10
		if w < 20 {
			w = 20
		}
		m.inputs[fieldTitle].Width = w
		m.inputs[fieldDesc].Width = w
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.view)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "n":
		return m.openForm(modeNew, service.Task{})
	case "e":
		if t, ok := m.selected(); ok {
			return m.openForm(modeEdit, t)
		}
	case " ", "space":
		if t, ok := m.selected(); ok {
			m.svc.ToggleCompletion(t.ID)
			m.afterMutation("Toggled task")
		}
	case "d":
		if t, ok := m.selected(); ok {
			m.svc.Delete(t.ID)
			m.afterMutation(fmt.Sprintf("Deleted %q", t.Title))
		}
	case "c":
		n := m.svc.ClearCompleted()
		m.afterMutation(fmt.Sprintf("Cleared %d completed", n))
	case "tab":
		m.setFilter(m.svc.Filter().Next())
	case "1":
		m.setFilter(service.FilterAll)
	case "2":
		m.setFilter(service.FilterActive)
	case "3":
		m.setFilter(service.FilterCompleted)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.closeForm()
		m.setStatus("Cancelled", false)
		return m, nil
	case "tab", "shift+tab":
		m.inputs[m.focus].Blur()
		m.focus = 1 - m.focus
		cmd := m.inputs[m.focus].Focus()
		return m, cmd
	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) openForm(md mode, t service.Task) (tea.Model, tea.Cmd) {
	m.mode = md
	m.editID = t.ID
	m.inputs[fieldTitle].SetValue(t.Title)
	m.inputs[fieldTitle].CursorEnd()
	m.inputs[fieldDesc].SetValue(t.Description)
	m.inputs[fieldDesc].CursorEnd()
	m.inputs[fieldDesc].Blur()
	m.focus = fieldTitle
	if md == modeNew {
		m.setStatus("New task: enter to save, tab to switch field, esc to cancel", false)
	} else {
		m.setStatus("Edit task: enter to save, tab to switch field, esc to cancel", false)
	}
	cmd := m.inputs[fieldTitle].Focus()
	return m, cmd
}

func (m *Model) closeForm() {
	m.mode = modeList
	m.editID = ""
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = fieldTitle
}

// submit saves the form. An empty title keeps the form open.
func (m Model) submit() (tea.Model, tea.Cmd) {
	title := m.inputs[fieldTitle].Value()
	desc := m.inputs[fieldDesc].Value()
	if strings.TrimSpace(title) == "" {
		m.setStatus("Title cannot be empty", true)
		return m, nil
	}

	switch m.mode {
	case modeNew:
		m.svc.Add(title, desc)
		m.closeForm()
		m.afterMutation("Added task")
		// Select the new task if the filter shows it.
		if n := len(m.view); n > 0 && m.view[n-1].Title == strings.TrimSpace(title) {
			m.cursor = n - 1
		}
	case modeEdit:
		id := m.editID
		m.svc.Update(id, service.Fields{Title: &title, Description: &desc})
		m.closeForm()
		m.afterMutation("Updated task")
	}
	return m, nil
}

func (m *Model) setFilter(f service.Filter) {
	m.svc.SetFilter(f)
	m.cursor = 0
	m.refresh()
}

// afterMutation re-reads the view and reports msg or a save failure.
func (m *Model) afterMutation(msg string) {
	m.refresh()
	if err := m.svc.Err(); err != nil {
		m.setStatus("save failed: "+err.Error(), true)
		return
	}
	m.setStatus(msg, false)
}

func (m *Model) refresh() {
	m.view = m.svc.FilteredView()
	if m.cursor >= len(m.view) {
		m.cursor = len(m.view) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m Model) selected() (service.Task, bool) {
	if len(m.view) == 0 {
		return service.Task{}, false
	}
	return m.view[m.cursor], true
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	stats := m.svc.Stats()

	b.WriteString(m.styles.Title.Render("ltask"))
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  %d total • %d active • %d completed", stats.Total, stats.Active, stats.Completed)))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs(stats))
	b.WriteString("\n\n")

	if len(m.view) == 0 {
		b.WriteString(m.styles.Muted.Render("No tasks. Press n to add one."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTasks())
	}

	if m.mode != modeList {
		b.WriteString("\n")
		b.WriteString(m.styles.Form.Render(m.inputs[fieldTitle].View() + "\n" + m.inputs[fieldDesc].View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(m.styles.Error.Render(m.status))
	} else {
		b.WriteString(m.styles.Muted.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderTabs(stats service.Stats) string {
	current := m.svc.Filter()
	tabs := make([]string, 0, len(service.Filters))
	for i, f := range service.Filters {
		label := fmt.Sprintf("%d %s (%d)", i+1, f, stats.Count(f))
		if f == current {
			tabs = append(tabs, m.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderTasks() string {
	var b strings.Builder
	for i, t := range m.view {
		cursor := "  "
		if i == m.cursor && m.mode == modeList {
			cursor = m.styles.Cursor.Render("> ")
		}
		check := "[ ]"
		title := t.Title
		if t.Completed {
			check = "[x]"
			title = m.styles.Done.Render(title)
		}
		b.WriteString(cursor + check + " " + title)
		if t.Description != "" {
			b.WriteString(m.styles.Muted.Render("  " + firstLine(t.Description)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i] + "…"
	}
	return s
}
