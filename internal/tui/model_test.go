package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ltask/internal/service"
	"ltask/internal/testutil"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok, "Update returned %T", next)
	}
	return m
}

func typeText(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, runes(string(r)))
	}
	return msgs
}

func TestModel_AddTask(t *testing.T) {
	svc, _ := testutil.NewStore(t)
	m := New(svc)

	m = press(t, m, runes("n"))
	assert.Equal(t, modeNew, m.mode)

	m = press(t, m, typeText("Buy milk")...)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, typeText("2 liters")...)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeList, m.mode)
	all := svc.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Buy milk", all[0].Title)
	assert.Equal(t, "2 liters", all[0].Description)
	assert.Equal(t, "Added task", m.status)
}

func TestModel_EmptyTitleKeepsFormOpen(t *testing.T) {
	svc, _ := testutil.NewStore(t)
	m := New(svc)

	m = press(t, m, runes("n"), runes(" "), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeNew, m.mode)
	assert.True(t, m.statusErr)
	assert.Empty(t, svc.All())
}

func TestModel_EscCancels(t *testing.T) {
	svc, _ := testutil.NewStore(t)
	m := New(svc)

	m = press(t, m, runes("n"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, svc.All())
	assert.Equal(t, "", m.inputs[fieldTitle].Value())
}

func TestModel_ToggleAndDelete(t *testing.T) {
	svc, _ := testutil.NewStore(t)
	testutil.Seed(t, svc, []string{"A", "B"})
	m := New(svc)

	m = press(t, m, runes("j"), tea.KeyMsg{Type: tea.KeySpace})
	b, _ := svc.Get("task-0002")
	assert.True(t, b.Completed)

	m = press(t, m, runes("k"), runes("d"))
	all := svc.All()
	require.Len(t, all, 1)
	assert.Equal(t, "B", all[0].Title)
	assert.Equal(t, 0, m.cursor)
}

func TestModel_EditSelected(t *testing.T) {
	svc, _ := testutil.NewStore(t)
	testutil.Seed(t, svc, []string{"Old"})
	m := New(svc)

	m = press(t, m, runes("e"))
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "Old", m.inputs[fieldTitle].Value())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	m = press(t, m, typeText("New")...)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	got, _ := svc.Get("task-0001")
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, modeList, m.mode)
}

func TestModel_EditEmptyTitleRefused(t *testing.T) {
	svc, _ := testutil.NewStore(t)
	testutil.Seed(t, svc, []string{"Keep"})
	m := New(svc)

	m = press(t, m, runes("e"))
	for range "Keep" {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeEdit, m.mode)
	got, _ := svc.Get("task-0001")
	assert.Equal(t, "Keep", got.Title)
}

func TestModel_FilterKeys(t *testing.T) {
	svc, _ := testutil.NewStore(t)
	testutil.Seed(t, svc, []string{"A", "B", "C"}, 1)
	m := New(svc)

	m = press(t, m, runes("2"))
	assert.Equal(t, service.FilterActive, svc.Filter())
	assert.Len(t, m.view, 2)

	m = press(t, m, runes("3"))
	assert.Len(t, m.view, 1)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, service.FilterAll, svc.Filter())
	assert.Len(t, m.view, 3)

	m = press(t, m, runes("c"))
	assert.Len(t, m.view, 2)
	assert.Equal(t, "Cleared 1 completed", m.status)
}

func TestModel_SaveFailureShown(t *testing.T) {
	svc, mem := testutil.NewStore(t)
	m := New(svc)
	mem.PutErr = errors.New("disk full")

	m = press(t, m, runes("n"), runes("x"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "disk full")
	assert.Len(t, svc.All(), 1)
}

func TestModel_ViewShowsCountsAndTasks(t *testing.T) {
	svc, _ := testutil.NewStore(t)
	testutil.Seed(t, svc, []string{"Alpha", "Beta"}, 0)
	m := New(svc)

	out := m.View()
	assert.True(t, strings.Contains(out, "active (1)"), out)
	assert.True(t, strings.Contains(out, "completed (1)"), out)
	assert.True(t, strings.Contains(out, "Beta"), out)
}

func TestModel_Quit(t *testing.T) {
	svc, _ := testutil.NewStore(t)
	next, cmd := New(svc).Update(runes("q"))
	require.NotNil(t, cmd)
	assert.True(t, next.(Model).quitting)
}
