package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"ltask/internal/service"
)

// Run starts the interactive UI and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, svc service.Service, in io.Reader, out io.Writer) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(out), tea.WithAltScreen()}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	_, err := tea.NewProgram(New(svc), opts...).Run()
	return err
}
