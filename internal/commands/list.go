package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/output"
	"ltask/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `ltask` (no args) and `ltask list --filter <f>`.
type ListCmd struct {
	filter service.Filter
}

// SetFilter sets the filter (for testing).
func (c *ListCmd) SetFilter(f service.Filter) {
	c.filter = f
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "ltask list [--filter all|active|completed]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	v := newFilterValue(&c.filter)
	fs.Var(v, "filter", "")
	fs.Var(v, "f", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.filter == "" {
		c.filter = service.FilterAll
	}

	svc.SetFilter(c.filter)
	view := svc.FilteredView()

	if c.filter != service.FilterAll {
		output.FormatFilterHeader(out, c.filter, svc.Stats())
	}

	if len(view) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	// Numbers are positions in the full collection so they stay valid as
	// references regardless of the filter in effect.
	positions := make(map[string]int, len(view))
	for i, t := range svc.All() {
		positions[t.ID] = i + 1
	}
	for _, t := range view {
		output.FormatTask(out, positions[t.ID], t)
	}
	return exitcode.Success
}
