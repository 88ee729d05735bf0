package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"

	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/output"
	"ltask/internal/service"
)

// showWrap is the word-wrap width for rendered descriptions.
const showWrap = 80

func init() {
	Register(&ShowCmd{})
}

// ShowCmd prints every field of one task. The description is rendered as
// markdown unless --raw is given.
type ShowCmd struct {
	raw bool
}

// SetRaw disables markdown rendering (for testing).
func (c *ShowCmd) SetRaw(raw bool) { c.raw = raw }

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return nil }
func (c *ShowCmd) Synopsis() string  { return "Show task details" }
func (c *ShowCmd) Usage() string     { return "ltask show [--raw] <ref>" }
func (c *ShowCmd) NeedsStore() bool  { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {
	c.raw = false
	fs.BoolVar(&c.raw, "raw", false, "")
}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	task, code, ok := resolveArgs(svc, args, errOut)
	if !ok {
		return code
	}

	desc := task.Description
	if desc != "" && !c.raw {
		rendered, err := renderMarkdown(desc)
		if err != nil {
			cfg.Log().Debug("markdown render failed, printing raw")
		} else {
			desc = rendered
		}
	}

	output.FormatTaskDetails(out, task, desc)
	return exitcode.Success
}

// renderMarkdown renders s with a style that emits no escape sequences.
func renderMarkdown(s string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(showWrap),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	return r.Render(s)
}
