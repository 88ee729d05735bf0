package commands

import (
	"context"
	"flag"
	"io"

	"ltask/internal/config"
	"ltask/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. Running it on a completed task
// reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task between active and completed" }
func (c *DoneCmd) Usage() string     { return "ltask done <ref>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	task, code, ok := resolveArgs(svc, args, errOut)
	if !ok {
		return code
	}

	svc.ToggleCompletion(task.ID)
	return finish(cfg, svc, "ok", out, errOut)
}
