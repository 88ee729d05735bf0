package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	title optString
	desc  optString
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(title string) { c.title.Set(title) }

// SetDescription sets the new description (for testing).
func (c *EditCmd) SetDescription(desc string) { c.desc.Set(desc) }

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's title or description" }
func (c *EditCmd) Usage() string     { return "ltask edit [--title <text>] [--desc <text>] <ref>" }
func (c *EditCmd) NeedsStore() bool  { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title = optString{}
	c.desc = optString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.desc, "desc", "")
	fs.Var(&c.desc, "d", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fields := service.Fields{Title: c.title.ptr(), Description: c.desc.ptr()}
	if fields.Empty() {
		fmt.Fprintln(errOut, "error: nothing to update (use --title or --desc)")
		return exitcode.UserError
	}
	if fields.Title != nil && strings.TrimSpace(*fields.Title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	task, code, ok := resolveArgs(svc, args, errOut)
	if !ok {
		return code
	}

	svc.Update(task.ID, fields)
	return finish(cfg, svc, "ok", out, errOut)
}
