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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "ltask help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, HelpText(DefaultRegistry))
	return exitcode.Success
}

// HelpText builds usage text from the commands in r.
func HelpText(r *Registry) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	b.WriteString("  ltask                    List all tasks\n")
	for _, cmd := range r.All() {
		fmt.Fprintf(&b, "  %-24s %s\n", cmd.Name(), cmd.Synopsis())
		fmt.Fprintf(&b, "      %s\n", cmd.Usage())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			fmt.Fprintf(&b, "      aliases: %s\n", strings.Join(aliases, ", "))
		}
	}
	b.WriteString(commonFlagsText)
	return b.String()
}

const commonFlagsText = `
Tasks are referenced by their number in "ltask list" or by an id prefix
of at least 4 characters. A number past the end of the list is tried as
an id prefix.

Flags may follow arguments. Use "--" to pass arguments starting with "-".

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
  --ephemeral      Keep tasks in memory only
`
