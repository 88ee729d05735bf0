package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"ltask/internal/backend/googletasks"
	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/service"
)

func init() {
	Register(&PushCmd{})
}

// Pusher mirrors tasks into a remote list.
type Pusher interface {
	Push(ctx context.Context, listTitle string, items []service.Task) (googletasks.Result, error)
}

// PusherFactory builds a Pusher from config.
type PusherFactory func(ctx context.Context, cfg *config.Config) (Pusher, error)

// DefaultPusher creates a Google Tasks client from the stored credentials.
func DefaultPusher(ctx context.Context, cfg *config.Config) (Pusher, error) {
	return googletasks.New(ctx, cfg, cfg.Log().Named("googletasks"))
}

// PushCmd replaces a Google Tasks list with the local collection.
type PushCmd struct {
	list string

	// NewPusher overrides DefaultPusher (for testing).
	NewPusher PusherFactory
}

func (c *PushCmd) Name() string      { return "push" }
func (c *PushCmd) Aliases() []string { return nil }
func (c *PushCmd) Synopsis() string  { return "Mirror tasks into a Google Tasks list" }
func (c *PushCmd) Usage() string     { return "ltask push [--list <list-name>]" }
func (c *PushCmd) NeedsStore() bool  { return true }

func (c *PushCmd) RegisterFlags(fs *flag.FlagSet) {
	c.list = ""
	fs.StringVar(&c.list, "list", "", "")
	fs.StringVar(&c.list, "l", "", "")
}

func (c *PushCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	newPusher := c.NewPusher
	if newPusher == nil {
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: %s not found in %s (run: ltask login)\n", config.OAuthClientFile, cfg.Dir)
			return exitcode.AuthError
		}
		if !cfg.HasToken() {
			fmt.Fprintln(errOut, "error: not logged in (run: ltask login)")
			return exitcode.AuthError
		}
		newPusher = DefaultPusher
	}

	list := strings.TrimSpace(c.list)
	if list == "" {
		list = cfg.Settings.Google.List
	}
	if list == "" {
		list = config.DefaultGoogleList
	}

	pusher, err := newPusher(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}

	items := svc.All()
	res, err := pusher.Push(ctx, list, items)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	cfg.Log().Debug("push complete",
		zap.String("list", list),
		zap.String("list_id", res.ListID),
		zap.Bool("created", res.ListCreated),
		zap.Int("removed", res.Removed),
		zap.Int("inserted", res.Inserted),
	)
	if !cfg.Quiet {
		fmt.Fprintf(out, "pushed %d tasks to %s\n", res.Inserted, list)
	}
	return exitcode.Success
}
