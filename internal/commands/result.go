package commands

import (
	"fmt"
	"io"

	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/service"
)

// finish reports a failed persistence write, or prints msg unless quiet.
// Mutations stay applied in memory either way.
func finish(cfg *config.Config, svc service.Service, msg string, out, errOut io.Writer) int {
	if err := svc.Err(); err != nil {
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.BackendError
	}
	if !cfg.Quiet && msg != "" {
		fmt.Fprintln(out, msg)
	}
	return exitcode.Success
}
