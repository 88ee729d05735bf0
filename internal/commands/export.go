package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/export"
	"ltask/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd writes tasks as json, csv or pdf.
type ExportCmd struct {
	format string
	output string
	filter service.Filter
}

// SetOptions sets the format, output path and filter (for testing).
func (c *ExportCmd) SetOptions(format, output string, f service.Filter) {
	c.format, c.output, c.filter = format, output, f
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Export tasks as json, csv or pdf" }
func (c *ExportCmd) Usage() string {
	return "ltask export [--format json|csv|pdf] [--output <file>] [--filter <f>]"
}
func (c *ExportCmd) NeedsStore() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	c.format, c.output = "", ""
	fs.StringVar(&c.format, "format", "", "")
	fs.StringVar(&c.output, "output", "", "")
	fs.StringVar(&c.output, "o", "", "")
	fs.Var(newFilterValue(&c.filter), "filter", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	format := c.format
	if format == "" {
		// Infer from the output extension, defaulting to json.
		format = strings.TrimPrefix(filepath.Ext(c.output), ".")
		if format == "" {
			format = export.FormatJSON
		}
	}
	format = strings.ToLower(format)
	if !export.Supported(format) {
		fmt.Fprintf(errOut, "error: unknown format: %s\n", format)
		return exitcode.UserError
	}
	if format == export.FormatPDF && c.output == "" {
		fmt.Fprintln(errOut, "error: pdf export requires --output")
		return exitcode.UserError
	}

	f := c.filter
	if f == "" {
		f = service.FilterAll
	}
	svc.SetFilter(f)
	tasks := svc.FilteredView()

	if c.output == "" {
		if err := export.Export(out, format, tasks); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
		return exitcode.Success
	}

	if err := writeExport(c.output, format, tasks); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	cfg.Log().Debug("exported tasks")
	if !cfg.Quiet {
		fmt.Fprintf(out, "wrote %d tasks to %s\n", len(tasks), c.output)
	}
	return exitcode.Success
}

func writeExport(path, format string, tasks []service.Task) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return export.Export(f, format, tasks)
}
