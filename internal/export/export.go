// Package export writes snapshots of the task collection in portable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"ltask/internal/persist"
	"ltask/internal/service"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

// Formats lists the accepted format names.
var Formats = []string{FormatJSON, FormatCSV, FormatPDF}

// Supported reports whether format is one of Formats.
func Supported(format string) bool {
	format = strings.ToLower(format)
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Export writes tasks to w in the given format.
func Export(w io.Writer, format string, tasks []service.Task) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		data, err := persist.Marshal(tasks)
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case FormatCSV:
		return writeCSV(w, tasks)
	case FormatPDF:
		return writePDF(w, tasks)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeCSV(w io.Writer, tasks []service.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "title", "description", "completed", "created_at", "updated_at"}); err != nil {
		return err
	}
	for _, t := range tasks {
		rec := persist.Encode(t)
		row := []string{rec.ID, rec.Title, rec.Description, strconv.FormatBool(rec.Completed), rec.CreatedAt, rec.UpdatedAt}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePDF(w io.Writer, tasks []service.Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Task list", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task list")
	pdf.Ln(12)

	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("%d tasks, %d active, %d completed", len(tasks), len(tasks)-completed, completed))
	pdf.Ln(10)

	for _, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, tr(box+" "+t.Title), "0", "L", false)
		pdf.SetFont("Arial", "", 9)
		if t.Description != "" {
			pdf.MultiCell(0, 5, tr(t.Description), "0", "L", false)
		}
		pdf.MultiCell(0, 5, "Created "+t.CreatedAt.UTC().Format(time.RFC822), "0", "L", false)
		pdf.Ln(2)
	}

	return pdf.Output(w)
}
