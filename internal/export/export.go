// Package export renders a task list as JSON, CSV, or PDF.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nibzard/taskman-go/internal/task"
)

// Format is an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatCSV, FormatPDF}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (must be json, csv, or pdf)", s)
}

// FormatForPath guesses the format from a file extension.
func FormatForPath(path string) (Format, bool) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", false
	}
	f, err := ParseFormat(path[i+1:])
	return f, err == nil
}

var csvHeader = []string{"id", "title", "summary", "status", "deadline"}

// Write renders tasks to w in the given format. JSON output is the same
// document the store persists, so it can be imported back.
func Write(w io.Writer, format Format, tasks []task.Task) error {
	switch format {
	case FormatJSON:
		data, err := task.Encode(tasks)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatCSV:
		return writeCSV(w, tasks)
	case FormatPDF:
		return writePDF(w, tasks, time.Now())
	default:
		return fmt.Errorf("unknown format %s", format)
	}
}

// Bytes is Write into a buffer.
func Bytes(format Format, tasks []task.Task) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, format, tasks); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCSV(w io.Writer, tasks []task.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		if err := cw.Write([]string{t.ID, t.Title, t.Summary, string(t.Status), t.Deadline.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePDF(w io.Writer, tasks []task.Task, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(now)
	pdf.SetTitle("Tasks", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	if len(tasks) == 0 {
		pdf.Cell(40, 6, "No tasks.")
	}
	for i, t := range tasks {
		deadline := "no deadline"
		if t.HasDeadline() {
			deadline = "due " + t.Deadline.String()
		}
		pdf.SetFont("Arial", "B", 10)
		line := fmt.Sprintf("%d. [%s] %s (%s)", i+1, t.Status, t.Title, deadline)
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
		if t.Summary != "" {
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5, tr(t.Summary), "0", "L", false)
		}
		pdf.Ln(2)
	}

	return pdf.Output(w)
}
