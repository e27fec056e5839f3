// Package output provides consistent CLI output formatting for validation results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Aman-CERP/logvet/internal/report"
	"github.com/Aman-CERP/logvet/internal/ui"
	"github.com/Aman-CERP/logvet/internal/validate"
)

// Status labels printed in front of each file.
const (
	LabelValid   = "VALID"
	LabelInvalid = "INVALID"
)

// Writer provides formatted output for CLI.
type Writer struct {
	out    io.Writer
	styles ui.Styles
}

// New creates a new output Writer that writes plain text.
func New(out io.Writer) *Writer {
	return NewStyled(out, ui.NoColorStyles())
}

// NewStyled creates a Writer that renders labels with the given styles.
func NewStyled(out io.Writer, styles ui.Styles) *Writer {
	return &Writer{out: out, styles: styles}
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", w.styles.Warning.Render(msg))
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("❌", msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// Report prints one file's status line followed by its diagnostics.
//
//	INVALID  logs/app.csv  (2 errors)
//	    - missing_field: row 3: missing field "source"
func (w *Writer) Report(r report.Report) {
	if r.Valid() {
		_, _ = fmt.Fprintf(w.out, "%s  %s\n",
			w.styles.Valid.Render(pad(LabelValid)), w.styles.Path.Render(r.FilePath))
		return
	}

	_, _ = fmt.Fprintf(w.out, "%s  %s  %s\n",
		w.styles.Invalid.Render(pad(LabelInvalid)),
		w.styles.Path.Render(r.FilePath),
		w.styles.Count.Render(fmt.Sprintf("(%s)", plural(r.TotalErrors(), "error"))))
	for _, d := range r.Result.Errors() {
		_, _ = fmt.Fprintf(w.out, "    - %s: %s\n", w.styles.Kind.Render(string(d.Kind())), d.String())
	}
}

// Reports prints every report in order.
func (w *Writer) Reports(reports []report.Report) {
	for _, r := range reports {
		w.Report(r)
	}
}

// Summary prints the batch totals and a per-kind breakdown of diagnostics.
func (w *Writer) Summary(s report.Summary) {
	_, _ = fmt.Fprintf(w.out, "%s %s checked: %s valid, %s invalid, %s in %s\n",
		w.styles.Header.Render("Summary:"),
		plural(s.TotalFiles, "file"),
		w.styles.Valid.Render(fmt.Sprint(s.ValidFiles)),
		w.styles.Invalid.Render(fmt.Sprint(s.InvalidFiles)),
		plural(s.TotalErrors, "error"),
		s.Duration().Round(time.Millisecond))

	for _, kind := range validate.Kinds {
		n := s.ErrorsByKind[kind]
		if n == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w.out, "    %s %d\n", w.styles.Label.Render(fmt.Sprintf("%-28s", kind)), n)
	}
}

// JSON prints v as indented JSON.
func (w *Writer) JSON(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func pad(label string) string {
	return fmt.Sprintf("%-7s", label)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
