// Package report renders diagnostics and the end-of-run summary for the
// CLI. It consumes the diagnostic sequence; it never affects what the
// engine produces.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tidylint/tidy/pkg/diagnostic"
)

// Printer writes diagnostics one per line as they are produced.
type Printer struct {
	out     io.Writer
	noColor bool
	count   int
	byKind  map[diagnostic.Kind]int
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer, noColor bool) *Printer {
	return &Printer{
		out:     out,
		noColor: noColor,
		byKind:  map[diagnostic.Kind]int{},
	}
}

// Print renders one diagnostic.
func (p *Printer) Print(diag diagnostic.Diagnostic) {
	p.count++
	p.byKind[diag.Kind]++

	location := diag.Path
	if diag.Line > 0 {
		location = fmt.Sprintf("%s:%d", diag.Path, diag.Line)
	}

	if p.noColor {
		fmt.Fprintf(p.out, "%s: %s\n", location, diag.Message)

		return
	}

	fmt.Fprintf(p.out, "%s: %s\n", color.CyanString(location), color.RedString("%s", diag.Message))
}

// Count returns how many diagnostics have been printed.
func (p *Printer) Count() int { return p.count }

// Summary writes the end-of-run table: files scanned, violations found,
// and elapsed time.
func (p *Printer) Summary(filesScanned int, elapsed time.Duration) {
	writer := table.NewWriter()
	writer.SetOutputMirror(p.out)
	writer.AppendHeader(table.Row{"Files scanned", "Violations", "Elapsed"})
	writer.AppendRow(table.Row{
		humanize.Comma(int64(filesScanned)),
		humanize.Comma(int64(p.count)),
		elapsed.Round(time.Millisecond),
	})
	writer.Render()
}
