// Package display renders API results as terminal tables and colored
// notices.
package display

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
)

// Successf prints a green notice.
func Successf(w io.Writer, format string, args ...interface{}) {
	green.Fprintf(w, "\n\t"+format+"\n", args...)
}

// Warnf prints a red notice.
func Warnf(w io.Writer, format string, args ...interface{}) {
	red.Fprintf(w, "\n\t"+format+"\n", args...)
}

// Table renders a bordered table with a blank line either side.
func Table(w io.Writer, header []string, rows [][]string) {
	fmt.Fprintln(w)
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.AppendBulk(rows)
	t.Render()
	fmt.Fprintln(w)
}

// Age renders a timestamp as a relative age, or "" for a missing one.
func Age(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return humanize.Time(*t)
}

// Truncate shortens a string to at most n characters with an ellipsis.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
