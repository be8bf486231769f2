// Package display renders tracker data as plain-text tables.
package display

import (
	"bufio"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const columnGap = "  "

// Table is a header row plus body rows. Rows shorter than Headers are
// padded with empty cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render writes the table to w. Columns are padded to the display width of
// their widest cell, so wide runes line up.
func (t Table) Render(w io.Writer) error {
	widths := make([]int, len(t.Headers))
	measure := func(row []string) {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}

	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, formatRow(t.Headers, widths))
	for _, row := range t.Rows {
		lines = append(lines, formatRow(row, widths))
	}

	ruleWidth := 0
	for _, line := range lines {
		if lw := runewidth.StringWidth(line); lw > ruleWidth {
			ruleWidth = lw
		}
	}
	rule := strings.Repeat("-", ruleWidth)

	bw := bufio.NewWriter(w)
	writeLine := func(s string) {
		_, _ = bw.WriteString(s)
		_ = bw.WriteByte('\n')
	}
	writeLine(rule)
	writeLine(lines[0])
	writeLine(rule)
	for _, line := range lines[1:] {
		writeLine(line)
	}
	writeLine(rule)
	return bw.Flush()
}

func formatRow(row []string, widths []int) string {
	var b strings.Builder
	for i, width := range widths {
		if i > 0 {
			b.WriteString(columnGap)
		}
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		b.WriteString(runewidth.FillRight(cell, width))
	}
	return strings.TrimRight(b.String(), " ")
}

// Clip shortens s to at most width display columns, marking the cut with
// "...". A width of zero or less disables clipping.
func Clip(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
