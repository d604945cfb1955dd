package utils

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Rana718/knockoff/internal/types"
)

// PrintTable renders up to limit rows of t as a box-drawn grid.
// A limit <= 0 prints every row.
func PrintTable(w io.Writer, t *types.Table, limit int) {
	if t == nil || len(t.Columns) == 0 {
		return
	}
	rows := t.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = len(col)
	}
	for _, row := range rows {
		for i, col := range t.Columns {
			if n := len(formatCell(row[col])); n > widths[i] {
				widths[i] = n
			}
		}
	}

	border := func(left, mid, right string) {
		fmt.Fprint(w, left)
		for i := range t.Columns {
			fmt.Fprint(w, strings.Repeat("─", widths[i]+2))
			if i < len(t.Columns)-1 {
				fmt.Fprint(w, mid)
			}
		}
		fmt.Fprintln(w, right)
	}

	border("┌", "┬", "┐")
	fmt.Fprint(w, "│")
	header := color.New(color.FgCyan, color.Bold)
	for i, col := range t.Columns {
		fmt.Fprint(w, " ")
		header.Fprintf(w, "%-*s", widths[i], col)
		fmt.Fprint(w, " │")
	}
	fmt.Fprintln(w)
	border("├", "┼", "┤")
	for _, row := range rows {
		fmt.Fprint(w, "│")
		for i, col := range t.Columns {
			fmt.Fprintf(w, " %-*s │", widths[i], formatCell(row[col]))
		}
		fmt.Fprintln(w)
	}
	border("└", "┴", "┘")

	if len(rows) < len(t.Rows) {
		fmt.Fprintf(w, "... %d more rows\n", len(t.Rows)-len(rows))
	}
}

func formatCell(val any) string {
	if val == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", val)
}
