package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/rebeliceyang/lazycodex/internal/export"
	"github.com/rebeliceyang/lazycodex/internal/pages"
	"github.com/rebeliceyang/lazycodex/internal/ui/components"
)

const maxCellWidth = 40

// shouldUseColor returns true when ANSI colors should be used on stdout.
// It respects NO_COLOR, CLICOLOR_FORCE, CLICOLOR and TTY detection.
func shouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var headerStyle = lipgloss.NewStyle().Bold(true)

func header(s string) string {
	if !shouldUseColor() {
		return s
	}
	return headerStyle.Render(s)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// resultTable lays a search result out for export
func resultTable(page pages.Page, view pages.View) export.Table {
	columns := make([]string, len(page.Columns()))
	for i, col := range page.Columns() {
		columns[i] = col.Title
	}
	rows := make([][]string, len(view.Rows))
	for i, row := range view.Rows {
		rows[i] = row.Cells
	}
	return export.Table{
		Resource: page.Resource(),
		Count:    view.Count,
		Page:     view.Query.Page,
		Columns:  columns,
		Rows:     rows,
		Entries:  view.Entries,
	}
}

// printResults writes one result page as JSON or as an aligned table
func printResults(w io.Writer, page pages.Page, view pages.View) error {
	table := resultTable(page, view)
	if jsonOutput {
		return export.Results(w, export.FormatJSON, table)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header(strings.ToUpper(strings.Join(table.Columns, "\t"))))
	for _, row := range table.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = runewidth.Truncate(cell, maxCellWidth, "...")
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	summary := components.Pagination{Page: view.Query.Page, Size: view.Query.Size, Count: view.Count}.Summary()
	_, err := fmt.Fprintf(w, "\n%s\n", summary)
	return err
}
