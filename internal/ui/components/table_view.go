package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/lazycodex/internal/models"
	"github.com/rebeliceyang/lazycodex/internal/pages"
	"github.com/rebeliceyang/lazycodex/internal/ui/theme"
)

const (
	sortAscIndicator  = "▲"
	sortDescIndicator = "▼"
	minColumnWidth    = 4
)

// TableView displays one page of search results
type TableView struct {
	Columns []pages.Column
	Rows    []pages.Row
	Width   int
	Height  int
	Theme   theme.Theme

	// Query context for the header
	SortBy        string
	SortDirection models.SortDirection

	// Scrolling and selection state
	TopRow      int
	VisibleRows int
	SelectedRow int
	SelectedCol int

	// Column widths (calculated)
	ColumnWidths []int
}

// NewTableView creates a new table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{Theme: th}
}

// SetColumns replaces the columns, e.g. after switching resource
func (tv *TableView) SetColumns(columns []pages.Column) {
	tv.Columns = columns
	tv.Rows = nil
	tv.TopRow, tv.SelectedRow, tv.SelectedCol = 0, 0, 0
	tv.calculateColumnWidths()
}

// SetRows replaces the rows and keeps the selection in range
func (tv *TableView) SetRows(rows []pages.Row) {
	tv.Rows = rows
	if tv.SelectedRow >= len(rows) {
		tv.SelectedRow = max(len(rows)-1, 0)
	}
	if tv.TopRow > tv.SelectedRow {
		tv.TopRow = tv.SelectedRow
	}
	tv.calculateColumnWidths()
}

// SetSort sets the sort column and direction shown in the header
func (tv *TableView) SetSort(sortBy string, dir models.SortDirection) {
	tv.SortBy = sortBy
	tv.SortDirection = dir
}

// calculateColumnWidths sizes each column to its content, bounded by the
// width hint of the column
func (tv *TableView) calculateColumnWidths() {
	tv.ColumnWidths = make([]int, len(tv.Columns))
	for i, col := range tv.Columns {
		w := runewidth.StringWidth(col.Title) + 2 // room for the sort indicator
		for _, row := range tv.Rows {
			if i < len(row.Cells) {
				w = max(w, runewidth.StringWidth(row.Cells[i]))
			}
		}
		if col.Width > 0 && w > col.Width {
			w = max(col.Width, runewidth.StringWidth(col.Title)+2)
		}
		tv.ColumnWidths[i] = max(w, minColumnWidth)
	}
}

// HeaderLabel returns the title of column i with its sort indicator
func (tv *TableView) HeaderLabel(i int) string {
	col := tv.Columns[i]
	if col.SortKey == "" || col.SortKey != tv.SortBy {
		return col.Title
	}
	if tv.SortDirection == models.SortDesc {
		return col.Title + " " + sortDescIndicator
	}
	return col.Title + " " + sortAscIndicator
}

// View renders the table
func (tv *TableView) View() string {
	if len(tv.Columns) == 0 {
		return lipgloss.NewStyle().Foreground(tv.Theme.Metadata).Render("No columns")
	}

	var b strings.Builder
	b.WriteString(tv.renderHeader())
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator())
	b.WriteString("\n")

	// Header + separator
	tv.VisibleRows = max(tv.Height-2, 1)

	if len(tv.Rows) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(tv.Theme.Metadata).Italic(true).Render(" No results"))
		return b.String()
	}

	endRow := min(tv.TopRow+tv.VisibleRows, len(tv.Rows))
	for i := tv.TopRow; i < endRow; i++ {
		b.WriteString(tv.renderRow(tv.Rows[i], i == tv.SelectedRow))
		if i < endRow-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (tv *TableView) renderHeader() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.TableHeader)
	cursorStyle := headerStyle.Underline(true)
	sortStyle := headerStyle.Foreground(tv.Theme.SortIndicator)

	parts := make([]string, len(tv.Columns))
	for i := range tv.Columns {
		cell := pad(tv.HeaderLabel(i), tv.ColumnWidths[i])
		switch {
		case i == tv.SelectedCol:
			parts[i] = cursorStyle.Render(cell)
		case tv.Columns[i].SortKey != "" && tv.Columns[i].SortKey == tv.SortBy:
			parts[i] = sortStyle.Render(cell)
		default:
			parts[i] = headerStyle.Render(cell)
		}
	}
	return " " + strings.Join(parts, " │ ") + " "
}

func (tv *TableView) renderSeparator() string {
	parts := make([]string, len(tv.ColumnWidths))
	for i, width := range tv.ColumnWidths {
		parts[i] = strings.Repeat("─", width)
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Border).
		Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(row pages.Row, selected bool) string {
	parts := make([]string, len(tv.ColumnWidths))
	for i, width := range tv.ColumnWidths {
		cell := ""
		if i < len(row.Cells) {
			cell = row.Cells[i]
		}
		parts[i] = pad(cell, width)
	}

	line := " " + strings.Join(parts, " │ ") + " "
	if selected {
		return lipgloss.NewStyle().
			Background(tv.Theme.TableRowSelected).
			Foreground(tv.Theme.Foreground).
			Bold(true).
			Render(line)
	}
	return line
}

// pad fits s into exactly width terminal cells
func pad(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// Selected returns the selected row
func (tv *TableView) Selected() (pages.Row, bool) {
	if tv.SelectedRow < 0 || tv.SelectedRow >= len(tv.Rows) {
		return pages.Row{}, false
	}
	return tv.Rows[tv.SelectedRow], true
}

// SelectedColumn returns the column under the column cursor
func (tv *TableView) SelectedColumn() (pages.Column, bool) {
	if tv.SelectedCol < 0 || tv.SelectedCol >= len(tv.Columns) {
		return pages.Column{}, false
	}
	return tv.Columns[tv.SelectedCol], true
}

// MoveSelection moves the selection up or down
func (tv *TableView) MoveSelection(delta int) {
	if len(tv.Rows) == 0 {
		return
	}
	tv.SelectedRow = min(max(tv.SelectedRow+delta, 0), len(tv.Rows)-1)

	// Adjust visible window if needed
	if tv.SelectedRow < tv.TopRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.VisibleRows > 0 && tv.SelectedRow >= tv.TopRow+tv.VisibleRows {
		tv.TopRow = tv.SelectedRow - tv.VisibleRows + 1
	}
}

// MoveColumn moves the column cursor left or right
func (tv *TableView) MoveColumn(delta int) {
	if len(tv.Columns) == 0 {
		return
	}
	tv.SelectedCol = min(max(tv.SelectedCol+delta, 0), len(tv.Columns)-1)
}

// ResetSelection jumps back to the first row, e.g. on a new page
func (tv *TableView) ResetSelection() {
	tv.TopRow = 0
	tv.SelectedRow = 0
}
