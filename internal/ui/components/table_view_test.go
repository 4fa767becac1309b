package components

import (
	"strings"
	"testing"

	"github.com/rebeliceyang/lazycodex/internal/models"
	"github.com/rebeliceyang/lazycodex/internal/pages"
	"github.com/rebeliceyang/lazycodex/internal/ui/theme"
)

func testTable() *TableView {
	tv := NewTableView(theme.DefaultTheme())
	tv.SetColumns([]pages.Column{
		{Title: "Name", SortKey: "name", Width: 12},
		{Title: "HP", SortKey: "health", Width: 5},
		{Title: "Tags"},
	})
	tv.SetRows([]pages.Row{
		{ID: "1", Slug: "fire-drake", Cells: []string{"Fire Drake", "120", "fire, flying"}},
		{ID: "2", Slug: "ice-golem", Cells: []string{"Ice Golem", "200", "ice"}},
		{ID: "3", Slug: "mud-crab", Cells: []string{"Mud Crab", "15", ""}},
	})
	tv.Width = 60
	tv.Height = 10
	return tv
}

func TestTableView_HeaderLabel(t *testing.T) {
	tv := testTable()

	tv.SetSort("health", models.SortDesc)
	if got := tv.HeaderLabel(1); got != "HP ▼" {
		t.Errorf("Expected descending indicator, got %q", got)
	}
	if got := tv.HeaderLabel(0); got != "Name" {
		t.Errorf("Expected plain title for unsorted column, got %q", got)
	}

	tv.SetSort("health", models.SortAsc)
	if got := tv.HeaderLabel(1); got != "HP ▲" {
		t.Errorf("Expected ascending indicator, got %q", got)
	}
}

func TestTableView_Selection(t *testing.T) {
	tv := testTable()

	tv.MoveSelection(-1)
	if tv.SelectedRow != 0 {
		t.Errorf("Expected selection clamped at 0, got %d", tv.SelectedRow)
	}
	tv.MoveSelection(10)
	if tv.SelectedRow != 2 {
		t.Errorf("Expected selection clamped at last row, got %d", tv.SelectedRow)
	}
	row, ok := tv.Selected()
	if !ok || row.Slug != "mud-crab" {
		t.Errorf("Unexpected selected row %+v", row)
	}

	// fewer rows keep the selection in range
	tv.SetRows(tv.Rows[:1])
	if tv.SelectedRow != 0 {
		t.Errorf("Expected selection to follow shrinking rows, got %d", tv.SelectedRow)
	}

	tv.MoveColumn(5)
	col, ok := tv.SelectedColumn()
	if !ok || col.Title != "Tags" {
		t.Errorf("Unexpected selected column %+v", col)
	}

	tv.SetColumns(tv.Columns)
	if len(tv.Rows) != 0 || tv.SelectedCol != 0 {
		t.Error("Expected SetColumns to reset rows and cursor")
	}
}

func TestTableView_Scrolling(t *testing.T) {
	tv := testTable()
	tv.Height = 4 // header, separator and two rows
	_ = tv.View()

	tv.MoveSelection(2)
	if tv.TopRow != 1 {
		t.Errorf("Expected window to scroll to row 1, got %d", tv.TopRow)
	}
	view := tv.View()
	if strings.Contains(view, "Fire Drake") {
		t.Error("Expected first row scrolled out of view")
	}
	if !strings.Contains(view, "Mud Crab") {
		t.Error("Expected selected row in view")
	}

	tv.ResetSelection()
	if tv.TopRow != 0 || tv.SelectedRow != 0 {
		t.Error("Expected ResetSelection to jump to the first row")
	}
}

func TestTableView_Empty(t *testing.T) {
	tv := testTable()
	tv.SetRows(nil)
	if !strings.Contains(tv.View(), "No results") {
		t.Error("Expected empty state message")
	}
	if _, ok := tv.Selected(); ok {
		t.Error("Expected no selection without rows")
	}
}

func TestPad(t *testing.T) {
	if got := pad("Drake", 8); got != "Drake   " {
		t.Errorf("pad = %q", got)
	}
	if got := pad("Fire Drake", 6); got != "Fire …" {
		t.Errorf("pad truncated = %q", got)
	}
	if got := pad("火龍", 5); got != "火龍 " {
		t.Errorf("pad wide = %q", got)
	}
}
