package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazycodex/internal/query"
	"github.com/rebeliceyang/lazycodex/internal/ui/theme"
)

// Pagination renders the paging state of a result page
type Pagination struct {
	Page   int // zero-based
	Size   int
	Count  int
	Status query.Status
	Theme  theme.Theme
}

// TotalPages returns the number of pages needed for count results
func TotalPages(count, size int) int {
	if size <= 0 || count <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// Range returns the one-based positions of the first and last result shown
func (p Pagination) Range() (from, to int) {
	if p.Count == 0 || p.Size <= 0 {
		return 0, 0
	}
	from = p.Page*p.Size + 1
	to = min(from+p.Size-1, p.Count)
	if from > p.Count {
		return 0, 0
	}
	return from, to
}

// Summary is the plain text of the bar, e.g. "Page 2/5 · 26-50 of 112"
func (p Pagination) Summary() string {
	pages := TotalPages(p.Count, p.Size)
	if pages == 0 {
		return "No results"
	}
	from, to := p.Range()
	if from == 0 {
		return fmt.Sprintf("Page %d/%d · past the last result of %d", p.Page+1, pages, p.Count)
	}
	return fmt.Sprintf("Page %d/%d · %d-%d of %d", p.Page+1, pages, from, to, p.Count)
}

// View renders the pagination bar with the fetch status
func (p Pagination) View() string {
	summary := lipgloss.NewStyle().Foreground(p.Theme.Foreground).Render(p.Summary())
	size := lipgloss.NewStyle().Foreground(p.Theme.Metadata).Render(fmt.Sprintf(" · %d per page", p.Size))

	var status string
	switch p.Status {
	case query.StatusDebouncing:
		status = lipgloss.NewStyle().Foreground(p.Theme.Warning).Render("  typing…")
	case query.StatusFetching:
		status = lipgloss.NewStyle().Foreground(p.Theme.Info).Render("  loading…")
	}
	return summary + size + status
}
