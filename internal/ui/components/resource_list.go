package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazycodex/internal/models"
	"github.com/rebeliceyang/lazycodex/internal/ui/theme"
)

// SelectResourceMsg is sent when a resource page should be shown
type SelectResourceMsg struct {
	Resource models.Resource
}

// ResourceItem is one entry of the resource list
type ResourceItem struct {
	Resource models.Resource
	Title    string
}

// ResourceList is the navigation list of resource pages
type ResourceList struct {
	Items  []ResourceItem
	Cursor int
	Active models.Resource
	Width  int
	Height int
	Theme  theme.Theme

	// Counts holds the last known result count per resource
	Counts map[models.Resource]int
}

// NewResourceList creates a resource list
func NewResourceList(items []ResourceItem, th theme.Theme) *ResourceList {
	rl := &ResourceList{
		Items:  items,
		Theme:  th,
		Counts: make(map[models.Resource]int),
	}
	if len(items) > 0 {
		rl.Active = items[0].Resource
	}
	return rl
}

// Update handles keyboard input
func (rl *ResourceList) Update(msg tea.KeyMsg) (*ResourceList, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if rl.Cursor > 0 {
			rl.Cursor--
		}
	case "down", "j":
		if rl.Cursor < len(rl.Items)-1 {
			rl.Cursor++
		}
	case "enter", "l", "right":
		if rl.Cursor < len(rl.Items) {
			return rl, rl.Select(rl.Cursor)
		}
	}
	return rl, nil
}

// Select activates item i
func (rl *ResourceList) Select(i int) tea.Cmd {
	if i < 0 || i >= len(rl.Items) {
		return nil
	}
	rl.Cursor = i
	res := rl.Items[i].Resource
	rl.Active = res
	return func() tea.Msg {
		return SelectResourceMsg{Resource: res}
	}
}

// View renders the list
func (rl *ResourceList) View() string {
	var lines []string
	for i, item := range rl.Items {
		marker := "  "
		if item.Resource == rl.Active {
			marker = "▸ "
		}
		label := fmt.Sprintf("%s%d %s", marker, i+1, item.Title)
		if n, ok := rl.Counts[item.Resource]; ok {
			label += lipgloss.NewStyle().Foreground(rl.Theme.Metadata).Render(fmt.Sprintf(" (%d)", n))
		}

		style := lipgloss.NewStyle().Width(max(rl.Width, 10))
		if i == rl.Cursor {
			style = style.Background(rl.Theme.Selection).Foreground(rl.Theme.Foreground).Bold(true)
		}
		if item.Resource == rl.Active {
			style = style.Foreground(rl.Theme.BorderFocused)
		}
		lines = append(lines, style.Render(label))
	}
	return strings.Join(lines, "\n")
}
