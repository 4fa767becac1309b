package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazycodex/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// Section is a titled group of key bindings
type Section struct {
	Title string
	Keys  []KeyBinding
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit application"},
		{"Esc/Enter", "Dismiss error"},
		{"Tab", "Switch panel focus"},
		{"1-8", "Jump to resource"},
		{"r, F5", "Refresh current page"},
	}
}

// GetResultsKeys returns results table key bindings
func GetResultsKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k, ↓/j", "Move selection"},
		{"←/h, →/l", "Select column"},
		{"s", "Sort by column (toggles direction)"},
		{"n, ]", "Next page"},
		{"p, [", "Previous page"},
		{"+/-", "Grow or shrink page size"},
		{"Enter", "Open detail view"},
		{"y", "Copy link to current query"},
	}
}

// GetFilterKeys returns search and filter key bindings
func GetFilterKeys() []KeyBinding {
	return []KeyBinding{
		{"/", "Search all text"},
		{"f", "Open filter drawer"},
		{"a", "Add filter (in drawer)"},
		{"e, Enter", "Edit filter (in drawer)"},
		{"d, x", "Remove filter (in drawer)"},
		{"X", "Clear all filters"},
		{"Tab", "Accept suggestion (value input)"},
	}
}

// GetDetailKeys returns detail view key bindings
func GetDetailKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/↓", "Scroll"},
		{"y", "Copy JSON"},
		{"b", "Copy bug report link"},
		{"Esc", "Back to results"},
	}
}

// GetFavoritesKeys returns favorites key bindings
func GetFavoritesKeys() []KeyBinding {
	return []KeyBinding{
		{"F", "Open favorites"},
		{"Ctrl+S", "Save current query as favorite"},
	}
}

// Sections returns every help section in display order
func Sections() []Section {
	return []Section{
		{"Global", GetGlobalKeys()},
		{"Results", GetResultsKeys()},
		{"Search & Filters", GetFilterKeys()},
		{"Detail View", GetDetailKeys()},
		{"Favorites", GetFavoritesKeys()},
	}
}

// Render creates the help view
func Render(width, height int, th theme.Theme) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	b.WriteString(titleStyle.Render("lazycodex - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, section := range Sections() {
		b.WriteString(sectionStyle.Render(section.Title))
		b.WriteString("\n")
		for _, kb := range section.Keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(max(width-4, 20)).
		Height(max(height-4, 10))

	return boxStyle.Render(b.String())
}
