package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazycodex/internal/ui/theme"
)

// SearchChangedMsg is sent whenever the free text changes. The query hook
// debounces, so every keystroke may be forwarded.
type SearchChangedMsg struct {
	Q string
}

// CloseSearchMsg is sent when search should be closed
type CloseSearchMsg struct{}

// SearchInput is the free-text search box
type SearchInput struct {
	Input textinput.Model
	Theme theme.Theme
	Width int
}

// NewSearchInput creates a new search input
func NewSearchInput(th theme.Theme) *SearchInput {
	ti := textinput.New()
	ti.Placeholder = "Search names and descriptions..."
	ti.Prompt = "/ "
	ti.CharLimit = 256
	ti.Width = 40

	return &SearchInput{
		Input: ti,
		Theme: th,
	}
}

// Open focuses the box showing the current free text
func (s *SearchInput) Open(q string) tea.Cmd {
	s.Input.SetValue(q)
	s.Input.CursorEnd()
	return s.Input.Focus()
}

// Update handles messages
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", "esc":
			s.Input.Blur()
			return s, func() tea.Msg {
				return CloseSearchMsg{}
			}
		case "ctrl+u":
			s.Input.SetValue("")
			return s, changed("")
		}
	}

	before := s.Input.Value()
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	if after := s.Input.Value(); after != before {
		return s, tea.Batch(cmd, changed(after))
	}
	return s, cmd
}

func changed(q string) tea.Cmd {
	return func() tea.Msg {
		return SearchChangedMsg{Q: q}
	}
}

// View renders the search input
func (s *SearchInput) View() string {
	s.Input.Width = max(s.Width-6, 20)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.BorderFocused).
		Padding(0, 1).
		Width(max(s.Width-2, 24))

	helpStyle := lipgloss.NewStyle().
		Foreground(s.Theme.Metadata).
		Italic(true)

	helpText := helpStyle.Render("Enter/Esc: close │ Ctrl+U: clear")
	return boxStyle.Render(s.Input.View() + "\n" + helpText)
}
