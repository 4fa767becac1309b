package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebeliceyang/lazycodex/internal/models"
	"github.com/rebeliceyang/lazycodex/internal/ui/theme"
)

func searchChanges(cmd tea.Cmd) []string {
	var out []string
	for _, msg := range drain(cmd) {
		if m, ok := msg.(SearchChangedMsg); ok {
			out = append(out, m.Q)
		}
	}
	return out
}

func TestSearchInput_EmitsChanges(t *testing.T) {
	s := NewSearchInput(theme.DefaultTheme())
	s.Open("dr")
	if s.Input.Value() != "dr" || !s.Input.Focused() {
		t.Fatalf("Expected focused input with current text, got %q", s.Input.Value())
	}

	s, cmd := s.Update(keyRunes("a"))
	if got := searchChanges(cmd); len(got) != 1 || got[0] != "dra" {
		t.Errorf("Expected change to \"dra\", got %q", got)
	}

	// cursor movement leaves the text alone
	s, cmd = s.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := searchChanges(cmd); len(got) != 0 {
		t.Errorf("Expected no change on cursor move, got %q", got)
	}

	s, cmd = s.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	if got := searchChanges(cmd); len(got) != 1 || got[0] != "" {
		t.Errorf("Expected clear, got %q", got)
	}

	_, cmd = s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := cmd().(CloseSearchMsg); !ok {
		t.Errorf("Expected CloseSearchMsg, got %T", cmd())
	}
}

func TestResourceList_Select(t *testing.T) {
	rl := NewResourceList([]ResourceItem{
		{Resource: models.ResourceCreatures, Title: "Creatures"},
		{Resource: models.ResourceSpells, Title: "Spells"},
	}, theme.DefaultTheme())
	if rl.Active != models.ResourceCreatures {
		t.Errorf("Expected first item active, got %q", rl.Active)
	}

	rl, _ = rl.Update(tea.KeyMsg{Type: tea.KeyDown})
	rl, _ = rl.Update(tea.KeyMsg{Type: tea.KeyDown})
	if rl.Cursor != 1 {
		t.Errorf("Expected cursor clamped at 1, got %d", rl.Cursor)
	}
	_, cmd := rl.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg, ok := cmd().(SelectResourceMsg)
	if !ok || msg.Resource != models.ResourceSpells {
		t.Errorf("Expected SelectResourceMsg for spells, got %#v", cmd())
	}
	if rl.Active != models.ResourceSpells {
		t.Errorf("Expected spells active, got %q", rl.Active)
	}

	if rl.Select(5) != nil {
		t.Error("Expected no command for an out of range item")
	}

	rl.Counts[models.ResourceSpells] = 42
	rl.Width = 30
	if view := rl.View(); !containsAll(view, "1 Creatures", "2 Spells", "(42)") {
		t.Errorf("Unexpected view:\n%s", view)
	}
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
