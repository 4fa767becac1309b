package help

import (
	"strings"
	"testing"

	"github.com/rebeliceyang/lazycodex/internal/ui/theme"
)

func TestSectionsHaveKeys(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range Sections() {
		if len(s.Keys) == 0 {
			t.Errorf("section %q has no keys", s.Title)
		}
		if seen[s.Title] {
			t.Errorf("duplicate section %q", s.Title)
		}
		seen[s.Title] = true
	}
}

func TestRender(t *testing.T) {
	view := Render(100, 60, theme.DefaultTheme())
	for _, want := range []string{"Keyboard Shortcuts", "Global", "Favorites", "Toggle help"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in help view", want)
		}
	}
}
