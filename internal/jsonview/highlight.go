package jsonview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette styles the tokens of a JSON document
type Palette struct {
	Key     lipgloss.Style
	String  lipgloss.Style
	Number  lipgloss.Style
	Boolean lipgloss.Style
	Null    lipgloss.Style
}

// Highlight colors formatted JSON text token by token. Whitespace and
// punctuation are left untouched, so the layout of src is preserved.
func Highlight(src string, p Palette) string {
	var b strings.Builder
	b.Grow(len(src) * 2)

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"':
			end := stringEnd(src, i)
			token := src[i:end]
			if isKey(src, end) {
				b.WriteString(p.Key.Render(token))
			} else {
				b.WriteString(p.String.Render(token))
			}
			i = end
		case c == '-' || (c >= '0' && c <= '9'):
			end := i + 1
			for end < len(src) && strings.IndexByte("0123456789.eE+-", src[end]) >= 0 {
				end++
			}
			b.WriteString(p.Number.Render(src[i:end]))
			i = end
		case strings.HasPrefix(src[i:], "true"):
			b.WriteString(p.Boolean.Render("true"))
			i += 4
		case strings.HasPrefix(src[i:], "false"):
			b.WriteString(p.Boolean.Render("false"))
			i += 5
		case strings.HasPrefix(src[i:], "null"):
			b.WriteString(p.Null.Render("null"))
			i += 4
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// stringEnd returns the index just past the string literal starting at start
func stringEnd(src string, start int) int {
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(src)
}

func isKey(src string, after int) bool {
	rest := strings.TrimLeft(src[after:], " \t")
	return strings.HasPrefix(rest, ":")
}
