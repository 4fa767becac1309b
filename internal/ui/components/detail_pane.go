package components

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/lazycodex/internal/jsonview"
	"github.com/rebeliceyang/lazycodex/internal/ui/theme"
)

// DetailPane shows one entity as highlighted JSON
type DetailPane struct {
	Width  int
	Height int
	Title  string
	Theme  theme.Theme

	// Raw is the formatted JSON, BugURL the prefilled report form
	Raw    string
	BugURL string

	scrollY int
	lines   []string
	wrapped int // width lines were wrapped for

	// writeClipboard is swapped in tests
	writeClipboard func(string) error
}

// NewDetailPane creates a detail pane
func NewDetailPane(th theme.Theme) *DetailPane {
	return &DetailPane{
		Width:          80,
		Height:         20,
		Theme:          th,
		writeClipboard: clipboard.WriteAll,
	}
}

// SetEntity formats entity for display
func (p *DetailPane) SetEntity(title string, entity any, bugURL string) error {
	raw, err := jsonview.Format(entity)
	if err != nil {
		return err
	}
	p.Title = title
	p.Raw = raw
	p.BugURL = bugURL
	p.scrollY = 0
	p.lines = nil
	return nil
}

func (p *DetailPane) contentWidth() int {
	return max(p.Width-4, 10)
}

func (p *DetailPane) contentHeight() int {
	// title, blank line and footer
	return max(p.Height-5, 1)
}

// format highlights and wraps the JSON for the current width
func (p *DetailPane) format() {
	palette := jsonview.Palette{
		Key:     lipgloss.NewStyle().Foreground(p.Theme.JSONKey),
		String:  lipgloss.NewStyle().Foreground(p.Theme.JSONString),
		Number:  lipgloss.NewStyle().Foreground(p.Theme.JSONNumber),
		Boolean: lipgloss.NewStyle().Foreground(p.Theme.JSONBoolean),
		Null:    lipgloss.NewStyle().Foreground(p.Theme.JSONNull),
	}

	width := p.contentWidth()
	p.lines = p.lines[:0]
	for _, line := range wrapText(p.Raw, width) {
		p.lines = append(p.lines, jsonview.Highlight(line, palette))
	}
	p.wrapped = width
}

// wrapText wraps text to fit within maxWidth cells
func wrapText(text string, maxWidth int) []string {
	var result []string
	for _, line := range strings.Split(text, "\n") {
		if runewidth.StringWidth(line) <= maxWidth {
			result = append(result, line)
			continue
		}

		current := ""
		currentWidth := 0
		for _, r := range line {
			rWidth := runewidth.RuneWidth(r)
			if currentWidth+rWidth > maxWidth {
				result = append(result, current)
				current = string(r)
				currentWidth = rWidth
			} else {
				current += string(r)
				currentWidth += rWidth
			}
		}
		if current != "" {
			result = append(result, current)
		}
	}
	return result
}

func (p *DetailPane) ensureFormatted() {
	if p.lines == nil || p.wrapped != p.contentWidth() {
		p.format()
	}
}

// ScrollUp scrolls content up
func (p *DetailPane) ScrollUp() {
	if p.scrollY > 0 {
		p.scrollY--
	}
}

// ScrollDown scrolls content down
func (p *DetailPane) ScrollDown() {
	p.ensureFormatted()
	maxScroll := max(len(p.lines)-p.contentHeight(), 0)
	if p.scrollY < maxScroll {
		p.scrollY++
	}
}

// CopyContent copies the JSON to the clipboard
func (p *DetailPane) CopyContent() error {
	return p.writeClipboard(p.Raw)
}

// CopyBugURL copies the bug report link to the clipboard
func (p *DetailPane) CopyBugURL() error {
	return p.writeClipboard(p.BugURL)
}

// View renders the detail pane
func (p *DetailPane) View() string {
	p.ensureFormatted()

	titleStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Info).
		Bold(true)
	header := titleStyle.Render(runewidth.Truncate(p.Title, p.contentWidth(), "…"))

	end := min(p.scrollY+p.contentHeight(), len(p.lines))
	body := strings.Join(p.lines[p.scrollY:end], "\n")

	helpParts := []string{"↑↓: Scroll", "y: Copy JSON"}
	if p.BugURL != "" {
		helpParts = append(helpParts, "b: Copy bug report link")
	}
	helpParts = append(helpParts, "Esc: Back")
	footer := lipgloss.NewStyle().
		Foreground(p.Theme.Metadata).
		Italic(true).
		Render(strings.Join(helpParts, " │ "))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Theme.BorderFocused).
		Padding(0, 1).
		Width(p.Width - 2).
		Height(p.Height - 2).
		Render(header + "\n\n" + body + "\n" + footer)
}
