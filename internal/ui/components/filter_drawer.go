package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazycodex/internal/filter"
	"github.com/rebeliceyang/lazycodex/internal/models"
	"github.com/rebeliceyang/lazycodex/internal/ui/theme"
)

// AddFilterMsg asks for a clause to be appended to the query
type AddFilterMsg struct {
	Clause models.FilterClause
}

// UpdateFilterMsg asks for the clause at Index to be replaced
type UpdateFilterMsg struct {
	Index  int
	Clause models.FilterClause
}

// RemoveFilterMsg asks for the clause at Index to be removed
type RemoveFilterMsg struct {
	Index int
}

// ClearFiltersMsg asks for every clause to be removed
type ClearFiltersMsg struct{}

// SuggestRequestMsg asks for names of Resource starting like Partial
type SuggestRequestMsg struct {
	Resource models.Resource
	Partial  string
}

// SuggestionsMsg carries the answer to a SuggestRequestMsg
type SuggestionsMsg struct {
	Partial string
	Names   []string
	Err     error
}

// CloseFilterDrawerMsg is sent when the drawer should close
type CloseFilterDrawerMsg struct{}

type drawerMode int

const (
	drawerList drawerMode = iota
	drawerField
	drawerComparator
	drawerValue
)

// FilterDrawer lists the clauses of the current query and edits them one
// step at a time: field, then comparator, then value.
type FilterDrawer struct {
	Width  int
	Height int
	Theme  theme.Theme

	fields   models.FieldSet
	defaults filter.Defaults
	clauses  []models.FilterClause

	mode    drawerMode
	cursor  int
	editing int // index of the clause being edited, -1 for a new one
	draft   models.FilterClause

	fieldIndex int
	cmpIndex   int
	value      textinput.Model

	suggestions   []string
	suggestionIdx int

	validationError string
}

// NewFilterDrawer creates a filter drawer
func NewFilterDrawer(th theme.Theme, defaults filter.Defaults) *FilterDrawer {
	ti := textinput.New()
	ti.Prompt = "Value: "
	ti.CharLimit = 128

	return &FilterDrawer{
		Width:    60,
		Height:   20,
		Theme:    th,
		defaults: defaults,
		editing:  -1,
		value:    ti,
	}
}

// SetFields sets the filterable fields of the current resource
func (fd *FilterDrawer) SetFields(fields models.FieldSet) {
	fd.fields = fields
	fd.mode = drawerList
	fd.cursor = 0
}

// SetClauses mirrors the filters of the current query
func (fd *FilterDrawer) SetClauses(clauses []models.FilterClause) {
	fd.clauses = clauses
	if fd.cursor >= len(clauses) {
		fd.cursor = max(len(clauses)-1, 0)
	}
}

// Editing reports whether a clause is being drafted
func (fd *FilterDrawer) Editing() bool {
	return fd.mode != drawerList
}

// Draft returns the clause being drafted
func (fd *FilterDrawer) Draft() models.FilterClause {
	return fd.draft
}

// SetSuggestions shows names for the value being typed. Answers for an
// older partial are ignored.
func (fd *FilterDrawer) SetSuggestions(msg SuggestionsMsg) {
	if fd.mode != drawerValue || msg.Partial != fd.value.Value() || msg.Err != nil {
		return
	}
	fd.suggestions = msg.Names
	fd.suggestionIdx = 0
}

// Update handles keyboard input
func (fd *FilterDrawer) Update(msg tea.KeyMsg) (*FilterDrawer, tea.Cmd) {
	switch fd.mode {
	case drawerField:
		return fd.handleFieldMode(msg)
	case drawerComparator:
		return fd.handleComparatorMode(msg)
	case drawerValue:
		return fd.handleValueMode(msg)
	default:
		return fd.handleListMode(msg)
	}
}

func (fd *FilterDrawer) handleListMode(msg tea.KeyMsg) (*FilterDrawer, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if fd.cursor > 0 {
			fd.cursor--
		}
	case "down", "j":
		if fd.cursor < len(fd.clauses)-1 {
			fd.cursor++
		}
	case "a", "n":
		if len(fd.fields) == 0 {
			return fd, nil
		}
		clause, err := fd.defaults.NewClause(fd.fields, fd.fields[0].Name)
		if err != nil {
			fd.validationError = err.Error()
			return fd, nil
		}
		fd.startEdit(-1, clause)
	case "e", "enter":
		if fd.cursor < len(fd.clauses) {
			fd.startEdit(fd.cursor, fd.clauses[fd.cursor])
		}
	case "d", "x":
		if fd.cursor < len(fd.clauses) {
			index := fd.cursor
			return fd, func() tea.Msg { return RemoveFilterMsg{Index: index} }
		}
	case "X":
		if len(fd.clauses) > 0 {
			return fd, func() tea.Msg { return ClearFiltersMsg{} }
		}
	case "esc", "f":
		return fd, func() tea.Msg { return CloseFilterDrawerMsg{} }
	}
	return fd, nil
}

func (fd *FilterDrawer) startEdit(index int, clause models.FilterClause) {
	fd.editing = index
	fd.draft = clause
	fd.mode = drawerField
	fd.validationError = ""
	fd.fieldIndex = max(slices.IndexFunc(fd.fields, func(f models.FieldDescriptor) bool {
		return f.Name == clause.Field
	}), 0)
}

func (fd *FilterDrawer) handleFieldMode(msg tea.KeyMsg) (*FilterDrawer, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fd.mode = drawerList
		fd.validationError = ""
	case "up", "k":
		if fd.fieldIndex > 0 {
			fd.fieldIndex--
		}
	case "down", "j":
		if fd.fieldIndex < len(fd.fields)-1 {
			fd.fieldIndex++
		}
	case "enter", "tab":
		name := fd.fields[fd.fieldIndex].Name
		if name != fd.draft.Field {
			// a new field always starts from that field's defaults
			clause, err := fd.defaults.Reset(fd.fields, fd.draft, name)
			if err != nil {
				fd.validationError = err.Error()
				return fd, nil
			}
			fd.draft = clause
		}
		fd.mode = drawerComparator
		fd.cmpIndex = max(slices.Index(fd.comparators(), fd.draft.Comparator), 0)
	}
	return fd, nil
}

func (fd *FilterDrawer) comparators() []models.Comparator {
	desc, ok := fd.fields.Lookup(fd.draft.Field)
	if !ok {
		return nil
	}
	return filter.ComparatorsFor(desc.Type)
}

func (fd *FilterDrawer) handleComparatorMode(msg tea.KeyMsg) (*FilterDrawer, tea.Cmd) {
	comparators := fd.comparators()
	switch msg.String() {
	case "esc":
		fd.mode = drawerField
	case "up", "k":
		if fd.cmpIndex > 0 {
			fd.cmpIndex--
		}
	case "down", "j":
		if fd.cmpIndex < len(comparators)-1 {
			fd.cmpIndex++
		}
	case "enter", "tab":
		if fd.cmpIndex >= len(comparators) {
			return fd, nil
		}
		clause, err := fd.defaults.SetComparator(fd.fields, fd.draft, comparators[fd.cmpIndex])
		if err != nil {
			fd.validationError = err.Error()
			return fd, nil
		}
		fd.draft = clause
		if clause.Comparator.IsNullTest() {
			return fd, fd.commit()
		}
		fd.mode = drawerValue
		fd.suggestions = nil
		fd.value.SetValue(filter.FormatValue(clause.Value))
		fd.value.CursorEnd()
		return fd, tea.Batch(fd.value.Focus(), fd.suggest())
	}
	return fd, nil
}

func (fd *FilterDrawer) handleValueMode(msg tea.KeyMsg) (*FilterDrawer, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fd.value.Blur()
		fd.mode = drawerComparator
		fd.validationError = ""
		return fd, nil
	case "up":
		if fd.suggestionIdx > 0 {
			fd.suggestionIdx--
		}
		return fd, nil
	case "down":
		if fd.suggestionIdx < len(fd.suggestions)-1 {
			fd.suggestionIdx++
		}
		return fd, nil
	case "tab":
		if fd.suggestionIdx < len(fd.suggestions) {
			fd.value.SetValue(fd.suggestions[fd.suggestionIdx])
			fd.value.CursorEnd()
			fd.suggestions = nil
		}
		return fd, nil
	case "enter":
		clause, err := filter.SetValue(fd.fields, fd.draft, fd.value.Value())
		if err != nil {
			fd.validationError = err.Error()
			return fd, nil
		}
		fd.draft = clause
		fd.value.Blur()
		return fd, fd.commit()
	}

	before := fd.value.Value()
	var cmd tea.Cmd
	fd.value, cmd = fd.value.Update(msg)
	if fd.value.Value() != before {
		fd.validationError = ""
		return fd, tea.Batch(cmd, fd.suggest())
	}
	return fd, cmd
}

// suggest requests names when the drafted field refers to another resource
func (fd *FilterDrawer) suggest() tea.Cmd {
	desc, ok := fd.fields.Lookup(fd.draft.Field)
	if !ok || desc.Resource == "" || desc.Type != models.FieldString {
		return nil
	}
	partial := fd.value.Value()
	return func() tea.Msg {
		return SuggestRequestMsg{Resource: desc.Resource, Partial: partial}
	}
}

func (fd *FilterDrawer) commit() tea.Cmd {
	clause := fd.draft
	index := fd.editing
	fd.mode = drawerList
	fd.suggestions = nil
	fd.validationError = ""
	if index < 0 {
		fd.cursor = len(fd.clauses)
		return func() tea.Msg { return AddFilterMsg{Clause: clause} }
	}
	return func() tea.Msg { return UpdateFilterMsg{Index: index, Clause: clause} }
}

// View renders the filter drawer
func (fd *FilterDrawer) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(fd.Theme.Background).
		Background(fd.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Filters"))

	instructionStyle := lipgloss.NewStyle().
		Foreground(fd.Theme.Metadata).
		Padding(0, 1)

	var instructions string
	switch fd.mode {
	case drawerField:
		instructions = "↑↓ Select field, Enter to confirm, Esc to cancel"
	case drawerComparator:
		instructions = "↑↓ Select comparator, Enter to confirm, Esc to go back"
	case drawerValue:
		instructions = "Type value, Tab to take suggestion, Enter to confirm, Esc to go back"
	default:
		instructions = "a=Add e=Edit d=Delete X=Clear Esc=Close"
	}
	sections = append(sections, instructionStyle.Render(instructions))

	if fd.validationError != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(fd.Theme.Error).
			Padding(0, 1).
			Bold(true)
		sections = append(sections, errorStyle.Render("Error: "+fd.validationError))
	}

	sections = append(sections, "")
	if len(fd.clauses) == 0 {
		sections = append(sections, instructionStyle.Render("No filters. Press 'a' to add one."))
	}
	for i, clause := range fd.clauses {
		style := lipgloss.NewStyle().Padding(0, 1)
		if i == fd.cursor && fd.mode == drawerList {
			style = style.Background(fd.Theme.Selection).Foreground(fd.Theme.Foreground)
		}
		sections = append(sections, style.Render(fmt.Sprintf("%d. %s", i+1, fd.chip(clause))))
	}

	if fd.mode != drawerList {
		sections = append(sections, "", fd.renderEditor())
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fd.Theme.BorderFocused).
		Width(fd.Width).
		Padding(0, 1).
		Render(strings.Join(sections, "\n"))
}

// chip renders a clause as colored field, comparator and value
func (fd *FilterDrawer) chip(clause models.FilterClause) string {
	field := lipgloss.NewStyle().Foreground(fd.Theme.FilterField).Render(fd.fields.Label(clause.Field))
	cmp := lipgloss.NewStyle().Foreground(fd.Theme.FilterComparator).Render(filter.Label(clause.Comparator))
	if clause.Comparator.IsNullTest() {
		return field + " " + cmp
	}
	value := lipgloss.NewStyle().Foreground(fd.Theme.FilterValue).Render(filter.FormatValue(clause.Value))
	return field + " " + cmp + " " + value
}

func (fd *FilterDrawer) renderEditor() string {
	selected := lipgloss.NewStyle().Background(fd.Theme.Selection).Foreground(fd.Theme.Foreground)
	plain := lipgloss.NewStyle()

	title := "New filter"
	if fd.editing >= 0 {
		title = fmt.Sprintf("Edit filter %d", fd.editing+1)
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(title) + ": " + fd.chip(fd.draft),
	}

	switch fd.mode {
	case drawerField:
		for i, f := range fd.fields {
			style := plain
			if i == fd.fieldIndex {
				style = selected
			}
			lines = append(lines, style.Render(fmt.Sprintf("  %-16s %s", f.Label, f.Type)))
		}
	case drawerComparator:
		for i, c := range fd.comparators() {
			style := plain
			if i == fd.cmpIndex {
				style = selected
			}
			lines = append(lines, style.Render(fmt.Sprintf("  %-4s %s", c, filter.Label(c))))
		}
	case drawerValue:
		lines = append(lines, fd.value.View())
		for i, name := range fd.suggestions {
			style := lipgloss.NewStyle().Foreground(fd.Theme.Metadata)
			if i == fd.suggestionIdx {
				style = selected
			}
			lines = append(lines, style.Render("  "+name))
		}
	}
	return strings.Join(lines, "\n")
}
