package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/lazycodex/internal/models"
	"github.com/rebeliceyang/lazycodex/internal/ui/theme"
)

// FavoritesMode represents the dialog mode
type FavoritesMode int

const (
	FavoritesModeList FavoritesMode = iota
	FavoritesModeAdd
	FavoritesModeEdit
)

// ExecuteFavoriteMsg is sent when a favorite should be opened
type ExecuteFavoriteMsg struct {
	Favorite models.Favorite
}

// SaveFavoriteMsg is sent when the add or edit form is submitted.
// ID is empty for a new favorite.
type SaveFavoriteMsg struct {
	ID          string
	Name        string
	Description string
	Tags        []string
	Resource    models.Resource
	Query       string
}

// DeleteFavoriteMsg is sent when a favorite should be deleted
type DeleteFavoriteMsg struct {
	ID string
}

// CloseFavoritesDialogMsg is sent when dialog should close
type CloseFavoritesDialogMsg struct{}

const (
	fieldName = iota
	fieldDescription
	fieldTags
	fieldCount
)

// FavoritesDialog lists and edits saved queries
type FavoritesDialog struct {
	Width  int
	Height int
	Theme  theme.Theme

	mode      FavoritesMode
	favorites []models.Favorite
	selected  int
	offset    int

	// Add/Edit state
	editID       string
	resource     models.Resource
	query        string
	inputs       [fieldCount]string
	currentField int
}

// NewFavoritesDialog creates a new favorites dialog
func NewFavoritesDialog(th theme.Theme) *FavoritesDialog {
	return &FavoritesDialog{
		Width:     80,
		Height:    24,
		Theme:     th,
		mode:      FavoritesModeList,
		favorites: []models.Favorite{},
	}
}

// Mode returns the current mode
func (fd *FavoritesDialog) Mode() FavoritesMode {
	return fd.mode
}

// SetFavorites updates the favorites list
func (fd *FavoritesDialog) SetFavorites(favorites []models.Favorite) {
	fd.favorites = favorites
	if fd.selected >= len(favorites) {
		fd.selected = max(len(favorites)-1, 0)
	}
	fd.offset = min(fd.offset, fd.selected)
}

// StartAdd opens the form for saving query, the encoded parameters of a
// resource page
func (fd *FavoritesDialog) StartAdd(resource models.Resource, query string) {
	fd.mode = FavoritesModeAdd
	fd.editID = ""
	fd.resource = resource
	fd.query = query
	fd.inputs = [fieldCount]string{}
	fd.currentField = fieldName
}

// Update handles keyboard input
func (fd *FavoritesDialog) Update(msg tea.KeyMsg) (*FavoritesDialog, tea.Cmd) {
	switch fd.mode {
	case FavoritesModeAdd, FavoritesModeEdit:
		return fd.handleEditMode(msg)
	default:
		return fd.handleListMode(msg)
	}
}

func (fd *FavoritesDialog) visibleRows() int {
	// every favorite takes two lines
	return max((fd.Height-6)/2, 1)
}

func (fd *FavoritesDialog) handleListMode(msg tea.KeyMsg) (*FavoritesDialog, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "F":
		return fd, func() tea.Msg {
			return CloseFavoritesDialogMsg{}
		}
	case "up", "k":
		if fd.selected > 0 {
			fd.selected--
			if fd.selected < fd.offset {
				fd.offset = fd.selected
			}
		}
	case "down", "j":
		if fd.selected < len(fd.favorites)-1 {
			fd.selected++
			if fd.selected >= fd.offset+fd.visibleRows() {
				fd.offset = fd.selected - fd.visibleRows() + 1
			}
		}
	case "enter":
		if fd.selected < len(fd.favorites) {
			fav := fd.favorites[fd.selected]
			return fd, func() tea.Msg {
				return ExecuteFavoriteMsg{Favorite: fav}
			}
		}
	case "e":
		if fd.selected < len(fd.favorites) {
			fav := fd.favorites[fd.selected]
			fd.mode = FavoritesModeEdit
			fd.editID = fav.ID
			fd.resource = fav.Resource
			fd.query = fav.Query
			fd.inputs = [fieldCount]string{fav.Name, fav.Description, strings.Join(fav.Tags, ", ")}
			fd.currentField = fieldName
		}
	case "d", "x":
		if fd.selected < len(fd.favorites) {
			id := fd.favorites[fd.selected].ID
			return fd, func() tea.Msg {
				return DeleteFavoriteMsg{ID: id}
			}
		}
	}
	return fd, nil
}

func (fd *FavoritesDialog) handleEditMode(msg tea.KeyMsg) (*FavoritesDialog, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		fd.mode = FavoritesModeList
	case tea.KeyTab:
		fd.currentField = (fd.currentField + 1) % fieldCount
	case tea.KeyShiftTab:
		fd.currentField = (fd.currentField - 1 + fieldCount) % fieldCount
	case tea.KeyBackspace:
		input := []rune(fd.inputs[fd.currentField])
		if len(input) > 0 {
			fd.inputs[fd.currentField] = string(input[:len(input)-1])
		}
	case tea.KeyEnter:
		if fd.currentField < fieldCount-1 {
			fd.currentField++
			return fd, nil
		}
		save := SaveFavoriteMsg{
			ID:          fd.editID,
			Name:        fd.inputs[fieldName],
			Description: fd.inputs[fieldDescription],
			Tags:        parseTags(fd.inputs[fieldTags]),
			Resource:    fd.resource,
			Query:       fd.query,
		}
		fd.mode = FavoritesModeList
		return fd, func() tea.Msg { return save }
	case tea.KeyRunes, tea.KeySpace:
		fd.inputs[fd.currentField] += string(msg.Runes)
	}
	return fd, nil
}

func parseTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// View renders the dialog
func (fd *FavoritesDialog) View() string {
	var body string
	switch fd.mode {
	case FavoritesModeAdd, FavoritesModeEdit:
		body = fd.renderEdit()
	default:
		body = fd.renderList()
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fd.Theme.BorderFocused).
		Width(fd.Width).
		Height(fd.Height).
		Padding(1).
		Render(body)
}

func (fd *FavoritesDialog) title(text string) string {
	return lipgloss.NewStyle().
		Foreground(fd.Theme.Background).
		Background(fd.Theme.Info).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

func (fd *FavoritesDialog) instructions(text string) string {
	return lipgloss.NewStyle().
		Foreground(fd.Theme.Metadata).
		Padding(0, 1).
		Render(text)
}

func (fd *FavoritesDialog) renderList() string {
	sections := []string{
		fd.title("Favorite Queries"),
		fd.instructions("↑↓: Navigate  Enter: Open  e: Edit  d: Delete  Esc: Close"),
		"",
	}

	if len(fd.favorites) == 0 {
		sections = append(sections, "No favorites yet. Press Ctrl+S on a results page to save one.")
		return strings.Join(sections, "\n")
	}

	meta := lipgloss.NewStyle().Foreground(fd.Theme.Metadata)
	end := min(fd.offset+fd.visibleRows(), len(fd.favorites))
	for i := fd.offset; i < end; i++ {
		fav := fd.favorites[i]

		line := runewidth.Truncate(fav.Name, 40, "...") + meta.Render(" · "+string(fav.Resource))
		if fav.UsageCount > 0 {
			line += meta.Render(fmt.Sprintf(" · used %d×", fav.UsageCount))
		}
		detail := fav.Description
		if detail == "" {
			detail = "?" + fav.Query
		}
		line += "\n  " + runewidth.Truncate(detail, fd.Width-8, "...")
		if len(fav.Tags) > 0 {
			line += meta.Render(fmt.Sprintf(" [%s]", strings.Join(fav.Tags, ", ")))
		}

		style := lipgloss.NewStyle().Padding(0, 1)
		if i == fd.selected {
			style = style.Background(fd.Theme.Selection).Foreground(fd.Theme.Foreground)
		}
		sections = append(sections, style.Render(line))
	}

	return strings.Join(sections, "\n")
}

func (fd *FavoritesDialog) renderEdit() string {
	title := "Save Favorite"
	if fd.mode == FavoritesModeEdit {
		title = "Edit Favorite"
	}

	query := fd.query
	if query == "" {
		query = "(default query)"
	}

	meta := lipgloss.NewStyle().Foreground(fd.Theme.Metadata).Padding(0, 1)
	return strings.Join([]string{
		fd.title(title),
		fd.instructions("Tab: Next field  Enter: Next/Save  Esc: Cancel"),
		"",
		meta.Render(fmt.Sprintf("%s ?%s", fd.resource, runewidth.Truncate(query, fd.Width-16, "..."))),
		"",
		fd.renderField("Name:", fd.inputs[fieldName], fd.currentField == fieldName),
		fd.renderField("Description:", fd.inputs[fieldDescription], fd.currentField == fieldDescription),
		fd.renderField("Tags (comma separated):", fd.inputs[fieldTags], fd.currentField == fieldTags),
	}, "\n")
}

func (fd *FavoritesDialog) renderField(label, value string, active bool) string {
	style := lipgloss.NewStyle().Padding(0, 1)
	if active {
		style = style.Background(fd.Theme.Selection).Foreground(fd.Theme.Foreground)
		value += "_"
	}
	return style.Render(fmt.Sprintf("%s %s", label, value))
}
