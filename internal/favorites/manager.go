package favorites

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rebeliceyang/lazycodex/internal/export"
	"github.com/rebeliceyang/lazycodex/internal/models"
)

// FileName is the favorites file inside the config directory
const FileName = "favorites.yaml"

var (
	ErrNotFound      = errors.New("favorite not found")
	ErrDuplicateName = errors.New("favorite name already exists")
	ErrEmptyName     = errors.New("favorite name cannot be empty")
)

// Manager manages saved queries
type Manager struct {
	mu        sync.Mutex
	path      string
	favorites []models.Favorite
	now       func() time.Time
}

// NewManager creates a new favorites manager
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, FileName)

	m := &Manager{
		path:      path,
		favorites: []models.Favorite{},
		now:       time.Now,
	}

	// Load existing favorites if file exists
	if _, err := os.Stat(path); err == nil {
		if err := m.load(); err != nil {
			return nil, fmt.Errorf("failed to load favorites: %w", err)
		}
	}

	return m, nil
}

// Path returns the favorites file
func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read favorites file: %w", err)
	}

	var favorites []models.Favorite
	if err := yaml.Unmarshal(data, &favorites); err != nil {
		return fmt.Errorf("failed to parse favorites: %w", err)
	}
	if favorites != nil {
		m.favorites = favorites
	}
	return nil
}

func (m *Manager) save() error {
	data, err := yaml.Marshal(m.favorites)
	if err != nil {
		return fmt.Errorf("failed to marshal favorites: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write favorites file: %w", err)
	}
	return nil
}

// normalizeQuery checks that query is a parseable parameter string and
// returns it without a leading "?"
func normalizeQuery(query string) (string, error) {
	query = strings.TrimPrefix(strings.TrimSpace(query), "?")
	if _, err := url.ParseQuery(query); err != nil {
		return "", fmt.Errorf("invalid favorite query: %w", err)
	}
	return query, nil
}

func (m *Manager) checkName(id, name string) error {
	if name == "" {
		return ErrEmptyName
	}
	// names are case-insensitive
	for _, fav := range m.favorites {
		if fav.ID != id && strings.EqualFold(fav.Name, name) {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	return nil
}

func (m *Manager) index(id string) (int, error) {
	for i, fav := range m.favorites {
		if fav.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Add saves query, the encoded parameters of a resource page, under name
func (m *Manager) Add(name, description string, resource models.Resource, query string, tags []string) (*models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = strings.TrimSpace(name)
	if err := m.checkName("", name); err != nil {
		return nil, err
	}
	if !resource.Valid() {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}
	query, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	now := m.now()
	favorite := models.Favorite{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Resource:    resource,
		Query:       query,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.favorites = append(m.favorites, favorite)
	if err := m.save(); err != nil {
		m.favorites = m.favorites[:len(m.favorites)-1]
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}

	return &favorite, nil
}

// Update replaces the name, description, query and tags of a favorite
func (m *Manager) Update(id, name, description, query string, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = strings.TrimSpace(name)
	if err := m.checkName(id, name); err != nil {
		return err
	}
	query, err := normalizeQuery(query)
	if err != nil {
		return err
	}
	i, err := m.index(id)
	if err != nil {
		return err
	}

	prev := m.favorites[i]
	m.favorites[i].Name = name
	m.favorites[i].Description = strings.TrimSpace(description)
	m.favorites[i].Query = query
	m.favorites[i].Tags = tags
	m.favorites[i].UpdatedAt = m.now()
	if err := m.save(); err != nil {
		m.favorites[i] = prev
		return fmt.Errorf("failed to save favorite: %w", err)
	}
	return nil
}

// Delete deletes a favorite by ID
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, err := m.index(id)
	if err != nil {
		return err
	}
	m.favorites = append(m.favorites[:i:i], m.favorites[i+1:]...)
	if err := m.save(); err != nil {
		return fmt.Errorf("failed to save favorites after deletion: %w", err)
	}
	return nil
}

// Get returns a favorite by ID or, failing that, by name
func (m *Manager) Get(ref string) (*models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, fav := range m.favorites {
		if fav.ID == ref {
			return &fav, nil
		}
	}
	for _, fav := range m.favorites {
		if strings.EqualFold(fav.Name, ref) {
			return &fav, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

// List returns all favorites, optionally only those of one resource
func (m *Manager) List(resource models.Resource) []models.Favorite {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Favorite, 0, len(m.favorites))
	for _, fav := range m.favorites {
		if resource == "" || fav.Resource == resource {
			out = append(out, fav)
		}
	}
	return out
}

// Search searches favorites by name, description, or tags
func (m *Manager) Search(text string) []models.Favorite {
	if text == "" {
		return m.List("")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	text = strings.ToLower(text)
	var results []models.Favorite
	for _, fav := range m.favorites {
		if strings.Contains(strings.ToLower(fav.Name), text) ||
			strings.Contains(strings.ToLower(fav.Description), text) {
			results = append(results, fav)
			continue
		}
		for _, tag := range fav.Tags {
			if strings.Contains(strings.ToLower(tag), text) {
				results = append(results, fav)
				break
			}
		}
	}
	return results
}

// MarkUsed updates usage statistics for a favorite
func (m *Manager) MarkUsed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, err := m.index(id)
	if err != nil {
		return err
	}
	m.favorites[i].UsageCount++
	m.favorites[i].LastUsed = m.now()
	if err := m.save(); err != nil {
		return fmt.Errorf("failed to save usage statistics: %w", err)
	}
	return nil
}

// MostUsed returns the most frequently used favorites
func (m *Manager) MostUsed(limit int) []models.Favorite {
	sorted := m.List("")
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UsageCount > sorted[j].UsageCount
	})
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

// Recent returns the most recently used favorites
func (m *Manager) Recent(limit int) []models.Favorite {
	sorted := m.List("")
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastUsed.After(sorted[j].LastUsed)
	})
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

// Export writes all favorites next to the favorites file, or to
// customPath when given. format is "csv" or "json".
func (m *Manager) Export(format export.Format, customPath string) (string, error) {
	favorites := m.List("")
	if len(favorites) == 0 {
		return "", fmt.Errorf("no favorites to export")
	}

	path := customPath
	if path == "" {
		path = filepath.Join(filepath.Dir(m.path), "favorites."+string(format))
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := export.Favorites(f, format, favorites); err != nil {
		return "", err
	}
	return path, nil
}
