package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rebeliceyang/lazycodex/internal/models"
)

// FullTextField is the synthetic field the free-text search is folded into
const FullTextField = "full_text"

// Builder generates search request bodies from QueryState values
type Builder struct {
	fullTextField string
}

// NewBuilder creates a new filter builder
func NewBuilder() *Builder {
	return &Builder{fullTextField: FullTextField}
}

// BuildRequest generates the wire body for a query state
func (b *Builder) BuildRequest(state models.QueryState) models.SearchRequest {
	return models.SearchRequest{
		Pagination: models.RequestPagination{Page: state.Page, Size: state.Size},
		Sorting:    models.RequestSorting{By: state.SortBy, Direction: state.SortDirection},
		Filter:     models.RequestFilter{Filters: b.BuildFilters(state)},
	}
}

// Marshal renders the wire body of a state as JSON
func (b *Builder) Marshal(state models.QueryState) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(b.BuildRequest(state)); err != nil {
		return nil, fmt.Errorf("marshaling search request: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// BuildFilters transforms the clauses of a state for transmission.
// The result is never nil so the body always carries "filters": [].
func (b *Builder) BuildFilters(state models.QueryState) []models.FilterClause {
	filters := make([]models.FilterClause, 0, len(state.Filters)+1)
	for _, f := range state.Filters {
		filters = append(filters, b.buildClause(f))
	}
	if state.Q != "" {
		filters = append(filters, models.FilterClause{
			Field:      b.fullTextField,
			Comparator: models.CmpILike,
			Value:      Wildcard(state.Q),
		})
	}
	return filters
}

// buildClause wildcards like-family values; everything else passes through
func (b *Builder) buildClause(f models.FilterClause) models.FilterClause {
	out := f.Clone()
	if f.Comparator.IsLike() {
		out.Value = Wildcard(f.Value)
	}
	return out
}

// Wildcard wraps a value in substring markers
func Wildcard(v any) string {
	return "%" + FormatValue(v) + "%"
}

// Describe renders a clause as one readable line, e.g. `Health >= 50`
func Describe(fields models.FieldSet, f models.FilterClause) string {
	label := fields.Label(f.Field)
	if f.Comparator.IsNullTest() {
		return fmt.Sprintf("%s %s", label, strings.ToLower(Label(f.Comparator)))
	}
	cmp := Label(f.Comparator)
	if len(cmp) > 2 {
		cmp = strings.ToLower(cmp)
	}
	return fmt.Sprintf("%s %s %s", label, cmp, FormatValue(f.Value))
}

// FormatValue renders a clause value the way a user would type it
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
