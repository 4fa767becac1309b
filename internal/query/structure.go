package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rebeliceyang/lazycodex/internal/filter"
	"github.com/rebeliceyang/lazycodex/internal/models"
)

// URL parameter names of a persisted query
const (
	ParamPage          = "page"
	ParamSize          = "size"
	ParamSortBy        = "sort_by"
	ParamSortDirection = "sort_direction"
	ParamQ             = "q"
	ParamFilters       = "filters"
)

const (
	DefaultSize    = 25
	DefaultSortBy  = "name"
	SuggestionSize = 10
)

// ErrInvalidParam is wrapped by every strict decoding failure
var ErrInvalidParam = errors.New("invalid query parameter")

// Structure describes the query of one entity type: which fields may be
// filtered and what an untouched query looks like.
type Structure struct {
	Fields   models.FieldSet
	Defaults models.QueryState
}

// Option customizes the defaults of a Structure
type Option func(*models.QueryState)

// WithSortBy sets the default sort field
func WithSortBy(field string) Option {
	return func(s *models.QueryState) { s.SortBy = field }
}

// WithSortDirection sets the default sort direction
func WithSortDirection(d models.SortDirection) Option {
	return func(s *models.QueryState) {
		if d.Valid() {
			s.SortDirection = d
		}
	}
}

// WithSize sets the default page length
func WithSize(size int) Option {
	return func(s *models.QueryState) {
		if size > 0 {
			s.Size = size
		}
	}
}

// NewStructure creates a structure with the standard defaults
// (page 0, size 25, sorted ascending by name, no text, no filters).
func NewStructure(fields models.FieldSet, opts ...Option) *Structure {
	defaults := models.QueryState{
		Page:          0,
		Size:          DefaultSize,
		SortBy:        DefaultSortBy,
		SortDirection: models.SortAsc,
		Q:             "",
		Filters:       []models.FilterClause{},
	}
	for _, opt := range opts {
		opt(&defaults)
	}
	return &Structure{Fields: fields, Defaults: defaults}
}

// Default returns a fresh copy of the default state
func (s *Structure) Default() models.QueryState {
	return s.Defaults.Clone()
}

// Encode maps a state onto URL parameters. Parameters equal to their
// default are left out.
func (s *Structure) Encode(state models.QueryState) url.Values {
	v := url.Values{}
	if state.Page != s.Defaults.Page {
		v.Set(ParamPage, strconv.Itoa(state.Page))
	}
	if state.Size != s.Defaults.Size {
		v.Set(ParamSize, strconv.Itoa(state.Size))
	}
	if state.SortBy != s.Defaults.SortBy {
		v.Set(ParamSortBy, state.SortBy)
	}
	if state.SortDirection != s.Defaults.SortDirection {
		v.Set(ParamSortDirection, string(state.SortDirection))
	}
	if state.Q != s.Defaults.Q {
		v.Set(ParamQ, state.Q)
	}
	if len(state.Filters) > 0 {
		v.Set(ParamFilters, encodeFilters(state.Filters))
	}
	return v
}

func encodeFilters(filters []models.FilterClause) string {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	// only fails on NaN or infinite numbers, which filter.Validate rejects
	// before a clause reaches a state
	_ = enc.Encode(filters)
	return strings.TrimRight(b.String(), "\n")
}

// Decode reads a state from URL parameters. Missing or malformed
// parameters take their default value and invalid filter clauses are
// dropped, so any link produces a usable state.
func (s *Structure) Decode(values url.Values) models.QueryState {
	state, _ := s.decode(values)
	return state
}

// Parse is the strict form of Decode: it returns the same state along
// with every problem found.
func (s *Structure) Parse(values url.Values) (models.QueryState, error) {
	return s.decode(values)
}

// ParseQuery parses an encoded query string such as "size=10&q=fire"
func (s *Structure) ParseQuery(raw string) (models.QueryState, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return s.Default(), fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}
	return s.decode(values)
}

func (s *Structure) decode(values url.Values) (models.QueryState, error) {
	state := s.Default()
	var errs []error

	if raw := values.Get(ParamPage); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidParam, ParamPage, raw))
		} else {
			state.Page = page
		}
	}
	if raw := values.Get(ParamSize); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidParam, ParamSize, raw))
		} else {
			state.Size = size
		}
	}
	if values.Has(ParamSortBy) {
		if raw := values.Get(ParamSortBy); raw != "" {
			state.SortBy = raw
		}
	}
	if raw := values.Get(ParamSortDirection); raw != "" {
		if d := models.SortDirection(raw); d.Valid() {
			state.SortDirection = d
		} else {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidParam, ParamSortDirection, raw))
		}
	}
	if values.Has(ParamQ) {
		state.Q = values.Get(ParamQ)
	}
	if raw := values.Get(ParamFilters); raw != "" {
		filters, err := s.decodeFilters(raw)
		if err != nil {
			errs = append(errs, err)
		}
		state.Filters = filters
	}

	return state, errors.Join(errs...)
}

func (s *Structure) decodeFilters(raw string) ([]models.FilterClause, error) {
	var decoded []models.FilterClause
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return s.Default().Filters, fmt.Errorf("%w: %s: %v", ErrInvalidParam, ParamFilters, err)
	}

	var errs []error
	filters := make([]models.FilterClause, 0, len(decoded))
	for i, f := range decoded {
		f.Value = filter.NormalizeValue(f.Value)
		if len(s.Fields) > 0 {
			if err := filter.Validate(s.Fields, f); err != nil {
				errs = append(errs, fmt.Errorf("%w: %s[%d]: %w", ErrInvalidParam, ParamFilters, i, err))
				continue
			}
		}
		filters = append(filters, f)
	}
	return filters, errors.Join(errs...)
}

// Link builds a shareable URL for a resource page showing state
func (s *Structure) Link(base string, resource models.Resource, state models.QueryState) string {
	link := strings.TrimRight(base, "/") + "/" + string(resource)
	if params := s.Encode(state).Encode(); params != "" {
		link += "?" + params
	}
	return link
}

// Validate checks every clause of a state against the structure's fields
func (s *Structure) Validate(state models.QueryState) error {
	var errs []error
	if state.Page < 0 {
		errs = append(errs, fmt.Errorf("%w: page %d", ErrInvalidParam, state.Page))
	}
	if state.Size <= 0 {
		errs = append(errs, fmt.Errorf("%w: size %d", ErrInvalidParam, state.Size))
	}
	if !state.SortDirection.Valid() {
		errs = append(errs, fmt.Errorf("%w: sort direction %q", ErrInvalidParam, state.SortDirection))
	}
	for i, f := range state.Filters {
		if err := filter.Validate(s.Fields, f); err != nil {
			errs = append(errs, fmt.Errorf("filter %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
