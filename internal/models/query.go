package models

// SortDirection is the ordering of the sort field
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Valid reports whether d is asc or desc
func (d SortDirection) Valid() bool {
	return d == SortAsc || d == SortDesc
}

// Toggle flips asc and desc
func (d SortDirection) Toggle() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// QueryState is the complete, serializable shape of one search request.
// It is replaced wholesale on every change, never edited in place.
type QueryState struct {
	Page          int            `json:"page" yaml:"page"`
	Size          int            `json:"size" yaml:"size"`
	SortBy        string         `json:"sort_by" yaml:"sort_by"`
	SortDirection SortDirection  `json:"sort_direction" yaml:"sort_direction"`
	Q             string         `json:"q" yaml:"q"`
	Filters       []FilterClause `json:"filters" yaml:"filters"`
}

// Clone returns a deep copy of the state
func (s QueryState) Clone() QueryState {
	filters := make([]FilterClause, len(s.Filters))
	for i, f := range s.Filters {
		filters[i] = f.Clone()
	}
	s.Filters = filters
	return s
}

// HasFilters reports whether any filter clause is set
func (s QueryState) HasFilters() bool {
	return len(s.Filters) > 0
}
