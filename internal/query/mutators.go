package query

import (
	"errors"
	"fmt"

	"github.com/rebeliceyang/lazycodex/internal/filter"
	"github.com/rebeliceyang/lazycodex/internal/models"
)

var (
	ErrIndexOutOfRange = errors.New("filter index out of range")
	ErrInvalidPage     = errors.New("page must not be negative")
	ErrInvalidSize     = errors.New("size must be positive")
)

// IndexError reports a filter index outside the current filter list
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("filter index %d out of range [0,%d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// SortAction overwrites the sort fields that are set
type SortAction struct {
	SortBy        *string
	SortDirection *models.SortDirection
}

// The functions below are pure: they return a new state and never touch
// the filter slice of their input.

// PageChange moves to another page
func PageChange(s models.QueryState, page int) models.QueryState {
	next := s.Clone()
	next.Page = page
	return next
}

// SizeChange changes the page length and goes back to the first page
func SizeChange(s models.QueryState, size int) models.QueryState {
	next := s.Clone()
	next.Size = size
	next.Page = 0
	return next
}

// ReduceSort applies a sort action
func ReduceSort(s models.QueryState, action SortAction) models.QueryState {
	next := s.Clone()
	if action.SortBy != nil {
		next.SortBy = *action.SortBy
	}
	if action.SortDirection != nil {
		next.SortDirection = *action.SortDirection
	}
	return next
}

// ToggleSort is the column header rule: the current sort field flips
// direction, any other field becomes the ascending sort field.
func ToggleSort(s models.QueryState, field string) models.QueryState {
	if field == s.SortBy {
		dir := s.SortDirection.Toggle()
		return ReduceSort(s, SortAction{SortDirection: &dir})
	}
	dir := models.SortAsc
	return ReduceSort(s, SortAction{SortBy: &field, SortDirection: &dir})
}

// QChange sets the free text search and goes back to the first page
func QChange(s models.QueryState, q string) models.QueryState {
	next := s.Clone()
	next.Q = q
	next.Page = 0
	return next
}

// UpdateFilter replaces the clause at index i
func UpdateFilter(s models.QueryState, i int, clause models.FilterClause) (models.QueryState, error) {
	if i < 0 || i >= len(s.Filters) {
		return s, &IndexError{Index: i, Len: len(s.Filters)}
	}
	next := s.Clone()
	next.Filters[i] = clause.Clone()
	next.Page = 0
	return next, nil
}

// AddFilter appends a clause
func AddFilter(s models.QueryState, clause models.FilterClause) models.QueryState {
	next := s.Clone()
	next.Filters = append(next.Filters, clause.Clone())
	next.Page = 0
	return next
}

// RemoveFilter drops the clause at index i, keeping the order of the rest
func RemoveFilter(s models.QueryState, i int) (models.QueryState, error) {
	if i < 0 || i >= len(s.Filters) {
		return s, &IndexError{Index: i, Len: len(s.Filters)}
	}
	next := s.Clone()
	next.Filters = append(next.Filters[:i], next.Filters[i+1:]...)
	next.Page = 0
	return next, nil
}

// ClearFilters removes every clause
func ClearFilters(s models.QueryState) models.QueryState {
	next := s.Clone()
	next.Filters = []models.FilterClause{}
	next.Page = 0
	return next
}

// UpdateFunc applies fn to the current state atomically and stores its result
// unless fn fails.
type UpdateFunc func(fn func(models.QueryState) (models.QueryState, error)) error

// Mutators is the set of query intents bound to one state owner. Clauses
// are validated against the structure's fields before they are applied.
type Mutators struct {
	structure *Structure
	resets    filter.Defaults
	update    UpdateFunc
}

// Bind creates mutators that write through update
func Bind(structure *Structure, resets filter.Defaults, update UpdateFunc) *Mutators {
	return &Mutators{structure: structure, resets: resets, update: update}
}

func pure(fn func(models.QueryState) models.QueryState) func(models.QueryState) (models.QueryState, error) {
	return func(s models.QueryState) (models.QueryState, error) { return fn(s), nil }
}

func (m *Mutators) PageChange(page int) error {
	if page < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	return m.update(pure(func(s models.QueryState) models.QueryState { return PageChange(s, page) }))
}

// NextPage advances one page unless the last page of count results is shown
func (m *Mutators) NextPage(count int) error {
	return m.update(func(s models.QueryState) (models.QueryState, error) {
		if (s.Page+1)*s.Size >= count {
			return s, nil
		}
		return PageChange(s, s.Page+1), nil
	})
}

func (m *Mutators) PrevPage() error {
	return m.update(func(s models.QueryState) (models.QueryState, error) {
		if s.Page == 0 {
			return s, nil
		}
		return PageChange(s, s.Page-1), nil
	})
}

func (m *Mutators) SizeChange(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return m.update(pure(func(s models.QueryState) models.QueryState { return SizeChange(s, size) }))
}

func (m *Mutators) ReduceSort(action SortAction) error {
	if action.SortDirection != nil && !action.SortDirection.Valid() {
		return fmt.Errorf("%w: sort direction %q", ErrInvalidParam, *action.SortDirection)
	}
	return m.update(pure(func(s models.QueryState) models.QueryState { return ReduceSort(s, action) }))
}

func (m *Mutators) ToggleSort(field string) error {
	return m.update(pure(func(s models.QueryState) models.QueryState { return ToggleSort(s, field) }))
}

func (m *Mutators) QChange(q string) error {
	return m.update(pure(func(s models.QueryState) models.QueryState { return QChange(s, q) }))
}

func (m *Mutators) UpdateFilter(i int, clause models.FilterClause) error {
	if err := filter.Validate(m.structure.Fields, clause); err != nil {
		return err
	}
	return m.update(func(s models.QueryState) (models.QueryState, error) {
		return UpdateFilter(s, i, clause)
	})
}

func (m *Mutators) AddFilter(clause models.FilterClause) error {
	if err := filter.Validate(m.structure.Fields, clause); err != nil {
		return err
	}
	return m.update(pure(func(s models.QueryState) models.QueryState { return AddFilter(s, clause) }))
}

// AddDefaultFilter appends a clause on field with that field's reset values
func (m *Mutators) AddDefaultFilter(field string) error {
	clause, err := m.resets.NewClause(m.structure.Fields, field)
	if err != nil {
		return err
	}
	return m.AddFilter(clause)
}

func (m *Mutators) RemoveFilter(i int) error {
	return m.update(func(s models.QueryState) (models.QueryState, error) {
		return RemoveFilter(s, i)
	})
}

func (m *Mutators) ClearFilters() error {
	return m.update(pure(ClearFilters))
}

// ChangeField moves the clause at i to another field, resetting its
// comparator and value.
func (m *Mutators) ChangeField(i int, field string) error {
	return m.editFilter(i, func(f models.FilterClause) (models.FilterClause, error) {
		return m.resets.Reset(m.structure.Fields, f, field)
	})
}

// ChangeComparator swaps the comparator of the clause at i
func (m *Mutators) ChangeComparator(i int, cmp models.Comparator) error {
	return m.editFilter(i, func(f models.FilterClause) (models.FilterClause, error) {
		return m.resets.SetComparator(m.structure.Fields, f, cmp)
	})
}

// ChangeValue parses raw for the field type of the clause at i
func (m *Mutators) ChangeValue(i int, raw string) error {
	return m.editFilter(i, func(f models.FilterClause) (models.FilterClause, error) {
		return filter.SetValue(m.structure.Fields, f, raw)
	})
}

func (m *Mutators) editFilter(i int, edit func(models.FilterClause) (models.FilterClause, error)) error {
	return m.update(func(s models.QueryState) (models.QueryState, error) {
		if i < 0 || i >= len(s.Filters) {
			return s, &IndexError{Index: i, Len: len(s.Filters)}
		}
		clause, err := edit(s.Filters[i])
		if err != nil {
			return s, err
		}
		if err := filter.Validate(m.structure.Fields, clause); err != nil {
			return s, err
		}
		return UpdateFilter(s, i, clause)
	})
}

// Reset replaces the whole state, e.g. with one decoded from a link
func (m *Mutators) Reset(state models.QueryState) error {
	if err := m.structure.Validate(state); err != nil {
		return err
	}
	return m.update(pure(func(models.QueryState) models.QueryState { return state.Clone() }))
}
