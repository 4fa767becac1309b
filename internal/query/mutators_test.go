package query

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rebeliceyang/lazycodex/internal/filter"
	"github.com/rebeliceyang/lazycodex/internal/models"
)

var (
	clauseA = models.FilterClause{Field: "name", Comparator: models.CmpILike, Value: "drake"}
	clauseB = models.FilterClause{Field: "health", Comparator: models.CmpGreaterOrEqual, Value: float64(50)}
	clauseC = models.FilterClause{Field: "trait_tags", Comparator: models.CmpOverlap, Value: []string{"fire"}}
)

func startState() models.QueryState {
	return models.QueryState{
		Page:          4,
		Size:          25,
		SortBy:        "name",
		SortDirection: models.SortAsc,
		Q:             "",
		Filters:       []models.FilterClause{clauseA, clauseB, clauseC},
	}
}

func TestPageReset(t *testing.T) {
	mustState := func(s models.QueryState, err error) models.QueryState {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return s
	}

	tests := []struct {
		name string
		next models.QueryState
	}{
		{"SizeChange", SizeChange(startState(), 10)},
		{"QChange", QChange(startState(), "fire")},
		{"UpdateFilter", mustState(UpdateFilter(startState(), 0, clauseB))},
		{"AddFilter", AddFilter(startState(), clauseA)},
		{"RemoveFilter", mustState(RemoveFilter(startState(), 2))},
		{"ClearFilters", ClearFilters(startState())},
	}
	for _, tt := range tests {
		if tt.next.Page != 0 {
			t.Errorf("%s: expected page 0, got %d", tt.name, tt.next.Page)
		}
	}

	if got := PageChange(startState(), 7); got.Page != 7 {
		t.Errorf("PageChange: expected page 7, got %d", got.Page)
	}
	if got := ToggleSort(startState(), "health"); got.Page != 4 {
		t.Errorf("ToggleSort: expected page to stay 4, got %d", got.Page)
	}
}

func TestPageChangeKeepsEverythingElse(t *testing.T) {
	start := startState()
	got := PageChange(start, 1)
	want := startState()
	want.Page = 1
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PageChange mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleSort(t *testing.T) {
	start := models.QueryState{SortBy: "name", SortDirection: models.SortAsc, Filters: []models.FilterClause{}}

	got := ToggleSort(start, "name")
	if got.SortBy != "name" || got.SortDirection != models.SortDesc {
		t.Errorf("same field: got %s %s, want name desc", got.SortBy, got.SortDirection)
	}

	got = ToggleSort(got, "name")
	if got.SortDirection != models.SortAsc {
		t.Errorf("second toggle: got %s, want asc", got.SortDirection)
	}

	desc := ToggleSort(start, "name")
	got = ToggleSort(desc, "health")
	if got.SortBy != "health" || got.SortDirection != models.SortAsc {
		t.Errorf("other field: got %s %s, want health asc", got.SortBy, got.SortDirection)
	}
}

func TestReduceSortPartial(t *testing.T) {
	dir := models.SortDesc
	got := ReduceSort(startState(), SortAction{SortDirection: &dir})
	if got.SortBy != "name" || got.SortDirection != models.SortDesc {
		t.Errorf("got %s %s", got.SortBy, got.SortDirection)
	}

	by := "speed"
	got = ReduceSort(got, SortAction{SortBy: &by})
	if got.SortBy != "speed" || got.SortDirection != models.SortDesc {
		t.Errorf("got %s %s", got.SortBy, got.SortDirection)
	}
}

func TestRemoveFilterPreservesOrder(t *testing.T) {
	start := startState()
	got, err := RemoveFilter(start, 1)
	if err != nil {
		t.Fatalf("RemoveFilter failed: %v", err)
	}
	want := []models.FilterClause{clauseA, clauseC}
	if diff := cmp.Diff(want, got.Filters); diff != "" {
		t.Errorf("RemoveFilter mismatch (-want +got):\n%s", diff)
	}

	// The input keeps all three clauses
	if diff := cmp.Diff([]models.FilterClause{clauseA, clauseB, clauseC}, start.Filters); diff != "" {
		t.Errorf("RemoveFilter modified its input (-want +got):\n%s", diff)
	}
}

func TestFilterIndexOutOfRange(t *testing.T) {
	for _, i := range []int{-1, 3, 10} {
		_, err := RemoveFilter(startState(), i)
		var idxErr *IndexError
		if !errors.As(err, &idxErr) {
			t.Fatalf("RemoveFilter(%d): expected IndexError, got %v", i, err)
		}
		if idxErr.Index != i || idxErr.Len != 3 {
			t.Errorf("unexpected IndexError %+v", idxErr)
		}
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("expected ErrIndexOutOfRange, got %v", err)
		}

		got, err := UpdateFilter(startState(), i, clauseA)
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("UpdateFilter(%d): expected ErrIndexOutOfRange, got %v", i, err)
		}
		if diff := cmp.Diff(startState(), got); diff != "" {
			t.Errorf("UpdateFilter(%d) changed the state on error (-want +got):\n%s", i, diff)
		}
	}
}

func TestMutatorsDoNotShareSlices(t *testing.T) {
	start := startState()
	next := AddFilter(start, clauseA)
	next.Filters[0].Value = "wyrm"
	next.Filters[2].Value.([]string)[0] = "ice"

	if start.Filters[0].Value != "drake" {
		t.Errorf("AddFilter shares clauses with its input")
	}
	if start.Filters[2].Value.([]string)[0] != "fire" {
		t.Errorf("AddFilter shares array values with its input")
	}
}

func TestClearFilters(t *testing.T) {
	got := ClearFilters(startState())
	if got.Filters == nil || len(got.Filters) != 0 {
		t.Errorf("expected an empty non-nil filter list, got %#v", got.Filters)
	}
}

// boundState is a minimal state owner for the bound mutators
type boundState struct {
	state models.QueryState
	calls int
}

func (b *boundState) update(fn func(models.QueryState) (models.QueryState, error)) error {
	next, err := fn(b.state)
	if err != nil {
		return err
	}
	b.state = next
	b.calls++
	return nil
}

func newBound() (*Mutators, *boundState) {
	s := newCreatureStructure()
	owner := &boundState{state: s.Default()}
	return Bind(s, filter.DefaultResets(), owner.update), owner
}

func TestBoundMutatorsValidate(t *testing.T) {
	m, owner := newBound()

	if err := m.AddFilter(models.FilterClause{Field: "name", Comparator: models.CmpIsNull, Value: "x"}); !errors.Is(err, filter.ErrNullValue) {
		t.Errorf("expected ErrNullValue, got %v", err)
	}
	if err := m.AddFilter(models.FilterClause{Field: "health", Comparator: models.CmpOverlap, Value: []string{}}); !errors.Is(err, filter.ErrIllegalComparator) {
		t.Errorf("expected ErrIllegalComparator, got %v", err)
	}
	if err := m.PageChange(-1); !errors.Is(err, ErrInvalidPage) {
		t.Errorf("expected ErrInvalidPage, got %v", err)
	}
	if err := m.SizeChange(0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
	if owner.calls != 0 {
		t.Errorf("rejected intents reached the state owner %d times", owner.calls)
	}

	if err := m.AddFilter(clauseB); err != nil {
		t.Fatalf("AddFilter failed: %v", err)
	}
	if err := m.UpdateFilter(5, clauseA); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if len(owner.state.Filters) != 1 {
		t.Errorf("expected one filter, got %d", len(owner.state.Filters))
	}
}

func TestBoundFilterEditing(t *testing.T) {
	m, owner := newBound()

	if err := m.AddDefaultFilter("name"); err != nil {
		t.Fatalf("AddDefaultFilter failed: %v", err)
	}
	if err := m.ChangeField(0, "health"); err != nil {
		t.Fatalf("ChangeField failed: %v", err)
	}
	if err := m.ChangeValue(0, "80"); err != nil {
		t.Fatalf("ChangeValue failed: %v", err)
	}
	if err := m.ChangeComparator(0, models.CmpLess); err != nil {
		t.Fatalf("ChangeComparator failed: %v", err)
	}

	want := []models.FilterClause{{Field: "health", Comparator: models.CmpLess, Value: float64(80)}}
	if diff := cmp.Diff(want, owner.state.Filters); diff != "" {
		t.Errorf("filters mismatch (-want +got):\n%s", diff)
	}

	if err := m.ChangeComparator(0, models.CmpIsNotNull); err != nil {
		t.Fatalf("ChangeComparator failed: %v", err)
	}
	if owner.state.Filters[0].Value != nil {
		t.Errorf("expected nil value after switching to a null test, got %v", owner.state.Filters[0].Value)
	}
	if err := m.ChangeValue(0, "3"); !errors.Is(err, filter.ErrNullValue) {
		t.Errorf("expected ErrNullValue, got %v", err)
	}
	if err := m.ChangeField(1, "name"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestBoundRejectsNonFiniteNumbers(t *testing.T) {
	m, owner := newBound()

	if err := m.AddDefaultFilter("health"); err != nil {
		t.Fatalf("AddDefaultFilter failed: %v", err)
	}
	for _, raw := range []string{"NaN", "Inf", "-Inf"} {
		if err := m.ChangeValue(0, raw); !errors.Is(err, filter.ErrValueType) {
			t.Errorf("ChangeValue(%q): expected ErrValueType, got %v", raw, err)
		}
	}
	if err := m.AddFilter(models.FilterClause{Field: "speed", Comparator: models.CmpGreater, Value: math.Inf(-1)}); !errors.Is(err, filter.ErrValueType) {
		t.Errorf("expected ErrValueType, got %v", err)
	}

	want := []models.FilterClause{{Field: "health", Comparator: models.CmpGreaterOrEqual, Value: float64(1)}}
	if diff := cmp.Diff(want, owner.state.Filters); diff != "" {
		t.Errorf("filters mismatch (-want +got):\n%s", diff)
	}

	s := newCreatureStructure()
	if diff := cmp.Diff(owner.state, s.Decode(s.Encode(owner.state))); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBoundPaging(t *testing.T) {
	m, owner := newBound()

	if err := m.NextPage(60); err != nil {
		t.Fatal(err)
	}
	if err := m.NextPage(60); err != nil {
		t.Fatal(err)
	}
	if owner.state.Page != 2 {
		t.Fatalf("expected page 2, got %d", owner.state.Page)
	}
	// 60 results at 25 per page end on page 2
	_ = m.NextPage(60)
	if owner.state.Page != 2 {
		t.Errorf("expected to stay on the last page, got %d", owner.state.Page)
	}

	_ = m.PrevPage()
	_ = m.PrevPage()
	_ = m.PrevPage()
	if owner.state.Page != 0 {
		t.Errorf("expected page 0, got %d", owner.state.Page)
	}
}
