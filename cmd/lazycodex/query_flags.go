package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazycodex/internal/filter"
	"github.com/rebeliceyang/lazycodex/internal/models"
	"github.com/rebeliceyang/lazycodex/internal/pages"
)

// queryFlags adjust the query given as URL parameters
type queryFlags struct {
	q       string
	page    int
	size    int
	sortBy  string
	dir     string
	filters []string
}

func addQueryFlags(cmd *cobra.Command, f *queryFlags) {
	cmd.Flags().StringVarP(&f.q, "query", "q", "", "free text search")
	cmd.Flags().IntVar(&f.page, "page", 0, "page number, starting at 0")
	cmd.Flags().IntVar(&f.size, "size", 0, "results per page")
	cmd.Flags().StringVar(&f.sortBy, "sort", "", "field to sort by")
	cmd.Flags().StringVar(&f.dir, "dir", "", "sort direction (asc or desc)")
	cmd.Flags().StringArrayVarP(&f.filters, "filter", "f", nil, "filter as field:comparator[:value], e.g. health:>=:50 (repeatable)")
}

// resolveQuery reads "<resource> [query]" arguments and applies the flags
// on top of the decoded query
func resolveQuery(cmd *cobra.Command, f *queryFlags, args []string) (pages.Page, models.QueryState, error) {
	page, err := registry.Lookup(args[0])
	if err != nil {
		return nil, models.QueryState{}, err
	}
	structure := page.Structure()

	state := structure.Default()
	if len(args) > 1 {
		if state, err = structure.ParseQuery(args[1]); err != nil {
			return nil, models.QueryState{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("query") {
		state.Q = f.q
		state.Page = 0
	}
	if flags.Changed("size") {
		state.Size = f.size
	}
	if flags.Changed("sort") {
		state.SortBy = f.sortBy
	}
	if flags.Changed("dir") {
		dir := models.SortDirection(strings.ToLower(f.dir))
		if !dir.Valid() {
			return nil, models.QueryState{}, fmt.Errorf("invalid sort direction %q (want asc or desc)", f.dir)
		}
		state.SortDirection = dir
	}
	for _, spec := range f.filters {
		clause, err := parseFilter(structure.Fields, spec)
		if err != nil {
			return nil, models.QueryState{}, err
		}
		state.Filters = append(state.Filters, clause)
	}
	if flags.Changed("page") {
		state.Page = f.page
	}

	if err := structure.Validate(state); err != nil {
		return nil, models.QueryState{}, err
	}
	return page, state, nil
}

// parseFilter reads field:comparator[:value]. Null tests take no value.
func parseFilter(fields models.FieldSet, spec string) (models.FilterClause, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return models.FilterClause{}, fmt.Errorf("invalid filter %q (want field:comparator[:value])", spec)
	}

	defaults := filter.Defaults{NumericComparator: cfg.NumericComparator()}
	clause, err := defaults.NewClause(fields, parts[0])
	if err != nil {
		return clause, fmt.Errorf("filter %q: %w (known fields: %s)", spec, err, strings.Join(fields.Names(), ", "))
	}
	if clause, err = defaults.SetComparator(fields, clause, models.Comparator(parts[1])); err != nil {
		return clause, fmt.Errorf("filter %q: %w", spec, err)
	}

	switch {
	case clause.Comparator.IsNullTest() && len(parts) == 3:
		return clause, fmt.Errorf("filter %q: %s takes no value", spec, parts[1])
	case clause.Comparator.IsNullTest():
		return clause, nil
	case len(parts) < 3:
		return clause, fmt.Errorf("filter %q: missing value", spec)
	}

	if clause, err = filter.SetValue(fields, clause, parts[2]); err != nil {
		return clause, fmt.Errorf("filter %q: %w", spec, err)
	}
	return clause, filter.Validate(fields, clause)
}
