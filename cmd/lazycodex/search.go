package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazycodex/internal/models"
	"github.com/rebeliceyang/lazycodex/internal/pages"
	"github.com/rebeliceyang/lazycodex/internal/query"
)

var searchFlags queryFlags

var searchCmd = &cobra.Command{
	Use:     "search <resource> [query]",
	GroupID: "query",
	Short:   "Search a resource and print one page of results",
	Long: `Search a resource and print one page of results.

The optional query is in link form, e.g. 'q=drake&sort_by=health'. Flags
are applied on top of it:

  lazycodex search creatures -q drake -f health:>=:50 --sort health --dir desc`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, state, err := resolveQuery(cmd, &searchFlags, args)
		if err != nil {
			return err
		}
		view, err := search(cmd.Context(), page, state)
		if err != nil {
			return err
		}
		return printResults(cmd.OutOrStdout(), page, view)
	},
}

func init() {
	addQueryFlags(searchCmd, &searchFlags)
}

// search runs one search and records it in history
func search(ctx context.Context, page pages.Page, state models.QueryState) (pages.View, error) {
	start := time.Now()
	view, err := page.Search(ctx, codex, state)
	if r := newRecorder(); r != nil {
		r.Record(context.WithoutCancel(ctx), query.Execution{
			Resource: page.Resource(),
			Query:    state,
			Count:    view.Count,
			Duration: time.Since(start),
			Err:      err,
			At:       start,
		})
	}
	if err != nil {
		logger.Debug("search failed", "resource", page.Resource(), "error", err)
		return view, err
	}
	return view, nil
}
