package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazycodex/internal/history"
	"github.com/rebeliceyang/lazycodex/internal/models"
)

var (
	historyResource string
	historySearch   string
	historyLimit    int
	historyClear    bool
	historyPrune    int
)

var historyCmd = &cobra.Command{
	Use:     "history",
	GroupID: "saved",
	Short:   "Show recently executed searches",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		switch {
		case historyClear:
			if err := store.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "History cleared")
			return nil
		case cmd.Flags().Changed("prune"):
			n, err := store.Prune(ctx, historyPrune)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %d entries\n", n)
			return nil
		}

		var entries []history.Entry
		switch {
		case historySearch != "":
			entries, err = store.Search(ctx, historySearch, historyLimit)
		case historyResource != "":
			res, ok := models.ParseResource(historyResource)
			if !ok {
				return fmt.Errorf("unknown resource %q", historyResource)
			}
			entries, err = store.GetRecentFor(ctx, res, historyLimit)
		default:
			entries, err = store.GetRecent(ctx, historyLimit)
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			if entries == nil {
				entries = []history.Entry{}
			}
			return printJSON(out, entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No history")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, header("WHEN\tRESOURCE\tQUERY\tRESULTS\tTOOK"))
		for _, e := range entries {
			results := fmt.Sprint(e.Count)
			if !e.Success {
				results = "error: " + e.ErrorMessage
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				e.ExecutedAt.Local().Format(time.DateTime), e.Resource, e.Query, results, e.Duration.Round(time.Millisecond))
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyResource, "resource", "", "only searches of a resource")
	historyCmd.Flags().StringVar(&historySearch, "search", "", "match the query text")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of entries")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all history")
	historyCmd.Flags().IntVar(&historyPrune, "prune", 0, "keep only the newest N entries")
	historyCmd.MarkFlagsMutuallyExclusive("clear", "prune")
}
