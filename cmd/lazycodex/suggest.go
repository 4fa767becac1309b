package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazycodex/internal/client"
)

var suggestSize int

var suggestCmd = &cobra.Command{
	Use:     "suggest <resource> <partial>",
	GroupID: "query",
	Short:   "List entry names containing a partial name",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := registry.Lookup(args[0])
		if err != nil {
			return err
		}
		size := suggestSize
		if size <= 0 {
			size = cfg.Query.SuggestionSize
		}

		names, err := client.BuildSuggest(codex, page.Resource(), size)(cmd.Context(), args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			if names == nil {
				names = []string{}
			}
			return printJSON(cmd.OutOrStdout(), names)
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().IntVar(&suggestSize, "size", 0, "maximum number of names (default query.suggestion_size)")
}
