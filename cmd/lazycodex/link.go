package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var linkFlags queryFlags

var linkCmd = &cobra.Command{
	Use:     "link <resource> [query]",
	GroupID: "site",
	Short:   "Print the web front end link of a query",
	Long: `Print the web front end link of a query. Defaults are left out:

  lazycodex link creatures -q 'fire drake'
  http://localhost:3000/creatures?q=fire+drake`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, state, err := resolveQuery(cmd, &linkFlags, args)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), page.Structure().Link(cfg.UI.URL, page.Resource(), state))
		return err
	},
}

func init() {
	addQueryFlags(linkCmd, &linkFlags)
}
