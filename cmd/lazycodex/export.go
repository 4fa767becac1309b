package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazycodex/internal/export"
)

var (
	exportFlags  queryFlags
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:     "export <resource> [query]",
	GroupID: "query",
	Short:   "Export one page of results as CSV or JSON",
	Long: `Export one page of results as CSV or JSON.

CSV holds the table columns, JSON the full entries with paging context.

  lazycodex export spells 'q=bolt' --size 200 --format csv -o spells.csv`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		page, state, err := resolveQuery(cmd, &exportFlags, args)
		if err != nil {
			return err
		}
		view, err := search(cmd.Context(), page, state)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" && exportOutput != "-" {
			f, createErr := os.Create(exportOutput)
			if createErr != nil {
				return fmt.Errorf("creating %s: %w", exportOutput, createErr)
			}
			defer func() {
				if cerr := f.Close(); err == nil {
					err = cerr
				}
			}()
			w = f
		}
		if err := export.Results(w, format, resultTable(page, view)); err != nil {
			return err
		}
		if w != cmd.OutOrStdout() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d of %d %s to %s\n", len(view.Rows), view.Count, page.Resource(), exportOutput)
		}
		return nil
	},
}

func init() {
	addQueryFlags(exportCmd, &exportFlags)
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format (csv or json)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}
