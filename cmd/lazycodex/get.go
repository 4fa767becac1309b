package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazycodex/internal/jsonview"
	"github.com/rebeliceyang/lazycodex/internal/links"
)

var (
	getPath  string
	getPaths bool
	getBug   bool
)

var getCmd = &cobra.Command{
	Use:     "get <resource> <id-or-slug>",
	GroupID: "query",
	Short:   "Print one entry as JSON",
	Long: `Print one entry as JSON.

  lazycodex get creatures fire-drake
  lazycodex get creatures fire-drake --path race.name
  lazycodex get creatures fire-drake --bug`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := registry.Lookup(args[0])
		if err != nil {
			return err
		}
		entity, err := page.Get(cmd.Context(), codex, args[1])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		switch {
		case getBug:
			_, err = fmt.Fprintln(out, links.BugReportURL(string(page.Resource()), entityName(entity, args[1])))
			return err
		case getPaths:
			for _, p := range jsonview.Paths(entity) {
				fmt.Fprintln(out, p.String())
			}
			return nil
		case getPath != "":
			path, err := jsonview.ParsePath(getPath)
			if err != nil {
				return err
			}
			if entity, err = jsonview.Extract(entity, path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}

		text, err := jsonview.Format(entity)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, text)
		return err
	},
}

func init() {
	getCmd.Flags().StringVar(&getPath, "path", "", "print only the value at a path, e.g. race.name or tags[0]")
	getCmd.Flags().BoolVar(&getPaths, "paths", false, "list the paths of the entry")
	getCmd.Flags().BoolVar(&getBug, "bug", false, "print the bug report link of the entry")
	getCmd.MarkFlagsMutuallyExclusive("path", "paths", "bug")
}

// entityName returns the name of an entry, or fallback when it has none
func entityName(entity any, fallback string) string {
	v, err := jsonview.Extract(entity, jsonview.Path{Parts: []string{"name"}})
	if name, ok := v.(string); err == nil && ok && name != "" {
		return name
	}
	return fallback
}
