package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazycodex/internal/export"
	"github.com/rebeliceyang/lazycodex/internal/models"
)

var (
	favDescription string
	favTags        []string
	favResource    string
	favSearch      string
	favSort        string
	favLimit       int
	favExportPath  string
	favFormat      string

	favAddFlags queryFlags
	favRunFlags queryFlags
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	GroupID: "saved",
	Short:   "Manage saved queries",
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		favs, err := openFavorites()
		if err != nil {
			return err
		}

		var list []models.Favorite
		switch {
		case favSearch != "":
			list = favs.Search(favSearch)
		case favSort == "used":
			list = favs.MostUsed(0)
		case favSort == "recent":
			list = favs.Recent(0)
		case favSort == "" || favSort == "name":
			list = favs.List("")
		default:
			return fmt.Errorf("invalid --sort %q (want name, used or recent)", favSort)
		}
		if favResource != "" {
			res, ok := models.ParseResource(favResource)
			if !ok {
				return fmt.Errorf("unknown resource %q", favResource)
			}
			list = filterFavorites(list, res)
		}
		if favLimit > 0 && len(list) > favLimit {
			list = list[:favLimit]
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			if list == nil {
				list = []models.Favorite{}
			}
			return printJSON(out, list)
		}
		if len(list) == 0 {
			fmt.Fprintln(out, "No favorites")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, header("NAME\tRESOURCE\tQUERY\tUSED\tTAGS"))
		for _, fav := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", fav.Name, fav.Resource, fav.Query, fav.UsageCount, strings.Join(fav.Tags, ","))
		}
		return tw.Flush()
	},
}

var favAddCmd = &cobra.Command{
	Use:   "add <name> <resource> [query]",
	Short: "Save a query",
	Long: `Save a query under a name. The query is given in link form and/or
with the search flags:

  lazycodex favorites add "big drakes" creatures 'q=drake' -f health:>=:500`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, state, err := resolveQuery(cmd, &favAddFlags, args[1:])
		if err != nil {
			return err
		}
		favs, err := openFavorites()
		if err != nil {
			return err
		}
		fav, err := favs.Add(args[0], favDescription, page.Resource(), page.Structure().Encode(state).Encode(), favTags)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), fav)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %q (%s)\n", fav.Name, fav.ID)
		return nil
	},
}

var favEditCmd = &cobra.Command{
	Use:   "edit <name-or-id>",
	Short: "Rename a favorite or change its query, description or tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		favs, err := openFavorites()
		if err != nil {
			return err
		}
		fav, err := favs.Get(args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		if !flags.Changed("name") {
			name = fav.Name
		}
		description := fav.Description
		if flags.Changed("description") {
			description = favDescription
		}
		tags := fav.Tags
		if flags.Changed("tags") {
			tags = favTags
		}
		q := fav.Query
		if flags.Changed("params") {
			page, err := registry.Get(fav.Resource)
			if err != nil {
				return err
			}
			raw, _ := flags.GetString("params")
			state, err := page.Structure().ParseQuery(raw)
			if err != nil {
				return err
			}
			q = page.Structure().Encode(state).Encode()
		}

		if err := favs.Update(fav.ID, name, description, q, tags); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %q\n", name)
		return nil
	},
}

var favRemoveCmd = &cobra.Command{
	Use:     "remove <name-or-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a favorite",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		favs, err := openFavorites()
		if err != nil {
			return err
		}
		fav, err := favs.Get(args[0])
		if err != nil {
			return err
		}
		if err := favs.Delete(fav.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", fav.Name)
		return nil
	},
}

var favRunCmd = &cobra.Command{
	Use:   "run <name-or-id>",
	Short: "Run a saved query",
	Long: `Run a saved query. Search flags adjust the saved query for this run only:

  lazycodex favorites run "big drakes" --page 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		favs, err := openFavorites()
		if err != nil {
			return err
		}
		fav, err := favs.Get(args[0])
		if err != nil {
			return err
		}
		page, state, err := resolveQuery(cmd, &favRunFlags, []string{string(fav.Resource), fav.Query})
		if err != nil {
			return fmt.Errorf("favorite %q: %w", fav.Name, err)
		}
		view, err := search(cmd.Context(), page, state)
		if err != nil {
			return err
		}
		if err := favs.MarkUsed(fav.ID); err != nil {
			logger.Warn("failed to mark favorite used", "favorite", fav.Name, "error", err)
		}
		return printResults(cmd.OutOrStdout(), page, view)
	},
}

var favExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export favorites as CSV or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(favFormat)
		if err != nil {
			return err
		}
		favs, err := openFavorites()
		if err != nil {
			return err
		}
		path, err := favs.Export(format, favExportPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported favorites to %s\n", path)
		return nil
	},
}

func init() {
	favListCmd.Flags().StringVar(&favResource, "resource", "", "only favorites of a resource")
	favListCmd.Flags().StringVar(&favSearch, "search", "", "match name, description or tags")
	favListCmd.Flags().StringVar(&favSort, "sort", "name", "order: name, used or recent")
	favListCmd.Flags().IntVar(&favLimit, "limit", 0, "maximum number of favorites")

	addQueryFlags(favAddCmd, &favAddFlags)
	favAddCmd.Flags().StringVar(&favDescription, "description", "", "description")
	favAddCmd.Flags().StringSliceVar(&favTags, "tags", nil, "comma separated tags")

	favEditCmd.Flags().String("name", "", "new name")
	favEditCmd.Flags().String("params", "", "new query in link form, e.g. 'q=drake&page=1'")
	favEditCmd.Flags().StringVar(&favDescription, "description", "", "new description")
	favEditCmd.Flags().StringSliceVar(&favTags, "tags", nil, "new comma separated tags")

	addQueryFlags(favRunCmd, &favRunFlags)

	favExportCmd.Flags().StringVar(&favFormat, "format", "json", "output format (csv or json)")
	favExportCmd.Flags().StringVarP(&favExportPath, "output", "o", "", "output file (default next to favorites.yaml)")

	favoritesCmd.AddCommand(favListCmd, favAddCmd, favEditCmd, favRemoveCmd, favRunCmd, favExportCmd)
}

func filterFavorites(list []models.Favorite, resource models.Resource) []models.Favorite {
	out := list[:0:0]
	for _, fav := range list {
		if fav.Resource == resource {
			out = append(out, fav)
		}
	}
	return out
}
