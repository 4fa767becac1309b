package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazycodex/internal/links"
)

var (
	sitemapOutput   string
	sitemapPageSize int
	sitemapParallel int
)

var sitemapCmd = &cobra.Command{
	Use:     "sitemap",
	GroupID: "site",
	Short:   "Write the sitemap.xml of the web front end",
	Long: `Write the sitemap.xml of the web front end: the resource pages and one
page per creature, read from the API.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		slugs, err := links.NewSlugFetcher(codex, sitemapPageSize, sitemapParallel).Slugs(cmd.Context())
		if err != nil {
			return err
		}
		sitemap := links.NewSitemap(cfg.UI.URL)
		sitemap.AddCreatures(slugs)

		var w io.Writer = cmd.OutOrStdout()
		if sitemapOutput != "" && sitemapOutput != "-" {
			f, createErr := os.Create(sitemapOutput)
			if createErr != nil {
				return fmt.Errorf("creating %s: %w", sitemapOutput, createErr)
			}
			defer func() {
				if cerr := f.Close(); err == nil {
					err = cerr
				}
			}()
			w = f
		}
		if _, err := sitemap.WriteTo(w); err != nil {
			return err
		}
		logger.Info("sitemap written", "urls", sitemap.Len(), "creatures", len(slugs))
		return nil
	},
}

func init() {
	sitemapCmd.Flags().StringVarP(&sitemapOutput, "output", "o", "", "output file (default stdout)")
	sitemapCmd.Flags().IntVar(&sitemapPageSize, "page-size", 100, "creatures per API request")
	sitemapCmd.Flags().IntVar(&sitemapParallel, "parallel", 4, "concurrent API requests")
}
