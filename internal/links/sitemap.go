package links

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rebeliceyang/lazycodex/internal/client"
	"github.com/rebeliceyang/lazycodex/internal/models"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// StaticPages are listed in every sitemap ahead of the per-creature pages
var StaticPages = []models.Resource{
	models.ResourceCreatures,
	models.ResourceTraits,
	models.ResourcePerks,
	models.ResourceSpells,
	models.ResourceStatusEffects,
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// Sitemap collects the pages of the web front end
type Sitemap struct {
	base string
	locs []string
}

// NewSitemap starts a sitemap for the front end at uiURL holding the static pages
func NewSitemap(uiURL string) *Sitemap {
	s := &Sitemap{base: strings.TrimRight(uiURL, "/")}
	for _, r := range StaticPages {
		s.Add("/" + string(r))
	}
	return s
}

// Add appends a path below the front end root
func (s *Sitemap) Add(path string) {
	s.locs = append(s.locs, s.base+path)
}

// AddCreatures appends one page per creature slug
func (s *Sitemap) AddCreatures(slugs []string) {
	for _, slug := range slugs {
		s.Add("/" + string(models.ResourceCreatures) + "/" + slug)
	}
}

// Len returns the number of URLs
func (s *Sitemap) Len() int { return len(s.locs) }

// WriteTo writes the sitemap XML document
func (s *Sitemap) WriteTo(w io.Writer) (int64, error) {
	doc := urlset{XMLNS: sitemapNS}
	for _, loc := range s.locs {
		doc.URLs = append(doc.URLs, sitemapURL{Loc: loc})
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encoding sitemap: %w", err)
	}
	n, err := io.WriteString(w, xml.Header+string(out)+"\n")
	return int64(n), err
}

// SlugFetcher pages through the creatures of the API
type SlugFetcher struct {
	search   client.SearchFunc[models.Creature]
	pageSize int
	parallel int
}

// NewSlugFetcher creates a fetcher reading pageSize creatures per request
// with at most parallel requests in flight.
func NewSlugFetcher(c client.Client, pageSize, parallel int) *SlugFetcher {
	if pageSize <= 0 {
		pageSize = 100
	}
	if parallel <= 0 {
		parallel = 4
	}
	return &SlugFetcher{
		search:   client.BuildSearch[models.Creature](c, models.ResourceCreatures),
		pageSize: pageSize,
		parallel: parallel,
	}
}

func (f *SlugFetcher) page(n int) models.QueryState {
	return models.QueryState{
		Page:          n,
		Size:          f.pageSize,
		SortBy:        "name",
		SortDirection: models.SortAsc,
		Filters:       []models.FilterClause{},
	}
}

// Slugs returns every creature slug, ordered by name
func (f *SlugFetcher) Slugs(ctx context.Context) ([]string, error) {
	first, err := f.search(ctx, f.page(0))
	if err != nil {
		return nil, fmt.Errorf("fetching creatures page 0: %w", err)
	}

	pages := (first.Pagination.Count + f.pageSize - 1) / f.pageSize
	if pages < 1 {
		pages = 1
	}
	results := make([][]models.Creature, pages)
	results[0] = first.Data

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.parallel)
	for n := 1; n < pages; n++ {
		g.Go(func() error {
			resp, err := f.search(ctx, f.page(n))
			if err != nil {
				return fmt.Errorf("fetching creatures page %d: %w", n, err)
			}
			results[n] = resp.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var slugs []string
	for _, page := range results {
		for _, c := range page {
			if c.Slug != "" {
				slugs = append(slugs, c.Slug)
			}
		}
	}
	return slugs, nil
}
