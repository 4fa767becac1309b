// Package pages defines one generic page per codex resource: its filterable
// fields, default sort, table columns and how an entity becomes a table row.
package pages

import (
	"context"
	"fmt"
	"sort"

	"github.com/rebeliceyang/lazycodex/internal/client"
	"github.com/rebeliceyang/lazycodex/internal/models"
	"github.com/rebeliceyang/lazycodex/internal/query"
)

// Column is one table column. Columns with a non-empty SortKey can be
// sorted on from the header.
type Column struct {
	Title   string
	SortKey string
	Width   int
}

// Row is one entity projected onto the page columns
type Row struct {
	ID    string
	Slug  string
	Cells []string
}

// View is a rendering-ready snapshot of a page
type View struct {
	Query   models.QueryState
	Rows    []Row
	Count   int
	Status  query.Status
	Err     error
	Loaded  bool
	Entries []any // the decoded entities behind Rows
}

// Page is the non generic face of a resource page
type Page interface {
	Resource() models.Resource
	Title() string
	Structure() *query.Structure
	Columns() []Column
	// Search runs one search and projects the result
	Search(ctx context.Context, c client.Client, state models.QueryState) (View, error)
	// Get fetches one entity by id or slug
	Get(ctx context.Context, c client.Client, id string) (any, error)
	// Open starts a debounced session bound to c
	Open(c client.Client, opts ...query.HookOption) Session
}

// Session is a live, debounced query on one page
type Session interface {
	Page() Page
	View() View
	Mutators() *query.Mutators
	Subscribe(fn func(View)) func()
	Refresh()
	Close()
}

type definition[T any] struct {
	resource  models.Resource
	title     string
	structure *query.Structure
	columns   []Column
	project   func(T) Row
}

func (d *definition[T]) Resource() models.Resource { return d.resource }
func (d *definition[T]) Title() string { return d.title }
func (d *definition[T]) Structure() *query.Structure { return d.structure }
func (d *definition[T]) Columns() []Column { return d.columns }

func (d *definition[T]) rows(data []T) ([]Row, []any) {
	rows := make([]Row, len(data))
	entries := make([]any, len(data))
	for i, e := range data {
		rows[i] = d.project(e)
		entries[i] = e
	}
	return rows, entries
}

func (d *definition[T]) Search(ctx context.Context, c client.Client, state models.QueryState) (View, error) {
	resp, err := client.BuildSearch[T](c, d.resource)(ctx, state)
	if err != nil {
		return View{Query: state}, err
	}
	rows, entries := d.rows(resp.Data)
	return View{
		Query:   state,
		Rows:    rows,
		Entries: entries,
		Count:   resp.Pagination.Count,
		Loaded:  true,
	}, nil
}

func (d *definition[T]) Get(ctx context.Context, c client.Client, id string) (any, error) {
	return client.BuildGetResource[T](c, d.resource)(ctx, id)
}

func (d *definition[T]) Open(c client.Client, opts ...query.HookOption) Session {
	opts = append([]query.HookOption{query.WithResource(d.resource)}, opts...)
	hook := query.NewHook(d.structure, client.BuildSearch[T](c, d.resource), opts...)
	return &session[T]{def: d, hook: hook}
}

type session[T any] struct {
	def  *definition[T]
	hook *query.Hook[T]
}

func (s *session[T]) Page() Page { return s.def }
func (s *session[T]) Mutators() *query.Mutators { return s.hook.Mutators() }
func (s *session[T]) Refresh() { s.hook.Refresh() }
func (s *session[T]) Close() { s.hook.Close() }
func (s *session[T]) View() View { return s.view(s.hook.Snapshot()) }

func (s *session[T]) Subscribe(fn func(View)) func() {
	return s.hook.Subscribe(func(snap query.Snapshot[T]) {
		fn(s.view(snap))
	})
}

func (s *session[T]) view(snap query.Snapshot[T]) View {
	rows, entries := s.def.rows(snap.Results)
	return View{
		Query:   snap.Query,
		Rows:    rows,
		Entries: entries,
		Count:   snap.Count,
		Status:  snap.Status,
		Err:     snap.Err,
		Loaded:  snap.Loaded,
	}
}

// Registry holds the pages in navigation order
type Registry struct {
	order []models.Resource
	pages map[models.Resource]Page
}

// NewRegistry builds every page. opts apply to each page's structure,
// e.g. query.WithSize from configuration.
func NewRegistry(opts ...query.Option) *Registry {
	r := &Registry{pages: make(map[models.Resource]Page)}
	for _, p := range []Page{
		Creatures(opts...),
		Traits(opts...),
		Spells(opts...),
		Perks(opts...),
		Races(opts...),
		Classes(opts...),
		StatusEffects(opts...),
		Specializations(opts...),
	} {
		r.order = append(r.order, p.Resource())
		r.pages[p.Resource()] = p
	}
	return r
}

// Get returns the page of a resource
func (r *Registry) Get(resource models.Resource) (Page, error) {
	p, ok := r.pages[resource]
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}
	return p, nil
}

// Lookup resolves a resource name such as "creatures"
func (r *Registry) Lookup(name string) (Page, error) {
	res, ok := models.ParseResource(name)
	if !ok {
		return nil, fmt.Errorf("unknown resource %q (known: %v)", name, r.Names())
	}
	return r.Get(res)
}

// All returns the pages in navigation order
func (r *Registry) All() []Page {
	out := make([]Page, len(r.order))
	for i, res := range r.order {
		out[i] = r.pages[res]
	}
	return out
}

// Names returns the resource names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, res := range r.order {
		names = append(names, string(res))
	}
	sort.Strings(names)
	return names
}
