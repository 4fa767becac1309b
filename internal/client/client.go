// Package client talks to the codex search API: the generic resource search,
// single entity lookups and name suggestions.
package client

import (
	"context"
	"fmt"

	"github.com/rebeliceyang/lazycodex/internal/filter"
	"github.com/rebeliceyang/lazycodex/internal/models"
)

// ErrValidation is wrapped by every ValidationError
var ErrValidation = models.ErrInvalidResponse

// ValidationError reports a response that decoded but is missing a
// required part of its envelope.
type ValidationError struct {
	Resource models.Resource
	Missing  string // name of the missing key
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: response has no %q", e.Resource, e.Missing)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Client is the transport the resource functions run on. HTTPClient is the
// implementation used against the real API.
type Client interface {
	// Search posts body to <resource>/search and decodes the answer into result
	Search(ctx context.Context, resource models.Resource, body models.SearchRequest, result any) error
	// Get fetches <resource>/<id> into result
	Get(ctx context.Context, resource models.Resource, id string, result any) error
}

// SearchFunc runs one search for a query state
type SearchFunc[T any] func(ctx context.Context, state models.QueryState) (models.SearchResponse[T], error)

// GetFunc fetches one entity by id or slug
type GetFunc[T any] func(ctx context.Context, id string) (*T, error)

// SuggestFunc returns entity names matching a partial name
type SuggestFunc func(ctx context.Context, partial string) ([]string, error)

// BuildSearch returns the search function of a resource
func BuildSearch[T any](c Client, resource models.Resource) SearchFunc[T] {
	builder := filter.NewBuilder()
	return func(ctx context.Context, state models.QueryState) (models.SearchResponse[T], error) {
		var resp models.SearchResponse[T]
		if err := c.Search(ctx, resource, builder.BuildRequest(state), &resp); err != nil {
			return models.SearchResponse[T]{}, err
		}
		if resp.Pagination == nil {
			return models.SearchResponse[T]{}, &ValidationError{Resource: resource, Missing: "pagination"}
		}
		if resp.Data == nil {
			return models.SearchResponse[T]{}, &ValidationError{Resource: resource, Missing: "data"}
		}
		return resp, nil
	}
}

// BuildGetResource returns the lookup function of a resource
func BuildGetResource[T any](c Client, resource models.Resource) GetFunc[T] {
	return func(ctx context.Context, id string) (*T, error) {
		var resp models.GetResponse[T]
		if err := c.Get(ctx, resource, id, &resp); err != nil {
			return nil, err
		}
		if resp.Data == nil {
			return nil, &ValidationError{Resource: resource, Missing: "data"}
		}
		return resp.Data, nil
	}
}

type named struct {
	Name string `json:"name"`
}

// BuildSuggest returns a function listing up to size names of resource
// that contain partial. Callers debounce it.
func BuildSuggest(c Client, resource models.Resource, size int) SuggestFunc {
	search := BuildSearch[named](c, resource)
	return func(ctx context.Context, partial string) ([]string, error) {
		state := models.QueryState{
			Page:          0,
			Size:          size,
			SortBy:        "name",
			SortDirection: models.SortAsc,
			Filters: []models.FilterClause{
				{Field: "name", Comparator: models.CmpILike, Value: partial},
			},
		}
		resp, err := search(ctx, state)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(resp.Data))
		for _, n := range resp.Data {
			names = append(names, n.Name)
		}
		return names, nil
	}
}
