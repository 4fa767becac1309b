package models

import "errors"

// ErrInvalidResponse is wrapped by every error for an API answer that
// decoded but lacks a required part of its envelope
var ErrInvalidResponse = errors.New("response failed validation")

// SearchRequest is the body posted to <resource>/search
type SearchRequest struct {
	Pagination RequestPagination `json:"pagination"`
	Sorting    RequestSorting    `json:"sorting"`
	Filter     RequestFilter     `json:"filter"`
}

type RequestPagination struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

type RequestSorting struct {
	By        string        `json:"by"`
	Direction SortDirection `json:"direction"`
}

type RequestFilter struct {
	Filters []FilterClause `json:"filters"`
}

// Pagination is the pagination block of a search response
type Pagination struct {
	Count int `json:"count"`
}

// SearchResponse is the decoded envelope of a search call.
// A nil Pagination means the server answered with a validation error.
type SearchResponse[T any] struct {
	Data       []T         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// GetResponse is the decoded envelope of a get-by-id call
type GetResponse[T any] struct {
	Data *T `json:"data"`
}
