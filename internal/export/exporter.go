// Package export writes favorites and result pages as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rebeliceyang/lazycodex/internal/models"
)

// Format is an output format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv or json)", s)
	}
}

const timeLayout = "2006-01-02 15:04:05"

// FavoriteHeader is the CSV header of a favorites export
var FavoriteHeader = []string{"Name", "Description", "Resource", "Query", "Tags", "Created", "Updated", "Last Used", "Usage Count"}

// Favorites writes favorites to w
func Favorites(w io.Writer, format Format, favorites []models.Favorite) error {
	switch format {
	case FormatCSV:
		return favoritesCSV(w, favorites)
	case FormatJSON:
		return writeJSON(w, favorites)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func favoritesCSV(w io.Writer, favorites []models.Favorite) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(FavoriteHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, fav := range favorites {
		lastUsed := ""
		if !fav.LastUsed.IsZero() {
			lastUsed = fav.LastUsed.Format(timeLayout)
		}

		row := []string{
			fav.Name,
			fav.Description,
			string(fav.Resource),
			fav.Query,
			strings.Join(fav.Tags, ", "),
			fav.CreatedAt.Format(timeLayout),
			fav.UpdatedAt.Format(timeLayout),
			lastUsed,
			strconv.Itoa(fav.UsageCount),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Table is one page of search results laid out as columns and rows
type Table struct {
	Resource models.Resource `json:"resource"`
	Count    int             `json:"count"`
	Page     int             `json:"page"`
	Columns  []string        `json:"columns"`
	Rows     [][]string      `json:"-"`
	// Entries are the decoded entities behind Rows, written by the JSON export
	Entries []any `json:"data"`
}

// Results writes a page of results to w. CSV gets the table cells, JSON
// the full entities together with the paging context.
func Results(w io.Writer, format Format, table Table) error {
	switch format {
	case FormatCSV:
		writer := csv.NewWriter(w)
		if err := writer.Write(table.Columns); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		for _, row := range table.Rows {
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		writer.Flush()
		return writer.Error()
	case FormatJSON:
		if table.Entries == nil {
			table.Entries = []any{}
		}
		return writeJSON(w, table)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
