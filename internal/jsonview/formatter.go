// Package jsonview renders decoded codex entities as JSON for the detail
// pane and the CLI.
package jsonview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Normalize turns any value into its generic JSON form
// (map[string]any, []any, string, float64, bool or nil).
// Raw JSON text given as string or []byte is parsed.
func Normalize(value any) (any, error) {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		b, err := marshal(v, "")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal: %w", err)
		}
		data = b
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return parsed, nil
}

func marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Format pretty-prints a value with two space indentation
func Format(value any) (string, error) {
	parsed, err := Normalize(value)
	if err != nil {
		return "", err
	}
	out, err := marshal(parsed, "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format: %w", err)
	}
	return string(out), nil
}

// Compact formats a value as single-line JSON
func Compact(value any) (string, error) {
	parsed, err := Normalize(value)
	if err != nil {
		return "", err
	}
	out, err := marshal(parsed, "")
	if err != nil {
		return "", fmt.Errorf("failed to compact: %w", err)
	}
	return string(out), nil
}

// Truncate shortens s to at most maxWidth terminal cells, preferring to
// cut at a JSON boundary
func Truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}

	truncated := runewidth.Truncate(s, maxWidth-3, "")
	if lastGood := strings.LastIndexAny(truncated, " ,{}[]"); lastGood > len(truncated)/2 {
		truncated = truncated[:lastGood]
	}
	return truncated + "..."
}

// Type returns the JSON type of a value (object, array, string, number, boolean, null)
func Type(value any) string {
	parsed, err := Normalize(value)
	if err != nil {
		return "unknown"
	}
	return typeOf(parsed)
}

func typeOf(parsed any) string {
	switch parsed.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}
