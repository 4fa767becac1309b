package jsonview

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Path addresses a value inside a JSON document, e.g. race.name or trait.tags[0]
type Path struct {
	Parts []string
}

// ParsePath parses dotted notation. Array indexes may be written as
// tags[0] or tags.0; a leading "$" is accepted.
func ParsePath(s string) (Path, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return Path{}, nil
	}

	var parts []string
	for _, seg := range strings.Split(s, ".") {
		name, rest, hasIndex := strings.Cut(seg, "[")
		if name == "" && !hasIndex {
			return Path{}, fmt.Errorf("empty segment in path %q", s)
		}
		if name != "" {
			parts = append(parts, name)
		}
		for hasIndex {
			var idx string
			idx, rest, hasIndex = strings.Cut(rest, "]")
			if !hasIndex {
				return Path{}, fmt.Errorf("unclosed index in path %q", s)
			}
			if _, err := strconv.Atoi(idx); err != nil {
				return Path{}, fmt.Errorf("invalid array index %q in path %q", idx, s)
			}
			parts = append(parts, idx)
			_, rest, hasIndex = strings.Cut(rest, "[")
		}
	}
	return Path{Parts: parts}, nil
}

// String returns the path in $.a.b[0] notation
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("$")
	for _, part := range p.Parts {
		if _, err := strconv.Atoi(part); err == nil {
			b.WriteString("[" + part + "]")
		} else {
			b.WriteString("." + part)
		}
	}
	return b.String()
}

// Extract returns the value at path
func Extract(value any, path Path) (any, error) {
	current, err := Normalize(value)
	if err != nil {
		return nil, err
	}

	for _, part := range path.Parts {
		switch curr := current.(type) {
		case map[string]any:
			val, ok := curr[part]
			if !ok {
				return nil, fmt.Errorf("key '%s' not found", part)
			}
			current = val
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid array index: %s", part)
			}
			if idx < 0 || idx >= len(curr) {
				return nil, fmt.Errorf("array index out of bounds: %d", idx)
			}
			current = curr[idx]
		default:
			return nil, fmt.Errorf("cannot traverse into %s at '%s'", typeOf(curr), part)
		}
	}

	return current, nil
}

// Paths lists the paths of every object key in value, sorted, descending
// into at most the first element of each array
func Paths(value any) []Path {
	parsed, err := Normalize(value)
	if err != nil {
		return nil
	}
	var paths []Path
	collectPaths(parsed, nil, &paths)
	sort.Slice(paths, func(i, j int) bool {
		return paths[i].String() < paths[j].String()
	})
	return paths
}

func collectPaths(value any, current []string, paths *[]Path) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := append(append([]string{}, current...), key)
			*paths = append(*paths, Path{Parts: next})
			collectPaths(val, next, paths)
		}
	case []any:
		if len(v) > 0 {
			collectPaths(v[0], append(append([]string{}, current...), "0"), paths)
		}
	}
}
