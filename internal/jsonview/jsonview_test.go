package jsonview

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
)

type creature struct {
	Name  string   `json:"name"`
	Slug  string   `json:"slug"`
	Power int      `json:"power"`
	Tags  []string `json:"tags"`
	Race  *struct {
		Name string `json:"name"`
	} `json:"race"`
}

func TestFormat(t *testing.T) {
	got, err := Format(creature{Name: "Fire & Ice", Slug: "fire-ice", Power: 3, Tags: []string{"a"}})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	// keys are sorted by the generic form; & is not escaped
	want := `{
  "name": "Fire & Ice",
  "power": 3,
  "race": null,
  "slug": "fire-ice",
  "tags": [
    "a"
  ]
}`
	if got != want {
		t.Errorf("unexpected output:\n%s", got)
	}

	if _, err := Format("{not json"); err == nil {
		t.Error("expected an error for invalid JSON text")
	}
	if got, _ := Format(nil); got != "null" {
		t.Errorf("expected null, got %q", got)
	}
}

func TestCompact(t *testing.T) {
	got, err := Compact("{\n  \"a\": [1, 2],\n  \"b\": \">=\"\n}")
	if err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
	if got != `{"a":[1,2],"b":">="}` {
		t.Errorf("unexpected output %s", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{`{"a":1}`, 20, `{"a":1}`},
		{`{"name":"Fire Drake","power":10}`, 20, `{"name":"Fire...`},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestType(t *testing.T) {
	tests := map[string]any{
		"object":  map[string]any{"a": 1},
		"array":   []int{1},
		"string":  `"x"`,
		"number":  "12",
		"boolean": true,
		"null":    nil,
		"unknown": "{",
	}
	for want, in := range tests {
		if got := Type(in); got != want {
			t.Errorf("Type(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"race.name", []string{"race", "name"}, false},
		{"$.trait.tags[0]", []string{"trait", "tags", "0"}, false},
		{"tags.1", []string{"tags", "1"}, false},
		{"grid[0][2]", []string{"grid", "0", "2"}, false},
		{"", nil, false},
		{"a..b", nil, true},
		{"tags[x]", nil, true},
		{"tags[0", nil, true},
	}
	for _, tt := range tests {
		got, err := ParsePath(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePath(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if diff := cmp.Diff(tt.want, got.Parts); diff != "" {
			t.Errorf("ParsePath(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}

	p, _ := ParsePath("trait.tags[0]")
	if p.String() != "$.trait.tags[0]" {
		t.Errorf("unexpected String() %s", p.String())
	}
}

func TestExtract(t *testing.T) {
	doc := `{"name":"Fire Drake","race":{"name":"Dragon"},"trait":{"tags":["fire","aoe"]}}`

	tests := []struct {
		path    string
		want    any
		wantErr bool
	}{
		{"race.name", "Dragon", false},
		{"trait.tags[1]", "aoe", false},
		{"trait.tags[5]", nil, true},
		{"missing", nil, true},
		{"name.first", nil, true},
	}
	for _, tt := range tests {
		p, err := ParsePath(tt.path)
		if err != nil {
			t.Fatalf("ParsePath(%q): %v", tt.path, err)
		}
		got, err := Extract(doc, p)
		if (err != nil) != tt.wantErr {
			t.Errorf("Extract(%s) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Extract(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestPaths(t *testing.T) {
	doc := `{"name":"x","race":{"name":"y"},"spells":[{"id":1}]}`
	var got []string
	for _, p := range Paths(doc) {
		got = append(got, p.String())
	}
	want := []string{"$.name", "$.race", "$.race.name", "$.spells", "$.spells[0].id"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
}

func TestHighlightPreservesText(t *testing.T) {
	src := "{\n  \"name\": \"say \\\"hi\\\"\",\n  \"hp\": -1.5e2,\n  \"ok\": true,\n  \"none\": null\n}"
	plain := Palette{
		Key:     lipgloss.NewStyle(),
		String:  lipgloss.NewStyle(),
		Number:  lipgloss.NewStyle(),
		Boolean: lipgloss.NewStyle(),
		Null:    lipgloss.NewStyle(),
	}
	if got := Highlight(src, plain); got != src {
		t.Errorf("unstyled highlight changed the text:\n%s", got)
	}

	marked := plain
	marked.Key = lipgloss.NewStyle().SetString("K")
	got := Highlight(src, marked)
	if strings.Count(got, "K ") != 4 {
		t.Errorf("expected 4 keys to be styled, got:\n%s", got)
	}
}
