package tui

import (
	"testing"

	"github.com/CaptShanks/markprism/internal/tree"
)

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		text   string
		query  string
		expect bool
	}{
		{"table", "tbl", true},
		{"table", "table", true},
		{"The cat sat.", "cat", true},
		{"The cat sat.", "tcs", true},
		{"li", "il", false},
		{"ul", "UL", true},
		{"td", "th", false},
		{"", "a", false},
		{"abc", "", true},
	}
	for _, tt := range tests {
		got := fuzzyMatch(tt.text, tt.query)
		if got != tt.expect {
			t.Errorf("fuzzyMatch(%q, %q) = %v, want %v", tt.text, tt.query, got, tt.expect)
		}
	}
}

func TestMatchRows(t *testing.T) {
	doc := tree.Build([]string{"<html>", "<ul>", "<li>", "one cat", "</li>", "</ul>", "<p>", "a dog", "</p>", "</html>"})
	rows := flatten(doc, nil)

	got := matchRows(rows, "cat")
	if len(got) != 1 || rows[got[0]].node.Label != "one cat" {
		t.Errorf("matchRows(cat) = %v", got)
	}

	// every term must match
	if got := matchRows(rows, "one dog"); len(got) != 0 {
		t.Errorf("expected no rows for 'one dog', got %v", got)
	}
	if got := matchRows(rows, "  "); got != nil {
		t.Errorf("expected nil for a blank query, got %v", got)
	}
}

func TestFlattenSkipsCollapsed(t *testing.T) {
	doc := tree.Build([]string{"<html>", "<ul>", "<li>", "one", "</li>", "</ul>", "<p>", "x", "</p>", "</html>"})
	all := flatten(doc, nil)
	if len(all) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(all))
	}
	if all[3].depth != 3 || all[3].node.Label != "one" {
		t.Errorf("unexpected row %+v", all[3])
	}

	ul := doc.Root().FirstChild
	folded := flatten(doc, map[*tree.Node]bool{ul: true})
	if len(folded) != 4 {
		t.Errorf("expected 4 rows with <ul> collapsed, got %d", len(folded))
	}
}

func TestHighlightMatch(t *testing.T) {
	tests := []struct {
		text, query string
		want        string
	}{
		{"The CAT sat", "cat", "The " + matchStyle.Render("CAT") + " sat"},
		{"ȺȺ x", "x", "ȺȺ " + matchStyle.Render("x")},
		{"İstanbul x", "x", "İstanbul " + matchStyle.Render("x")},
		{"aȺb", "ⱥ", "a" + matchStyle.Render("Ⱥ") + "b"},
		{"no match", "zebra", "no match"},
		{"text", "  ", "text"},
	}
	for _, tt := range tests {
		if got := highlightMatch(tt.text, tt.query); got != tt.want {
			t.Errorf("highlightMatch(%q, %q) = %q, want %q", tt.text, tt.query, got, tt.want)
		}
	}
}
