package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/CaptShanks/markprism/internal/tree"
)

// outlineRow is one visible line of the editor
type outlineRow struct {
	node  *tree.Node
	depth int
}

// flatten lists the nodes of t in document order, skipping the children of
// collapsed elements
func flatten(t *tree.Tree, collapsed map[*tree.Node]bool) []outlineRow {
	var rows []outlineRow
	t.Walk(func(n *tree.Node, depth int) bool {
		rows = append(rows, outlineRow{node: n, depth: depth})
		return !collapsed[n]
	})
	return rows
}

// fuzzyMatch returns true if all characters in query appear in text in order
// (not necessarily consecutive). E.g. "tbl" matches "table", "itm" matches "item".
func fuzzyMatch(text, query string) bool {
	text = strings.ToLower(text)
	query = strings.ToLower(query)
	if query == "" {
		return true
	}
	qi := 0
	for i := 0; i < len(text) && qi < len(query); i++ {
		if text[i] == query[qi] {
			qi++
		}
	}
	return qi == len(query)
}

// matchRows returns the indices of rows whose label matches every
// space-separated term of query
func matchRows(rows []outlineRow, query string) []int {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}
	var matches []int
	for i, r := range rows {
		ok := true
		for _, term := range terms {
			if !fuzzyMatch(r.node.Label, term) {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, i)
		}
	}
	return matches
}

// highlightMatch styles the first case-insensitive occurrence of query in
// text. Windows are compared over text itself, since lowercasing can change
// a string's byte length.
func highlightMatch(text, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return text
	}
	n := utf8.RuneCountInString(query)

	for start := 0; start < len(text); {
		end := start
		for i := 0; i < n && end < len(text); i++ {
			_, size := utf8.DecodeRuneInString(text[end:])
			end += size
		}
		if strings.EqualFold(text[start:end], query) {
			return text[:start] + matchStyle.Render(text[start:end]) + text[end:]
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		start += size
	}
	return text
}
