package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CaptShanks/markprism/internal/edit"
	"github.com/CaptShanks/markprism/internal/tree"
)

// rows: 0 html, 1 ul, 2 li, 3 one, 4 table, 5 tr, 6 td, 7 cat
var editorDoc = []string{
	"<html>",
	"<ul>", "<li>", "one", "</li>", "</ul>",
	"<table>", "<tr>", "<td>", "cat", "</td>", "</tr>", "</table>",
	"</html>",
}

func newEditor(t *testing.T) Model {
	t.Helper()
	m := NewModel(tree.Build(editorDoc), Options{Name: "test.html"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

// press sends each key; multi-character names are special keys
func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

// typeText types s one rune at a time into the active input
func typeText(m Model, s string) Model {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func down(m Model, n int) Model {
	for i := 0; i < n; i++ {
		m = press(m, "j")
	}
	return m
}

func TestEditorRemoveFromSelection(t *testing.T) {
	m := press(down(newEditor(t), 1), "x")
	if m.mode != modePrompt || m.input.Value() != "ul" {
		t.Fatalf("expected remove prompt prefilled with 'ul', got mode %d value %q", m.mode, m.input.Value())
	}
	m = press(m, "enter")

	got := strings.Join(m.Tree().Lines(), " ")
	want := "<html> <li> one </li> <table> <tr> <td> cat </td> </tr> </table> </html>"
	if got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
	if len(m.Edits()) != 1 || m.Edits()[0].String() != "remove:ul" {
		t.Errorf("unexpected edits %v", m.Edits())
	}
}

func TestEditorRenameAndUndo(t *testing.T) {
	m := press(down(newEditor(t), 6), "r")
	if m.input.Value() != "td " {
		t.Fatalf("expected rename prompt prefilled with 'td ', got %q", m.input.Value())
	}
	m = press(typeText(m, "th"), "enter")
	if !m.Tree().HasTag("th") || m.Tree().HasTag("td") {
		t.Fatalf("expected td renamed to th: %v", m.Tree().Lines())
	}

	m = press(m, "U")
	if strings.Join(m.Tree().Lines(), "\n") != strings.Join(editorDoc, "\n") {
		t.Errorf("expected undo to restore the document, got %v", m.Tree().Lines())
	}
	if len(m.Edits()) != 0 {
		t.Errorf("expected no edits after undo, got %v", m.Edits())
	}

	m = press(m, "U")
	if m.status != "nothing to undo" {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestEditorBoldPrefillsRow(t *testing.T) {
	m := press(down(newEditor(t), 5), "b")
	if m.input.Value() != "1" {
		t.Fatalf("expected bold prompt prefilled with row 1, got %q", m.input.Value())
	}
	m = press(m, "enter")
	got := strings.Join(m.Tree().Lines(), " ")
	if !strings.Contains(got, "<td> <b> cat </b> </td>") {
		t.Errorf("expected cell content bolded, got %s", got)
	}
}

func TestEditorWrap(t *testing.T) {
	m := press(newEditor(t), "w")
	m = press(typeText(m, "cat b"), "enter")
	if !m.Tree().HasTag("b") {
		t.Errorf("expected cat wrapped in <b>: %v", m.Tree().Lines())
	}
	if m.Edits().String() != "wrap:cat:b" {
		t.Errorf("unexpected edits %q", m.Edits().String())
	}
}

func TestEditorPromptErrors(t *testing.T) {
	m := press(typeText(press(newEditor(t), "w"), "cat"), "enter")
	if !m.statusErr || !strings.Contains(m.status, edit.ErrBadArgs.Error()) {
		t.Errorf("expected an argument error, status %q", m.status)
	}
	if len(m.Edits()) != 0 {
		t.Errorf("expected no edits, got %v", m.Edits())
	}

	// an edit that matches nothing is not recorded
	m = press(typeText(press(m, "x"), "section"), "enter")
	if len(m.Edits()) != 0 || !strings.Contains(m.status, "nothing matched") {
		t.Errorf("expected no-op edit to be skipped, status %q", m.status)
	}

	m = press(typeText(press(m, "w"), "cat b"), "esc")
	if m.mode != modeBrowse || m.Tree().HasTag("b") {
		t.Error("expected esc to cancel the prompt")
	}
}

func TestEditorFolding(t *testing.T) {
	m := down(newEditor(t), 1)
	if len(m.rows) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(m.rows))
	}
	m = press(m, "enter")
	if len(m.rows) != 6 {
		t.Errorf("expected <ul> folded to 6 rows, got %d", len(m.rows))
	}
	if m.selected().Label != "ul" {
		t.Errorf("expected cursor to stay on <ul>, got %q", m.selected().Label)
	}
	m = press(m, "l")
	if len(m.rows) != 8 {
		t.Errorf("expected expand to restore 8 rows, got %d", len(m.rows))
	}

	m = press(m, "c")
	if len(m.rows) != 3 {
		t.Errorf("expected collapse all to leave html, ul and table, got %d rows", len(m.rows))
	}
	m = press(m, "e")
	if len(m.rows) != 8 {
		t.Errorf("expected expand all to show 8 rows, got %d", len(m.rows))
	}
}

func TestEditorNavigation(t *testing.T) {
	m := press(newEditor(t), "G")
	if m.cursor != 7 {
		t.Errorf("expected G to reach the last row, got %d", m.cursor)
	}
	m = press(m, "g")
	if m.cursor != 7 {
		t.Error("expected a single g to wait for the second")
	}
	m = press(m, "g")
	if m.cursor != 0 {
		t.Errorf("expected gg to reach the top, got %d", m.cursor)
	}
	m = press(m, "k")
	if m.cursor != 0 {
		t.Errorf("expected cursor to stay at 0, got %d", m.cursor)
	}
}

func TestEditorSearch(t *testing.T) {
	m := press(typeText(press(newEditor(t), "/"), "cat"), "enter")
	if m.mode != modeBrowse {
		t.Fatalf("expected enter to leave search mode")
	}
	if len(m.searchMatches) != 1 || m.cursor != 7 {
		t.Errorf("expected one match at row 7, got %v cursor %d", m.searchMatches, m.cursor)
	}

	m = press(m, "n")
	if m.cursor != 7 {
		t.Errorf("expected n to wrap to the same match, got %d", m.cursor)
	}

	m = press(m, "esc")
	if m.searchQuery != "" || m.searchMatches != nil {
		t.Error("expected esc to clear the search")
	}
}

func TestEditorDiffView(t *testing.T) {
	m := press(typeText(press(newEditor(t), "w"), "cat b"), "enter")
	m = press(m, "D")
	if m.mode != modeDiff {
		t.Fatal("expected diff mode")
	}
	if view := m.View(); !strings.Contains(view, "+ <b>") {
		t.Errorf("expected diff view to show the inserted tag:\n%s", view)
	}
	m = press(m, "D")
	if m.mode != modeBrowse {
		t.Error("expected D to return to the outline")
	}
}

func TestEditorSaveAndQuit(t *testing.T) {
	m := newEditor(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if !next.(Model).Saved() {
		t.Error("expected Saved after s")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if next.(Model).Saved() {
		t.Error("expected q to quit without saving")
	}
}

type fakeChecker struct {
	latest string
	update bool
}

func (f fakeChecker) CheckLatestWithCache() (string, bool, error) {
	return f.latest, f.update, nil
}

func TestEditorUpdateNudge(t *testing.T) {
	if cmd := NewModel(tree.Build(editorDoc), Options{}).Init(); cmd != nil {
		t.Error("expected no update check without a checker")
	}

	m := NewModel(tree.Build(editorDoc), Options{Checker: fakeChecker{latest: "0.2.0", update: true}})
	msg := m.Init()()
	if got, ok := msg.(UpdateAvailableMsg); !ok || got.Version != "0.2.0" {
		t.Fatalf("expected UpdateAvailableMsg, got %#v", msg)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	next, _ = next.Update(msg)
	if !strings.Contains(next.View(), "Update available: v0.2.0") {
		t.Error("expected the nudge in the view")
	}

	none := NewModel(tree.Build(editorDoc), Options{Checker: fakeChecker{latest: "0.1.0"}})
	if msg := none.Init()(); msg != nil {
		t.Errorf("expected no message when up to date, got %#v", msg)
	}
}

func TestRowNumber(t *testing.T) {
	doc := tree.Build([]string{
		"<html>",
		"<table>", "<tr>", "<td>", "a", "</td>", "</tr>", "</table>",
		"<table>", "<tr>", "<td>", "b", "</td>", "</tr>", "</table>",
		"</html>",
	})
	var rows []*tree.Node
	doc.Walk(func(n *tree.Node, _ int) bool {
		if n.Label == tree.RowTag {
			rows = append(rows, n)
		}
		return true
	})
	if got := rowNumber(doc, rows[1]); got != 2 {
		t.Errorf("expected second row to be 2, got %d", got)
	}
	if got := rowNumber(doc, doc.Root()); got != 0 {
		t.Errorf("expected 0 for a non-row, got %d", got)
	}
}

func TestEditorWarnsOnUnbalancedInput(t *testing.T) {
	src := []string{"<html>", "<p>", "x", "</div>", "</p>", "</html>"}
	m := NewModel(tree.Build(src), Options{Source: src})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if !strings.Contains(next.View(), "input unbalanced at line 4") {
		t.Error("expected a warning for the stray closer")
	}

	clean := newEditor(t)
	if strings.Contains(clean.View(), "unbalanced") {
		t.Error("expected no warning without source lines")
	}
}

func TestPromptPlaceholder(t *testing.T) {
	tests := map[edit.Kind]string{
		edit.KindRename: "<old> <new>",
		edit.KindBold:   "<row>",
		edit.KindRemove: "<tag>",
		edit.KindWrap:   "<word> <tag>",
	}
	for kind, want := range tests {
		if got := promptPlaceholder(kind); got != want {
			t.Errorf("promptPlaceholder(%s) = %q, want %q", kind, got, want)
		}
	}
}
