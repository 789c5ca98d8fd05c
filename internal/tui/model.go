package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"github.com/CaptShanks/markprism/internal/edit"
	"github.com/CaptShanks/markprism/internal/parser"
	"github.com/CaptShanks/markprism/internal/tree"
)

// mode decides which handler receives key presses
type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modePrompt
	modeDiff
)

// UpdateAvailableMsg is sent when an update check finds a newer version.
type UpdateAvailableMsg struct {
	Version string
}

// UpdateChecker reports whether a newer release exists
type UpdateChecker interface {
	CheckLatestWithCache() (latest string, hasUpdate bool, err error)
}

// Options configures the editor
type Options struct {
	Name    string        // document name shown in the header
	Checker UpdateChecker // nil disables the update nudge
	Source  []string      // input lines as read, checked for balance
}

// Model is the interactive tree editor
type Model struct {
	doc      *tree.Tree
	original []string     // serialization when the editor opened
	undo     []*tree.Tree // snapshot before each applied edit
	edits    edit.Script
	name     string
	lint     parser.Summary

	rows      []outlineRow
	collapsed map[*tree.Node]bool
	cursor    int
	pendingG  bool // 'g' pressed, waiting for the second 'g'

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	mode       mode
	input      textinput.Model
	promptKind edit.Kind

	searchQuery   string
	searchMatches []int // row indices
	currentMatch  int

	status    string
	statusErr bool
	saved     bool

	keys keyMap
	help help.Model

	checker         UpdateChecker
	updateAvailable string
}

// NewModel creates an editor over t. The tree is edited in place.
func NewModel(t *tree.Tree, opts Options) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40

	name := opts.Name
	if name == "" {
		name = "document"
	}

	m := Model{
		doc:       t,
		original:  t.Lines(),
		name:      name,
		collapsed: make(map[*tree.Node]bool),
		input:     ti,
		keys:      defaultKeyMap(),
		help:      help.New(),
		checker:   opts.Checker,
		lint:      parser.Summarize(opts.Source),
	}
	m.rows = flatten(t, m.collapsed)
	return m
}

// Tree returns the edited document
func (m Model) Tree() *tree.Tree { return m.doc }

// Edits returns the edits applied and not undone, in order
func (m Model) Edits() edit.Script { return m.edits }

// Saved reports whether the user chose save and quit
func (m Model) Saved() bool { return m.saved }

// Init initializes the model
func (m Model) Init() tea.Cmd {
	if m.checker == nil {
		return nil
	}
	return checkUpdateCmd(m.checker)
}

// checkUpdateCmd runs an async update check and sends UpdateAvailableMsg if an update is available.
func checkUpdateCmd(c UpdateChecker) tea.Cmd {
	return func() tea.Msg {
		latest, hasUpdate, err := c.CheckLatestWithCache()
		if err != nil || !hasUpdate {
			return nil
		}
		return UpdateAvailableMsg{Version: latest}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case UpdateAvailableMsg:
		m.updateAvailable = msg.Version
		m.resize()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width - 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, 1)
			m.ready = true
		}
		m.resize()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modePrompt:
			return m.updatePrompt(msg)
		case modeDiff:
			return m.updateDiff(msg)
		}
		return m.updateBrowse(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// resize fits the viewport between the header and the footer
func (m *Model) resize() {
	if !m.ready {
		return
	}
	chrome := 8 // padding, title, summary, status line, help
	if m.updateAvailable != "" {
		chrome++
	}
	if m.help.ShowAll {
		chrome += 5
	}
	m.viewport.Width = m.width - 4
	m.viewport.Height = max(1, m.height-chrome)
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	if !key.Matches(msg, k.Top) {
		m.pendingG = false
	}

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Save):
		m.saved = true
		return m, tea.Quit
	case key.Matches(msg, k.Up):
		m.moveCursor(-1)
	case key.Matches(msg, k.Down):
		m.moveCursor(1)
	case key.Matches(msg, k.Top):
		if m.pendingG || msg.String() == "home" {
			m.pendingG = false
			m.moveCursor(-len(m.rows))
		} else {
			m.pendingG = true
		}
	case key.Matches(msg, k.Bottom):
		m.moveCursor(len(m.rows))
	case key.Matches(msg, k.HalfDown):
		m.moveCursor(max(1, m.viewport.Height/2))
	case key.Matches(msg, k.HalfUp):
		m.moveCursor(-max(1, m.viewport.Height/2))
	case key.Matches(msg, k.Toggle):
		if n := m.selected(); n != nil && !n.IsLeaf() {
			m.collapsed[n] = !m.collapsed[n]
			m.refresh()
		}
	case key.Matches(msg, k.Expand):
		if n := m.selected(); n != nil && m.collapsed[n] {
			delete(m.collapsed, n)
			m.refresh()
		}
	case key.Matches(msg, k.Collapse):
		if n := m.selected(); n != nil && !n.IsLeaf() && !m.collapsed[n] {
			m.collapsed[n] = true
			m.refresh()
		}
	case key.Matches(msg, k.ExpandAll):
		m.collapsed = make(map[*tree.Node]bool)
		m.refresh()
	case key.Matches(msg, k.CollapseAll):
		m.collapseAll()
	case key.Matches(msg, k.Search):
		m.mode = modeSearch
		m.startInput("search...", m.searchQuery)
		return m, textinput.Blink
	case key.Matches(msg, k.NextMatch):
		m.jumpMatch(1)
	case key.Matches(msg, k.PrevMatch):
		m.jumpMatch(-1)
	case key.Matches(msg, k.ClearSearch):
		m.clearSearch()
	case key.Matches(msg, k.Rename):
		return m.openPrompt(edit.KindRename)
	case key.Matches(msg, k.Bold):
		return m.openPrompt(edit.KindBold)
	case key.Matches(msg, k.Remove):
		return m.openPrompt(edit.KindRemove)
	case key.Matches(msg, k.Wrap):
		return m.openPrompt(edit.KindWrap)
	case key.Matches(msg, k.Undo):
		m.undoLast()
	case key.Matches(msg, k.Diff):
		m.mode = modeDiff
		m.updateViewportContent()
		m.viewport.GotoTop()
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		m.clearSearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.search(m.input.Value())
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBrowse
		m.input.Blur()
		op, err := edit.New(m.promptKind, strings.Fields(m.input.Value())...)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.apply(op)
		return m, nil
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		m.setStatus("cancelled")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateDiff(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Diff), msg.String() == "esc", msg.String() == "q":
		m.mode = modeBrowse
		m.updateViewportContent()
		m.ensureCursorVisible()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.SetYOffset(m.viewport.YOffset + 1)
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.viewport.SetYOffset(m.viewport.YOffset - 1)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// openPrompt asks for the arguments of an edit, pre-filled from the
// selected node where that helps
func (m Model) openPrompt(kind edit.Kind) (tea.Model, tea.Cmd) {
	var value string
	n := m.selected()
	// rename and remove never touch the root
	element := n != nil && !n.IsLeaf() && n != m.doc.Root()
	switch kind {
	case edit.KindRename:
		if element {
			value = n.Label + " "
		}
	case edit.KindRemove:
		if element {
			value = n.Label
		}
	case edit.KindBold:
		if row := rowNumber(m.doc, n); row > 0 {
			value = strconv.Itoa(row)
		}
	}

	m.mode = modePrompt
	m.promptKind = kind
	m.startInput(promptPlaceholder(kind), value)
	return m, textinput.Blink
}

// promptPlaceholder shows an op's arguments in the space-separated form the
// prompt takes: rename:<old>:<new> becomes "<old> <new>"
func promptPlaceholder(kind edit.Kind) string {
	args := strings.TrimPrefix(edit.Usage(kind), string(kind)+":")
	return strings.ReplaceAll(args, ":", " ")
}

func (m *Model) startInput(placeholder, value string) {
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

// apply runs op against the document, keeping a snapshot for undo. Edits that
// change nothing are reported and not recorded.
func (m *Model) apply(op edit.Op) {
	before := m.doc.Clone()
	if err := op.Apply(m.doc); err != nil {
		m.setError(err)
		return
	}
	if slices.Equal(before.Lines(), m.doc.Lines()) {
		m.setStatus(op.Describe() + ": nothing matched")
		return
	}
	m.undo = append(m.undo, before)
	m.edits = append(m.edits, op)
	m.setStatus(op.Describe())
	m.refresh()
}

func (m *Model) undoLast() {
	if len(m.undo) == 0 {
		m.setStatus("nothing to undo")
		return
	}
	last := m.edits[len(m.edits)-1]
	m.doc = m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.edits = m.edits[:len(m.edits)-1]
	// fold state was keyed by nodes of the discarded tree
	m.collapsed = make(map[*tree.Node]bool)
	m.setStatus("undid " + last.Describe())
	m.refresh()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// selected returns the node under the cursor
func (m *Model) selected() *tree.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

// rowNumber returns the 1-based document-order position of n among table
// rows, or 0 when n is not a row
func rowNumber(t *tree.Tree, n *tree.Node) int {
	if n == nil || n.IsLeaf() || n.Label != tree.RowTag {
		return 0
	}
	count, found := 0, 0
	t.Walk(func(x *tree.Node, _ int) bool {
		if found > 0 {
			return false
		}
		if !x.IsLeaf() && x.Label == tree.RowTag {
			count++
			if x == n {
				found = count
			}
		}
		return true
	})
	return found
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	m.updateViewportContent()
	m.ensureCursorVisible()
}

// collapseAll folds every element below the root
func (m *Model) collapseAll() {
	m.collapsed = make(map[*tree.Node]bool)
	m.doc.Walk(func(n *tree.Node, depth int) bool {
		if depth > 0 && !n.IsLeaf() {
			m.collapsed[n] = true
		}
		return true
	})
	m.refresh()
}

// refresh rebuilds the visible rows after the tree or fold state changed
func (m *Model) refresh() {
	current := m.selected()
	m.rows = flatten(m.doc, m.collapsed)

	// keep the cursor on the same node when it is still visible
	m.cursor = min(m.cursor, max(0, len(m.rows)-1))
	for i, r := range m.rows {
		if r.node == current {
			m.cursor = i
			break
		}
	}

	if m.searchQuery != "" {
		m.searchMatches = matchRows(m.rows, m.searchQuery)
	}
	m.updateViewportContent()
	m.ensureCursorVisible()
}

// search matches query against the visible rows and moves to the first
// match at or after the cursor
func (m *Model) search(query string) {
	m.searchQuery = strings.TrimSpace(query)
	m.searchMatches = matchRows(m.rows, m.searchQuery)
	m.currentMatch = 0
	for i, idx := range m.searchMatches {
		if idx >= m.cursor {
			m.currentMatch = i
			break
		}
	}
	if len(m.searchMatches) > 0 {
		m.cursor = m.searchMatches[m.currentMatch]
	}
	m.updateViewportContent()
	m.ensureCursorVisible()
}

func (m *Model) jumpMatch(delta int) {
	if len(m.searchMatches) == 0 {
		return
	}
	n := len(m.searchMatches)
	m.currentMatch = ((m.currentMatch+delta)%n + n) % n
	m.cursor = m.searchMatches[m.currentMatch]
	m.updateViewportContent()
	m.ensureCursorVisible()
}

func (m *Model) clearSearch() {
	m.searchQuery = ""
	m.searchMatches = nil
	m.currentMatch = 0
	m.updateViewportContent()
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	if m.mode == modeDiff {
		m.viewport.SetContent(m.renderDiff())
		return
	}
	m.viewport.SetContent(m.renderOutline())
}

// ensureCursorVisible scrolls the viewport to make the current cursor visible
func (m *Model) ensureCursorVisible() {
	if !m.ready || m.mode == modeDiff {
		return
	}
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height - 1
	if m.cursor < top {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor > bottom {
		m.viewport.SetYOffset(max(0, m.cursor-m.viewport.Height+1))
	}
}

func (m Model) renderOutline() string {
	if len(m.rows) == 0 {
		return mutedStyle.Render("The document is empty.")
	}
	matches := make(map[int]bool, len(m.searchMatches))
	for _, idx := range m.searchMatches {
		matches[idx] = true
	}

	var b strings.Builder
	for i, r := range m.rows {
		if i == m.cursor {
			b.WriteString(m.renderSelectedRow(r))
		} else {
			b.WriteString(m.renderRow(r, matches[i]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// rowText returns the indicator and label of a row, unstyled
func (m Model) rowText(r outlineRow) (indicator, label string) {
	n := r.node
	if n.IsLeaf() {
		return " ", n.Label
	}
	label = "<" + n.Label + ">"
	if m.collapsed[n] {
		return "▶", label + fmt.Sprintf(" (%d)", len(n.Children()))
	}
	return "▼", label
}

func (m Model) renderRow(r outlineRow, isMatch bool) string {
	indicator, label := m.rowText(r)
	pad := strings.Repeat(" ", r.depth*indentWidth)
	avail := uint(max(1, m.viewport.Width-len(pad)-2))
	label = truncate.StringWithTail(label, avail, "…")

	switch indicator {
	case "▼":
		indicator = expandedIndicator
	case "▶":
		indicator = collapsedIndicator
	}

	style := leafStyle
	if !r.node.IsLeaf() {
		style = ElementStyle(r.node.Label)
	}
	if isMatch && m.searchQuery != "" {
		return pad + indicator + " " + highlightMatch(label, m.searchQuery)
	}
	return pad + indicator + " " + style.Render(label)
}

// renderSelectedRow renders the cursor row with full-width background highlight
func (m Model) renderSelectedRow(r outlineRow) string {
	indicator, label := m.rowText(r)
	pad := strings.Repeat(" ", r.depth*indentWidth)
	line := truncate.StringWithTail(pad+indicator+" "+label, uint(max(1, m.viewport.Width)), "…")
	if w := m.viewport.Width; len([]rune(line)) < w {
		line += strings.Repeat(" ", w-len([]rune(line)))
	}

	style := leafStyle
	if !r.node.IsLeaf() {
		style = ElementStyle(r.node.Label)
	}
	return style.Inherit(selectedStyle).Render(line)
}

func (m Model) renderDiff() string {
	diff := ContextDiff(ComputeDiff(m.original, m.doc.Lines()), 3)
	if diff == nil {
		return mutedStyle.Render("No changes yet.")
	}
	inserted, deleted := DiffStats(diff)
	var b strings.Builder
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d added, %d removed", inserted, deleted)))
	b.WriteString("\n\n")
	for _, d := range diff {
		b.WriteString(renderDiffLine(d))
		b.WriteString("\n")
	}
	return b.String()
}

// viewHeader renders the title and document summary
func (m Model) viewHeader() string {
	var b strings.Builder
	title := "markprism · " + m.name
	if m.mode == modeDiff {
		title += " · diff"
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	summary := summarize(m.doc.Stats())
	if len(m.edits) > 0 {
		summary += fmt.Sprintf(" · %d edit(s)", len(m.edits))
	}
	b.WriteString(summaryStyle.Render(summary))
	if !m.lint.Balanced {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(fmt.Sprintf("input unbalanced at line %d", m.lint.FirstProblem)))
	}
	b.WriteString("\n")
	return b.String()
}

// viewBar renders the search or edit prompt, or the last status message
func (m Model) viewBar() string {
	switch m.mode {
	case modeSearch:
		return searchStyle.Render("Search: ") + m.input.View()
	case modePrompt:
		return promptStyle.Render(string(m.promptKind)+": ") + m.input.View()
	}
	if m.searchQuery != "" {
		pos := 0
		if len(m.searchMatches) > 0 {
			pos = m.currentMatch + 1
		}
		return searchStyle.Render(fmt.Sprintf("Search: %q (%d/%d matches)", m.searchQuery, pos, len(m.searchMatches)))
	}
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return errorStyle.Render(m.status)
	}
	return statusBarStyle.Render(m.status)
}

// viewUpdateNudge renders the update available nudge.
func (m Model) viewUpdateNudge() string {
	if m.updateAvailable == "" {
		return ""
	}
	return "\n" + nudgeStyle.Render(fmt.Sprintf("Update available: v%s. Run 'markprism upgrade' to update.", m.updateAvailable))
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString(m.viewBar())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.mode == modeDiff {
		b.WriteString(helpStyle.Render("j/k: scroll • D/esc: back to outline"))
	} else {
		b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	}
	b.WriteString(m.viewUpdateNudge())
	return appStyle.Render(b.String())
}
