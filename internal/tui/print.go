package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"github.com/CaptShanks/markprism/internal/history"
	"github.com/CaptShanks/markprism/internal/tree"
)

const indentWidth = 2

func init() {
	// Force color output even when not a TTY (for piping)
	lipgloss.SetColorProfile(termenv.TrueColor)
}

// DisableColor turns off all styling, e.g. for --no-color
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// PrintTree writes an indented, colored outline of t. Text longer than width
// is wrapped under its own indentation; width <= 0 disables wrapping.
func PrintTree(w io.Writer, t *tree.Tree, width int) error {
	var b strings.Builder
	b.WriteString(headerStyle.Render("markprism"))
	b.WriteString("\n")
	b.WriteString(summaryStyle.Render(summarize(t.Stats())))
	b.WriteString("\n\n")

	t.Walk(func(n *tree.Node, depth int) bool {
		b.WriteString(renderNode(n, depth, width))
		b.WriteString("\n")
		return true
	})

	_, err := io.WriteString(w, b.String())
	return err
}

func summarize(s tree.Stats) string {
	return fmt.Sprintf("%d elements, %d text lines, %d table rows, depth %d",
		s.Elements, s.Leaves, s.Rows, s.Depth)
}

// renderNode renders one outline entry with its indentation
func renderNode(n *tree.Node, depth, width int) string {
	pad := uint(depth * indentWidth)
	if !n.IsLeaf() {
		return indent.String(ElementStyle(n.Label).Render("<"+n.Label+">"), pad)
	}
	text := n.Label
	if avail := width - int(pad); width > 0 && avail > 0 {
		text = wordwrap.String(text, avail)
	}
	return indent.String(leafStyle.Render(text), pad)
}

// PrintDiff writes a colored context diff between two serializations
func PrintDiff(w io.Writer, before, after []string) error {
	diff := ContextDiff(ComputeDiff(before, after), 3)
	if diff == nil {
		_, err := fmt.Fprintln(w, mutedStyle.Render("no changes"))
		return err
	}

	inserted, deleted := DiffStats(diff)
	var b strings.Builder
	b.WriteString(removeStyle.Render("--- original"))
	b.WriteString("\n")
	b.WriteString(insertStyle.Render("+++ edited"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d added, %d removed", inserted, deleted)))
	b.WriteString("\n")
	for _, d := range diff {
		b.WriteString(renderDiffLine(d))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderDiffLine(d DiffLine) string {
	switch d.Op {
	case DiffInsert:
		return insertStyle.Render("+ " + d.Text)
	case DiffDelete:
		return removeStyle.Render("- " + d.Text)
	case DiffSeparator:
		return mutedStyle.Render(d.Text)
	default:
		return leafStyle.Render("  " + d.Text)
	}
}

// FormatHistoryEntryColored formats a history entry for `history list`
// with the command colored
func FormatHistoryEntryColored(e history.Entry, path string) string {
	cmdStyle := mutedStyle
	switch e.Command {
	case history.CommandApply:
		cmdStyle = insertStyle
	case history.CommandView:
		cmdStyle = emphasisStyle
	case history.CommandWatch:
		cmdStyle = listStyle
	}

	doc := e.Document
	if len(doc) > 20 {
		doc = doc[:17] + "..."
	}
	// pad before styling so ANSI codes don't break the columns
	return fmt.Sprintf("%s  %-20s  %s  %s",
		e.Timestamp.Format("2006-01-02 15:04"),
		doc,
		cmdStyle.Render(fmt.Sprintf("%-7s", e.Command)),
		mutedStyle.Render(path),
	)
}
