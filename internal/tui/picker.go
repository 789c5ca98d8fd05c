package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CaptShanks/markprism/internal/history"
)

const pickerWidth = 64

var pickerKeys = struct {
	Search, Quit, Cancel, Select, Down, Up, Top, Bottom key.Binding
}{
	Search: key.NewBinding(key.WithKeys("/")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Cancel: key.NewBinding(key.WithKeys("esc")),
	Select: key.NewBinding(key.WithKeys("enter", " ")),
	Down:   key.NewBinding(key.WithKeys("j", "down")),
	Up:     key.NewBinding(key.WithKeys("k", "up")),
	Top:    key.NewBinding(key.WithKeys("g", "home")),
	Bottom: key.NewBinding(key.WithKeys("G", "end")),
}

// PickerModel is a TUI for selecting a history entry
type PickerModel struct {
	entries  []history.Entry // unfiltered, newest first
	filtered []history.Entry
	cursor   int
	selected string // path of the chosen entry
	quitting bool

	searching bool
	query     string
}

// NewPickerModel creates a new history picker
func NewPickerModel(entries []history.Entry) PickerModel {
	return PickerModel{entries: entries, filtered: entries}
}

// SelectedPath returns the path of the selected entry (empty if cancelled)
func (m PickerModel) SelectedPath() string {
	return m.selected
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

// filter keeps entries matching every space-separated term of the query,
// fzf style: "report apply 2024-05" needs all three
func (m *PickerModel) filter() {
	terms := strings.Fields(strings.ToLower(m.query))
	if len(terms) == 0 {
		m.filtered = m.entries
		m.cursor = min(m.cursor, max(0, len(m.filtered)-1))
		return
	}

	var out []history.Entry
	for _, e := range m.entries {
		searchable := strings.ToLower(strings.Join([]string{
			e.Document,
			e.Command,
			e.Timestamp.Format("2006-01-02 15:04"),
			e.Filename,
		}, " "))
		ok := true
		for _, term := range terms {
			if !strings.Contains(searchable, term) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, e)
		}
	}
	m.filtered = out
	m.cursor = min(m.cursor, max(0, len(m.filtered)-1))
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.searching {
		return m.updateSearch(keyMsg), nil
	}

	switch {
	case key.Matches(keyMsg, pickerKeys.Search):
		m.searching = true
	case key.Matches(keyMsg, pickerKeys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, pickerKeys.Cancel):
		if m.query != "" {
			m.query = ""
			m.filter()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, pickerKeys.Select):
		if len(m.filtered) > 0 {
			m.selected = m.filtered[m.cursor].Path
		}
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, pickerKeys.Down):
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, pickerKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, pickerKeys.Top):
		m.cursor = 0
	case key.Matches(keyMsg, pickerKeys.Bottom):
		m.cursor = max(0, len(m.filtered)-1)
	}
	return m, nil
}

func (m PickerModel) updateSearch(msg tea.KeyMsg) PickerModel {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.query = ""
	case tea.KeyEnter:
		m.searching = false
		return m
	case tea.KeyBackspace:
		if len(m.query) > 0 {
			m.query = m.query[:len(m.query)-1]
		}
	case tea.KeyRunes:
		m.query += string(msg.Runes)
	case tea.KeySpace:
		m.query += " "
	default:
		return m
	}
	m.filter()
	return m
}

func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Select a history entry to view"))
	b.WriteString("\n\n")

	columns := mutedStyle.Bold(true)
	b.WriteString(columns.Render("     TIMESTAMP            DOCUMENT              COMMAND"))
	b.WriteString("\n")
	b.WriteString(columns.Render(strings.Repeat("─", pickerWidth)))
	b.WriteString("\n")

	if len(m.filtered) == 0 {
		empty := "  No history entries"
		if m.query != "" {
			empty = fmt.Sprintf("  No results for '%s'", m.query)
		}
		b.WriteString(mutedStyle.Italic(true).Render(empty))
		b.WriteString("\n")
	}

	for i, e := range m.filtered {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%2d  %s", marker, i+1, history.FormatEntry(e))

		if i == m.cursor {
			// Pad the line for full-width highlight
			if len(line) < pickerWidth {
				line += strings.Repeat(" ", pickerWidth-len(line))
			}
			line = leafStyle.Inherit(selectedStyle).Bold(true).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.searching:
		b.WriteString(promptStyle.Render("/ "))
		b.WriteString(m.query)
		b.WriteString("█")
	case m.query != "":
		b.WriteString(searchStyle.Render("Filter: " + m.query))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  (%d/%d)", len(m.filtered), len(m.entries))))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("j/k: navigate  enter: select  esc: clear filter  q: cancel"))
	default:
		b.WriteString(mutedStyle.Render("j/k: navigate  /: search  enter: select  q: cancel"))
	}
	return b.String()
}

// RunPicker runs the interactive history picker and returns the selected path
func RunPicker(entries []history.Entry) (string, error) {
	finalModel, err := tea.NewProgram(NewPickerModel(entries)).Run()
	if err != nil {
		return "", err
	}
	return finalModel.(PickerModel).SelectedPath(), nil
}
