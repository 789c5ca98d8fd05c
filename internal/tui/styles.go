package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/CaptShanks/markprism/internal/tree"
)

// palette holds every color the UI draws with
type palette struct {
	element  lipgloss.Color // generic elements
	table    lipgloss.Color // table, tr, td, th
	emphasis lipgloss.Color // b, em, strong, i
	list     lipgloss.Color // ul, ol, li
	text     lipgloss.Color // text leaves
	header   lipgloss.Color
	muted    lipgloss.Color
	border   lipgloss.Color
	selected lipgloss.Color // selection background
	insert   lipgloss.Color
	remove   lipgloss.Color
	match    lipgloss.Color
	status   lipgloss.Color // status bar background
}

// Soft, low-contrast palette inspired by Tokyo Night / Catppuccin
var darkPalette = palette{
	element:  lipgloss.Color("#7aa2f7"),
	table:    lipgloss.Color("#e0af68"),
	emphasis: lipgloss.Color("#bb9af7"),
	list:     lipgloss.Color("#73daca"),
	text:     lipgloss.Color("#a9b1d6"),
	header:   lipgloss.Color("#7aa2f7"),
	muted:    lipgloss.Color("#565f89"),
	border:   lipgloss.Color("#3b4261"),
	selected: lipgloss.Color("#292e42"),
	insert:   lipgloss.Color("#9ece6a"),
	remove:   lipgloss.Color("#f7768e"),
	match:    lipgloss.Color("#9ece6a"),
	status:   lipgloss.Color("#1a1b26"),
}

// Catppuccin Latte tones for light terminals
var lightPalette = palette{
	element:  lipgloss.Color("#1e66f5"),
	table:    lipgloss.Color("#df8e1d"),
	emphasis: lipgloss.Color("#8839ef"),
	list:     lipgloss.Color("#179299"),
	text:     lipgloss.Color("#4c4f69"),
	header:   lipgloss.Color("#1e66f5"),
	muted:    lipgloss.Color("#8c8fa1"),
	border:   lipgloss.Color("#bcc0cc"),
	selected: lipgloss.Color("#ccd0da"),
	insert:   lipgloss.Color("#40a02b"),
	remove:   lipgloss.Color("#d20f39"),
	match:    lipgloss.Color("#40a02b"),
	status:   lipgloss.Color("#e6e9ef"),
}

// Styles
var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	headerStyle    lipgloss.Style
	summaryStyle   lipgloss.Style
	elementStyle   lipgloss.Style
	tableStyle     lipgloss.Style
	emphasisStyle  lipgloss.Style
	listStyle      lipgloss.Style
	leafStyle      lipgloss.Style
	mutedStyle     lipgloss.Style
	selectedStyle  lipgloss.Style
	helpStyle      lipgloss.Style
	searchStyle    lipgloss.Style
	promptStyle    lipgloss.Style
	matchStyle     lipgloss.Style
	insertStyle    lipgloss.Style
	removeStyle    lipgloss.Style
	errorStyle     lipgloss.Style
	statusBarStyle lipgloss.Style
	nudgeStyle     lipgloss.Style

	expandedIndicator  string
	collapsedIndicator string
)

func init() {
	applyPalette(darkPalette)
}

// SetLightPalette switches every style to colors readable on a light background
func SetLightPalette() { applyPalette(lightPalette) }

// SetDarkPalette switches every style back to the default dark colors
func SetDarkPalette() { applyPalette(darkPalette) }

func applyPalette(p palette) {
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(p.header).MarginBottom(1)
	summaryStyle = lipgloss.NewStyle().Foreground(p.text)
	elementStyle = lipgloss.NewStyle().Bold(true).Foreground(p.element)
	tableStyle = lipgloss.NewStyle().Bold(true).Foreground(p.table)
	emphasisStyle = lipgloss.NewStyle().Bold(true).Foreground(p.emphasis)
	listStyle = lipgloss.NewStyle().Bold(true).Foreground(p.list)
	leafStyle = lipgloss.NewStyle().Foreground(p.text)
	mutedStyle = lipgloss.NewStyle().Foreground(p.muted)
	selectedStyle = lipgloss.NewStyle().Background(p.selected)
	helpStyle = lipgloss.NewStyle().Foreground(p.muted).MarginTop(1)
	searchStyle = lipgloss.NewStyle().Foreground(p.header).Bold(true)
	promptStyle = lipgloss.NewStyle().Foreground(p.emphasis).Bold(true)
	matchStyle = lipgloss.NewStyle().Background(p.border).Foreground(p.match).Bold(true)
	insertStyle = lipgloss.NewStyle().Foreground(p.insert)
	removeStyle = lipgloss.NewStyle().Foreground(p.remove)
	errorStyle = lipgloss.NewStyle().Foreground(p.remove).Bold(true)
	statusBarStyle = lipgloss.NewStyle().Foreground(p.muted).Background(p.status).Padding(0, 1)
	nudgeStyle = lipgloss.NewStyle().Foreground(p.list).Italic(true)

	expandedIndicator = mutedStyle.Render("▼")
	collapsedIndicator = mutedStyle.Render("▶")
}

// ElementStyle returns the style for an element name
func ElementStyle(name string) lipgloss.Style {
	switch name {
	case "table", "thead", "tbody", tree.RowTag, "td", "th":
		return tableStyle
	case tree.BoldTag, "strong", "em", "i", "u":
		return emphasisStyle
	case "ul", "ol", tree.ListItemTag:
		return listStyle
	default:
		return elementStyle
	}
}
