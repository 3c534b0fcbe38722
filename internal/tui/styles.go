// Package tui provides the terminal user interface.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/isuhosts/isuhosts/internal/fleet"
)

// Colors, optimized for dark terminals
var (
	colorPrimary    = lipgloss.Color("205") // Pink/Magenta
	colorSuccess    = lipgloss.Color("42")  // Green
	colorError      = lipgloss.Color("196") // Red
	colorMuted      = lipgloss.Color("245") // Gray
	colorHeader     = lipgloss.Color("220") // Yellow for headers
	colorSelectedBg = lipgloss.Color("236") // Gray background for selection
	colorSelectedFg = lipgloss.Color("255") // White foreground for selection
)

// Title and header styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader).
			Padding(0, 1)

	pathStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)
)

// Host list
var (
	itemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().
				Background(colorSelectedBg).
				Foreground(colorSelectedFg).
				Bold(true).
				Padding(0, 1)

	changedStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	unchangedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	listPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted)

	diffPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary)
)

// Diff lines
var (
	insertStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	deleteStyle = lipgloss.NewStyle().
			Foreground(colorError)

	equalStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// Messages
var (
	errorMsgStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	successMsgStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)
)

// Indicator returns the list marker for a rewrite.
func Indicator(changed bool) string {
	if changed {
		return changedStyle.Render("●")
	}
	return unchangedStyle.Render("○")
}

// DiffLine renders one diff line with its marker.
func DiffLine(l fleet.DiffLine) string {
	switch l.Op {
	case fleet.DiffInsert:
		return insertStyle.Render("+ " + l.Text)
	case fleet.DiffDelete:
		return deleteStyle.Render("- " + l.Text)
	default:
		return equalStyle.Render("  " + l.Text)
	}
}
