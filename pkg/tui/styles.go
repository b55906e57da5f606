// Package tui renders interactive prompts and run progress in the terminal
// with Bubble Tea. Asker is the rich counterpart of interact.StdinAsker;
// Reporter is an observer that prints one styled line per action.
package tui

import "github.com/charmbracelet/lipgloss"

// Action status glyphs — convey meaning without relying on color alone.
const (
	GlyphDone     = "✓"
	GlyphFailed   = "✗"
	GlyphSkipped  = "⏭"
	GlyphDeclined = "○"
	GlyphAborted  = "■"
	GlyphRunning  = "▸"
)

// Palette adapts to terminal capabilities via lipgloss.
var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorCyan   = lipgloss.Color("51")
	colorDim    = lipgloss.Color("240")
	colorWhite  = lipgloss.Color("255")
)

// --- Prompt styles ---

var (
	promptTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorCyan)

	promptBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	optionCurrent = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	optionNormal = lipgloss.NewStyle().
			Foreground(colorWhite)

	defaultMarkStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	keyStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true)

	keyDescStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// --- Progress styles ---

var (
	actionDone = lipgloss.NewStyle().
			Foreground(colorGreen)

	actionFailed = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	actionSkipped = lipgloss.NewStyle().
			Faint(true)

	actionRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	commandStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)
)
