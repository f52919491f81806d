package main

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan   = lipgloss.Color("36")  // Headings
	colorGreen  = lipgloss.Color("35")  // Success
	colorYellow = lipgloss.Color("220") // Warnings
	colorRed    = lipgloss.Color("167") // Errors
	colorWhite  = lipgloss.Color("255") // Values
	colorDim    = lipgloss.Color("240") // Muted text
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	styleValue  = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleOK     = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarn   = lipgloss.NewStyle().Foreground(colorYellow)
	styleFailed = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

// Status markers used by doctor and inspect.
var (
	markOK    = styleOK.Render("[OK]")
	markWarn  = styleWarn.Render("[WARN]")
	markError = styleFailed.Render("[ERROR]")
)
