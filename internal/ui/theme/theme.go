package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#2563EB") // Blue
	Actual    = lipgloss.Color("#14B8A6") // Teal
	Target    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#EAB308") // Amber
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Rule = lipgloss.NewStyle().
		Foreground(Border)
)

// Scores
var (
	ActualCell = lipgloss.NewStyle().
			Foreground(Actual).
			Bold(true)

	TargetCell = lipgloss.NewStyle().
			Foreground(Target).
			Bold(true)

	EmptyCell = lipgloss.NewStyle().
			Foreground(Border)

	ActualLabel = lipgloss.NewStyle().
			Foreground(Actual)

	TargetLabel = lipgloss.NewStyle().
			Foreground(Target)
)

// Findings
var (
	WarningText = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	InfoText = lipgloss.NewStyle().
			Foreground(TextDim)

	OK = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Failed = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)
