package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
const (
	colorAccent = lipgloss.Color("39")
	colorMuted  = lipgloss.Color("245")
	colorPrice  = lipgloss.Color("42")
	colorError  = lipgloss.Color("196")
	colorWarn   = lipgloss.Color("214")
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	SubtleStyle = lipgloss.NewStyle().Foreground(colorMuted)

	PriceStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrice)

	ErrorStyle = lipgloss.NewStyle().Foreground(colorError)

	WarnStyle = lipgloss.NewStyle().Foreground(colorWarn)

	SectionStyle = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)

	SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	CarouselStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
)
