package main

import "github.com/charmbracelet/lipgloss"

var (
	buyColor    = lipgloss.Color("#10B981")
	sellColor   = lipgloss.Color("#EF4444")
	mutedColor  = lipgloss.Color("#6B7280")
	borderColor = lipgloss.Color("#374151")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(mutedColor)
	buyStyle    = lipgloss.NewStyle().Bold(true).Foreground(buyColor)
	sellStyle   = lipgloss.NewStyle().Bold(true).Foreground(sellColor)
	statusStyle = lipgloss.NewStyle().Foreground(mutedColor).Padding(0, 1)
)
