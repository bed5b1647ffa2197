package ui

import "github.com/charmbracelet/lipgloss"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Success renders a confirmation marker or line.
func Success(s string) string { return successStyle.Render(s) }

// Warn renders an advisory that should stand out without alarming.
func Warn(s string) string { return warnStyle.Render(s) }

// Error renders a failure message.
func Error(s string) string { return errorStyle.Render(s) }

// Muted renders de-emphasized detail such as paths and hints.
func Muted(s string) string { return mutedStyle.Render(s) }
