package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#7D56F4")
	muted  = lipgloss.Color("#888888")
	green  = lipgloss.Color("#04B575")
	red    = lipgloss.Color("#FF5F87")
	white  = lipgloss.Color("#FAFAFA")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(white).Background(accent).Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginTop(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	barStyle     = lipgloss.NewStyle().Foreground(accent)
	passStyle    = lipgloss.NewStyle().Foreground(green)
	failStyle    = lipgloss.NewStyle().Foreground(red)
	headerCell   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)
