package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
)

// TitleStyle for the "Product list" heading.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// RuleStyle for the line under the header.
var RuleStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

// MessageStyle for "Loading..." and the empty-list messages.
var MessageStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// NoticeStyle for a failed load that left products on screen.
var NoticeStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("214")).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ScrollTopControl style for the clickable "↑ top" control.
var ScrollTopControl = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(colorHighlight).
	Bold(true)

// DebugPanel style for the debug overlay container.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section headers in the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
