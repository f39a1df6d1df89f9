package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPrimary   = lipgloss.Color("12")  // bright blue
	colorDim       = lipgloss.Color("240") // gray
	colorHighlight = lipgloss.Color("11")  // bright yellow
	colorBorder    = lipgloss.Color("238") // dark gray

	// Input area
	styleInput = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	// List items
	styleListSelected = lipgloss.NewStyle().
				Foreground(colorHighlight).
				Bold(true)

	// senderStyles cycles by the sender's position in the chat's sender
	// list, matching the palette used by the render package.
	senderStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("12")), // blue
		lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // green
		lipgloss.NewStyle().Foreground(lipgloss.Color("14")), // cyan
		lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // yellow
		lipgloss.NewStyle().Foreground(lipgloss.Color("13")), // magenta
		lipgloss.NewStyle().Foreground(lipgloss.Color("9")),  // red
	}

	styleSystem = lipgloss.NewStyle().Foreground(colorDim)

	// Panels
	stylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder)

	styleActiveBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	// Status bar
	styleStatusBar = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)
)
