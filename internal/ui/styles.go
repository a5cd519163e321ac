// ABOUTME: Lipgloss styles for the music controls
// ABOUTME: Round buttons, focus highlight, slider and notice modal
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// containerStyle keeps the controls off the top-right corner
	containerStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginRight(2)

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("250")).
			Padding(0, 1)

	// focusedButtonStyle is the hover state: brighter and bold
	focusedButtonStyle = buttonStyle.
				BorderForeground(lipgloss.Color("15")).
				Bold(true)

	sliderStyle = lipgloss.NewStyle().
			Padding(1, 1).
			Foreground(lipgloss.Color("245"))

	focusedSliderStyle = sliderStyle.
				Foreground(lipgloss.Color("15"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	noticeStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 3).
			Align(lipgloss.Center)
)
