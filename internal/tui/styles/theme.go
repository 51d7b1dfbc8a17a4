package styles

import (
	"github.com/allbin/rtcsync/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	// Status styles
	StatusConnectedStyle = lipgloss.NewStyle().
				Foreground(colors.Green).
				Bold(true)

	StatusDisconnectedStyle = lipgloss.NewStyle().
				Foreground(colors.Red).
				Bold(true)

	StatusConnectingStyle = lipgloss.NewStyle().
				Foreground(colors.Yellow).
				Bold(true)

	// Content area styles
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)

	// Protocol line styles for the monitor feed
	WakeLineStyle   = lipgloss.NewStyle().Foreground(colors.Yellow).Bold(true)
	AcceptLineStyle = lipgloss.NewStyle().Foreground(colors.Green).Bold(true)
	RejectLineStyle = lipgloss.NewStyle().Foreground(colors.Red).Bold(true)
	RTCLineStyle    = lipgloss.NewStyle().Foreground(colors.Teal)
	NoiseLineStyle  = lipgloss.NewStyle().Foreground(colors.Subtext0)
	TimestampStyle  = lipgloss.NewStyle().Foreground(colors.Overlay0)
)

type StatusType int

const (
	StatusConnected StatusType = iota
	StatusDisconnected
	StatusConnecting
)

func GetStatusStyle(status StatusType) lipgloss.Style {
	switch status {
	case StatusConnected:
		return StatusConnectedStyle
	case StatusConnecting:
		return StatusConnectingStyle
	default:
		return StatusDisconnectedStyle
	}
}
