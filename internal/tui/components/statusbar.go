package components

import (
	"fmt"

	"github.com/allbin/rtcsync/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

type StatusBar struct {
	title      string
	portPath   string
	baudRate   int
	statusType styles.StatusType
	status     string
	err        error
	width      int
}

func NewStatusBar(title, portPath string, baudRate int) *StatusBar {
	return &StatusBar{
		title:      title,
		portPath:   portPath,
		baudRate:   baudRate,
		statusType: styles.StatusConnecting,
		status:     "Initializing...",
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetConnecting() {
	sb.statusType = styles.StatusConnecting
	sb.status = "Connecting..."
	sb.err = nil
}

func (sb *StatusBar) SetConnected() {
	sb.statusType = styles.StatusConnected
	sb.status = "Connected"
	sb.err = nil
}

func (sb *StatusBar) SetDisconnected(err error) {
	sb.statusType = styles.StatusDisconnected
	sb.status = "Disconnected"
	sb.err = err
}

func (sb *StatusBar) View() string {
	left := lipgloss.JoinHorizontal(
		lipgloss.Center,
		styles.TitleStyle.Render(sb.title),
		fmt.Sprintf(" %s @ %d baud ", sb.portPath, sb.baudRate),
	)

	status := sb.status
	if sb.err != nil {
		status = fmt.Sprintf("%s (%v)", sb.status, sb.err)
	}
	right := styles.GetStatusStyle(sb.statusType).Render(status)

	gap := sb.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}
