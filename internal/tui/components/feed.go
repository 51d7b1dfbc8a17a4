package components

import (
	"strings"
	"time"

	"github.com/allbin/rtcsync"
	"github.com/allbin/rtcsync/internal/tui/styles"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// LineMsg is one newline-terminated line received from the device
type LineMsg struct {
	Timestamp time.Time
	Line      string
}

// Feed renders device traffic line by line, coloring the handshake messages
// so a sync attempt can be followed at a glance.
type Feed struct {
	viewport       viewport.Model
	lines          []LineMsg
	showTimestamps bool
}

func NewFeed(width, height int) *Feed {
	return &Feed{
		viewport:       viewport.New(width, height),
		showTimestamps: true,
	}
}

func (f *Feed) SetSize(width, height int) {
	f.viewport.Width = width
	f.viewport.Height = height
	f.refresh()
}

func (f *Feed) Append(msg LineMsg) {
	f.lines = append(f.lines, msg)
	f.refresh()
	f.viewport.GotoBottom()
}

func (f *Feed) Clear() {
	f.lines = nil
	f.refresh()
}

func (f *Feed) ToggleTimestamps() {
	f.showTimestamps = !f.showTimestamps
	f.refresh()
}

func (f *Feed) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.viewport, cmd = f.viewport.Update(msg)
	return cmd
}

func (f *Feed) View() string {
	return f.viewport.View()
}

func (f *Feed) refresh() {
	rendered := make([]string, 0, len(f.lines))
	for _, msg := range f.lines {
		line := styleLine(msg.Line)
		if f.showTimestamps {
			stamp := styles.TimestampStyle.Render(msg.Timestamp.Format("15:04:05.000"))
			line = stamp + " " + line
		}
		rendered = append(rendered, line)
	}
	f.viewport.SetContent(strings.Join(rendered, "\n"))
}

// styleLine classifies a device line against the sync protocol
func styleLine(line string) string {
	switch {
	case line == rtcsync.MsgWakeUp:
		return styles.WakeLineStyle.Render(line)
	case strings.HasPrefix(line, rtcsync.PrefixSyncedOK):
		return styles.AcceptLineStyle.Render(line)
	case strings.HasPrefix(line, rtcsync.PrefixSyncedErr):
		return styles.RejectLineStyle.Render(line)
	case strings.HasPrefix(line, rtcsync.PrefixRTC):
		return styles.RTCLineStyle.Render(line)
	default:
		return styles.NoiseLineStyle.Render(line)
	}
}
