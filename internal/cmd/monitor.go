/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/allbin/rtcsync"
	"github.com/allbin/rtcsync/internal/tui/components"
	"github.com/allbin/rtcsync/internal/tui/keys"
	"github.com/allbin/rtcsync/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor <port>",
	Short: "Watch live logger traffic with protocol highlighting",
	Long: `Watch the logger's serial output in a real-time display.

Handshake messages (WAKE_UP, TIME_SYNCED, RTC readbacks) are highlighted, so
this is the quickest way to verify the firmware side of a sync attempt.

Example usage:
  rtcsync monitor /dev/ttyACM0
  rtcsync monitor COM3 --baudrate 115200`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		baudRate, _ := cmd.Flags().GetInt("baudrate")

		if err := runMonitor(args[0], baudRate); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().IntP("baudrate", "b", 9600, "Serial baudrate (default: 9600)")
}

// connectionMsg reports the outcome of opening the port (or a later failure)
type connectionMsg struct {
	err error
}

type monitorModel struct {
	feed      *components.Feed
	statusBar *components.StatusBar
	help      help.Model
	keys      keys.MonitorKeys
	ready     bool
}

func runMonitor(device string, baudRate int) error {
	m := &monitorModel{
		feed:      components.NewFeed(80, 20),
		statusBar: components.NewStatusBar("Logger Monitor", device, baudRate),
		help:      help.New(),
		keys:      keys.NewMonitorKeys(),
	}
	m.statusBar.SetConnecting()

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Read the port in the background, splitting the stream into lines the
	// same way the sync session does.
	go func() {
		port, err := rtcsync.OpenPort(device, baudRate)
		p.Send(connectionMsg{err: err})
		if err != nil {
			return
		}
		defer port.Close()

		var buf []byte
		chunk := make([]byte, 256)
		for {
			n, err := port.Read(chunk)
			if err != nil {
				p.Send(connectionMsg{err: err})
				return
			}
			if n == 0 {
				continue
			}
			buf = append(buf, chunk[:n]...)
			for {
				i := bytes.IndexByte(buf, '\n')
				if i < 0 {
					break
				}
				line := strings.TrimRight(string(buf[:i]), "\r")
				buf = buf[i+1:]
				p.Send(components.LineMsg{Timestamp: time.Now(), Line: line})
			}
		}
	}()

	_, err := p.Run()
	return err
}

func (m *monitorModel) Init() tea.Cmd {
	return nil
}

func (m *monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		statusBarHeight := 1
		m.feed.SetSize(msg.Width, msg.Height-statusBarHeight-1)
		m.statusBar.SetWidth(msg.Width)
		m.ready = true

	case connectionMsg:
		if msg.err != nil {
			m.statusBar.SetDisconnected(msg.err)
		} else {
			m.statusBar.SetConnected()
		}

	case components.LineMsg:
		m.feed.Append(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Clear):
			m.feed.Clear()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.ToggleTimestamps):
			m.feed.ToggleTimestamps()
		}
	}

	return m, m.feed.Update(msg)
}

func (m *monitorModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	parts := []string{styles.ContentBorderStyle.Render(m.feed.View())}
	if m.help.ShowAll {
		parts = append(parts, m.help.View(m.keys))
	}
	parts = append(parts, m.statusBar.View())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
