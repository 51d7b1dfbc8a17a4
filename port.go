package rtcsync

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// readPollInterval is the read timeout configured on the device so that
// line-reading loops regain control often enough to enforce deadlines.
const readPollInterval = 100 * time.Millisecond

// Port is the serial connection surface a session needs. Reads are expected
// to return (0, nil) when the configured read timeout elapses with no data.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
	ResetOutputBuffer() error
}

// Ensure the real serial port satisfies Port at compile time
var _ Port = (serial.Port)(nil)

// OpenPort opens device at the given baud rate in the logger's fixed 8N1
// framing and arms the polling read timeout.
func OpenPort(device string, baudRate int) (Port, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	if err := port.SetReadTimeout(readPollInterval); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", device, err)
	}
	return port, nil
}
