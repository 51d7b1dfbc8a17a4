package rtcsync

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
)

// errReadTimeout marks a readLine deadline expiry; callers translate it into
// the protocol-specific timeout error for their phase.
var errReadTimeout = errors.New("read deadline exceeded")

// Result describes a completed synchronization attempt.
type Result struct {
	Device   string
	SyncedAt time.Time // the timestamp transmitted to the device
	RTC      string    // optional RTC: readback, empty if none arrived
}

// Session owns one serial connection for the duration of a single
// synchronization attempt. At most one session is active per invocation;
// Run closes the port on every exit path, so a session cannot be reused.
type Session struct {
	port   Port
	device string
	config Config
	buf    []byte
	closed bool
}

// NewSession wraps an already open port. The session takes ownership of it.
func NewSession(device string, port Port, opts ...Option) (*Session, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			port.Close()
			return nil, err
		}
	}
	return &Session{port: port, device: device, config: config}, nil
}

// Sync opens device and performs one synchronization attempt.
func Sync(device string, opts ...Option) (*Result, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	port, err := OpenPort(device, config.BaudRate)
	if err != nil {
		return nil, err
	}
	s := &Session{port: port, device: device, config: config}
	return s.Run()
}

// Run performs the handshake: settle, flush, wake-wait or boundary-wait per
// the timing strategy, transmit, confirm, best-effort RTC readback.
func (s *Session) Run() (result *Result, err error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("unexpected failure during sync: %v", r)
		}
		s.closed = true
		if cerr := s.port.Close(); cerr != nil && err == nil {
			result, err = nil, fmt.Errorf("close %s: %w", s.device, cerr)
		}
	}()

	clock := s.config.Clock

	// Opening the port resets most boards; give the bootloader its grace
	// period, then drop whatever accumulated in the buffers.
	s.logf("Waiting %v for the device to settle...", s.config.SettleDelay)
	clock.Sleep(s.config.SettleDelay)
	if err := s.port.ResetInputBuffer(); err != nil {
		return nil, fmt.Errorf("flush input: %w", err)
	}
	if err := s.port.ResetOutputBuffer(); err != nil {
		return nil, fmt.Errorf("flush output: %w", err)
	}

	if s.config.Timing.WaitsForWake() {
		if err := s.awaitWake(); err != nil {
			return nil, err
		}
	}

	sample := s.config.Timing.Sample(clock)
	command := FormatTimeCommand(sample)
	s.logf("Syncing to %s", sample.UTC().Format("2006-01-02 15:04:05.000"))
	if _, err := s.port.Write([]byte(command)); err != nil {
		return nil, fmt.Errorf("send time command: %w", err)
	}

	if err := s.awaitConfirmation(); err != nil {
		return nil, err
	}

	return &Result{
		Device:   s.device,
		SyncedAt: sample,
		RTC:      s.readRTCEcho(),
	}, nil
}

// awaitWake reads lines until the device announces WAKE_UP. Other lines are
// reported and discarded.
func (s *Session) awaitWake() error {
	s.logf("Waiting for %s signal...", MsgWakeUp)
	deadline := s.config.Clock.Now().Add(s.config.WakeTimeout)
	for {
		line, err := s.readLine(deadline)
		if errors.Is(err, errReadTimeout) {
			return ErrWakeTimeout
		}
		if err != nil {
			return err
		}
		if line == MsgWakeUp {
			s.logf("Device is awake")
			return nil
		}
		s.logf("Received: %s", line)
	}
}

// awaitConfirmation reads lines until the device accepts or rejects the time
// command, or the response window expires. Noise lines are filtered out.
func (s *Session) awaitConfirmation() error {
	deadline := s.config.Clock.Now().Add(s.config.ResponseTimeout)
	for {
		line, err := s.readLine(deadline)
		if errors.Is(err, errReadTimeout) {
			return ErrConfirmTimeout
		}
		if err != nil {
			return err
		}
		done, ok := IsConfirmation(line)
		switch {
		case done && ok:
			s.logf("Device response: %s", line)
			return nil
		case done:
			s.logf("Device response: %s", line)
			return fmt.Errorf("%w: %s", ErrSyncRejected, line)
		default:
			s.logf("Received: %s", line)
		}
	}
}

// readRTCEcho waits briefly for the optional RTC: readback. It never affects
// the outcome of the attempt; on timeout or read error it returns "".
func (s *Session) readRTCEcho() string {
	if s.config.EchoTimeout <= 0 {
		return ""
	}
	deadline := s.config.Clock.Now().Add(s.config.EchoTimeout)
	for {
		line, err := s.readLine(deadline)
		if err != nil {
			return ""
		}
		if strings.HasPrefix(line, PrefixRTC) {
			s.logf("Device confirms: %s", line)
			return line
		}
	}
}

// readLine returns the next newline-terminated line, stripped of CR/LF. The
// port's polling read timeout bounds how long a single Read can block, so
// the deadline is enforced to within readPollInterval.
func (s *Session) readLine(deadline time.Time) (string, error) {
	for {
		if i := bytes.IndexByte(s.buf, '\n'); i >= 0 {
			line := strings.TrimRight(string(s.buf[:i]), "\r")
			s.buf = s.buf[i+1:]
			return line, nil
		}
		if !s.config.Clock.Now().Before(deadline) {
			return "", errReadTimeout
		}

		chunk := make([]byte, 256)
		n, err := s.port.Read(chunk)
		if err != nil {
			return "", fmt.Errorf("serial read: %w", err)
		}
		if n > 0 {
			s.buf = append(s.buf, chunk[:n]...)
		}
	}
}

func (s *Session) logf(format string, args ...any) {
	if s.config.Logf != nil {
		s.config.Logf(format, args...)
	}
}
