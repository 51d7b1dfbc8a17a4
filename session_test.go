package rtcsync

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort scripts the device side of the handshake. Reads hand out the
// scripted chunks in order and then behave like a polling read timeout,
// returning (0, nil) after a short pause.
type fakePort struct {
	script  [][]byte
	writes  bytes.Buffer
	readErr error
	closed  bool
	flushed bool
}

func scriptedPort(lines ...string) *fakePort {
	p := &fakePort{}
	for _, line := range lines {
		p.script = append(p.script, []byte(line+"\n"))
	}
	return p
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.readErr != nil {
		return 0, p.readErr
	}
	if len(p.script) == 0 {
		time.Sleep(time.Millisecond)
		return 0, nil
	}
	chunk := p.script[0]
	p.script = p.script[1:]
	return copy(b, chunk), nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.writes.Write(b)
	return len(b), nil
}

func (p *fakePort) Close() error { p.closed = true; return nil }

func (p *fakePort) SetReadTimeout(time.Duration) error { return nil }

func (p *fakePort) ResetInputBuffer() error { p.flushed = true; return nil }

func (p *fakePort) ResetOutputBuffer() error { return nil }

func testSession(t *testing.T, port Port, extra ...Option) *Session {
	t.Helper()
	opts := append([]Option{
		WithTiming(ImmediateTiming{}),
		WithSettleDelay(0),
		WithWakeTimeout(250 * time.Millisecond),
		WithResponseTimeout(250 * time.Millisecond),
		WithEchoTimeout(100 * time.Millisecond),
	}, extra...)
	s, err := NewSession("/dev/ttyTEST", port, opts...)
	require.NoError(t, err)
	return s
}

func TestSessionSuccessWithRTCEcho(t *testing.T) {
	port := scriptedPort("WAKE_UP", "TIME_SYNCED:OK", "RTC:2024-01-01 00:00:00")
	var logged []string
	s := testSession(t, port, WithLogf(func(format string, args ...any) {
		logged = append(logged, format)
	}))

	result, err := s.Run()

	require.NoError(t, err)
	assert.Equal(t, "RTC:2024-01-01 00:00:00", result.RTC)
	assert.Equal(t, "/dev/ttyTEST", result.Device)

	sent := port.writes.String()
	assert.True(t, strings.HasPrefix(sent, "SYNC_TIME:"), "sent %q", sent)
	assert.True(t, strings.HasSuffix(sent, "\n"))
	assert.Equal(t, FormatTimeCommand(result.SyncedAt), sent)

	assert.True(t, port.closed, "port must be closed after the attempt")
	assert.True(t, port.flushed, "input buffer must be flushed before the handshake")
	assert.NotEmpty(t, logged)
}

func TestSessionSuccessWithoutRTCEcho(t *testing.T) {
	port := scriptedPort("WAKE_UP", "TIME_SYNCED:OK")
	s := testSession(t, port)

	result, err := s.Run()

	require.NoError(t, err, "the RTC readback is best-effort")
	assert.Empty(t, result.RTC)
	assert.True(t, port.closed)
}

func TestSessionDeviceRejection(t *testing.T) {
	port := scriptedPort("WAKE_UP", "TIME_SYNCED:ERR:RTC_WRITE_FAILED")
	s := testSession(t, port)

	start := time.Now()
	_, err := s.Run()

	require.ErrorIs(t, err, ErrSyncRejected)
	assert.Less(t, time.Since(start), 100*time.Millisecond,
		"rejection must not wait out the RTC echo window")
	assert.True(t, port.closed)
}

func TestSessionWakeTimeout(t *testing.T) {
	port := scriptedPort("booting...", "sensor init ok")
	s := testSession(t, port, WithWakeTimeout(50*time.Millisecond))

	_, err := s.Run()

	require.ErrorIs(t, err, ErrWakeTimeout)
	assert.Zero(t, port.writes.Len(), "no command may be transmitted before WAKE_UP")
	assert.True(t, port.closed)
}

func TestSessionConfirmationTimeout(t *testing.T) {
	port := scriptedPort("WAKE_UP")
	s := testSession(t, port, WithResponseTimeout(50*time.Millisecond))

	_, err := s.Run()

	require.ErrorIs(t, err, ErrConfirmTimeout)
	assert.True(t, port.closed)
}

func TestSessionIgnoresNoiseLines(t *testing.T) {
	port := scriptedPort("garbage", "WAKE_UP", "status: battery ok", "TIME_SYNCED:OK")
	s := testSession(t, port)

	_, err := s.Run()

	require.NoError(t, err)
}

func TestSessionSplitLinesAcrossReads(t *testing.T) {
	// Chunk boundaries do not align with line boundaries on a serial link.
	port := &fakePort{script: [][]byte{
		[]byte("WAKE"),
		[]byte("_UP\r\nTIME_SYN"),
		[]byte("CED:OK\n"),
	}}
	s := testSession(t, port)

	_, err := s.Run()

	require.NoError(t, err)
}

func TestSessionBoundaryTimingSkipsWakeGate(t *testing.T) {
	port := scriptedPort("TIME_SYNCED:OK")
	s := testSession(t, port, WithTiming(BoundaryTiming{
		CoarsePoll: time.Millisecond,
		FinePoll:   50 * time.Microsecond,
	}))

	result, err := s.Run()

	require.NoError(t, err)
	// The encoded instant is boundary + compensation, so its fraction stays
	// inside the first tenth of a second.
	assert.Less(t, subsecond(result.SyncedAt), 0.1)
}

func TestSessionReadFailure(t *testing.T) {
	port := &fakePort{readErr: errors.New("device unplugged")}
	s := testSession(t, port)

	_, err := s.Run()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "device unplugged")
	assert.True(t, port.closed, "port must be closed on link failure")
}

func TestSessionCannotRunTwice(t *testing.T) {
	port := scriptedPort("WAKE_UP", "TIME_SYNCED:OK")
	s := testSession(t, port)

	_, err := s.Run()
	require.NoError(t, err)

	_, err = s.Run()
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestNewSessionInvalidOptionClosesPort(t *testing.T) {
	port := scriptedPort()

	_, err := NewSession("/dev/ttyTEST", port, WithBaudRate(-1))

	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.True(t, port.closed)
}
