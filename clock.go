package rtcsync

import (
	"fmt"
	"time"

	"github.com/beevik/ntp"
)

// Clock is the time source a session samples its timestamp from. Sleep is
// part of the interface so timing strategies stay testable without real
// waits.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock reads the host wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// NTPClock is a reference clock disciplined by a single NTP query: the
// measured offset is applied to every host clock reading for the lifetime
// of the clock. Good enough for a session lasting a few seconds.
type NTPClock struct {
	Server string
	offset time.Duration
}

// NewNTPClock queries the given NTP server once and returns a clock that
// reports host time corrected by the measured offset.
func NewNTPClock(server string) (*NTPClock, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		return nil, fmt.Errorf("ntp query %s: %w", server, err)
	}
	if err := resp.Validate(); err != nil {
		return nil, fmt.Errorf("ntp response from %s: %w", server, err)
	}
	return &NTPClock{Server: server, offset: resp.ClockOffset}, nil
}

// Offset returns the measured host clock offset.
func (c *NTPClock) Offset() time.Duration { return c.offset }

func (c *NTPClock) Now() time.Time { return time.Now().Add(c.offset) }

func (c *NTPClock) Sleep(d time.Duration) { time.Sleep(d) }
