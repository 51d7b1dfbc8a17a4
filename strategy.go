package rtcsync

import "time"

// TimingStrategy decides when the time command goes out and which instant it
// encodes. The two implementations trade logic complexity against clock
// skew: sending on WAKE_UP is simplest, aligning with a second boundary
// keeps the transmitted value closer to the device's perception of "now".
type TimingStrategy interface {
	// Sample blocks until the command should be transmitted and returns the
	// timestamp to encode.
	Sample(clock Clock) time.Time
	// WaitsForWake reports whether the session must hold the command until
	// the device announces WAKE_UP.
	WaitsForWake() bool
	// Name identifies the strategy in status output.
	Name() string
}

// ImmediateTiming samples the clock the moment the device reports ready and
// transmits the reading unadjusted, assuming near-zero round-trip latency
// right after WAKE_UP.
type ImmediateTiming struct{}

func (ImmediateTiming) Sample(clock Clock) time.Time { return clock.Now() }

func (ImmediateTiming) WaitsForWake() bool { return true }

func (ImmediateTiming) Name() string { return "immediate" }

// DefaultLinkDelay is the assumed latency between sampling a second boundary
// and the firmware applying the command: one line at 9600 baud plus parsing,
// rounded up to the next whole second. An assumption, not a measurement,
// which is why BoundaryTiming exposes it as a field.
const DefaultLinkDelay = time.Second

const (
	defaultCoarsePoll = 100 * time.Millisecond
	defaultFinePoll   = time.Millisecond
)

// BoundaryTiming sends the command as the reference clock crosses a whole
// second: it polls coarsely until the sub-second fraction reaches 0.9, then
// tightly until it wraps below 0.1, samples at that crossing and adds
// LinkDelay. It does not gate on WAKE_UP.
type BoundaryTiming struct {
	// LinkDelay compensates for the transmission latency of the command.
	// Zero means DefaultLinkDelay; negative disables compensation.
	LinkDelay time.Duration
	// CoarsePoll and FinePoll override the two polling cadences. Zero means
	// 100ms and 1ms respectively.
	CoarsePoll time.Duration
	FinePoll   time.Duration
}

func (b BoundaryTiming) Sample(clock Clock) time.Time {
	coarse := b.CoarsePoll
	if coarse <= 0 {
		coarse = defaultCoarsePoll
	}
	fine := b.FinePoll
	if fine <= 0 {
		fine = defaultFinePoll
	}

	// Approach the boundary: wait until the last tenth of the second.
	for subsecond(clock.Now()) < 0.9 {
		clock.Sleep(coarse)
	}

	// Cross it: spin until the fraction wraps below a tenth.
	var sampled time.Time
	for {
		sampled = clock.Now()
		if subsecond(sampled) < 0.1 {
			break
		}
		clock.Sleep(fine)
	}

	delay := b.LinkDelay
	if delay == 0 {
		delay = DefaultLinkDelay
	} else if delay < 0 {
		delay = 0
	}
	return sampled.Add(delay)
}

func (BoundaryTiming) WaitsForWake() bool { return false }

func (BoundaryTiming) Name() string { return "boundary" }

// subsecond returns the fraction of the current second, in [0, 1).
func subsecond(t time.Time) float64 {
	return float64(t.Nanosecond()) / float64(time.Second)
}
