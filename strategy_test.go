package rtcsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when slept on, so boundary polling is exercised
// deterministically and without real waits.
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

func TestImmediateTimingSamplesNow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 123456789, time.UTC)}

	sampled := ImmediateTiming{}.Sample(clock)

	assert.Equal(t, clock.now, sampled, "immediate timing must return the clock reading unadjusted")
	assert.Empty(t, clock.slept, "immediate timing must not wait")
	assert.True(t, ImmediateTiming{}.WaitsForWake())
}

func TestBoundaryTimingCrossesSecondBoundary(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 123456789, time.UTC)
	clock := &fakeClock{now: start}

	result := BoundaryTiming{}.Sample(clock)

	// The sampled instant is the returned value minus the default one-second
	// compensation, and it must sit just past the boundary.
	sampled := result.Add(-DefaultLinkDelay)
	assert.Less(t, subsecond(sampled), 0.1, "sample must land in the first tenth of a second")
	assert.True(t, sampled.After(start), "sample must be past the starting instant")

	// Coarse cadence first, fine cadence across the boundary.
	require.NotEmpty(t, clock.slept)
	assert.Equal(t, defaultCoarsePoll, clock.slept[0])
	assert.Equal(t, defaultFinePoll, clock.slept[len(clock.slept)-1])

	assert.False(t, BoundaryTiming{}.WaitsForWake())
}

func TestBoundaryTimingLinkDelayCompensation(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 950000000, time.UTC)

	defaultDelay := BoundaryTiming{}.Sample(&fakeClock{now: start})
	custom := BoundaryTiming{LinkDelay: 250 * time.Millisecond}.Sample(&fakeClock{now: start})

	// Identical clocks walk identical paths to the boundary, so the results
	// differ by exactly the delay difference.
	assert.Equal(t, DefaultLinkDelay-250*time.Millisecond, defaultDelay.Sub(custom))
}

func TestBoundaryTimingNegativeLinkDelayDisablesCompensation(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 950000000, time.UTC)

	result := BoundaryTiming{LinkDelay: -1}.Sample(&fakeClock{now: start})

	// No compensation: the returned value is the boundary sample itself.
	assert.Less(t, subsecond(result), 0.1)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 1, 0, time.UTC), result)
}

func TestBoundaryTimingAlreadyPastBoundary(t *testing.T) {
	// In the first tenth of a second the coarse phase still waits for the
	// next 0.9 mark rather than sending immediately.
	start := time.Date(2024, 6, 1, 12, 0, 0, 50000000, time.UTC)
	clock := &fakeClock{now: start}

	result := BoundaryTiming{}.Sample(clock)

	sampled := result.Add(-DefaultLinkDelay)
	assert.Less(t, subsecond(sampled), 0.1)
	assert.GreaterOrEqual(t, sampled.Sub(start), 900*time.Millisecond,
		"the next boundary is roughly a second away")
}

func TestStrategyNames(t *testing.T) {
	assert.Equal(t, "immediate", ImmediateTiming{}.Name())
	assert.Equal(t, "boundary", BoundaryTiming{}.Name())
}

func TestSubsecond(t *testing.T) {
	tests := []struct {
		ns       int
		expected float64
	}{
		{0, 0.0},
		{500000000, 0.5},
		{999999999, 0.999999999},
	}

	for _, test := range tests {
		at := time.Date(2024, 1, 1, 0, 0, 0, test.ns, time.UTC)
		assert.InDelta(t, test.expected, subsecond(at), 1e-12)
	}
}
