package rtcsync

import "time"

// Config holds the configuration for a sync session
type Config struct {
	BaudRate        int
	WakeTimeout     time.Duration // how long to wait for WAKE_UP (immediate timing)
	ResponseTimeout time.Duration // window for the TIME_SYNCED reply
	EchoTimeout     time.Duration // window for the optional RTC: readback
	SettleDelay     time.Duration // grace period after open for the device reset
	Timing          TimingStrategy
	Clock           Clock
	Logf            func(format string, args ...any) // status output, nil to discard
}

// Option is a functional option for configuring a sync session
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaudRate:        9600,
		WakeTimeout:     30 * time.Second,
		ResponseTimeout: 5 * time.Second,
		EchoTimeout:     2 * time.Second,
		SettleDelay:     2 * time.Second,
		Timing:          BoundaryTiming{},
		Clock:           SystemClock{},
	}
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if rate <= 0 {
			return ErrInvalidConfig
		}
		c.BaudRate = rate
		return nil
	}
}

// WithWakeTimeout sets how long the session waits for the WAKE_UP signal
func WithWakeTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return ErrInvalidConfig
		}
		c.WakeTimeout = timeout
		return nil
	}
}

// WithResponseTimeout sets the window for the TIME_SYNCED confirmation
func WithResponseTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return ErrInvalidConfig
		}
		c.ResponseTimeout = timeout
		return nil
	}
}

// WithEchoTimeout sets the window for the optional RTC: readback line
func WithEchoTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout < 0 {
			return ErrInvalidConfig
		}
		c.EchoTimeout = timeout
		return nil
	}
}

// WithSettleDelay sets the reset grace period after opening the port
func WithSettleDelay(delay time.Duration) Option {
	return func(c *Config) error {
		if delay < 0 {
			return ErrInvalidConfig
		}
		c.SettleDelay = delay
		return nil
	}
}

// WithTiming selects the timing strategy for sampling and sending the time
func WithTiming(timing TimingStrategy) Option {
	return func(c *Config) error {
		if timing == nil {
			return ErrInvalidConfig
		}
		c.Timing = timing
		return nil
	}
}

// WithLinkDelay adjusts the boundary strategy's transmission-delay
// compensation: zero restores the default, negative disables compensation.
// Apply after WithTiming; it fails when the configured strategy has no link
// delay to tune.
func WithLinkDelay(delay time.Duration) Option {
	return func(c *Config) error {
		timing, ok := c.Timing.(BoundaryTiming)
		if !ok {
			return ErrInvalidConfig
		}
		timing.LinkDelay = delay
		c.Timing = timing
		return nil
	}
}

// WithClock sets the reference clock the timestamp is sampled from
func WithClock(clock Clock) Option {
	return func(c *Config) error {
		if clock == nil {
			return ErrInvalidConfig
		}
		c.Clock = clock
		return nil
	}
}

// WithLogf sets a printf-style callback for session status output
func WithLogf(logf func(format string, args ...any)) Option {
	return func(c *Config) error {
		c.Logf = logf
		return nil
	}
}
