// Package rtcsync synchronizes the real-time clock of an Arduino-class data
// logger over a serial connection.
//
// The firmware side speaks a small line-delimited protocol: the device may
// announce readiness with WAKE_UP, the host pushes a SYNC_TIME command
// carrying the current UTC timestamp, and the device answers TIME_SYNCED:OK
// or TIME_SYNCED:ERR, optionally followed by an RTC: readback of the clock
// it just set.
//
// # Basic Usage
//
// Auto-detect the logger and run one synchronization attempt:
//
//	device, err := rtcsync.DetectPort()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := rtcsync.Sync(device)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("synced to %s\n", result.SyncedAt.Format(time.RFC3339))
//
// # Configuration Options
//
// Use functional options for custom configuration:
//
//	result, err := rtcsync.Sync(device,
//	    rtcsync.WithBaudRate(9600),
//	    rtcsync.WithTiming(rtcsync.ImmediateTiming{}),
//	    rtcsync.WithWakeTimeout(30*time.Second),
//	)
//
// # Timing Strategies
//
// Two strategies decide when the timestamp is sampled and sent:
//
//   - ImmediateTiming waits for the device's WAKE_UP line and samples the
//     clock at that instant. Minimal logic, best-effort accuracy.
//   - BoundaryTiming (the default) aligns transmission with a whole-second
//     tick of the host clock and compensates for an assumed fixed link
//     delay. Lower skew at the cost of busy-polling the host clock.
//
// # Reference Clocks
//
// Timestamps come from the host wall clock unless an NTP reference is
// requested:
//
//	clock, err := rtcsync.NewNTPClock("pool.ntp.org")
//	result, err := rtcsync.Sync(device, rtcsync.WithClock(clock))
//
// # Error Handling
//
// The package provides specific error types for robust error handling:
//
//	var (
//	    ErrNoPortFound     // auto-detection found no matching port
//	    ErrWakeTimeout     // device never announced WAKE_UP
//	    ErrConfirmTimeout  // no TIME_SYNCED reply within the window
//	    ErrSyncRejected    // device answered TIME_SYNCED:ERR
//	    // ... and more
//	)
//
// Use errors.Is() for error type checking:
//
//	if errors.Is(err, rtcsync.ErrWakeTimeout) {
//	    // device likely asleep longer than the wait window
//	}
//
// A failed attempt is final: the session closes the port on every exit path
// and never retries.
package rtcsync
