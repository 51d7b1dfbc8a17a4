package rtcsync

import (
	"fmt"
	"strings"
	"time"
)

// Wire protocol messages exchanged with the logger firmware. All traffic is
// newline-terminated ASCII at the configured baud rate.
const (
	MsgWakeUp       = "WAKE_UP"        // device ready to receive time
	PrefixSyncedOK  = "TIME_SYNCED:OK" // clock accepted
	PrefixSyncedErr = "TIME_SYNCED:ERR"
	PrefixRTC       = "RTC:" // optional post-sync clock readback
)

// FormatTimeCommand encodes t as the SYNC_TIME command the firmware expects:
// SYNC_TIME:YYYY,MM,DD,HH,MM,SS with a trailing newline. The year is written
// as-is, every other field is zero-padded to two digits. Always UTC.
func FormatTimeCommand(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("SYNC_TIME:%d,%02d,%02d,%02d,%02d,%02d\n",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// IsConfirmation reports whether line settles the handshake, and if so
// whether the device accepted the time. Lines that are neither acceptance
// nor rejection are protocol noise.
func IsConfirmation(line string) (done, ok bool) {
	switch {
	case strings.HasPrefix(line, PrefixSyncedOK):
		return true, true
	case strings.HasPrefix(line, PrefixSyncedErr):
		return true, false
	}
	return false, false
}
