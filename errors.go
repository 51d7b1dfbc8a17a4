package rtcsync

import "errors"

// Predefined error types for robust error handling
var (
	ErrNoPortFound    = errors.New("no serial port matching a known logger identifier")
	ErrWakeTimeout    = errors.New("timeout waiting for WAKE_UP signal")
	ErrConfirmTimeout = errors.New("timeout waiting for sync confirmation")
	ErrSyncRejected   = errors.New("device rejected the time command")
	ErrSessionClosed  = errors.New("sync session is closed")
	ErrInvalidConfig  = errors.New("invalid sync configuration")
)
