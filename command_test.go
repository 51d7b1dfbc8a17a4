package rtcsync

import (
	"testing"
	"time"
)

func TestFormatTimeCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			"all fields double digit",
			time.Date(2024, 11, 23, 14, 35, 59, 0, time.UTC),
			"SYNC_TIME:2024,11,23,14,35,59\n",
		},
		{
			"zero padding on short fields",
			time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			"SYNC_TIME:2024,01,02,03,04,05\n",
		},
		{
			"midnight new year",
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			"SYNC_TIME:2025,01,01,00,00,00\n",
		},
		{
			"sub-second precision is truncated",
			time.Date(2024, 6, 15, 12, 30, 45, 999999999, time.UTC),
			"SYNC_TIME:2024,06,15,12,30,45\n",
		},
		{
			"non-UTC input is converted",
			time.Date(2024, 6, 15, 1, 30, 0, 0, time.FixedZone("CEST", 2*60*60)),
			"SYNC_TIME:2024,06,14,23,30,00\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := FormatTimeCommand(test.input)
			if result != test.expected {
				t.Errorf("FormatTimeCommand(%v) = %q, expected %q", test.input, result, test.expected)
			}
		})
	}
}

func TestIsConfirmation(t *testing.T) {
	tests := []struct {
		line string
		done bool
		ok   bool
	}{
		{"TIME_SYNCED:OK", true, true},
		{"TIME_SYNCED:OK extra detail", true, true},
		{"TIME_SYNCED:ERR", true, false},
		{"TIME_SYNCED:ERR:RTC_WRITE_FAILED", true, false},
		{"WAKE_UP", false, false},
		{"RTC:2024-01-01 00:00:00", false, false},
		{"TIME_SYNCED", false, false},
		{"", false, false},
		{"debug: entering sleep", false, false},
	}

	for _, test := range tests {
		done, ok := IsConfirmation(test.line)
		if done != test.done || ok != test.ok {
			t.Errorf("IsConfirmation(%q) = (%v, %v), expected (%v, %v)",
				test.line, done, ok, test.done, test.ok)
		}
	}
}
