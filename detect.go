package rtcsync

import (
	"fmt"
	"strings"

	"go.bug.st/serial/enumerator"
)

// PortDescriptor describes one serial port as reported by the operating
// system's enumeration facility. Read-only.
type PortDescriptor struct {
	Device       string
	Description  string
	Manufacturer string
}

// loggerIdentifiers are the substrings that mark a port as a plausible
// logger board or USB-to-serial bridge. Matching is case-insensitive.
var loggerIdentifiers = []string{
	"Arduino",
	"USB-SERIAL",
	"USB Serial",
	"CH340",
	"FTDI",
	"ttyACM",
	"ttyUSB",
}

// usbVendors maps the USB vendor IDs of common logger boards and serial
// bridge chips to a vendor name, for platforms where the enumeration does
// not carry a manufacturer string.
var usbVendors = map[string]string{
	"2341": "Arduino",
	"2a03": "Arduino",
	"1a86": "QinHeng CH340",
	"0403": "FTDI",
	"10c4": "Silicon Labs",
}

// ListPortDescriptors enumerates all serial ports on the system. It performs
// no matching logic.
func ListPortDescriptors() ([]PortDescriptor, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}

	descriptors := make([]PortDescriptor, 0, len(details))
	for _, d := range details {
		if d.Name == "" {
			continue
		}
		desc := PortDescriptor{
			Device:      d.Name,
			Description: d.Product,
		}
		if d.IsUSB {
			desc.Manufacturer = usbVendors[strings.ToLower(d.VID)]
			if desc.Description == "" {
				desc.Description = fmt.Sprintf("USB device %s:%s", d.VID, d.PID)
			}
		}
		descriptors = append(descriptors, desc)
	}
	return descriptors, nil
}

// FindLoggerPort returns the device of the first descriptor whose combined
// device/description/manufacturer string contains a known logger identifier.
// First match wins; there is no ranking among multiple candidates.
func FindLoggerPort(descriptors []PortDescriptor) (string, error) {
	for _, d := range descriptors {
		combined := strings.ToUpper(d.Device + " " + d.Description + " " + d.Manufacturer)
		for _, id := range loggerIdentifiers {
			if strings.Contains(combined, strings.ToUpper(id)) {
				return d.Device, nil
			}
		}
	}
	return "", ErrNoPortFound
}

// DetectPort enumerates the system's serial ports and returns the first one
// that looks like a logger.
func DetectPort() (string, error) {
	descriptors, err := ListPortDescriptors()
	if err != nil {
		return "", err
	}
	return FindLoggerPort(descriptors)
}
