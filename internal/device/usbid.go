package device

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseUSBID parses a USB "vendor:product" identifier. It accepts an
// optional "USB:" prefix and is case-insensitive, so "1234:5678",
// "USB:1234:5678", and "usb:AB12:cd34" are all valid.
func ParseUSBID(raw string) (vendor, product uint16, err error) {
	cleaned := strings.ReplaceAll(strings.ToLower(raw), "usb:", "")
	vendorStr, productStr, ok := strings.Cut(cleaned, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid USB ID %q (expected vendor:product)", raw)
	}

	v, err := strconv.ParseUint(vendorStr, 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid USB vendor in %q: %w", raw, err)
	}
	p, err := strconv.ParseUint(productStr, 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid USB product in %q: %w", raw, err)
	}
	return uint16(v), uint16(p), nil
}
