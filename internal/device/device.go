// Package device discovers multi-touch input devices, matches them
// against configuration, and exposes their event streams.
package device

import (
	"fmt"
	"log/slog"

	"github.com/gobwas/glob"
	evdev "github.com/gvalkov/golang-evdev"

	"github.com/Iron-Ham/tapd/internal/config"
	"github.com/Iron-Ham/tapd/internal/gesture"
)

// Source is one connected device's event stream. The evdev-backed
// implementation blocks in Read until the kernel delivers a batch;
// closing the source unblocks it with an error.
type Source interface {
	Read() ([]evdev.InputEvent, error)
	Close() error
}

// Device is an opened multi-touch device with its calibration.
type Device struct {
	Path    string
	Name    string
	Phys    string
	Vendor  uint16
	Product uint16
	XRange  gesture.AxisRange
	YRange  gesture.AxisRange

	handle *evdev.InputDevice
}

// Read returns the next batch of raw input events, blocking until the
// kernel delivers one.
func (d *Device) Read() ([]evdev.InputEvent, error) {
	return d.handle.Read()
}

// Close releases the device node. Any blocked Read returns an error.
func (d *Device) Close() error {
	return d.handle.File.Close()
}

// USBID formats the device's vendor:product pair the way `tapd devices`
// prints it and the config file expects it.
func (d *Device) USBID() string {
	return fmt.Sprintf("%04x:%04x", d.Vendor, d.Product)
}

// isTouchDevice reports whether the device exposes the multi-touch
// position axes.
func isTouchDevice(dev *evdev.InputDevice) bool {
	for capType, codes := range dev.Capabilities {
		if capType.Type != evdev.EV_ABS {
			continue
		}
		var hasX, hasY bool
		for _, code := range codes {
			switch code.Code {
			case evdev.ABS_MT_POSITION_X:
				hasX = true
			case evdev.ABS_MT_POSITION_Y:
				hasY = true
			}
		}
		return hasX && hasY
	}
	return false
}

// calibrate wraps an opened evdev handle as a Device, querying the MT
// axis ranges once.
func calibrate(handle *evdev.InputDevice) (*Device, error) {
	fd := handle.File.Fd()
	x, err := readAbsInfo(fd, evdev.ABS_MT_POSITION_X)
	if err != nil {
		return nil, fmt.Errorf("%s: reading X axis calibration: %w", handle.Fn, err)
	}
	y, err := readAbsInfo(fd, evdev.ABS_MT_POSITION_Y)
	if err != nil {
		return nil, fmt.Errorf("%s: reading Y axis calibration: %w", handle.Fn, err)
	}

	return &Device{
		Path:    handle.Fn,
		Name:    handle.Name,
		Phys:    handle.Phys,
		Vendor:  handle.Vendor,
		Product: handle.Product,
		XRange:  gesture.AxisRange{Min: float64(x.Minimum), Max: float64(x.Maximum)},
		YRange:  gesture.AxisRange{Min: float64(y.Minimum), Max: float64(y.Maximum)},
		handle:  handle,
	}, nil
}

// List opens every multi-touch device under /dev/input. The caller
// owns the returned devices and must close them.
func List() ([]*Device, error) {
	handles, err := evdev.ListInputDevices()
	if err != nil {
		return nil, fmt.Errorf("enumerating input devices: %w", err)
	}

	var devices []*Device
	for _, handle := range handles {
		if !isTouchDevice(handle) {
			handle.File.Close()
			continue
		}
		dev, err := calibrate(handle)
		if err != nil {
			handle.File.Close()
			return nil, err
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

// Matches reports whether a device identified by name, vendor, and
// product satisfies the config section's USB id or name pattern. An
// unparseable configured USB id never matches.
func Matches(cfg config.DeviceConfig, name string, vendor, product uint16) bool {
	if cfg.USBID != "" {
		wantVendor, wantProduct, err := ParseUSBID(cfg.USBID)
		if err == nil && wantVendor == vendor && wantProduct == product {
			return true
		}
	}
	if cfg.NamePattern != "" {
		if g, err := glob.Compile(cfg.NamePattern); err == nil && g.Match(name) {
			return true
		}
	}
	return false
}

// Find locates the touch device matching the config section. It
// returns nil without an error when no device currently matches, which
// callers treat as "not attached yet".
func Find(cfg config.DeviceConfig, logger *slog.Logger) (*Device, error) {
	if cfg.USBID != "" {
		if _, _, err := ParseUSBID(cfg.USBID); err != nil {
			return nil, fmt.Errorf("device %q: %w", cfg.Name, err)
		}
	}

	devices, err := List()
	if err != nil {
		return nil, err
	}

	var found *Device
	for _, dev := range devices {
		if found == nil && Matches(cfg, dev.Name, dev.Vendor, dev.Product) {
			found = dev
			continue
		}
		dev.Close()
	}

	if found != nil {
		logger.Info("matched device",
			"device", cfg.Name,
			"path", found.Path,
			"name", found.Name,
			"usb_id", found.USBID())
	}
	return found, nil
}
