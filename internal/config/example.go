package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Example returns a commented starter configuration for `tapd config
// init`.
func Example() string {
	return `# tapd gesture configuration.
#
# Global settings apply to every device; each [device.<name>] section
# can override thresholds and gesture bindings field by field.

[global]
log_level = "info"
# log_file = "/var/log/tapd.log"

[global.thresholds]
swipe_time_max = 0.9
swipe_distance_min_pct = 0.15
angle_tolerance_deg = 30.0
tap_time_max = 0.2
long_press_time_min = 0.8
double_tap_interval = 0.3
tap_distance_max = 50.0
double_tap_distance_max = 50.0
pinch_threshold_pct = 0.1

# Gestures configured under [global.gestures.<name>] apply to every
# device. Available gestures: swipe_left, swipe_right, swipe_up,
# swipe_down, tap, double_tap, long_press, pinch_in, pinch_out.
[global.gestures.double_tap]
action = "xdotool key F5"
enabled = true

# Identify devices by USB id ("vendor:product", see 'tapd devices')
# or by a name glob.
[device.kiosk]
device_usb_id = "1234:5678"
enabled = true

[device.kiosk.gestures.swipe_left]
action = "xdotool key Right"
enabled = true

[device.kiosk.gestures.swipe_right]
action = "xdotool key Left"
enabled = true

# Per-device threshold overrides merge with the global set.
[device.kiosk.thresholds]
swipe_time_max = 1.5
`
}

// WriteExample writes the starter configuration to path, creating
// parent directories as needed. It refuses to overwrite an existing
// file.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Example()), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
