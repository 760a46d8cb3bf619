// Package config loads and validates the daemon's TOML configuration.
//
// The file has a [global] section with defaults and one [device.<name>]
// section per touch device. Thresholds and gesture bindings declared
// globally apply to every device; a device section can override any of
// them field by field. The raw types in this package carry pointer
// fields so "not set" is distinguishable from an explicit zero, which
// is what makes the per-field merge work.
package config

import (
	"fmt"
	"log/slog"

	"github.com/gobwas/glob"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/tapd/internal/gesture"
)

// DefaultPath is where the daemon looks for its configuration unless
// --config says otherwise.
const DefaultPath = "/etc/tapd/gestures.toml"

// -----------------------------------------------------------------------------
// Raw (as-parsed) types
// -----------------------------------------------------------------------------

// rawConfig is the root of the TOML file.
type rawConfig struct {
	Global rawGlobal            `mapstructure:"global"`
	Device map[string]rawDevice `mapstructure:"device"`
}

// rawGlobal is the [global] section.
type rawGlobal struct {
	LogLevel   *string                     `mapstructure:"log_level"`
	LogFile    *string                     `mapstructure:"log_file"`
	Thresholds RawThresholds               `mapstructure:"thresholds"`
	Gestures   map[string]RawGestureConfig `mapstructure:"gestures"`
}

// rawDevice is a [device.<name>] section.
type rawDevice struct {
	DeviceUSBID *string                     `mapstructure:"device_usb_id"`
	DeviceName  *string                     `mapstructure:"device_name"`
	Enabled     *bool                       `mapstructure:"enabled"`
	Thresholds  RawThresholds               `mapstructure:"thresholds"`
	Gestures    map[string]RawGestureConfig `mapstructure:"gestures"`
}

// RawThresholds holds the recognizer tuning values as they appear in
// the file. Every field is optional so a device section can override
// just the values it cares about.
type RawThresholds struct {
	SwipeTimeMax         *float64 `mapstructure:"swipe_time_max"`
	SwipeDistanceMinPct  *float64 `mapstructure:"swipe_distance_min_pct"`
	AngleToleranceDeg    *float64 `mapstructure:"angle_tolerance_deg"`
	TapTimeMax           *float64 `mapstructure:"tap_time_max"`
	LongPressTimeMin     *float64 `mapstructure:"long_press_time_min"`
	DoubleTapInterval    *float64 `mapstructure:"double_tap_interval"`
	TapDistanceMax       *float64 `mapstructure:"tap_distance_max"`
	DoubleTapDistanceMax *float64 `mapstructure:"double_tap_distance_max"`
	PinchThresholdPct    *float64 `mapstructure:"pinch_threshold_pct"`
}

// RawGestureConfig is one gesture entry (action + enabled) as parsed.
type RawGestureConfig struct {
	Action  *string `mapstructure:"action"`
	Enabled *bool   `mapstructure:"enabled"`
}

// -----------------------------------------------------------------------------
// Resolved types
// -----------------------------------------------------------------------------

// GestureConfig is a fully merged gesture binding.
type GestureConfig struct {
	Action  string
	Enabled bool
}

// DeviceConfig is the fully resolved configuration for one device.
// Exactly one of USBID and NamePattern may be empty.
type DeviceConfig struct {
	Name        string
	USBID       string
	NamePattern string
	Thresholds  gesture.Thresholds
	Gestures    map[string]GestureConfig
}

// Config is the fully resolved daemon configuration.
type Config struct {
	LogLevel string
	LogFile  string
	Devices  map[string]DeviceConfig
}

// -----------------------------------------------------------------------------
// Merging and validation
// -----------------------------------------------------------------------------

// MergeWithFallback returns a copy of t with every unset field filled
// from the fallback.
func (t RawThresholds) MergeWithFallback(fallback RawThresholds) RawThresholds {
	return RawThresholds{
		SwipeTimeMax:         orFloat(t.SwipeTimeMax, fallback.SwipeTimeMax),
		SwipeDistanceMinPct:  orFloat(t.SwipeDistanceMinPct, fallback.SwipeDistanceMinPct),
		AngleToleranceDeg:    orFloat(t.AngleToleranceDeg, fallback.AngleToleranceDeg),
		TapTimeMax:           orFloat(t.TapTimeMax, fallback.TapTimeMax),
		LongPressTimeMin:     orFloat(t.LongPressTimeMin, fallback.LongPressTimeMin),
		DoubleTapInterval:    orFloat(t.DoubleTapInterval, fallback.DoubleTapInterval),
		TapDistanceMax:       orFloat(t.TapDistanceMax, fallback.TapDistanceMax),
		DoubleTapDistanceMax: orFloat(t.DoubleTapDistanceMax, fallback.DoubleTapDistanceMax),
		PinchThresholdPct:    orFloat(t.PinchThresholdPct, fallback.PinchThresholdPct),
	}
}

func orFloat(a, b *float64) *float64 {
	if a != nil {
		return a
	}
	return b
}

// Validate converts the raw thresholds into a validated set, collecting
// every missing or non-positive field instead of stopping at the first.
func (t RawThresholds) Validate() (gesture.Thresholds, error) {
	var out gesture.Thresholds
	fields := []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{"swipe_time_max", t.SwipeTimeMax, &out.SwipeTimeMax},
		{"swipe_distance_min_pct", t.SwipeDistanceMinPct, &out.SwipeDistanceMinPct},
		{"angle_tolerance_deg", t.AngleToleranceDeg, &out.AngleToleranceDeg},
		{"tap_time_max", t.TapTimeMax, &out.TapTimeMax},
		{"long_press_time_min", t.LongPressTimeMin, &out.LongPressTimeMin},
		{"double_tap_interval", t.DoubleTapInterval, &out.DoubleTapInterval},
		{"tap_distance_max", t.TapDistanceMax, &out.TapDistanceMax},
		{"double_tap_distance_max", t.DoubleTapDistanceMax, &out.DoubleTapDistanceMax},
		{"pinch_threshold_pct", t.PinchThresholdPct, &out.PinchThresholdPct},
	}

	var errs ValidationErrors
	for _, f := range fields {
		switch {
		case f.src == nil:
			errs = append(errs, ValidationError{
				Field:   "thresholds." + f.name,
				Value:   nil,
				Message: "is required",
			})
		case *f.src <= 0:
			errs = append(errs, ValidationError{
				Field:   "thresholds." + f.name,
				Value:   *f.src,
				Message: "must be positive",
			})
		default:
			*f.dst = *f.src
		}
	}

	if len(errs) > 0 {
		return gesture.Thresholds{}, errs
	}
	return out, nil
}

// mergeGestures combines the global and device gesture maps. Device
// entries override the global ones field by field; a field left unset
// in both places keeps the zero default, so a gesture is disabled
// unless somewhere says otherwise.
func mergeGestures(global, device map[string]RawGestureConfig) map[string]GestureConfig {
	merged := make(map[string]GestureConfig, len(global)+len(device))

	apply := func(name string, gc RawGestureConfig) {
		entry := merged[name]
		if gc.Action != nil {
			entry.Action = *gc.Action
		}
		if gc.Enabled != nil {
			entry.Enabled = *gc.Enabled
		}
		merged[name] = entry
	}

	for name, gc := range global {
		apply(name, gc)
	}
	for name, gc := range device {
		apply(name, gc)
	}
	return merged
}

// -----------------------------------------------------------------------------
// Loading
// -----------------------------------------------------------------------------

// Load reads and resolves the TOML configuration at path. Disabled
// device sections are skipped; enabled sections missing both a USB id
// and a name pattern are skipped with a warning. A device section with
// an incomplete threshold set after merging is an error.
func Load(path string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return resolve(raw, logger)
}

func resolve(raw rawConfig, logger *slog.Logger) (*Config, error) {
	cfg := &Config{
		LogLevel: "info",
		Devices:  make(map[string]DeviceConfig),
	}
	if raw.Global.LogLevel != nil {
		cfg.LogLevel = *raw.Global.LogLevel
	}
	if raw.Global.LogFile != nil {
		cfg.LogFile = *raw.Global.LogFile
	}

	for name, dev := range raw.Device {
		if dev.Enabled == nil || !*dev.Enabled {
			logger.Debug("device not enabled, skipping", "device", name)
			continue
		}

		usbID := deref(dev.DeviceUSBID)
		pattern := deref(dev.DeviceName)
		if usbID == "" && pattern == "" {
			logger.Warn("device is enabled but has neither device_usb_id nor device_name, skipping; run 'tapd devices' to identify it",
				"device", name)
			continue
		}
		if pattern != "" {
			if _, err := glob.Compile(pattern); err != nil {
				return nil, fmt.Errorf("device %q: invalid device_name pattern %q: %w", name, pattern, err)
			}
		}

		thresholds, err := dev.Thresholds.MergeWithFallback(raw.Global.Thresholds).Validate()
		if err != nil {
			return nil, fmt.Errorf("device %q: %w", name, err)
		}

		cfg.Devices[name] = DeviceConfig{
			Name:        name,
			USBID:       usbID,
			NamePattern: pattern,
			Thresholds:  thresholds,
			Gestures:    mergeGestures(raw.Global.Gestures, dev.Gestures),
		}
	}

	return cfg, nil
}

func deref(s *string) string {
	if s != nil {
		return *s
	}
	return ""
}
