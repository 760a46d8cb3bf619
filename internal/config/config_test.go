package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeConfig writes content to a temp TOML file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gestures.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

const completeThresholds = `
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
`

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
[global]
log_level = "debug"
log_file = "/var/log/tapd.log"
`+completeThresholds+`
[global.gestures.tap]
action = "xdotool click 1"
enabled = true

[global.gestures.double_tap]
action = "xdotool key F5"

[device.kiosk]
device_usb_id = "1234:5678"
enabled = true

[device.kiosk.thresholds]
swipe_time_max = 1.5

[device.kiosk.gestures.double_tap]
enabled = true

[device.kiosk.gestures.swipe_left]
action = "xdotool key Left"
enabled = true
`)

	cfg, err := Load(path, discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFile != "/var/log/tapd.log" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}

	dev, ok := cfg.Devices["kiosk"]
	if !ok {
		t.Fatalf("expected device kiosk, have %v", cfg.Devices)
	}
	if dev.USBID != "1234:5678" {
		t.Errorf("USBID = %q", dev.USBID)
	}

	// Device threshold overrides the global value; the rest fall back.
	if dev.Thresholds.SwipeTimeMax != 1.5 {
		t.Errorf("SwipeTimeMax = %v, want 1.5", dev.Thresholds.SwipeTimeMax)
	}
	if dev.Thresholds.TapDistanceMax != 50 {
		t.Errorf("TapDistanceMax = %v, want 50", dev.Thresholds.TapDistanceMax)
	}

	// Global gesture carried over unchanged.
	if g := dev.Gestures["tap"]; g.Action != "xdotool click 1" || !g.Enabled {
		t.Errorf("tap = %+v", g)
	}
	// Device enables a gesture whose action comes from global.
	if g := dev.Gestures["double_tap"]; g.Action != "xdotool key F5" || !g.Enabled {
		t.Errorf("double_tap = %+v", g)
	}
	// Device-only gesture.
	if g := dev.Gestures["swipe_left"]; g.Action != "xdotool key Left" || !g.Enabled {
		t.Errorf("swipe_left = %+v", g)
	}
}

func TestLoad_DisabledDeviceSkipped(t *testing.T) {
	path := writeConfig(t, completeThresholds+`
[device.implicit]
device_usb_id = "1234:5678"

[device.explicit]
device_usb_id = "1234:5678"
enabled = false
`)

	cfg, err := Load(path, discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Devices) != 0 {
		t.Errorf("expected no devices, got %v", cfg.Devices)
	}
}

func TestLoad_EnabledDeviceWithoutIdentitySkipped(t *testing.T) {
	path := writeConfig(t, completeThresholds+`
[device.mystery]
enabled = true
`)

	cfg, err := Load(path, discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Devices) != 0 {
		t.Errorf("expected no devices, got %v", cfg.Devices)
	}
}

func TestLoad_DeviceNamePattern(t *testing.T) {
	path := writeConfig(t, completeThresholds+`
[device.panel]
device_name = "*Touchscreen*"
enabled = true
`)

	cfg, err := Load(path, discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	dev, ok := cfg.Devices["panel"]
	if !ok {
		t.Fatal("expected device panel")
	}
	if dev.NamePattern != "*Touchscreen*" {
		t.Errorf("NamePattern = %q", dev.NamePattern)
	}
}

func TestLoad_InvalidNamePattern(t *testing.T) {
	path := writeConfig(t, completeThresholds+`
[device.panel]
device_name = "[unclosed"
enabled = true
`)

	if _, err := Load(path, discardLogger()); err == nil {
		t.Fatal("expected an error for a malformed glob")
	}
}

func TestLoad_MissingThresholds(t *testing.T) {
	path := writeConfig(t, `
[global.thresholds]
swipe_time_max = 0.9

[device.kiosk]
device_usb_id = "1234:5678"
enabled = true
`)

	_, err := Load(path, discardLogger())
	if err == nil {
		t.Fatal("expected an error for missing thresholds")
	}
	if !strings.Contains(err.Error(), "kiosk") {
		t.Errorf("error should name the device: %v", err)
	}
	if !strings.Contains(err.Error(), "tap_time_max") {
		t.Errorf("error should name a missing field: %v", err)
	}
}

func TestLoad_NonPositiveThreshold(t *testing.T) {
	path := writeConfig(t, completeThresholds+`
[device.kiosk]
device_usb_id = "1234:5678"
enabled = true

[device.kiosk.thresholds]
tap_time_max = -0.5
`)

	_, err := Load(path, discardLogger())
	if err == nil {
		t.Fatal("expected an error for a negative threshold")
	}
	if !strings.Contains(err.Error(), "must be positive") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml"), discardLogger()); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoad_DefaultLogLevel(t *testing.T) {
	path := writeConfig(t, completeThresholds)

	cfg, err := Load(path, discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoad_ExampleParses(t *testing.T) {
	path := writeConfig(t, Example())

	cfg, err := Load(path, discardLogger())
	if err != nil {
		t.Fatalf("the shipped example must load cleanly: %v", err)
	}
	if _, ok := cfg.Devices["kiosk"]; !ok {
		t.Error("expected the example's kiosk device to resolve")
	}
}

func TestRawThresholds_MergeWithFallback(t *testing.T) {
	override := 1.5
	global := 0.9
	other := 0.2

	merged := RawThresholds{SwipeTimeMax: &override}.MergeWithFallback(RawThresholds{
		SwipeTimeMax: &global,
		TapTimeMax:   &other,
	})

	if merged.SwipeTimeMax == nil || *merged.SwipeTimeMax != 1.5 {
		t.Errorf("SwipeTimeMax = %v, want 1.5", merged.SwipeTimeMax)
	}
	if merged.TapTimeMax == nil || *merged.TapTimeMax != 0.2 {
		t.Errorf("TapTimeMax = %v, want 0.2", merged.TapTimeMax)
	}
	if merged.PinchThresholdPct != nil {
		t.Errorf("PinchThresholdPct should stay unset, got %v", *merged.PinchThresholdPct)
	}
}

func TestValidationErrors_ListsEveryProblem(t *testing.T) {
	_, err := RawThresholds{}.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 9 {
		t.Errorf("expected 9 errors, got %d: %v", len(verrs), verrs)
	}
}

func TestWriteExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "tapd", "gestures.toml")

	if err := WriteExample(path); err != nil {
		t.Fatalf("WriteExample: %v", err)
	}
	if err := WriteExample(path); err == nil {
		t.Error("expected WriteExample to refuse overwriting")
	}
}
