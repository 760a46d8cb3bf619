// Package gesture implements the touch gesture recognition engine.
//
// A Recognizer owns the session state for one physical touch device:
// buffered per-axis coordinates, the committed sample history of the
// current touch, the set of concurrently active fingers, and the
// double-tap bookkeeping that deliberately spans touch sessions. The
// detection algorithms (swipe, stationary, pinch) consume that history
// and emit at most one gesture per invocation.
package gesture

import "fmt"

// Type identifies a recognized gesture.
type Type int

const (
	// SwipeLeft is a fast horizontal motion toward smaller X values.
	SwipeLeft Type = iota
	// SwipeRight is a fast horizontal motion toward larger X values.
	SwipeRight
	// SwipeUp is a fast vertical motion toward smaller Y values.
	SwipeUp
	// SwipeDown is a fast vertical motion toward larger Y values.
	SwipeDown
	// Tap is a short stationary touch with no qualifying follow-up.
	Tap
	// DoubleTap is two qualifying taps within the double-tap window.
	DoubleTap
	// LongPress is a stationary touch held past the long-press minimum.
	LongPress
	// PinchIn is two fingers converging beyond the pinch band.
	PinchIn
	// PinchOut is two fingers diverging beyond the pinch band.
	PinchOut
)

// typeNames is the canonical name table. The snake_case literals are a
// stable external contract: they are the configuration lookup keys and
// the display form, so they are spelled out explicitly rather than
// derived from the constant names.
var typeNames = map[Type]string{
	SwipeLeft:  "swipe_left",
	SwipeRight: "swipe_right",
	SwipeUp:    "swipe_up",
	SwipeDown:  "swipe_down",
	Tap:        "tap",
	DoubleTap:  "double_tap",
	LongPress:  "long_press",
	PinchIn:    "pinch_in",
	PinchOut:   "pinch_out",
}

// namesToType is the reverse of typeNames, built once at init.
var namesToType = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}
	return m
}()

// String returns the canonical snake_case name for the gesture.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseType converts a canonical gesture name back into its Type.
func ParseType(name string) (Type, error) {
	if t, ok := namesToType[name]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown gesture name %q", name)
}

// Types returns all gesture types in a stable order.
func Types() []Type {
	return []Type{
		SwipeLeft, SwipeRight, SwipeUp, SwipeDown,
		Tap, DoubleTap, LongPress, PinchIn, PinchOut,
	}
}
