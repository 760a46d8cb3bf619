// Package event defines the events that decouple the daemon's
// components. Device workers publish recognized gestures, the action
// executor consumes them, and logging or test code can observe
// everything without any component depending on another directly.
package event

import (
	"time"

	"github.com/Iron-Ham/tapd/internal/gesture"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "gesture.recognized").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Gesture Events
// -----------------------------------------------------------------------------

// GestureRecognizedEvent is emitted when a device worker recognizes a
// gesture, whether or not an action is configured for it.
type GestureRecognizedEvent struct {
	baseEvent
	Device  string       // Configured device name
	Path    string       // evdev node path (e.g., /dev/input/event5)
	Gesture gesture.Type // The recognized gesture
	Action  string       // Resolved shell action, empty if none configured
}

// NewGestureRecognizedEvent creates a GestureRecognizedEvent.
func NewGestureRecognizedEvent(device, path string, g gesture.Type, action string) GestureRecognizedEvent {
	return GestureRecognizedEvent{
		baseEvent: newBaseEvent("gesture.recognized"),
		Device:    device,
		Path:      path,
		Gesture:   g,
		Action:    action,
	}
}

// -----------------------------------------------------------------------------
// Device Lifecycle Events
// -----------------------------------------------------------------------------

// DeviceConnectedEvent is emitted when a configured device is matched
// and its read loop starts.
type DeviceConnectedEvent struct {
	baseEvent
	Device string // Configured device name
	Path   string // evdev node path
	Name   string // Hardware-reported device name
}

// NewDeviceConnectedEvent creates a DeviceConnectedEvent.
func NewDeviceConnectedEvent(device, path, name string) DeviceConnectedEvent {
	return DeviceConnectedEvent{
		baseEvent: newBaseEvent("device.connected"),
		Device:    device,
		Path:      path,
		Name:      name,
	}
}

// DeviceDisconnectedEvent is emitted when a device read loop ends,
// either because the hardware went away or the daemon is stopping.
type DeviceDisconnectedEvent struct {
	baseEvent
	Device string // Configured device name
	Path   string // evdev node path
	Reason string // Why the loop ended (e.g., "read error", "shutdown")
}

// NewDeviceDisconnectedEvent creates a DeviceDisconnectedEvent.
func NewDeviceDisconnectedEvent(device, path, reason string) DeviceDisconnectedEvent {
	return DeviceDisconnectedEvent{
		baseEvent: newBaseEvent("device.disconnected"),
		Device:    device,
		Path:      path,
		Reason:    reason,
	}
}

// -----------------------------------------------------------------------------
// Action Events
// -----------------------------------------------------------------------------

// ActionStartedEvent is emitted when the executor spawns a shell action
// for a recognized gesture.
type ActionStartedEvent struct {
	baseEvent
	Device  string       // Configured device name
	Gesture gesture.Type // Gesture that triggered the action
	Action  string       // Shell command being run
}

// NewActionStartedEvent creates an ActionStartedEvent.
func NewActionStartedEvent(device string, g gesture.Type, action string) ActionStartedEvent {
	return ActionStartedEvent{
		baseEvent: newBaseEvent("action.started"),
		Device:    device,
		Gesture:   g,
		Action:    action,
	}
}
