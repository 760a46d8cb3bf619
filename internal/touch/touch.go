// Package touch defines the semantic touch event vocabulary and the
// deterministic event-processing pipeline that feeds a gesture
// recognizer. Everything here is free of I/O so the pipeline is fully
// testable without hardware.
package touch

import (
	evdev "github.com/gvalkov/golang-evdev"

	"github.com/Iron-Ham/tapd/internal/gesture"
)

// -----------------------------------------------------------------------------
// Event vocabulary
// -----------------------------------------------------------------------------

// Event is one semantic touch event, decoupled from the raw evdev types.
// The set of implementations is closed: PositionX, PositionY,
// TrackingID, FingerUp, and SynReport.
type Event interface {
	isTouchEvent()
}

// PositionX carries the X coordinate of a multi-touch contact.
type PositionX float64

// PositionY carries the Y coordinate of a multi-touch contact.
type PositionY float64

// TrackingID assigns the kernel slot tracking id to subsequent samples.
type TrackingID int32

// FingerUp marks a contact lifting off the surface.
type FingerUp struct{}

// SynReport marks the end of one hardware report frame.
type SynReport struct{}

func (PositionX) isTouchEvent()  {}
func (PositionY) isTouchEvent()  {}
func (TrackingID) isTouchEvent() {}
func (FingerUp) isTouchEvent()   {}
func (SynReport) isTouchEvent()  {}

// -----------------------------------------------------------------------------
// Processing
// -----------------------------------------------------------------------------

// Process feeds a sequence of events into the recognizer and collects
// every gesture that fires. Coordinates are buffered until a SynReport
// commits them; FingerUp first drains an expired pending tap, then
// recognizes the finished touch, then resets the session. The expiry
// check runs before recognition so a stale tap from a previous touch is
// emitted ahead of whatever the current touch produces.
func Process(r *gesture.Recognizer, events []Event) []gesture.Type {
	var gestures []gesture.Type
	for _, ev := range events {
		switch ev := ev.(type) {
		case PositionX:
			r.SetPendingX(float64(ev))
		case PositionY:
			r.SetPendingY(float64(ev))
		case TrackingID:
			r.SetTrackingID(int32(ev))
		case FingerUp:
			if g, ok := r.CheckPendingTapExpired(); ok {
				gestures = append(gestures, g)
			}
			if g, ok := r.Recognize(); ok {
				gestures = append(gestures, g)
			}
			r.Reset()
		case SynReport:
			r.Flush()
			if g, ok := r.CheckPendingTapExpired(); ok {
				gestures = append(gestures, g)
			}
		}
	}
	return gestures
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// Classify maps a raw evdev input event to its semantic touch event.
// It returns false for event types the recognizer does not care about.
// A tracking id of -1 is the kernel's lift-off marker and classifies as
// FingerUp.
func Classify(ev evdev.InputEvent) (Event, bool) {
	switch ev.Type {
	case evdev.EV_ABS:
		switch ev.Code {
		case evdev.ABS_MT_POSITION_X:
			return PositionX(ev.Value), true
		case evdev.ABS_MT_POSITION_Y:
			return PositionY(ev.Value), true
		case evdev.ABS_MT_TRACKING_ID:
			if ev.Value == -1 {
				return FingerUp{}, true
			}
			return TrackingID(ev.Value), true
		}
	case evdev.EV_SYN:
		if ev.Code == evdev.SYN_REPORT {
			return SynReport{}, true
		}
	}
	return nil, false
}
