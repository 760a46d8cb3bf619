package gesture

import (
	"math"
	"time"
)

// -----------------------------------------------------------------------------
// Touch points and thresholds
// -----------------------------------------------------------------------------

// TouchPoint is a single committed touch sample. Once committed it is
// never mutated.
type TouchPoint struct {
	X          float64
	Y          float64
	Time       time.Time
	TrackingID int32
}

// DistanceTo returns the Euclidean distance to another touch point.
func (p TouchPoint) DistanceTo(other TouchPoint) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// AxisRange is the calibrated min/max of one absolute axis in device units.
type AxisRange struct {
	Min float64
	Max float64
}

// Span returns Max-Min. A degenerate range yields a zero span, which
// makes percentage-based swipe thresholds unreachable rather than
// causing an error.
func (r AxisRange) Span() float64 {
	return r.Max - r.Min
}

// Thresholds holds the nine tuning parameters of the recognizer. All
// fields are positive. Construct it through the config package's
// validation so a zero value never reaches a Recognizer.
type Thresholds struct {
	// SwipeDistanceMinPct is the minimum travel for a swipe, as a
	// fraction of the axis span.
	SwipeDistanceMinPct float64
	// SwipeTimeMax is the maximum swipe duration in seconds.
	SwipeTimeMax float64
	// AngleToleranceDeg is the maximum deviation from the dominant
	// axis, in degrees.
	AngleToleranceDeg float64
	// TapTimeMax is the maximum tap duration in seconds.
	TapTimeMax float64
	// LongPressTimeMin is the minimum hold duration for a long press,
	// in seconds.
	LongPressTimeMin float64
	// DoubleTapInterval is the window between taps in seconds.
	DoubleTapInterval float64
	// TapDistanceMax is the maximum travel for a stationary touch, in
	// device units.
	TapDistanceMax float64
	// DoubleTapDistanceMax is the maximum separation between two taps,
	// in device units.
	DoubleTapDistanceMax float64
	// PinchThresholdPct is the dead band for pinch detection, as a
	// fraction of the initial finger separation.
	PinchThresholdPct float64
}

// -----------------------------------------------------------------------------
// Recognizer
// -----------------------------------------------------------------------------

// Recognizer turns committed touch samples into gestures. One Recognizer
// serves one device session and is not safe for concurrent use; the
// owning worker goroutine drives it synchronously.
//
// Incoming coordinates arrive axis by axis, so the recognizer buffers at
// most one X and one Y until a sync commits them as a TouchPoint. The
// tracking id buffer is sticky: it persists across commits until the
// device reports a new id or the session resets.
type Recognizer struct {
	thresholds Thresholds
	xRange     AxisRange
	yRange     AxisRange

	touchStart    *TouchPoint
	touchCurrent  *TouchPoint
	touchPoints   []TouchPoint
	activeTouches map[int32]TouchPoint

	pendingX          *float64
	pendingY          *float64
	pendingTrackingID int32

	// Double-tap bookkeeping. Survives Reset so the second tap of a
	// double-tap, which arrives in a new touch session, can pair with
	// the first.
	lastTapTime     time.Time
	lastTapPosition *TouchPoint
	pendingTap      bool

	now func() time.Time
}

// NewRecognizer creates a recognizer with the given validated thresholds
// and axis calibration.
func NewRecognizer(thresholds Thresholds, xRange, yRange AxisRange) *Recognizer {
	return &Recognizer{
		thresholds:    thresholds,
		xRange:        xRange,
		yRange:        yRange,
		activeTouches: make(map[int32]TouchPoint),
		now:           time.Now,
	}
}

// SetClock replaces the recognizer's time source. Tests use it to
// simulate elapsed time between samples.
func (r *Recognizer) SetClock(now func() time.Time) {
	r.now = now
}

// Reset clears the per-touch session state. The double-tap bookkeeping
// is intentionally kept: it is consumed either by a double-tap firing or
// by the pending tap expiring.
func (r *Recognizer) Reset() {
	r.touchStart = nil
	r.touchCurrent = nil
	r.touchPoints = r.touchPoints[:0]
	clear(r.activeTouches)
	r.pendingX = nil
	r.pendingY = nil
	r.pendingTrackingID = 0
}

// SetPendingX buffers an X coordinate until the next sync.
func (r *Recognizer) SetPendingX(x float64) {
	r.pendingX = &x
}

// SetPendingY buffers a Y coordinate until the next sync.
func (r *Recognizer) SetPendingY(y float64) {
	r.pendingY = &y
}

// SetTrackingID sets the tracking id for subsequent touch points.
func (r *Recognizer) SetTrackingID(id int32) {
	r.pendingTrackingID = id
}

// Flush commits the buffered coordinates as a TouchPoint. It is a no-op
// when neither axis is buffered. A missing axis falls back to the
// current touch position, or 0 when there is no current touch yet, so a
// report carrying only one axis still produces a complete sample.
func (r *Recognizer) Flush() {
	if r.pendingX == nil && r.pendingY == nil {
		return
	}

	point := TouchPoint{
		Time:       r.now(),
		TrackingID: r.pendingTrackingID,
	}
	switch {
	case r.pendingX != nil:
		point.X = *r.pendingX
	case r.touchCurrent != nil:
		point.X = r.touchCurrent.X
	}
	switch {
	case r.pendingY != nil:
		point.Y = *r.pendingY
	case r.touchCurrent != nil:
		point.Y = r.touchCurrent.Y
	}

	r.activeTouches[point.TrackingID] = point
	r.touchPoints = append(r.touchPoints, point)
	if r.touchStart == nil {
		start := point
		r.touchStart = &start
	}
	current := point
	r.touchCurrent = &current

	r.pendingX = nil
	r.pendingY = nil
}

// Recognize inspects the recorded touch data and returns the gesture it
// describes, if any. Multi-finger sessions get a pinch attempt first; a
// pinch result pre-empts everything else, but a within-band pinch falls
// through to the single-finger checks. Swipe is evaluated before the
// stationary gestures, and within swipe the horizontal axis is evaluated
// first and wins ties.
func (r *Recognizer) Recognize() (Type, bool) {
	if r.touchStart == nil || r.touchCurrent == nil {
		return 0, false
	}
	start, current := *r.touchStart, *r.touchCurrent

	if len(r.activeTouches) >= 2 {
		if g, ok := r.detectPinch(); ok {
			return g, true
		}
	}

	if g, ok := r.detectSwipe(start, current); ok {
		return g, true
	}

	return r.detectStationary(start, current)
}

func (r *Recognizer) detectSwipe(start, current TouchPoint) (Type, bool) {
	dx := current.X - start.X
	dy := current.Y - start.Y
	dt := current.Time.Sub(start.Time).Seconds()
	th := r.thresholds

	if dt >= th.SwipeTimeMax {
		return 0, false
	}

	if math.Abs(dx) >= r.xRange.Span()*th.SwipeDistanceMinPct &&
		degrees(math.Atan2(math.Abs(dy), math.Abs(dx))) <= th.AngleToleranceDeg {
		if dx > 0 {
			return SwipeRight, true
		}
		return SwipeLeft, true
	}

	if math.Abs(dy) >= r.yRange.Span()*th.SwipeDistanceMinPct &&
		degrees(math.Atan2(math.Abs(dx), math.Abs(dy))) <= th.AngleToleranceDeg {
		if dy > 0 {
			return SwipeDown, true
		}
		return SwipeUp, true
	}

	return 0, false
}

// detectStationary classifies a touch that did not qualify as a swipe:
// long press, the second tap of a double-tap, or a candidate single tap.
// A candidate tap is recorded but not emitted; it either pairs into a
// DoubleTap or is emitted as Tap by CheckPendingTapExpired once the
// double-tap window has passed.
func (r *Recognizer) detectStationary(start, current TouchPoint) (Type, bool) {
	dt := current.Time.Sub(start.Time).Seconds()
	distance := start.DistanceTo(current)
	th := r.thresholds

	if dt >= th.LongPressTimeMin && distance < th.TapDistanceMax {
		return LongPress, true
	}

	if dt >= th.TapTimeMax || distance >= th.TapDistanceMax {
		return 0, false
	}

	now := r.now()
	if !r.lastTapTime.IsZero() && r.lastTapPosition != nil {
		last := *r.lastTapPosition
		if now.Sub(r.lastTapTime).Seconds() < th.DoubleTapInterval &&
			math.Hypot(current.X-last.X, current.Y-last.Y) < th.DoubleTapDistanceMax {
			r.pendingTap = false
			r.lastTapTime = time.Time{}
			r.lastTapPosition = nil
			return DoubleTap, true
		}
	}

	r.lastTapTime = now
	r.lastTapPosition = &TouchPoint{X: current.X, Y: current.Y}
	r.pendingTap = true
	return 0, false
}

// detectPinch compares the initial and final separation of two fingers.
// The initial separation is measured between the first committed sample
// and the earliest later sample from a different finger; the final
// separation between the last sample and the nearest preceding sample
// from a different finger.
func (r *Recognizer) detectPinch() (Type, bool) {
	if len(r.touchPoints) < 4 || len(r.activeTouches) < 2 {
		return 0, false
	}

	first := r.touchPoints[0]
	var firstOther *TouchPoint
	for i := 1; i < len(r.touchPoints); i++ {
		if r.touchPoints[i].TrackingID != first.TrackingID {
			firstOther = &r.touchPoints[i]
			break
		}
	}
	if firstOther == nil {
		return 0, false
	}
	firstDist := first.DistanceTo(*firstOther)

	last := r.touchPoints[len(r.touchPoints)-1]
	var lastOther *TouchPoint
	for i := len(r.touchPoints) - 2; i >= 0; i-- {
		if r.touchPoints[i].TrackingID != last.TrackingID {
			lastOther = &r.touchPoints[i]
			break
		}
	}
	if lastOther == nil {
		return 0, false
	}
	lastDist := last.DistanceTo(*lastOther)

	band := firstDist * r.thresholds.PinchThresholdPct
	switch {
	case lastDist < firstDist-band:
		return PinchIn, true
	case lastDist > firstDist+band:
		return PinchOut, true
	default:
		return 0, false
	}
}

// HasPendingTap reports whether a single tap is awaiting the double-tap
// window.
func (r *Recognizer) HasPendingTap() bool {
	return r.pendingTap
}

// CheckPendingTapExpired consumes a pending tap whose double-tap window
// has passed and returns it as a Tap. Only the pending flag is cleared;
// the recorded tap time and position remain until a double-tap consumes
// them or a later tap overwrites them.
func (r *Recognizer) CheckPendingTapExpired() (Type, bool) {
	if !r.pendingTap || r.lastTapTime.IsZero() {
		return 0, false
	}
	if r.now().Sub(r.lastTapTime).Seconds() >= r.thresholds.DoubleTapInterval {
		r.pendingTap = false
		return Tap, true
	}
	return 0, false
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
