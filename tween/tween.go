// Copyright © 2025 Tweenline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tween/tween.go
// Summary: Leaf unit interpolating float attributes of a target through an accessor.
// Usage: Obtain via Engine.To/From/Set/Call/Mark, configure fluently, then Start.
// Notes: Start and target values resolve lazily on the first RUN entry; scratch buffers
//        are sized once from the engine limits so steady-state updates never allocate.

package tween

import (
	"fmt"
	"reflect"

	"github.com/framegrace/tweenline/ease"
	"github.com/framegrace/tweenline/paths"
)

// Tween interpolates up to the engine's combined attributes limit of float
// values on one target channel, from their current values toward explicit
// targets (To), or the other way around (From).
type Tween struct {
	baseUnit

	target    interface{}
	accessor  Accessor
	castType  reflect.Type
	tweenType int

	easing ease.Func
	pathFn paths.Func

	isFrom     bool
	isRelative bool

	combinedAttrsCnt int
	waypointsCnt     int

	startValues    []float32
	targetValues   []float32
	waypoints      []float32
	accessorBuffer []float32
	pathBuffer     []float32
}

func newTween(e *Engine) *Tween {
	t := &Tween{
		startValues:    make([]float32, e.combinedAttrsLimit),
		targetValues:   make([]float32, e.combinedAttrsLimit),
		waypoints:      make([]float32, e.waypointsLimit*e.combinedAttrsLimit),
		accessorBuffer: make([]float32, e.combinedAttrsLimit),
		pathBuffer:     make([]float32, e.waypointsLimit+2),
	}
	t.engine = e
	t.self = t
	t.reset()
	return t
}

// reset restores pool defaults, zeroing every buffer.
func (t *Tween) reset() {
	t.defaults()
	t.target = nil
	t.accessor = nil
	t.castType = nil
	t.tweenType = 0
	t.easing = ease.QuadInOut
	t.pathFn = paths.CatmullRom
	t.isFrom = false
	t.isRelative = false
	t.combinedAttrsCnt = 0
	t.waypointsCnt = 0
	for i := range t.startValues {
		t.startValues[i] = 0
		t.targetValues[i] = 0
		t.accessorBuffer[i] = 0
	}
	for i := range t.waypoints {
		t.waypoints[i] = 0
	}
}

// setup configures the common To/From/Set fields.
func (t *Tween) setup(target interface{}, tweenType int, duration float32, from bool) {
	if duration < 0 {
		panic(fmt.Errorf("tween: %w: duration %f < 0", ErrBadArgument, duration))
	}
	t.target = target
	t.tweenType = tweenType
	t.duration = duration
	t.isFrom = from
}

// Target sets the destination values, one per attribute slot.
func (t *Tween) Target(values ...float32) *Tween {
	if len(values) > len(t.targetValues) {
		panic(fmt.Errorf("tween: %w: %d target values exceed the combined attributes limit %d",
			ErrBadArgument, len(values), len(t.targetValues)))
	}
	copy(t.targetValues, values)
	return t
}

// TargetRelative sets destinations as offsets from the start values, resolved
// at initialisation.
func (t *Tween) TargetRelative(values ...float32) *Tween {
	t.Target(values...)
	t.isRelative = true
	return t
}

// Waypoint appends one row of intermediate values the interpolation passes
// through, one value per attribute slot.
func (t *Tween) Waypoint(values ...float32) *Tween {
	limit := t.engine.waypointsLimit
	if t.waypointsCnt == limit {
		panic(fmt.Errorf("tween: %w: waypoint limit %d reached", ErrBadArgument, limit))
	}
	if len(values) > t.engine.combinedAttrsLimit {
		panic(fmt.Errorf("tween: %w: %d waypoint values exceed the combined attributes limit %d",
			ErrBadArgument, len(values), t.engine.combinedAttrsLimit))
	}
	copy(t.waypoints[t.waypointsCnt*t.engine.combinedAttrsLimit:], values)
	t.waypointsCnt++
	return t
}

// Ease replaces the easing curve. The default is ease.QuadInOut.
func (t *Tween) Ease(fn ease.Func) *Tween {
	if fn == nil {
		panic(fmt.Errorf("tween: %w: nil easing", ErrBadArgument))
	}
	t.easing = fn
	return t
}

// Path replaces the waypoint interpolator. The default is paths.CatmullRom.
func (t *Tween) Path(fn paths.Func) *Tween {
	if fn == nil {
		panic(fmt.Errorf("tween: %w: nil path", ErrBadArgument))
	}
	t.pathFn = fn
	return t
}

// Cast forces accessor lookup under the given prototype's type instead of the
// target's own.
func (t *Tween) Cast(prototype interface{}) *Tween {
	if t.isInitialized {
		panic(fmt.Errorf("tween: %w: Cast after initialisation", ErrMisuseOrder))
	}
	t.castType = reflect.TypeOf(prototype)
	return t
}

// Delay postpones the first iteration by the given seconds.
func (t *Tween) Delay(seconds float32) *Tween {
	t.setDelay(seconds)
	return t
}

// Repeat replays the tween count more times (Infinity for endless), waiting
// delay seconds between iterations.
func (t *Tween) Repeat(count int, delay float32) *Tween {
	t.setRepeat(count, delay, false)
	return t
}

// RepeatAutoReverse is Repeat with alternating direction each iteration.
func (t *Tween) RepeatAutoReverse(count int, delay float32) *Tween {
	t.setRepeat(count, delay, true)
	return t
}

// AddCallback subscribes fn to every event in mask.
func (t *Tween) AddCallback(mask Event, fn Callback) *Tween {
	t.addCallback(mask, fn)
	return t
}

// SetUserData attaches an opaque host handle readable via UserData.
func (t *Tween) SetUserData(data interface{}) *Tween {
	t.userData = data
	return t
}

// Start positions the tween at the head of its playback. Managed tweens are
// started by Engine.Add instead.
func (t *Tween) Start() *Tween {
	t.startPlayback()
	return t
}

// Target value accessors, mostly useful in tests and tooling.

func (t *Tween) TweenTarget() interface{} { return t.target }
func (t *Tween) TweenType() int { return t.tweenType }
func (t *Tween) Easing() ease.Func { return t.easing }

// CombinedAttributesCount is the slot count reported by the accessor, valid
// once the tween is initialized.
func (t *Tween) CombinedAttributesCount() int { return t.combinedAttrsCnt }

// StartValues returns the resolved start values, valid once initialized.
func (t *Tween) StartValues() []float32 { return t.startValues[:t.combinedAttrsCnt] }

// TargetValues returns the resolved target values, valid once initialized.
func (t *Tween) TargetValues() []float32 { return t.targetValues[:t.combinedAttrsCnt] }

// ContainsTarget reports whether this tween drives the given target.
func (t *Tween) ContainsTarget(target interface{}) bool {
	return t.target == target
}

// ContainsTargetType reports whether this tween drives the given target
// channel.
func (t *Tween) ContainsTargetType(target interface{}, tweenType int) bool {
	return t.target == target && t.tweenType == tweenType
}

// initializeValues reads the start values through the accessor and resolves
// relative targets and from-swaps. Runs once per lifecycle, on the first RUN
// entry.
func (t *Tween) initializeValues() {
	if t.target == nil || t.isKilled {
		return
	}

	t.accessor = t.engine.accessors.resolve(t.target, t.castType)
	if t.accessor == nil {
		panic(fmt.Errorf("tween: %w: target %T, type %d", ErrMissingAccessor, t.target, t.tweenType))
	}

	n := t.accessor.GetValues(t.target, t.tweenType, t.accessorBuffer)
	if n < 0 || n > t.engine.combinedAttrsLimit {
		panic(fmt.Errorf("tween: %w: accessor for %T returned %d values, limit %d",
			ErrBadArgument, t.target, n, t.engine.combinedAttrsLimit))
	}
	t.combinedAttrsCnt = n
	copy(t.startValues, t.accessorBuffer[:n])

	if t.isRelative {
		for i := 0; i < n; i++ {
			t.targetValues[i] += t.startValues[i]
		}
		for w := 0; w < t.waypointsCnt; w++ {
			row := w * t.engine.combinedAttrsLimit
			for i := 0; i < n; i++ {
				t.waypoints[row+i] += t.startValues[i]
			}
		}
	}

	if t.isFrom {
		for i := 0; i < n; i++ {
			t.startValues[i], t.targetValues[i] = t.targetValues[i], t.startValues[i]
		}
	}
}

// runUpdate computes the eased value for the current local time and writes it
// through the accessor.
func (t *Tween) runUpdate(forward bool, delta float32) {
	if t.target == nil || !t.isInitialized || t.isKilled {
		return
	}

	n := t.combinedAttrsCnt
	if t.duration <= instantThreshold {
		// no running interval; snap to the boundary for the direction
		if forward {
			copy(t.accessorBuffer, t.targetValues[:n])
		} else {
			copy(t.accessorBuffer, t.startValues[:n])
		}
		t.accessor.SetValues(t.target, t.tweenType, t.accessorBuffer[:n])
		return
	}

	eased := t.easing(t.currentTime / t.duration)

	if t.waypointsCnt == 0 {
		for i := 0; i < n; i++ {
			t.accessorBuffer[i] = t.startValues[i] + eased*(t.targetValues[i]-t.startValues[i])
		}
	} else {
		limit := t.engine.combinedAttrsLimit
		for i := 0; i < n; i++ {
			t.pathBuffer[0] = t.startValues[i]
			for w := 0; w < t.waypointsCnt; w++ {
				t.pathBuffer[w+1] = t.waypoints[w*limit+i]
			}
			t.pathBuffer[t.waypointsCnt+1] = t.targetValues[i]
			t.accessorBuffer[i] = t.pathFn(eased, t.pathBuffer[:t.waypointsCnt+2])
		}
	}

	t.accessor.SetValues(t.target, t.tweenType, t.accessorBuffer[:n])
}

// pinValues writes the boundary values for a phase transition. The order
// argument only matters for composites; a leaf writes directly.
//
// RUN-entry pins are unconditional: the unit is physically at its start
// (forward) or target (reverse) when they fire. The termination pins carry
// the two exceptions: an auto-reversing unit with an odd repeat count ends
// back at its start, and an instant unit leaves a reverse pass resting at
// its target.
func (t *Tween) pinValues(forwardOrder bool, kind pinKind) {
	if t.target == nil || !t.isInitialized || t.isKilled {
		return
	}

	n := t.combinedAttrsCnt
	switch kind {
	case pinEnterForward:
		copy(t.accessorBuffer, t.startValues[:n])
	case pinEnterReverse:
		copy(t.accessorBuffer, t.targetValues[:n])
	case pinForwardEnd:
		if t.canAutoReverse && t.repeatCountOrig%2 != 0 {
			copy(t.accessorBuffer, t.startValues[:n])
		} else {
			copy(t.accessorBuffer, t.targetValues[:n])
		}
	case pinReverseEnd:
		if t.duration <= instantThreshold {
			// no running interval, so the slot keeps its target value
			copy(t.accessorBuffer, t.targetValues[:n])
		} else {
			copy(t.accessorBuffer, t.startValues[:n])
		}
	}
	t.accessor.SetValues(t.target, t.tweenType, t.accessorBuffer[:n])
}

func (t *Tween) adjustLinear(forward bool)      { t.adjustBase(forward) }
func (t *Tween) adjustAutoReverse(forward bool) { t.adjustBase(forward) }
func (t *Tween) resetForSeek()                  { t.resetForSeekBase() }
