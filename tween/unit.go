// Copyright © 2025 Tweenline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tween/unit.go
// Summary: Shared playback state machine driving every Tween and Timeline.
// Usage: Embedded by the concrete unit kinds; hosts interact through the Unit interface.
// Notes: Update consumes arbitrary positive or negative deltas, crossing any number of
//        phase and iteration boundaries in one call and returning the unconsumed remainder.

package tween

import (
	"fmt"
	"math"
)

// state of a unit inside its current iteration.
type unitState int

const (
	stateInvalid unitState = iota
	stateStart
	stateRun
	stateFinished
)

// Infinity is the repeat count sentinel for endless repetition.
const Infinity = -1

// instantThreshold separates "instant" units, which have no running interval,
// from ordinary ones. Reverse exit of an instant tween rests at its target.
const instantThreshold = 1e-6

// pinKind selects which boundary values a phase transition writes.
type pinKind int

const (
	pinEnterForward pinKind = iota // entering forward RUN: start values
	pinEnterReverse                // entering reverse RUN: target values
	pinForwardEnd                  // forward termination: nominal resting value
	pinReverseEnd                  // reverse termination: start, except instant units
)

// Unit is a playback entity: a Tween leaf or a Timeline composite.
type Unit interface {
	// Update advances local time by delta seconds and returns the unconsumed
	// remainder, non-zero only when the unit fully terminated mid-update. A
	// paused or killed unit consumes nothing and returns delta unchanged.
	Update(delta float32) float32
	// SetProgress repositions the unit at the given fraction of one iteration.
	// Event callbacks fire during the internal jump.
	SetProgress(percentage float32, forward bool)

	Kill()
	Pause()
	Resume()
	Free()

	IsInitialized() bool
	IsStarted() bool
	IsFinished() bool
	IsPaused() bool
	IsKilled() bool
	IsAutoReverse() bool
	CurrentTime() float32
	Duration() float32
	StartDelay() float32
	RepeatCount() int
	FullDuration() float32
	UserData() interface{}

	ContainsTarget(target interface{}) bool
	ContainsTargetType(target interface{}, tweenType int) bool

	// subclass hooks, closed to this package
	base() *baseUnit
	initializeValues()
	runUpdate(forward bool, delta float32)
	pinValues(forwardOrder bool, kind pinKind)
	adjustLinear(forward bool)
	adjustAutoReverse(forward bool)
	resetForSeek()
	reset()
}

// baseUnit carries the state machine fields shared by Tween and Timeline.
type baseUnit struct {
	self Unit // concrete unit, set once at pool construction

	state       unitState
	forward     bool // direction of the current update
	currentTime float32
	duration    float32
	startDelay  float32
	repeatDelay float32

	repeatCountOrig int
	repeatCount     int
	canAutoReverse  bool
	isInAutoReverse bool

	isPaused             bool
	isKilled             bool
	isStarted            bool
	isInitialized        bool
	canTriggerBeginEvent bool
	isDuringUpdate       bool

	userData interface{}

	callbacks     []callbackEntry
	onUpdateStart UpdateCallback
	onUpdateEnd   UpdateCallback

	engine *Engine
}

func (u *baseUnit) base() *baseUnit { return u }

// defaults restores the zero configuration used by pools.
func (u *baseUnit) defaults() {
	u.state = stateStart
	u.forward = true
	u.currentTime = 0
	u.duration = 0
	u.startDelay = 0
	u.repeatDelay = 0
	u.repeatCountOrig = 0
	u.repeatCount = 0
	u.canAutoReverse = false
	u.isInAutoReverse = false
	u.isPaused = false
	u.isKilled = false
	u.isStarted = false
	u.isInitialized = false
	u.canTriggerBeginEvent = true
	u.isDuringUpdate = false
	u.userData = nil
	u.callbacks = u.callbacks[:0]
	u.onUpdateStart = nil
	u.onUpdateEnd = nil
}

// startPlayback positions the unit at the head of its first iteration.
func (u *baseUnit) startPlayback() {
	u.isStarted = true
	u.state = stateStart
	u.currentTime = -u.startDelay
	u.forward = true
	u.isPaused = false
	u.isKilled = false
	u.isInAutoReverse = false
	u.repeatCount = u.repeatCountOrig
	u.canTriggerBeginEvent = true
}

// setDelay, setRepeat and friends back the fluent wrappers on the concrete
// unit kinds.

func (u *baseUnit) setDelay(seconds float32) {
	if seconds < 0 {
		panic(fmt.Errorf("tween: %w: start delay %f < 0", ErrBadArgument, seconds))
	}
	u.startDelay = seconds
}

func (u *baseUnit) setRepeat(count int, delay float32, autoReverse bool) {
	if count < Infinity {
		panic(fmt.Errorf("tween: %w: repeat count %d < -1", ErrBadArgument, count))
	}
	if delay < 0 {
		panic(fmt.Errorf("tween: %w: repeat delay %f < 0", ErrBadArgument, delay))
	}
	u.repeatCountOrig = count
	u.repeatCount = count
	u.repeatDelay = delay
	u.canAutoReverse = autoReverse
}

func (u *baseUnit) addCallback(mask Event, fn Callback) {
	if fn == nil {
		panic(fmt.Errorf("tween: %w: nil callback", ErrBadArgument))
	}
	u.callbacks = append(u.callbacks, callbackEntry{mask: mask, fn: fn})
}

// Kill stops the unit permanently. Idempotent; the engine evicts killed units
// on its next housekeeping pass.
func (u *baseUnit) Kill() {
	u.isKilled = true
}

// Pause suspends time consumption. Idempotent.
func (u *baseUnit) Pause() { u.isPaused = true }

// Resume lifts a pause. Idempotent.
func (u *baseUnit) Resume() { u.isPaused = false }

// Free returns the unit to its engine pool. The unit must not be used after.
func (u *baseUnit) Free() {
	if u.engine != nil {
		u.engine.free(u.self)
	}
}

func (u *baseUnit) IsInitialized() bool { return u.isInitialized }
func (u *baseUnit) IsStarted() bool { return u.isStarted }
func (u *baseUnit) IsPaused() bool { return u.isPaused }
func (u *baseUnit) IsKilled() bool { return u.isKilled }
func (u *baseUnit) IsAutoReverse() bool { return u.canAutoReverse }

// IsFinished reports whether the unit has terminated or been killed.
func (u *baseUnit) IsFinished() bool {
	return u.state == stateFinished || u.isKilled
}

func (u *baseUnit) CurrentTime() float32 { return u.currentTime }
func (u *baseUnit) Duration() float32 { return u.duration }
func (u *baseUnit) StartDelay() float32 { return u.startDelay }
func (u *baseUnit) RepeatCount() int { return u.repeatCountOrig }

// FullDuration is the total playback span including delays and repeats, or
// -1 for an infinitely repeating unit.
func (u *baseUnit) FullDuration() float32 {
	if u.repeatCountOrig < 0 {
		return -1
	}
	return u.startDelay + u.duration + (u.repeatDelay+u.duration)*float32(u.repeatCountOrig)
}

func (u *baseUnit) UserData() interface{} { return u.userData }

// OnUpdateStart registers a callback fired at the head of every Update call.
func (u *baseUnit) OnUpdateStart(fn UpdateCallback) { u.onUpdateStart = fn }

// OnUpdateEnd registers a callback fired when every Update call returns.
func (u *baseUnit) OnUpdateEnd(fn UpdateCallback) { u.onUpdateEnd = fn }

// adjustBase repositions for a new iteration: forward iterations restart at 0,
// reverse iterations restart at the duration.
func (u *baseUnit) adjustBase(forward bool) {
	u.state = stateStart
	if forward {
		u.currentTime = 0
	} else {
		u.currentTime = u.duration
	}
}

// resetForSeekBase rewinds the playback fields for SetProgress.
func (u *baseUnit) resetForSeekBase() {
	u.state = stateStart
	u.forward = true
	u.currentTime = -u.startDelay
	u.isInAutoReverse = false
	u.repeatCount = u.repeatCountOrig
}

// SetProgress rewinds the unit and jumps to the given fraction of one
// iteration. With forward=false on an auto-reversing unit the jump lands
// inside the first reversed iteration, so following positive deltas move the
// value back toward its start.
func (u *baseUnit) SetProgress(percentage float32, forward bool) {
	if percentage < 0 || percentage > 1 {
		panic(fmt.Errorf("tween: %w: progress %f outside [0,1]", ErrBadArgument, percentage))
	}
	u.self.resetForSeek()

	var adjustment float32
	if !forward && u.canAutoReverse {
		adjustment = u.startDelay + u.duration + u.repeatDelay + (u.duration - percentage*u.duration)
	} else {
		adjustment = u.startDelay + percentage*u.duration
	}
	u.Update(adjustment)
}

// Update advances the unit by delta seconds. See the Unit interface for the
// residual contract.
//
// The loop dispatches on (direction, state) and keeps consuming until a
// non-continue branch returns, so a single large delta can cross the start
// delay, several repeat boundaries and the final termination in one call,
// firing every intermediate callback exactly once.
func (u *baseUnit) Update(delta float32) float32 {
	if u.isPaused || u.isKilled {
		return delta
	}

	// A caller always feeds "positive-looking" time; while an auto-reversed
	// iteration plays, that time runs backwards locally.
	if u.isInAutoReverse {
		delta = -delta
	}

	// +0.0 counts as forward, -0.0 as reverse. SetProgress(_, reverse)
	// followed by Update(0) relies on this.
	u.forward = !math.Signbit(float64(delta))

	u.isDuringUpdate = true
	if u.onUpdateStart != nil {
		u.onUpdateStart(u.self)
	}
	defer func() {
		u.isDuringUpdate = false
		if u.onUpdateEnd != nil {
			u.onUpdateEnd(u.self)
		}
	}()

	for {
		newTime := u.currentTime + delta

		if u.forward {
			switch u.state {
			case stateStart:
				if newTime <= 0 {
					// still inside the start delay
					u.currentTime = newTime
					return 0
				}
				u.currentTime = 0
				if u.canTriggerBeginEvent {
					u.canTriggerBeginEvent = false
					if !u.isInitialized {
						u.isInitialized = true
						u.self.initializeValues()
					}
					u.fireEvents(EventBegin)
				}
				u.fireEvents(EventStart)
				// reversed order so the first-registered tween wins ties on
				// shared targets
				u.self.pinValues(false, pinEnterForward)
				u.state = stateRun
				delta = newTime
				continue

			case stateRun:
				if newTime <= u.duration {
					u.currentTime = newTime
					u.self.runUpdate(true, delta)
					return 0
				}

				// the iteration is over; feed the in-range remainder before
				// pinning so composite children observe it
				inRange := u.duration - u.currentTime
				u.currentTime = u.duration
				u.state = stateFinished
				delta = newTime - u.duration

				if u.repeatCount == 0 {
					u.self.runUpdate(true, delta+inRange)
					u.self.pinValues(false, pinForwardEnd)
					u.fireEvents(EventEnd)
					u.fireEvents(EventComplete)
					u.repeatCount = u.repeatCountOrig
					u.isInAutoReverse = false
					u.canTriggerBeginEvent = true
					return delta
				}

				if u.canAutoReverse {
					u.self.runUpdate(true, inRange)
					if u.repeatCount > 0 {
						u.repeatCount--
					}
					u.fireEvents(EventEnd)
					u.fireEvents(EventComplete)
					u.isInAutoReverse = !u.isInAutoReverse
					u.forward = false
					u.self.adjustAutoReverse(false)
					u.currentTime += u.repeatDelay
					delta = -delta
					continue
				}

				// linear repeat
				u.self.runUpdate(true, delta+inRange)
				if u.repeatCount > 0 {
					u.repeatCount--
				}
				u.fireEvents(EventEnd)
				u.self.adjustLinear(true)
				u.currentTime = -u.repeatDelay + delta
				delta = 0
				continue

			case stateFinished:
				if newTime > 0 && newTime <= u.duration {
					// scrubbed back inside the active range
					u.state = stateStart
					continue
				}
				u.currentTime = newTime
				return 0

			default:
				panic(fmt.Errorf("tween: %w: state %d in forward update", ErrInternal, u.state))
			}
		}

		// reverse direction
		switch u.state {
		case stateStart:
			if newTime >= u.duration {
				// still inside the (repeat) delay above the duration
				u.currentTime = newTime
				return 0
			}
			u.currentTime = u.duration
			if u.canTriggerBeginEvent {
				u.canTriggerBeginEvent = false
				if !u.isInitialized {
					u.isInitialized = true
					u.self.initializeValues()
				}
				u.fireEvents(EventBackBegin)
			}
			u.fireEvents(EventBackStart)
			// forward order so the last-registered tween wins ties
			u.self.pinValues(true, pinEnterReverse)
			u.state = stateRun
			delta = newTime - u.duration
			continue

		case stateRun:
			if newTime >= 0 {
				u.currentTime = newTime
				u.self.runUpdate(false, delta)
				return 0
			}

			inRange := -u.currentTime
			u.currentTime = 0
			u.state = stateFinished
			delta = newTime

			if u.repeatCount == 0 {
				u.self.runUpdate(false, delta+inRange)
				u.self.pinValues(true, pinReverseEnd)
				u.fireEvents(EventBackEnd)
				u.fireEvents(EventBackComplete)
				u.repeatCount = u.repeatCountOrig
				u.isInAutoReverse = false
				u.canTriggerBeginEvent = true
				return delta
			}

			if u.canAutoReverse {
				u.self.runUpdate(false, inRange)
				if u.repeatCount > 0 {
					u.repeatCount--
				}
				u.fireEvents(EventBackEnd)
				u.fireEvents(EventBackComplete)
				u.isInAutoReverse = !u.isInAutoReverse
				u.forward = true
				u.self.adjustAutoReverse(true)
				u.currentTime -= u.repeatDelay
				delta = -delta
				continue
			}

			// linear repeat; fires the forward END event, not BACK_END
			u.self.runUpdate(false, delta+inRange)
			if u.repeatCount > 0 {
				u.repeatCount--
			}
			u.fireEvents(EventEnd)
			u.self.adjustLinear(false)
			u.currentTime = u.duration + u.repeatDelay + delta
			delta = 0
			continue

		case stateFinished:
			if newTime >= 0 && newTime < u.duration {
				u.state = stateStart
				continue
			}
			u.currentTime = newTime
			return 0

		default:
			panic(fmt.Errorf("tween: %w: state %d in reverse update", ErrInternal, u.state))
		}
	}
}
