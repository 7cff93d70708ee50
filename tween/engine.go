// Copyright © 2025 Tweenline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tween/engine.go
// Summary: Engine owning the unit pools, accessor registry and active list.
// Usage: Build once via NewEngineBuilder, create units through the factories, drive with Update.
// Notes: Single-threaded cooperative updates; cross-thread handoff is visibility-only through
//        the fence, never mutual exclusion.

package tween

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"
)

// EngineBuilder configures an Engine before any unit exists.
type EngineBuilder struct {
	combinedAttrsLimit int
	waypointsLimit     int
	registrations      []func(*Engine)
	autoRemove         bool
	autoStart          bool
}

// NewEngineBuilder returns a builder with the stock limits: three combined
// attributes, no waypoints, auto-remove and auto-start enabled.
func NewEngineBuilder() *EngineBuilder {
	return &EngineBuilder{
		combinedAttrsLimit: 3,
		waypointsLimit:     0,
		autoRemove:         true,
		autoStart:          true,
	}
}

// SetCombinedAttributesLimit caps how many float slots one tween may drive.
func (b *EngineBuilder) SetCombinedAttributesLimit(n int) *EngineBuilder {
	if n < 1 {
		panic(fmt.Errorf("tween: %w: combined attributes limit %d < 1", ErrBadArgument, n))
	}
	b.combinedAttrsLimit = n
	return b
}

// SetWaypointsLimit caps how many waypoint rows one tween may carry.
func (b *EngineBuilder) SetWaypointsLimit(n int) *EngineBuilder {
	if n < 0 {
		panic(fmt.Errorf("tween: %w: waypoints limit %d < 0", ErrBadArgument, n))
	}
	b.waypointsLimit = n
	return b
}

// SetAutoRemove controls whether finished roots are evicted and pooled.
func (b *EngineBuilder) SetAutoRemove(enabled bool) *EngineBuilder {
	b.autoRemove = enabled
	return b
}

// SetAutoStart controls whether Engine.Add also starts the unit.
func (b *EngineBuilder) SetAutoStart(enabled bool) *EngineBuilder {
	b.autoStart = enabled
	return b
}

// RegisterAccessor associates an accessor with the prototype's concrete type.
func (b *EngineBuilder) RegisterAccessor(prototype interface{}, accessor Accessor) *EngineBuilder {
	b.registrations = append(b.registrations, func(e *Engine) {
		e.accessors.register(prototype, accessor)
	})
	return b
}

// Build creates the engine.
func (b *EngineBuilder) Build() *Engine {
	e := &Engine{
		combinedAttrsLimit: b.combinedAttrsLimit,
		waypointsLimit:     b.waypointsLimit,
		accessors:          newAccessorRegistry(),
		autoRemove:         b.autoRemove,
		autoStart:          b.autoStart,
	}
	e.tweens = newUnitPool(func() Unit { e.unitMade = true; return newTween(e) })
	e.timelines = newUnitPool(func() Unit { e.unitMade = true; return newTimeline(e) })
	for _, reg := range b.registrations {
		reg(e)
	}
	return e
}

// Engine drives a set of root units, owns the per-kind pools and resolves
// accessors for tween targets.
type Engine struct {
	combinedAttrsLimit int
	waypointsLimit     int
	unitMade           bool

	accessors *accessorRegistry

	units      []Unit
	unitsCache []Unit
	cacheDirty bool

	tweens    *unitPool
	timelines *unitPool

	lastUpdate time.Time
	isPaused   bool
	isUpdating bool
	autoRemove bool
	autoStart  bool
	frameStart func(*Engine)
	frameEnd   func(*Engine)

	// fence is the flush-write/flush-read publication barrier: stored on exit
	// from Add, UpdateDelta, Pause, Resume, ResetUpdateTime and the cancel
	// calls, loaded on entry to those and to the queries. Factories, limit
	// setters and accessor registration do not use it. Visibility only.
	fence atomic.Int64
}

func (e *Engine) flushRead()  { _ = e.fence.Load() }
func (e *Engine) flushWrite() { e.fence.Add(1) }

// SetCombinedAttributesLimit changes the slot cap. Legal only before the
// first unit exists.
func (e *Engine) SetCombinedAttributesLimit(n int) {
	if e.unitMade {
		panic(fmt.Errorf("tween: %w: limits are frozen once a unit exists", ErrMisuseOrder))
	}
	if n < 1 {
		panic(fmt.Errorf("tween: %w: combined attributes limit %d < 1", ErrBadArgument, n))
	}
	e.combinedAttrsLimit = n
}

// SetWaypointsLimit changes the waypoint cap. Legal only before the first
// unit exists.
func (e *Engine) SetWaypointsLimit(n int) {
	if e.unitMade {
		panic(fmt.Errorf("tween: %w: limits are frozen once a unit exists", ErrMisuseOrder))
	}
	if n < 0 {
		panic(fmt.Errorf("tween: %w: waypoints limit %d < 0", ErrBadArgument, n))
	}
	e.waypointsLimit = n
}

// CombinedAttributesLimit reports the engine-wide slot cap.
func (e *Engine) CombinedAttributesLimit() int { return e.combinedAttrsLimit }

// WaypointsLimit reports the engine-wide waypoint cap.
func (e *Engine) WaypointsLimit() int { return e.waypointsLimit }

// RegisterAccessor associates an accessor with the prototype's concrete type.
func (e *Engine) RegisterAccessor(prototype interface{}, accessor Accessor) {
	e.accessors.register(prototype, accessor)
}

// RegisterAccessorParent declares that targets of the child prototype's type
// fall back to the parent prototype's accessor when they have none of their
// own.
func (e *Engine) RegisterAccessorParent(child, parent interface{}) {
	e.accessors.registerParent(child, parent)
}

// OnFrameStart registers a callback fired before each frame's iteration.
func (e *Engine) OnFrameStart(fn func(*Engine)) { e.frameStart = fn }

// OnFrameEnd registers a callback fired after each frame's housekeeping.
func (e *Engine) OnFrameEnd(fn func(*Engine)) { e.frameEnd = fn }

// factories

func (e *Engine) takeTween() *Tween {
	return e.tweens.take().(*Tween)
}

func (e *Engine) takeTimeline() *Timeline {
	return e.timelines.take().(*Timeline)
}

// To interpolates the target's current values toward explicit targets over
// the duration.
func (e *Engine) To(target interface{}, tweenType int, duration float32) *Tween {
	t := e.takeTween()
	t.setup(target, tweenType, duration, false)
	return t
}

// From interpolates from explicit values back to the target's current ones.
func (e *Engine) From(target interface{}, tweenType int, duration float32) *Tween {
	t := e.takeTween()
	t.setup(target, tweenType, duration, true)
	return t
}

// Set snaps the target to the given values once any delay elapses.
func (e *Engine) Set(target interface{}, tweenType int) *Tween {
	t := e.takeTween()
	t.setup(target, tweenType, 0, false)
	return t
}

// Call fires fn at the tween's START trigger; useful as a timer inside
// timelines.
func (e *Engine) Call(fn Callback) *Tween {
	if fn == nil {
		panic(fmt.Errorf("tween: %w: nil callback", ErrBadArgument))
	}
	t := e.takeTween()
	t.setup(nil, -1, 0, false)
	t.AddCallback(EventStart, fn)
	return t
}

// Mark creates an empty marker unit, a beacon for timeline positions.
func (e *Engine) Mark() *Tween {
	t := e.takeTween()
	t.setup(nil, -1, 0, false)
	return t
}

// CreateSequential returns a timeline playing its children one after another.
func (e *Engine) CreateSequential() *Timeline {
	tl := e.takeTimeline()
	tl.setup(Sequence)
	return tl
}

// CreateParallel returns a timeline playing its children together.
func (e *Engine) CreateParallel() *Timeline {
	tl := e.takeTimeline()
	tl.setup(Parallel)
	return tl
}

// Add attaches a root unit to the active list, starting it when auto-start is
// enabled.
func (e *Engine) Add(u Unit) {
	e.flushRead()
	defer e.flushWrite()
	if e.autoStart {
		switch v := u.(type) {
		case *Tween:
			v.Start()
		case *Timeline:
			v.Start()
		}
	}
	e.units = append(e.units, u)
	e.cacheDirty = true
}

// Update drives every root by the wall-clock time elapsed since the previous
// call.
func (e *Engine) Update() {
	now := time.Now()
	if e.lastUpdate.IsZero() {
		e.lastUpdate = now
	}
	delta := float32(now.Sub(e.lastUpdate).Seconds())
	e.lastUpdate = now
	e.UpdateDelta(delta)
}

// UpdateNanos drives every root by the given nanoseconds.
func (e *Engine) UpdateNanos(deltaNanos int64) {
	e.UpdateDelta(float32(deltaNanos) / float32(time.Second))
}

// UpdateDelta drives every root by the given seconds, then evicts finished
// and killed roots.
func (e *Engine) UpdateDelta(deltaSeconds float32) {
	e.flushRead()
	defer e.flushWrite()

	if e.isPaused {
		return
	}
	if e.frameStart != nil {
		e.frameStart(e)
	}

	e.isUpdating = true
	for _, u := range e.snapshot() {
		u.Update(deltaSeconds)
	}
	e.isUpdating = false

	e.housekeep()

	if e.frameEnd != nil {
		e.frameEnd(e)
	}
}

// snapshot returns the cached iteration array, rebuilding it when the active
// list changed.
func (e *Engine) snapshot() []Unit {
	if e.cacheDirty {
		e.unitsCache = append(e.unitsCache[:0], e.units...)
		e.cacheDirty = false
	}
	return e.unitsCache
}

// housekeep evicts killed roots and, when auto-remove is on, pins finished
// roots to their end values and returns them to the pools.
func (e *Engine) housekeep() {
	kept := e.units[:0]
	for _, u := range e.units {
		b := u.base()
		switch {
		case b.isKilled:
			e.free(u)
		case e.autoRemove && b.state == stateFinished:
			u.pinValues(true, pinForwardEnd)
			e.free(u)
		default:
			kept = append(kept, u)
		}
	}
	if len(kept) != len(e.units) {
		e.cacheDirty = true
	}
	for i := len(kept); i < len(e.units); i++ {
		e.units[i] = nil
	}
	e.units = kept
}

// free returns a unit to its kind's pool.
func (e *Engine) free(u Unit) {
	switch u.(type) {
	case *Tween:
		e.tweens.put(u)
	case *Timeline:
		e.timelines.put(u)
	default:
		log.Printf("Engine: cannot pool unknown unit kind %T", u)
	}
}

// ResetUpdateTime clears the wall-clock bias so a long stall in the frame
// driver does not snap every animation forward.
func (e *Engine) ResetUpdateTime() {
	e.flushRead()
	defer e.flushWrite()
	e.lastUpdate = time.Now()
}

// Pause suspends all updates until Resume. Idempotent.
func (e *Engine) Pause() {
	e.flushRead()
	defer e.flushWrite()
	e.isPaused = true
}

// Resume lifts a Pause. Idempotent.
func (e *Engine) Resume() {
	e.flushRead()
	defer e.flushWrite()
	e.isPaused = false
}

// IsPaused reports the global pause flag.
func (e *Engine) IsPaused() bool {
	e.flushRead()
	return e.isPaused
}

// CancelAll kills every root. Physical eviction happens immediately unless an
// update is in flight, in which case the update's housekeeping handles it.
func (e *Engine) CancelAll() {
	e.flushRead()
	defer e.flushWrite()
	for _, u := range e.units {
		u.Kill()
	}
	if !e.isUpdating {
		e.housekeep()
	}
}

// CancelTarget kills every root driving the given target, in any channel.
// Reports whether anything was killed.
func (e *Engine) CancelTarget(target interface{}) bool {
	e.flushRead()
	defer e.flushWrite()
	killed := false
	for _, u := range e.units {
		if u.ContainsTarget(target) {
			u.Kill()
			killed = true
		}
	}
	if killed && !e.isUpdating {
		e.housekeep()
	}
	return killed
}

// CancelTargetType kills every root driving the given target channel.
func (e *Engine) CancelTargetType(target interface{}, tweenType int) bool {
	e.flushRead()
	defer e.flushWrite()
	killed := false
	for _, u := range e.units {
		if u.ContainsTargetType(target, tweenType) {
			u.Kill()
			killed = true
		}
	}
	if killed && !e.isUpdating {
		e.housekeep()
	}
	return killed
}

// Size is the number of active roots.
func (e *Engine) Size() int {
	e.flushRead()
	return len(e.units)
}

// RunningTweensCount counts active leaf roots.
func (e *Engine) RunningTweensCount() int {
	e.flushRead()
	n := 0
	for _, u := range e.units {
		if _, ok := u.(*Tween); ok {
			n++
		}
	}
	return n
}

// RunningTimelinesCount counts active composite roots.
func (e *Engine) RunningTimelinesCount() int {
	e.flushRead()
	n := 0
	for _, u := range e.units {
		if _, ok := u.(*Timeline); ok {
			n++
		}
	}
	return n
}

// Objects returns a copy of the active roots.
func (e *Engine) Objects() []Unit {
	e.flushRead()
	out := make([]Unit, len(e.units))
	copy(out, e.units)
	return out
}
