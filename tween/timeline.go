// Copyright © 2025 Tweenline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tween/timeline.go
// Summary: Composite unit sequencing or parallelising child units.
// Usage: Obtain via Engine.CreateSequential/CreateParallel, push children, then Start.
// Notes: Children are exclusively owned; sequence offsets are folded into each child's
//        start delay at build time, so every child receives the parent's raw deltas and
//        tracks its own position.

package tween

import "fmt"

// TimelineMode selects how a timeline arranges its children in time.
type TimelineMode int

const (
	// Sequence - children play one after another, offset by the cumulative
	// full duration of their predecessors plus any pushed pauses.
	Sequence TimelineMode = iota
	// Parallel - children all start together; the timeline lasts as long as
	// its longest child or the sum of its pushed pauses, whichever is longer.
	Parallel
)

// timelineEntry is one build step: a child unit or a pause.
type timelineEntry struct {
	unit  Unit
	pause float32
}

// Timeline is a composite unit. Its own state machine runs exactly like a
// leaf's; during RUN it forwards deltas to every child, in array order when
// moving forward and in reverse order when moving backward. Residual deltas
// returned by children are dropped: the parent's own loop handles boundary
// crossings.
type Timeline struct {
	baseUnit

	mode     TimelineMode
	entries  []timelineEntry
	children []Unit // units from entries, fixed at build time

	isBuilt bool

	// stack of open Begin* groups during fluent construction
	buildStack []*Timeline
}

func newTimeline(e *Engine) *Timeline {
	tl := &Timeline{}
	tl.engine = e
	tl.self = tl
	tl.reset()
	return tl
}

func (tl *Timeline) reset() {
	tl.defaults()
	// children go back to their own pools with the parent
	for _, entry := range tl.entries {
		if entry.unit != nil {
			tl.engine.free(entry.unit)
		}
	}
	tl.entries = tl.entries[:0]
	tl.children = tl.children[:0]
	tl.mode = Sequence
	tl.isBuilt = false
	tl.buildStack = tl.buildStack[:0]
}

func (tl *Timeline) setup(mode TimelineMode) {
	tl.mode = mode
}

// Mode reports whether the timeline is a sequence or a parallel group.
func (tl *Timeline) Mode() TimelineMode { return tl.mode }

// Children returns the direct children in array order. Valid after Start.
func (tl *Timeline) Children() []Unit {
	out := make([]Unit, len(tl.children))
	copy(out, tl.children)
	return out
}

// current resolves the innermost open group during construction.
func (tl *Timeline) current() *Timeline {
	if n := len(tl.buildStack); n > 0 {
		return tl.buildStack[n-1]
	}
	return tl
}

// Push appends a child unit to the innermost open group.
func (tl *Timeline) Push(u Unit) *Timeline {
	if u == nil {
		panic(fmt.Errorf("tween: %w: nil child", ErrBadArgument))
	}
	if tl.isBuilt {
		panic(fmt.Errorf("tween: %w: Push after Start", ErrMisuseOrder))
	}
	cur := tl.current()
	cur.entries = append(cur.entries, timelineEntry{unit: u})
	return tl
}

// PushPause inserts dead time. In a sequence it delays every later child; in
// a parallel group it raises the minimum duration.
func (tl *Timeline) PushPause(seconds float32) *Timeline {
	if seconds < 0 {
		panic(fmt.Errorf("tween: %w: pause %f < 0", ErrBadArgument, seconds))
	}
	if tl.isBuilt {
		panic(fmt.Errorf("tween: %w: PushPause after Start", ErrMisuseOrder))
	}
	cur := tl.current()
	cur.entries = append(cur.entries, timelineEntry{pause: seconds})
	return tl
}

// BeginSequence opens a nested sequence group; subsequent Push calls land in
// it until the matching End.
func (tl *Timeline) BeginSequence() *Timeline {
	return tl.begin(Sequence)
}

// BeginParallel opens a nested parallel group.
func (tl *Timeline) BeginParallel() *Timeline {
	return tl.begin(Parallel)
}

func (tl *Timeline) begin(mode TimelineMode) *Timeline {
	if tl.isBuilt {
		panic(fmt.Errorf("tween: %w: Begin after Start", ErrMisuseOrder))
	}
	nested := tl.engine.takeTimeline()
	nested.setup(mode)
	cur := tl.current()
	cur.entries = append(cur.entries, timelineEntry{unit: nested})
	tl.buildStack = append(tl.buildStack, nested)
	return tl
}

// End closes the innermost open group.
func (tl *Timeline) End() *Timeline {
	if len(tl.buildStack) == 0 {
		panic(fmt.Errorf("tween: %w: End without matching Begin", ErrMisuseOrder))
	}
	tl.buildStack = tl.buildStack[:len(tl.buildStack)-1]
	return tl
}

// Delay postpones the first iteration by the given seconds.
func (tl *Timeline) Delay(seconds float32) *Timeline {
	tl.setDelay(seconds)
	return tl
}

// Repeat replays the timeline count more times (Infinity for endless).
func (tl *Timeline) Repeat(count int, delay float32) *Timeline {
	tl.setRepeat(count, delay, false)
	return tl
}

// RepeatAutoReverse is Repeat with alternating direction each iteration.
func (tl *Timeline) RepeatAutoReverse(count int, delay float32) *Timeline {
	tl.setRepeat(count, delay, true)
	return tl
}

// AddCallback subscribes fn to every event in mask.
func (tl *Timeline) AddCallback(mask Event, fn Callback) *Timeline {
	tl.addCallback(mask, fn)
	return tl
}

// SetUserData attaches an opaque host handle readable via UserData.
func (tl *Timeline) SetUserData(data interface{}) *Timeline {
	tl.userData = data
	return tl
}

// Start builds the timeline tree and positions every unit at its playback
// head. Managed timelines are started by Engine.Add instead.
func (tl *Timeline) Start() *Timeline {
	if len(tl.buildStack) != 0 {
		panic(fmt.Errorf("tween: %w: Start with %d unclosed Begin groups", ErrMisuseOrder, len(tl.buildStack)))
	}
	tl.build()
	tl.startPlayback()
	tl.stageChildren(false)
	return tl
}

// build computes this node's duration from its children and mode, folding
// sequence offsets into child start delays. Runs once.
func (tl *Timeline) build() {
	if tl.isBuilt {
		return
	}
	tl.isBuilt = true

	for _, entry := range tl.entries {
		if child, ok := entry.unit.(*Timeline); ok {
			child.build()
		}
		if entry.unit != nil {
			tl.children = append(tl.children, entry.unit)
		}
	}

	switch tl.mode {
	case Sequence:
		var offset float32
		for _, entry := range tl.entries {
			if entry.unit == nil {
				offset += entry.pause
				continue
			}
			fd := entry.unit.FullDuration()
			if fd < 0 {
				panic(fmt.Errorf("tween: %w: infinitely repeating child inside a sequence", ErrBadArgument))
			}
			entry.unit.base().startDelay += offset
			offset += fd
		}
		tl.duration = offset
	case Parallel:
		var longest, floor float32
		for _, entry := range tl.entries {
			if entry.unit == nil {
				floor += entry.pause
				continue
			}
			fd := entry.unit.FullDuration()
			if fd < 0 {
				panic(fmt.Errorf("tween: %w: infinitely repeating child inside a parallel group", ErrBadArgument))
			}
			if fd > longest {
				longest = fd
			}
		}
		if floor > longest {
			longest = floor
		}
		tl.duration = longest
	default:
		panic(fmt.Errorf("tween: %w: timeline mode %d", ErrInternal, tl.mode))
	}
}

// stageChildren positions every child for a fresh iteration (played=false) or
// a fully played one (played=true), recursing into nested timelines.
func (tl *Timeline) stageChildren(played bool) {
	for _, c := range tl.children {
		b := c.base()
		b.state = stateStart
		b.isInAutoReverse = false
		b.repeatCount = b.repeatCountOrig
		if played {
			b.currentTime = tl.duration - b.startDelay
		} else {
			b.currentTime = -b.startDelay
		}
		if child, ok := c.(*Timeline); ok {
			child.stageChildren(played)
		}
	}
}

// Kill stops the timeline and every descendant.
func (tl *Timeline) Kill() {
	tl.baseUnit.Kill()
	for _, entry := range tl.entries {
		if entry.unit != nil {
			entry.unit.Kill()
		}
	}
}

// ContainsTarget recurses into children.
func (tl *Timeline) ContainsTarget(target interface{}) bool {
	for _, entry := range tl.entries {
		if entry.unit != nil && entry.unit.ContainsTarget(target) {
			return true
		}
	}
	return false
}

// ContainsTargetType recurses into children.
func (tl *Timeline) ContainsTargetType(target interface{}, tweenType int) bool {
	for _, entry := range tl.entries {
		if entry.unit != nil && entry.unit.ContainsTargetType(target, tweenType) {
			return true
		}
	}
	return false
}

// initializeValues has nothing to do on a composite: children resolve their
// own values when time first reaches them.
func (tl *Timeline) initializeValues() {}

// runUpdate forwards the delta to the children. A child's residual is
// intentionally dropped, see the type comment.
func (tl *Timeline) runUpdate(forward bool, delta float32) {
	if tl.isKilled {
		return
	}
	if forward {
		for _, c := range tl.children {
			c.Update(delta)
		}
		return
	}
	for i := len(tl.children) - 1; i >= 0; i-- {
		tl.children[i].Update(delta)
	}
}

// pinValues recurses in the requested order so the pinning tie-break between
// children sharing a target slot matches the direction of travel.
func (tl *Timeline) pinValues(forwardOrder bool, kind pinKind) {
	if tl.isKilled {
		return
	}
	if forwardOrder {
		for _, c := range tl.children {
			c.pinValues(forwardOrder, kind)
		}
		return
	}
	for i := len(tl.children) - 1; i >= 0; i-- {
		tl.children[i].pinValues(forwardOrder, kind)
	}
}

// adjustLinear restages children for the next linear iteration: fresh when
// the timeline repeats forward, fully played when it repeats backward.
func (tl *Timeline) adjustLinear(forward bool) {
	tl.adjustBase(forward)
	tl.stageChildren(!forward)
}

// adjustAutoReverse flips direction in place: children keep their accumulated
// positions and simply receive the opposite-signed deltas.
func (tl *Timeline) adjustAutoReverse(forward bool) {
	tl.adjustBase(forward)
}

func (tl *Timeline) resetForSeek() {
	tl.resetForSeekBase()
	tl.stageChildren(false)
}
