// Copyright © 2025 Tweenline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tween/engine_test.go
// Summary: Engine lifecycle: pooling, auto-remove, cancellation, accessor resolution.

package tween

import (
	"testing"

	"github.com/framegrace/tweenline/ease"
)

func TestEngineDrivesAndAutoRemoves(t *testing.T) {
	e := newTestEngine()
	p := &point{}

	tw := e.To(p, pointXY, 1.0).Target(1, 0).Ease(ease.Linear)
	e.Add(tw)

	if e.Size() != 1 || e.RunningTweensCount() != 1 {
		t.Fatalf("Size=%d RunningTweens=%d, want 1/1", e.Size(), e.RunningTweensCount())
	}

	e.UpdateDelta(0.5)
	wantNear(t, p.x, 0.5, "driven halfway")

	e.UpdateDelta(0.75)
	wantNear(t, p.x, 1, "pinned to target on auto-remove")
	if e.Size() != 0 {
		t.Fatalf("Size=%d after auto-remove, want 0", e.Size())
	}
}

func TestPoolConservation(t *testing.T) {
	e := newTestEngine()
	p := &point{}

	if e.tweens.size() != 0 {
		t.Fatalf("fresh pool size %d, want 0", e.tweens.size())
	}

	first := e.To(p, pointXY, 1.0).Target(1, 0)
	e.Add(first)
	e.UpdateDelta(2.0) // completes and auto-removes

	if e.tweens.size() != 1 {
		t.Fatalf("pool size %d after auto-remove, want 1", e.tweens.size())
	}

	second := e.To(p, pointXY, 1.0)
	if first != second {
		t.Fatal("pool did not hand back the recycled tween")
	}
	if e.tweens.size() != 0 {
		t.Fatalf("pool size %d after reuse, want 0", e.tweens.size())
	}
	if second.Duration() != 1.0 || second.IsInitialized() {
		t.Fatal("recycled tween was not reset")
	}

	second.Target(1, 0)
	e.Add(second)
	e.CancelAll()
	if e.Size() != 0 || e.tweens.size() != 1 {
		t.Fatalf("Size=%d pool=%d after CancelAll, want 0/1", e.Size(), e.tweens.size())
	}
}

func TestTimelineFreeReturnsChildrenToPool(t *testing.T) {
	e := newTestEngine()
	p := &point{}

	tl := e.CreateSequential().
		Push(e.To(p, pointXY, 1.0).Target(1, 0)).
		Push(e.To(p, pointXY, 1.0).Target(0, 0))
	e.Add(tl)
	e.UpdateDelta(3.0) // finishes, auto-removes, frees recursively

	if e.timelines.size() != 1 {
		t.Fatalf("timeline pool size %d, want 1", e.timelines.size())
	}
	if e.tweens.size() != 2 {
		t.Fatalf("tween pool size %d, want 2", e.tweens.size())
	}
}

func TestCancelTarget(t *testing.T) {
	e := newTestEngine()
	p1 := &point{}
	p2 := &point{}

	e.Add(e.To(p1, pointXY, 1.0).Target(1, 0))
	e.Add(e.To(p2, pointXY, 1.0).Target(1, 0))

	if !e.CancelTarget(p1) {
		t.Fatal("CancelTarget found nothing")
	}
	if e.CancelTarget(&point{}) {
		t.Fatal("CancelTarget matched a foreign target")
	}
	if e.Size() != 1 {
		t.Fatalf("Size=%d after cancel, want 1", e.Size())
	}

	e.UpdateDelta(0.5)
	wantNear(t, p1.x, 0, "cancelled tween never wrote")
	wantNear(t, p2.x, 0.5, "surviving tween ran")
}

func TestCancelTargetType(t *testing.T) {
	e := newTestEngine()
	p := &point{}

	e.Add(e.To(p, pointXY, 1.0).Target(1, 0))
	e.Add(e.To(p, 2, 1.0).Target(1, 0))

	if !e.CancelTargetType(p, 2) {
		t.Fatal("CancelTargetType found nothing")
	}
	if e.Size() != 1 {
		t.Fatalf("Size=%d, want 1", e.Size())
	}
}

func TestEnginePause(t *testing.T) {
	e := newTestEngine()
	p := &point{}
	e.Add(e.To(p, pointXY, 1.0).Target(1, 0).Ease(ease.Linear))

	e.Pause()
	e.UpdateDelta(0.5)
	wantNear(t, p.x, 0, "paused engine does not drive")

	e.Resume()
	e.UpdateDelta(0.5)
	wantNear(t, p.x, 0.5, "resumed engine drives")
}

func TestFrameCallbacksWrapIteration(t *testing.T) {
	e := newTestEngine()
	p := &point{}
	log := &eventLog{}

	e.OnFrameStart(func(*Engine) { log.entries = append(log.entries, "frame-start") })
	e.OnFrameEnd(func(*Engine) { log.entries = append(log.entries, "frame-end") })

	e.Add(e.To(p, pointXY, 1.0).Target(1, 0).AddCallback(EventAny, log.record("")))
	e.UpdateDelta(0.5)
	wantEvents(t, log, "frame-start,BEGIN,START,frame-end")
}

func TestUpdateNanos(t *testing.T) {
	e := newTestEngine()
	p := &point{}
	e.Add(e.To(p, pointXY, 1.0).Target(1, 0).Ease(ease.Linear))

	e.UpdateNanos(500_000_000)
	wantNear(t, p.x, 0.5, "half a second of nanos")
}

func TestLimitsFreezeOnceUnitExists(t *testing.T) {
	e := NewEngineBuilder().Build()
	e.SetCombinedAttributesLimit(4)
	e.SetWaypointsLimit(2)

	_ = e.Mark()
	wantPanicKind(t, ErrMisuseOrder, func() { e.SetCombinedAttributesLimit(5) })
	wantPanicKind(t, ErrMisuseOrder, func() { e.SetWaypointsLimit(3) })
}

// dot is its own accessor.
type dot struct {
	v float32
}

func (d *dot) GetValues(tweenType int, out []float32) int {
	out[0] = d.v
	return 1
}

func (d *dot) SetValues(tweenType int, in []float32) {
	d.v = in[0]
}

func TestAccessibleTargetNeedsNoRegistration(t *testing.T) {
	e := newTestEngine()
	d := &dot{}

	e.To(d, 1, 1.0).Target(4).Ease(ease.Linear).Start().Update(0.5)
	wantNear(t, d.v, 2, "self-accessing target driven")
}

type shape struct {
	size float32
}

type circle struct {
	shape
}

type shapeAccessor struct{}

func (shapeAccessor) GetValues(target interface{}, tweenType int, out []float32) int {
	out[0] = target.(*circle).size
	return 1
}

func (shapeAccessor) SetValues(target interface{}, tweenType int, in []float32) {
	target.(*circle).size = in[0]
}

func TestAccessorParentChain(t *testing.T) {
	e := NewEngineBuilder().
		RegisterAccessor(&shape{}, shapeAccessor{}).
		Build()
	e.RegisterAccessorParent(&circle{}, &shape{})

	c := &circle{}
	e.To(c, 1, 1.0).Target(10).Ease(ease.Linear).Start().Update(0.5)
	wantNear(t, c.size, 5, "resolved through the parent chain")
}

func TestCastForcesLookupType(t *testing.T) {
	e := NewEngineBuilder().
		RegisterAccessor(&shape{}, shapeAccessor{}).
		Build()

	c := &circle{}
	e.To(c, 1, 1.0).Target(10).Ease(ease.Linear).Cast(&shape{}).Start().Update(0.5)
	wantNear(t, c.size, 5, "resolved under the cast type")
}

func TestObjectsReturnsACopy(t *testing.T) {
	e := newTestEngine()
	p := &point{}
	e.Add(e.To(p, pointXY, 1.0).Target(1, 0))
	e.Add(e.CreateSequential().Push(e.To(p, pointXY, 1.0).Target(1, 0)))

	objs := e.Objects()
	if len(objs) != 2 {
		t.Fatalf("Objects len %d, want 2", len(objs))
	}
	objs[0] = nil
	if e.Objects()[0] == nil {
		t.Fatal("Objects exposed internal storage")
	}
	if e.RunningTimelinesCount() != 1 {
		t.Fatalf("RunningTimelinesCount %d, want 1", e.RunningTimelinesCount())
	}
}

func TestCancelDuringUpdateDefersEviction(t *testing.T) {
	e := newTestEngine()
	p := &point{}

	tw := e.To(p, pointXY, 2.0).Target(1, 0).
		AddCallback(EventStart, func(Event, Unit) {
			// re-entrant cancellation from a callback must not disturb the
			// iteration in flight
			e.CancelAll()
		})
	e.Add(tw)

	e.UpdateDelta(0.5)
	if e.Size() != 0 {
		t.Fatalf("Size=%d after deferred eviction, want 0", e.Size())
	}
	if e.tweens.size() != 1 {
		t.Fatalf("pool size %d, want 1", e.tweens.size())
	}
}
