// Copyright © 2025 Tweenline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ease/ease_test.go
// Summary: Endpoint and shape checks for the easing library.

package ease

import (
	"math"
	"testing"
)

func TestStandardCurvesHitEndpoints(t *testing.T) {
	for _, name := range Named() {
		fn, ok := Lookup(name)
		if !ok {
			t.Fatalf("registered name %q did not resolve", name)
		}
		if got := fn(0); math.Abs(float64(got)) > 1e-5 {
			t.Errorf("%s(0) = %f, want 0", name, got)
		}
		if got := fn(1); math.Abs(float64(got)-1.0) > 1e-5 {
			t.Errorf("%s(1) = %f, want 1", name, got)
		}
	}
}

func TestInOutCurvesAreHalfwayAtMidpoint(t *testing.T) {
	for _, name := range []string{"quad-in-out", "cubic-in-out", "quart-in-out", "quint-in-out", "sine-in-out", "expo-in-out", "circ-in-out"} {
		fn, _ := Lookup(name)
		if got := fn(0.5); math.Abs(float64(got)-0.5) > 1e-4 {
			t.Errorf("%s(0.5) = %f, want 0.5", name, got)
		}
	}
}

func TestBackOutOvershoots(t *testing.T) {
	peak := float32(0)
	for i := 0; i <= 100; i++ {
		v := BackOut(float32(i) / 100.0)
		if v > peak {
			peak = v
		}
	}
	if peak <= 1.0 {
		t.Fatalf("BackOut never exceeded 1.0, peak %f", peak)
	}
}

func TestBounceStaysInRange(t *testing.T) {
	for i := 0; i <= 200; i++ {
		tt := float32(i) / 200.0
		v := BounceOut(tt)
		if v < 0 || v > 1.0001 {
			t.Fatalf("BounceOut(%f) = %f out of range", tt, v)
		}
	}
}

func TestQuadOutMirrorsQuadIn(t *testing.T) {
	for i := 0; i <= 10; i++ {
		tt := float32(i) / 10.0
		in := QuadIn(tt)
		out := QuadOut(1.0 - tt)
		if math.Abs(float64(in-(1.0-out))) > 1e-5 {
			t.Errorf("QuadIn(%f)=%f does not mirror QuadOut, got %f", tt, in, out)
		}
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	Register("linear", Linear)
}
