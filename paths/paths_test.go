// Copyright © 2025 Tweenline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: paths/paths_test.go
// Summary: Endpoint and waypoint checks for the path interpolators.

package paths

import (
	"math"
	"testing"
)

func approx(t *testing.T, got, want float32, msg string) {
	t.Helper()
	if math.Abs(float64(got-want)) > 1e-5 {
		t.Errorf("%s: got %f, want %f", msg, got, want)
	}
}

func TestLinearHitsEveryControlPoint(t *testing.T) {
	points := []float32{0, 10, 5, 20}
	for i, want := range points {
		tt := float32(i) / float32(len(points)-1)
		approx(t, Linear(tt, points), want, "Linear at control point")
	}
}

func TestLinearMidSegment(t *testing.T) {
	points := []float32{0, 10}
	approx(t, Linear(0.5, points), 5, "two-point midpoint")

	points = []float32{0, 10, 0}
	approx(t, Linear(0.25, points), 5, "first segment midpoint")
	approx(t, Linear(0.75, points), 5, "second segment midpoint")
}

func TestCatmullRomEndpoints(t *testing.T) {
	points := []float32{3, 7, -2, 12}
	approx(t, CatmullRom(0, points), 3, "start")
	approx(t, CatmullRom(1, points), 12, "end")
}

func TestCatmullRomPassesThroughWaypoints(t *testing.T) {
	points := []float32{0, 4, 8, 2}
	for i, want := range points {
		tt := float32(i) / float32(len(points)-1)
		approx(t, CatmullRom(tt, points), want, "spline at control point")
	}
}

func TestCatmullRomTwoPointMidpoint(t *testing.T) {
	points := []float32{2, 6}
	approx(t, CatmullRom(0.5, points), 4, "two-point spline midpoint")
}

func TestClampOutsideUnitRange(t *testing.T) {
	points := []float32{1, 2, 3}
	approx(t, Linear(-0.5, points), 1, "Linear below range")
	approx(t, Linear(1.5, points), 3, "Linear above range")
	approx(t, CatmullRom(-0.5, points), 1, "CatmullRom below range")
	approx(t, CatmullRom(1.5, points), 3, "CatmullRom above range")
}
