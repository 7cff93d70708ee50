// Copyright © 2025 Tweenline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ease/overshoot.go
// Summary: Back, bounce and elastic easing families.
// Usage: Drop-in Func values; Back and Elastic intentionally leave [0,1] mid-curve.

package ease

import "math"

const backOvershoot = 1.70158

var (
	// BackIn - pulls back past the start before accelerating forward
	BackIn Func = func(t float32) float32 {
		return t * t * ((backOvershoot+1.0)*t - backOvershoot)
	}

	// BackOut - overshoots the target, then settles
	BackOut Func = func(t float32) float32 {
		t1 := t - 1.0
		return t1*t1*((backOvershoot+1.0)*t1+backOvershoot) + 1.0
	}

	// BackInOut - back easing on both ends, scaled overshoot
	BackInOut Func = func(t float32) float32 {
		const s = backOvershoot * 1.525
		t2 := 2.0 * t
		if t2 < 1.0 {
			return 0.5 * (t2 * t2 * ((s+1.0)*t2 - s))
		}
		t2 -= 2.0
		return 0.5 * (t2*t2*((s+1.0)*t2+s) + 2.0)
	}

	// BounceOut - decaying bounces toward the target
	BounceOut Func = bounceOut

	// BounceIn - mirrored BounceOut
	BounceIn Func = func(t float32) float32 {
		return 1.0 - bounceOut(1.0-t)
	}

	// BounceInOut - bounce-in for the first half, bounce-out for the second
	BounceInOut Func = func(t float32) float32 {
		if t < 0.5 {
			return 0.5 * (1.0 - bounceOut(1.0-2.0*t))
		}
		return 0.5*bounceOut(2.0*t-1.0) + 0.5
	}

	// ElasticIn - exponentially growing oscillation into the start
	ElasticIn Func = func(t float32) float32 {
		if t == 0 || t == 1 {
			return t
		}
		const period = 0.3
		const s = period / 4.0
		t1 := float64(t) - 1.0
		return -float32(math.Pow(2.0, 10.0*t1) * math.Sin((t1-s)*2.0*math.Pi/period))
	}

	// ElasticOut - exponentially decaying oscillation out of the target
	ElasticOut Func = func(t float32) float32 {
		if t == 0 || t == 1 {
			return t
		}
		const period = 0.3
		const s = period / 4.0
		return float32(math.Pow(2.0, -10.0*float64(t))*math.Sin((float64(t)-s)*2.0*math.Pi/period)) + 1.0
	}

	// ElasticInOut - elastic easing on both ends
	ElasticInOut Func = func(t float32) float32 {
		if t == 0 || t == 1 {
			return t
		}
		const period = 0.45
		const s = period / 4.0
		t2 := 2.0*float64(t) - 1.0
		if t2 < 0 {
			return -0.5 * float32(math.Pow(2.0, 10.0*t2)*math.Sin((t2-s)*2.0*math.Pi/period))
		}
		return 0.5*float32(math.Pow(2.0, -10.0*t2)*math.Sin((t2-s)*2.0*math.Pi/period)) + 1.0
	}
)

// bounceOut is the canonical four-segment bounce used by the whole family.
func bounceOut(t float32) float32 {
	switch {
	case t < 1.0/2.75:
		return 7.5625 * t * t
	case t < 2.0/2.75:
		t -= 1.5 / 2.75
		return 7.5625*t*t + 0.75
	case t < 2.5/2.75:
		t -= 2.25 / 2.75
		return 7.5625*t*t + 0.9375
	default:
		t -= 2.625 / 2.75
		return 7.5625*t*t + 0.984375
	}
}
