// Copyright © 2025 Tweenline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tween/errors.go
// Summary: Error kinds raised by the engine on caller misuse.
// Usage: Recover and errors.Is against these sentinels if you need to classify a failure.
// Notes: Setup-time misuse panics on the caller goroutine; nothing is recovered internally.

package tween

import "errors"

var (
	// ErrBadArgument - a builder or control argument is out of range.
	ErrBadArgument = errors.New("bad argument")

	// ErrMisuseOrder - a call arrived after a point where it is no longer legal,
	// such as changing engine limits once a unit exists.
	ErrMisuseOrder = errors.New("out-of-order call")

	// ErrMissingAccessor - no registered or self-implemented accessor could be
	// resolved for a tween target.
	ErrMissingAccessor = errors.New("no accessor for target")

	// ErrInternal - the state machine reached an unreachable state.
	ErrInternal = errors.New("internal state error")
)
