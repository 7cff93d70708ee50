// Copyright © 2025 Tweenline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tween/events.go
// Summary: Event kinds and the per-unit callback dispatch.
// Usage: Subscribe with AddCallback and a bitmask of Event values.
// Notes: Callbacks registered to the same trigger fire in registration order.

package tween

import "fmt"

// Event identifies a playback transition. Values combine as a bitmask for
// callback subscription.
type Event int

const (
	// EventBegin - the unit entered forward RUN for the first time since it
	// was started or last fully terminated
	EventBegin Event = 1 << iota
	// EventStart - a forward iteration began
	EventStart
	// EventEnd - a forward iteration ended; also fired when a reverse
	// iteration of a linear repeat ends
	EventEnd
	// EventComplete - the unit fully terminated moving forward, or finished a
	// forward iteration of an auto-reversing repeat
	EventComplete
	// EventBackBegin - the unit entered reverse RUN for the first time since
	// it was started or last fully terminated
	EventBackBegin
	// EventBackStart - a reverse iteration began
	EventBackStart
	// EventBackEnd - a reverse iteration ended, except between linear repeats,
	// which fire EventEnd
	EventBackEnd
	// EventBackComplete - the unit fully terminated moving backward, or
	// finished a reverse iteration of an auto-reversing repeat
	EventBackComplete
)

// EventAny subscribes a callback to every transition.
const EventAny = EventBegin | EventStart | EventEnd | EventComplete |
	EventBackBegin | EventBackStart | EventBackEnd | EventBackComplete

func (e Event) String() string {
	switch e {
	case EventBegin:
		return "BEGIN"
	case EventStart:
		return "START"
	case EventEnd:
		return "END"
	case EventComplete:
		return "COMPLETE"
	case EventBackBegin:
		return "BACK_BEGIN"
	case EventBackStart:
		return "BACK_START"
	case EventBackEnd:
		return "BACK_END"
	case EventBackComplete:
		return "BACK_COMPLETE"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// Callback receives the event kind and the unit that fired it.
type Callback func(event Event, source Unit)

// UpdateCallback fires at the boundaries of a single Update call.
type UpdateCallback func(source Unit)

type callbackEntry struct {
	mask Event
	fn   Callback
}

// fireEvents invokes every subscribed callback whose mask includes the event,
// in registration order.
func (u *baseUnit) fireEvents(ev Event) {
	for i := range u.callbacks {
		if u.callbacks[i].mask&ev != 0 {
			u.callbacks[i].fn(ev, u.self)
		}
	}
}
