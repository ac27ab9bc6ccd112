// Package session orchestrates one interactive catalog graph.
//
// # Overview
//
// A [Session] owns the current scope of a catalog tree and wires the rest of
// courseflow together:
//
//	Source ──► hierarchy ──► projection ──► style ──► force ──► viewport
//	                                                     │
//	                                               graph.Frame
//
// [Session.Load] fetches a tree from a [Source] for a grouping mode and scopes
// to its root. [Session.OnNodeActivated] drills into a subtree,
// [Session.Up] drills out one level and [Session.ResetToRoot] returns to
// the loaded tree. Every scope change builds a new immutable [Scope] value,
// cancels the previous layout run and starts the next one.
//
// # Ticks
//
// The host drives the layout. Each call to [Session.Tick] advances the
// active run by one step. Hosts that schedule ticks ahead of time (timers,
// animation loops) use [Session.ScheduleTick], whose callback carries the
// run generation and does nothing once the scope has changed:
//
//	tick := s.ScheduleTick()
//	time.AfterFunc(16*time.Millisecond, func() { tick() })
//
// [Session.Settle] ticks until the run converges or stops.
//
// # Errors
//
// A source failure leaves the session in the empty-graph state and returns
// the error. A scope that fails to project (MALFORMED_HIERARCHY) is
// rejected and the previous scope stays active. Activating an unknown node
// returns NOT_FOUND. Gestures never fail; bad input is ignored.
//
// # Concurrency
//
// A Session is not safe for concurrent use. Servers serialise access per
// session.
package session
