// Package engine decides when the system mute state should change.
//
// The engine holds three flags: whether monitoring is active, whether the
// last zone check found the device inside any zone, and the last known
// system mute state. Zone checks enforce Muted == InsideAnyZone while
// monitoring is active. Manual toggles bypass the zone logic and the next
// zone check wins again.
package engine

import "fmt"

// Muter issues mute commands to the audio system.
type Muter interface {
	SetMuted(muted bool) error
}

// Action is the command an engine call issued, if any.
type Action int

const (
	None Action = iota
	Mute
	Unmute
)

func (a Action) String() string {
	switch a {
	case Mute:
		return "mute"
	case Unmute:
		return "unmute"
	default:
		return "none"
	}
}

func actionFor(muted bool) Action {
	if muted {
		return Mute
	}
	return Unmute
}

type Phase int

const (
	Inactive Phase = iota
	InZoneMuted
	InZoneUnmuted // transitioning: mute pending
	OutZoneUnmuted
	OutZoneMuted // transitioning: unmute pending
)

func (p Phase) String() string {
	switch p {
	case InZoneMuted:
		return "active, in zone, muted"
	case InZoneUnmuted:
		return "active, in zone, unmuted (muting)"
	case OutZoneUnmuted:
		return "active, out of zone, unmuted"
	case OutZoneMuted:
		return "active, out of zone, muted (unmuting)"
	default:
		return "inactive"
	}
}

// State is a snapshot of the engine flags.
type State struct {
	Active        bool
	InsideAnyZone bool
	Muted         bool
}

type Engine struct {
	muter Muter
	st    State
}

// New returns an inactive engine. muted is the system state observed at
// startup.
func New(m Muter, muted bool) *Engine {
	return &Engine{muter: m, st: State{Muted: muted}}
}

func (e *Engine) State() State { return e.st }

func (e *Engine) Active() bool { return e.st.Active }

func (e *Engine) Muted() bool { return e.st.Muted }

func (e *Engine) SetActive(active bool) {
	e.st.Active = active
}

// Evaluate records the result of a zone check and, when monitoring is
// active, issues the command that brings the mute state in line with it.
// A failed command leaves Muted unchanged so the next check retries.
func (e *Engine) Evaluate(inside bool) (Action, error) {
	e.st.InsideAnyZone = inside
	if !e.st.Active || inside == e.st.Muted {
		return None, nil
	}
	return e.apply(inside)
}

// Toggle flips the mute state regardless of zones or activity.
func (e *Engine) Toggle() (Action, error) {
	return e.apply(!e.st.Muted)
}

// Reconcile adopts the observed system mute state. It never issues a
// command and reports whether the stored state changed.
func (e *Engine) Reconcile(systemMuted bool) bool {
	if e.st.Muted == systemMuted {
		return false
	}
	e.st.Muted = systemMuted
	return true
}

func (e *Engine) Phase() Phase {
	switch {
	case !e.st.Active:
		return Inactive
	case e.st.InsideAnyZone && e.st.Muted:
		return InZoneMuted
	case e.st.InsideAnyZone:
		return InZoneUnmuted
	case e.st.Muted:
		return OutZoneMuted
	default:
		return OutZoneUnmuted
	}
}

func (e *Engine) apply(muted bool) (Action, error) {
	a := actionFor(muted)
	if err := e.muter.SetMuted(muted); err != nil {
		return a, fmt.Errorf("%s: %w", a, err)
	}
	e.st.Muted = muted
	return a, nil
}
