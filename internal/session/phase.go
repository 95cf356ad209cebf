// Package session drives one live workout session: screening, timer, set capture,
// superset rounds and the final aggregation into logs.
package session

import (
	"errors"
	"fmt"
)

// Phase is the state of a session runtime.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseExclusions Phase = "screening_exclusions"
	PhaseVitals     Phase = "screening_vitals"
	PhaseSequelae   Phase = "screening_sequelae"
	PhaseBlocked    Phase = "blocked"
	PhaseRunning    Phase = "running"
	PhasePaused     Phase = "paused"
	PhaseFinishing  Phase = "finishing"
	PhaseSummary    Phase = "summary"
	PhaseClosed     Phase = "closed"
)

var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrSafetyBlocked     = errors.New("session blocked by safety screening")
)

// Event is an input to the phase machine.
type Event interface {
	Name() string
}

type (
	// Begin opens the safety screening.
	Begin struct{}
	// ExclusionsSubmitted closes step one. Blocked is the gate outcome.
	ExclusionsSubmitted struct{ Blocked bool }
	VitalsSubmitted     struct{}
	// SequelaeConfirmed closes the screening and starts the clock.
	SequelaeConfirmed struct{}
	Pause             struct{}
	Resume            struct{}
	// Finish stops the clock and requests persistence. Also used to retry a failed write.
	Finish        struct{}
	Persisted     struct{}
	PersistFailed struct{}
	Dismiss       struct{}
	Cancel        struct{}
)

func (Begin) Name() string               { return "begin" }
func (ExclusionsSubmitted) Name() string { return "submit_exclusions" }
func (VitalsSubmitted) Name() string     { return "submit_vitals" }
func (SequelaeConfirmed) Name() string   { return "confirm_sequelae" }
func (Pause) Name() string               { return "pause" }
func (Resume) Name() string              { return "resume" }
func (Finish) Name() string              { return "finish" }
func (Persisted) Name() string           { return "persisted" }
func (PersistFailed) Name() string       { return "persist_failed" }
func (Dismiss) Name() string             { return "dismiss" }
func (Cancel) Name() string              { return "cancel" }

// Next is the transition function of the session. It has no side effects.
func Next(p Phase, e Event) (Phase, error) {
	if _, ok := e.(Cancel); ok {
		switch p {
		case PhaseSummary, PhaseClosed:
			return p, invalid(p, e)
		default:
			return PhaseClosed, nil
		}
	}

	switch p {
	case PhaseNotStarted:
		if _, ok := e.(Begin); ok {
			return PhaseExclusions, nil
		}
	case PhaseExclusions:
		if ev, ok := e.(ExclusionsSubmitted); ok {
			if ev.Blocked {
				return PhaseBlocked, nil
			}
			return PhaseVitals, nil
		}
	case PhaseVitals:
		if _, ok := e.(VitalsSubmitted); ok {
			return PhaseSequelae, nil
		}
	case PhaseSequelae:
		if _, ok := e.(SequelaeConfirmed); ok {
			return PhaseRunning, nil
		}
	case PhaseBlocked:
		return p, fmt.Errorf("%w: %s not allowed", ErrSafetyBlocked, e.Name())
	case PhaseRunning:
		switch e.(type) {
		case Pause:
			return PhasePaused, nil
		case Finish:
			return PhaseFinishing, nil
		}
	case PhasePaused:
		switch e.(type) {
		case Resume:
			return PhaseRunning, nil
		case Finish:
			return PhaseFinishing, nil
		}
	case PhaseFinishing:
		switch e.(type) {
		case Finish, PersistFailed:
			return PhaseFinishing, nil
		case Persisted:
			return PhaseSummary, nil
		}
	case PhaseSummary:
		if _, ok := e.(Dismiss); ok {
			return PhaseClosed, nil
		}
	}
	return p, invalid(p, e)
}

func invalid(p Phase, e Event) error {
	return fmt.Errorf("%w: %s in phase %s", ErrInvalidTransition, e.Name(), p)
}

// Capturing reports whether sets may be edited in phase p.
func (p Phase) Capturing() bool {
	return p == PhaseRunning || p == PhasePaused
}
