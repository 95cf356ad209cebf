// Package safety implements the pre-session medical screening.
package safety

import (
	"alcyxob/coaching-platform/internal/domain"
	"errors"
)

// Step is the position of a Gate in its wizard.
type Step string

const (
	StepExclusions Step = "exclusions"
	StepVitals     Step = "vitals"
	StepSequelae   Step = "sequelae"
	StepPassed     Step = "passed"
	StepBlocked    Step = "blocked"
)

const MaxFatigue = 10

var (
	ErrWrongStep = errors.New("screening step not available")
	ErrBlocked   = errors.New("screening blocked by an exclusion criterion")
)

// Gate is a forward-only 3 step questionnaire. A Gate is not safe for concurrent use.
type Gate struct {
	step       Step
	exclusions domain.Exclusions
	vitals     domain.Vitals
	sequelae   domain.Sequelae
}

func NewGate() *Gate {
	return &Gate{step: StepExclusions}
}

func (g *Gate) Step() Step {
	return g.step
}

// HasExclusion reports whether any step one flag is set.
func HasExclusion(ex domain.Exclusions) bool {
	return ex.Fever || ex.Malaise || ex.RecentBloodTest || ex.BPUncontrolled
}

// SubmitExclusions records step one. BPUncontrolled is always recomputed from the readings.
// The returned flag is true when the gate became Blocked.
func (g *Gate) SubmitExclusions(ex domain.Exclusions) (bool, error) {
	if g.step == StepBlocked {
		return true, ErrBlocked
	}
	if g.step != StepExclusions {
		return false, ErrWrongStep
	}
	ex.BPUncontrolled = BPUncontrolled(ex.Systolic, ex.Diastolic)
	g.exclusions = ex
	if HasExclusion(ex) {
		g.step = StepBlocked
		return true, nil
	}
	g.step = StepVitals
	return false, nil
}

// SubmitVitals records step two. Blood pressure is taken from step one, whatever v carries.
func (g *Gate) SubmitVitals(v domain.Vitals) ([]Advisory, error) {
	if g.step == StepBlocked {
		return nil, ErrBlocked
	}
	if g.step != StepVitals {
		return nil, ErrWrongStep
	}
	if v.Fatigue < 0 || v.Fatigue > MaxFatigue {
		return nil, domain.NewValidationError("fatigue", "must be between 0 and 10")
	}
	if !v.RPEType.IsValid() {
		return nil, domain.NewValidationError("rpeType", "must be verde or amarillo")
	}
	v.BPSystolic = g.exclusions.Systolic
	v.BPDiastolic = g.exclusions.Diastolic
	g.vitals = v
	g.step = StepSequelae
	return VitalsAdvisories(v), nil
}

// ConfirmSequelae records step three and passes the gate. Sequelae never block.
func (g *Gate) ConfirmSequelae(s domain.Sequelae) ([]Advisory, error) {
	if g.step == StepBlocked {
		return nil, ErrBlocked
	}
	if g.step != StepSequelae {
		return nil, ErrWrongStep
	}
	g.sequelae = s
	g.step = StepPassed
	return SequelaeAdvisories(s), nil
}

// Passed reports whether the session may start.
func (g *Gate) Passed() bool {
	return g.step == StepPassed
}

func (g *Gate) Exclusions() domain.Exclusions { return g.exclusions }
func (g *Gate) Vitals() domain.Vitals         { return g.vitals }
func (g *Gate) Sequelae() domain.Sequelae     { return g.sequelae }
