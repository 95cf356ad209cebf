package session

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/safety"
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

//go:generate mockgen -source=$GOFILE -destination=runtime_mocks_test.go -package=session_test

// LogWriter persists a finished session as one logical write.
type LogWriter interface {
	Save(ctx context.Context, dayLog *domain.ClientDayLog, exerciseLogs []domain.ClientExerciseLog) error
}

// Config describes the workout a runtime executes.
type Config struct {
	ClientID   primitive.ObjectID
	DayID      primitive.ObjectID
	ActivityID *primitive.ObjectID
	Workout    *domain.Workout
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Runtime is one live session. It is not safe for concurrent use, see Manager.
type Runtime struct {
	phase      Phase
	gate       *safety.Gate
	timer      Timer
	now        func() time.Time
	writer     LogWriter
	clientID   primitive.ObjectID
	dayID      primitive.ObjectID
	activityID *primitive.ObjectID
	workout    *domain.Workout

	sets       Sets
	groups     map[string]*supersetGroup
	groupOrder []string
	memberOf   map[primitive.ObjectID]string

	advisories []safety.Advisory
	summary    *Summary
	lastErr    error
}

func New(cfg Config, writer LogWriter) (*Runtime, error) {
	if cfg.Workout == nil {
		return nil, errors.New("session requires a workout")
	}
	if cfg.ClientID.IsZero() || cfg.DayID.IsZero() {
		return nil, errors.New("session requires a client and a day")
	}
	if writer == nil {
		return nil, errors.New("session requires a log writer")
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	groups, order, memberOf := indexSupersets(cfg.Workout)
	return &Runtime{
		phase:      PhaseNotStarted,
		gate:       safety.NewGate(),
		now:        now,
		writer:     writer,
		clientID:   cfg.ClientID,
		dayID:      cfg.DayID,
		activityID: cfg.ActivityID,
		workout:    cfg.Workout,
		sets:       Sets{},
		groups:     groups,
		groupOrder: order,
		memberOf:   memberOf,
	}, nil
}

func (r *Runtime) Phase() Phase                  { return r.phase }
func (r *Runtime) ClientID() primitive.ObjectID { return r.clientID }

func (r *Runtime) check(e Event) error {
	_, err := Next(r.phase, e)
	return err
}

func (r *Runtime) apply(e Event) error {
	next, err := Next(r.phase, e)
	if err != nil {
		return err
	}
	r.phase = next
	return nil
}

// Begin opens the safety screening.
func (r *Runtime) Begin() error {
	return r.apply(Begin{})
}

// SubmitExclusions records screening step one. The result is true when the session got blocked.
func (r *Runtime) SubmitExclusions(ex domain.Exclusions) (bool, error) {
	if err := r.check(ExclusionsSubmitted{}); err != nil {
		return false, err
	}
	blocked, err := r.gate.SubmitExclusions(ex)
	if err != nil {
		return false, err
	}
	if blocked {
		log.WithField("client", r.clientID.Hex()).Warn("session blocked by safety screening")
	}
	return blocked, r.apply(ExclusionsSubmitted{Blocked: blocked})
}

// SubmitVitals records screening step two.
func (r *Runtime) SubmitVitals(v domain.Vitals) ([]safety.Advisory, error) {
	if err := r.check(VitalsSubmitted{}); err != nil {
		return nil, err
	}
	advisories, err := r.gate.SubmitVitals(v)
	if err != nil {
		return nil, err
	}
	r.advisories = append(r.advisories, advisories...)
	return advisories, r.apply(VitalsSubmitted{})
}

// ConfirmSequelae closes the screening and starts the clock.
func (r *Runtime) ConfirmSequelae(s domain.Sequelae) ([]safety.Advisory, error) {
	if err := r.check(SequelaeConfirmed{}); err != nil {
		return nil, err
	}
	advisories, err := r.gate.ConfirmSequelae(s)
	if err != nil {
		return nil, err
	}
	r.advisories = append(r.advisories, advisories...)
	if err := r.apply(SequelaeConfirmed{}); err != nil {
		return nil, err
	}
	r.timer.Start(r.now())
	return advisories, nil
}

func (r *Runtime) Pause() error {
	if err := r.apply(Pause{}); err != nil {
		return err
	}
	r.timer.Pause(r.now())
	return nil
}

func (r *Runtime) Resume() error {
	if err := r.apply(Resume{}); err != nil {
		return err
	}
	r.timer.Resume(r.now())
	return nil
}

// UpdateSet edits one slot of a workout exercise. Edits are allowed while running or paused.
func (r *Runtime) UpdateSet(exerciseID primitive.ObjectID, index int, patch SetPatch) (SetEntry, error) {
	if !r.phase.Capturing() {
		return SetEntry{}, fmt.Errorf("%w: set update in phase %s", ErrInvalidTransition, r.phase)
	}
	we, ok := r.workout.FindExercise(exerciseID)
	if !ok {
		return SetEntry{}, domain.NewValidationError("exerciseId", "not part of this workout")
	}
	if err := patch.validate(r.sets.Slot(exerciseID, index), r.slotCount(we), index); err != nil {
		return SetEntry{}, err
	}
	return r.sets.apply(exerciseID, index, patch), nil
}

// slotCount is the number of capturable slots: rounds for superset members, sets otherwise.
func (r *Runtime) slotCount(we *domain.WorkoutExercise) int {
	if key, ok := r.memberOf[we.ID]; ok {
		return r.groups[key].group.Rounds
	}
	if we.Sets < 1 {
		return 1
	}
	return we.Sets
}

// AdvanceRound moves a superset to its next round once the current one is complete.
func (r *Runtime) AdvanceRound(groupKey string) (int, error) {
	if !r.phase.Capturing() {
		return 0, fmt.Errorf("%w: round change in phase %s", ErrInvalidTransition, r.phase)
	}
	g, ok := r.groups[groupKey]
	if !ok {
		return 0, ErrUnknownGroup
	}
	if err := g.advance(r.sets); err != nil {
		return g.current, err
	}
	return g.current, nil
}

// SelectRound jumps to any round of a superset.
func (r *Runtime) SelectRound(groupKey string, round int) error {
	if !r.phase.Capturing() {
		return fmt.Errorf("%w: round change in phase %s", ErrInvalidTransition, r.phase)
	}
	g, ok := r.groups[groupKey]
	if !ok {
		return ErrUnknownGroup
	}
	return g.selectRound(round)
}

// Finish stops the clock and persists the session. On a write failure the runtime stays in
// PhaseFinishing and Finish may be called again, which re-issues the whole write.
func (r *Runtime) Finish(ctx context.Context, effortRating int, notes string) (*Summary, error) {
	if err := r.check(Finish{}); err != nil {
		return nil, err
	}
	if effortRating != 0 && (effortRating < 1 || effortRating > 10) {
		return nil, domain.NewValidationError("effortRating", "must be between 1 and 10")
	}
	now := r.now()
	if r.phase != PhaseFinishing {
		r.timer.Stop(now)
	}
	if err := r.apply(Finish{}); err != nil {
		return nil, err
	}

	seconds := r.timer.Seconds(now)
	exclusions, vitals, sequelae := r.gate.Exclusions(), r.gate.Vitals(), r.gate.Sequelae()
	dayLog := &domain.ClientDayLog{
		ClientID:        r.clientID,
		DayID:           r.dayID,
		ActivityID:      r.activityID,
		CompletedAt:     now.UTC(),
		DurationMinutes: DurationMinutes(seconds),
		EffortRating:    effortRating,
		Notes:           notes,
		Vitals:          &vitals,
		Exclusions:      &exclusions,
		Sequelae:        &sequelae,
	}
	exerciseLogs := Aggregate(r.workout, r.sets)

	if err := r.writer.Save(ctx, dayLog, exerciseLogs); err != nil {
		r.lastErr = err
		_ = r.apply(PersistFailed{})
		log.WithFields(log.Fields{
			"client": r.clientID.Hex(),
			"day":    r.dayID.Hex(),
		}).Errorf("failed to persist session: %s", err)
		return nil, err
	}

	summary := Summarize(r.workout, r.sets, seconds)
	summary.EffortRating = effortRating
	summary.RPEType = vitals.RPEType
	summary.Notes = notes
	r.summary = &summary
	r.lastErr = nil
	if err := r.apply(Persisted{}); err != nil {
		return nil, err
	}
	return r.summary, nil
}

// Summary is available once the session was persisted.
func (r *Runtime) Summary() (*Summary, bool) {
	return r.summary, r.summary != nil
}

func (r *Runtime) Dismiss() error {
	return r.apply(Dismiss{})
}

// Cancel abandons the session without writing anything.
func (r *Runtime) Cancel() error {
	if err := r.apply(Cancel{}); err != nil {
		return err
	}
	r.timer.Stop(r.now())
	return nil
}
