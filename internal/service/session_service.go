package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/metrics"
	"alcyxob/coaching-platform/internal/session"
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNoWorkoutToday = errors.New("no workout scheduled for today")

// Started identifies a new live session.
type Started struct {
	SessionID string          `json:"sessionId"`
	Workout   *domain.Workout `json:"workout"`
	View      session.View    `json:"session"`
}

// SessionService drives live workout sessions held in a session.Manager.
// Every call except Start returns the runtime snapshot after the action.
type SessionService interface {
	// Start opens a session for a workout activity, or for today's workout when activityID is nil.
	Start(ctx context.Context, clientID primitive.ObjectID, activityID *primitive.ObjectID) (*Started, error)
	Active(clientID primitive.ObjectID) (string, bool)
	View(sessionID string, clientID primitive.ObjectID) (session.View, error)
	Begin(sessionID string, clientID primitive.ObjectID) (session.View, error)
	SubmitExclusions(sessionID string, clientID primitive.ObjectID, ex domain.Exclusions) (session.View, error)
	SubmitVitals(sessionID string, clientID primitive.ObjectID, v domain.Vitals) (session.View, error)
	ConfirmSequelae(sessionID string, clientID primitive.ObjectID, s domain.Sequelae) (session.View, error)
	Pause(sessionID string, clientID primitive.ObjectID) (session.View, error)
	Resume(sessionID string, clientID primitive.ObjectID) (session.View, error)
	UpdateSet(sessionID string, clientID, exerciseID primitive.ObjectID, index int, patch session.SetPatch) (session.View, error)
	AdvanceRound(sessionID string, clientID primitive.ObjectID, groupKey string) (session.View, error)
	SelectRound(sessionID string, clientID primitive.ObjectID, groupKey string, round int) (session.View, error)
	Finish(ctx context.Context, sessionID string, clientID primitive.ObjectID, effortRating int, notes string) (session.View, error)
	Dismiss(sessionID string, clientID primitive.ObjectID) (session.View, error)
	Cancel(sessionID string, clientID primitive.ObjectID) (session.View, error)
}

type sessionService struct {
	manager     *session.Manager
	assignments AssignmentService
	workouts    WorkoutService
	logs        LogStore
	metrics     *metrics.Manager
	clock       func() time.Time
}

func NewSessionService(
	manager *session.Manager,
	assignments AssignmentService,
	workouts WorkoutService,
	logs LogStore,
	metricsManager *metrics.Manager,
	clock func() time.Time,
) SessionService {
	if clock == nil {
		clock = time.Now
	}
	return &sessionService{
		manager:     manager,
		assignments: assignments,
		workouts:    workouts,
		logs:        logs,
		metrics:     metricsManager,
		clock:       clock,
	}
}

func (s *sessionService) Start(ctx context.Context, clientID primitive.ObjectID, activityID *primitive.ObjectID) (*Started, error) {
	cfg := session.Config{ClientID: clientID, Clock: s.clock}
	if activityID != nil {
		activity, day, err := s.assignments.Activity(ctx, clientID, *activityID)
		if err != nil {
			return nil, err
		}
		if activity.Type != domain.ActivityWorkout || activity.RefID == nil {
			return nil, domain.NewValidationError("activityId", "is not a workout activity")
		}
		w, err := s.workouts.GetWorkout(ctx, *activity.RefID)
		if err != nil {
			return nil, err
		}
		cfg.DayID, cfg.ActivityID, cfg.Workout = day.ID, &activity.ID, w
	} else {
		today, err := s.assignments.ResolveToday(ctx, clientID, s.clock())
		if err != nil {
			return nil, err
		}
		if today.Day == nil || today.Workout == nil {
			return nil, ErrNoWorkoutToday
		}
		cfg.DayID, cfg.Workout = today.Day.ID, today.Workout
		if act := today.Day.WorkoutActivity(); act != nil {
			cfg.ActivityID = &act.ID
		}
	}

	rt, err := session.New(cfg, s.logs)
	if err != nil {
		return nil, err
	}
	id := s.manager.Add(rt)
	s.metrics.CounterSessionsStarted.Inc()
	s.metrics.GaugeLiveSessions.Set(float64(s.manager.Len()))

	log.WithFields(log.Fields{
		"client":  clientID.Hex(),
		"session": id,
		"workout": cfg.Workout.ID.Hex(),
	}).Info("session started")
	return &Started{SessionID: id, Workout: cfg.Workout, View: rt.View()}, nil
}

func (s *sessionService) Active(clientID primitive.ObjectID) (string, bool) {
	return s.manager.ActiveFor(clientID)
}

// do runs fn under the session lock and snapshots the runtime afterwards, also on error.
func (s *sessionService) do(sessionID string, clientID primitive.ObjectID, fn func(*session.Runtime) error) (session.View, error) {
	var view session.View
	err := s.manager.With(sessionID, clientID, func(rt *session.Runtime) error {
		err := fn(rt)
		view = rt.View()
		return err
	})
	s.metrics.GaugeLiveSessions.Set(float64(s.manager.Len()))
	return view, err
}

func (s *sessionService) View(sessionID string, clientID primitive.ObjectID) (session.View, error) {
	return s.do(sessionID, clientID, func(*session.Runtime) error { return nil })
}

func (s *sessionService) Begin(sessionID string, clientID primitive.ObjectID) (session.View, error) {
	return s.do(sessionID, clientID, (*session.Runtime).Begin)
}

func (s *sessionService) SubmitExclusions(sessionID string, clientID primitive.ObjectID, ex domain.Exclusions) (session.View, error) {
	return s.do(sessionID, clientID, func(rt *session.Runtime) error {
		blocked, err := rt.SubmitExclusions(ex)
		if err == nil && blocked {
			s.metrics.CounterSessionsBlocked.Inc()
		}
		return err
	})
}

func (s *sessionService) SubmitVitals(sessionID string, clientID primitive.ObjectID, v domain.Vitals) (session.View, error) {
	return s.do(sessionID, clientID, func(rt *session.Runtime) error {
		_, err := rt.SubmitVitals(v)
		return err
	})
}

func (s *sessionService) ConfirmSequelae(sessionID string, clientID primitive.ObjectID, sq domain.Sequelae) (session.View, error) {
	return s.do(sessionID, clientID, func(rt *session.Runtime) error {
		_, err := rt.ConfirmSequelae(sq)
		return err
	})
}

func (s *sessionService) Pause(sessionID string, clientID primitive.ObjectID) (session.View, error) {
	return s.do(sessionID, clientID, (*session.Runtime).Pause)
}

func (s *sessionService) Resume(sessionID string, clientID primitive.ObjectID) (session.View, error) {
	return s.do(sessionID, clientID, (*session.Runtime).Resume)
}

func (s *sessionService) UpdateSet(sessionID string, clientID, exerciseID primitive.ObjectID, index int, patch session.SetPatch) (session.View, error) {
	return s.do(sessionID, clientID, func(rt *session.Runtime) error {
		_, err := rt.UpdateSet(exerciseID, index, patch)
		return err
	})
}

func (s *sessionService) AdvanceRound(sessionID string, clientID primitive.ObjectID, groupKey string) (session.View, error) {
	return s.do(sessionID, clientID, func(rt *session.Runtime) error {
		_, err := rt.AdvanceRound(groupKey)
		return err
	})
}

func (s *sessionService) SelectRound(sessionID string, clientID primitive.ObjectID, groupKey string, round int) (session.View, error) {
	return s.do(sessionID, clientID, func(rt *session.Runtime) error {
		return rt.SelectRound(groupKey, round)
	})
}

func (s *sessionService) Finish(ctx context.Context, sessionID string, clientID primitive.ObjectID, effortRating int, notes string) (session.View, error) {
	return s.do(sessionID, clientID, func(rt *session.Runtime) error {
		summary, err := rt.Finish(ctx, effortRating, notes)
		if err != nil {
			var perr *domain.PersistenceError
			if errors.As(err, &perr) {
				s.metrics.CounterPersistFailures.Inc()
			}
			return err
		}
		s.metrics.CounterSessionsFinished.Inc()
		s.metrics.HistSessionDuration.Observe(float64(summary.DurationMinutes))
		return nil
	})
}

func (s *sessionService) Dismiss(sessionID string, clientID primitive.ObjectID) (session.View, error) {
	return s.do(sessionID, clientID, (*session.Runtime).Dismiss)
}

func (s *sessionService) Cancel(sessionID string, clientID primitive.ObjectID) (session.View, error) {
	return s.do(sessionID, clientID, (*session.Runtime).Cancel)
}
