package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"alcyxob/coaching-platform/internal/schedule"
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrClientNotFound     = errors.New("client not found")
	ErrNotAClient         = errors.New("user is not a client")
	ErrAssignmentNotFound = errors.New("client has no assigned program")
	ErrActivityNotFound   = errors.New("activity not found")
)

// Today is what a client is scheduled to do on a given date. Day and Workout are nil on
// rest days.
type Today struct {
	Assignment   *domain.ClientTrainingAssignment `json:"assignment"`
	Program      *domain.TrainingProgram          `json:"program"`
	Position     schedule.Position                `json:"position"`
	Day          *domain.ProgramDay               `json:"day"`
	Workout      *domain.Workout                  `json:"workout"`
	DayCompleted bool                             `json:"dayCompleted"`
}

// AssignmentService links clients to programs and resolves their current day.
type AssignmentService interface {
	// AssignProgram replaces any previous assignment of the client.
	AssignProgram(ctx context.Context, coachID, clientID, programID primitive.ObjectID, start time.Time) (*domain.ClientTrainingAssignment, error)
	UnassignProgram(ctx context.Context, clientID primitive.ObjectID) error
	GetAssignment(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientTrainingAssignment, error)
	ResolveToday(ctx context.Context, clientID primitive.ObjectID, now time.Time) (*Today, error)
	// Activity returns the program activity together with the day that holds it, as long as
	// the day belongs to the client's assigned program.
	Activity(ctx context.Context, clientID, activityID primitive.ObjectID) (*domain.ProgramActivity, *domain.ProgramDay, error)
}

type assignmentService struct {
	store    repository.Store
	programs ProgramService
	workouts WorkoutService
	logs     LogStore
}

func NewAssignmentService(store repository.Store, programs ProgramService, workouts WorkoutService, logs LogStore) AssignmentService {
	return &assignmentService{
		store:    store,
		programs: programs,
		workouts: workouts,
		logs:     logs,
	}
}

func (s *assignmentService) AssignProgram(ctx context.Context, coachID, clientID, programID primitive.ObjectID, start time.Time) (*domain.ClientTrainingAssignment, error) {
	client, err := s.store.Users.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, domain.Persist("get client", err)
	}
	if !client.IsClient() {
		return nil, ErrNotAClient
	}
	if _, err := s.store.Programs.GetByID(ctx, programID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, domain.Persist("get program", err)
	}
	if start.IsZero() {
		return nil, domain.NewValidationError("startDate", "is required")
	}

	if err := s.store.Assignments.DeleteByClientID(ctx, clientID); err != nil {
		return nil, domain.Persist("replace assignment", err)
	}
	assignment := &domain.ClientTrainingAssignment{
		ClientID:   clientID,
		ProgramID:  programID,
		StartDate:  schedule.StartOfDay(start),
		AssignedBy: coachID,
		AssignedAt: time.Now().UTC(),
	}
	id, err := s.store.Assignments.Create(ctx, assignment)
	if err != nil {
		return nil, domain.Persist("create assignment", err)
	}
	assignment.ID = id

	log.WithFields(log.Fields{
		"client":  clientID.Hex(),
		"program": programID.Hex(),
		"start":   assignment.StartDate.Format(time.DateOnly),
	}).Info("program assigned")
	return assignment, nil
}

func (s *assignmentService) UnassignProgram(ctx context.Context, clientID primitive.ObjectID) error {
	if err := s.store.Assignments.DeleteByClientID(ctx, clientID); err != nil {
		return domain.Persist("delete assignment", err)
	}
	return nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientTrainingAssignment, error) {
	a, err := s.store.Assignments.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, domain.Persist("get assignment", err)
	}
	return a, nil
}

func (s *assignmentService) ResolveToday(ctx context.Context, clientID primitive.ObjectID, now time.Time) (*Today, error) {
	assignment, err := s.GetAssignment(ctx, clientID)
	if err != nil {
		return nil, err
	}
	program, err := s.programs.GetProgram(ctx, assignment.ProgramID)
	if err != nil {
		return nil, err
	}

	pos := schedule.Resolve(assignment.StartDate, now, program.WeeksCount)
	today := &Today{Assignment: assignment, Program: program, Position: pos}
	if pos.PastEnd {
		log.WithFields(log.Fields{"client": clientID.Hex(), "program": program.ID.Hex()}).
			Debugf("calculated week %d is past the last week, repeating week %d", pos.CalculatedWeek, pos.Week)
	}

	today.Day = program.Day(pos.Week, pos.Day)
	if today.Day == nil {
		return today, nil
	}
	if act := today.Day.WorkoutActivity(); act != nil {
		w, err := s.workouts.GetWorkout(ctx, *act.RefID)
		switch {
		case errors.Is(err, ErrWorkoutNotFound):
			log.WithField("workout", act.RefID.Hex()).Warn("day references a deleted workout")
		case err != nil:
			return nil, err
		default:
			today.Workout = w
		}
	}
	if today.DayCompleted, err = s.logs.HasAnyLog(ctx, clientID, today.Day.ID); err != nil {
		return nil, err
	}
	return today, nil
}

func (s *assignmentService) Activity(ctx context.Context, clientID, activityID primitive.ObjectID) (*domain.ProgramActivity, *domain.ProgramDay, error) {
	assignment, err := s.GetAssignment(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}
	program, err := s.programs.GetProgram(ctx, assignment.ProgramID)
	if err != nil {
		return nil, nil, err
	}
	for i := range program.Days {
		day := &program.Days[i]
		for j := range day.Activities {
			if day.Activities[j].ID == activityID {
				return &day.Activities[j], day, nil
			}
		}
	}
	return nil, nil, ErrActivityNotFound
}
