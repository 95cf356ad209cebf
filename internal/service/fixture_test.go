package service_test

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"alcyxob/coaching-platform/internal/repository/memory"
	"alcyxob/coaching-platform/internal/service"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	ctx         context.Context
	store       repository.Store
	exercises   service.ExerciseService
	workouts    service.WorkoutService
	programs    service.ProgramService
	logs        service.LogStore
	assignments service.AssignmentService
	coach       *domain.User
	client      *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, memory.NewStore())
}

func newFixtureWithStore(t *testing.T, store repository.Store) *fixture {
	t.Helper()
	f := &fixture{ctx: context.Background(), store: store}
	f.exercises = service.NewExerciseService(store.Exercises)
	f.workouts = service.NewWorkoutService(store, f.exercises)
	f.programs = service.NewProgramService(store)
	f.logs = service.NewLogStore(store)
	f.assignments = service.NewAssignmentService(store, f.programs, f.workouts, f.logs)

	f.coach = &domain.User{Name: "Coach", Email: "coach@example.com", PasswordHash: "x", Role: domain.RoleCoach}
	_, err := store.Users.Create(f.ctx, f.coach)
	require.NoError(t, err)
	f.client = &domain.User{Name: "Client", Email: "client@example.com", PasswordHash: "x", Role: domain.RoleClient, CoachID: &f.coach.ID}
	_, err = store.Users.Create(f.ctx, f.client)
	require.NoError(t, err)
	return f
}

// byName builds a workout exercise referencing the catalog by name.
func byName(name string, sets int) domain.WorkoutExercise {
	return domain.WorkoutExercise{Exercise: &domain.Exercise{Name: name}, Sets: sets, Reps: "10", RestSeconds: 60}
}

func (f *fixture) saveWorkout(t *testing.T, name string, blocks ...domain.Block) *domain.Workout {
	t.Helper()
	w, err := f.workouts.SaveWorkout(f.ctx, f.coach.ID, &domain.Workout{Name: name, Blocks: blocks})
	require.NoError(t, err)
	return w
}

// assignWithWorkout stores a four week program whose week 2 Monday holds w plus a walking
// activity, and assigns it to the fixture client starting 2024-01-01.
func (f *fixture) assignWithWorkout(t *testing.T, w *domain.Workout) *domain.TrainingProgram {
	t.Helper()
	p, err := f.programs.SaveProgram(f.ctx, f.coach.ID, &domain.TrainingProgram{
		Name:       "Base",
		WeeksCount: 4,
		Days: []domain.ProgramDay{
			{WeekNumber: 2, DayNumber: 1, Activities: []domain.ProgramActivity{
				{Type: domain.ActivityWorkout, RefID: &w.ID, Title: "Fuerza"},
				{Type: domain.ActivityWalking, Title: "Caminar"},
				{Type: domain.ActivityMetrics, Title: "Medidas"},
				{Type: domain.ActivityPhoto, Title: "Fotos"},
				{Type: domain.ActivityCustom, Title: "Respiración"},
			}},
			{WeekNumber: 1, DayNumber: 3, Activities: []domain.ProgramActivity{
				{Type: domain.ActivityForm, Title: "Cuestionario"},
			}},
		},
	})
	require.NoError(t, err)
	_, err = f.assignments.AssignProgram(f.ctx, f.coach.ID, f.client.ID, p.ID, date(2024, 1, 1))
	require.NoError(t, err)
	return p
}

func activityOfType(t *testing.T, p *domain.TrainingProgram, typ domain.ActivityType) primitive.ObjectID {
	t.Helper()
	for _, d := range p.Days {
		for _, a := range d.Activities {
			if a.Type == typ {
				return a.ID
			}
		}
	}
	t.Fatalf("program has no %s activity", typ)
	return primitive.NilObjectID
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
