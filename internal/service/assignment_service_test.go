package service_test

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/service"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolveToday_SecondWeekMonday(t *testing.T) {
	f := newFixture(t)
	w := f.saveWorkout(t, "Fuerza", domain.Block{Name: "A", Exercises: []domain.WorkoutExercise{byName("E1", 3)}})
	f.assignWithWorkout(t, w)

	today, err := f.assignments.ResolveToday(f.ctx, f.client.ID, time.Date(2024, 1, 8, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 2, today.Position.Week)
	assert.Equal(t, 1, today.Position.Day)
	require.NotNil(t, today.Day)
	require.NotNil(t, today.Workout)
	assert.Equal(t, w.ID, today.Workout.ID)
	assert.False(t, today.DayCompleted)
}

func TestResolveToday_RestDayAndClamp(t *testing.T) {
	f := newFixture(t)
	w := f.saveWorkout(t, "Fuerza", domain.Block{Name: "A", Exercises: []domain.WorkoutExercise{byName("E1", 3)}})
	f.assignWithWorkout(t, w)

	// Tuesday of week 2 has nothing scheduled.
	today, err := f.assignments.ResolveToday(f.ctx, f.client.ID, date(2024, 1, 9))
	require.NoError(t, err)
	assert.Nil(t, today.Day)
	assert.Nil(t, today.Workout)

	// Week 10 clamps to week 4.
	today, err = f.assignments.ResolveToday(f.ctx, f.client.ID, date(2024, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, 4, today.Position.Week)
	assert.True(t, today.Position.PastEnd)
}

func TestResolveToday_MarksCompletedDay(t *testing.T) {
	f := newFixture(t)
	w := f.saveWorkout(t, "Fuerza", domain.Block{Name: "A", Exercises: []domain.WorkoutExercise{byName("E1", 3)}})
	p := f.assignWithWorkout(t, w)

	require.NoError(t, f.logs.Save(f.ctx, &domain.ClientDayLog{ClientID: f.client.ID, DayID: p.Day(2, 1).ID}, nil))

	today, err := f.assignments.ResolveToday(f.ctx, f.client.ID, date(2024, 1, 8))
	require.NoError(t, err)
	assert.True(t, today.DayCompleted)
}

func TestAssignProgram_ReplacesPreviousAssignment(t *testing.T) {
	f := newFixture(t)
	first, err := f.programs.SaveProgram(f.ctx, f.coach.ID, &domain.TrainingProgram{Name: "A", WeeksCount: 1})
	require.NoError(t, err)
	second, err := f.programs.SaveProgram(f.ctx, f.coach.ID, &domain.TrainingProgram{Name: "B", WeeksCount: 2})
	require.NoError(t, err)

	_, err = f.assignments.AssignProgram(f.ctx, f.coach.ID, f.client.ID, first.ID, date(2024, 1, 1))
	require.NoError(t, err)
	a, err := f.assignments.AssignProgram(f.ctx, f.coach.ID, f.client.ID, second.ID, time.Date(2024, 2, 5, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 5), a.StartDate)

	got, err := f.assignments.GetAssignment(f.ctx, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ProgramID)

	require.NoError(t, f.assignments.UnassignProgram(f.ctx, f.client.ID))
	_, err = f.assignments.GetAssignment(f.ctx, f.client.ID)
	assert.ErrorIs(t, err, service.ErrAssignmentNotFound)
	_, err = f.assignments.ResolveToday(f.ctx, f.client.ID, date(2024, 2, 5))
	assert.ErrorIs(t, err, service.ErrAssignmentNotFound)
}

func TestAssignProgram_Rejections(t *testing.T) {
	f := newFixture(t)
	p, err := f.programs.SaveProgram(f.ctx, f.coach.ID, &domain.TrainingProgram{Name: "A", WeeksCount: 1})
	require.NoError(t, err)

	_, err = f.assignments.AssignProgram(f.ctx, f.coach.ID, f.coach.ID, p.ID, date(2024, 1, 1))
	assert.ErrorIs(t, err, service.ErrNotAClient)

	_, err = f.assignments.AssignProgram(f.ctx, f.coach.ID, primitive.NewObjectID(), p.ID, date(2024, 1, 1))
	assert.ErrorIs(t, err, service.ErrClientNotFound)

	_, err = f.assignments.AssignProgram(f.ctx, f.coach.ID, f.client.ID, primitive.NewObjectID(), date(2024, 1, 1))
	assert.ErrorIs(t, err, service.ErrProgramNotFound)
}
