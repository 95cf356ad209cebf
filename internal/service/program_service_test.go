package service_test

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/service"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSaveProgram_OrdersDaysAndActivities(t *testing.T) {
	f := newFixture(t)
	w := f.saveWorkout(t, "Fuerza", domain.Block{Name: "A", Exercises: []domain.WorkoutExercise{byName("E1", 3)}})

	p := f.assignWithWorkout(t, w)

	require.Len(t, p.Days, 2)
	assert.Equal(t, 1, p.Days[0].WeekNumber)
	assert.Equal(t, 0, p.Days[0].Position)
	assert.Equal(t, 2, p.Days[1].WeekNumber)

	monday := p.Day(2, 1)
	require.NotNil(t, monday)
	require.Len(t, monday.Activities, 5)
	for i, a := range monday.Activities {
		assert.Equal(t, i, a.Position)
		assert.Equal(t, monday.ID, a.DayID)
	}
	assert.Nil(t, p.Day(3, 1))

	act := monday.WorkoutActivity()
	require.NotNil(t, act)
	assert.Equal(t, w.ID, *act.RefID)
}

func TestSaveProgram_ResaveReplacesDays(t *testing.T) {
	f := newFixture(t)
	p, err := f.programs.SaveProgram(f.ctx, f.coach.ID, &domain.TrainingProgram{
		Name:       "Base",
		WeeksCount: 2,
		Days: []domain.ProgramDay{
			{WeekNumber: 1, DayNumber: 1, Activities: []domain.ProgramActivity{{Type: domain.ActivityWalking}}},
			{WeekNumber: 1, DayNumber: 2, Activities: []domain.ProgramActivity{{Type: domain.ActivityCustom}}},
			{WeekNumber: 2, DayNumber: 1},
		},
	})
	require.NoError(t, err)
	oldDays := []primitive.ObjectID{p.Days[0].ID, p.Days[1].ID, p.Days[2].ID}

	p.Days = []domain.ProgramDay{{WeekNumber: 2, DayNumber: 5, Activities: []domain.ProgramActivity{{Type: domain.ActivityMetrics}}}}
	p, err = f.programs.SaveProgram(f.ctx, f.coach.ID, p)
	require.NoError(t, err)

	days, err := f.store.ProgramDays.ListByProgramIDs(f.ctx, []primitive.ObjectID{p.ID})
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 5, days[0].DayNumber)

	orphans, err := f.store.Activities.ListByDayIDs(f.ctx, oldDays)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestSaveProgram_Validation(t *testing.T) {
	f := newFixture(t)
	missing := primitive.NewObjectID()

	tests := []struct {
		name    string
		program domain.TrainingProgram
	}{
		{"missing name", domain.TrainingProgram{WeeksCount: 1}},
		{"no weeks", domain.TrainingProgram{Name: "x"}},
		{"week out of range", domain.TrainingProgram{Name: "x", WeeksCount: 1, Days: []domain.ProgramDay{{WeekNumber: 2, DayNumber: 1}}}},
		{"day out of range", domain.TrainingProgram{Name: "x", WeeksCount: 1, Days: []domain.ProgramDay{{WeekNumber: 1, DayNumber: 8}}}},
		{"duplicate slot", domain.TrainingProgram{Name: "x", WeeksCount: 1, Days: []domain.ProgramDay{{WeekNumber: 1, DayNumber: 1}, {WeekNumber: 1, DayNumber: 1}}}},
		{"unknown type", domain.TrainingProgram{Name: "x", WeeksCount: 1, Days: []domain.ProgramDay{{WeekNumber: 1, DayNumber: 1, Activities: []domain.ProgramActivity{{Type: "yoga"}}}}}},
		{"workout without ref", domain.TrainingProgram{Name: "x", WeeksCount: 1, Days: []domain.ProgramDay{{WeekNumber: 1, DayNumber: 1, Activities: []domain.ProgramActivity{{Type: domain.ActivityWorkout}}}}}},
		{"dangling workout", domain.TrainingProgram{Name: "x", WeeksCount: 1, Days: []domain.ProgramDay{{WeekNumber: 1, DayNumber: 1, Activities: []domain.ProgramActivity{{Type: domain.ActivityWorkout, RefID: &missing}}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.program
			_, err := f.programs.SaveProgram(f.ctx, f.coach.ID, &p)
			var verr *domain.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestDeleteProgram(t *testing.T) {
	f := newFixture(t)
	p, err := f.programs.SaveProgram(f.ctx, f.coach.ID, &domain.TrainingProgram{
		Name: "Tmp", WeeksCount: 1,
		Days: []domain.ProgramDay{{WeekNumber: 1, DayNumber: 1, Activities: []domain.ProgramActivity{{Type: domain.ActivityWalking}}}},
	})
	require.NoError(t, err)

	require.NoError(t, f.programs.DeleteProgram(f.ctx, p.ID))
	_, err = f.programs.GetProgram(f.ctx, p.ID)
	assert.ErrorIs(t, err, service.ErrProgramNotFound)

	days, err := f.store.ProgramDays.ListByProgramIDs(f.ctx, []primitive.ObjectID{p.ID})
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestDeleteProgram_RefusedWhileAssigned(t *testing.T) {
	f := newFixture(t)
	w := f.saveWorkout(t, "Fuerza", domain.Block{Name: "A", Exercises: []domain.WorkoutExercise{byName("Sentadilla", 3)}})
	p := f.assignWithWorkout(t, w)

	assert.ErrorIs(t, f.programs.DeleteProgram(f.ctx, p.ID), service.ErrProgramInUse)
	_, err := f.programs.GetProgram(f.ctx, p.ID)
	require.NoError(t, err)
	today, err := f.assignments.ResolveToday(f.ctx, f.client.ID, date(2024, 1, 8))
	require.NoError(t, err)
	assert.NotNil(t, today)

	require.NoError(t, f.assignments.UnassignProgram(f.ctx, f.client.ID))
	require.NoError(t, f.programs.DeleteProgram(f.ctx, p.ID))
}
