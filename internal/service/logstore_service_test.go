package service_test

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"alcyxob/coaching-platform/internal/repository/memory"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// failingExerciseLogs stores the first row of a batch and then fails, like an ordered
// insert hitting a bad document.
type failingExerciseLogs struct {
	repository.ExerciseLogRepository
}

func (r failingExerciseLogs) InsertMany(ctx context.Context, logs []domain.ClientExerciseLog) error {
	if len(logs) > 0 {
		if err := r.ExerciseLogRepository.InsertMany(ctx, logs[:1]); err != nil {
			return err
		}
	}
	return errors.New("write concern timeout")
}

func TestLogStore_SaveAndListAll(t *testing.T) {
	f := newFixture(t)
	w := f.saveWorkout(t, "Fuerza", domain.Block{Name: "A", Exercises: []domain.WorkoutExercise{byName("Sentadilla", 3), byName("Press", 3)}})
	p := f.assignWithWorkout(t, w)
	day := p.Day(2, 1)

	older := &domain.ClientDayLog{ClientID: f.client.ID, DayID: day.ID, CompletedAt: date(2024, 1, 8), DurationMinutes: 30}
	require.NoError(t, f.logs.Save(f.ctx, older, nil))

	newer := &domain.ClientDayLog{ClientID: f.client.ID, DayID: day.ID, CompletedAt: date(2024, 1, 15), DurationMinutes: 42, EffortRating: 8}
	squat := w.Blocks[0].Exercises[0]
	require.NoError(t, f.logs.Save(f.ctx, newer, []domain.ClientExerciseLog{
		{WorkoutExerciseID: squat.ID, SetsCompleted: 2, RepsCompleted: "10,8", WeightUsed: "40,45", IsCompleted: true},
	}))

	history, err := f.logs.ListAll(f.ctx, f.client.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	latest := history[0]
	assert.Equal(t, newer.ID, latest.ID)
	assert.Equal(t, "Semana 2 · Lunes", latest.DayName)
	assert.Equal(t, 2, latest.WeekNumber)
	assert.Equal(t, 1, latest.DayNumber)
	require.Len(t, latest.Exercises, 1)
	assert.Equal(t, "Sentadilla", latest.Exercises[0].ExerciseName)
	assert.Equal(t, newer.ID, latest.Exercises[0].DayLogID)
	assert.Empty(t, history[1].Exercises)

	got, err := f.logs.GetLatest(f.ctx, f.client.ID, day.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)
}

func TestLogStore_GetLatestMissingIsNil(t *testing.T) {
	f := newFixture(t)

	got, err := f.logs.GetLatest(f.ctx, f.client.ID, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Nil(t, got)

	history, err := f.logs.ListAll(f.ctx, f.client.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestLogStore_BadgesByExistence(t *testing.T) {
	f := newFixture(t)
	done, open := primitive.NewObjectID(), primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		require.NoError(t, f.logs.Save(f.ctx, &domain.ClientDayLog{ClientID: f.client.ID, DayID: done, CompletedAt: time.Now()}, nil))
	}

	ok, err := f.logs.HasAnyLog(f.ctx, f.client.ID, done)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.logs.HasAnyLog(f.ctx, f.coach.ID, done)
	require.NoError(t, err)
	assert.False(t, ok)

	badges, err := f.logs.CompletedDays(f.ctx, f.client.ID, []primitive.ObjectID{done, open, done})
	require.NoError(t, err)
	assert.Equal(t, map[primitive.ObjectID]bool{done: true}, badges)
}

func TestLogStore_RollsBackDayLogWhenExerciseLogsFail(t *testing.T) {
	store := memory.NewStore()
	store.ExerciseLogs = failingExerciseLogs{store.ExerciseLogs}
	f := newFixtureWithStore(t, store)
	dayID := primitive.NewObjectID()
	dayLog := &domain.ClientDayLog{ClientID: f.client.ID, DayID: dayID}

	for attempt := 0; attempt < 2; attempt++ {
		err := f.logs.Save(f.ctx, dayLog, []domain.ClientExerciseLog{
			{WorkoutExerciseID: primitive.NewObjectID(), SetsCompleted: 1, IsCompleted: true},
			{WorkoutExerciseID: primitive.NewObjectID(), SetsCompleted: 2, IsCompleted: true},
		})
		var perr *domain.PersistenceError
		require.ErrorAs(t, err, &perr)

		ok, err := f.logs.HasAnyLog(f.ctx, f.client.ID, dayID)
		require.NoError(t, err)
		assert.False(t, ok)

		left, err := store.ExerciseLogs.ListByDayLogIDs(f.ctx, []primitive.ObjectID{dayLog.ID})
		require.NoError(t, err)
		assert.Empty(t, left, "attempt %d left exercise rows behind", attempt)
	}
}

func TestLogStore_SaveRequiresClientAndDay(t *testing.T) {
	f := newFixture(t)
	err := f.logs.Save(f.ctx, &domain.ClientDayLog{ClientID: f.client.ID}, nil)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}
