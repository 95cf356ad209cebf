package service_test

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/service"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// countingWorkouts counts reads reaching the wrapped service.
type countingWorkouts struct {
	service.WorkoutService
	reads int
}

func (c *countingWorkouts) GetWorkout(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	c.reads++
	return c.WorkoutService.GetWorkout(ctx, id)
}

func TestCachedWorkouts(t *testing.T) {
	f := newFixture(t)
	inner := &countingWorkouts{WorkoutService: f.workouts}
	cached := service.NewCachedWorkoutService(inner, 1024*1024, time.Minute)

	w, err := cached.SaveWorkout(f.ctx, f.coach.ID, &domain.Workout{
		Name:   "Fuerza",
		Blocks: []domain.Block{{Name: "A", Exercises: []domain.WorkoutExercise{byName("Sentadilla", 3)}}},
	})
	require.NoError(t, err)

	first, err := cached.GetWorkout(f.ctx, w.ID)
	require.NoError(t, err)
	second, err := cached.GetWorkout(f.ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.reads)
	assert.Equal(t, first.Blocks[0].Exercises[0].ID, second.Blocks[0].Exercises[0].ID)
	require.NotNil(t, second.Blocks[0].Exercises[0].Exercise)
	assert.Equal(t, "Sentadilla", second.Blocks[0].Exercises[0].Exercise.Name)

	// a save through the cache drops the stale entry
	w.Name = "Fuerza II"
	_, err = cached.SaveWorkout(f.ctx, f.coach.ID, w)
	require.NoError(t, err)
	third, err := cached.GetWorkout(f.ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fuerza II", third.Name)
	assert.Equal(t, 2, inner.reads)

	require.NoError(t, cached.DeleteWorkout(f.ctx, w.ID))
	_, err = cached.GetWorkout(f.ctx, w.ID)
	assert.ErrorIs(t, err, service.ErrWorkoutNotFound)
}

func TestCachedWorkouts_DisabledByZeroTTL(t *testing.T) {
	f := newFixture(t)
	assert.Same(t, f.workouts, service.NewCachedWorkoutService(f.workouts, 1024, 0))
}
