package service_test

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/service"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSaveWorkout_AssemblesInPositionOrder(t *testing.T) {
	f := newFixture(t)

	w := f.saveWorkout(t, "Full body",
		domain.Block{Name: "Calentamiento", Exercises: []domain.WorkoutExercise{byName("Movilidad", 1)}},
		domain.Block{Name: "Principal", Exercises: []domain.WorkoutExercise{byName("Sentadilla", 3), byName("Press", 3), byName("Remo", 3)}},
	)

	require.Len(t, w.Blocks, 2)
	assert.Equal(t, "Calentamiento", w.Blocks[0].Name)
	assert.Equal(t, 0, w.Blocks[0].Position)
	assert.Equal(t, 1, w.Blocks[1].Position)

	main := w.Blocks[1].Exercises
	require.Len(t, main, 3)
	for i, name := range []string{"Sentadilla", "Press", "Remo"} {
		assert.Equal(t, i, main[i].Position)
		assert.Equal(t, w.Blocks[1].ID, main[i].BlockID)
		require.NotNil(t, main[i].Exercise)
		assert.Equal(t, name, main[i].Exercise.Name)
	}

	got, err := f.workouts.GetWorkout(f.ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Blocks[1].Exercises[2].ID, got.Blocks[1].Exercises[2].ID)
}

func TestSaveWorkout_ReusesCatalogEntriesByName(t *testing.T) {
	f := newFixture(t)

	f.saveWorkout(t, "A", domain.Block{Name: "B", Exercises: []domain.WorkoutExercise{byName("Sentadilla", 3)}})
	f.saveWorkout(t, "B", domain.Block{Name: "B", Exercises: []domain.WorkoutExercise{byName("  sentadilla ", 3)}})

	catalog, err := f.exercises.ListExercises(f.ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, 1)
}

func TestSaveWorkout_FullReplaceDropsOldChildren(t *testing.T) {
	f := newFixture(t)

	w := f.saveWorkout(t, "Fuerza",
		domain.Block{Name: "A", Exercises: []domain.WorkoutExercise{byName("E1", 3), byName("E2", 3), byName("E3", 3)}},
		domain.Block{Name: "B", Exercises: []domain.WorkoutExercise{byName("E4", 3), byName("E5", 3)}},
	)
	oldBlockIDs := []primitive.ObjectID{w.Blocks[0].ID, w.Blocks[1].ID}

	w.Blocks = []domain.Block{{Name: "Solo", Exercises: []domain.WorkoutExercise{byName("E1", 4), byName("E5", 2)}}}
	saved, err := f.workouts.SaveWorkout(f.ctx, f.coach.ID, w)
	require.NoError(t, err)

	blocks, err := f.store.Blocks.ListByWorkoutIDs(f.ctx, []primitive.ObjectID{w.ID})
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.NotContains(t, oldBlockIDs, blocks[0].ID)

	exercises, err := f.store.WorkoutExercises.ListByBlockIDs(f.ctx, []primitive.ObjectID{blocks[0].ID})
	require.NoError(t, err)
	assert.Len(t, exercises, 2)

	orphans, err := f.store.WorkoutExercises.ListByBlockIDs(f.ctx, oldBlockIDs)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	require.Len(t, saved.Blocks, 1)
	assert.Equal(t, 4, saved.Blocks[0].Exercises[0].Sets)
}

func TestSaveWorkout_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		workout domain.Workout
	}{
		{"missing name", domain.Workout{}},
		{"zero sets", domain.Workout{Name: "x", Blocks: []domain.Block{{Exercises: []domain.WorkoutExercise{byName("E", 0)}}}}},
		{"no exercise ref", domain.Workout{Name: "x", Blocks: []domain.Block{{Exercises: []domain.WorkoutExercise{{Sets: 3}}}}}},
		{"unknown exercise", domain.Workout{Name: "x", Blocks: []domain.Block{{Exercises: []domain.WorkoutExercise{{ExerciseID: primitive.NewObjectID(), Sets: 3}}}}}},
		{"negative rest", domain.Workout{Name: "x", Blocks: []domain.Block{{Exercises: []domain.WorkoutExercise{{Exercise: &domain.Exercise{Name: "E"}, Sets: 3, RestSeconds: -1}}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.workout
			_, err := f.workouts.SaveWorkout(f.ctx, f.coach.ID, &w)
			var verr *domain.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestDeleteWorkout_RemovesDescendants(t *testing.T) {
	f := newFixture(t)
	w := f.saveWorkout(t, "Borrar", domain.Block{Name: "A", Exercises: []domain.WorkoutExercise{byName("E1", 3)}})
	blockID := w.Blocks[0].ID

	require.NoError(t, f.workouts.DeleteWorkout(f.ctx, w.ID))

	_, err := f.workouts.GetWorkout(f.ctx, w.ID)
	assert.ErrorIs(t, err, service.ErrWorkoutNotFound)
	rows, err := f.store.WorkoutExercises.ListByBlockIDs(f.ctx, []primitive.ObjectID{blockID})
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.ErrorIs(t, f.workouts.DeleteWorkout(f.ctx, w.ID), service.ErrWorkoutNotFound)
}

func TestGroupBlock_ClustersSupersets(t *testing.T) {
	f := newFixture(t)
	a, b, c := byName("A", 3), byName("B", 3), byName("C", 2)
	a.SupersetID, b.SupersetID = "s1", "s1"
	w := f.saveWorkout(t, "Superserie", domain.Block{Name: "Main", Exercises: []domain.WorkoutExercise{a, c, b}})

	groups := f.workouts.GroupBlock(&w.Blocks[0])
	require.Len(t, groups, 2)
	assert.Equal(t, "s1", groups[0].ID)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, 3, groups[0].Rounds)
	assert.Len(t, groups[1].Items, 1)
}
