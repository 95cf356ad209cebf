package memory

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUsers_EmailIsUniqueAndNormalized(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	id, err := store.Users.Create(ctx, &domain.User{Email: " Coach@Example.com ", PasswordHash: "x", Role: domain.RoleCoach})
	require.NoError(t, err)

	got, err := store.Users.GetByEmail(ctx, "coach@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = store.Users.Create(ctx, &domain.User{Email: "coach@example.com", PasswordHash: "y", Role: domain.RoleClient})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = store.Users.GetByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBlocks_ListedByPositionAcrossWorkouts(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	w1, w2 := primitive.NewObjectID(), primitive.NewObjectID()

	blocks := []domain.Block{
		{WorkoutID: w1, Name: "second", Position: 1},
		{WorkoutID: w2, Name: "other", Position: 0},
		{WorkoutID: w1, Name: "first", Position: 0},
	}
	require.NoError(t, store.Blocks.InsertMany(ctx, blocks))
	for _, b := range blocks {
		assert.False(t, b.ID.IsZero())
	}

	got, err := store.Blocks.ListByWorkoutIDs(ctx, []primitive.ObjectID{w1})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "second", got[1].Name)

	require.NoError(t, store.Blocks.DeleteByWorkoutIDs(ctx, []primitive.ObjectID{w1}))
	got, err = store.Blocks.ListByWorkoutIDs(ctx, []primitive.ObjectID{w1, w2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "other", got[0].Name)
}

func TestProgramDays_DuplicateSlotRejected(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	programID := primitive.NewObjectID()

	err := store.ProgramDays.InsertMany(ctx, []domain.ProgramDay{
		{ProgramID: programID, WeekNumber: 1, DayNumber: 1},
		{ProgramID: programID, WeekNumber: 1, DayNumber: 1},
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestAssignments_OnePerClient(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	clientID := primitive.NewObjectID()

	_, err := store.Assignments.Create(ctx, &domain.ClientTrainingAssignment{ClientID: clientID, ProgramID: primitive.NewObjectID()})
	require.NoError(t, err)
	_, err = store.Assignments.Create(ctx, &domain.ClientTrainingAssignment{ClientID: clientID, ProgramID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, store.Assignments.DeleteByClientID(ctx, clientID))
	_, err = store.Assignments.GetByClientID(ctx, clientID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDayLogs_LatestAndDistinctDays(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	clientID := primitive.NewObjectID()
	dayA, dayB, dayC := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	base := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)

	for i, dayID := range []primitive.ObjectID{dayA, dayA, dayB} {
		_, err := store.DayLogs.Create(ctx, &domain.ClientDayLog{
			ClientID:        clientID,
			DayID:           dayID,
			CompletedAt:     base.Add(time.Duration(i) * time.Hour),
			DurationMinutes: i + 1,
		})
		require.NoError(t, err)
	}

	latest, err := store.DayLogs.GetLatest(ctx, clientID, dayA)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.DurationMinutes)

	ok, err := store.DayLogs.Exists(ctx, clientID, dayC)
	require.NoError(t, err)
	assert.False(t, ok)

	ids, err := store.DayLogs.DayIDsWithLogs(ctx, clientID, []primitive.ObjectID{dayA, dayB, dayC})
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{dayA, dayB}, ids)
}

func TestActivityLogs_UpsertReplacesSameKey(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	log := domain.ClientActivityLog{
		ClientID:   primitive.NewObjectID(),
		ActivityID: primitive.NewObjectID(),
		DayID:      primitive.NewObjectID(),
		Type:       domain.ActivityWalking,
		Data:       domain.ActivityPayload{Steps: 4000, Completed: true},
	}

	first := log
	id1, err := store.ActivityLogs.Upsert(ctx, &first)
	require.NoError(t, err)

	second := log
	second.Data.Steps = 9000
	id2, err := store.ActivityLogs.Upsert(ctx, &second)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	logs, err := store.ActivityLogs.ListByClientAndDay(ctx, log.ClientID, log.DayID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 9000, logs[0].Data.Steps)
}
