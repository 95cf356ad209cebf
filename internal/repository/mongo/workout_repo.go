// internal/repository/mongo/workout_repo.go
package mongo

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	workoutCollectionName         = "workouts"
	blockCollectionName           = "workout_blocks"
	workoutExerciseCollectionName = "workout_exercises"
)

var blockIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "workoutId", Value: 1}, {Key: "position", Value: 1}},
		Options: options.Index(),
	},
}

var workoutExerciseIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "blockId", Value: 1}, {Key: "position", Value: 1}},
		Options: options.Index(),
	},
	{
		Keys:    bson.D{{Key: "exerciseId", Value: 1}},
		Options: options.Index(),
	},
}

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	workouts table[domain.Workout]
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{workouts: newTable[domain.Workout](db, workoutCollectionName)}
}

// Create inserts a new workout root row.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.Name == "" {
		return primitive.NilObjectID, errors.New("workout requires a name")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	return r.workouts.insertOne(ctx, workout)
}

// Update rewrites the root fields of a workout. Blocks are handled by the block repository.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}
	workout.UpdatedAt = time.Now().UTC()
	return r.workouts.updateByID(ctx, workout.ID, bson.M{
		"name":        workout.Name,
		"description": workout.Description,
		"goal":        workout.Goal,
		"notes":       workout.Notes,
		"updatedAt":   workout.UpdatedAt,
	})
}

// GetByID retrieves a single workout root row.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	return r.workouts.findOne(ctx, bson.M{"_id": id})
}

// GetByIDs retrieves several workout root rows in one query.
func (r *mongoWorkoutRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Workout, error) {
	return r.workouts.findIn(ctx, "_id", ids, nil)
}

// List returns all workouts, most recently updated first.
func (r *mongoWorkoutRepository) List(ctx context.Context) ([]domain.Workout, error) {
	return r.workouts.findMany(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}))
}

// Delete removes the root row only.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.workouts.deleteByID(ctx, id)
}

// mongoBlockRepository implements repository.BlockRepository
type mongoBlockRepository struct {
	blocks table[domain.Block]
}

// NewMongoBlockRepository creates a new Block repository.
func NewMongoBlockRepository(db *mongo.Database) repository.BlockRepository {
	return &mongoBlockRepository{blocks: newTable[domain.Block](db, blockCollectionName)}
}

func (r *mongoBlockRepository) InsertMany(ctx context.Context, blocks []domain.Block) error {
	for i := range blocks {
		if blocks[i].WorkoutID == primitive.NilObjectID {
			return errors.New("block requires workoutId")
		}
		blocks[i].ID = primitive.NewObjectID()
	}
	return r.blocks.insertMany(ctx, blocks)
}

func (r *mongoBlockRepository) ListByWorkoutIDs(ctx context.Context, workoutIDs []primitive.ObjectID) ([]domain.Block, error) {
	return r.blocks.findIn(ctx, "workoutId", workoutIDs, bson.D{{Key: "position", Value: 1}})
}

func (r *mongoBlockRepository) DeleteByWorkoutIDs(ctx context.Context, workoutIDs []primitive.ObjectID) error {
	return r.blocks.deleteIn(ctx, "workoutId", workoutIDs)
}

// mongoWorkoutExerciseRepository implements repository.WorkoutExerciseRepository
type mongoWorkoutExerciseRepository struct {
	exercises table[domain.WorkoutExercise]
}

// NewMongoWorkoutExerciseRepository creates a new WorkoutExercise repository.
func NewMongoWorkoutExerciseRepository(db *mongo.Database) repository.WorkoutExerciseRepository {
	return &mongoWorkoutExerciseRepository{exercises: newTable[domain.WorkoutExercise](db, workoutExerciseCollectionName)}
}

func (r *mongoWorkoutExerciseRepository) InsertMany(ctx context.Context, exercises []domain.WorkoutExercise) error {
	for i := range exercises {
		if exercises[i].BlockID == primitive.NilObjectID || exercises[i].ExerciseID == primitive.NilObjectID {
			return errors.New("workout exercise requires blockId and exerciseId")
		}
		exercises[i].ID = primitive.NewObjectID()
	}
	return r.exercises.insertMany(ctx, exercises)
}

func (r *mongoWorkoutExerciseRepository) ListByBlockIDs(ctx context.Context, blockIDs []primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	return r.exercises.findIn(ctx, "blockId", blockIDs, bson.D{{Key: "position", Value: 1}})
}

func (r *mongoWorkoutExerciseRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	return r.exercises.findIn(ctx, "_id", ids, nil)
}

func (r *mongoWorkoutExerciseRepository) DeleteByBlockIDs(ctx context.Context, blockIDs []primitive.ObjectID) error {
	return r.exercises.deleteIn(ctx, "blockId", blockIDs)
}
