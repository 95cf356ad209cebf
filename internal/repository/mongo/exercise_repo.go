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

const exerciseCollectionName = "exercises"

var exerciseIndexes = []mongo.IndexModel{
	{
		// find-or-create by name relies on this being unique
		Keys:    bson.D{{Key: "nameKey", Value: 1}},
		Options: options.Index().SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "muscleMain", Value: 1}},
		Options: options.Index(),
	},
	{
		Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "instructions", Value: "text"}},
		Options: options.Index().SetName("exercise_text_search"),
	},
}

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	exercises table[domain.Exercise]
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{exercises: newTable[domain.Exercise](db, exerciseCollectionName)}
}

// Create inserts a new exercise into the catalog.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" || exercise.NameKey == "" {
		return primitive.NilObjectID, errors.New("exercise name is required")
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	return r.exercises.insertOne(ctx, exercise)
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	return r.exercises.findOne(ctx, bson.M{"_id": id})
}

// GetByIDs resolves a set of exercise references in one query.
func (r *mongoExerciseRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	return r.exercises.findIn(ctx, "_id", ids, nil)
}

// GetByNameKey finds an exercise by its normalized name.
func (r *mongoExerciseRepository) GetByNameKey(ctx context.Context, nameKey string) (*domain.Exercise, error) {
	return r.exercises.findOne(ctx, bson.M{"nameKey": nameKey})
}

// List returns the whole catalog sorted by name.
func (r *mongoExerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	return r.exercises.findMany(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

// Update modifies an existing exercise and bumps UpdatedAt.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}
	exercise.UpdatedAt = time.Now().UTC()
	return r.exercises.updateByID(ctx, exercise.ID, bson.M{
		"name":            exercise.Name,
		"nameKey":         exercise.NameKey,
		"mediaType":       exercise.MediaType,
		"mediaUrl":        exercise.MediaURL,
		"instructions":    exercise.Instructions,
		"muscleMain":      exercise.MuscleMain,
		"muscleSecondary": exercise.MuscleSecondary,
		"equipment":       exercise.Equipment,
		"level":           exercise.Level,
		"tags":            exercise.Tags,
		"updatedAt":       exercise.UpdatedAt,
	})
}

// Delete removes an exercise from the catalog.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.exercises.deleteByID(ctx, id)
}
