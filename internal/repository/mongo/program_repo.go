// internal/repository/mongo/program_repo.go
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
	programCollectionName         = "training_programs"
	programDayCollectionName      = "program_days"
	programActivityCollectionName = "program_activities"
)

var programDayIndexes = []mongo.IndexModel{
	{
		// one row per (program, week, weekday)
		Keys: bson.D{
			{Key: "programId", Value: 1},
			{Key: "weekNumber", Value: 1},
			{Key: "dayNumber", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	},
}

var programActivityIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "dayId", Value: 1}, {Key: "position", Value: 1}},
		Options: options.Index(),
	},
}

// mongoProgramRepository implements repository.ProgramRepository
type mongoProgramRepository struct {
	programs table[domain.TrainingProgram]
}

// NewMongoProgramRepository creates a new Program repository.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{programs: newTable[domain.TrainingProgram](db, programCollectionName)}
}

// Create inserts a new program root row.
func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.TrainingProgram) (primitive.ObjectID, error) {
	if program.Name == "" {
		return primitive.NilObjectID, errors.New("program requires a name")
	}
	program.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	return r.programs.insertOne(ctx, program)
}

// Update rewrites the root fields of a program.
func (r *mongoProgramRepository) Update(ctx context.Context, program *domain.TrainingProgram) error {
	if program.ID == primitive.NilObjectID {
		return errors.New("program ID is required for update")
	}
	program.UpdatedAt = time.Now().UTC()
	return r.programs.updateByID(ctx, program.ID, bson.M{
		"name":        program.Name,
		"description": program.Description,
		"weeksCount":  program.WeeksCount,
		"updatedAt":   program.UpdatedAt,
	})
}

func (r *mongoProgramRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingProgram, error) {
	return r.programs.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoProgramRepository) List(ctx context.Context) ([]domain.TrainingProgram, error) {
	return r.programs.findMany(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}))
}

func (r *mongoProgramRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.programs.deleteByID(ctx, id)
}

// mongoProgramDayRepository implements repository.ProgramDayRepository
type mongoProgramDayRepository struct {
	days table[domain.ProgramDay]
}

// NewMongoProgramDayRepository creates a new ProgramDay repository.
func NewMongoProgramDayRepository(db *mongo.Database) repository.ProgramDayRepository {
	return &mongoProgramDayRepository{days: newTable[domain.ProgramDay](db, programDayCollectionName)}
}

func (r *mongoProgramDayRepository) InsertMany(ctx context.Context, days []domain.ProgramDay) error {
	for i := range days {
		if days[i].ProgramID == primitive.NilObjectID {
			return errors.New("program day requires programId")
		}
		days[i].ID = primitive.NewObjectID()
	}
	err := r.days.insertMany(ctx, days)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *mongoProgramDayRepository) ListByProgramIDs(ctx context.Context, programIDs []primitive.ObjectID) ([]domain.ProgramDay, error) {
	return r.days.findIn(ctx, "programId", programIDs, bson.D{{Key: "position", Value: 1}})
}

func (r *mongoProgramDayRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.ProgramDay, error) {
	return r.days.findIn(ctx, "_id", ids, nil)
}

func (r *mongoProgramDayRepository) DeleteByProgramIDs(ctx context.Context, programIDs []primitive.ObjectID) error {
	return r.days.deleteIn(ctx, "programId", programIDs)
}

// mongoProgramActivityRepository implements repository.ProgramActivityRepository
type mongoProgramActivityRepository struct {
	activities table[domain.ProgramActivity]
}

// NewMongoProgramActivityRepository creates a new ProgramActivity repository.
func NewMongoProgramActivityRepository(db *mongo.Database) repository.ProgramActivityRepository {
	return &mongoProgramActivityRepository{activities: newTable[domain.ProgramActivity](db, programActivityCollectionName)}
}

func (r *mongoProgramActivityRepository) InsertMany(ctx context.Context, activities []domain.ProgramActivity) error {
	for i := range activities {
		if activities[i].DayID == primitive.NilObjectID {
			return errors.New("program activity requires dayId")
		}
		activities[i].ID = primitive.NewObjectID()
	}
	return r.activities.insertMany(ctx, activities)
}

func (r *mongoProgramActivityRepository) ListByDayIDs(ctx context.Context, dayIDs []primitive.ObjectID) ([]domain.ProgramActivity, error) {
	return r.activities.findIn(ctx, "dayId", dayIDs, bson.D{{Key: "position", Value: 1}})
}

func (r *mongoProgramActivityRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramActivity, error) {
	return r.activities.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoProgramActivityRepository) DeleteByDayIDs(ctx context.Context, dayIDs []primitive.ObjectID) error {
	return r.activities.deleteIn(ctx, "dayId", dayIDs)
}
