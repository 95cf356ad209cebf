// internal/repository/mongo/log_repo.go
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
	dayLogCollectionName      = "client_day_logs"
	exerciseLogCollectionName = "client_exercise_logs"
	activityLogCollectionName = "client_activity_logs"
)

var dayLogIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "dayId", Value: 1}, {Key: "completedAt", Value: -1}},
		Options: options.Index(),
	},
}

var exerciseLogIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "dayLogId", Value: 1}},
		Options: options.Index(),
	},
}

var activityLogIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "dayId", Value: 1}, {Key: "activityId", Value: 1}},
		Options: options.Index(),
	},
}

// mongoDayLogRepository implements repository.DayLogRepository
type mongoDayLogRepository struct {
	logs table[domain.ClientDayLog]
}

// NewMongoDayLogRepository creates a new DayLog repository.
func NewMongoDayLogRepository(db *mongo.Database) repository.DayLogRepository {
	return &mongoDayLogRepository{logs: newTable[domain.ClientDayLog](db, dayLogCollectionName)}
}

func (r *mongoDayLogRepository) Create(ctx context.Context, log *domain.ClientDayLog) (primitive.ObjectID, error) {
	if log.ClientID == primitive.NilObjectID || log.DayID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("day log requires clientId and dayId")
	}
	log.ID = primitive.NewObjectID()
	if log.CompletedAt.IsZero() {
		log.CompletedAt = time.Now().UTC()
	}
	return r.logs.insertOne(ctx, log)
}

func (r *mongoDayLogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.logs.deleteByID(ctx, id)
}

// GetLatest returns the most recently completed log of a client for a day.
func (r *mongoDayLogRepository) GetLatest(ctx context.Context, clientID, dayID primitive.ObjectID) (*domain.ClientDayLog, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "completedAt", Value: -1}})
	return r.logs.findOne(ctx, bson.M{"clientId": clientID, "dayId": dayID}, opts)
}

// ListByClientID returns every day log of a client, newest first.
func (r *mongoDayLogRepository) ListByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ClientDayLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}})
	return r.logs.findMany(ctx, bson.M{"clientId": clientID}, opts)
}

func (r *mongoDayLogRepository) Exists(ctx context.Context, clientID, dayID primitive.ObjectID) (bool, error) {
	count, err := r.logs.collection.CountDocuments(ctx, bson.M{"clientId": clientID, "dayId": dayID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DayIDsWithLogs returns the subset of dayIDs the client has at least one log for.
func (r *mongoDayLogRepository) DayIDsWithLogs(ctx context.Context, clientID primitive.ObjectID, dayIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(dayIDs) == 0 {
		return []primitive.ObjectID{}, nil
	}
	values, err := r.logs.collection.Distinct(ctx, "dayId", bson.M{
		"clientId": clientID,
		"dayId":    bson.M{"$in": dayIDs},
	})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// mongoExerciseLogRepository implements repository.ExerciseLogRepository
type mongoExerciseLogRepository struct {
	logs table[domain.ClientExerciseLog]
}

// NewMongoExerciseLogRepository creates a new ExerciseLog repository.
func NewMongoExerciseLogRepository(db *mongo.Database) repository.ExerciseLogRepository {
	return &mongoExerciseLogRepository{logs: newTable[domain.ClientExerciseLog](db, exerciseLogCollectionName)}
}

func (r *mongoExerciseLogRepository) InsertMany(ctx context.Context, logs []domain.ClientExerciseLog) error {
	for i := range logs {
		if logs[i].DayLogID == primitive.NilObjectID {
			return errors.New("exercise log requires dayLogId")
		}
		logs[i].ID = primitive.NewObjectID()
	}
	return r.logs.insertMany(ctx, logs)
}

func (r *mongoExerciseLogRepository) ListByDayLogIDs(ctx context.Context, dayLogIDs []primitive.ObjectID) ([]domain.ClientExerciseLog, error) {
	return r.logs.findIn(ctx, "dayLogId", dayLogIDs, nil)
}

func (r *mongoExerciseLogRepository) DeleteByDayLogIDs(ctx context.Context, dayLogIDs []primitive.ObjectID) error {
	return r.logs.deleteIn(ctx, "dayLogId", dayLogIDs)
}

// mongoActivityLogRepository implements repository.ActivityLogRepository
type mongoActivityLogRepository struct {
	logs table[domain.ClientActivityLog]
}

// NewMongoActivityLogRepository creates a new ActivityLog repository.
func NewMongoActivityLogRepository(db *mongo.Database) repository.ActivityLogRepository {
	return &mongoActivityLogRepository{logs: newTable[domain.ClientActivityLog](db, activityLogCollectionName)}
}

func (r *mongoActivityLogRepository) Create(ctx context.Context, log *domain.ClientActivityLog) (primitive.ObjectID, error) {
	if err := validateActivityLog(log); err != nil {
		return primitive.NilObjectID, err
	}
	log.ID = primitive.NewObjectID()
	return r.logs.insertOne(ctx, log)
}

// Upsert replaces the log of (client, activity, day), keeping the existing ID when there is one.
func (r *mongoActivityLogRepository) Upsert(ctx context.Context, log *domain.ClientActivityLog) (primitive.ObjectID, error) {
	if err := validateActivityLog(log); err != nil {
		return primitive.NilObjectID, err
	}
	filter := bson.M{"clientId": log.ClientID, "activityId": log.ActivityID, "dayId": log.DayID}

	existing, err := r.logs.findOne(ctx, filter)
	switch {
	case err == nil:
		log.ID = existing.ID
	case errors.Is(err, repository.ErrNotFound):
		log.ID = primitive.NewObjectID()
	default:
		return primitive.NilObjectID, err
	}

	if _, err := r.logs.collection.ReplaceOne(ctx, filter, log, options.Replace().SetUpsert(true)); err != nil {
		return primitive.NilObjectID, err
	}
	return log.ID, nil
}

// ListByClientAndDay returns the activity logs of a client for a day, oldest first.
func (r *mongoActivityLogRepository) ListByClientAndDay(ctx context.Context, clientID, dayID primitive.ObjectID) ([]domain.ClientActivityLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: 1}})
	return r.logs.findMany(ctx, bson.M{"clientId": clientID, "dayId": dayID}, opts)
}

func validateActivityLog(log *domain.ClientActivityLog) error {
	if log.ClientID == primitive.NilObjectID || log.ActivityID == primitive.NilObjectID || log.DayID == primitive.NilObjectID {
		return errors.New("activity log requires clientId, activityId and dayId")
	}
	if log.CompletedAt.IsZero() {
		log.CompletedAt = time.Now().UTC()
	}
	return nil
}
