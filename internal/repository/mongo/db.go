package mongo

import (
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary, the connect call alone does not prove the server answers.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewStore wires every repository against one database.
func NewStore(db *mongo.Database) repository.Store {
	return repository.Store{
		Users:            NewMongoUserRepository(db),
		Exercises:        NewMongoExerciseRepository(db),
		Workouts:         NewMongoWorkoutRepository(db),
		Blocks:           NewMongoBlockRepository(db),
		WorkoutExercises: NewMongoWorkoutExerciseRepository(db),
		Programs:         NewMongoProgramRepository(db),
		ProgramDays:      NewMongoProgramDayRepository(db),
		Activities:       NewMongoProgramActivityRepository(db),
		Assignments:      NewMongoAssignmentRepository(db),
		DayLogs:          NewMongoDayLogRepository(db),
		ExerciseLogs:     NewMongoExerciseLogRepository(db),
		ActivityLogs:     NewMongoActivityLogRepository(db),
		Uploads:          NewMongoUploadRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection. Failures are logged, not fatal.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	ensure := []struct {
		collection string
		indexes    []mongo.IndexModel
	}{
		{userCollectionName, userIndexes},
		{exerciseCollectionName, exerciseIndexes},
		{blockCollectionName, blockIndexes},
		{workoutExerciseCollectionName, workoutExerciseIndexes},
		{programDayCollectionName, programDayIndexes},
		{programActivityCollectionName, programActivityIndexes},
		{assignmentCollectionName, assignmentIndexes},
		{dayLogCollectionName, dayLogIndexes},
		{exerciseLogCollectionName, exerciseLogIndexes},
		{activityLogCollectionName, activityLogIndexes},
		{uploadCollectionName, uploadIndexes},
	}
	for _, e := range ensure {
		if _, err := db.Collection(e.collection).Indexes().CreateMany(ctx, e.indexes); err != nil {
			log.Warnf("failed to create indexes for collection %s: %s", e.collection, err)
			continue
		}
		log.Debugf("indexes ensured for collection %s", e.collection)
	}
}
