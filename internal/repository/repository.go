package repository

import (
	"alcyxob/coaching-platform/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Every collection below holds one entity level, linked to its parent by a foreign id.
// Child levels expose a "by parent ids" fetch so an aggregate is read with one query per level.
// InsertMany assigns a fresh ID to every element of the passed slice before inserting it.

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	SetCoach(ctx context.Context, clientID, coachID primitive.ObjectID) error
	// ListByCoach returns the clients linked to a coach ordered by name.
	ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
}

// ExerciseRepository is the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	GetByNameKey(ctx context.Context, nameKey string) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository stores workout root rows only.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	Update(ctx context.Context, workout *domain.Workout) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Workout, error)
	List(ctx context.Context) ([]domain.Workout, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// BlockRepository stores workout blocks.
type BlockRepository interface {
	InsertMany(ctx context.Context, blocks []domain.Block) error
	ListByWorkoutIDs(ctx context.Context, workoutIDs []primitive.ObjectID) ([]domain.Block, error)
	DeleteByWorkoutIDs(ctx context.Context, workoutIDs []primitive.ObjectID) error
}

// WorkoutExerciseRepository stores the exercises prescribed inside blocks.
type WorkoutExerciseRepository interface {
	InsertMany(ctx context.Context, exercises []domain.WorkoutExercise) error
	ListByBlockIDs(ctx context.Context, blockIDs []primitive.ObjectID) ([]domain.WorkoutExercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.WorkoutExercise, error)
	DeleteByBlockIDs(ctx context.Context, blockIDs []primitive.ObjectID) error
}

// ProgramRepository stores program root rows only.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.TrainingProgram) (primitive.ObjectID, error)
	Update(ctx context.Context, program *domain.TrainingProgram) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingProgram, error)
	List(ctx context.Context) ([]domain.TrainingProgram, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProgramDayRepository stores program days.
type ProgramDayRepository interface {
	InsertMany(ctx context.Context, days []domain.ProgramDay) error
	ListByProgramIDs(ctx context.Context, programIDs []primitive.ObjectID) ([]domain.ProgramDay, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.ProgramDay, error)
	DeleteByProgramIDs(ctx context.Context, programIDs []primitive.ObjectID) error
}

// ProgramActivityRepository stores the typed activities of program days.
type ProgramActivityRepository interface {
	InsertMany(ctx context.Context, activities []domain.ProgramActivity) error
	ListByDayIDs(ctx context.Context, dayIDs []primitive.ObjectID) ([]domain.ProgramActivity, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramActivity, error)
	DeleteByDayIDs(ctx context.Context, dayIDs []primitive.ObjectID) error
}

// AssignmentRepository stores client program assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.ClientTrainingAssignment) (primitive.ObjectID, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientTrainingAssignment, error)
	DeleteByClientID(ctx context.Context, clientID primitive.ObjectID) error
	ExistsForProgram(ctx context.Context, programID primitive.ObjectID) (bool, error)
}

// DayLogRepository stores finished workout sessions.
type DayLogRepository interface {
	Create(ctx context.Context, log *domain.ClientDayLog) (primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetLatest(ctx context.Context, clientID, dayID primitive.ObjectID) (*domain.ClientDayLog, error)
	ListByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ClientDayLog, error)
	Exists(ctx context.Context, clientID, dayID primitive.ObjectID) (bool, error)
	DayIDsWithLogs(ctx context.Context, clientID primitive.ObjectID, dayIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
}

// ExerciseLogRepository stores per-exercise rows of day logs.
type ExerciseLogRepository interface {
	InsertMany(ctx context.Context, logs []domain.ClientExerciseLog) error
	ListByDayLogIDs(ctx context.Context, dayLogIDs []primitive.ObjectID) ([]domain.ClientExerciseLog, error)
	DeleteByDayLogIDs(ctx context.Context, dayLogIDs []primitive.ObjectID) error
}

// ActivityLogRepository stores non-workout activity completions.
type ActivityLogRepository interface {
	Create(ctx context.Context, log *domain.ClientActivityLog) (primitive.ObjectID, error)
	// Upsert replaces the log keyed by (client, activity, day), inserting it when absent.
	Upsert(ctx context.Context, log *domain.ClientActivityLog) (primitive.ObjectID, error)
	ListByClientAndDay(ctx context.Context, clientID, dayID primitive.ObjectID) ([]domain.ClientActivityLog, error)
}

// UploadRepository stores metadata of uploaded photos.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error)
	ListByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Upload, error)
}

// Store bundles every repository of one backend.
type Store struct {
	Users            UserRepository
	Exercises        ExerciseRepository
	Workouts         WorkoutRepository
	Blocks           BlockRepository
	WorkoutExercises WorkoutExerciseRepository
	Programs         ProgramRepository
	ProgramDays      ProgramDayRepository
	Activities       ProgramActivityRepository
	Assignments      AssignmentRepository
	DayLogs          DayLogRepository
	ExerciseLogs     ExerciseLogRepository
	ActivityLogs     ActivityLogRepository
	Uploads          UploadRepository
}
