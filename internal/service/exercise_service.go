package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to modify or delete this exercise")
)

// ExerciseInput carries the editable fields of a catalog entry.
type ExerciseInput struct {
	Name            string           `json:"name"`
	MediaType       domain.MediaType `json:"mediaType"`
	MediaURL        string           `json:"mediaUrl"`
	Instructions    string           `json:"instructions"`
	MuscleMain      string           `json:"muscleMain"`
	MuscleSecondary []string         `json:"muscleSecondary"`
	Equipment       []string         `json:"equipment"`
	Level           string           `json:"level"`
	Tags            []string         `json:"tags"`
}

// ExerciseService is the exercise catalog.
type ExerciseService interface {
	CreateExercise(ctx context.Context, coachID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	GetExercise(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, coachID, exerciseID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, coachID, exerciseID primitive.ObjectID) error
	// FindOrCreateByName returns the catalog entry with this name, ignoring case and
	// surrounding blanks, creating a bare one when missing.
	FindOrCreateByName(ctx context.Context, coachID primitive.ObjectID, name string) (*domain.Exercise, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
	}
}

// NameKey normalizes an exercise name for lookups.
func NameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func (in ExerciseInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.NewValidationError("name", "is required")
	}
	if in.MediaType != "" && !in.MediaType.IsValid() {
		return domain.NewValidationError("mediaType", "must be youtube, vimeo, image or none")
	}
	return nil
}

func (in ExerciseInput) apply(e *domain.Exercise) {
	e.Name = strings.TrimSpace(in.Name)
	e.NameKey = NameKey(in.Name)
	e.MediaType = in.MediaType
	if e.MediaType == "" {
		e.MediaType = domain.MediaNone
	}
	e.MediaURL = in.MediaURL
	e.Instructions = in.Instructions
	e.MuscleMain = in.MuscleMain
	e.MuscleSecondary = in.MuscleSecondary
	e.Equipment = in.Equipment
	e.Level = in.Level
	e.Tags = in.Tags
}

// CreateExercise adds a new entry to the catalog.
func (s *exerciseService) CreateExercise(ctx context.Context, coachID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	exercise := &domain.Exercise{CreatedBy: coachID}
	in.apply(exercise)

	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.NewValidationError("name", "an exercise with this name already exists")
		}
		return nil, domain.Persist("create exercise", err)
	}
	return exercise, nil
}

// GetExercise retrieves a single exercise.
func (s *exerciseService) GetExercise(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, domain.Persist("get exercise", err)
	}
	return exercise, nil
}

func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.List(ctx)
	if err != nil {
		return nil, domain.Persist("list exercises", err)
	}
	return exercises, nil
}

// UpdateExercise rewrites an exercise. Only its author may change it.
func (s *exerciseService) UpdateExercise(ctx context.Context, coachID, exerciseID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.GetExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if !existing.CreatedBy.IsZero() && existing.CreatedBy != coachID {
		return nil, ErrExerciseAccessDenied
	}

	in.apply(existing)
	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, domain.Persist("update exercise", err)
	}
	return existing, nil
}

// DeleteExercise removes an exercise. Workouts still pointing at it render without details.
func (s *exerciseService) DeleteExercise(ctx context.Context, coachID, exerciseID primitive.ObjectID) error {
	existing, err := s.GetExercise(ctx, exerciseID)
	if err != nil {
		return err
	}
	if !existing.CreatedBy.IsZero() && existing.CreatedBy != coachID {
		return ErrExerciseAccessDenied
	}
	if err := s.exerciseRepo.Delete(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return domain.Persist("delete exercise", err)
	}
	return nil
}

func (s *exerciseService) FindOrCreateByName(ctx context.Context, coachID primitive.ObjectID, name string) (*domain.Exercise, error) {
	key := NameKey(name)
	if key == "" {
		return nil, domain.NewValidationError("name", "is required")
	}

	existing, err := s.exerciseRepo.GetByNameKey(ctx, key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, domain.Persist("find exercise by name", err)
	}

	exercise := &domain.Exercise{CreatedBy: coachID}
	ExerciseInput{Name: name, MediaType: domain.MediaNone}.apply(exercise)
	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with another writer, the entry exists now
			return s.exerciseRepo.GetByNameKey(ctx, key)
		}
		return nil, domain.Persist("create exercise", err)
	}
	log.WithField("exercise", exercise.Name).Debug("exercise created on demand")
	return exercise, nil
}
