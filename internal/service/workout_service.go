package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/graph"
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// WorkoutService builds and reads workout templates.
type WorkoutService interface {
	// SaveWorkout creates or fully replaces a workout: every block and exercise row is
	// regenerated, so child ids change on each save.
	SaveWorkout(ctx context.Context, coachID primitive.ObjectID, w *domain.Workout) (*domain.Workout, error)
	GetWorkout(ctx context.Context, workoutID primitive.ObjectID) (*domain.Workout, error)
	ListWorkouts(ctx context.Context) ([]domain.Workout, error)
	DeleteWorkout(ctx context.Context, workoutID primitive.ObjectID) error
	GroupBlock(block *domain.Block) []domain.ExerciseGroup
}

type workoutService struct {
	store     repository.Store
	exercises ExerciseService
}

func NewWorkoutService(store repository.Store, exercises ExerciseService) WorkoutService {
	return &workoutService{store: store, exercises: exercises}
}

func (s *workoutService) GetWorkout(ctx context.Context, workoutID primitive.ObjectID) (*domain.Workout, error) {
	root, err := s.store.Workouts.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, domain.Persist("get workout", err)
	}
	full, err := assembleWorkouts(ctx, s.store, []domain.Workout{*root})
	if err != nil {
		return nil, err
	}
	return &full[0], nil
}

func (s *workoutService) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	roots, err := s.store.Workouts.List(ctx)
	if err != nil {
		return nil, domain.Persist("list workouts", err)
	}
	return assembleWorkouts(ctx, s.store, roots)
}

func (s *workoutService) GroupBlock(block *domain.Block) []domain.ExerciseGroup {
	return block.Groups()
}

// resolveExercises fills missing exercise refs from embedded names and checks every ref
// points at the catalog.
func (s *workoutService) resolveExercises(ctx context.Context, coachID primitive.ObjectID, w *domain.Workout) error {
	var refs []primitive.ObjectID
	for bi := range w.Blocks {
		for ei := range w.Blocks[bi].Exercises {
			we := &w.Blocks[bi].Exercises[ei]
			if we.ExerciseID.IsZero() && we.Exercise != nil && strings.TrimSpace(we.Exercise.Name) != "" {
				e, err := s.exercises.FindOrCreateByName(ctx, coachID, we.Exercise.Name)
				if err != nil {
					return err
				}
				we.ExerciseID = e.ID
			}
			if we.ExerciseID.IsZero() {
				return domain.NewValidationError(fmt.Sprintf("blocks[%d].exercises[%d].exerciseId", bi, ei), "is required")
			}
			refs = append(refs, we.ExerciseID)
		}
	}

	refs = graph.Unique(refs)
	if len(refs) == 0 {
		return nil
	}
	found, err := s.store.Exercises.GetByIDs(ctx, refs)
	if err != nil {
		return domain.Persist("load exercises", err)
	}
	known := graph.Index(found, exerciseID)
	for _, id := range refs {
		if _, ok := known[id]; !ok {
			return domain.NewValidationError("exerciseId", fmt.Sprintf("%s is not in the catalog", id.Hex()))
		}
	}
	return nil
}

func validateWorkout(w *domain.Workout) error {
	if strings.TrimSpace(w.Name) == "" {
		return domain.NewValidationError("name", "is required")
	}
	for bi, b := range w.Blocks {
		for ei, we := range b.Exercises {
			field := fmt.Sprintf("blocks[%d].exercises[%d]", bi, ei)
			if we.Sets < 1 {
				return domain.NewValidationError(field+".sets", "must be at least 1")
			}
			if we.RestSeconds < 0 {
				return domain.NewValidationError(field+".restSeconds", "must not be negative")
			}
			if we.SupersetRounds < 0 {
				return domain.NewValidationError(field+".supersetRounds", "must not be negative")
			}
		}
	}
	return nil
}

func (s *workoutService) SaveWorkout(ctx context.Context, coachID primitive.ObjectID, w *domain.Workout) (*domain.Workout, error) {
	if err := validateWorkout(w); err != nil {
		return nil, err
	}
	if err := s.resolveExercises(ctx, coachID, w); err != nil {
		return nil, err
	}

	if w.ID.IsZero() {
		w.CreatedBy = coachID
		if _, err := s.store.Workouts.Create(ctx, w); err != nil {
			return nil, domain.Persist("create workout", err)
		}
	} else {
		if err := s.store.Workouts.Update(ctx, w); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrWorkoutNotFound
			}
			return nil, domain.Persist("update workout", err)
		}
		if err := s.deleteChildren(ctx, w.ID); err != nil {
			return nil, err
		}
	}

	if err := s.insertChildren(ctx, w); err != nil {
		log.WithField("workout", w.ID.Hex()).Errorf("workout left partially written: %s", err)
		return nil, err
	}
	return s.GetWorkout(ctx, w.ID)
}

// deleteChildren removes every block and block exercise of a workout, deepest level first.
func (s *workoutService) deleteChildren(ctx context.Context, workoutID primitive.ObjectID) error {
	blocks, err := s.store.Blocks.ListByWorkoutIDs(ctx, []primitive.ObjectID{workoutID})
	if err != nil {
		return domain.Persist("load blocks", err)
	}
	if err := s.store.WorkoutExercises.DeleteByBlockIDs(ctx, graph.IDs(blocks, blockID)); err != nil {
		return domain.Persist("delete workout exercises", err)
	}
	if err := s.store.Blocks.DeleteByWorkoutIDs(ctx, []primitive.ObjectID{workoutID}); err != nil {
		return domain.Persist("delete blocks", err)
	}
	return nil
}

// insertChildren writes the block level, then the exercise level under the new block ids.
func (s *workoutService) insertChildren(ctx context.Context, w *domain.Workout) error {
	if len(w.Blocks) == 0 {
		return nil
	}
	blocks := make([]domain.Block, len(w.Blocks))
	for i, b := range w.Blocks {
		blocks[i] = domain.Block{WorkoutID: w.ID, Name: b.Name, Description: b.Description}
	}
	graph.AssignPositions(blocks, func(b *domain.Block, pos int) { b.Position = pos })
	if err := s.store.Blocks.InsertMany(ctx, blocks); err != nil {
		return domain.Persist("insert blocks", err)
	}

	var exercises []domain.WorkoutExercise
	for i, b := range w.Blocks {
		rows := make([]domain.WorkoutExercise, len(b.Exercises))
		for j, we := range b.Exercises {
			we.ID = primitive.NilObjectID
			we.BlockID = blocks[i].ID
			we.Exercise = nil
			rows[j] = we
		}
		graph.AssignPositions(rows, func(e *domain.WorkoutExercise, pos int) { e.Position = pos })
		exercises = append(exercises, rows...)
	}
	if err := s.store.WorkoutExercises.InsertMany(ctx, exercises); err != nil {
		return domain.Persist("insert workout exercises", err)
	}
	return nil
}

func (s *workoutService) DeleteWorkout(ctx context.Context, workoutID primitive.ObjectID) error {
	if _, err := s.store.Workouts.GetByID(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return domain.Persist("get workout", err)
	}
	if err := s.deleteChildren(ctx, workoutID); err != nil {
		return err
	}
	if err := s.store.Workouts.Delete(ctx, workoutID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return domain.Persist("delete workout", err)
	}
	return nil
}
