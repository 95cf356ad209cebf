package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/graph"
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProgramNotFound = errors.New("training program not found")
	ErrProgramInUse    = errors.New("training program is assigned to clients")
)

// ProgramService builds and reads multi-week programs.
type ProgramService interface {
	// SaveProgram creates or fully replaces a program with all its days and activities.
	SaveProgram(ctx context.Context, coachID primitive.ObjectID, p *domain.TrainingProgram) (*domain.TrainingProgram, error)
	GetProgram(ctx context.Context, programID primitive.ObjectID) (*domain.TrainingProgram, error)
	ListPrograms(ctx context.Context) ([]domain.TrainingProgram, error)
	DeleteProgram(ctx context.Context, programID primitive.ObjectID) error
}

type programService struct {
	store repository.Store
}

func NewProgramService(store repository.Store) ProgramService {
	return &programService{store: store}
}

func (s *programService) GetProgram(ctx context.Context, programID primitive.ObjectID) (*domain.TrainingProgram, error) {
	root, err := s.store.Programs.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, domain.Persist("get program", err)
	}
	full, err := assemblePrograms(ctx, s.store, []domain.TrainingProgram{*root})
	if err != nil {
		return nil, err
	}
	return &full[0], nil
}

func (s *programService) ListPrograms(ctx context.Context) ([]domain.TrainingProgram, error) {
	roots, err := s.store.Programs.List(ctx)
	if err != nil {
		return nil, domain.Persist("list programs", err)
	}
	return assemblePrograms(ctx, s.store, roots)
}

type slot struct{ week, day int }

func validateProgram(p *domain.TrainingProgram) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.NewValidationError("name", "is required")
	}
	if p.WeeksCount < 1 {
		return domain.NewValidationError("weeksCount", "must be at least 1")
	}
	seen := make(map[slot]struct{}, len(p.Days))
	for i, d := range p.Days {
		field := fmt.Sprintf("days[%d]", i)
		if d.WeekNumber < 1 || d.WeekNumber > p.WeeksCount {
			return domain.NewValidationError(field+".weekNumber", fmt.Sprintf("must be between 1 and %d", p.WeeksCount))
		}
		if d.DayNumber < 1 || d.DayNumber > 7 {
			return domain.NewValidationError(field+".dayNumber", "must be between 1 and 7")
		}
		key := slot{d.WeekNumber, d.DayNumber}
		if _, dup := seen[key]; dup {
			return domain.NewValidationError(field, fmt.Sprintf("week %d day %d appears twice", d.WeekNumber, d.DayNumber))
		}
		seen[key] = struct{}{}
		for j, a := range d.Activities {
			afield := fmt.Sprintf("%s.activities[%d]", field, j)
			if !a.Type.IsValid() {
				return domain.NewValidationError(afield+".type", "is not a known activity type")
			}
			if a.Type == domain.ActivityWorkout && (a.RefID == nil || a.RefID.IsZero()) {
				return domain.NewValidationError(afield+".refId", "workout activities need a workout")
			}
		}
	}
	return nil
}

// checkWorkoutRefs makes sure every workout activity points at an existing workout.
func (s *programService) checkWorkoutRefs(ctx context.Context, p *domain.TrainingProgram) error {
	var refs []primitive.ObjectID
	for _, d := range p.Days {
		for _, a := range d.Activities {
			if a.Type == domain.ActivityWorkout {
				refs = append(refs, *a.RefID)
			}
		}
	}
	refs = graph.Unique(refs)
	if len(refs) == 0 {
		return nil
	}
	found, err := s.store.Workouts.GetByIDs(ctx, refs)
	if err != nil {
		return domain.Persist("load workouts", err)
	}
	known := graph.Index(found, workoutID)
	for _, id := range refs {
		if _, ok := known[id]; !ok {
			return domain.NewValidationError("refId", fmt.Sprintf("workout %s does not exist", id.Hex()))
		}
	}
	return nil
}

func (s *programService) SaveProgram(ctx context.Context, coachID primitive.ObjectID, p *domain.TrainingProgram) (*domain.TrainingProgram, error) {
	if err := validateProgram(p); err != nil {
		return nil, err
	}
	if err := s.checkWorkoutRefs(ctx, p); err != nil {
		return nil, err
	}

	if p.ID.IsZero() {
		p.CreatedBy = coachID
		if _, err := s.store.Programs.Create(ctx, p); err != nil {
			return nil, domain.Persist("create program", err)
		}
	} else {
		if err := s.store.Programs.Update(ctx, p); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrProgramNotFound
			}
			return nil, domain.Persist("update program", err)
		}
		if err := s.deleteChildren(ctx, p.ID); err != nil {
			return nil, err
		}
	}

	if err := s.insertChildren(ctx, p); err != nil {
		log.WithField("program", p.ID.Hex()).Errorf("program left partially written: %s", err)
		return nil, err
	}
	return s.GetProgram(ctx, p.ID)
}

func (s *programService) deleteChildren(ctx context.Context, programID primitive.ObjectID) error {
	days, err := s.store.ProgramDays.ListByProgramIDs(ctx, []primitive.ObjectID{programID})
	if err != nil {
		return domain.Persist("load program days", err)
	}
	if err := s.store.Activities.DeleteByDayIDs(ctx, graph.IDs(days, dayID)); err != nil {
		return domain.Persist("delete program activities", err)
	}
	if err := s.store.ProgramDays.DeleteByProgramIDs(ctx, []primitive.ObjectID{programID}); err != nil {
		return domain.Persist("delete program days", err)
	}
	return nil
}

// insertChildren writes days in calendar order, then their activities in the given order.
func (s *programService) insertChildren(ctx context.Context, p *domain.TrainingProgram) error {
	if len(p.Days) == 0 {
		return nil
	}
	input := append([]domain.ProgramDay{}, p.Days...)
	sort.SliceStable(input, func(i, j int) bool {
		if input[i].WeekNumber != input[j].WeekNumber {
			return input[i].WeekNumber < input[j].WeekNumber
		}
		return input[i].DayNumber < input[j].DayNumber
	})

	days := make([]domain.ProgramDay, len(input))
	for i, d := range input {
		days[i] = domain.ProgramDay{ProgramID: p.ID, WeekNumber: d.WeekNumber, DayNumber: d.DayNumber}
	}
	graph.AssignPositions(days, func(d *domain.ProgramDay, pos int) { d.Position = pos })
	if err := s.store.ProgramDays.InsertMany(ctx, days); err != nil {
		return domain.Persist("insert program days", err)
	}

	var activities []domain.ProgramActivity
	for i, d := range input {
		rows := make([]domain.ProgramActivity, len(d.Activities))
		for j, a := range d.Activities {
			a.ID = primitive.NilObjectID
			a.DayID = days[i].ID
			rows[j] = a
		}
		graph.AssignPositions(rows, func(a *domain.ProgramActivity, pos int) { a.Position = pos })
		activities = append(activities, rows...)
	}
	if err := s.store.Activities.InsertMany(ctx, activities); err != nil {
		return domain.Persist("insert program activities", err)
	}
	return nil
}

func (s *programService) DeleteProgram(ctx context.Context, programID primitive.ObjectID) error {
	if _, err := s.store.Programs.GetByID(ctx, programID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramNotFound
		}
		return domain.Persist("get program", err)
	}
	assigned, err := s.store.Assignments.ExistsForProgram(ctx, programID)
	if err != nil {
		return domain.Persist("check program assignments", err)
	}
	if assigned {
		return ErrProgramInUse
	}
	if err := s.deleteChildren(ctx, programID); err != nil {
		return err
	}
	if err := s.store.Programs.Delete(ctx, programID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return domain.Persist("delete program", err)
	}
	return nil
}
