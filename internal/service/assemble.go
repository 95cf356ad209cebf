package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/graph"
	"alcyxob/coaching-platform/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func workoutID(w domain.Workout) primitive.ObjectID           { return w.ID }
func blockID(b domain.Block) primitive.ObjectID               { return b.ID }
func exerciseID(e domain.Exercise) primitive.ObjectID         { return e.ID }
func exerciseRef(e domain.WorkoutExercise) primitive.ObjectID { return e.ExerciseID }
func programID(p domain.TrainingProgram) primitive.ObjectID   { return p.ID }
func dayID(d domain.ProgramDay) primitive.ObjectID            { return d.ID }

// assembleWorkouts attaches blocks, their exercises and the catalog entries they point at
// to the given workout roots, with one query per level.
func assembleWorkouts(ctx context.Context, store repository.Store, roots []domain.Workout) ([]domain.Workout, error) {
	workoutIDs := graph.IDs(roots, workoutID)
	blocksByWorkout, err := graph.Children(ctx, graph.Level[domain.Block]{
		Fetch:    store.Blocks.ListByWorkoutIDs,
		ParentID: func(b domain.Block) primitive.ObjectID { return b.WorkoutID },
		Position: func(b domain.Block) int { return b.Position },
	}, workoutIDs)
	if err != nil {
		return nil, domain.Persist("load blocks", err)
	}

	blockIDs := graph.IDs(graph.Flatten(blocksByWorkout, workoutIDs), blockID)
	exercisesByBlock, err := graph.Children(ctx, graph.Level[domain.WorkoutExercise]{
		Fetch:    store.WorkoutExercises.ListByBlockIDs,
		ParentID: func(e domain.WorkoutExercise) primitive.ObjectID { return e.BlockID },
		Position: func(e domain.WorkoutExercise) int { return e.Position },
	}, blockIDs)
	if err != nil {
		return nil, domain.Persist("load workout exercises", err)
	}

	refs := graph.Unique(graph.IDs(graph.Flatten(exercisesByBlock, blockIDs), exerciseRef))
	catalog := map[primitive.ObjectID]domain.Exercise{}
	if len(refs) > 0 {
		rows, err := store.Exercises.GetByIDs(ctx, refs)
		if err != nil {
			return nil, domain.Persist("load exercises", err)
		}
		catalog = graph.Index(rows, exerciseID)
	}

	out := make([]domain.Workout, len(roots))
	for i, w := range roots {
		blocks := append([]domain.Block{}, blocksByWorkout[w.ID]...)
		for bi := range blocks {
			exercises := append([]domain.WorkoutExercise{}, exercisesByBlock[blocks[bi].ID]...)
			for ei := range exercises {
				if e, ok := catalog[exercises[ei].ExerciseID]; ok {
					e := e
					exercises[ei].Exercise = &e
				}
			}
			blocks[bi].Exercises = exercises
		}
		w.Blocks = blocks
		out[i] = w
	}
	return out, nil
}

// assemblePrograms attaches days and their activities to the given program roots.
func assemblePrograms(ctx context.Context, store repository.Store, roots []domain.TrainingProgram) ([]domain.TrainingProgram, error) {
	programIDs := graph.IDs(roots, programID)
	daysByProgram, err := graph.Children(ctx, graph.Level[domain.ProgramDay]{
		Fetch:    store.ProgramDays.ListByProgramIDs,
		ParentID: func(d domain.ProgramDay) primitive.ObjectID { return d.ProgramID },
		Position: func(d domain.ProgramDay) int { return d.Position },
	}, programIDs)
	if err != nil {
		return nil, domain.Persist("load program days", err)
	}

	dayIDs := graph.IDs(graph.Flatten(daysByProgram, programIDs), dayID)
	activitiesByDay, err := graph.Children(ctx, graph.Level[domain.ProgramActivity]{
		Fetch:    store.Activities.ListByDayIDs,
		ParentID: func(a domain.ProgramActivity) primitive.ObjectID { return a.DayID },
		Position: func(a domain.ProgramActivity) int { return a.Position },
	}, dayIDs)
	if err != nil {
		return nil, domain.Persist("load program activities", err)
	}

	out := make([]domain.TrainingProgram, len(roots))
	for i, p := range roots {
		days := append([]domain.ProgramDay{}, daysByProgram[p.ID]...)
		for di := range days {
			days[di].Activities = append([]domain.ProgramActivity{}, activitiesByDay[days[di].ID]...)
		}
		p.Days = days
		out[i] = p
	}
	return out, nil
}
