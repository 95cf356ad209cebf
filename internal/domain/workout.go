package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a reusable session template: an ordered list of blocks.
// Blocks are stored in their own collection and attached on read.
type Workout struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Goal        string             `bson:"goal,omitempty" json:"goal,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`

	Blocks []Block `bson:"-" json:"blocks"`
}

// Block is a named section of a workout (warm-up, main part, finisher).
type Block struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID   primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Position    int                `bson:"position" json:"position"`

	Exercises []WorkoutExercise `bson:"-" json:"exercises"`
}

// WorkoutExercise is one prescribed exercise inside a block.
type WorkoutExercise struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BlockID        primitive.ObjectID `bson:"blockId" json:"blockId"`
	ExerciseID     primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	SupersetID     string             `bson:"supersetId,omitempty" json:"supersetId,omitempty"`
	SupersetRounds int                `bson:"supersetRounds,omitempty" json:"supersetRounds,omitempty"`
	Sets           int                `bson:"sets" json:"sets"`
	Reps           string             `bson:"reps" json:"reps"` // free-form, e.g. "8-12"
	RestSeconds    int                `bson:"restSeconds" json:"restSeconds"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Position       int                `bson:"position" json:"position"`

	Exercise *Exercise `bson:"-" json:"exercise,omitempty"` // resolved from the catalog on read
}

// Exercises returns every workout exercise in block order, then position order.
func (w *Workout) Exercises() []WorkoutExercise {
	var all []WorkoutExercise
	for _, b := range w.Blocks {
		all = append(all, b.Exercises...)
	}
	return all
}

// FindExercise looks up a workout exercise by its ID.
func (w *Workout) FindExercise(id primitive.ObjectID) (*WorkoutExercise, bool) {
	for bi := range w.Blocks {
		for ei := range w.Blocks[bi].Exercises {
			if w.Blocks[bi].Exercises[ei].ID == id {
				return &w.Blocks[bi].Exercises[ei], true
			}
		}
	}
	return nil, false
}
