package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientDayLog is the persisted record of one finished workout session. Several may exist
// for the same day when a client repeats it.
type ClientDayLog struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ClientID        primitive.ObjectID  `bson:"clientId" json:"clientId"`
	DayID           primitive.ObjectID  `bson:"dayId" json:"dayId"`
	ActivityID      *primitive.ObjectID `bson:"activityId,omitempty" json:"activityId,omitempty"`
	CompletedAt     time.Time           `bson:"completedAt" json:"completedAt"`
	DurationMinutes int                 `bson:"durationMinutes" json:"durationMinutes"`
	EffortRating    int                 `bson:"effortRating,omitempty" json:"effortRating,omitempty"` // RPE 1-10, 0 when not given
	Notes           string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Vitals          *Vitals             `bson:"vitals,omitempty" json:"vitals,omitempty"`
	Exclusions      *Exclusions         `bson:"exclusions,omitempty" json:"exclusions,omitempty"`
	Sequelae        *Sequelae           `bson:"sequelae,omitempty" json:"sequelae,omitempty"`
}

// ClientExerciseLog holds the completed sets of one workout exercise within a day log.
// Reps and weights are comma-joined in capture order.
type ClientExerciseLog struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DayLogID          primitive.ObjectID `bson:"dayLogId" json:"dayLogId"`
	WorkoutExerciseID primitive.ObjectID `bson:"workoutExerciseId" json:"workoutExerciseId"`
	SetsCompleted     int                `bson:"setsCompleted" json:"setsCompleted"`
	RepsCompleted     string             `bson:"repsCompleted" json:"repsCompleted"`
	WeightUsed        string             `bson:"weightUsed" json:"weightUsed"`
	IsCompleted       bool               `bson:"isCompleted" json:"isCompleted"`
}

// Measurement is one labeled body measurement of a metrics activity.
type Measurement struct {
	Label string  `bson:"label" json:"label"`
	Value float64 `bson:"value" json:"value"`
	Unit  string  `bson:"unit,omitempty" json:"unit,omitempty"`
}

// Photo is one labeled progress picture of a photo activity.
type Photo struct {
	Label string `bson:"label" json:"label"`
	URL   string `bson:"url" json:"url"`
}

// ActivityPayload is the type specific body of a ClientActivityLog. Only the fields
// matching the activity type are set.
type ActivityPayload struct {
	Steps        int           `bson:"steps,omitempty" json:"steps,omitempty"`
	Measurements []Measurement `bson:"measurements,omitempty" json:"measurements,omitempty"`
	Photos       []Photo       `bson:"photos,omitempty" json:"photos,omitempty"`
	Completed    bool          `bson:"completed" json:"completed"`
	Comment      string        `bson:"comment,omitempty" json:"comment,omitempty"`
}

// ClientActivityLog records completion of a non-workout activity.
type ClientActivityLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	ActivityID  primitive.ObjectID `bson:"activityId" json:"activityId"`
	DayID       primitive.ObjectID `bson:"dayId" json:"dayId"`
	Type        ActivityType       `bson:"type" json:"type"`
	CompletedAt time.Time          `bson:"completedAt" json:"completedAt"`
	Data        ActivityPayload    `bson:"data" json:"data"`
}

// HistoryEntry is a day log enriched for history views.
type HistoryEntry struct {
	ClientDayLog `bson:",inline"`
	DayName      string            `json:"dayName"`
	WeekNumber   int               `json:"weekNumber"`
	DayNumber    int               `json:"dayNumber"`
	Exercises    []HistoryExercise `json:"exercises"`
}

// HistoryExercise is an exercise log with the catalog name attached.
type HistoryExercise struct {
	ClientExerciseLog `bson:",inline"`
	ExerciseName      string `json:"exerciseName"`
}
