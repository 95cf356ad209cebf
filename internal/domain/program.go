// internal/domain/program.go
package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityType selects the capture flow and the log shape of a program activity.
type ActivityType string

const (
	ActivityWorkout ActivityType = "workout"
	ActivityWalking ActivityType = "walking"
	ActivityMetrics ActivityType = "metrics"
	ActivityPhoto   ActivityType = "photo"
	ActivityForm    ActivityType = "form"
	ActivityCustom  ActivityType = "custom"
)

func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityWorkout, ActivityWalking, ActivityMetrics, ActivityPhoto, ActivityForm, ActivityCustom:
		return true
	default:
		return false
	}
}

// TrainingProgram is a multi-week template made of days.
type TrainingProgram struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	WeeksCount  int                `bson:"weeksCount" json:"weeksCount"`
	CreatedBy   primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`

	Days []ProgramDay `bson:"-" json:"days"`
}

// Day returns the program day keyed by (week, day), or nil for a rest day.
func (p *TrainingProgram) Day(week, day int) *ProgramDay {
	for i := range p.Days {
		if p.Days[i].WeekNumber == week && p.Days[i].DayNumber == day {
			return &p.Days[i]
		}
	}
	return nil
}

// ProgramDay is one (week, weekday) slot of a program. DayNumber is the ISO weekday, Mon=1..Sun=7.
type ProgramDay struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID  primitive.ObjectID `bson:"programId" json:"programId"`
	WeekNumber int                `bson:"weekNumber" json:"weekNumber"`
	DayNumber  int                `bson:"dayNumber" json:"dayNumber"`
	Position   int                `bson:"position" json:"position"`

	Activities []ProgramActivity `bson:"-" json:"activities"`
}

var weekdayNames = [...]string{"", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

// Label is the display name used by history views.
func (d *ProgramDay) Label() string {
	name := fmt.Sprintf("Día %d", d.DayNumber)
	if d.DayNumber >= 1 && d.DayNumber <= 7 {
		name = weekdayNames[d.DayNumber]
	}
	return fmt.Sprintf("Semana %d · %s", d.WeekNumber, name)
}

// WorkoutActivity returns the first workout-type activity of the day, if any.
func (d *ProgramDay) WorkoutActivity() *ProgramActivity {
	for i := range d.Activities {
		if d.Activities[i].Type == ActivityWorkout && d.Activities[i].RefID != nil {
			return &d.Activities[i]
		}
	}
	return nil
}

// ProgramActivity is one typed task within a day. RefID points at the type specific payload,
// a workout for ActivityWorkout.
type ProgramActivity struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	DayID       primitive.ObjectID  `bson:"dayId" json:"dayId"`
	Type        ActivityType        `bson:"type" json:"type"`
	RefID       *primitive.ObjectID `bson:"refId,omitempty" json:"refId,omitempty"`
	Title       string              `bson:"title,omitempty" json:"title,omitempty"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Position    int                 `bson:"position" json:"position"`
	Color       string              `bson:"color,omitempty" json:"color,omitempty"`
}
