package session

import (
	"alcyxob/coaching-platform/internal/domain"
	"strconv"
	"strings"
)

// Aggregate turns captured sets into exercise logs, in workout order. Exercises without a
// completed set produce no log. Captured ids that are not part of w are ignored.
func Aggregate(w *domain.Workout, sets Sets) []domain.ClientExerciseLog {
	logs := []domain.ClientExerciseLog{}
	for _, we := range w.Exercises() {
		var weights, reps []string
		for _, entry := range sets[we.ID] {
			if !entry.Completed {
				continue
			}
			weights = append(weights, formatWeight(entry.Weight))
			reps = append(reps, formatReps(entry.Reps))
		}
		if len(reps) == 0 {
			continue
		}
		logs = append(logs, domain.ClientExerciseLog{
			WorkoutExerciseID: we.ID,
			SetsCompleted:     len(reps),
			RepsCompleted:     strings.Join(reps, ","),
			WeightUsed:        strings.Join(weights, ","),
			IsCompleted:       true,
		})
	}
	return logs
}

func formatWeight(w *float64) string {
	if w == nil {
		return ""
	}
	return strconv.FormatFloat(*w, 'f', -1, 64)
}

func formatReps(r *int) string {
	if r == nil {
		return ""
	}
	return strconv.Itoa(*r)
}

// Summary is shown once the session was persisted.
type Summary struct {
	SetsCompleted   int            `json:"setsCompleted"`
	ExercisesWorked int            `json:"exercisesWorked"`
	ExercisesTotal  int            `json:"exercisesTotal"`
	TotalVolume     float64        `json:"totalVolume"` // sum of weight x reps over completed sets
	DurationSeconds int            `json:"durationSeconds"`
	DurationMinutes int            `json:"durationMinutes"`
	EffortRating    int            `json:"effortRating,omitempty"`
	RPEType         domain.RPEType `json:"rpeType,omitempty"`
	Notes           string         `json:"notes,omitempty"`
}

// Summarize computes the totals of a finished session.
func Summarize(w *domain.Workout, sets Sets, seconds int) Summary {
	s := Summary{
		ExercisesTotal:  len(w.Exercises()),
		DurationSeconds: seconds,
		DurationMinutes: DurationMinutes(seconds),
	}
	for _, we := range w.Exercises() {
		worked := false
		for _, entry := range sets[we.ID] {
			if !entry.Completed {
				continue
			}
			worked = true
			s.SetsCompleted++
			if entry.Weight != nil && entry.Reps != nil {
				s.TotalVolume += *entry.Weight * float64(*entry.Reps)
			}
		}
		if worked {
			s.ExercisesWorked++
		}
	}
	return s
}
