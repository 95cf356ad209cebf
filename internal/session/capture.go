package session

import (
	"alcyxob/coaching-platform/internal/domain"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SetEntry is one captured set slot. Superset members use the round index as slot index.
type SetEntry struct {
	Weight    *float64 `json:"weight"`
	Reps      *int     `json:"reps"`
	Completed bool     `json:"completed"`
}

// SetPatch changes some fields of a slot; nil fields are left as they are.
type SetPatch struct {
	Weight    *float64 `json:"weight,omitempty"`
	Reps      *int     `json:"reps,omitempty"`
	Completed *bool    `json:"completed,omitempty"`
}

// Sets holds the captured slots per workout exercise.
type Sets map[primitive.ObjectID][]SetEntry

// Slot returns the entry at index, or a zero entry when nothing was captured there.
func (s Sets) Slot(exerciseID primitive.ObjectID, index int) SetEntry {
	slots := s[exerciseID]
	if index < 0 || index >= len(slots) {
		return SetEntry{}
	}
	return slots[index]
}

func (s Sets) apply(exerciseID primitive.ObjectID, index int, p SetPatch) SetEntry {
	slots := s[exerciseID]
	for len(slots) <= index {
		slots = append(slots, SetEntry{})
	}
	entry := slots[index]
	if p.Weight != nil {
		w := *p.Weight
		entry.Weight = &w
	}
	if p.Reps != nil {
		r := *p.Reps
		entry.Reps = &r
	}
	if p.Completed != nil {
		entry.Completed = *p.Completed
	}
	slots[index] = entry
	s[exerciseID] = slots
	return entry
}

func (p SetPatch) validate(current SetEntry, slotCount, index int) error {
	if index < 0 || index >= slotCount {
		return domain.NewValidationError("setIndex", fmt.Sprintf("must be between 0 and %d", slotCount-1))
	}
	if p.Weight != nil && *p.Weight < 0 {
		return domain.NewValidationError("weight", "must not be negative")
	}
	if p.Reps != nil && *p.Reps < 0 {
		return domain.NewValidationError("reps", "must not be negative")
	}
	if p.Completed != nil && *p.Completed {
		reps := current.Reps
		if p.Reps != nil {
			reps = p.Reps
		}
		if reps == nil {
			return domain.NewValidationError("reps", "required before completing a set")
		}
	}
	return nil
}
