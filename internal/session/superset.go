package session

import (
	"alcyxob/coaching-platform/internal/domain"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUnknownGroup    = errors.New("unknown superset group")
	ErrRoundIncomplete = errors.New("current round is not complete")
	ErrLastRound       = errors.New("already on the last round")
)

// supersetGroup is the live state of one superset within one block.
type supersetGroup struct {
	key     string
	blockID primitive.ObjectID
	group   domain.ExerciseGroup
	current int
}

// GroupKey identifies a superset within a workout.
func GroupKey(blockID primitive.ObjectID, supersetID string) string {
	return blockID.Hex() + ":" + supersetID
}

// RoundComplete reports whether every member has a completed slot at round r.
func RoundComplete(sets Sets, members []domain.WorkoutExercise, r int) bool {
	if len(members) == 0 {
		return false
	}
	for _, m := range members {
		if !sets.Slot(m.ID, r).Completed {
			return false
		}
	}
	return true
}

// CompletedRounds counts the complete rounds among 0..rounds-1.
func CompletedRounds(sets Sets, members []domain.WorkoutExercise, rounds int) int {
	n := 0
	for r := 0; r < rounds; r++ {
		if RoundComplete(sets, members, r) {
			n++
		}
	}
	return n
}

// GroupComplete reports whether all rounds of the group are complete.
func GroupComplete(sets Sets, g domain.ExerciseGroup) bool {
	return CompletedRounds(sets, g.Items, g.Rounds) == g.Rounds
}

func (g *supersetGroup) canAdvance(sets Sets) bool {
	return g.current < g.group.Rounds-1 && RoundComplete(sets, g.group.Items, g.current)
}

func (g *supersetGroup) advance(sets Sets) error {
	if g.current >= g.group.Rounds-1 {
		return ErrLastRound
	}
	if !RoundComplete(sets, g.group.Items, g.current) {
		return ErrRoundIncomplete
	}
	g.current++
	return nil
}

func (g *supersetGroup) selectRound(r int) error {
	if r < 0 || r >= g.group.Rounds {
		return domain.NewValidationError("round", fmt.Sprintf("must be between 0 and %d", g.group.Rounds-1))
	}
	g.current = r
	return nil
}

// indexSupersets collects the superset groups of every block of w.
func indexSupersets(w *domain.Workout) (map[string]*supersetGroup, []string, map[primitive.ObjectID]string) {
	groups := make(map[string]*supersetGroup)
	var order []string
	memberOf := make(map[primitive.ObjectID]string)
	for bi := range w.Blocks {
		block := &w.Blocks[bi]
		for _, g := range block.Groups() {
			if g.Kind != domain.GroupSuperset {
				continue
			}
			key := GroupKey(block.ID, g.ID)
			groups[key] = &supersetGroup{key: key, blockID: block.ID, group: g}
			order = append(order, key)
			for _, m := range g.Items {
				memberOf[m.ID] = key
			}
		}
	}
	return groups, order, memberOf
}
