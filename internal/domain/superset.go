package domain

// DefaultSupersetRounds applies when neither superset_rounds nor sets is set on the first member.
const DefaultSupersetRounds = 3

type GroupKind string

const (
	GroupSingle   GroupKind = "single"
	GroupSuperset GroupKind = "superset"
)

// ExerciseGroup is either a lone exercise or all members of one superset within a block.
type ExerciseGroup struct {
	Kind   GroupKind         `json:"kind"`
	ID     string            `json:"id"` // superset id, or the exercise id for singles
	Rounds int               `json:"rounds,omitempty"`
	Items  []WorkoutExercise `json:"items"`
}

// Groups clusters the block's exercises by superset id. Members of one superset form a single
// group placed where the first member appears, even when other exercises sit between them.
func (b *Block) Groups() []ExerciseGroup {
	var groups []ExerciseGroup
	supersetIdx := make(map[string]int)
	for _, we := range b.Exercises {
		if we.SupersetID == "" {
			groups = append(groups, ExerciseGroup{Kind: GroupSingle, ID: we.ID.Hex(), Items: []WorkoutExercise{we}})
			continue
		}
		if idx, ok := supersetIdx[we.SupersetID]; ok {
			groups[idx].Items = append(groups[idx].Items, we)
			continue
		}
		supersetIdx[we.SupersetID] = len(groups)
		groups = append(groups, ExerciseGroup{Kind: GroupSuperset, ID: we.SupersetID, Items: []WorkoutExercise{we}})
	}
	for i := range groups {
		if groups[i].Kind == GroupSuperset {
			groups[i].Rounds = SupersetRounds(groups[i].Items)
		}
	}
	return groups
}

// SupersetRounds is the authoritative round count of a superset: the first member's
// superset_rounds, else its sets, else DefaultSupersetRounds.
func SupersetRounds(members []WorkoutExercise) int {
	if len(members) == 0 {
		return DefaultSupersetRounds
	}
	first := members[0]
	if first.SupersetRounds > 0 {
		return first.SupersetRounds
	}
	if first.Sets > 0 {
		return first.Sets
	}
	return DefaultSupersetRounds
}
