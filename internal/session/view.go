package session

import (
	"alcyxob/coaching-platform/internal/safety"
)

// GroupView is the round state of one superset.
type GroupView struct {
	Key             string   `json:"key"`
	BlockID         string   `json:"blockId"`
	SupersetID      string   `json:"supersetId"`
	Members         []string `json:"members"`
	Rounds          int      `json:"rounds"`
	CurrentRound    int      `json:"currentRound"`
	CompletedRounds int      `json:"completedRounds"`
	CurrentComplete bool     `json:"currentComplete"`
	CanAdvance      bool     `json:"canAdvance"`
	Complete        bool     `json:"complete"`
}

// View is a read-only snapshot of a runtime.
type View struct {
	Phase          Phase                 `json:"phase"`
	ScreeningStep  safety.Step           `json:"screeningStep"`
	ElapsedSeconds int                   `json:"elapsedSeconds"`
	Paused         bool                  `json:"paused"`
	Advisories     []safety.Advisory     `json:"advisories"`
	Target         *safety.EffortRange   `json:"target,omitempty"`
	Sets           map[string][]SetEntry `json:"sets"`
	Groups         []GroupView           `json:"groups"`
	Summary        *Summary              `json:"summary,omitempty"`
	LastError      string                `json:"lastError,omitempty"`
}

func (r *Runtime) View() View {
	v := View{
		Phase:          r.phase,
		ScreeningStep:  r.gate.Step(),
		ElapsedSeconds: r.timer.Seconds(r.now()),
		Paused:         r.timer.Paused(),
		Advisories:     append([]safety.Advisory{}, r.advisories...),
		Sets:           make(map[string][]SetEntry, len(r.sets)),
		Groups:         make([]GroupView, 0, len(r.groupOrder)),
		Summary:        r.summary,
	}
	if target, ok := safety.TargetEffort(r.gate.Vitals().RPEType); ok {
		v.Target = &target
	}
	for id, slots := range r.sets {
		v.Sets[id.Hex()] = append([]SetEntry{}, slots...)
	}
	for _, key := range r.groupOrder {
		g := r.groups[key]
		members := make([]string, 0, len(g.group.Items))
		for _, m := range g.group.Items {
			members = append(members, m.ID.Hex())
		}
		completed := CompletedRounds(r.sets, g.group.Items, g.group.Rounds)
		v.Groups = append(v.Groups, GroupView{
			Key:             key,
			BlockID:         g.blockID.Hex(),
			SupersetID:      g.group.ID,
			Members:         members,
			Rounds:          g.group.Rounds,
			CurrentRound:    g.current,
			CompletedRounds: completed,
			CurrentComplete: RoundComplete(r.sets, g.group.Items, g.current),
			CanAdvance:      g.canAdvance(r.sets),
			Complete:        completed == g.group.Rounds,
		})
	}
	if r.lastErr != nil {
		v.LastError = r.lastErr.Error()
	}
	return v
}
