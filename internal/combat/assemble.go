package combat

import (
	"sort"

	"dota-analyzer/internal/events"

	"github.com/google/uuid"
)

// Assemble merges engagement windows into final Fights. Windows within the
// combat gap that share a participant belong to the same fight; a window
// exactly at the gap threshold joins the earlier candidate (stable,
// deterministic). Candidates with fewer than MinSignificantEvents events
// are harassment/poke and are discarded.
//
// An empty window list is a valid fight-free match segment and yields an
// empty slice, not an error.
func Assemble(windows []*CombatWindow, cfg Config) []*Fight {
	var candidates []*CombatWindow

	for _, w := range windows {
		// Find every candidate this window can join; merge into the
		// earliest, and fold later matches into it as well (the window
		// bridges them).
		var connected []*CombatWindow
		for _, c := range candidates {
			if w.Start-c.End <= cfg.CombatGap && sharesParticipant(c, w) {
				connected = append(connected, c)
			}
		}

		if len(connected) == 0 {
			candidates = append(candidates, w)
			continue
		}

		dst := connected[0]
		for _, c := range connected[1:] {
			dst.absorb(c)
			for i, o := range candidates {
				if o == c {
					candidates = append(candidates[:i], candidates[i+1:]...)
					break
				}
			}
		}
		dst.absorb(w)
	}

	var fights []*Fight
	for _, c := range candidates {
		if len(c.Events) < cfg.MinSignificantEvents {
			continue
		}
		fights = append(fights, buildFight(c))
	}

	sort.Slice(fights, func(i, j int) bool { return fights[i].Start < fights[j].Start })
	return fights
}

func sharesParticipant(a, b *CombatWindow) bool {
	for name := range b.Participants {
		if _, ok := a.Participants[name]; ok {
			return true
		}
	}
	return false
}

func buildFight(w *CombatWindow) *Fight {
	start := w.Events[0].Time
	end := w.Events[0].Time
	for _, e := range w.Events {
		if e.Time < start {
			start = e.Time
		}
		if e.Time > end {
			end = e.Time
		}
	}

	participants := make([]events.ActorRef, 0, len(w.Participants))
	for _, p := range w.Participants {
		participants = append(participants, p)
	}
	sort.Slice(participants, func(i, j int) bool { return participants[i].Name < participants[j].Name })

	f := &Fight{
		ID:           uuid.NewString(),
		Start:        start,
		End:          end,
		Duration:     end - start,
		Participants: participants,
		Events:       w.Events,
	}
	f.IsTeamfight = isTeamfight(f)
	return f
}

// isTeamfight: the participant set spans both teams, has at least three
// heroes combined, and the fight contains at least three hero deaths.
func isTeamfight(f *Fight) bool {
	var radiant, dire int
	for _, p := range f.Participants {
		switch p.Team {
		case events.TeamRadiant:
			radiant++
		case events.TeamDire:
			dire++
		}
	}
	if radiant == 0 || dire == 0 {
		return false
	}
	if radiant+dire < teamfightMinHeroes {
		return false
	}
	return len(f.Deaths()) >= teamfightMinDeaths
}
