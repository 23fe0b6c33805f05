// Package combat turns the normalized event stream into Fights: time-bounded
// clusters of connected hero combat, classified with tactical highlights.
//
// The pipeline is Window -> Assemble -> Classify. Windows are transient;
// Fights are immutable once assembled, except for the one-time highlight
// attachment performed by the engine.
package combat

import (
	"sort"

	"dota-analyzer/internal/events"
)

// Fight is an assembled, significant cluster of connected combat events.
type Fight struct {
	ID           string
	Start        float64
	End          float64
	Duration     float64
	Participants []events.ActorRef // hero participants, sorted by name
	Events       []events.Event    // contiguous time-sorted slice of the log
	IsTeamfight  bool
	Highlights   Highlights
}

// StartStr returns the fight start formatted as M:SS.
func (f *Fight) StartStr() string {
	return events.FormatTime(f.Start)
}

// EndStr returns the fight end formatted as M:SS.
func (f *Fight) EndStr() string {
	return events.FormatTime(f.End)
}

// HasParticipant reports whether a hero took part in the fight.
func (f *Fight) HasParticipant(hero string) bool {
	for _, p := range f.Participants {
		if p.Name == hero {
			return true
		}
	}
	return false
}

// Deaths returns the hero death events inside the fight.
func (f *Fight) Deaths() []events.Event {
	var out []events.Event
	for _, e := range f.Events {
		if e.Kind == events.Death && e.Target.IsHero {
			out = append(out, e)
		}
	}
	return out
}

// Summary aggregates fight statistics for one match.
type Summary struct {
	TotalFights int
	Teamfights  int
	Skirmishes  int
	TotalDeaths int
}

// FightSet is the queryable, read-only collection of all fights in a match.
type FightSet struct {
	fights []*Fight
	byID   map[string]*Fight
}

// NewFightSet indexes assembled fights. The input is sorted by start time.
func NewFightSet(fights []*Fight) *FightSet {
	sorted := make([]*Fight, len(fights))
	copy(sorted, fights)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	byID := make(map[string]*Fight, len(sorted))
	for _, f := range sorted {
		byID[f.ID] = f
	}
	return &FightSet{fights: sorted, byID: byID}
}

// All returns every fight, ordered by start time.
func (s *FightSet) All() []*Fight {
	return s.fights
}

// Len returns the number of fights.
func (s *FightSet) Len() int {
	return len(s.fights)
}

// ByID looks up a fight by its identifier.
func (s *FightSet) ByID(id string) (*Fight, bool) {
	f, ok := s.byID[id]
	return f, ok
}

// Overlapping returns fights whose span intersects [start, end].
func (s *FightSet) Overlapping(start, end float64) []*Fight {
	var out []*Fight
	for _, f := range s.fights {
		if f.Start <= end && f.End >= start {
			out = append(out, f)
		}
	}
	return out
}

// ByHero returns fights a hero participated in.
func (s *FightSet) ByHero(hero string) []*Fight {
	var out []*Fight
	for _, f := range s.fights {
		if f.HasParticipant(hero) {
			out = append(out, f)
		}
	}
	return out
}

// Teamfights returns fights classified as teamfights.
func (s *FightSet) Teamfights() []*Fight {
	var out []*Fight
	for _, f := range s.fights {
		if f.IsTeamfight {
			out = append(out, f)
		}
	}
	return out
}

// Skirmishes returns fights below the teamfight classification.
func (s *FightSet) Skirmishes() []*Fight {
	var out []*Fight
	for _, f := range s.fights {
		if !f.IsTeamfight {
			out = append(out, f)
		}
	}
	return out
}

// Summary computes match-level fight statistics.
func (s *FightSet) Summary() Summary {
	sum := Summary{TotalFights: len(s.fights)}
	for _, f := range s.fights {
		if f.IsTeamfight {
			sum.Teamfights++
		} else {
			sum.Skirmishes++
		}
		sum.TotalDeaths += len(f.Deaths())
	}
	return sum
}
