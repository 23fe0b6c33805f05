// Package rotation detects hero lane departures from position timelines and
// correlates them with rune pickups and fight outcomes.
//
// Rotations are created by Detect, then enriched exactly once each by
// CorrelateRunes and Resolve. Both enrichment passes are idempotent.
package rotation

import (
	"sort"

	"dota-analyzer/internal/events"
	"dota-analyzer/internal/gamemap"
)

// Detection and correlation defaults, in seconds unless noted.
const (
	// DefaultMinOffLaneSamples is how many consecutive off-lane samples
	// mark a real departure rather than a single noisy position read.
	DefaultMinOffLaneSamples = 2

	// DefaultRuneLookback bounds the search for a rune pickup preceding a
	// departure.
	DefaultRuneLookback = 60.0

	// DefaultOutcomeWindow bounds the search for a fight following a
	// departure.
	DefaultOutcomeWindow = 60.0
)

// Config holds the rotation pipeline thresholds.
type Config struct {
	MinOffLaneSamples int     `yaml:"min_off_lane_samples"`
	RuneLookback      float64 `yaml:"rune_lookback_seconds"`
	OutcomeWindow     float64 `yaml:"outcome_window_seconds"`
}

// DefaultConfig returns the documented default thresholds.
func DefaultConfig() Config {
	return Config{
		MinOffLaneSamples: DefaultMinOffLaneSamples,
		RuneLookback:      DefaultRuneLookback,
		OutcomeWindow:     DefaultOutcomeWindow,
	}
}

// Sample is one position read from a world-state snapshot.
type Sample struct {
	Time   float64
	Region string
	Lane   string // lane the region belongs to, empty for jungle/river
	Pos    gamemap.Point
}

// Timeline is a hero's ordered position history plus the lane the hero
// started the match in.
type Timeline struct {
	Hero         events.ActorRef
	AssignedLane string
	Samples      []Sample
}

// RuneCorrelation links a rotation to the rune pickup that preceded it.
type RuneCorrelation struct {
	RuneType              string
	PickupTime            float64
	SecondsBeforeRotation float64
}

// Outcome is the combat result attributed to a rotation.
type Outcome int

const (
	// NoEngagement is the zero value: no fight overlapped the rotation.
	NoEngagement Outcome = iota
	Traded
	Kill
	Died
	FightOnly
)

var outcomeNames = map[Outcome]string{
	NoEngagement: "NO_ENGAGEMENT",
	Traded:       "TRADED",
	Kill:         "KILL",
	Died:         "DIED",
	FightOnly:    "FIGHT",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "UNKNOWN"
}

// Rotation is one sustained departure from a hero's assigned lane.
type Rotation struct {
	ID            string
	Hero          events.ActorRef
	FromLane      string // always the hero's assigned lane
	ToLane        string // region the hero moved to
	DepartureTime float64
	ReturnTime    float64
	Returned      bool
	RuneBefore    *RuneCorrelation
	Outcome       Outcome
	FightRef      string // id of the resolved fight, empty for NO_ENGAGEMENT

	correlated bool
	resolved   bool
}

// DepartureStr returns the departure formatted as M:SS.
func (r *Rotation) DepartureStr() string {
	return events.FormatTime(r.DepartureTime)
}

// Set is the queryable, read-only collection of all rotations in a match.
type Set struct {
	rotations []*Rotation
}

// NewSet orders rotations by departure time.
func NewSet(rotations []*Rotation) *Set {
	sorted := make([]*Rotation, len(rotations))
	copy(sorted, rotations)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].DepartureTime != sorted[j].DepartureTime {
			return sorted[i].DepartureTime < sorted[j].DepartureTime
		}
		return sorted[i].Hero.Name < sorted[j].Hero.Name
	})
	return &Set{rotations: sorted}
}

// All returns every rotation, ordered by departure time.
func (s *Set) All() []*Rotation {
	return s.rotations
}

// Len returns the number of rotations.
func (s *Set) Len() int {
	return len(s.rotations)
}

// ByHero returns a hero's rotations.
func (s *Set) ByHero(hero string) []*Rotation {
	var out []*Rotation
	for _, r := range s.rotations {
		if r.Hero.Name == hero {
			out = append(out, r)
		}
	}
	return out
}

// Overlapping returns rotations whose departure falls inside [start, end].
func (s *Set) Overlapping(start, end float64) []*Rotation {
	var out []*Rotation
	for _, r := range s.rotations {
		if r.DepartureTime >= start && r.DepartureTime <= end {
			out = append(out, r)
		}
	}
	return out
}
