package combat

import (
	"sort"

	"dota-analyzer/internal/events"
)

// Windowing and assembly thresholds.
const (
	// DefaultIntensityGap is the max seconds between connected combat
	// events inside one engagement window.
	DefaultIntensityGap = 3.0

	// DefaultCombatGap is the max seconds between windows that still
	// belong to the same fight.
	DefaultCombatGap = 8.0

	// DefaultMinSignificantEvents is the event count below which a
	// candidate is harassment/poke, not a fight.
	DefaultMinSignificantEvents = 5

	// Teamfight classification: both teams present, this many heroes
	// combined, and this many deaths.
	teamfightMinHeroes = 3
	teamfightMinDeaths = 3
)

// Config holds the fight pipeline thresholds.
type Config struct {
	IntensityGap         float64          `yaml:"intensity_gap_seconds"`
	CombatGap            float64          `yaml:"combat_gap_seconds"`
	MinSignificantEvents int              `yaml:"min_significant_events"`
	Classifier           ClassifierConfig `yaml:"highlights"`
}

// DefaultConfig returns the documented default thresholds.
func DefaultConfig() Config {
	return Config{
		IntensityGap:         DefaultIntensityGap,
		CombatGap:            DefaultCombatGap,
		MinSignificantEvents: DefaultMinSignificantEvents,
		Classifier:           DefaultClassifierConfig(),
	}
}

// CombatWindow is a transient engagement window. Consumed by Assemble and
// discarded.
type CombatWindow struct {
	Start        float64
	End          float64
	Events       []events.Event
	Participants map[string]events.ActorRef
}

func newWindow(e events.Event) *CombatWindow {
	w := &CombatWindow{
		Start:        e.Time,
		End:          e.Time,
		Events:       []events.Event{e},
		Participants: make(map[string]events.ActorRef, 4),
	}
	w.addParticipants(e)
	return w
}

func (w *CombatWindow) addParticipants(e events.Event) {
	if e.Actor.IsHero {
		w.Participants[e.Actor.Name] = e.Actor
	}
	if e.Target.IsHero {
		w.Participants[e.Target.Name] = e.Target
	}
}

func (w *CombatWindow) add(e events.Event) {
	w.Events = append(w.Events, e)
	if e.Time > w.End {
		w.End = e.Time
	}
	w.addParticipants(e)
}

// shares reports whether the event involves any hero already in the window.
func (w *CombatWindow) shares(e events.Event) bool {
	if e.Actor.IsHero {
		if _, ok := w.Participants[e.Actor.Name]; ok {
			return true
		}
	}
	if e.Target.IsHero {
		if _, ok := w.Participants[e.Target.Name]; ok {
			return true
		}
	}
	return false
}

// absorb merges another window into this one, unioning participants and
// re-sorting events into time order.
func (w *CombatWindow) absorb(other *CombatWindow) {
	w.Events = append(w.Events, other.Events...)
	sort.SliceStable(w.Events, func(i, j int) bool { return w.Events[i].Before(w.Events[j]) })
	if other.Start < w.Start {
		w.Start = other.Start
	}
	if other.End > w.End {
		w.End = other.End
	}
	for name, ref := range other.Participants {
		w.Participants[name] = ref
	}
}

// qualifies reports whether an event participates in windowing: a combat
// kind with at least one hero on either side.
func qualifies(e events.Event) bool {
	return e.CombatKind() && e.HeroInvolved()
}

// Window partitions the combat-relevant subsequence into engagement
// windows. An event extends a window when the gap to the window's last
// event is within the intensity gap AND it shares a participant; two
// simultaneous skirmishes in different lanes therefore resolve to separate
// windows even though their timestamps interleave. An event that connects
// two still-open windows merges them immediately.
func Window(evts []events.Event, cfg Config) []*CombatWindow {
	var open []*CombatWindow
	var closed []*CombatWindow

	for _, e := range evts {
		if !qualifies(e) {
			continue
		}

		// Retire windows this event can no longer reach. Events arrive in
		// time order, so nothing later can reach them either.
		still := open[:0]
		for _, w := range open {
			if e.Time-w.End > cfg.IntensityGap {
				closed = append(closed, w)
			} else {
				still = append(still, w)
			}
		}
		open = still

		// Collect every open window this event connects to.
		var connected []*CombatWindow
		for _, w := range open {
			if w.shares(e) {
				connected = append(connected, w)
			}
		}

		switch len(connected) {
		case 0:
			open = append(open, newWindow(e))
		case 1:
			connected[0].add(e)
		default:
			// A bridging event (e.g. a roamer joining two skirmishes):
			// union the windows immediately, earliest window survives.
			dst := connected[0]
			for _, w := range connected[1:] {
				dst.absorb(w)
				for i, o := range open {
					if o == w {
						open = append(open[:i], open[i+1:]...)
						break
					}
				}
			}
			dst.add(e)
		}
	}

	closed = append(closed, open...)
	sort.Slice(closed, func(i, j int) bool { return closed[i].Start < closed[j].Start })
	return closed
}
