package rotation

import (
	"dota-analyzer/internal/combat"
	"dota-analyzer/internal/events"
)

// CorrelateRunes attaches to each rotation the most recent rune pickup by
// the same hero inside the lookback window before the departure. Enriches
// each rotation at most once; a second pass over the same set is a no-op.
func CorrelateRunes(set *Set, evts []events.Event, cfg Config) {
	for _, r := range set.All() {
		if r.correlated {
			continue
		}
		r.correlated = true

		var best *events.Event
		for i := range evts {
			e := &evts[i]
			if e.Kind != events.RunePickup || e.Actor.Name != r.Hero.Name {
				continue
			}
			if e.Time > r.DepartureTime {
				break
			}
			if r.DepartureTime-e.Time > cfg.RuneLookback {
				continue
			}
			best = e
		}
		if best == nil {
			continue
		}

		r.RuneBefore = &RuneCorrelation{
			RuneType:              events.RuneName(int(best.Value)),
			PickupTime:            best.Time,
			SecondsBeforeRotation: r.DepartureTime - best.Time,
		}
	}
}

// Resolve attributes a combat outcome to each rotation by searching the
// fight set for the first fight that overlaps the outcome window after the
// departure and includes the rotating hero. Enriches each rotation at most
// once.
//
// Precedence within the resolved fight: the hero both scored and suffered
// a death -> TRADED; scored only -> KILL; suffered only -> DIED;
// participated with neither -> FIGHT. No overlapping fight -> NO_ENGAGEMENT
// with the fight reference left empty.
func Resolve(set *Set, fights *combat.FightSet, cfg Config) {
	for _, r := range set.All() {
		if r.resolved {
			continue
		}
		r.resolved = true

		f := firstFightWith(fights, r.Hero.Name, r.DepartureTime, r.DepartureTime+cfg.OutcomeWindow)
		if f == nil {
			r.Outcome = NoEngagement
			continue
		}

		r.FightRef = f.ID
		var scored, suffered bool
		for _, d := range f.Deaths() {
			if d.Actor.Name == r.Hero.Name {
				scored = true
			}
			if d.Target.Name == r.Hero.Name {
				suffered = true
			}
		}
		switch {
		case scored && suffered:
			r.Outcome = Traded
		case scored:
			r.Outcome = Kill
		case suffered:
			r.Outcome = Died
		default:
			r.Outcome = FightOnly
		}
	}
}

func firstFightWith(fights *combat.FightSet, hero string, start, end float64) *combat.Fight {
	for _, f := range fights.Overlapping(start, end) {
		if f.HasParticipant(hero) {
			return f
		}
	}
	return nil
}
