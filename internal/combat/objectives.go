package combat

import (
	"sort"
	"strings"

	"dota-analyzer/internal/events"
)

// ObjectiveKill is a Roshan, tower, or barracks kill taken from the
// event log. Killer is empty when creeps or summons got the last hit.
type ObjectiveKill struct {
	Time   float64
	Type   string // "roshan", "tower", "barracks"
	Name   string // the destroyed unit's log name
	Killer string
	Team   events.Team // the team credited with the kill
	Number int         // Roshan kill ordinal, zero otherwise
}

// TimeStr renders the kill time as M:SS.
func (o ObjectiveKill) TimeStr() string {
	return events.FormatTime(o.Time)
}

// ItemPurchase is one shop purchase.
type ItemPurchase struct {
	Time float64
	Hero string
	Item string
}

// RoshanKills extracts Roshan deaths in log order, numbered from 1. The
// credited team is the killer's side.
func RoshanKills(evts []events.Event) []ObjectiveKill {
	var out []ObjectiveKill
	for _, e := range evts {
		if e.Kind != events.Death || !strings.Contains(strings.ToLower(e.Target.Name), "roshan") {
			continue
		}
		k := ObjectiveKill{
			Time:   e.Time,
			Type:   "roshan",
			Name:   e.Target.Name,
			Team:   e.Actor.Team,
			Number: len(out) + 1,
		}
		if e.Actor.IsHero {
			k.Killer = e.Actor.Name
		}
		out = append(out, k)
	}
	return out
}

// TowerKills extracts tower destructions. The building's side is encoded
// in its name (goodguys = radiant); the opposing team gets the credit.
func TowerKills(evts []events.Event) []ObjectiveKill {
	return buildingKills(evts, "tower", func(name string) bool {
		return strings.Contains(name, "tower")
	})
}

// BarracksKills extracts barracks destructions. The melee/ranged
// distinction stays in the unit name.
func BarracksKills(evts []events.Event) []ObjectiveKill {
	return buildingKills(evts, "barracks", func(name string) bool {
		return strings.Contains(name, "rax") || strings.Contains(name, "barrack")
	})
}

func buildingKills(evts []events.Event, kind string, match func(string) bool) []ObjectiveKill {
	var out []ObjectiveKill
	for _, e := range evts {
		if e.Kind != events.Death {
			continue
		}
		name := strings.ToLower(e.Target.Name)
		if !match(name) {
			continue
		}
		side, ok := buildingSide(name)
		if !ok {
			continue
		}
		k := ObjectiveKill{
			Time: e.Time,
			Type: kind,
			Name: e.Target.Name,
			Team: opposing(side),
		}
		if e.Actor.IsHero {
			k.Killer = e.Actor.Name
		}
		out = append(out, k)
	}
	return out
}

// Objectives gathers all objective kills, ordered by time.
func Objectives(evts []events.Event) []ObjectiveKill {
	out := RoshanKills(evts)
	out = append(out, TowerKills(evts)...)
	out = append(out, BarracksKills(evts)...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// ItemPurchases extracts shop purchases in log order. An empty hero
// matches every buyer.
func ItemPurchases(evts []events.Event, hero string) []ItemPurchase {
	var out []ItemPurchase
	for _, e := range evts {
		if e.Kind != events.Purchase {
			continue
		}
		if hero != "" && e.Actor.Name != hero {
			continue
		}
		out = append(out, ItemPurchase{Time: e.Time, Hero: e.Actor.Name, Item: e.Ability})
	}
	return out
}

func buildingSide(name string) (events.Team, bool) {
	switch {
	case strings.Contains(name, "goodguys"):
		return events.TeamRadiant, true
	case strings.Contains(name, "badguys"):
		return events.TeamDire, true
	}
	return events.TeamNeutral, false
}

func opposing(t events.Team) events.Team {
	switch t {
	case events.TeamRadiant:
		return events.TeamDire
	case events.TeamDire:
		return events.TeamRadiant
	}
	return events.TeamNeutral
}
