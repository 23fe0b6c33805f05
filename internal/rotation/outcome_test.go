package rotation

import (
	"testing"

	"dota-analyzer/internal/combat"
	"dota-analyzer/internal/events"
)

var medusaRef = events.ActorRef{Name: "medusa", Team: events.TeamDire, IsHero: true}

// fightWith builds an indexed fight set containing one fight.
func fightWith(id string, start, end float64, deaths ...events.Event) *combat.FightSet {
	participants := map[string]events.ActorRef{}
	for _, d := range deaths {
		if d.Actor.IsHero {
			participants[d.Actor.Name] = d.Actor
		}
		if d.Target.IsHero {
			participants[d.Target.Name] = d.Target
		}
	}
	var refs []events.ActorRef
	for _, p := range participants {
		refs = append(refs, p)
	}

	f := &combat.Fight{
		ID:           id,
		Start:        start,
		End:          end,
		Duration:     end - start,
		Participants: refs,
		Events:       deaths,
	}
	return combat.NewFightSet([]*combat.Fight{f})
}

func death(t float64, attacker, victim events.ActorRef) events.Event {
	return events.Event{Time: t, Kind: events.Death, Actor: attacker, Target: victim}
}

func TestCorrelateRunes_HastePickupBeforeDeparture(t *testing.T) {
	set := NewSet([]*Rotation{{
		ID:            "r1",
		Hero:          pugna,
		FromLane:      "mid",
		ToLane:        "radiant_safelane",
		DepartureTime: 365,
	}})

	evts := []events.Event{
		{Time: 362, Kind: events.RunePickup, Actor: pugna, Value: 1},
	}

	CorrelateRunes(set, evts, DefaultConfig())

	r := set.All()[0]
	if r.RuneBefore == nil {
		t.Fatal("Pickup 3s before departure must correlate")
	}
	if r.RuneBefore.RuneType != "haste" {
		t.Errorf("RuneType = %s, want haste", r.RuneBefore.RuneType)
	}
	if r.RuneBefore.SecondsBeforeRotation != 3.0 {
		t.Errorf("SecondsBeforeRotation = %v, want 3.0", r.RuneBefore.SecondsBeforeRotation)
	}
}

func TestCorrelateRunes_MostRecentPickupWins(t *testing.T) {
	set := NewSet([]*Rotation{{ID: "r1", Hero: pugna, DepartureTime: 400}})

	evts := []events.Event{
		{Time: 350, Kind: events.RunePickup, Actor: pugna, Value: 0},
		{Time: 380, Kind: events.RunePickup, Actor: pugna, Value: 2},
	}

	CorrelateRunes(set, evts, DefaultConfig())

	r := set.All()[0]
	if r.RuneBefore == nil || r.RuneBefore.RuneType != "invisibility" {
		t.Errorf("Expected the later invisibility pickup, got %+v", r.RuneBefore)
	}
}

func TestCorrelateRunes_OutsideLookback(t *testing.T) {
	set := NewSet([]*Rotation{{ID: "r1", Hero: pugna, DepartureTime: 400}})

	evts := []events.Event{
		{Time: 330, Kind: events.RunePickup, Actor: pugna, Value: 1},     // 70s before
		{Time: 390, Kind: events.RunePickup, Actor: medusaRef, Value: 1}, // other hero
		{Time: 405, Kind: events.RunePickup, Actor: pugna, Value: 1},     // after departure
	}

	CorrelateRunes(set, evts, DefaultConfig())
	if r := set.All()[0]; r.RuneBefore != nil {
		t.Errorf("No qualifying pickup, got %+v", r.RuneBefore)
	}
}

func TestResolve_OutcomePrecedence(t *testing.T) {
	cases := []struct {
		name   string
		deaths []events.Event
		want   Outcome
	}{
		{"Kill", []events.Event{death(375, pugna, medusaRef)}, Kill},
		{"Died", []events.Event{death(375, medusaRef, pugna)}, Died},
		{"Traded", []events.Event{
			death(375, pugna, medusaRef),
			death(380, medusaRef, pugna),
		}, Traded},
		{"FightOnly", []events.Event{
			death(375, medusaRef, events.ActorRef{Name: "juggernaut", Team: events.TeamRadiant, IsHero: true}),
			{Time: 376, Kind: events.Damage, Actor: pugna, Target: medusaRef, Value: 50},
		}, FightOnly},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			set := NewSet([]*Rotation{{ID: "r1", Hero: pugna, DepartureTime: 365}})
			fights := fightWith("f1", 370, 390, c.deaths...)

			Resolve(set, fights, DefaultConfig())

			r := set.All()[0]
			if r.Outcome != c.want {
				t.Errorf("Outcome = %s, want %s", r.Outcome, c.want)
			}
			if r.FightRef != "f1" {
				t.Errorf("FightRef = %q, want f1", r.FightRef)
			}
		})
	}
}

func TestResolve_FightOnlyNeedsParticipation(t *testing.T) {
	// The fight overlaps the window but pugna is not in it.
	set := NewSet([]*Rotation{{ID: "r1", Hero: pugna, DepartureTime: 365}})
	fights := fightWith("f1", 370, 390,
		death(375, medusaRef, events.ActorRef{Name: "juggernaut", Team: events.TeamRadiant, IsHero: true}))

	Resolve(set, fights, DefaultConfig())

	r := set.All()[0]
	if r.Outcome != NoEngagement {
		t.Errorf("Outcome = %s, want NO_ENGAGEMENT", r.Outcome)
	}
	if r.FightRef != "" {
		t.Errorf("FightRef = %q, want empty", r.FightRef)
	}
}

func TestResolve_NoEngagement(t *testing.T) {
	// The only fight ends long before the rotation departs.
	set := NewSet([]*Rotation{{ID: "r1", Hero: pugna, DepartureTime: 500}})
	fights := fightWith("f1", 100, 120, death(110, pugna, medusaRef))

	Resolve(set, fights, DefaultConfig())

	r := set.All()[0]
	if r.Outcome != NoEngagement {
		t.Errorf("Outcome = %s, want NO_ENGAGEMENT", r.Outcome)
	}
	if r.FightRef != "" {
		t.Errorf("FightRef = %q, want unset", r.FightRef)
	}
}

func TestEnrichment_Idempotent(t *testing.T) {
	set := NewSet([]*Rotation{{ID: "r1", Hero: pugna, DepartureTime: 365}})
	evts := []events.Event{{Time: 362, Kind: events.RunePickup, Actor: pugna, Value: 1}}
	fights := fightWith("f1", 370, 390, death(375, pugna, medusaRef))
	cfg := DefaultConfig()

	CorrelateRunes(set, evts, cfg)
	Resolve(set, fights, cfg)

	first := *set.All()[0]

	// Re-running both passes must not change anything, even against
	// different inputs: enrichment happens exactly once.
	CorrelateRunes(set, nil, cfg)
	Resolve(set, combat.NewFightSet(nil), cfg)

	second := *set.All()[0]
	if first != second {
		t.Errorf("Enrichment not idempotent:\n first = %+v\nsecond = %+v", first, second)
	}
}
