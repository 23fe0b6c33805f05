package combat

import (
	"dota-analyzer/internal/events"
)

// Shared fixtures for the combat package tests. The roster mirrors a real
// pub match so scenarios read like actual games.

var (
	earthshaker = events.ActorRef{Name: "earthshaker", Team: events.TeamRadiant, IsHero: true}
	nevermore   = events.ActorRef{Name: "nevermore", Team: events.TeamRadiant, IsHero: true}
	juggernaut  = events.ActorRef{Name: "juggernaut", Team: events.TeamRadiant, IsHero: true}
	shadowDemon = events.ActorRef{Name: "shadow_demon", Team: events.TeamRadiant, IsHero: true}
	pugna       = events.ActorRef{Name: "pugna", Team: events.TeamRadiant, IsHero: true}

	disruptor = events.ActorRef{Name: "disruptor", Team: events.TeamDire, IsHero: true}
	medusa    = events.ActorRef{Name: "medusa", Team: events.TeamDire, IsHero: true}
	nagaSiren = events.ActorRef{Name: "naga_siren", Team: events.TeamDire, IsHero: true}
	pangolier = events.ActorRef{Name: "pangolier", Team: events.TeamDire, IsHero: true}
	magnataur = events.ActorRef{Name: "magnataur", Team: events.TeamDire, IsHero: true}
)

type eventBuilder struct {
	seq  int
	evts []events.Event
}

func (b *eventBuilder) push(e events.Event) {
	e.Seq = b.seq
	b.seq++
	b.evts = append(b.evts, e)
}

func (b *eventBuilder) damage(t float64, actor, target events.ActorRef, ability string) {
	b.push(events.Event{Time: t, Kind: events.Damage, Actor: actor, Target: target, Ability: ability, Value: 100})
}

func (b *eventBuilder) death(t float64, attacker, victim events.ActorRef) {
	b.push(events.Event{Time: t, Kind: events.Death, Actor: attacker, Target: victim})
}

func (b *eventBuilder) cast(t float64, actor events.ActorRef, ability string) {
	b.push(events.Event{Time: t, Kind: events.Ability, Actor: actor, Ability: ability})
}

func (b *eventBuilder) castOn(t float64, actor, target events.ActorRef, ability string) {
	b.push(events.Event{Time: t, Kind: events.Ability, Actor: actor, Target: target, Ability: ability})
}

func (b *eventBuilder) item(t float64, actor events.ActorRef, item string) {
	b.push(events.Event{Time: t, Kind: events.Item, Actor: actor, Ability: item})
}

// fight wraps the builder's events into a Fight for classifier tests.
func (b *eventBuilder) fight() *Fight {
	start, end := b.evts[0].Time, b.evts[0].Time
	for _, e := range b.evts {
		if e.Time < start {
			start = e.Time
		}
		if e.Time > end {
			end = e.Time
		}
	}
	return &Fight{ID: "test-fight", Start: start, End: end, Duration: end - start, Events: b.evts}
}
