package events

import "fmt"

// Kind identifies the type of a combat log event.
type Kind int

const (
	Damage Kind = iota
	Ability
	Item
	Death
	ModifierAdd
	ModifierRemove
	Heal
	RunePickup
	CreepKill
	Purchase
)

var kindNames = map[Kind]string{
	Damage:         "DAMAGE",
	Ability:        "ABILITY",
	Item:           "ITEM",
	Death:          "DEATH",
	ModifierAdd:    "MODIFIER_ADD",
	ModifierRemove: "MODIFIER_REMOVE",
	Heal:           "HEAL",
	RunePickup:     "RUNE_PICKUP",
	CreepKill:      "CREEP_KILL",
	Purchase:       "PURCHASE",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_%d", int(k))
}

// ParseKind maps a combat log type name to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Team identifies which side an actor belongs to.
type Team int

const (
	TeamNeutral Team = iota
	TeamRadiant
	TeamDire
)

func (t Team) String() string {
	switch t {
	case TeamRadiant:
		return "radiant"
	case TeamDire:
		return "dire"
	default:
		return "neutral"
	}
}

// ActorRef identifies a hero, non-hero unit, or building.
type ActorRef struct {
	Name   string
	Team   Team
	IsHero bool
}

// None reports whether the ref is the zero "no actor" value.
func (a ActorRef) None() bool {
	return a.Name == ""
}

// Event is a single normalized combat log entry. Immutable once produced
// by Normalize; consumers hold read-only views.
type Event struct {
	Time    float64 // game time in seconds
	Seq     int     // original position in the log, tie-break for equal times
	Kind    Kind
	Actor   ActorRef
	Target  ActorRef // zero value when the event has no target
	Ability string
	Value   float64
}

// Before reports whether e sorts strictly before other by (Time, Seq).
func (e Event) Before(other Event) bool {
	if e.Time != other.Time {
		return e.Time < other.Time
	}
	return e.Seq < other.Seq
}

// HeroInvolved reports whether the actor or target is a hero.
func (e Event) HeroInvolved() bool {
	return e.Actor.IsHero || e.Target.IsHero
}

// CombatKind reports whether the kind participates in fight detection.
func (e Event) CombatKind() bool {
	switch e.Kind {
	case Damage, Ability, Death, ModifierAdd, ModifierRemove:
		return true
	}
	return false
}

// FormatTime renders game seconds as M:SS, matching replay viewers.
// Negative times (pre-horn) keep the sign, e.g. "-1:35".
func FormatTime(seconds float64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	minutes := int(seconds) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%s%d:%02d", sign, minutes, secs)
}

// Rune type codes as they appear in RUNE_PICKUP event values.
var runeNames = map[int]string{
	0: "double_damage",
	1: "haste",
	2: "invisibility",
	3: "regeneration",
	4: "arcane",
	5: "shield",
}

// RuneName maps a rune type code to its name.
func RuneName(code int) string {
	if name, ok := runeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("unknown_%d", code)
}
