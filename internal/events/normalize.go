package events

import (
	"sort"
)

// RawRecord is one heterogeneous combat log entry as produced by the replay
// acquisition layer, before validation. Field names follow the replay
// parser's JSON output.
type RawRecord struct {
	Time         *float64 `json:"game_time"`
	Type         string   `json:"type"`
	Attacker     string   `json:"attacker"`
	AttackerTeam string   `json:"attacker_team"`
	AttackerHero bool     `json:"attacker_is_hero"`
	Target       string   `json:"target"`
	TargetTeam   string   `json:"target_team"`
	TargetHero   bool     `json:"target_is_hero"`
	Ability      string   `json:"ability,omitempty"`
	Value        float64  `json:"value,omitempty"`
}

// ParseTeam maps a team name to its Team. Unknown names are neutral.
func ParseTeam(name string) Team {
	switch name {
	case "radiant":
		return TeamRadiant
	case "dire":
		return TeamDire
	}
	return TeamNeutral
}

// Roster is the set of heroes known to exist in one match. Exactly one live
// instance per hero slot; hero references outside the roster are invalid.
type Roster struct {
	heroes map[string]ActorRef
}

// NewRoster builds a roster from the match's hero list.
func NewRoster(heroes []ActorRef) *Roster {
	r := &Roster{heroes: make(map[string]ActorRef, len(heroes))}
	for _, h := range heroes {
		h.IsHero = true
		r.heroes[h.Name] = h
	}
	return r
}

// Hero looks up a hero by name.
func (r *Roster) Hero(name string) (ActorRef, bool) {
	h, ok := r.heroes[name]
	return h, ok
}

// Heroes returns all heroes, sorted by name.
func (r *Roster) Heroes() []ActorRef {
	out := make([]ActorRef, 0, len(r.heroes))
	for _, h := range r.heroes {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TeamHeroes returns the heroes on one side, sorted by name.
func (r *Roster) TeamHeroes(team Team) []ActorRef {
	var out []ActorRef
	for _, h := range r.Heroes() {
		if h.Team == team {
			out = append(out, h)
		}
	}
	return out
}

// Size returns the number of heroes in the roster.
func (r *Roster) Size() int {
	return len(r.heroes)
}

// Normalize validates raw records and produces the canonical event sequence,
// sorted by (time, sequence). The sequence number is the record's original
// position in the log, so ordering is total and stable.
//
// Any record missing a mandatory field (time, type, attacker) fails the whole
// pass with MalformedEventError; a hero reference not present in the roster
// fails with UnresolvedActorError. No repair is attempted.
func Normalize(records []RawRecord, roster *Roster) ([]Event, error) {
	out := make([]Event, 0, len(records))

	for i, rec := range records {
		if rec.Time == nil {
			return nil, &MalformedEventError{Seq: i, Reason: "missing game_time", Record: rec}
		}
		if rec.Type == "" {
			return nil, &MalformedEventError{Seq: i, Reason: "missing type", Record: rec}
		}
		kind, ok := ParseKind(rec.Type)
		if !ok {
			return nil, &MalformedEventError{Seq: i, Reason: "unknown type " + rec.Type, Record: rec}
		}
		if rec.Attacker == "" {
			return nil, &MalformedEventError{Seq: i, Reason: "missing attacker", Record: rec}
		}

		actor, err := resolveActor(roster, rec.Attacker, rec.AttackerTeam, rec.AttackerHero, i, rec)
		if err != nil {
			return nil, err
		}

		var target ActorRef
		if rec.Target != "" {
			target, err = resolveActor(roster, rec.Target, rec.TargetTeam, rec.TargetHero, i, rec)
			if err != nil {
				return nil, err
			}
		}

		out = append(out, Event{
			Time:    *rec.Time,
			Seq:     i,
			Kind:    kind,
			Actor:   actor,
			Target:  target,
			Ability: rec.Ability,
			Value:   rec.Value,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

// resolveActor validates a name against the roster when flagged as a hero.
// Non-hero units and buildings are taken at face value.
func resolveActor(roster *Roster, name, team string, isHero bool, seq int, rec RawRecord) (ActorRef, error) {
	if isHero {
		hero, ok := roster.Hero(name)
		if !ok {
			return ActorRef{}, &UnresolvedActorError{Seq: seq, Actor: name, Record: rec}
		}
		return hero, nil
	}
	return ActorRef{Name: name, Team: ParseTeam(team)}, nil
}
