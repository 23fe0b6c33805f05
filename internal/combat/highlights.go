package combat

import (
	"sort"

	"dota-analyzer/internal/events"
)

// Classifier window defaults, in seconds unless noted.
const (
	DefaultMultiHeroWindow   = 1.0  // ability cast to damage instances
	DefaultKillStreakWindow  = 18.0 // kill-credit window between kills
	DefaultInitiationWindow  = 5.0  // gap-close to durability cast
	DefaultCoordinatedWindow = 3.0  // ultimates from the same team
	DefaultRefresherWindow   = 10.0 // first ultimate to repeat cast
	DefaultDangerWindow      = 2.0  // damage lookback for clutch saves
	DefaultDangerHits        = 3    // hero-sourced hits marking "in danger"
)

// ClassifierConfig holds the highlight detection thresholds.
type ClassifierConfig struct {
	MultiHeroWindow   float64 `yaml:"multi_hero_window_seconds"`
	KillStreakWindow  float64 `yaml:"kill_streak_window_seconds"`
	InitiationWindow  float64 `yaml:"initiation_window_seconds"`
	CoordinatedWindow float64 `yaml:"coordinated_window_seconds"`
	RefresherWindow   float64 `yaml:"refresher_window_seconds"`
	DangerWindow      float64 `yaml:"danger_window_seconds"`
	DangerHits        int     `yaml:"danger_hits"`
}

// DefaultClassifierConfig returns the documented default thresholds.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MultiHeroWindow:   DefaultMultiHeroWindow,
		KillStreakWindow:  DefaultKillStreakWindow,
		InitiationWindow:  DefaultInitiationWindow,
		CoordinatedWindow: DefaultCoordinatedWindow,
		RefresherWindow:   DefaultRefresherWindow,
		DangerWindow:      DefaultDangerWindow,
		DangerHits:        DefaultDangerHits,
	}
}

// MultiHeroAbility is one area ability connecting with multiple heroes.
type MultiHeroAbility struct {
	Time      float64
	Caster    events.ActorRef
	Ability   string
	HeroesHit []string
	HeroCount int
}

// KillStreak is a chain of kills by one hero, each within the kill-credit
// window of the previous one.
type KillStreak struct {
	Hero       events.ActorRef
	Count      int
	StreakType string // double_kill, triple_kill, ultra_kill, rampage
	Start      float64
	End        float64
	Victims    []string
}

// TeamWipe records all five heroes of one side dying inside a fight.
type TeamWipe struct {
	Team    events.Team
	Time    float64 // time of the fifth death
	Victims []string
}

// InitiationCombo is a gap-close plus durability cast by the same hero in
// quick succession. The earlier cast is the initiator.
type InitiationCombo struct {
	Hero           events.ActorRef
	GapClose       string
	Durability     string
	GapCloseTime   float64
	DurabilityTime float64
	Initiator      string // the earlier of the two abilities
}

// CoordinatedUltimate is two or more same-team heroes committing big
// teamfight ultimates together.
type CoordinatedUltimate struct {
	Team      events.Team
	Heroes    []string
	Abilities []string
	Start     float64
	End       float64
}

// RefresherCombo is the same ultimate cast twice around a cooldown reset.
type RefresherCombo struct {
	Hero        events.ActorRef
	Ability     string
	FirstCast   float64
	SecondCast  float64
	RefreshTime float64
}

// ClutchSave is a defensive ability landing on a hero under focused fire.
type ClutchSave struct {
	Saver       events.ActorRef
	SavedHero   string
	SaveAbility string
	SaveType    string
	Time        float64
	SavedFrom   string // most recent ability aimed at the target, if any
}

// Highlights holds every classified pattern for one fight. A fight may
// carry zero or many of each kind.
type Highlights struct {
	MultiHeroAbilities   []MultiHeroAbility
	KillStreaks          []KillStreak
	TeamWipes            []TeamWipe
	InitiationCombos     []InitiationCombo
	CoordinatedUltimates []CoordinatedUltimate
	RefresherCombos      []RefresherCombo
	ClutchSaves          []ClutchSave
}

// isCast reports whether the event is an ability or item activation.
func isCast(e events.Event) bool {
	return e.Kind == events.Ability || e.Kind == events.Item
}

// Classify runs every highlight rule over one fight's events. Pure: the
// same fight always yields the same Highlights, and the fight itself is
// not modified. The rules are independent; a single cast may contribute
// to several highlight kinds.
func Classify(f *Fight, sets AbilitySets, cfg ClassifierConfig) Highlights {
	return Highlights{
		MultiHeroAbilities:   multiHeroAbilities(f.Events, sets, cfg),
		KillStreaks:          killStreaks(f.Events, cfg),
		TeamWipes:            teamWipes(f.Events),
		InitiationCombos:     initiationCombos(f.Events, sets, cfg),
		CoordinatedUltimates: coordinatedUltimates(f.Events, sets, cfg),
		RefresherCombos:      refresherCombos(f.Events, sets, cfg),
		ClutchSaves:          clutchSaves(f.Events, sets, cfg),
	}
}

// multiHeroAbilities: an area-impact cast immediately followed by damage
// instances of the same ability from the same caster on two or more
// distinct heroes. Self-damage is filtered.
func multiHeroAbilities(evts []events.Event, sets AbilitySets, cfg ClassifierConfig) []MultiHeroAbility {
	var out []MultiHeroAbility
	for i, e := range evts {
		if e.Kind != events.Ability || !sets.AreaImpact[e.Ability] {
			continue
		}

		hit := make(map[string]bool)
		for _, d := range evts[i+1:] {
			if d.Time-e.Time > cfg.MultiHeroWindow {
				break
			}
			if d.Kind != events.Damage || d.Ability != e.Ability {
				continue
			}
			if d.Actor.Name != e.Actor.Name || !d.Target.IsHero {
				continue
			}
			if d.Target.Name == e.Actor.Name {
				continue
			}
			hit[d.Target.Name] = true
		}
		if len(hit) < 2 {
			continue
		}

		names := make([]string, 0, len(hit))
		for n := range hit {
			names = append(names, n)
		}
		sort.Strings(names)
		out = append(out, MultiHeroAbility{
			Time:      e.Time,
			Caster:    e.Actor,
			Ability:   e.Ability,
			HeroesHit: names,
			HeroCount: len(names),
		})
	}
	return out
}

var streakNames = map[int]string{
	2: "double_kill",
	3: "triple_kill",
	4: "ultra_kill",
}

func streakName(count int) string {
	if name, ok := streakNames[count]; ok {
		return name
	}
	return "rampage"
}

// killStreaks: consecutive hero kills by the same hero, each within the
// kill-credit window of the previous kill. A gap beyond the window starts
// a fresh streak rather than extending the old one.
func killStreaks(evts []events.Event, cfg ClassifierConfig) []KillStreak {
	type chain struct {
		hero    events.ActorRef
		times   []float64
		victims []string
	}
	chains := make(map[string]*chain)
	order := []string{}
	var out []KillStreak

	flush := func(c *chain) {
		if len(c.times) < 2 {
			return
		}
		out = append(out, KillStreak{
			Hero:       c.hero,
			Count:      len(c.times),
			StreakType: streakName(len(c.times)),
			Start:      c.times[0],
			End:        c.times[len(c.times)-1],
			Victims:    c.victims,
		})
	}

	for _, e := range evts {
		if e.Kind != events.Death || !e.Target.IsHero || !e.Actor.IsHero {
			continue
		}
		c, ok := chains[e.Actor.Name]
		if !ok {
			c = &chain{hero: e.Actor}
			chains[e.Actor.Name] = c
			order = append(order, e.Actor.Name)
		}
		if len(c.times) > 0 && e.Time-c.times[len(c.times)-1] > cfg.KillStreakWindow {
			flush(c)
			c.times = nil
			c.victims = nil
		}
		c.times = append(c.times, e.Time)
		c.victims = append(c.victims, e.Target.Name)
	}

	for _, name := range order {
		flush(chains[name])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].Hero.Name < out[j].Hero.Name
	})
	return out
}

const wipeSize = 5 // full team

// teamWipes: all five heroes of one side die inside the fight span.
func teamWipes(evts []events.Event) []TeamWipe {
	type side struct {
		dead  map[string]bool
		order []string
		time  float64
	}
	sides := map[events.Team]*side{
		events.TeamRadiant: {dead: make(map[string]bool)},
		events.TeamDire:    {dead: make(map[string]bool)},
	}

	var out []TeamWipe
	for _, e := range evts {
		if e.Kind != events.Death || !e.Target.IsHero {
			continue
		}
		s, ok := sides[e.Target.Team]
		if !ok || s.dead[e.Target.Name] {
			continue
		}
		s.dead[e.Target.Name] = true
		s.order = append(s.order, e.Target.Name)
		s.time = e.Time

		if len(s.dead) == wipeSize {
			victims := make([]string, len(s.order))
			copy(victims, s.order)
			out = append(out, TeamWipe{Team: e.Target.Team, Time: s.time, Victims: victims})
		}
	}
	return out
}

// initiationCombos: a gap-close and a durability cooldown cast by the same
// hero within the initiation window, in either order. The earlier cast is
// tagged as the initiator.
func initiationCombos(evts []events.Event, sets AbilitySets, cfg ClassifierConfig) []InitiationCombo {
	type cast struct {
		time    float64
		ability string
	}
	gapCloses := make(map[string][]cast)
	durables := make(map[string][]cast)
	actors := make(map[string]events.ActorRef)

	for _, e := range evts {
		if !isCast(e) || !e.Actor.IsHero {
			continue
		}
		switch {
		case sets.GapClose[e.Ability]:
			gapCloses[e.Actor.Name] = append(gapCloses[e.Actor.Name], cast{e.Time, e.Ability})
			actors[e.Actor.Name] = e.Actor
		case sets.Durability[e.Ability]:
			durables[e.Actor.Name] = append(durables[e.Actor.Name], cast{e.Time, e.Ability})
			actors[e.Actor.Name] = e.Actor
		}
	}

	var out []InitiationCombo
	for name, gcs := range gapCloses {
		for _, gc := range gcs {
			for _, d := range durables[name] {
				gap := d.time - gc.time
				if gap < 0 {
					gap = -gap
				}
				if gap > cfg.InitiationWindow {
					continue
				}
				combo := InitiationCombo{
					Hero:           actors[name],
					GapClose:       gc.ability,
					Durability:     d.ability,
					GapCloseTime:   gc.time,
					DurabilityTime: d.time,
					Initiator:      gc.ability,
				}
				if d.time < gc.time {
					combo.Initiator = d.ability
				}
				out = append(out, combo)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].GapCloseTime, out[j].GapCloseTime
		if ti != tj {
			return ti < tj
		}
		return out[i].Hero.Name < out[j].Hero.Name
	})
	return out
}

// coordinatedUltimates: two or more heroes from the same team casting big
// teamfight ultimates within the coordination window of the cluster start.
func coordinatedUltimates(evts []events.Event, sets AbilitySets, cfg ClassifierConfig) []CoordinatedUltimate {
	type cast struct {
		time    float64
		hero    string
		ability string
	}
	byTeam := make(map[events.Team][]cast)
	for _, e := range evts {
		if !isCast(e) || !e.Actor.IsHero || !sets.BigTeamfight[e.Ability] {
			continue
		}
		byTeam[e.Actor.Team] = append(byTeam[e.Actor.Team], cast{e.Time, e.Actor.Name, e.Ability})
	}

	var out []CoordinatedUltimate
	for _, team := range []events.Team{events.TeamRadiant, events.TeamDire} {
		casts := byTeam[team]
		for i := 0; i < len(casts); {
			j := i + 1
			for j < len(casts) && casts[j].time-casts[i].time <= cfg.CoordinatedWindow {
				j++
			}
			cluster := casts[i:j]

			heroes := make(map[string]bool)
			for _, c := range cluster {
				heroes[c.hero] = true
			}
			if len(heroes) >= 2 {
				names := make([]string, 0, len(heroes))
				for h := range heroes {
					names = append(names, h)
				}
				sort.Strings(names)
				abilities := make([]string, len(cluster))
				for k, c := range cluster {
					abilities[k] = c.ability
				}
				out = append(out, CoordinatedUltimate{
					Team:      team,
					Heroes:    names,
					Abilities: abilities,
					Start:     cluster[0].time,
					End:       cluster[len(cluster)-1].time,
				})
			}
			i = j
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// refresherCombos: an ultimate, a refresh cast, then the same ultimate
// again, all by the same hero with the repeat inside the refresher window
// of the first cast.
func refresherCombos(evts []events.Event, sets AbilitySets, cfg ClassifierConfig) []RefresherCombo {
	var out []RefresherCombo
	for i, r := range evts {
		if !isCast(r) || !r.Actor.IsHero || !sets.Refresh[r.Ability] {
			continue
		}

		// Most recent big ultimate by the same hero before the refresh.
		var first *events.Event
		for k := i - 1; k >= 0; k-- {
			e := evts[k]
			if isCast(e) && e.Actor.Name == r.Actor.Name && sets.BigTeamfight[e.Ability] {
				first = &evts[k]
				break
			}
		}
		if first == nil {
			continue
		}

		for k := i + 1; k < len(evts); k++ {
			e := evts[k]
			if e.Time-first.Time > cfg.RefresherWindow {
				break
			}
			if isCast(e) && e.Actor.Name == r.Actor.Name && e.Ability == first.Ability {
				out = append(out, RefresherCombo{
					Hero:        r.Actor,
					Ability:     first.Ability,
					FirstCast:   first.Time,
					SecondCast:  e.Time,
					RefreshTime: r.Time,
				})
				break
			}
		}
	}
	return out
}

// clutchSaves: a defensive cast on a hero under focused fire. "In danger"
// means the target took at least DangerHits hero-sourced damage instances
// inside the danger window before the save.
func clutchSaves(evts []events.Event, sets AbilitySets, cfg ClassifierConfig) []ClutchSave {
	var out []ClutchSave
	for i, e := range evts {
		if !isCast(e) || !e.Actor.IsHero {
			continue
		}
		saveType, ok := sets.Save[e.Ability]
		if !ok {
			continue
		}

		saved := e.Target
		if SelfSave(saveType) || saved.None() {
			saved = e.Actor
		}
		if !saved.IsHero {
			continue
		}

		hits := 0
		savedFrom := ""
		for k := i - 1; k >= 0; k-- {
			d := evts[k]
			if e.Time-d.Time > cfg.DangerWindow {
				break
			}
			if d.Kind == events.Damage && d.Actor.IsHero && d.Target.Name == saved.Name {
				hits++
				if savedFrom == "" && d.Ability != "" {
					savedFrom = d.Ability
				}
			}
		}
		if hits < cfg.DangerHits {
			continue
		}

		out = append(out, ClutchSave{
			Saver:       e.Actor,
			SavedHero:   saved.Name,
			SaveAbility: e.Ability,
			SaveType:    saveType,
			Time:        e.Time,
			SavedFrom:   savedFrom,
		})
	}
	return out
}
