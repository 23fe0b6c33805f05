package farming

import (
	"math"

	"dota-analyzer/internal/events"
	"dota-analyzer/internal/gamemap"
)

// Aggregate computes one hero's farming summary from the normalized event
// log, position samples, and economy samples. The bucket sequence is
// contiguous across [start minute, end minute] with empty minutes present
// as zero-count buckets.
func Aggregate(hero events.ActorRef, evts []events.Event, positions []PositionSample, economy []EconomySample, geo *gamemap.Geometry) *Summary {
	sum := &Summary{Hero: hero}

	kills := heroCreepKills(hero, evts)
	startMin, endMin, ok := minuteRange(kills, positions)
	if !ok {
		return sum
	}

	sum.Buckets = make([]MinuteBucket, 0, endMin-startMin+1)
	for m := startMin; m <= endMin; m++ {
		sum.Buckets = append(sum.Buckets, buildBucket(m, kills, positions, economy, geo))
	}

	sum.Transitions = transitions(kills, positions, sum.Buckets, geo)
	sum.Totals = totals(sum.Buckets, positions)
	return sum
}

func heroCreepKills(hero events.ActorRef, evts []events.Event) []events.Event {
	var out []events.Event
	for _, e := range evts {
		if e.Kind == events.CreepKill && e.Actor.Name == hero.Name {
			out = append(out, e)
		}
	}
	return out
}

func minuteRange(kills []events.Event, positions []PositionSample) (int, int, bool) {
	var lo, hi float64
	found := false

	observe := func(t float64) {
		if !found {
			lo, hi = t, t
			found = true
			return
		}
		if t < lo {
			lo = t
		}
		if t > hi {
			hi = t
		}
	}

	for _, k := range kills {
		observe(k.Time)
	}
	for _, p := range positions {
		observe(p.Time)
	}
	if !found {
		return 0, 0, false
	}
	// Floor, not truncate: pre-horn times are negative and must land in
	// the minute bucket covering them.
	return int(math.Floor(lo / 60)), int(math.Floor(hi / 60)), true
}

// positionAt returns the hero's last sampled position at or before t.
func positionAt(positions []PositionSample, t float64) (PositionSample, bool) {
	var last PositionSample
	found := false
	for _, p := range positions {
		if p.Time > t {
			break
		}
		last = p
		found = true
	}
	return last, found
}

// killCamp attributes a neutral-creep kill to the nearest known camp.
func killCamp(kill events.Event, positions []PositionSample, geo *gamemap.Geometry) (gamemap.Camp, bool) {
	pos, ok := positionAt(positions, kill.Time)
	if !ok {
		return gamemap.Camp{}, false
	}
	camp, _, ok := geo.NearestCamp(pos.Pos)
	return camp, ok
}

func buildBucket(minute int, kills []events.Event, positions []PositionSample, economy []EconomySample, geo *gamemap.Geometry) MinuteBucket {
	lo := float64(minute) * 60
	hi := lo + 60

	b := MinuteBucket{Minute: minute, NeutralCampTypes: make(map[string]int)}

	for _, k := range kills {
		if k.Time < lo || k.Time >= hi {
			continue
		}
		switch {
		case isNeutralCreep(k.Target.Name):
			b.NeutralCreepsKilled++
			if camp, ok := killCamp(k, positions, geo); ok {
				b.NeutralCampTypes[string(camp.Tier)]++
			}
		case isLaneCreep(k.Target.Name):
			b.LaneCreepsKilled++
		}
	}

	var sumX, sumY float64
	samples := 0
	regionCounts := make(map[string]int)
	for _, p := range positions {
		if p.Time < lo || p.Time >= hi {
			continue
		}
		sumX += p.Pos.X
		sumY += p.Pos.Y
		samples++
		regionCounts[p.Region]++
	}
	if samples > 0 {
		b.PositionCentroid = gamemap.Point{X: sumX / float64(samples), Y: sumY / float64(samples)}
		best := 0
		for region, n := range regionCounts {
			if n > best || (n == best && region < b.DominantRegion) {
				best = n
				b.DominantRegion = region
			}
		}
	}

	// Counters are cumulative in the snapshots; carry the last value seen
	// up to the end of the minute.
	for _, e := range economy {
		if e.Time >= hi {
			break
		}
		b.CumulativeGold = e.Gold
		b.CumulativeLastHits = e.LastHits
	}

	return b
}

func transitions(kills []events.Event, positions []PositionSample, buckets []MinuteBucket, geo *gamemap.Geometry) Transitions {
	var tr Transitions

	// Kill events are in log order, so the first matches win.
	for _, k := range kills {
		if !isNeutralCreep(k.Target.Name) {
			continue
		}
		if !tr.HasJungleKill {
			tr.FirstJungleKillTime = k.Time
			tr.HasJungleKill = true
		}
		if !tr.HasLargeCamp {
			if camp, ok := killCamp(k, positions, geo); ok && camp.Tier.Large() {
				tr.FirstLargeCampTime = k.Time
				tr.HasLargeCamp = true
			}
		}
		if tr.HasJungleKill && tr.HasLargeCamp {
			break
		}
	}

	// Leaving lane requires jungle farm to outweigh lane farm for
	// consecutive minutes; a single camp pull does not count.
	for i := 0; i+leftLaneStickyMinutes <= len(buckets); i++ {
		sustained := true
		for j := i; j < i+leftLaneStickyMinutes; j++ {
			if buckets[j].NeutralCreepsKilled <= buckets[j].LaneCreepsKilled {
				sustained = false
				break
			}
		}
		if sustained {
			tr.LeftLaneTime = float64(buckets[i].Minute) * 60
			tr.LeftLane = true
			break
		}
	}

	return tr
}

func totals(buckets []MinuteBucket, positions []PositionSample) Totals {
	t := Totals{CampsByType: make(map[string]int)}
	if len(buckets) == 0 {
		return t
	}

	creeps := 0
	for _, b := range buckets {
		creeps += b.LaneCreepsKilled + b.NeutralCreepsKilled
		for tier, n := range b.NeutralCampTypes {
			t.CampsByType[tier] += n
		}
	}

	minutes := float64(len(buckets))
	t.CreepsPerMinute = float64(creeps) / minutes
	t.GoldPerMinute = float64(buckets[len(buckets)-1].CumulativeGold) / minutes

	if len(positions) > 0 {
		jungle := 0
		for _, p := range positions {
			if isJungleRegion(p.Region) {
				jungle++
			}
		}
		t.JunglePercentage = 100 * float64(jungle) / float64(len(positions))
	}

	return t
}
