package engine

import (
	"sort"

	"dota-analyzer/internal/events"
	"dota-analyzer/internal/farming"
	"dota-analyzer/internal/gamemap"
	"dota-analyzer/internal/replay"
	"dota-analyzer/internal/rotation"
)

// heroTrack is everything derived from one hero's snapshot stream.
type heroTrack struct {
	hero      events.ActorRef
	timeline  rotation.Timeline
	positions []farming.PositionSample
	economy   []farming.EconomySample
}

// RosterFromSnapshots derives the match roster from the heroes observed
// in the snapshot stream.
func RosterFromSnapshots(snaps []replay.Snapshot) *events.Roster {
	seen := make(map[string]events.ActorRef)
	for _, s := range snaps {
		if _, ok := seen[s.Hero]; ok {
			continue
		}
		seen[s.Hero] = events.ActorRef{
			Name:   s.Hero,
			Team:   events.ParseTeam(s.Team),
			IsHero: true,
		}
	}

	heroes := make([]events.ActorRef, 0, len(seen))
	for _, h := range seen {
		heroes = append(heroes, h)
	}
	return events.NewRoster(heroes)
}

// buildTracks splits the snapshot stream per hero, classifies every
// position, and infers each hero's assigned lane from the laning phase.
// An entry in lanes overrides the inference.
func buildTracks(snaps []replay.Snapshot, roster *events.Roster, geo *gamemap.Geometry, laningEnd float64, lanes map[string]string) []heroTrack {
	byHero := make(map[string][]replay.Snapshot)
	for _, s := range snaps {
		byHero[s.Hero] = append(byHero[s.Hero], s)
	}

	var tracks []heroTrack
	for _, hero := range roster.Heroes() {
		hs := byHero[hero.Name]
		sort.SliceStable(hs, func(i, j int) bool { return hs[i].Time < hs[j].Time })

		track := heroTrack{hero: hero}
		track.timeline.Hero = hero

		for _, s := range hs {
			pos := geo.Classify(s.X, s.Y)
			p := gamemap.Point{X: s.X, Y: s.Y}

			track.timeline.Samples = append(track.timeline.Samples, rotation.Sample{
				Time:   s.Time,
				Region: pos.Region,
				Lane:   pos.Lane,
				Pos:    p,
			})
			track.positions = append(track.positions, farming.PositionSample{
				Time:   s.Time,
				Region: pos.Region,
				Pos:    p,
			})
			track.economy = append(track.economy, farming.EconomySample{
				Time:     s.Time,
				Gold:     s.Gold,
				LastHits: s.LastHits,
			})
		}

		track.timeline.AssignedLane = assignedLane(track.timeline.Samples, laningEnd)
		if lane, ok := lanes[hero.Name]; ok {
			track.timeline.AssignedLane = lane
		}
		tracks = append(tracks, track)
	}
	return tracks
}

// assignedLane is the lane the hero spent most of the laning phase in.
// Ties break toward the alphabetically first lane so the result is
// deterministic.
func assignedLane(samples []rotation.Sample, laningEnd float64) string {
	counts := make(map[string]int)
	for _, s := range samples {
		if s.Time > laningEnd {
			break
		}
		if s.Lane != "" {
			counts[s.Lane]++
		}
	}

	best := ""
	for lane, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && lane < best) {
			best = lane
		}
	}
	return best
}
