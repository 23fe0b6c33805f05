// Package farming buckets creep-kill and position data per minute and
// derives farming-state transitions and totals for each hero.
package farming

import (
	"strings"

	"dota-analyzer/internal/events"
	"dota-analyzer/internal/gamemap"
)

// leftLaneStickyMinutes is how many consecutive jungle-heavy minutes mark
// a real lane departure rather than a single camp pull.
const leftLaneStickyMinutes = 2

// PositionSample is one hero position read from a world-state snapshot.
type PositionSample struct {
	Time   float64
	Region string
	Pos    gamemap.Point
}

// EconomySample is one gold/last-hit counter read from a snapshot.
type EconomySample struct {
	Time     float64
	Gold     int
	LastHits int
}

// MinuteBucket aggregates one hero's farming activity over one whole
// minute of game time.
type MinuteBucket struct {
	Minute              int
	LaneCreepsKilled    int
	NeutralCreepsKilled int
	NeutralCampTypes    map[string]int // camp tier -> kills
	PositionCentroid    gamemap.Point
	DominantRegion      string
	CumulativeGold      int
	CumulativeLastHits  int
}

// Transitions are the hero's farming-state change points. Each Has flag
// guards the matching time, since zero is a valid game time.
type Transitions struct {
	FirstJungleKillTime float64
	HasJungleKill       bool
	FirstLargeCampTime  float64
	HasLargeCamp        bool
	LeftLaneTime        float64
	LeftLane            bool
}

// Totals are the hero's whole-match farming aggregates.
type Totals struct {
	JunglePercentage float64 // share of position samples in jungle regions
	GoldPerMinute    float64
	CreepsPerMinute  float64
	CampsByType      map[string]int
}

// Summary is one hero's complete farming pattern: a contiguous, gap-free
// minute bucket sequence plus derived transitions and totals.
type Summary struct {
	Hero        events.ActorRef
	Buckets     []MinuteBucket
	Transitions Transitions
	Totals      Totals
}

// Bucket returns the bucket for a minute, if it falls inside the summary.
func (s *Summary) Bucket(minute int) (MinuteBucket, bool) {
	if len(s.Buckets) == 0 {
		return MinuteBucket{}, false
	}
	idx := minute - s.Buckets[0].Minute
	if idx < 0 || idx >= len(s.Buckets) {
		return MinuteBucket{}, false
	}
	return s.Buckets[idx], true
}

// Creep classification by unit name, following the replay naming scheme.
func isNeutralCreep(name string) bool {
	return strings.Contains(name, "neutral")
}

func isLaneCreep(name string) bool {
	return strings.HasPrefix(name, "npc_dota_creep_")
}

func isJungleRegion(region string) bool {
	return region == gamemap.RegionRadiantJungle || region == gamemap.RegionDireJungle
}
