// Package gamemap carries the static Dota 2 map knowledge the analysis
// engine needs: tower and camp locations, camp tiers, and world-coordinate
// classification into named regions and lanes.
//
// Geometry is an explicitly passed snapshot, never ambient global state, so
// analyses for different matches (or patches) can run fully in parallel.
package gamemap

import "math"

// Point is a world-coordinate position on the map.
type Point struct {
	X float64
	Y float64
}

// Dist returns the euclidean distance to another point.
func (p Point) Dist(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// CampTier classifies a neutral camp's difficulty.
type CampTier string

const (
	TierSmall   CampTier = "small"
	TierMedium  CampTier = "medium"
	TierLarge   CampTier = "large"
	TierAncient CampTier = "ancient"
)

// Large reports whether the tier counts as "large or above" for farming
// transition detection.
func (t CampTier) Large() bool {
	return t == TierLarge || t == TierAncient
}

// Camp is a neutral creep camp location.
type Camp struct {
	Name string
	Side string // radiant or dire
	Tier CampTier
	Pos  Point
}

// Geometry is the static map snapshot handed to the engine.
type Geometry struct {
	Towers map[string]Point
	Camps  []Camp
}

// Tower positions extracted from replay data.
var towerPositions = map[string]Point{
	// Radiant towers
	"radiant_t1_top": {-6336, 1856},
	"radiant_t1_mid": {-360, -6256},
	"radiant_t1_bot": {4904, -6198},
	"radiant_t2_top": {-6464, -872},
	"radiant_t2_mid": {-4640, -4144},
	"radiant_t2_bot": {-3190, -2926},
	"radiant_t3_top": {-6592, -3408},
	"radiant_t3_mid": {-4096, -448},
	"radiant_t3_bot": {-3952, -6112},

	// Dire towers
	"dire_t1_top": {-5275, 5928},
	"dire_t1_mid": {524, 652},
	"dire_t1_bot": {6269, -2240},
	"dire_t2_top": {-128, 6016},
	"dire_t2_mid": {2496, 2112},
	"dire_t2_bot": {6400, 384},
	"dire_t3_top": {3552, 5776},
	"dire_t3_mid": {3392, -448},
	"dire_t3_bot": {6336, 3032},
}

var neutralCamps = []Camp{
	// Radiant jungle (between safelane and mid)
	{Name: "radiant_small_gnoll", Side: "radiant", Tier: TierSmall, Pos: Point{-1700, -4200}},
	{Name: "radiant_medium_wolf", Side: "radiant", Tier: TierMedium, Pos: Point{-200, -3300}},
	{Name: "radiant_medium_satyr", Side: "radiant", Tier: TierMedium, Pos: Point{800, -4400}},
	{Name: "radiant_large_centaur", Side: "radiant", Tier: TierLarge, Pos: Point{-600, -2100}},
	{Name: "radiant_large_troll", Side: "radiant", Tier: TierLarge, Pos: Point{2900, -4600}},
	{Name: "radiant_ancient_black_dragon", Side: "radiant", Tier: TierAncient, Pos: Point{-2700, -150}},
	// Radiant offlane pocket
	{Name: "radiant_small_kobold", Side: "radiant", Tier: TierSmall, Pos: Point{-4800, -1500}},
	{Name: "radiant_large_hellbear", Side: "radiant", Tier: TierLarge, Pos: Point{-3700, -700}},

	// Dire jungle
	{Name: "dire_small_ghost", Side: "dire", Tier: TierSmall, Pos: Point{2700, 4600}},
	{Name: "dire_medium_harpy", Side: "dire", Tier: TierMedium, Pos: Point{1000, 3400}},
	{Name: "dire_medium_golem", Side: "dire", Tier: TierMedium, Pos: Point{-1000, 4100}},
	{Name: "dire_large_satyr", Side: "dire", Tier: TierLarge, Pos: Point{-2100, 4500}},
	{Name: "dire_large_troll", Side: "dire", Tier: TierLarge, Pos: Point{-3400, 3800}},
	{Name: "dire_ancient_black_dragon", Side: "dire", Tier: TierAncient, Pos: Point{2800, 850}},
	// Dire offlane pocket
	{Name: "dire_small_kobold", Side: "dire", Tier: TierSmall, Pos: Point{4400, 900}},
	{Name: "dire_large_hellbear", Side: "dire", Tier: TierLarge, Pos: Point{3900, -700}},
}

// Default returns the standard map geometry.
func Default() *Geometry {
	towers := make(map[string]Point, len(towerPositions))
	for name, pos := range towerPositions {
		towers[name] = pos
	}
	camps := make([]Camp, len(neutralCamps))
	copy(camps, neutralCamps)
	return &Geometry{Towers: towers, Camps: camps}
}

// NearestCamp finds the camp closest to a position, with its distance.
// Returns false if the geometry has no camps.
func (g *Geometry) NearestCamp(p Point) (Camp, float64, bool) {
	var best Camp
	bestDist := math.Inf(1)
	found := false
	for _, c := range g.Camps {
		if d := p.Dist(c.Pos); d < bestDist {
			bestDist = d
			best = c
			found = true
		}
	}
	return best, bestDist, found
}
