package gamemap

import (
	"fmt"
	"math"
	"strings"
)

// Map regions produced by Classify.
const (
	RegionRadiantBase     = "radiant_base"
	RegionDireBase        = "dire_base"
	RegionRiver           = "river"
	RegionMidLane         = "mid_lane"
	RegionDireSafelane    = "dire_safelane"
	RegionRadiantOfflane  = "radiant_offlane"
	RegionDireOfflane     = "dire_offlane"
	RegionRadiantSafelane = "radiant_safelane"
	RegionDireJungle      = "dire_jungle"
	RegionRadiantJungle   = "radiant_jungle"
)

// Lanes. The empty lane means jungle/base/other.
const (
	LaneTop = "top"
	LaneMid = "mid"
	LaneBot = "bot"
)

// towerProximity is how close (world units) a position must be to a tower
// for the tower to appear in the location description.
const towerProximity = 1200

// Position is a classified map location.
type Position struct {
	X             float64
	Y             float64
	Region        string
	Lane          string // top, mid, bot, or empty
	Location      string // human-readable description
	ClosestTower  string // empty unless within towerProximity
	TowerDistance int
}

// Classify turns world coordinates into a named region, lane, and
// human-readable location.
func (g *Geometry) Classify(x, y float64) Position {
	closestTower := ""
	minTowerDist := math.Inf(1)
	for name, pos := range g.Towers {
		if d := (Point{x, y}).Dist(pos); d < minTowerDist {
			minTowerDist = d
			closestTower = name
		}
	}

	// The river roughly follows y = 0.8x - 500; above it is the dire half.
	onDireSide := y > x*0.8-500

	lane := ""
	switch {
	case y > 3500 || (x < -3500 && y > 1500):
		lane = LaneTop
	case y < -3500 || (x > 3500 && y < -1500):
		lane = LaneBot
	case -2500 < x && x < 2500 && -2500 < y && y < 2500:
		lane = LaneMid
	}

	var region string
	switch {
	case x < -5000 && y < -4500:
		region = RegionRadiantBase
	case x > 5000 && y > 4000:
		region = RegionDireBase
	case lane == LaneMid || (-2000 < x && x < 2000 && -2000 < y && y < 2000):
		if riverDist := y - x*0.8; -1500 < riverDist && riverDist < 1500 {
			region = RegionRiver
		} else {
			region = RegionMidLane
		}
	case lane == LaneTop:
		if onDireSide {
			region = RegionDireSafelane
		} else {
			region = RegionRadiantOfflane
		}
	case lane == LaneBot:
		if onDireSide {
			region = RegionDireOfflane
		} else {
			region = RegionRadiantSafelane
		}
	case onDireSide:
		region = RegionDireJungle
	default:
		region = RegionRadiantJungle
	}

	location := strings.ReplaceAll(region, "_", " ")
	if minTowerDist < towerProximity {
		parts := strings.Split(closestTower, "_")
		if len(parts) == 3 {
			location = fmt.Sprintf("%s, near %s %s %s",
				location, capitalize(parts[0]), strings.ToUpper(parts[1]), parts[2])
		}
	} else {
		closestTower = ""
	}

	return Position{
		X:             x,
		Y:             y,
		Region:        region,
		Lane:          lane,
		Location:      location,
		ClosestTower:  closestTower,
		TowerDistance: int(minTowerDist),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// RegionLane maps a region to the lane it belongs to, or empty for
// jungle, river, and bases.
func RegionLane(region string) string {
	switch region {
	case RegionDireSafelane, RegionRadiantOfflane:
		return LaneTop
	case RegionMidLane:
		return LaneMid
	case RegionDireOfflane, RegionRadiantSafelane:
		return LaneBot
	}
	return ""
}
