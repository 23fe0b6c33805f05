package opendota

import "strings"

// MatchResponse is the subset of OpenDota match details the analyzer uses.
type MatchResponse struct {
	MatchID    int64    `json:"match_id"`
	Duration   int      `json:"duration"`
	RadiantWin bool     `json:"radiant_win"`
	StartTime  int64    `json:"start_time"`
	Players    []Player `json:"players"`
}

// Player is one participant's slot in a match.
type Player struct {
	AccountID  int64  `json:"account_id"`
	HeroID     int    `json:"hero_id"`
	PlayerSlot int    `json:"player_slot"`
	LaneRole   int    `json:"lane_role"`
	IsRoaming  bool   `json:"is_roaming"`
	Kills      int    `json:"kills"`
	Deaths     int    `json:"deaths"`
	Assists    int    `json:"assists"`
}

// Hero is one entry from the hero id table.
type Hero struct {
	ID            int    `json:"id"`
	Name          string `json:"name"` // npc_dota_hero_* internal name
	LocalizedName string `json:"localized_name"`
}

// ShortName strips the npc_dota_hero_ prefix, matching the names used in
// combat log records.
func (h Hero) ShortName() string {
	return strings.TrimPrefix(h.Name, "npc_dota_hero_")
}

// Radiant reports which side the player is on; slots 0-127 are radiant.
func (p Player) Radiant() bool {
	return p.PlayerSlot < 128
}

// Lane role codes from the OpenDota API.
const (
	laneRoleSafe   = 1
	laneRoleMid    = 2
	laneRoleOff    = 3
	laneRoleJungle = 4
)

// AssignedLane maps the player's lane role onto a map lane. Safelane and
// offlane swap between sides: radiant safelane is bot, dire safelane is
// top. Junglers and roamers have no lane.
func (p Player) AssignedLane() string {
	switch p.LaneRole {
	case laneRoleMid:
		return "mid"
	case laneRoleSafe:
		if p.Radiant() {
			return "bot"
		}
		return "top"
	case laneRoleOff:
		if p.Radiant() {
			return "top"
		}
		return "bot"
	}
	return ""
}
