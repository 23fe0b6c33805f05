package opendota

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		baseURL:    srv.URL,
		httpClient: srv.Client(),
	}
}

func TestNewClient_BaseURLOverride(t *testing.T) {
	t.Setenv("OPENDOTA_BASE_URL", "http://opendota.internal:5000/api")
	if c := NewClient(); c.baseURL != "http://opendota.internal:5000/api" {
		t.Errorf("baseURL = %s", c.baseURL)
	}
}

func TestGetMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/matches/8461956309" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"match_id": 8461956309,
			"duration": 2400,
			"radiant_win": true,
			"players": [
				{"player_slot": 0, "hero_id": 74, "lane_role": 2},
				{"player_slot": 128, "hero_id": 94, "lane_role": 1}
			]
		}`))
	}))
	defer srv.Close()

	match, err := testClient(srv).GetMatch(context.Background(), 8461956309)
	if err != nil {
		t.Fatalf("GetMatch failed: %v", err)
	}
	if match.MatchID != 8461956309 || !match.RadiantWin {
		t.Errorf("Match = %+v", match)
	}
	if len(match.Players) != 2 {
		t.Fatalf("Players = %d, want 2", len(match.Players))
	}
}

func TestGetMatch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := testClient(srv).GetMatch(context.Background(), 1); err == nil {
		t.Error("404 should surface as an error")
	}
}

func TestWaitForRateLimit_CancelledContext(t *testing.T) {
	c := &Client{httpClient: &http.Client{}}
	// Fill the window so the next request has to wait.
	now := time.Now()
	for i := 0; i < requestsPerMinute; i++ {
		c.window = append(c.window, now)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.waitForRateLimit(ctx); err == nil {
		t.Error("Cancelled context should abort the wait")
	}
}

func TestGetLaneAssignments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/matches/42":
			w.Write([]byte(`{"match_id": 42, "players": [
				{"player_slot": 0, "hero_id": 74, "lane_role": 2},
				{"player_slot": 1, "hero_id": 11, "lane_role": 1},
				{"player_slot": 2, "hero_id": 53, "lane_role": 4}
			]}`))
		case "/heroes":
			w.Write([]byte(`[
				{"id": 74, "name": "npc_dota_hero_invoker"},
				{"id": 11, "name": "npc_dota_hero_nevermore"},
				{"id": 53, "name": "npc_dota_hero_furion"}
			]`))
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	lanes, err := testClient(srv).GetLaneAssignments(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetLaneAssignments failed: %v", err)
	}

	if lanes["invoker"] != "mid" {
		t.Errorf("invoker lane = %q, want mid", lanes["invoker"])
	}
	if lanes["nevermore"] != "bot" {
		t.Errorf("nevermore lane = %q, want bot (radiant safelane)", lanes["nevermore"])
	}
	if _, ok := lanes["furion"]; ok {
		t.Error("Jungler should be omitted from lane assignments")
	}
}

func TestPlayer_AssignedLane(t *testing.T) {
	cases := []struct {
		name   string
		player Player
		want   string
	}{
		{"RadiantMid", Player{PlayerSlot: 0, LaneRole: laneRoleMid}, "mid"},
		{"RadiantSafe", Player{PlayerSlot: 1, LaneRole: laneRoleSafe}, "bot"},
		{"RadiantOff", Player{PlayerSlot: 2, LaneRole: laneRoleOff}, "top"},
		{"DireSafe", Player{PlayerSlot: 128, LaneRole: laneRoleSafe}, "top"},
		{"DireOff", Player{PlayerSlot: 129, LaneRole: laneRoleOff}, "bot"},
		{"Jungler", Player{PlayerSlot: 3, LaneRole: laneRoleJungle}, ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.player.AssignedLane(); got != c.want {
				t.Errorf("AssignedLane = %q, want %q", got, c.want)
			}
		})
	}
}

func TestHero_ShortName(t *testing.T) {
	h := Hero{Name: "npc_dota_hero_nevermore", LocalizedName: "Shadow Fiend"}
	if h.ShortName() != "nevermore" {
		t.Errorf("ShortName = %s, want nevermore", h.ShortName())
	}
}
