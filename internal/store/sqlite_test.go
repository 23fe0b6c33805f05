package store

import (
	"context"
	"path/filepath"
	"testing"

	"dota-analyzer/internal/combat"
	"dota-analyzer/internal/engine"
	"dota-analyzer/internal/events"
	"dota-analyzer/internal/farming"
	"dota-analyzer/internal/rotation"
)

var (
	_ Store = (*SQLite)(nil)
	_ Store = (*Postgres)(nil)
)

func sampleAnalysis() *engine.Analysis {
	pugna := events.ActorRef{Name: "pugna", Team: events.TeamRadiant, IsHero: true}
	medusa := events.ActorRef{Name: "medusa", Team: events.TeamDire, IsHero: true}

	fight := &combat.Fight{
		ID:           "fight-1",
		Start:        370,
		End:          390,
		Duration:     20,
		Participants: []events.ActorRef{medusa, pugna},
		Events: []events.Event{
			{Time: 380, Kind: events.Death, Actor: pugna, Target: medusa},
		},
	}

	rot := &rotation.Rotation{
		ID:            "rot-1",
		Hero:          pugna,
		FromLane:      "mid",
		ToLane:        "radiant_safelane",
		DepartureTime: 365,
		ReturnTime:    425,
		Returned:      true,
		RuneBefore: &rotation.RuneCorrelation{
			RuneType:              "haste",
			PickupTime:            362,
			SecondsBeforeRotation: 3,
		},
		Outcome:  rotation.Kill,
		FightRef: "fight-1",
	}

	return &engine.Analysis{
		MatchID:   "8461956309",
		Fights:    combat.NewFightSet([]*combat.Fight{fight}),
		Rotations: rotation.NewSet([]*rotation.Rotation{rot}),
		Farming: map[string]*farming.Summary{
			"pugna": {Hero: pugna},
		},
	}
}

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "analyzer.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLite_SaveAndQuery(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := db.SaveAnalysis(ctx, sampleAnalysis()); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	has, err := db.HasMatch(ctx, "8461956309")
	if err != nil {
		t.Fatalf("HasMatch failed: %v", err)
	}
	if !has {
		t.Error("Saved match not found")
	}

	has, err = db.HasMatch(ctx, "0")
	if err != nil {
		t.Fatalf("HasMatch failed: %v", err)
	}
	if has {
		t.Error("Unknown match reported as stored")
	}

	count, err := db.MatchCount(ctx)
	if err != nil {
		t.Fatalf("MatchCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("MatchCount = %d, want 1", count)
	}
}

func TestSQLite_SaveTwiceKeepsFirstWrite(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	a := sampleAnalysis()
	if err := db.SaveAnalysis(ctx, a); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if err := db.SaveAnalysis(ctx, a); err != nil {
		t.Fatalf("Second save should be a no-op, got: %v", err)
	}

	count, err := db.MatchCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("MatchCount = %d after duplicate save, want 1", count)
	}
}

func TestSQLite_LoadAnalysisRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := db.SaveAnalysis(ctx, sampleAnalysis()); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	loaded, err := db.LoadAnalysis(ctx, "8461956309")
	if err != nil {
		t.Fatalf("LoadAnalysis failed: %v", err)
	}

	if len(loaded.Fights) != 1 {
		t.Fatalf("Fights = %d, want 1", len(loaded.Fights))
	}
	f := loaded.Fights[0]
	if f.ID != "fight-1" || f.Start != 370 || f.End != 390 {
		t.Errorf("Fight = %+v", f)
	}
	if len(f.Participants) != 2 {
		t.Errorf("Participants = %v, want medusa and pugna", f.Participants)
	}

	if len(loaded.Rotations) != 1 {
		t.Fatalf("Rotations = %d, want 1", len(loaded.Rotations))
	}
	r := loaded.Rotations[0]
	if r.Hero != "pugna" || r.Outcome != "KILL" || r.RuneType != "haste" {
		t.Errorf("Rotation = %+v", r)
	}
	if r.FightRef != "fight-1" {
		t.Errorf("FightRef = %q, want fight-1", r.FightRef)
	}

	if sum, ok := loaded.Farming["pugna"]; !ok || sum.Hero.Name != "pugna" {
		t.Errorf("Farming = %+v", loaded.Farming)
	}
}

func TestSQLite_LoadAnalysisUnknownMatch(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.LoadAnalysis(context.Background(), "0"); err != ErrNotStored {
		t.Errorf("err = %v, want ErrNotStored", err)
	}
}

func TestSQLite_SeenFilterSeededOnReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "analyzer.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := db.SaveAnalysis(ctx, sampleAnalysis()); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}
	if !db.seen.MaybeSeen("8461956309") {
		t.Error("Save must mark the match in the seen filter")
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer db.Close()

	if !db.seen.MaybeSeen("8461956309") {
		t.Error("Open must seed the filter from stored match IDs")
	}
	has, err := db.HasMatch(ctx, "8461956309")
	if err != nil || !has {
		t.Errorf("HasMatch = %v, %v, want the stored match", has, err)
	}
	has, err = db.HasMatch(ctx, "0")
	if err != nil || has {
		t.Errorf("HasMatch = %v, %v, want a filter miss without a hit", has, err)
	}
}

func TestSeenFilter(t *testing.T) {
	f := NewSeenFilter()

	if f.MaybeSeen("8461956309") {
		t.Error("Fresh filter should not report a match as seen")
	}

	f.Add("8461956309")
	if !f.MaybeSeen("8461956309") {
		t.Error("Added match must always be reported (no false negatives)")
	}
}
