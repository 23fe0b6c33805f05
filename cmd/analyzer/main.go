package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"dota-analyzer/internal/engine"
	"dota-analyzer/internal/events"
	"dota-analyzer/internal/opendota"
	"dota-analyzer/internal/replay"
	"dota-analyzer/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	logPath := flag.String("log", "", "Combat log JSONL file (required)")
	snapPath := flag.String("snapshots", "", "World-state snapshot JSONL file (required)")
	matchID := flag.String("match-id", "", "Match identifier (required)")
	configPath := flag.String("config", "", "Threshold config YAML (optional)")
	dbPath := flag.String("db", "analyzer.db", "SQLite output database")
	pgURL := flag.String("pg", "", "Postgres URL (overrides -db; empty uses DATABASE_URL if set)")
	usePg := flag.Bool("use-pg", false, "Store results in Postgres instead of SQLite")
	odMatch := flag.Int64("opendota-match", 0, "OpenDota match ID for lane assignments (optional; lanes are inferred otherwise)")
	flag.Parse()

	// Load .env for DATABASE_URL / OPENDOTA_API_KEY / ANALYZER_CONFIG.
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			fmt.Printf("Loaded .env from: %s\n", path)
			break
		}
	}

	if *logPath == "" || *snapPath == "" || *matchID == "" {
		log.Fatal("--log, --snapshots and --match-id are required")
	}

	ctx := context.Background()

	cfg, err := engine.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}

	records, err := replay.ReadLog(*logPath)
	if err != nil {
		log.Fatalf("Combat log: %v", err)
	}
	snapshots, err := replay.ReadSnapshots(*snapPath)
	if err != nil {
		log.Fatalf("Snapshots: %v", err)
	}
	log.Printf("[Analyzer] Loaded %d records, %d snapshots", len(records), len(snapshots))

	st, err := openStore(ctx, *usePg, *pgURL, *dbPath)
	if err != nil {
		log.Fatalf("Store: %v", err)
	}
	defer st.Close()

	if has, err := st.HasMatch(ctx, *matchID); err != nil {
		log.Fatalf("Store: %v", err)
	} else if has {
		log.Printf("[Analyzer] Match %s already analyzed, nothing to do", *matchID)
		return
	}

	analysis, err := engine.New(cfg).Analyze(ctx, engine.MatchInput{
		MatchID:   *matchID,
		Records:   records,
		Snapshots: snapshots,
		Lanes:     laneOverrides(ctx, *odMatch),
	})
	if err != nil {
		log.Fatalf("Analysis: %v", err)
	}

	if err := st.SaveAnalysis(ctx, analysis); err != nil {
		log.Fatalf("Save: %v", err)
	}

	printSummary(analysis)
}

// laneOverrides fetches OpenDota lane assignments when a match ID is
// given. On lookup failure the engine falls back to lane inference from
// the snapshot stream.
func laneOverrides(ctx context.Context, matchID int64) map[string]string {
	if matchID == 0 {
		return nil
	}
	lanes, err := opendota.NewClient().GetLaneAssignments(ctx, matchID)
	if err != nil {
		log.Printf("[Analyzer] OpenDota lane lookup failed, inferring lanes: %v", err)
		return nil
	}
	log.Printf("[Analyzer] OpenDota lane assignments for %d heroes", len(lanes))
	return lanes
}

func openStore(ctx context.Context, usePg bool, pgURL, dbPath string) (store.Store, error) {
	if usePg || pgURL != "" {
		return store.OpenPostgres(ctx, pgURL)
	}
	return store.OpenSQLite(dbPath)
}

func printSummary(a *engine.Analysis) {
	sum := a.Fights.Summary()

	fmt.Println("\n========================================")
	fmt.Printf("MATCH %s\n", a.MatchID)
	fmt.Println("========================================")
	fmt.Printf("Fights: %d (%d teamfights, %d skirmishes), %d deaths\n",
		sum.TotalFights, sum.Teamfights, sum.Skirmishes, sum.TotalDeaths)

	for _, f := range a.Fights.All() {
		kind := "skirmish"
		if f.IsTeamfight {
			kind = "TEAMFIGHT"
		}
		fmt.Printf("  [%s - %s] %s, %d heroes, %d events\n",
			f.StartStr(), f.EndStr(), kind, len(f.Participants), len(f.Events))
		for _, s := range f.Highlights.KillStreaks {
			fmt.Printf("      %s by %s (%d kills)\n", s.StreakType, s.Hero.Name, s.Count)
		}
		for _, w := range f.Highlights.TeamWipes {
			fmt.Printf("      TEAM WIPE: %s at %s\n", w.Team, events.FormatTime(w.Time))
		}
	}

	if len(a.Objectives) > 0 {
		fmt.Println("\nObjectives:")
		for _, o := range a.Objectives {
			who := o.Killer
			if who == "" {
				who = "creeps"
			}
			fmt.Printf("  [%s] %s %s by %s (%s)\n", o.TimeStr(), o.Type, o.Name, who, o.Team)
		}
	}

	fmt.Printf("\nRotations: %d\n", a.Rotations.Len())
	for _, r := range a.Rotations.All() {
		line := fmt.Sprintf("  [%s] %s: %s -> %s, outcome %s",
			r.DepartureStr(), r.Hero.Name, r.FromLane, r.ToLane, r.Outcome)
		if r.RuneBefore != nil {
			line += fmt.Sprintf(" (%s rune %.0fs before)", r.RuneBefore.RuneType, r.RuneBefore.SecondsBeforeRotation)
		}
		fmt.Println(line)
	}

	fmt.Println("\nFarming:")
	for hero, fs := range a.Farming {
		fmt.Printf("  %s: %.1f GPM, %.1f CS/min, %.0f%% jungle\n",
			hero, fs.Totals.GoldPerMinute, fs.Totals.CreepsPerMinute, fs.Totals.JunglePercentage)
	}
}
