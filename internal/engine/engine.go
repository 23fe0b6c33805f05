// Package engine wires the analysis pipeline together: normalization, the
// fight pipeline, rotation detection with rune/outcome correlation, and
// farming aggregation for one match.
package engine

import (
	"context"
	"log"

	"dota-analyzer/internal/combat"
	"dota-analyzer/internal/events"
	"dota-analyzer/internal/farming"
	"dota-analyzer/internal/gamemap"
	"dota-analyzer/internal/replay"
	"dota-analyzer/internal/rotation"

	"golang.org/x/sync/errgroup"
)

// MatchInput is everything the engine needs for one match. Roster may be
// nil, in which case it is derived from the snapshot stream.
type MatchInput struct {
	MatchID   string
	Records   []events.RawRecord
	Snapshots []replay.Snapshot
	Roster    *events.Roster

	// Lanes optionally overrides the inferred assigned lane per hero,
	// e.g. from OpenDota lane roles.
	Lanes map[string]string
}

// Analysis is the complete output for one match: three independent
// read-only views over the same normalized event log.
type Analysis struct {
	MatchID    string
	Events     []events.Event
	Fights     *combat.FightSet
	Objectives []combat.ObjectiveKill
	Rotations  *rotation.Set
	Farming    map[string]*farming.Summary
}

// Engine analyzes matches. Stateless across matches; one engine may
// analyze many matches in parallel.
type Engine struct {
	cfg  Config
	geo  *gamemap.Geometry
	sets combat.AbilitySets
}

// New creates an engine with the standard map geometry and ability sets.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:  cfg,
		geo:  gamemap.Default(),
		sets: combat.DefaultAbilitySets(),
	}
}

// NewWithData creates an engine with explicit static-data snapshots, for
// non-standard patches or tests.
func NewWithData(cfg Config, geo *gamemap.Geometry, sets combat.AbilitySets) *Engine {
	return &Engine{cfg: cfg, geo: geo, sets: sets}
}

// Analyze runs the full pipeline for one match. The fight pipeline and
// the rotation/farming pipeline run concurrently; outcome resolution is
// the single join point since it needs the completed fight set.
func (e *Engine) Analyze(ctx context.Context, input MatchInput) (*Analysis, error) {
	roster := input.Roster
	if roster == nil {
		roster = RosterFromSnapshots(input.Snapshots)
	}

	evts, err := events.Normalize(input.Records, roster)
	if err != nil {
		return nil, err
	}
	log.Printf("[Engine] Match %s: %d events, %d heroes", input.MatchID, len(evts), roster.Size())

	tracks := buildTracks(input.Snapshots, roster, e.geo, e.cfg.LaningPhaseEnd, input.Lanes)

	analysis := &Analysis{
		MatchID: input.MatchID,
		Events:  evts,
		Farming: make(map[string]*farming.Summary, len(tracks)),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		windows := combat.Window(evts, e.cfg.Combat)
		fights := combat.Assemble(windows, e.cfg.Combat)
		for _, f := range fights {
			f.Highlights = combat.Classify(f, e.sets, e.cfg.Combat.Classifier)
		}
		analysis.Fights = combat.NewFightSet(fights)
		analysis.Objectives = combat.Objectives(evts)
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		timelines := make([]rotation.Timeline, 0, len(tracks))
		for _, t := range tracks {
			timelines = append(timelines, t.timeline)
		}
		analysis.Rotations = rotation.DetectAll(timelines, e.cfg.Rotation)
		rotation.CorrelateRunes(analysis.Rotations, evts, e.cfg.Rotation)

		for _, t := range tracks {
			analysis.Farming[t.hero.Name] = farming.Aggregate(t.hero, evts, t.positions, t.economy, e.geo)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	rotation.Resolve(analysis.Rotations, analysis.Fights, e.cfg.Rotation)

	log.Printf("[Engine] Match %s: %d fights (%d teamfights), %d rotations",
		input.MatchID, analysis.Fights.Len(), len(analysis.Fights.Teamfights()), analysis.Rotations.Len())
	return analysis, nil
}
