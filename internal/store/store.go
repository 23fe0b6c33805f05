// Package store persists analysis results. Two backends are provided: a
// local SQLite file for single-user runs and Postgres for shared
// deployments. Both write the same shape: one row per match, fight,
// rotation, and per-hero farming summary.
package store

import (
	"context"
	"errors"
	"sync"

	"dota-analyzer/internal/combat"
	"dota-analyzer/internal/engine"
	"dota-analyzer/internal/farming"
	"dota-analyzer/internal/rotation"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/goccy/go-json"
)

// Store persists match analyses.
type Store interface {
	// SaveAnalysis writes one match's complete results. Saving the same
	// match twice is a no-op, not an error.
	SaveAnalysis(ctx context.Context, a *engine.Analysis) error

	// LoadAnalysis reads back a stored match as flat result rows.
	LoadAnalysis(ctx context.Context, matchID string) (*StoredAnalysis, error)

	// HasMatch reports whether a match has already been analyzed.
	HasMatch(ctx context.Context, matchID string) (bool, error)

	// MatchCount returns the number of stored matches.
	MatchCount(ctx context.Context) (int, error)

	Close() error
}

// StoredFight is one fight row read back from the store. Highlights stay
// in their stored JSON form; callers that need them unmarshal into
// combat.Highlights.
type StoredFight struct {
	ID           string
	Start        float64
	End          float64
	IsTeamfight  bool
	Participants []string
	Highlights   []byte
}

// StoredRotation is one rotation row read back from the store.
type StoredRotation struct {
	ID         string
	Hero       string
	FromLane   string
	ToLane     string
	Departure  float64
	ReturnTime float64
	Returned   bool
	Outcome    string
	RuneType   string
	RuneLead   float64
	FightRef   string
}

// StoredAnalysis is a match's persisted results.
type StoredAnalysis struct {
	MatchID   string
	Fights    []StoredFight
	Rotations []StoredRotation
	Farming   map[string]*farming.Summary
}

// ErrNotStored is returned by LoadAnalysis for an unknown match.
var ErrNotStored = errors.New("match not stored")

// Expected corpus size for the seen filter; well past it the false
// positive rate degrades and callers fall through to HasMatch anyway.
const (
	seenFilterCapacity = 100000
	seenFilterFPRate   = 0.01
)

// SeenFilter is an in-memory bloom filter over analyzed match IDs, used
// to skip database lookups for matches that were definitely not stored.
// MaybeSeen can report false positives, never false negatives.
type SeenFilter struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
}

// NewSeenFilter creates an empty filter.
func NewSeenFilter() *SeenFilter {
	return &SeenFilter{filter: bloom.NewWithEstimates(seenFilterCapacity, seenFilterFPRate)}
}

// Add marks a match as stored.
func (s *SeenFilter) Add(matchID string) {
	s.mu.Lock()
	s.filter.AddString(matchID)
	s.mu.Unlock()
}

// MaybeSeen reports whether the match might have been stored already.
func (s *SeenFilter) MaybeSeen(matchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.TestString(matchID)
}

// fightRow flattens a fight for storage.
type fightRow struct {
	id           string
	matchID      string
	start        float64
	end          float64
	isTeamfight  bool
	participants []byte
	highlights   []byte
}

func newFightRow(matchID string, f *combat.Fight) (fightRow, error) {
	names := make([]string, len(f.Participants))
	for i, p := range f.Participants {
		names[i] = p.Name
	}
	participants, err := json.Marshal(names)
	if err != nil {
		return fightRow{}, err
	}
	highlights, err := json.Marshal(f.Highlights)
	if err != nil {
		return fightRow{}, err
	}
	return fightRow{
		id:           f.ID,
		matchID:      matchID,
		start:        f.Start,
		end:          f.End,
		isTeamfight:  f.IsTeamfight,
		participants: participants,
		highlights:   highlights,
	}, nil
}

// rotationRow flattens a rotation for storage. Rune fields are zero when
// no pickup correlated.
type rotationRow struct {
	id         string
	matchID    string
	hero       string
	fromLane   string
	toLane     string
	departure  float64
	returnTime float64
	returned   bool
	outcome    string
	runeType   string
	runeLead   float64
	fightRef   string
}

func newRotationRow(matchID string, r *rotation.Rotation) rotationRow {
	row := rotationRow{
		id:         r.ID,
		matchID:    matchID,
		hero:       r.Hero.Name,
		fromLane:   r.FromLane,
		toLane:     r.ToLane,
		departure:  r.DepartureTime,
		returnTime: r.ReturnTime,
		returned:   r.Returned,
		outcome:    r.Outcome.String(),
		fightRef:   r.FightRef,
	}
	if r.RuneBefore != nil {
		row.runeType = r.RuneBefore.RuneType
		row.runeLead = r.RuneBefore.SecondsBeforeRotation
	}
	return row
}
