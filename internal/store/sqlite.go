package store

import (
	"context"
	"database/sql"
	"fmt"

	"dota-analyzer/internal/engine"
	"dota-analyzer/internal/farming"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS matches (
	match_id     TEXT PRIMARY KEY,
	analyzed_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	total_fights INTEGER NOT NULL,
	teamfights   INTEGER NOT NULL,
	rotations    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS fights (
	id           TEXT PRIMARY KEY,
	match_id     TEXT NOT NULL REFERENCES matches(match_id),
	start_time   REAL NOT NULL,
	end_time     REAL NOT NULL,
	is_teamfight INTEGER NOT NULL,
	participants TEXT NOT NULL,
	highlights   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rotations (
	id          TEXT PRIMARY KEY,
	match_id    TEXT NOT NULL REFERENCES matches(match_id),
	hero        TEXT NOT NULL,
	from_lane   TEXT NOT NULL,
	to_lane     TEXT NOT NULL,
	departure   REAL NOT NULL,
	return_time REAL,
	returned    INTEGER NOT NULL,
	outcome     TEXT NOT NULL,
	rune_type   TEXT,
	rune_lead   REAL,
	fight_ref   TEXT
);

CREATE TABLE IF NOT EXISTS farming (
	match_id TEXT NOT NULL REFERENCES matches(match_id),
	hero     TEXT NOT NULL,
	summary  TEXT NOT NULL,
	PRIMARY KEY (match_id, hero)
);
`

// SQLite stores analyses in a local file.
type SQLite struct {
	db   *sql.DB
	seen *SeenFilter
}

// OpenSQLite opens (and if needed creates) the database at path. The
// seen filter is seeded from the stored match IDs so HasMatch can skip
// the lookup for definitely-new matches.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	seen := NewSeenFilter()
	rows, err := db.Query(`SELECT match_id FROM matches`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed seen filter: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			db.Close()
			return nil, err
		}
		seen.Add(id)
	}
	if err := rows.Err(); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db, seen: seen}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// HasMatch reports whether a match has already been analyzed. The seen
// filter never gives false negatives, so a miss answers without a query.
func (s *SQLite) HasMatch(ctx context.Context, matchID string) (bool, error) {
	if !s.seen.MaybeSeen(matchID) {
		return false, nil
	}
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM matches WHERE match_id = ?)`, matchID).Scan(&exists)
	return exists, err
}

// MatchCount returns the number of stored matches.
func (s *SQLite) MatchCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count)
	return count, err
}

// LoadAnalysis reads back a stored match.
func (s *SQLite) LoadAnalysis(ctx context.Context, matchID string) (*StoredAnalysis, error) {
	has, err := s.HasMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrNotStored
	}

	out := &StoredAnalysis{MatchID: matchID, Farming: make(map[string]*farming.Summary)}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_time, end_time, is_teamfight, participants, highlights
		FROM fights WHERE match_id = ? ORDER BY start_time
	`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var f StoredFight
		var participants string
		var highlights string
		if err := rows.Scan(&f.ID, &f.Start, &f.End, &f.IsTeamfight, &participants, &highlights); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(participants), &f.Participants); err != nil {
			return nil, fmt.Errorf("bad participants for fight %s: %w", f.ID, err)
		}
		f.Highlights = []byte(highlights)
		out.Fights = append(out.Fights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rots, err := s.db.QueryContext(ctx, `
		SELECT id, hero, from_lane, to_lane, departure, return_time, returned,
			outcome, rune_type, rune_lead, fight_ref
		FROM rotations WHERE match_id = ? ORDER BY departure
	`, matchID)
	if err != nil {
		return nil, err
	}
	defer rots.Close()
	for rots.Next() {
		var r StoredRotation
		if err := rots.Scan(&r.ID, &r.Hero, &r.FromLane, &r.ToLane, &r.Departure,
			&r.ReturnTime, &r.Returned, &r.Outcome, &r.RuneType, &r.RuneLead, &r.FightRef); err != nil {
			return nil, err
		}
		out.Rotations = append(out.Rotations, r)
	}
	if err := rots.Err(); err != nil {
		return nil, err
	}

	farm, err := s.db.QueryContext(ctx, `SELECT hero, summary FROM farming WHERE match_id = ?`, matchID)
	if err != nil {
		return nil, err
	}
	defer farm.Close()
	for farm.Next() {
		var hero, body string
		if err := farm.Scan(&hero, &body); err != nil {
			return nil, err
		}
		var sum farming.Summary
		if err := json.Unmarshal([]byte(body), &sum); err != nil {
			return nil, fmt.Errorf("bad farming summary for %s: %w", hero, err)
		}
		out.Farming[hero] = &sum
	}
	return out, farm.Err()
}

// SaveAnalysis writes one match's results in a single transaction.
func (s *SQLite) SaveAnalysis(ctx context.Context, a *engine.Analysis) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO matches (match_id, total_fights, teamfights, rotations)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (match_id) DO NOTHING
	`, a.MatchID, a.Fights.Len(), len(a.Fights.Teamfights()), a.Rotations.Len())
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", a.MatchID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Already stored; keep the first write.
		s.seen.Add(a.MatchID)
		return nil
	}

	for _, f := range a.Fights.All() {
		row, err := newFightRow(a.MatchID, f)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO fights (id, match_id, start_time, end_time, is_teamfight, participants, highlights)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, row.id, row.matchID, row.start, row.end, row.isTeamfight, string(row.participants), string(row.highlights)); err != nil {
			return fmt.Errorf("failed to insert fight %s: %w", f.ID, err)
		}
	}

	for _, r := range a.Rotations.All() {
		row := newRotationRow(a.MatchID, r)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rotations (id, match_id, hero, from_lane, to_lane, departure,
				return_time, returned, outcome, rune_type, rune_lead, fight_ref)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, row.id, row.matchID, row.hero, row.fromLane, row.toLane, row.departure,
			row.returnTime, row.returned, row.outcome, row.runeType, row.runeLead, row.fightRef); err != nil {
			return fmt.Errorf("failed to insert rotation %s: %w", r.ID, err)
		}
	}

	for hero, sum := range a.Farming {
		body, err := json.Marshal(sum)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO farming (match_id, hero, summary) VALUES (?, ?, ?)
		`, a.MatchID, hero, string(body)); err != nil {
			return fmt.Errorf("failed to insert farming for %s: %w", hero, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.seen.Add(a.MatchID)
	return nil
}
