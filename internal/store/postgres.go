package store

import (
	"context"
	"fmt"
	"os"

	"dota-analyzer/internal/engine"
	"dota-analyzer/internal/farming"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS matches (
	match_id     TEXT PRIMARY KEY,
	analyzed_at  TIMESTAMPTZ DEFAULT NOW(),
	total_fights INTEGER NOT NULL,
	teamfights   INTEGER NOT NULL,
	rotations    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS fights (
	id           TEXT PRIMARY KEY,
	match_id     TEXT NOT NULL REFERENCES matches(match_id),
	start_time   DOUBLE PRECISION NOT NULL,
	end_time     DOUBLE PRECISION NOT NULL,
	is_teamfight BOOLEAN NOT NULL,
	participants JSONB NOT NULL,
	highlights   JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS rotations (
	id          TEXT PRIMARY KEY,
	match_id    TEXT NOT NULL REFERENCES matches(match_id),
	hero        TEXT NOT NULL,
	from_lane   TEXT NOT NULL,
	to_lane     TEXT NOT NULL,
	departure   DOUBLE PRECISION NOT NULL,
	return_time DOUBLE PRECISION,
	returned    BOOLEAN NOT NULL,
	outcome     TEXT NOT NULL,
	rune_type   TEXT,
	rune_lead   DOUBLE PRECISION,
	fight_ref   TEXT
);

CREATE TABLE IF NOT EXISTS farming (
	match_id TEXT NOT NULL REFERENCES matches(match_id),
	hero     TEXT NOT NULL,
	summary  JSONB NOT NULL,
	PRIMARY KEY (match_id, hero)
);
`

// Postgres stores analyses in a shared database.
type Postgres struct {
	pool *pgxpool.Pool
	seen *SeenFilter
}

// OpenPostgres creates a connection pool and seeds the seen filter from
// the stored match IDs. An empty URL falls back to the DATABASE_URL
// environment variable.
func OpenPostgres(ctx context.Context, dbURL string) (*Postgres, error) {
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return nil, fmt.Errorf("no database URL given and DATABASE_URL not set")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	seen := NewSeenFilter()
	rows, err := pool.Query(ctx, `SELECT match_id FROM matches`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to seed seen filter: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			pool.Close()
			return nil, err
		}
		seen.Add(id)
	}
	if err := rows.Err(); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{pool: pool, seen: seen}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// HasMatch reports whether a match has already been analyzed. The seen
// filter never gives false negatives for this writer's view, so a miss
// answers without a query. A match stored concurrently by another writer
// can slip past the filter until reopen; the ON CONFLICT guard in
// SaveAnalysis still keeps the first write.
func (p *Postgres) HasMatch(ctx context.Context, matchID string) (bool, error) {
	if !p.seen.MaybeSeen(matchID) {
		return false, nil
	}
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM matches WHERE match_id = $1)`, matchID).Scan(&exists)
	return exists, err
}

// MatchCount returns the number of stored matches.
func (p *Postgres) MatchCount(ctx context.Context) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count)
	return count, err
}

// LoadAnalysis reads back a stored match.
func (p *Postgres) LoadAnalysis(ctx context.Context, matchID string) (*StoredAnalysis, error) {
	has, err := p.HasMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrNotStored
	}

	out := &StoredAnalysis{MatchID: matchID, Farming: make(map[string]*farming.Summary)}

	rows, err := p.pool.Query(ctx, `
		SELECT id, start_time, end_time, is_teamfight, participants, highlights
		FROM fights WHERE match_id = $1 ORDER BY start_time
	`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var f StoredFight
		var participants []byte
		if err := rows.Scan(&f.ID, &f.Start, &f.End, &f.IsTeamfight, &participants, &f.Highlights); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(participants, &f.Participants); err != nil {
			return nil, fmt.Errorf("bad participants for fight %s: %w", f.ID, err)
		}
		out.Fights = append(out.Fights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rots, err := p.pool.Query(ctx, `
		SELECT id, hero, from_lane, to_lane, departure, return_time, returned,
			outcome, rune_type, rune_lead, fight_ref
		FROM rotations WHERE match_id = $1 ORDER BY departure
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

	farm, err := p.pool.Query(ctx, `SELECT hero, summary FROM farming WHERE match_id = $1`, matchID)
	if err != nil {
		return nil, err
	}
	defer farm.Close()
	for farm.Next() {
		var hero string
		var body []byte
		if err := farm.Scan(&hero, &body); err != nil {
			return nil, err
		}
		var sum farming.Summary
		if err := json.Unmarshal(body, &sum); err != nil {
			return nil, fmt.Errorf("bad farming summary for %s: %w", hero, err)
		}
		out.Farming[hero] = &sum
	}
	return out, farm.Err()
}

// SaveAnalysis writes one match's results in a single transaction.
func (p *Postgres) SaveAnalysis(ctx context.Context, a *engine.Analysis) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO matches (match_id, total_fights, teamfights, rotations)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (match_id) DO NOTHING
	`, a.MatchID, a.Fights.Len(), len(a.Fights.Teamfights()), a.Rotations.Len())
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", a.MatchID, err)
	}
	if tag.RowsAffected() == 0 {
		// Already stored; keep the first write.
		p.seen.Add(a.MatchID)
		return nil
	}

	for _, f := range a.Fights.All() {
		row, err := newFightRow(a.MatchID, f)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO fights (id, match_id, start_time, end_time, is_teamfight, participants, highlights)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, row.id, row.matchID, row.start, row.end, row.isTeamfight, row.participants, row.highlights); err != nil {
			return fmt.Errorf("failed to insert fight %s: %w", f.ID, err)
		}
	}

	for _, r := range a.Rotations.All() {
		row := newRotationRow(a.MatchID, r)
		if _, err := tx.Exec(ctx, `
			INSERT INTO rotations (id, match_id, hero, from_lane, to_lane, departure,
				return_time, returned, outcome, rune_type, rune_lead, fight_ref)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
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
		if _, err := tx.Exec(ctx, `
			INSERT INTO farming (match_id, hero, summary) VALUES ($1, $2, $3)
		`, a.MatchID, hero, body); err != nil {
			return fmt.Errorf("failed to insert farming for %s: %w", hero, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	p.seen.Add(a.MatchID)
	return nil
}
