package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/andor/pkg/andor/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL lets a trainer write while a planner reads weights
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS rule_weights (
	rule_key TEXT PRIMARY KEY,
	weight REAL NOT NULL,
	updated_at TEXT
);

CREATE TABLE IF NOT EXISTS episodes (
	id TEXT PRIMARY KEY,
	goals TEXT,
	reward REAL NOT NULL,
	err TEXT,
	plan TEXT,
	at TEXT
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertWeight sets the learned weight for a rule key
func (s *sqliteStore) UpsertWeight(ctx context.Context, key string, weight float64) error {
	if key == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO rule_weights (rule_key, weight, updated_at) VALUES (?, ?, ?)
ON CONFLICT(rule_key) DO UPDATE SET
	weight=excluded.weight,
	updated_at=excluded.updated_at;
`, key, weight, time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetWeight retrieves the learned weight for a rule key
func (s *sqliteStore) GetWeight(ctx context.Context, key string) (float64, bool, error) {
	var w float64
	err := s.db.QueryRowContext(ctx, `SELECT weight FROM rule_weights WHERE rule_key=?`, key).Scan(&w)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return w, true, nil
}

// Weights loads every learned weight
func (s *sqliteStore) Weights(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT rule_key, weight FROM rule_weights`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var key string
		var w float64
		if err := rows.Scan(&key, &w); err != nil {
			return nil, err
		}
		out[key] = w
	}
	return out, rows.Err()
}

// RecordEpisode inserts or replaces an episode
func (s *sqliteStore) RecordEpisode(ctx context.Context, e store.Episode) error {
	if e.ID == "" {
		return nil
	}
	goalsJSON, err := json.Marshal(e.Goals)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO episodes (id, goals, reward, err, plan, at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	goals=excluded.goals,
	reward=excluded.reward,
	err=excluded.err,
	plan=excluded.plan,
	at=excluded.at;
`, e.ID, string(goalsJSON), e.Reward, e.Err, e.Plan, e.At.UTC().Format(time.RFC3339Nano))
	return err
}

// Episodes retrieves the most recent episodes, newest ID first
func (s *sqliteStore) Episodes(ctx context.Context, limit int) ([]store.Episode, error) {
	if limit <= 0 {
		limit = store.DefaultEpisodeLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, goals, reward, err, plan, at
FROM episodes
ORDER BY id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var episodes []store.Episode
	for rows.Next() {
		var e store.Episode
		var goalsJSON, at string
		if err := rows.Scan(&e.ID, &goalsJSON, &e.Reward, &e.Err, &e.Plan, &at); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(goalsJSON), &e.Goals); err != nil {
			return nil, err
		}
		if parsed, perr := time.Parse(time.RFC3339Nano, at); perr == nil {
			e.At = parsed
		}
		episodes = append(episodes, e)
	}
	return episodes, rows.Err()
}
