// Package database stores cookie jars and auto-apply history in Postgres.
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-internship-automation/internal/browser"
	"go-internship-automation/internal/models"
	"go-internship-automation/internal/session"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	user_key     TEXT PRIMARY KEY,
	cookies_json JSONB NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS application_runs (
	id            UUID PRIMARY KEY,
	user_key      TEXT NOT NULL,
	listing_type  TEXT NOT NULL,
	role          TEXT NOT NULL,
	total_matched INT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS application_outcomes (
	run_id     UUID NOT NULL REFERENCES application_runs(id) ON DELETE CASCADE,
	idx        INT NOT NULL,
	title      TEXT NOT NULL,
	company    TEXT NOT NULL,
	url        TEXT NOT NULL,
	score      DOUBLE PRECISION NOT NULL,
	status     TEXT NOT NULL,
	message    TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, idx)
);

CREATE INDEX IF NOT EXISTS application_runs_created_at_idx ON application_runs (created_at DESC);
`

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// Transaction-mode poolers (PgBouncer, Supabase) reject cached prepared
	// statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

// Migrate creates the tables if they do not exist yet.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// ---------------- SESSION OPERATIONS ----------------

// Load implements session.Store.
func (r *Repository) Load(ctx context.Context, user string) ([]browser.Cookie, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, "SELECT cookies_json FROM sessions WHERE user_key = $1", session.Key(user)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decodeCookies(raw)
}

// Save implements session.Store.
func (r *Repository) Save(ctx context.Context, user string, cookies []browser.Cookie) error {
	raw, err := encodeCookies(cookies)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO sessions (user_key, cookies_json, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_key)
		DO UPDATE SET cookies_json = EXCLUDED.cookies_json, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.Exec(ctx, query, session.Key(user), raw); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func encodeCookies(cookies []browser.Cookie) ([]byte, error) {
	if cookies == nil {
		cookies = []browser.Cookie{}
	}
	raw, err := json.Marshal(cookies)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cookies: %w", err)
	}
	return raw, nil
}

// decodeCookies treats an empty or unreadable jar as missing.
func decodeCookies(raw []byte) ([]browser.Cookie, error) {
	var cookies []browser.Cookie
	if err := json.Unmarshal(raw, &cookies); err != nil || len(cookies) == 0 {
		return nil, session.ErrNotFound
	}
	return cookies, nil
}

// ---------------- APPLICATION OPERATIONS ----------------

// RecordRun stores a run and its outcomes in one transaction.
func (r *Repository) RecordRun(ctx context.Context, run models.ApplicationRun) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO application_runs (id, user_key, listing_type, role, total_matched, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID, run.UserKey, string(run.Type), run.Role, run.TotalMatched, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, o := range run.Outcomes {
		batch.Queue(`
			INSERT INTO application_outcomes (run_id, idx, title, company, url, score, status, message)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			run.ID, o.Index, o.Title, o.Company, o.DetailURL, o.Score, string(o.Status), o.Message)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert outcomes: %w", err)
	}

	return tx.Commit(ctx)
}

// ListRuns returns the most recent runs, newest first, with their outcomes.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]models.ApplicationRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(ctx, `
		SELECT id::text, user_key, listing_type, role, total_matched, created_at
		FROM application_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	runs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ApplicationRun, error) {
		var run models.ApplicationRun
		var listingType string
		err := row.Scan(&run.ID, &run.UserKey, &listingType, &run.Role, &run.TotalMatched, &run.CreatedAt)
		run.Type = models.ListingType(listingType)
		run.Outcomes = []models.TrackedApplication{}
		return run, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan runs: %w", err)
	}
	if len(runs) == 0 {
		return []models.ApplicationRun{}, nil
	}

	ids := make([]string, 0, len(runs))
	byID := make(map[string]int, len(runs))
	for i, run := range runs {
		ids = append(ids, run.ID)
		byID[run.ID] = i
	}

	rows, err = r.db.Query(ctx, `
		SELECT run_id::text, idx, title, company, url, score, status, message
		FROM application_outcomes
		WHERE run_id::text = ANY($1)
		ORDER BY run_id, idx`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	outcomes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.TrackedApplication, error) {
		var o models.TrackedApplication
		var status string
		err := row.Scan(&o.RunID, &o.Index, &o.Title, &o.Company, &o.DetailURL, &o.Score, &status, &o.Message)
		o.Status = models.ApplyStatus(status)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan outcomes: %w", err)
	}

	for _, o := range outcomes {
		i := byID[o.RunID]
		runs[i].Outcomes = append(runs[i].Outcomes, o)
	}
	return runs, nil
}

var _ session.Store = (*Repository)(nil)
