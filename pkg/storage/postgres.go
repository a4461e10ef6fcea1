package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Storage provides database operations for recommendation history
type Storage struct {
	db *sql.DB
}

// New creates a new Storage instance
func New(dsn string) (*Storage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Migrate creates the history table if it does not exist
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// StoreRun stores one recommendation run
func (s *Storage) StoreRun(ctx context.Context, run Run) error {
	query := `
		INSERT INTO recommendation_runs (run_id, requested_at, source, top_major, facts, results)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id) DO NOTHING
	`
	var topMajor sql.NullString
	if run.TopMajor != "" {
		topMajor = sql.NullString{String: run.TopMajor, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query, run.RunID, run.RequestedAt, run.Source, topMajor, string(run.Facts), string(run.Results))
	return err
}

// ListRuns returns the most recent runs, newest first
func (s *Storage) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT run_id, requested_at, source, top_major, facts, results
		FROM recommendation_runs
		ORDER BY requested_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRun returns a single run by id
func (s *Storage) GetRun(ctx context.Context, runID string) (Run, error) {
	query := `
		SELECT run_id, requested_at, source, top_major, facts, results
		FROM recommendation_runs
		WHERE run_id = $1
	`
	return scanRun(s.db.QueryRowContext(ctx, query, runID))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var topMajor sql.NullString
	var factsJSON, resultsJSON []byte
	if err := row.Scan(&run.RunID, &run.RequestedAt, &run.Source, &topMajor, &factsJSON, &resultsJSON); err != nil {
		return Run{}, err
	}
	if topMajor.Valid {
		run.TopMajor = topMajor.String
	}
	run.Facts = factsJSON
	run.Results = resultsJSON
	return run, nil
}
