package storage

import (
	"encoding/json"
	"time"
)

// Run represents one stored recommendation run
type Run struct {
	RunID       string
	RequestedAt time.Time
	Source      string
	TopMajor    string
	Facts       json.RawMessage
	Results     json.RawMessage
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS recommendation_runs (
	run_id       UUID PRIMARY KEY,
	requested_at TIMESTAMPTZ NOT NULL,
	source       TEXT NOT NULL,
	top_major    TEXT,
	facts        JSONB NOT NULL,
	results      JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS recommendation_runs_requested_at_idx
	ON recommendation_runs (requested_at DESC);
`
