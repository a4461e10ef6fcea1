package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/majorwise/majorwise/internal/advisor"
	"github.com/majorwise/majorwise/internal/metrics"
	"github.com/majorwise/majorwise/internal/recommend"
	"github.com/majorwise/majorwise/pkg/storage"
)

var ErrHistoryDisabled = errors.New("recommendation history is disabled")

// Storage wraps the storage layer with history-specific logic
type Storage struct {
	store *storage.Storage
	cfg   Config
}

// Config for storage operations
type Config struct {
	PostgresDSN  string
	WriteHistory bool
}

// New creates a new Storage instance. With history disabled no connection is
// opened and every write is a no-op.
func New(cfg Config) (*Storage, error) {
	if !cfg.WriteHistory {
		return &Storage{store: nil, cfg: cfg}, nil
	}

	store, err := storage.New(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	return &Storage{store: store, cfg: cfg}, nil
}

func (s *Storage) Enabled() bool {
	return s.store != nil && s.cfg.WriteHistory
}

// Close closes the storage connection
func (s *Storage) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// RecordRun stores a recommendation run
func (s *Storage) RecordRun(ctx context.Context, run advisor.Run) error {
	if !s.Enabled() {
		return nil
	}

	row, err := toRow(run)
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.store.StoreRun(ctx, row)
	metrics.HistoryWriteLatency.WithLabelValues("store_run").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("store run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns recent runs, newest first
func (s *Storage) ListRuns(ctx context.Context, limit int) ([]storage.Run, error) {
	if !s.Enabled() {
		return nil, ErrHistoryDisabled
	}
	return s.store.ListRuns(ctx, limit)
}

// GetRun returns a run by id
func (s *Storage) GetRun(ctx context.Context, runID string) (storage.Run, error) {
	if !s.Enabled() {
		return storage.Run{}, ErrHistoryDisabled
	}
	return s.store.GetRun(ctx, runID)
}

func toRow(run advisor.Run) (storage.Run, error) {
	factsJSON, err := json.Marshal(run.Facts)
	if err != nil {
		return storage.Run{}, fmt.Errorf("encode facts: %w", err)
	}
	recs := run.Recommendations
	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	resultsJSON, err := json.Marshal(recs)
	if err != nil {
		return storage.Run{}, fmt.Errorf("encode results: %w", err)
	}
	return storage.Run{
		RunID:       run.ID.String(),
		RequestedAt: run.RequestedAt,
		Source:      run.Source,
		TopMajor:    run.TopMajor(),
		Facts:       factsJSON,
		Results:     resultsJSON,
	}, nil
}
