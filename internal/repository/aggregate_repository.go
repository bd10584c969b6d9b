package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/godilite/jsi-server/internal/insights"
)

// SaveBaseline replaces the baseline stored under b.ID.
func (s *InsightsRepository) SaveBaseline(ctx context.Context, b insights.Baseline) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}
	const query = `
		INSERT INTO baselines (id, customer_id, payload, calculated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			payload = excluded.payload,
			calculated_at = excluded.calculated_at`

	if _, err := s.db.ExecContext(ctx, query, b.ID, b.CustomerID, string(payload), formatTime(b.CalculatedAt)); err != nil {
		return fmt.Errorf("save baseline: %w", err)
	}
	return nil
}

func (s *InsightsRepository) GetBaseline(ctx context.Context, id string) (insights.Baseline, error) {
	const query = `SELECT payload FROM baselines WHERE id = ?`

	var payload string
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return insights.Baseline{}, ErrNotFound
		}
		return insights.Baseline{}, fmt.Errorf("query GetBaseline: %w", err)
	}
	var b insights.Baseline
	if err := json.Unmarshal([]byte(payload), &b); err != nil {
		return insights.Baseline{}, fmt.Errorf("decode baseline: %w", err)
	}
	return b, nil
}

// SaveBenchmark replaces the benchmark stored under b.ID.
func (s *InsightsRepository) SaveBenchmark(ctx context.Context, b insights.Benchmark) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode benchmark: %w", err)
	}
	const query = `
		INSERT INTO benchmarks (id, type, payload, calculated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			payload = excluded.payload,
			calculated_at = excluded.calculated_at`

	if _, err := s.db.ExecContext(ctx, query, b.ID, string(b.Type), string(payload), formatTime(b.CalculatedAt)); err != nil {
		return fmt.Errorf("save benchmark: %w", err)
	}
	return nil
}

func (s *InsightsRepository) GetBenchmark(ctx context.Context, id string) (insights.Benchmark, error) {
	const query = `SELECT payload FROM benchmarks WHERE id = ?`

	var payload string
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return insights.Benchmark{}, ErrNotFound
		}
		return insights.Benchmark{}, fmt.Errorf("query GetBenchmark: %w", err)
	}
	var b insights.Benchmark
	if err := json.Unmarshal([]byte(payload), &b); err != nil {
		return insights.Benchmark{}, fmt.Errorf("decode benchmark: %w", err)
	}
	return b, nil
}
