package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/godilite/jsi-server/internal/insights"
)

// GetScoringOverride returns the stored scoring config as an override so
// that documents missing newer fields still merge onto the defaults.
func (s *InsightsRepository) GetScoringOverride(ctx context.Context, customerID, agencyID string) (*insights.ScoringConfigOverride, error) {
	payload, err := s.getConfigPayload(ctx, "scoring_configs", customerID, agencyID)
	if err != nil {
		return nil, err
	}
	var o insights.ScoringConfigOverride
	if err := json.Unmarshal(payload, &o); err != nil {
		return nil, fmt.Errorf("decode scoring config: %w", err)
	}
	return &o, nil
}

func (s *InsightsRepository) SaveScoringConfig(ctx context.Context, cfg insights.ScoringConfig, updatedAt time.Time) error {
	return s.saveConfigPayload(ctx, "scoring_configs", cfg.CustomerID, cfg.AgencyID, cfg, updatedAt)
}

func (s *InsightsRepository) GetMessagingConfig(ctx context.Context, customerID, agencyID string) (insights.MessagingConfig, error) {
	payload, err := s.getConfigPayload(ctx, "messaging_configs", customerID, agencyID)
	if err != nil {
		return insights.MessagingConfig{}, err
	}
	var cfg insights.MessagingConfig
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return insights.MessagingConfig{}, fmt.Errorf("decode messaging config: %w", err)
	}
	return cfg, nil
}

func (s *InsightsRepository) SaveMessagingConfig(ctx context.Context, cfg insights.MessagingConfig) error {
	return s.saveConfigPayload(ctx, "messaging_configs", cfg.CustomerID, cfg.AgencyID, cfg, cfg.UpdatedAt)
}

// table is always one of the constant names above.
func (s *InsightsRepository) getConfigPayload(ctx context.Context, table, customerID, agencyID string) ([]byte, error) {
	query := `SELECT payload FROM ` + table + ` WHERE customer_id = ? AND agency_id = ?`

	var payload string
	if err := s.db.QueryRowContext(ctx, query, customerID, agencyID).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	return []byte(payload), nil
}

func (s *InsightsRepository) saveConfigPayload(ctx context.Context, table, customerID, agencyID string, v any, updatedAt time.Time) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", table, err)
	}
	query := `
		INSERT INTO ` + table + ` (customer_id, agency_id, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (customer_id, agency_id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, customerID, agencyID, string(payload), formatTime(updatedAt)); err != nil {
		return fmt.Errorf("save %s: %w", table, err)
	}
	return nil
}
