package service

import (
	"context"
	"errors"

	"github.com/godilite/jsi-server/internal/insights"
	"github.com/godilite/jsi-server/internal/repository"
	"go.uber.org/zap"
)

// GetScoringConfig merges the stored override onto the defaults. An agency
// without its own config uses the customer-wide one.
func (s *InsightsService) GetScoringConfig(ctx context.Context, customerID, agencyID string) (insights.ScoringConfig, error) {
	if err := requireCustomer(customerID); err != nil {
		return insights.ScoringConfig{}, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	override, err := s.storage.GetScoringOverride(dbCtx, customerID, agencyID)
	if errors.Is(err, repository.ErrNotFound) && agencyID != "" {
		override, err = s.storage.GetScoringOverride(dbCtx, customerID, "")
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return insights.ScoringConfig{}, storageError(err)
	}

	cfg := insights.MergeScoringConfig(insights.DefaultScoringConfig(), override)
	cfg.CustomerID = customerID
	cfg.AgencyID = agencyID
	return cfg, nil
}

// UpdateScoringConfig applies a partial update and stores the full result.
func (s *InsightsService) UpdateScoringConfig(ctx context.Context, customerID, agencyID string, o *insights.ScoringConfigOverride) (insights.ScoringConfig, error) {
	current, err := s.GetScoringConfig(ctx, customerID, agencyID)
	if err != nil {
		return insights.ScoringConfig{}, err
	}

	cfg := insights.MergeScoringConfig(current, o)
	if err := cfg.Validate(); err != nil {
		return insights.ScoringConfig{}, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.storage.SaveScoringConfig(dbCtx, cfg, s.now().UTC()); err != nil {
		return insights.ScoringConfig{}, storageError(err)
	}

	s.logger.Info("updated scoring config",
		zap.String("customer_id", customerID),
		zap.String("agency_id", agencyID),
		zap.Bool("enabled", cfg.Enabled))

	return cfg, nil
}

// GetMessagingConfig returns the stored messaging config, creating and
// storing the defaults on first access.
func (s *InsightsService) GetMessagingConfig(ctx context.Context, customerID, agencyID string) (insights.MessagingConfig, error) {
	if err := requireCustomer(customerID); err != nil {
		return insights.MessagingConfig{}, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cfg, err := s.storage.GetMessagingConfig(dbCtx, customerID, agencyID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return insights.MessagingConfig{}, storageError(err)
	}

	cfg = insights.DefaultMessagingConfig()
	cfg.CustomerID = customerID
	cfg.AgencyID = agencyID
	cfg.UpdatedAt = s.now().UTC()
	if err := s.storage.SaveMessagingConfig(dbCtx, cfg); err != nil {
		return insights.MessagingConfig{}, storageError(err)
	}

	s.logger.Info("created default messaging config",
		zap.String("customer_id", customerID),
		zap.String("agency_id", agencyID))

	return cfg, nil
}

func (s *InsightsService) UpdateMessagingConfig(ctx context.Context, customerID, agencyID string, o *insights.MessagingConfigOverride) (insights.MessagingConfig, error) {
	current, err := s.GetMessagingConfig(ctx, customerID, agencyID)
	if err != nil {
		return insights.MessagingConfig{}, err
	}

	cfg := insights.MergeMessagingConfig(current, o)
	if err := cfg.Validate(); err != nil {
		return insights.MessagingConfig{}, err
	}
	return s.saveMessagingConfig(ctx, cfg)
}

// AddMessagingTopic appends a custom topic to the customer's catalog.
func (s *InsightsService) AddMessagingTopic(ctx context.Context, customerID, agencyID string, topic insights.MessagingTopic) (insights.MessagingConfig, error) {
	current, err := s.GetMessagingConfig(ctx, customerID, agencyID)
	if err != nil {
		return insights.MessagingConfig{}, err
	}

	cfg, err := insights.AddTopic(current, topic)
	if err != nil {
		return insights.MessagingConfig{}, err
	}
	return s.saveMessagingConfig(ctx, cfg)
}

func (s *InsightsService) saveMessagingConfig(ctx context.Context, cfg insights.MessagingConfig) (insights.MessagingConfig, error) {
	cfg.UpdatedAt = s.now().UTC()

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.storage.SaveMessagingConfig(dbCtx, cfg); err != nil {
		return insights.MessagingConfig{}, storageError(err)
	}

	s.logger.Info("saved messaging config",
		zap.String("customer_id", cfg.CustomerID),
		zap.String("agency_id", cfg.AgencyID),
		zap.Int("topics", len(cfg.Topics)))

	return cfg, nil
}

// SelectTopics picks the topics for the next check-in prompt. An empty
// strategy uses the configured rotation strategy.
func (s *InsightsService) SelectTopics(ctx context.Context, customerID, agencyID, strategy string) (insights.TopicSelection, error) {
	cfg, err := s.GetMessagingConfig(ctx, customerID, agencyID)
	if err != nil {
		return insights.TopicSelection{}, err
	}
	return insights.SelectTopics(cfg, insights.RotationStrategy(strategy), s.rng)
}

// UpsertCustomer records the customer's industry membership.
func (s *InsightsService) UpsertCustomer(ctx context.Context, c insights.Customer) (insights.Customer, error) {
	if err := c.Validate(); err != nil {
		return insights.Customer{}, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.storage.UpsertCustomer(dbCtx, c); err != nil {
		return insights.Customer{}, storageError(err)
	}
	return c, nil
}
