package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/godilite/jsi-server/internal/insights"
	"github.com/godilite/jsi-server/internal/repository"
	"github.com/godilite/jsi-server/internal/repository/models"
)

// MockInsightsRepository is a mock implementation of the InsightsRepository
// interface for testing the service layer. Unset lookups report not found;
// unset writes succeed.
type MockInsightsRepository struct {
	InsertScoreFunc             func(ctx context.Context, rec insights.ScoreRecord) error
	LatestScoreFunc             func(ctx context.Context, customerID, workerID string) (insights.ScoreRecord, error)
	ListScoresFunc              func(ctx context.Context, f models.ScoreFilter) ([]insights.ScoreRecord, error)
	UpsertCustomerFunc          func(ctx context.Context, c insights.Customer) error
	GetCustomerFunc             func(ctx context.Context, id string) (insights.Customer, error)
	ListCustomersByIndustryFunc func(ctx context.Context, industryCode string) ([]insights.Customer, error)
	GetScoringOverrideFunc      func(ctx context.Context, customerID, agencyID string) (*insights.ScoringConfigOverride, error)
	SaveScoringConfigFunc       func(ctx context.Context, cfg insights.ScoringConfig, updatedAt time.Time) error
	GetMessagingConfigFunc      func(ctx context.Context, customerID, agencyID string) (insights.MessagingConfig, error)
	SaveMessagingConfigFunc     func(ctx context.Context, cfg insights.MessagingConfig) error
	SaveBaselineFunc            func(ctx context.Context, b insights.Baseline) error
	GetBaselineFunc             func(ctx context.Context, id string) (insights.Baseline, error)
	SaveBenchmarkFunc           func(ctx context.Context, b insights.Benchmark) error
}

func (m *MockInsightsRepository) InsertScore(ctx context.Context, rec insights.ScoreRecord) error {
	if m.InsertScoreFunc != nil {
		return m.InsertScoreFunc(ctx, rec)
	}
	return nil
}

func (m *MockInsightsRepository) LatestScore(ctx context.Context, customerID, workerID string) (insights.ScoreRecord, error) {
	if m.LatestScoreFunc != nil {
		return m.LatestScoreFunc(ctx, customerID, workerID)
	}
	return insights.ScoreRecord{}, repository.ErrNotFound
}

func (m *MockInsightsRepository) ListScores(ctx context.Context, f models.ScoreFilter) ([]insights.ScoreRecord, error) {
	if m.ListScoresFunc != nil {
		return m.ListScoresFunc(ctx, f)
	}
	return nil, errors.New("ListScoresFunc not implemented")
}

func (m *MockInsightsRepository) UpsertCustomer(ctx context.Context, c insights.Customer) error {
	if m.UpsertCustomerFunc != nil {
		return m.UpsertCustomerFunc(ctx, c)
	}
	return nil
}

func (m *MockInsightsRepository) GetCustomer(ctx context.Context, id string) (insights.Customer, error) {
	if m.GetCustomerFunc != nil {
		return m.GetCustomerFunc(ctx, id)
	}
	return insights.Customer{}, repository.ErrNotFound
}

func (m *MockInsightsRepository) ListCustomersByIndustry(ctx context.Context, industryCode string) ([]insights.Customer, error) {
	if m.ListCustomersByIndustryFunc != nil {
		return m.ListCustomersByIndustryFunc(ctx, industryCode)
	}
	return nil, errors.New("ListCustomersByIndustryFunc not implemented")
}

func (m *MockInsightsRepository) GetScoringOverride(ctx context.Context, customerID, agencyID string) (*insights.ScoringConfigOverride, error) {
	if m.GetScoringOverrideFunc != nil {
		return m.GetScoringOverrideFunc(ctx, customerID, agencyID)
	}
	return nil, repository.ErrNotFound
}

func (m *MockInsightsRepository) SaveScoringConfig(ctx context.Context, cfg insights.ScoringConfig, updatedAt time.Time) error {
	if m.SaveScoringConfigFunc != nil {
		return m.SaveScoringConfigFunc(ctx, cfg, updatedAt)
	}
	return nil
}

func (m *MockInsightsRepository) GetMessagingConfig(ctx context.Context, customerID, agencyID string) (insights.MessagingConfig, error) {
	if m.GetMessagingConfigFunc != nil {
		return m.GetMessagingConfigFunc(ctx, customerID, agencyID)
	}
	return insights.MessagingConfig{}, repository.ErrNotFound
}

func (m *MockInsightsRepository) SaveMessagingConfig(ctx context.Context, cfg insights.MessagingConfig) error {
	if m.SaveMessagingConfigFunc != nil {
		return m.SaveMessagingConfigFunc(ctx, cfg)
	}
	return nil
}

func (m *MockInsightsRepository) SaveBaseline(ctx context.Context, b insights.Baseline) error {
	if m.SaveBaselineFunc != nil {
		return m.SaveBaselineFunc(ctx, b)
	}
	return nil
}

func (m *MockInsightsRepository) GetBaseline(ctx context.Context, id string) (insights.Baseline, error) {
	if m.GetBaselineFunc != nil {
		return m.GetBaselineFunc(ctx, id)
	}
	return insights.Baseline{}, repository.ErrNotFound
}

func (m *MockInsightsRepository) SaveBenchmark(ctx context.Context, b insights.Benchmark) error {
	if m.SaveBenchmarkFunc != nil {
		return m.SaveBenchmarkFunc(ctx, b)
	}
	return nil
}

// MockAlertPublisher records published alerts.
type MockAlertPublisher struct {
	PublishAlertFunc func(ctx context.Context, rec insights.ScoreRecord) error
}

func (m *MockAlertPublisher) PublishAlert(ctx context.Context, rec insights.ScoreRecord) error {
	if m.PublishAlertFunc != nil {
		return m.PublishAlertFunc(ctx, rec)
	}
	return nil
}
