package service

import (
	"context"
	"time"

	"github.com/godilite/jsi-server/internal/insights"
	"github.com/godilite/jsi-server/internal/repository/models"
)

// InsightsRepository defines the storage operations the service depends on.
type InsightsRepository interface {
	InsertScore(ctx context.Context, rec insights.ScoreRecord) error
	LatestScore(ctx context.Context, customerID, workerID string) (insights.ScoreRecord, error)
	ListScores(ctx context.Context, f models.ScoreFilter) ([]insights.ScoreRecord, error)

	UpsertCustomer(ctx context.Context, c insights.Customer) error
	GetCustomer(ctx context.Context, id string) (insights.Customer, error)
	ListCustomersByIndustry(ctx context.Context, industryCode string) ([]insights.Customer, error)

	GetScoringOverride(ctx context.Context, customerID, agencyID string) (*insights.ScoringConfigOverride, error)
	SaveScoringConfig(ctx context.Context, cfg insights.ScoringConfig, updatedAt time.Time) error
	GetMessagingConfig(ctx context.Context, customerID, agencyID string) (insights.MessagingConfig, error)
	SaveMessagingConfig(ctx context.Context, cfg insights.MessagingConfig) error

	SaveBaseline(ctx context.Context, b insights.Baseline) error
	GetBaseline(ctx context.Context, id string) (insights.Baseline, error)
	SaveBenchmark(ctx context.Context, b insights.Benchmark) error
}

// AlertPublisher fans out score records that need attention.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, rec insights.ScoreRecord) error
}

// Observer receives domain events for metrics.
type Observer interface {
	ObserveScore(riskLevel string)
	ObserveAlert(result string)
	ObserveAnomaly(anomalyType string)
}

type nopObserver struct{}

func (nopObserver) ObserveScore(string)   {}
func (nopObserver) ObserveAlert(string)   {}
func (nopObserver) ObserveAnomaly(string) {}
