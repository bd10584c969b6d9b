package grpc

import (
	"context"
	"time"

	"github.com/godilite/jsi-server/internal/insights"
	"github.com/godilite/jsi-server/internal/service"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type InsightsService interface {
	GenerateScore(ctx context.Context, req insights.ScoreRequest) (insights.ScoreRecord, error)
	GetTrend(ctx context.Context, q service.TrendQuery) (insights.TrendReport, error)
	DetectAnomalies(ctx context.Context, q service.AnomalyQuery) ([]insights.Anomaly, error)
	GetBenchmarks(ctx context.Context, customerID string, dr insights.DateRange) (insights.BenchmarkSet, error)
	GetBaseline(ctx context.Context, req insights.BaselineRequest) (insights.Baseline, error)
	GetInsights(ctx context.Context, q service.InsightsQuery) (service.InsightsReport, error)
	SelectTopics(ctx context.Context, customerID, agencyID, strategy string) (insights.TopicSelection, error)
	ExportReport(ctx context.Context, q service.ExportQuery) (string, error)
	GetScoringConfig(ctx context.Context, customerID, agencyID string) (insights.ScoringConfig, error)
	UpdateScoringConfig(ctx context.Context, customerID, agencyID string, o *insights.ScoringConfigOverride) (insights.ScoringConfig, error)
	GetMessagingConfig(ctx context.Context, customerID, agencyID string) (insights.MessagingConfig, error)
	UpdateMessagingConfig(ctx context.Context, customerID, agencyID string, o *insights.MessagingConfigOverride) (insights.MessagingConfig, error)
	AddMessagingTopic(ctx context.Context, customerID, agencyID string, topic insights.MessagingTopic) (insights.MessagingConfig, error)
	UpsertCustomer(ctx context.Context, c insights.Customer) (insights.Customer, error)
}
