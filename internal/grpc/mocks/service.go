package mocks

import (
	"context"
	"errors"

	"github.com/godilite/jsi-server/internal/insights"
	"github.com/godilite/jsi-server/internal/service"
)

var errNotImplemented = errors.New("mock function not implemented")

// MockInsightsService is a mock implementation of the InsightsService
// interface for testing the handler layer.
type MockInsightsService struct {
	GenerateScoreFunc         func(ctx context.Context, req insights.ScoreRequest) (insights.ScoreRecord, error)
	GetTrendFunc              func(ctx context.Context, q service.TrendQuery) (insights.TrendReport, error)
	DetectAnomaliesFunc       func(ctx context.Context, q service.AnomalyQuery) ([]insights.Anomaly, error)
	GetBenchmarksFunc         func(ctx context.Context, customerID string, dr insights.DateRange) (insights.BenchmarkSet, error)
	GetBaselineFunc           func(ctx context.Context, req insights.BaselineRequest) (insights.Baseline, error)
	GetInsightsFunc           func(ctx context.Context, q service.InsightsQuery) (service.InsightsReport, error)
	SelectTopicsFunc          func(ctx context.Context, customerID, agencyID, strategy string) (insights.TopicSelection, error)
	ExportReportFunc          func(ctx context.Context, q service.ExportQuery) (string, error)
	GetScoringConfigFunc      func(ctx context.Context, customerID, agencyID string) (insights.ScoringConfig, error)
	UpdateScoringConfigFunc   func(ctx context.Context, customerID, agencyID string, o *insights.ScoringConfigOverride) (insights.ScoringConfig, error)
	GetMessagingConfigFunc    func(ctx context.Context, customerID, agencyID string) (insights.MessagingConfig, error)
	UpdateMessagingConfigFunc func(ctx context.Context, customerID, agencyID string, o *insights.MessagingConfigOverride) (insights.MessagingConfig, error)
	AddMessagingTopicFunc     func(ctx context.Context, customerID, agencyID string, topic insights.MessagingTopic) (insights.MessagingConfig, error)
	UpsertCustomerFunc        func(ctx context.Context, c insights.Customer) (insights.Customer, error)
}

func (m *MockInsightsService) GenerateScore(ctx context.Context, req insights.ScoreRequest) (insights.ScoreRecord, error) {
	if m.GenerateScoreFunc != nil {
		return m.GenerateScoreFunc(ctx, req)
	}
	return insights.ScoreRecord{}, errNotImplemented
}

func (m *MockInsightsService) GetTrend(ctx context.Context, q service.TrendQuery) (insights.TrendReport, error) {
	if m.GetTrendFunc != nil {
		return m.GetTrendFunc(ctx, q)
	}
	return insights.TrendReport{}, errNotImplemented
}

func (m *MockInsightsService) DetectAnomalies(ctx context.Context, q service.AnomalyQuery) ([]insights.Anomaly, error) {
	if m.DetectAnomaliesFunc != nil {
		return m.DetectAnomaliesFunc(ctx, q)
	}
	return nil, errNotImplemented
}

func (m *MockInsightsService) GetBenchmarks(ctx context.Context, customerID string, dr insights.DateRange) (insights.BenchmarkSet, error) {
	if m.GetBenchmarksFunc != nil {
		return m.GetBenchmarksFunc(ctx, customerID, dr)
	}
	return insights.BenchmarkSet{}, errNotImplemented
}

func (m *MockInsightsService) GetBaseline(ctx context.Context, req insights.BaselineRequest) (insights.Baseline, error) {
	if m.GetBaselineFunc != nil {
		return m.GetBaselineFunc(ctx, req)
	}
	return insights.Baseline{}, errNotImplemented
}

func (m *MockInsightsService) GetInsights(ctx context.Context, q service.InsightsQuery) (service.InsightsReport, error) {
	if m.GetInsightsFunc != nil {
		return m.GetInsightsFunc(ctx, q)
	}
	return service.InsightsReport{}, errNotImplemented
}

func (m *MockInsightsService) SelectTopics(ctx context.Context, customerID, agencyID, strategy string) (insights.TopicSelection, error) {
	if m.SelectTopicsFunc != nil {
		return m.SelectTopicsFunc(ctx, customerID, agencyID, strategy)
	}
	return insights.TopicSelection{}, errNotImplemented
}

func (m *MockInsightsService) ExportReport(ctx context.Context, q service.ExportQuery) (string, error) {
	if m.ExportReportFunc != nil {
		return m.ExportReportFunc(ctx, q)
	}
	return "", errNotImplemented
}

func (m *MockInsightsService) GetScoringConfig(ctx context.Context, customerID, agencyID string) (insights.ScoringConfig, error) {
	if m.GetScoringConfigFunc != nil {
		return m.GetScoringConfigFunc(ctx, customerID, agencyID)
	}
	return insights.ScoringConfig{}, errNotImplemented
}

func (m *MockInsightsService) UpdateScoringConfig(ctx context.Context, customerID, agencyID string, o *insights.ScoringConfigOverride) (insights.ScoringConfig, error) {
	if m.UpdateScoringConfigFunc != nil {
		return m.UpdateScoringConfigFunc(ctx, customerID, agencyID, o)
	}
	return insights.ScoringConfig{}, errNotImplemented
}

func (m *MockInsightsService) GetMessagingConfig(ctx context.Context, customerID, agencyID string) (insights.MessagingConfig, error) {
	if m.GetMessagingConfigFunc != nil {
		return m.GetMessagingConfigFunc(ctx, customerID, agencyID)
	}
	return insights.MessagingConfig{}, errNotImplemented
}

func (m *MockInsightsService) UpdateMessagingConfig(ctx context.Context, customerID, agencyID string, o *insights.MessagingConfigOverride) (insights.MessagingConfig, error) {
	if m.UpdateMessagingConfigFunc != nil {
		return m.UpdateMessagingConfigFunc(ctx, customerID, agencyID, o)
	}
	return insights.MessagingConfig{}, errNotImplemented
}

func (m *MockInsightsService) AddMessagingTopic(ctx context.Context, customerID, agencyID string, topic insights.MessagingTopic) (insights.MessagingConfig, error) {
	if m.AddMessagingTopicFunc != nil {
		return m.AddMessagingTopicFunc(ctx, customerID, agencyID, topic)
	}
	return insights.MessagingConfig{}, errNotImplemented
}

func (m *MockInsightsService) UpsertCustomer(ctx context.Context, c insights.Customer) (insights.Customer, error) {
	if m.UpsertCustomerFunc != nil {
		return m.UpsertCustomerFunc(ctx, c)
	}
	return insights.Customer{}, errNotImplemented
}
