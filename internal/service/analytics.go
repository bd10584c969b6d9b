package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/godilite/jsi-server/internal/insights"
	"github.com/godilite/jsi-server/internal/repository"
	"github.com/godilite/jsi-server/internal/repository/models"
	"go.uber.org/zap"
)

// GetTrend aggregates the scope's history into periods and classifies its
// momentum.
func (s *InsightsService) GetTrend(ctx context.Context, q TrendQuery) (insights.TrendReport, error) {
	if err := requireCustomer(q.CustomerID); err != nil {
		return insights.TrendReport{}, err
	}
	if err := validateRange(q.Range); err != nil {
		return insights.TrendReport{}, err
	}
	g, err := insights.ParseGranularity(q.Granularity)
	if err != nil {
		return insights.TrendReport{}, err
	}

	records, err := s.listScores(ctx, q.Scope)
	if err != nil {
		return insights.TrendReport{}, err
	}

	report, err := insights.AnalyzeTrend(records, g)
	if err != nil {
		return insights.TrendReport{}, err
	}

	s.logger.Info("analyzed trend",
		zap.String("customer_id", q.CustomerID),
		zap.String("granularity", string(g)),
		zap.Int("records", len(records)),
		zap.Int("periods", len(report.Periods)),
		zap.String("direction", string(report.Momentum.Direction)))

	return report, nil
}

// DetectAnomalies scans the lookback window for rapid drops and sustained
// low scores using the customer's thresholds.
func (s *InsightsService) DetectAnomalies(ctx context.Context, q AnomalyQuery) ([]insights.Anomaly, error) {
	if err := requireCustomer(q.CustomerID); err != nil {
		return nil, err
	}
	if q.LookbackDays < 0 {
		return nil, fmt.Errorf("%w: lookbackDays must not be negative", insights.ErrValidation)
	}

	cfg, err := s.GetScoringConfig(ctx, q.CustomerID, q.AgencyID)
	if err != nil {
		return nil, err
	}

	days := q.LookbackDays
	if days == 0 {
		days = cfg.Thresholds.RapidDropDays
	}
	if days <= 0 {
		days = s.anomalyLookbackDays
	}

	now := s.now()
	records, err := s.listScores(ctx, Scope{
		CustomerID: q.CustomerID,
		Department: q.Department,
		Location:   q.Location,
		Range:      insights.DateRange{Start: now.AddDate(0, 0, -days), End: now},
	})
	if err != nil {
		return nil, err
	}

	anomalies := insights.DetectAnomalies(records, cfg.Thresholds, now)
	for _, a := range anomalies {
		s.observer.ObserveAnomaly(string(a.Type))
	}

	s.logger.Info("detected anomalies",
		zap.String("customer_id", q.CustomerID),
		zap.Int("lookback_days", days),
		zap.Int("records", len(records)),
		zap.Int("anomalies", len(anomalies)))

	return anomalies, nil
}

// GetBenchmarks computes the global benchmark and, when the customer has an
// industry, the industry benchmark. Both are stored.
func (s *InsightsService) GetBenchmarks(ctx context.Context, customerID string, dr insights.DateRange) (insights.BenchmarkSet, error) {
	if err := requireCustomer(customerID); err != nil {
		return insights.BenchmarkSet{}, err
	}
	if err := validateRange(dr); err != nil {
		return insights.BenchmarkSet{}, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	customer, err := s.storage.GetCustomer(dbCtx, customerID)
	if err != nil {
		return insights.BenchmarkSet{}, storageError(err)
	}

	customers := []insights.Customer{customer}
	if customer.IndustryCode != "" {
		customers, err = s.storage.ListCustomersByIndustry(dbCtx, customer.IndustryCode)
		if err != nil {
			return insights.BenchmarkSet{}, storageError(err)
		}
	}

	records, err := s.storage.ListScores(dbCtx, models.ScoreFilter{Start: dr.Start, End: dr.End})
	if err != nil {
		return insights.BenchmarkSet{}, storageError(err)
	}

	set, err := insights.CustomerBenchmarks(customerID, records, customers, dr, s.now())
	if err != nil {
		return insights.BenchmarkSet{}, err
	}
	if err := s.storage.SaveBenchmark(dbCtx, set.Global); err != nil {
		return insights.BenchmarkSet{}, storageError(err)
	}
	if set.Industry != nil {
		if err := s.storage.SaveBenchmark(dbCtx, *set.Industry); err != nil {
			return insights.BenchmarkSet{}, storageError(err)
		}
	}

	s.logger.Info("calculated benchmarks",
		zap.String("customer_id", customerID),
		zap.String("industry_code", customer.IndustryCode),
		zap.Int("workers", set.Global.WorkerCount))

	return set, nil
}

// GetBaseline averages the slice over the trailing window and stores the
// result under its slice key.
func (s *InsightsService) GetBaseline(ctx context.Context, req insights.BaselineRequest) (insights.Baseline, error) {
	if req.WindowDays == 0 {
		req.WindowDays = s.baselineWindowDays
	}
	if err := requireCustomer(req.CustomerID); err != nil {
		return insights.Baseline{}, err
	}
	if req.WindowDays < 0 {
		return insights.Baseline{}, fmt.Errorf("%w: windowDays must not be negative", insights.ErrValidation)
	}

	b, err := s.calculateBaseline(ctx, req)
	if err != nil {
		return insights.Baseline{}, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.storage.SaveBaseline(dbCtx, b); err != nil {
		return insights.Baseline{}, storageError(err)
	}

	s.logger.Info("calculated baseline",
		zap.String("baseline_id", b.ID),
		zap.Int("overall_score", b.OverallScore),
		zap.Int("workers", b.WorkerCount))

	return b, nil
}

func (s *InsightsService) calculateBaseline(ctx context.Context, req insights.BaselineRequest) (insights.Baseline, error) {
	now := s.now()
	records, err := s.listScores(ctx, Scope{
		CustomerID: req.CustomerID,
		Department: req.Department,
		Location:   req.Location,
		Range:      insights.DateRange{Start: now.AddDate(0, 0, -req.WindowDays), End: now},
	})
	if err != nil {
		return insights.Baseline{}, err
	}
	return insights.CalculateBaseline(records, req, now)
}

// GetInsights summarizes the scope and turns the summary, its momentum and
// the current baseline into narrative findings. A slice without recent
// history simply has no baseline.
func (s *InsightsService) GetInsights(ctx context.Context, q InsightsQuery) (InsightsReport, error) {
	if err := requireCustomer(q.CustomerID); err != nil {
		return InsightsReport{}, err
	}
	if err := validateRange(q.Range); err != nil {
		return InsightsReport{}, err
	}
	g, err := insights.ParseGranularity(q.Granularity)
	if err != nil {
		return InsightsReport{}, err
	}

	cfg, err := s.GetScoringConfig(ctx, q.CustomerID, "")
	if err != nil {
		return InsightsReport{}, err
	}

	records, err := s.listScores(ctx, q.Scope)
	if err != nil {
		return InsightsReport{}, err
	}
	if len(records) == 0 {
		return InsightsReport{}, fmt.Errorf("%w: customer %s", insights.ErrEmptyPopulation, q.CustomerID)
	}

	trend, err := insights.AnalyzeTrend(records, g)
	if err != nil {
		return InsightsReport{}, err
	}

	var baseline *insights.Baseline
	b, err := s.calculateBaseline(ctx, insights.BaselineRequest{
		CustomerID: q.CustomerID,
		Department: q.Department,
		Location:   q.Location,
		WindowDays: s.baselineWindowDays,
	})
	switch {
	case err == nil:
		baseline = &b
	case !errors.Is(err, insights.ErrEmptyPopulation):
		return InsightsReport{}, err
	}

	summary := insights.Summarize(records)
	findings, err := insights.GenerateInsights(summary, trend.Momentum, baseline, cfg.Thresholds.LowScoreThreshold)
	if err != nil {
		return InsightsReport{}, err
	}

	return InsightsReport{
		Summary:     summary,
		Momentum:    trend.Momentum,
		Baseline:    baseline,
		Insights:    findings,
		GeneratedAt: s.now().UTC(),
	}, nil
}

// ExportReport renders the scope's records. The stored baseline of the
// slice, when there is one, adds change-vs-baseline values.
func (s *InsightsService) ExportReport(ctx context.Context, q ExportQuery) (string, error) {
	if err := requireCustomer(q.CustomerID); err != nil {
		return "", err
	}
	if err := validateRange(q.Range); err != nil {
		return "", err
	}
	if q.Format == "" {
		q.Format = insights.FormatCSV
	}
	if q.Type == "" {
		q.Type = insights.ExportDetailed
	}

	records, err := s.listScores(ctx, q.Scope)
	if err != nil {
		return "", err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var baseline *insights.Baseline
	b, err := s.storage.GetBaseline(dbCtx, insights.BaselineKey(q.CustomerID, q.Department, q.Location))
	switch {
	case err == nil:
		baseline = &b
	case !errors.Is(err, repository.ErrNotFound):
		return "", storageError(err)
	}

	out, err := insights.ExportReport(records, baseline, q.Format, q.Type)
	if err != nil {
		return "", err
	}

	s.logger.Info("exported report",
		zap.String("customer_id", q.CustomerID),
		zap.String("format", string(q.Format)),
		zap.String("type", string(q.Type)),
		zap.Int("records", len(records)))

	return out, nil
}
