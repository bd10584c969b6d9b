package service

import (
	"context"
	"errors"

	"github.com/godilite/jsi-server/internal/insights"
	"github.com/godilite/jsi-server/internal/repository"
	"go.uber.org/zap"
)

const (
	alertPublished = "published"
	alertFailed    = "failed"
)

// GenerateScore scores one measurement against the customer's scoring
// config and the worker's previous record, stores it and raises an alert
// when needed. Alert failures are logged and do not fail the call.
func (s *InsightsService) GenerateScore(ctx context.Context, req insights.ScoreRequest) (insights.ScoreRecord, error) {
	if err := req.Validate(); err != nil {
		return insights.ScoreRecord{}, err
	}

	cfg, err := s.GetScoringConfig(ctx, req.CustomerID, req.AgencyID)
	if err != nil {
		return insights.ScoreRecord{}, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var prior *insights.ScoreRecord
	latest, err := s.storage.LatestScore(dbCtx, req.CustomerID, req.WorkerID)
	switch {
	case err == nil:
		prior = &latest
	case !errors.Is(err, repository.ErrNotFound):
		return insights.ScoreRecord{}, storageError(err)
	}

	rec, err := insights.CalculateScore(req, cfg, prior, s.now())
	if err != nil {
		return insights.ScoreRecord{}, err
	}

	if err := s.storage.InsertScore(dbCtx, rec); err != nil {
		return insights.ScoreRecord{}, storageError(err)
	}
	s.observer.ObserveScore(string(rec.RiskLevel))

	s.logger.Info("generated score",
		zap.String("worker_id", rec.WorkerID),
		zap.String("customer_id", rec.CustomerID),
		zap.Int("overall_score", rec.OverallScore),
		zap.String("risk_level", string(rec.RiskLevel)),
		zap.String("trend", string(rec.Trend)))

	if rec.NeedsAlert() {
		s.dispatchAlert(ctx, rec)
	}
	return rec, nil
}

func (s *InsightsService) dispatchAlert(ctx context.Context, rec insights.ScoreRecord) {
	if s.alerts == nil {
		return
	}
	if err := s.alerts.PublishAlert(ctx, rec); err != nil {
		s.observer.ObserveAlert(alertFailed)
		s.logger.Warn("failed to publish alert",
			zap.String("record_id", rec.ID),
			zap.String("worker_id", rec.WorkerID),
			zap.Error(err))
		return
	}
	s.observer.ObserveAlert(alertPublished)
}
