package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/godilite/jsi-server/internal/insights"
	"github.com/godilite/jsi-server/internal/repository"
	"github.com/godilite/jsi-server/internal/repository/models"
	"go.uber.org/zap"
)

const (
	dbTimeout = 2 * time.Second

	defaultAnomalyLookbackDays = 30
)

var ErrStorageFailure = errors.New("storage failure")

// InsightsService runs the insights engine against stored score history.
type InsightsService struct {
	storage  InsightsRepository
	alerts   AlertPublisher
	observer Observer
	logger   *zap.Logger
	now      func() time.Time
	rng      insights.Rand

	baselineWindowDays  int
	anomalyLookbackDays int
}

// NewInsightsService creates a new InsightsService instance.
func NewInsightsService(storage InsightsRepository, logger *zap.Logger, opts ...Option) *InsightsService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	s := &InsightsService{
		storage:             storage,
		observer:            nopObserver{},
		logger:              logger.Named("insights-service"),
		now:                 time.Now,
		rng:                 &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))},
		baselineWindowDays:  insights.DefaultBaselineWindowDays,
		anomalyLookbackDays: defaultAnomalyLookbackDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// storageError translates repository failures. Missing rows become
// insights.ErrNotFound, everything else ErrStorageFailure.
func storageError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", insights.ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrStorageFailure, err)
}

func (s *InsightsService) listScores(ctx context.Context, sc Scope) ([]insights.ScoreRecord, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	records, err := s.storage.ListScores(dbCtx, models.ScoreFilter{
		CustomerID: sc.CustomerID,
		Department: sc.Department,
		Location:   sc.Location,
		Start:      sc.Range.Start,
		End:        sc.Range.End,
	})
	if err != nil {
		return nil, storageError(err)
	}
	return records, nil
}

func requireCustomer(customerID string) error {
	if customerID == "" {
		return fmt.Errorf("%w: customerId is required", insights.ErrValidation)
	}
	return nil
}

func validateRange(r insights.DateRange) error {
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return fmt.Errorf("%w: end date must be after start date", insights.ErrValidation)
	}
	return nil
}
