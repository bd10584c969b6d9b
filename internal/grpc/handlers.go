package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	v1 "github.com/godilite/jsi-server/api/v1"
	"github.com/godilite/jsi-server/internal/insights"
	"github.com/godilite/jsi-server/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second
)

type CacheKeyType string

const (
	cacheKeyTrend      CacheKeyType = "grpc:trend"
	cacheKeyBenchmarks CacheKeyType = "grpc:benchmarks"
	cacheKeyBaseline   CacheKeyType = "grpc:baseline"
	cacheKeyInsights   CacheKeyType = "grpc:insights"
)

type GRPCHandlers struct {
	v1.UnimplementedInsightsServer
	svc     InsightsService
	reads   *readThrough
	logger  *zap.Logger
	timeout time.Duration
}

type HandlerOption func(*GRPCHandlers)

// WithRequestTimeout bounds every handler call.
func WithRequestTimeout(d time.Duration) HandlerOption {
	return func(h *GRPCHandlers) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// NewGRPCHandlers initializes the gRPC handlers. A nil cache disables
// read-through caching.
func NewGRPCHandlers(svc InsightsService, cache Cacher, logger *zap.Logger, ttl time.Duration, opts ...HandlerOption) *GRPCHandlers {
	if svc == nil {
		panic("nil InsightsService provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	h := &GRPCHandlers{
		svc:     svc,
		logger:  logger.Named("grpc-handler"),
		timeout: defaultGRPCTimeout,
	}
	if cache != nil {
		h.reads = newReadThrough(cache, ttl, h.logger)
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func normalizeKey(prefix CacheKeyType, customerID, department, location string, dr insights.DateRange, extra ...string) string {
	parts := []string{
		string(prefix),
		customerID,
		sliceKey(department),
		sliceKey(location),
		timeKey(dr.Start),
		timeKey(dr.End),
	}
	parts = append(parts, extra...)
	return strings.Join(parts, ":")
}

func sliceKey(v string) string {
	if v == "" {
		return "all"
	}
	return v
}

func timeKey(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func decode[T any](in *structpb.Struct) (T, error) {
	var req T
	if err := v1.FromStruct(in, &req); err != nil {
		return req, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return req, nil
}

func (s *GRPCHandlers) respond(op string, v any) (*structpb.Struct, error) {
	out, err := v1.ToStruct(v)
	if err != nil {
		s.logger.Error("failed to encode response", zap.String("op", op), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s failed: encode response", op)
	}
	return out, nil
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, insights.ErrValidation), errors.Is(err, insights.ErrUnsupportedFormat):
		s.logger.Info("invalid request", zap.String("op", op), zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, insights.ErrNotFound), errors.Is(err, insights.ErrEmptyPopulation):
		s.logger.Info("nothing found", zap.String("op", op), zap.Error(err))
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, insights.ErrConfigDisabled), errors.Is(err, insights.ErrNoEligibleTopics):
		s.logger.Info("precondition failed", zap.String("op", op), zap.Error(err))
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

// cached runs fn through the read-through cache when one is configured.
func cached[T any](ctx context.Context, s *GRPCHandlers, key string, fn FetchFunc[T]) (T, error) {
	if s.reads == nil {
		return fn(ctx)
	}
	return FindAndCache(ctx, s.reads, key, fn)
}

func (s *GRPCHandlers) GenerateScore(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[insights.ScoreRequest](in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rec, err := s.svc.GenerateScore(ctx, req)
	if err != nil {
		return nil, s.handleError(ctx, "GenerateScore", err)
	}
	return s.respond("GenerateScore", rec)
}

func (s *GRPCHandlers) GetTrend(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[ScopeRequest](in)
	if err != nil {
		return nil, err
	}
	scope, err := req.scope()
	if err != nil {
		return nil, err
	}
	g, err := insights.ParseGranularity(req.Granularity)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cacheKey := normalizeKey(cacheKeyTrend, scope.CustomerID, scope.Department, scope.Location, scope.Range, string(g))

	report, err := cached(ctx, s, cacheKey, func(fetchCtx context.Context) (insights.TrendReport, error) {
		return s.svc.GetTrend(fetchCtx, service.TrendQuery{Scope: scope, Granularity: string(g)})
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetTrend", err)
	}
	return s.respond("GetTrend", report)
}

func (s *GRPCHandlers) DetectAnomalies(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[AnomalyRequest](in)
	if err != nil {
		return nil, err
	}
	if err := requireCustomer(req.CustomerID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	anomalies, err := s.svc.DetectAnomalies(ctx, service.AnomalyQuery{
		CustomerID:   req.CustomerID,
		AgencyID:     req.AgencyID,
		Department:   req.Department,
		Location:     req.Location,
		LookbackDays: req.LookbackDays,
	})
	if err != nil {
		return nil, s.handleError(ctx, "DetectAnomalies", err)
	}
	return s.respond("DetectAnomalies", v1.List[insights.Anomaly]{Items: anomalies})
}

func (s *GRPCHandlers) GetBenchmarks(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[BenchmarkRequest](in)
	if err != nil {
		return nil, err
	}
	if err := requireCustomer(req.CustomerID); err != nil {
		return nil, err
	}
	dr, err := parseRange(req.Start, req.End)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cacheKey := normalizeKey(cacheKeyBenchmarks, req.CustomerID, "", "", dr)

	set, err := cached(ctx, s, cacheKey, func(fetchCtx context.Context) (insights.BenchmarkSet, error) {
		return s.svc.GetBenchmarks(fetchCtx, req.CustomerID, dr)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetBenchmarks", err)
	}
	return s.respond("GetBenchmarks", set)
}

func (s *GRPCHandlers) GetBaseline(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[insights.BaselineRequest](in)
	if err != nil {
		return nil, err
	}
	if err := requireCustomer(req.CustomerID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cacheKey := normalizeKey(cacheKeyBaseline, req.CustomerID, req.Department, req.Location, insights.DateRange{},
		fmt.Sprintf("%dd", req.WindowDays))

	b, err := cached(ctx, s, cacheKey, func(fetchCtx context.Context) (insights.Baseline, error) {
		return s.svc.GetBaseline(fetchCtx, req)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetBaseline", err)
	}
	return s.respond("GetBaseline", b)
}

func (s *GRPCHandlers) GetInsights(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[ScopeRequest](in)
	if err != nil {
		return nil, err
	}
	scope, err := req.scope()
	if err != nil {
		return nil, err
	}
	g, err := insights.ParseGranularity(req.Granularity)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cacheKey := normalizeKey(cacheKeyInsights, scope.CustomerID, scope.Department, scope.Location, scope.Range, string(g))

	report, err := cached(ctx, s, cacheKey, func(fetchCtx context.Context) (service.InsightsReport, error) {
		return s.svc.GetInsights(fetchCtx, service.InsightsQuery{Scope: scope, Granularity: string(g)})
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetInsights", err)
	}
	return s.respond("GetInsights", report)
}

func (s *GRPCHandlers) SelectTopics(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[TopicsRequest](in)
	if err != nil {
		return nil, err
	}
	if err := requireCustomer(req.CustomerID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sel, err := s.svc.SelectTopics(ctx, req.CustomerID, req.AgencyID, req.Strategy)
	if err != nil {
		return nil, s.handleError(ctx, "SelectTopics", err)
	}
	return s.respond("SelectTopics", sel)
}

func (s *GRPCHandlers) ExportReport(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[ExportRequest](in)
	if err != nil {
		return nil, err
	}
	scope, err := req.scope()
	if err != nil {
		return nil, err
	}
	q := service.ExportQuery{
		Scope:  scope,
		Format: insights.ExportFormat(req.Format),
		Type:   insights.ExportType(req.ExportType),
	}
	if q.Format == "" {
		q.Format = insights.FormatCSV
	}
	if q.Type == "" {
		q.Type = insights.ExportDetailed
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content, err := s.svc.ExportReport(ctx, q)
	if err != nil {
		return nil, s.handleError(ctx, "ExportReport", err)
	}
	return s.respond("ExportReport", ExportResponse{Format: q.Format, ExportType: q.Type, Content: content})
}

func (s *GRPCHandlers) GetScoringConfig(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[ConfigRequest](in)
	if err != nil {
		return nil, err
	}
	if err := requireCustomer(req.CustomerID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cfg, err := s.svc.GetScoringConfig(ctx, req.CustomerID, req.AgencyID)
	if err != nil {
		return nil, s.handleError(ctx, "GetScoringConfig", err)
	}
	return s.respond("GetScoringConfig", cfg)
}

func (s *GRPCHandlers) UpdateScoringConfig(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[UpdateScoringConfigRequest](in)
	if err != nil {
		return nil, err
	}
	if err := requireCustomer(req.CustomerID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cfg, err := s.svc.UpdateScoringConfig(ctx, req.CustomerID, req.AgencyID, &req.Config)
	if err != nil {
		return nil, s.handleError(ctx, "UpdateScoringConfig", err)
	}
	return s.respond("UpdateScoringConfig", cfg)
}

func (s *GRPCHandlers) GetMessagingConfig(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[ConfigRequest](in)
	if err != nil {
		return nil, err
	}
	if err := requireCustomer(req.CustomerID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cfg, err := s.svc.GetMessagingConfig(ctx, req.CustomerID, req.AgencyID)
	if err != nil {
		return nil, s.handleError(ctx, "GetMessagingConfig", err)
	}
	return s.respond("GetMessagingConfig", cfg)
}

func (s *GRPCHandlers) UpdateMessagingConfig(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[UpdateMessagingConfigRequest](in)
	if err != nil {
		return nil, err
	}
	if err := requireCustomer(req.CustomerID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cfg, err := s.svc.UpdateMessagingConfig(ctx, req.CustomerID, req.AgencyID, &req.Config)
	if err != nil {
		return nil, s.handleError(ctx, "UpdateMessagingConfig", err)
	}
	return s.respond("UpdateMessagingConfig", cfg)
}

func (s *GRPCHandlers) AddMessagingTopic(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[AddTopicRequest](in)
	if err != nil {
		return nil, err
	}
	if err := requireCustomer(req.CustomerID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cfg, err := s.svc.AddMessagingTopic(ctx, req.CustomerID, req.AgencyID, req.Topic)
	if err != nil {
		return nil, s.handleError(ctx, "AddMessagingTopic", err)
	}
	return s.respond("AddMessagingTopic", cfg)
}

func (s *GRPCHandlers) UpsertCustomer(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode[insights.Customer](in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	c, err := s.svc.UpsertCustomer(ctx, req)
	if err != nil {
		return nil, s.handleError(ctx, "UpsertCustomer", err)
	}
	return s.respond("UpsertCustomer", c)
}
