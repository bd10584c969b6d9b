package grpc

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	v1 "github.com/godilite/jsi-server/api/v1"
	"github.com/godilite/jsi-server/internal/grpc/mocks"
	"github.com/godilite/jsi-server/internal/insights"
	"github.com/godilite/jsi-server/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func decodeResponse[T any](t *testing.T, s *structpb.Struct) T {
	t.Helper()
	var out T
	require.NoError(t, v1.FromStruct(s, &out))
	return out
}

// TestNewGRPCHandlers tests the constructor
func TestNewGRPCHandlers(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		mockSvc := &mocks.MockInsightsService{}
		mockCache := &mocks.MockCacher{}
		ttl := 5 * time.Minute

		handlers := NewGRPCHandlers(mockSvc, mockCache, zap.NewNop(), ttl)

		assert.NotNil(t, handlers)
		assert.Equal(t, mockSvc, handlers.svc)
		require.NotNil(t, handlers.reads)
		assert.Equal(t, mockCache, handlers.reads.cache)
		assert.Equal(t, ttl, handlers.reads.ttl)
		assert.Equal(t, defaultGRPCTimeout, handlers.timeout)
		assert.NotNil(t, handlers.logger)
	})

	t.Run("nil service panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewGRPCHandlers(nil, &mocks.MockCacher{}, zap.NewNop(), time.Minute)
		})
	})

	t.Run("non-positive TTL uses default", func(t *testing.T) {
		for _, ttl := range []time.Duration{0, -time.Minute} {
			handlers := NewGRPCHandlers(&mocks.MockInsightsService{}, &mocks.MockCacher{}, nil, ttl)
			assert.Equal(t, defaultCacheDuration, handlers.reads.ttl)
		}
	})

	t.Run("request timeout option", func(t *testing.T) {
		handlers := NewGRPCHandlers(&mocks.MockInsightsService{}, nil, nil, 0, WithRequestTimeout(3*time.Second))

		assert.Equal(t, 3*time.Second, handlers.timeout)
	})
}

func TestNormalizeKey(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("basic key generation", func(t *testing.T) {
		key := normalizeKey(cacheKeyTrend, "c-1", "ops", "nyc", insights.DateRange{Start: start, End: end}, "week")

		assert.Equal(t, "grpc:trend:c-1:ops:nyc:2025-01-01T00:00:00Z:2025-01-31T00:00:00Z:week", key)
	})

	t.Run("empty slices and open range", func(t *testing.T) {
		key := normalizeKey(cacheKeyBenchmarks, "c-1", "", "", insights.DateRange{})

		assert.Equal(t, "grpc:benchmarks:c-1:all:all:-:-", key)
	})

	t.Run("timezone conversion", func(t *testing.T) {
		est := time.FixedZone("EST", -5*3600)
		local := time.Date(2024, 12, 31, 19, 0, 0, 0, est)

		key := normalizeKey(cacheKeyInsights, "c-1", "", "", insights.DateRange{Start: local})

		assert.Equal(t, "grpc:insights:c-1:all:all:2025-01-01T00:00:00Z:-", key)
	})

	t.Run("different prefixes", func(t *testing.T) {
		dr := insights.DateRange{Start: start, End: end}
		keys := map[string]bool{}
		for _, p := range []CacheKeyType{cacheKeyTrend, cacheKeyBenchmarks, cacheKeyBaseline, cacheKeyInsights} {
			keys[normalizeKey(p, "c-1", "", "", dr)] = true
		}

		assert.Len(t, keys, 4)
	})
}

// TestHandleError tests error handling and status code mapping
func TestHandleError(t *testing.T) {
	handlers := &GRPCHandlers{logger: zap.NewNop()}

	t.Run("context canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := handlers.handleError(ctx, "test_operation", errors.New("some error"))

		assert.Equal(t, codes.Canceled, status.Code(err))
		assert.Contains(t, err.Error(), "request canceled")
	})

	t.Run("context deadline exceeded", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		time.Sleep(time.Millisecond)

		err := handlers.handleError(ctx, "test_operation", errors.New("some error"))

		assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
		assert.Contains(t, err.Error(), "request timed out")
	})

	cases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"validation", fmt.Errorf("%w: workerId is required", insights.ErrValidation), codes.InvalidArgument},
		{"unsupported format", insights.ErrUnsupportedFormat, codes.InvalidArgument},
		{"not found", insights.ErrNotFound, codes.NotFound},
		{"empty population", insights.ErrEmptyPopulation, codes.NotFound},
		{"config disabled", insights.ErrConfigDisabled, codes.FailedPrecondition},
		{"no eligible topics", insights.ErrNoEligibleTopics, codes.FailedPrecondition},
		{"storage failure", fmt.Errorf("%w: disk", service.ErrStorageFailure), codes.Internal},
		{"unknown", errors.New("database connection lost"), codes.Internal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := handlers.handleError(context.Background(), "test_operation", tc.err)

			assert.Equal(t, tc.code, status.Code(err))
		})
	}

	t.Run("storage details are not leaked", func(t *testing.T) {
		err := handlers.handleError(context.Background(), "op", fmt.Errorf("%w: secret dsn", service.ErrStorageFailure))

		assert.NotContains(t, err.Error(), "secret dsn")
		assert.Contains(t, err.Error(), "database error")
	})

	t.Run("validation message is passed through", func(t *testing.T) {
		err := handlers.handleError(context.Background(), "op", fmt.Errorf("%w: workerId is required", insights.ErrValidation))

		assert.Contains(t, err.Error(), "workerId is required")
	})
}

func TestGenerateScore(t *testing.T) {
	t.Run("successful call", func(t *testing.T) {
		mockSvc := &mocks.MockInsightsService{
			GenerateScoreFunc: func(ctx context.Context, req insights.ScoreRequest) (insights.ScoreRecord, error) {
				assert.Equal(t, "w-1", req.WorkerID)
				assert.Equal(t, 72.5, req.Dimensions.WorkEngagement)
				return insights.ScoreRecord{ID: "r-1", WorkerID: req.WorkerID, OverallScore: 72, RiskLevel: insights.RiskLow, Flags: []string{}}, nil
			},
		}
		handlers := NewGRPCHandlers(mockSvc, nil, zap.NewNop(), time.Minute)

		resp, err := handlers.GenerateScore(context.Background(), mustStruct(t, map[string]any{
			"workerId":   "w-1",
			"customerId": "c-1",
			"dimensions": map[string]any{"workEngagement": 72.5},
		}))

		require.NoError(t, err)
		rec := decodeResponse[insights.ScoreRecord](t, resp)
		assert.Equal(t, "r-1", rec.ID)
		assert.Equal(t, 72, rec.OverallScore)
	})

	t.Run("malformed payload", func(t *testing.T) {
		handlers := NewGRPCHandlers(&mocks.MockInsightsService{}, nil, zap.NewNop(), time.Minute)

		_, err := handlers.GenerateScore(context.Background(), mustStruct(t, map[string]any{
			"dimensions": "high",
		}))

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("disabled config", func(t *testing.T) {
		mockSvc := &mocks.MockInsightsService{
			GenerateScoreFunc: func(ctx context.Context, req insights.ScoreRequest) (insights.ScoreRecord, error) {
				return insights.ScoreRecord{}, insights.ErrConfigDisabled
			},
		}
		handlers := NewGRPCHandlers(mockSvc, nil, zap.NewNop(), time.Minute)

		_, err := handlers.GenerateScore(context.Background(), mustStruct(t, map[string]any{"workerId": "w-1", "customerId": "c-1"}))

		assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	})
}

func TestGetTrend(t *testing.T) {
	report := insights.TrendReport{
		Granularity: insights.GranularityMonth,
		Periods:     []insights.PeriodAggregate{{Period: "2025-01", OverallScore: 70}},
		Momentum:    insights.MomentumAnalysis{Direction: insights.DirectionInsufficientData, PeriodsAnalyzed: 1},
	}

	t.Run("parses request and caches result", func(t *testing.T) {
		var calls atomic.Int32
		mockSvc := &mocks.MockInsightsService{
			GetTrendFunc: func(ctx context.Context, q service.TrendQuery) (insights.TrendReport, error) {
				calls.Add(1)
				assert.Equal(t, "c-1", q.CustomerID)
				assert.Equal(t, "month", q.Granularity)
				assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), q.Range.Start)
				return report, nil
			},
		}
		cache := &mocks.MockCacher{}
		handlers := NewGRPCHandlers(mockSvc, cache, zap.NewNop(), time.Minute)
		req := mustStruct(t, map[string]any{
			"customerId":  "c-1",
			"start":       "2025-01-01T00:00:00Z",
			"granularity": "month",
		})

		resp, err := handlers.GetTrend(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, report, decodeResponse[insights.TrendReport](t, resp))

		wantKey := "grpc:trend:c-1:all:all:2025-01-01T00:00:00Z:-:month"
		require.Eventually(t, func() bool {
			return len(cache.Keys()) > 0
		}, time.Second, 10*time.Millisecond)
		assert.Equal(t, wantKey, cache.Keys()[0])

		resp, err = handlers.GetTrend(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, report, decodeResponse[insights.TrendReport](t, resp))
		assert.GreaterOrEqual(t, calls.Load(), int32(1))
	})

	t.Run("invalid requests", func(t *testing.T) {
		handlers := NewGRPCHandlers(&mocks.MockInsightsService{}, nil, zap.NewNop(), time.Minute)
		cases := map[string]map[string]any{
			"missing customer":    {},
			"bad start":           {"customerId": "c-1", "start": "yesterday"},
			"end before start":    {"customerId": "c-1", "start": "2025-02-01T00:00:00Z", "end": "2025-01-01T00:00:00Z"},
			"unknown granularity": {"customerId": "c-1", "granularity": "decade"},
		}
		for name, m := range cases {
			t.Run(name, func(t *testing.T) {
				resp, err := handlers.GetTrend(context.Background(), mustStruct(t, m))

				assert.Nil(t, resp)
				assert.Equal(t, codes.InvalidArgument, status.Code(err))
			})
		}
	})

	t.Run("works without a cache", func(t *testing.T) {
		mockSvc := &mocks.MockInsightsService{
			GetTrendFunc: func(ctx context.Context, q service.TrendQuery) (insights.TrendReport, error) {
				return report, nil
			},
		}
		handlers := NewGRPCHandlers(mockSvc, nil, zap.NewNop(), time.Minute)

		_, err := handlers.GetTrend(context.Background(), mustStruct(t, map[string]any{"customerId": "c-1"}))

		assert.NoError(t, err)
	})
}

func TestDetectAnomalies(t *testing.T) {
	drop := 25
	mockSvc := &mocks.MockInsightsService{
		DetectAnomaliesFunc: func(ctx context.Context, q service.AnomalyQuery) ([]insights.Anomaly, error) {
			assert.Equal(t, 7, q.LookbackDays)
			return []insights.Anomaly{{WorkerID: "w-1", Type: insights.AnomalyRapidDrop, ScoreDrop: &drop}}, nil
		},
	}
	handlers := NewGRPCHandlers(mockSvc, nil, zap.NewNop(), time.Minute)

	resp, err := handlers.DetectAnomalies(context.Background(), mustStruct(t, map[string]any{
		"customerId":   "c-1",
		"lookbackDays": 7,
	}))

	require.NoError(t, err)
	list := decodeResponse[v1.List[insights.Anomaly]](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, insights.AnomalyRapidDrop, list.Items[0].Type)
	assert.Equal(t, 25, *list.Items[0].ScoreDrop)
}

func TestGetBenchmarks(t *testing.T) {
	t.Run("unknown customer", func(t *testing.T) {
		mockSvc := &mocks.MockInsightsService{
			GetBenchmarksFunc: func(ctx context.Context, customerID string, dr insights.DateRange) (insights.BenchmarkSet, error) {
				return insights.BenchmarkSet{}, fmt.Errorf("%w: customer %s", insights.ErrNotFound, customerID)
			},
		}
		handlers := NewGRPCHandlers(mockSvc, &mocks.MockCacher{}, zap.NewNop(), time.Minute)

		_, err := handlers.GetBenchmarks(context.Background(), mustStruct(t, map[string]any{"customerId": "nope"}))

		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("global and industry", func(t *testing.T) {
		mockSvc := &mocks.MockInsightsService{
			GetBenchmarksFunc: func(ctx context.Context, customerID string, dr insights.DateRange) (insights.BenchmarkSet, error) {
				return insights.BenchmarkSet{
					Global:   insights.Benchmark{ID: "global", WorkerCount: 3},
					Industry: &insights.Benchmark{ID: "industry_tech", WorkerCount: 2},
				}, nil
			},
		}
		handlers := NewGRPCHandlers(mockSvc, nil, zap.NewNop(), time.Minute)

		resp, err := handlers.GetBenchmarks(context.Background(), mustStruct(t, map[string]any{"customerId": "c-1"}))

		require.NoError(t, err)
		set := decodeResponse[insights.BenchmarkSet](t, resp)
		assert.Equal(t, 3, set.Global.WorkerCount)
		require.NotNil(t, set.Industry)
		assert.Equal(t, "industry_tech", set.Industry.ID)
	})
}

func TestGetBaseline(t *testing.T) {
	mockSvc := &mocks.MockInsightsService{
		GetBaselineFunc: func(ctx context.Context, req insights.BaselineRequest) (insights.Baseline, error) {
			assert.Equal(t, "ops", req.Department)
			return insights.Baseline{}, fmt.Errorf("%w: baseline", insights.ErrEmptyPopulation)
		},
	}
	handlers := NewGRPCHandlers(mockSvc, nil, zap.NewNop(), time.Minute)

	_, err := handlers.GetBaseline(context.Background(), mustStruct(t, map[string]any{
		"customerId": "c-1",
		"department": "ops",
	}))

	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGetInsights(t *testing.T) {
	mockSvc := &mocks.MockInsightsService{
		GetInsightsFunc: func(ctx context.Context, q service.InsightsQuery) (service.InsightsReport, error) {
			return service.InsightsReport{
				Insights: []insights.Insight{{Category: "risk", Severity: insights.InsightWarning, Message: "many high risk workers"}},
			}, nil
		},
	}
	handlers := NewGRPCHandlers(mockSvc, nil, zap.NewNop(), time.Minute)

	resp, err := handlers.GetInsights(context.Background(), mustStruct(t, map[string]any{"customerId": "c-1"}))

	require.NoError(t, err)
	report := decodeResponse[service.InsightsReport](t, resp)
	require.Len(t, report.Insights, 1)
	assert.Equal(t, "many high risk workers", report.Insights[0].Message)
}

func TestSelectTopics(t *testing.T) {
	mockSvc := &mocks.MockInsightsService{
		SelectTopicsFunc: func(ctx context.Context, customerID, agencyID, strategy string) (insights.TopicSelection, error) {
			return insights.TopicSelection{}, insights.ErrNoEligibleTopics
		},
	}
	handlers := NewGRPCHandlers(mockSvc, nil, zap.NewNop(), time.Minute)

	_, err := handlers.SelectTopics(context.Background(), mustStruct(t, map[string]any{"customerId": "c-1"}))

	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestExportReport(t *testing.T) {
	t.Run("defaults and content", func(t *testing.T) {
		mockSvc := &mocks.MockInsightsService{
			ExportReportFunc: func(ctx context.Context, q service.ExportQuery) (string, error) {
				assert.Equal(t, insights.FormatCSV, q.Format)
				assert.Equal(t, insights.ExportDetailed, q.Type)
				return "Worker ID,Customer ID\nw-1,c-1", nil
			},
		}
		handlers := NewGRPCHandlers(mockSvc, nil, zap.NewNop(), time.Minute)

		resp, err := handlers.ExportReport(context.Background(), mustStruct(t, map[string]any{"customerId": "c-1"}))

		require.NoError(t, err)
		out := decodeResponse[ExportResponse](t, resp)
		assert.Equal(t, insights.FormatCSV, out.Format)
		assert.Equal(t, "Worker ID,Customer ID\nw-1,c-1", out.Content)
	})

	t.Run("unsupported format", func(t *testing.T) {
		mockSvc := &mocks.MockInsightsService{
			ExportReportFunc: func(ctx context.Context, q service.ExportQuery) (string, error) {
				return "", fmt.Errorf("%w: format %q", insights.ErrUnsupportedFormat, q.Format)
			},
		}
		handlers := NewGRPCHandlers(mockSvc, nil, zap.NewNop(), time.Minute)

		_, err := handlers.ExportReport(context.Background(), mustStruct(t, map[string]any{"customerId": "c-1", "format": "pdf"}))

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestConfigHandlers(t *testing.T) {
	t.Run("update scoring config passes override", func(t *testing.T) {
		mockSvc := &mocks.MockInsightsService{
			UpdateScoringConfigFunc: func(ctx context.Context, customerID, agencyID string, o *insights.ScoringConfigOverride) (insights.ScoringConfig, error) {
				require.NotNil(t, o.Thresholds)
				require.NotNil(t, o.Thresholds.LowScoreThreshold)
				assert.Equal(t, 45.0, *o.Thresholds.LowScoreThreshold)
				assert.Nil(t, o.Weights)
				cfg := insights.DefaultScoringConfig()
				cfg.CustomerID = customerID
				cfg.Thresholds.LowScoreThreshold = 45
				return cfg, nil
			},
		}
		handlers := NewGRPCHandlers(mockSvc, nil, zap.NewNop(), time.Minute)

		resp, err := handlers.UpdateScoringConfig(context.Background(), mustStruct(t, map[string]any{
			"customerId": "c-1",
			"config": map[string]any{
				"thresholds": map[string]any{"lowScoreThreshold": 45},
			},
		}))

		require.NoError(t, err)
		cfg := decodeResponse[insights.ScoringConfig](t, resp)
		assert.Equal(t, 45.0, cfg.Thresholds.LowScoreThreshold)
	})

	t.Run("get messaging config requires customer", func(t *testing.T) {
		handlers := NewGRPCHandlers(&mocks.MockInsightsService{}, nil, zap.NewNop(), time.Minute)

		_, err := handlers.GetMessagingConfig(context.Background(), mustStruct(t, map[string]any{}))

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("add topic", func(t *testing.T) {
		mockSvc := &mocks.MockInsightsService{
			AddMessagingTopicFunc: func(ctx context.Context, customerID, agencyID string, topic insights.MessagingTopic) (insights.MessagingConfig, error) {
				assert.Equal(t, "Commute", topic.Name)
				return insights.MessagingConfig{CustomerID: customerID, Topics: []insights.MessagingTopic{topic}}, nil
			},
		}
		handlers := NewGRPCHandlers(mockSvc, nil, zap.NewNop(), time.Minute)

		resp, err := handlers.AddMessagingTopic(context.Background(), mustStruct(t, map[string]any{
			"customerId": "c-1",
			"topic": map[string]any{
				"name":          "Commute",
				"samplePrompts": []any{"How is the commute?"},
			},
		}))

		require.NoError(t, err)
		cfg := decodeResponse[insights.MessagingConfig](t, resp)
		require.Len(t, cfg.Topics, 1)
	})

	t.Run("upsert customer storage failure", func(t *testing.T) {
		mockSvc := &mocks.MockInsightsService{
			UpsertCustomerFunc: func(ctx context.Context, c insights.Customer) (insights.Customer, error) {
				return insights.Customer{}, fmt.Errorf("%w: locked", service.ErrStorageFailure)
			},
		}
		handlers := NewGRPCHandlers(mockSvc, nil, zap.NewNop(), time.Minute)

		_, err := handlers.UpsertCustomer(context.Background(), mustStruct(t, map[string]any{"id": "c-1"}))

		assert.Equal(t, codes.Internal, status.Code(err))
	})
}
