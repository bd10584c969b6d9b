package server

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingObserver) ObserveRPC(method, code string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, method+" "+code)
}

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/jsi.v1.Insights/GetTrend"}

func TestLoggingInterceptor(t *testing.T) {
	interceptor := LoggingInterceptor(zaptest.NewLogger(t))

	t.Run("successful request", func(t *testing.T) {
		resp, err := interceptor(context.Background(), "req", testInfo, func(ctx context.Context, req any) (any, error) {
			return "success", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "success", resp)
	})

	t.Run("error keeps its status", func(t *testing.T) {
		for _, code := range []codes.Code{codes.InvalidArgument, codes.Internal} {
			_, err := interceptor(context.Background(), "req", testInfo, func(ctx context.Context, req any) (any, error) {
				return nil, status.Error(code, "test error")
			})
			assert.Equal(t, code, status.Code(err))
		}
	})
}

func TestMetricsInterceptor(t *testing.T) {
	obs := &recordingObserver{}
	interceptor := MetricsInterceptor(obs)

	_, _ = interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	_, _ = interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.NotFound, "missing")
	})

	assert.Equal(t, []string{
		"/jsi.v1.Insights/GetTrend OK",
		"/jsi.v1.Insights/GetTrend NotFound",
	}, obs.calls)
}

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor(zaptest.NewLogger(t))

	resp, err := interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req any) (any, error) {
		panic("boom")
	})
	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestNew_InvalidPort(t *testing.T) {
	_, err := New(WithPort(70000))
	assert.Error(t, err)
}

func TestServerBuilder_Bufconn(t *testing.T) {
	lis := bufconn.Listen(1024 * 1024)
	obs := &recordingObserver{}

	server, err := New(
		WithListener(lis),
		WithLogger(zaptest.NewLogger(t)),
		WithLogging(true),
		WithMetrics(obs),
		WithReflection(true),
	)
	require.NoError(t, err)
	require.NotNil(t, server.grpcServer)
	require.NotNil(t, server.healthServer)

	server.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		assert.NoError(t, server.Shutdown(ctx))
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	server.SetServiceHealth("jsi.v1.Insights", healthpb.HealthCheckResponse_NOT_SERVING)
	resp, err = healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: "jsi.v1.Insights"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Contains(t, obs.calls, "/grpc.health.v1.Health/Check OK")
}
