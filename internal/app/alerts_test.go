package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/godilite/jsi-server/internal/insights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakePublisher struct {
	channel string
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, value any) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.channel = channel
	data, err := json.Marshal(value)
	if err != nil {
		return 0, err
	}
	f.payload = data
	return 1, nil
}

func TestRedisAlertPublisher(t *testing.T) {
	rec := insights.ScoreRecord{
		ID:           "r-1",
		WorkerID:     "w-1",
		CustomerID:   "c-1",
		OverallScore: 25,
		RiskLevel:    insights.RiskHigh,
		Trend:        insights.TrendDown,
		Flags:        []string{insights.FlagLowOverallScore},
		Timestamp:    time.Date(2025, 3, 30, 12, 0, 0, 0, time.UTC),
	}

	t.Run("publishes on configured channel", func(t *testing.T) {
		fake := &fakePublisher{}
		p := newAlertPublisher(fake, "jsi:alerts", zaptest.NewLogger(t))

		require.NoError(t, p.PublishAlert(context.Background(), rec))

		assert.Equal(t, "jsi:alerts", fake.channel)
		var msg map[string]any
		require.NoError(t, json.Unmarshal(fake.payload, &msg))
		assert.Equal(t, "r-1", msg["recordId"])
		assert.Equal(t, "high", msg["riskLevel"])
		assert.Equal(t, "2025-03-30T12:00:00Z", msg["timestamp"])
		assert.Equal(t, []any{"low_overall_score"}, msg["flags"])
	})

	t.Run("wraps publish errors", func(t *testing.T) {
		boom := errors.New("connection reset")
		p := newAlertPublisher(&fakePublisher{err: boom}, "jsi:alerts", zaptest.NewLogger(t))

		err := p.PublishAlert(context.Background(), rec)

		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "jsi:alerts")
	})
}
