package insights_test

import (
	"testing"
	"time"

	"github.com/godilite/jsi-server/internal/insights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodKey(t *testing.T) {
	wed := time.Date(2025, 3, 5, 23, 30, 0, 0, time.UTC)
	r := record("w", 50, wed)

	assert.Equal(t, "2025-03-05", insights.PeriodKey(r, insights.GranularityDay))
	assert.Equal(t, "2025-03-02", insights.PeriodKey(r, insights.GranularityWeek))
	assert.Equal(t, "2025-03", insights.PeriodKey(r, insights.GranularityMonth))

	sunday := record("w", 50, day0)
	assert.Equal(t, "2025-03-02", insights.PeriodKey(sunday, insights.GranularityWeek))

	// Week keys cross month boundaries.
	early := record("w", 50, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-02-23", insights.PeriodKey(early, insights.GranularityWeek))
}

func TestAggregatePeriods(t *testing.T) {
	records := []insights.ScoreRecord{
		record("b", 70, day0.Add(2*time.Hour)),
		record("a", 50, day0),
		record("c", 90, day0.AddDate(0, 0, 1)),
	}
	records[0].RiskLevel = insights.RiskMedium
	records[0].Trend = insights.TrendUp

	periods := insights.AggregatePeriods(records, insights.GranularityDay)
	require.Len(t, periods, 2)

	first := periods[0]
	assert.Equal(t, "2025-03-02", first.Period)
	assert.Equal(t, 60, first.OverallScore)
	assert.Equal(t, 10, first.Volatility)
	assert.Equal(t, 2, first.WorkerCount)
	assert.Equal(t, 60.0, first.Dimensions.WorkEngagement)
	assert.Equal(t, 1, first.RiskDistribution[insights.RiskMedium])
	assert.Equal(t, 1, first.RiskDistribution[insights.RiskLow])
	assert.Equal(t, 0, first.RiskDistribution[insights.RiskHigh])
	assert.Equal(t, 1, first.TrendDistribution[insights.TrendUp])

	assert.Equal(t, "2025-03-03", periods[1].Period)
	assert.Equal(t, 0, periods[1].Volatility, "single record has no volatility")
}

func TestAggregatePeriods_EqualScoresHaveNoVolatility(t *testing.T) {
	records := []insights.ScoreRecord{
		record("a", 64, day0),
		record("b", 64, day0.Add(time.Hour)),
		record("c", 64, day0.Add(2*time.Hour)),
	}
	periods := insights.AggregatePeriods(records, insights.GranularityWeek)
	require.Len(t, periods, 1)
	assert.Equal(t, 0, periods[0].Volatility)
}

func TestAnalyzeMomentum(t *testing.T) {
	period := func(score, vol int) insights.PeriodAggregate {
		return insights.PeriodAggregate{OverallScore: score, Volatility: vol}
	}

	cases := []struct {
		name       string
		periods    []insights.PeriodAggregate
		direction  insights.Direction
		momentum   float64
		confidence int
	}{
		{"insufficient", []insights.PeriodAggregate{period(50, 0), period(60, 0)}, insights.DirectionInsufficientData, 0, 0},
		{"strongly improving", []insights.PeriodAggregate{period(50, 5), period(55, 5), period(60, 5)}, insights.DirectionStronglyImproving, 5, 90},
		{"improving", []insights.PeriodAggregate{period(50, 0), period(51, 0), period(53, 0)}, insights.DirectionImproving, 1.5, 100},
		{"stable", []insights.PeriodAggregate{period(50, 0), period(40, 0), period(50, 0)}, insights.DirectionStable, 0, 100},
		{"declining", []insights.PeriodAggregate{period(60, 0), period(60, 0), period(58, 0)}, insights.DirectionDeclining, -1, 100},
		{"strongly declining", []insights.PeriodAggregate{period(99, 0), period(70, 40), period(60, 50), period(50, 70)}, insights.DirectionStronglyDeclining, -10, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := insights.AnalyzeMomentum(tc.periods)
			assert.Equal(t, tc.direction, got.Direction)
			assert.InDelta(t, tc.momentum, got.Momentum, 1e-9)
			assert.Equal(t, tc.confidence, got.Confidence)
		})
	}
}

func TestAnalyzeTrend(t *testing.T) {
	t.Run("unknown granularity", func(t *testing.T) {
		_, err := insights.AnalyzeTrend(nil, "year")
		assert.ErrorIs(t, err, insights.ErrValidation)
	})

	t.Run("empty input", func(t *testing.T) {
		report, err := insights.AnalyzeTrend(nil, insights.GranularityMonth)
		require.NoError(t, err)
		assert.Empty(t, report.Periods)
		assert.Equal(t, insights.DirectionInsufficientData, report.Momentum.Direction)
	})

	t.Run("weekly decline", func(t *testing.T) {
		var records []insights.ScoreRecord
		for i, score := range []int{80, 70, 60} {
			records = append(records, record("w", score, day0.AddDate(0, 0, 7*i)))
		}
		report, err := insights.AnalyzeTrend(records, insights.GranularityWeek)
		require.NoError(t, err)
		require.Len(t, report.Periods, 3)
		assert.Equal(t, insights.DirectionStronglyDeclining, report.Momentum.Direction)
		assert.Equal(t, -10.0, report.Momentum.Momentum)
		assert.Equal(t, 100, report.Momentum.Confidence)
	})
}

func TestParseGranularity(t *testing.T) {
	g, err := insights.ParseGranularity("")
	require.NoError(t, err)
	assert.Equal(t, insights.GranularityWeek, g)

	g, err = insights.ParseGranularity("day")
	require.NoError(t, err)
	assert.Equal(t, insights.GranularityDay, g)

	_, err = insights.ParseGranularity("hour")
	assert.ErrorIs(t, err, insights.ErrValidation)
}
