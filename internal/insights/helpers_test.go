package insights_test

import (
	"time"

	"github.com/godilite/jsi-server/internal/insights"
)

var day0 = time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC) // a Sunday

func record(worker string, score int, ts time.Time) insights.ScoreRecord {
	v := float64(score)
	return insights.ScoreRecord{
		ID:           worker + ts.Format(time.RFC3339),
		WorkerID:     worker,
		CustomerID:   "cust-1",
		Dimensions:   insights.DimensionSet{WorkEngagement: v, CareerAlignment: v, ManagerRelationship: v, PersonalWellbeing: v, JobMobility: v},
		OverallScore: score,
		Trend:        insights.TrendStable,
		RiskLevel:    insights.RiskLow,
		Flags:        []string{},
		Timestamp:    ts,
	}
}

func uniform(v float64) insights.DimensionSet {
	return insights.DimensionSet{WorkEngagement: v, CareerAlignment: v, ManagerRelationship: v, PersonalWellbeing: v, JobMobility: v}
}

// fakeRand always picks index 0 and reverses on shuffle.
type fakeRand struct{}

func (fakeRand) Intn(int) int { return 0 }

func (fakeRand) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}
