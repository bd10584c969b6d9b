package insights

import (
	"fmt"
	"math"
)

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// ParseGranularity accepts day, week or month. Empty means week.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case "":
		return GranularityWeek, nil
	case GranularityDay, GranularityWeek, GranularityMonth:
		return g, nil
	default:
		return "", fmt.Errorf("%w: unknown granularity %q", ErrValidation, s)
	}
}

type Direction string

const (
	DirectionStronglyImproving Direction = "strongly_improving"
	DirectionImproving         Direction = "improving"
	DirectionStable            Direction = "stable"
	DirectionDeclining         Direction = "declining"
	DirectionStronglyDeclining Direction = "strongly_declining"
	DirectionInsufficientData  Direction = "insufficient_data"
)

const momentumWindow = 3

// PeriodAggregate summarizes all records that fall in one period.
type PeriodAggregate struct {
	Period            string            `json:"period"`
	Dimensions        DimensionSet      `json:"dimensions"`
	OverallScore      int               `json:"overallScore"`
	Volatility        int               `json:"volatility"`
	RiskDistribution  map[RiskLevel]int `json:"riskDistribution"`
	TrendDistribution map[Trend]int     `json:"trendDistribution"`
	WorkerCount       int               `json:"workerCount"`
}

type MomentumAnalysis struct {
	Direction       Direction `json:"direction"`
	Momentum        float64   `json:"momentum"`
	Confidence      int       `json:"confidence"`
	PeriodsAnalyzed int       `json:"periodsAnalyzed"`
}

type TrendReport struct {
	Granularity Granularity       `json:"granularity"`
	Periods     []PeriodAggregate `json:"periods"`
	Momentum    MomentumAnalysis  `json:"momentum"`
}

// AnalyzeTrend groups records into periods and classifies the direction of
// the most recent three. Input order does not matter.
func AnalyzeTrend(records []ScoreRecord, g Granularity) (TrendReport, error) {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
	default:
		return TrendReport{}, fmt.Errorf("%w: unknown granularity %q", ErrValidation, g)
	}

	periods := AggregatePeriods(records, g)
	return TrendReport{
		Granularity: g,
		Periods:     periods,
		Momentum:    AnalyzeMomentum(periods),
	}, nil
}

// PeriodKey returns the UTC period start a timestamp belongs to. Weeks
// start on Sunday.
func PeriodKey(r ScoreRecord, g Granularity) string {
	t := r.Timestamp.UTC()
	switch g {
	case GranularityDay:
		return t.Format(dateLayout)
	case GranularityMonth:
		return t.Format("2006-01")
	default:
		return t.AddDate(0, 0, -int(t.Weekday())).Format(dateLayout)
	}
}

// AggregatePeriods returns one aggregate per non-empty period ordered by
// period key.
func AggregatePeriods(records []ScoreRecord, g Granularity) []PeriodAggregate {
	groups := make(map[string][]ScoreRecord)
	for _, r := range sortByTimestamp(records) {
		key := PeriodKey(r, g)
		groups[key] = append(groups[key], r)
	}

	out := make([]PeriodAggregate, 0, len(groups))
	for _, k := range sortedKeys(groups) {
		out = append(out, aggregatePeriod(k, groups[k]))
	}
	return out
}

func aggregatePeriod(key string, group []ScoreRecord) PeriodAggregate {
	scores := make([]float64, len(group))
	risk := map[RiskLevel]int{RiskLow: 0, RiskMedium: 0, RiskHigh: 0}
	trend := map[Trend]int{TrendUp: 0, TrendDown: 0, TrendStable: 0}
	for i, r := range group {
		scores[i] = float64(r.OverallScore)
		risk[r.RiskLevel]++
		trend[r.Trend]++
	}
	return PeriodAggregate{
		Period:            key,
		Dimensions:        averageDimensions(group),
		OverallScore:      int(roundHalfUp(mean(scores))),
		Volatility:        int(roundHalfUp(populationStdDev(scores))),
		RiskDistribution:  risk,
		TrendDistribution: trend,
		WorkerCount:       len(group),
	}
}

// AnalyzeMomentum looks at the last three periods only.
func AnalyzeMomentum(periods []PeriodAggregate) MomentumAnalysis {
	if len(periods) < momentumWindow {
		return MomentumAnalysis{Direction: DirectionInsufficientData, PeriodsAnalyzed: len(periods)}
	}
	recent := periods[len(periods)-momentumWindow:]

	momentum := float64(recent[2].OverallScore-recent[0].OverallScore) / 2
	volatility := 0.0
	for _, p := range recent {
		volatility += float64(p.Volatility)
	}
	volatility /= float64(len(recent))

	return MomentumAnalysis{
		Direction:       directionOf(momentum),
		Momentum:        momentum,
		Confidence:      int(roundHalfUp(math.Max(0, 100-2*volatility))),
		PeriodsAnalyzed: len(recent),
	}
}

func directionOf(momentum float64) Direction {
	switch {
	case momentum > 2:
		return DirectionStronglyImproving
	case momentum > 0:
		return DirectionImproving
	case momentum < -2:
		return DirectionStronglyDeclining
	case momentum < 0:
		return DirectionDeclining
	default:
		return DirectionStable
	}
}
