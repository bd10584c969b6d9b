package insights

import (
	"fmt"
	"math"
)

const unassigned = "unassigned"

// AggregateBucket accumulates records for one department or location.
type AggregateBucket struct {
	Count      int               `json:"count"`
	TotalScore int               `json:"totalScore"`
	RiskLevels map[RiskLevel]int `json:"riskLevels"`
}

// AverageScore is derived so it cannot drift from Count and TotalScore.
func (b AggregateBucket) AverageScore() float64 {
	if b.Count == 0 {
		return 0
	}
	return roundTo(float64(b.TotalScore)/float64(b.Count), 1)
}

func (b *AggregateBucket) add(r ScoreRecord) {
	if b.RiskLevels == nil {
		b.RiskLevels = map[RiskLevel]int{RiskLow: 0, RiskMedium: 0, RiskHigh: 0}
	}
	b.Count++
	b.TotalScore += r.OverallScore
	b.RiskLevels[r.RiskLevel]++
}

type Summary struct {
	TotalRecords      int                        `json:"totalRecords"`
	UniqueWorkers     int                        `json:"uniqueWorkers"`
	AverageScore      float64                    `json:"averageScore"`
	DimensionAverages DimensionSet               `json:"dimensionAverages"`
	RiskDistribution  map[RiskLevel]int          `json:"riskDistribution"`
	TrendDistribution map[Trend]int              `json:"trendDistribution"`
	Departments       map[string]AggregateBucket `json:"departments"`
	Locations         map[string]AggregateBucket `json:"locations"`
}

// Summarize computes population-wide counts and per-department and
// per-location buckets. Records without a department or location are
// counted under "unassigned".
func Summarize(records []ScoreRecord) Summary {
	s := Summary{
		TotalRecords:      len(records),
		AverageScore:      roundTo(averageOverall(records), 1),
		DimensionAverages: averageDimensions(records),
		RiskDistribution:  map[RiskLevel]int{RiskLow: 0, RiskMedium: 0, RiskHigh: 0},
		TrendDistribution: map[Trend]int{TrendUp: 0, TrendDown: 0, TrendStable: 0},
		Departments:       make(map[string]AggregateBucket),
		Locations:         make(map[string]AggregateBucket),
	}

	workers := make(map[string]struct{})
	for _, r := range records {
		workers[r.WorkerID] = struct{}{}
		s.RiskDistribution[r.RiskLevel]++
		s.TrendDistribution[r.Trend]++
		addToBucket(s.Departments, r.Department, r)
		addToBucket(s.Locations, r.Location, r)
	}
	s.UniqueWorkers = len(workers)
	return s
}

func addToBucket(buckets map[string]AggregateBucket, key string, r ScoreRecord) {
	if key == "" {
		key = unassigned
	}
	b := buckets[key]
	b.add(r)
	buckets[key] = b
}

type InsightSeverity string

const (
	InsightPositive InsightSeverity = "positive"
	InsightInfo     InsightSeverity = "info"
	InsightWarning  InsightSeverity = "warning"
)

type Insight struct {
	Category string          `json:"category"`
	Severity InsightSeverity `json:"severity"`
	Message  string          `json:"message"`
}

const (
	highRiskShareCutoff  = 0.2
	weakDimensionCutoff  = 50
	baselineChangeCutoff = 5
)

// GenerateInsights turns a summary, its momentum and an optional baseline
// into narrative findings. lowScore is the department warning cutoff.
func GenerateInsights(s Summary, m MomentumAnalysis, baseline *Baseline, lowScore float64) ([]Insight, error) {
	if s.TotalRecords == 0 {
		return nil, fmt.Errorf("%w: insights", ErrEmptyPopulation)
	}
	var out []Insight

	share := float64(s.RiskDistribution[RiskHigh]) / float64(s.TotalRecords)
	if share >= highRiskShareCutoff {
		out = append(out, Insight{
			Category: "risk",
			Severity: InsightWarning,
			Message:  fmt.Sprintf("%.0f%% of measurements are high risk", share*100),
		})
	}

	weakest, weakestScore := WorkEngagement, math.Inf(1)
	for _, dim := range AllDimensions() {
		if v := s.DimensionAverages.Get(dim); v < weakestScore {
			weakest, weakestScore = dim, v
		}
	}
	if weakestScore < weakDimensionCutoff {
		out = append(out, Insight{
			Category: "dimension",
			Severity: InsightWarning,
			Message:  fmt.Sprintf("%s is the weakest dimension at %v", weakest, weakestScore),
		})
	}

	switch m.Direction {
	case DirectionDeclining, DirectionStronglyDeclining:
		out = append(out, Insight{
			Category: "trend",
			Severity: InsightWarning,
			Message:  fmt.Sprintf("Satisfaction is %s (%.1f points per period)", m.Direction, m.Momentum),
		})
	case DirectionImproving, DirectionStronglyImproving:
		out = append(out, Insight{
			Category: "trend",
			Severity: InsightPositive,
			Message:  fmt.Sprintf("Satisfaction is %s (+%.1f points per period)", m.Direction, m.Momentum),
		})
	}

	if baseline != nil {
		change := PercentChange(s.AverageScore, float64(baseline.OverallScore))
		switch {
		case change <= -baselineChangeCutoff:
			out = append(out, Insight{
				Category: "baseline",
				Severity: InsightWarning,
				Message:  fmt.Sprintf("Average score is %.1f%% below the baseline", -change),
			})
		case change >= baselineChangeCutoff:
			out = append(out, Insight{
				Category: "baseline",
				Severity: InsightPositive,
				Message:  fmt.Sprintf("Average score is %.1f%% above the baseline", change),
			})
		}
	}

	for _, name := range sortedKeys(s.Departments) {
		if name == unassigned {
			continue
		}
		if avg := s.Departments[name].AverageScore(); avg < lowScore {
			out = append(out, Insight{
				Category: "department",
				Severity: InsightWarning,
				Message:  fmt.Sprintf("Department %s averages %.1f", name, avg),
			})
		}
	}

	if len(out) == 0 {
		out = append(out, Insight{
			Category: "overall",
			Severity: InsightInfo,
			Message:  "No notable changes detected",
		})
	}
	return out, nil
}
