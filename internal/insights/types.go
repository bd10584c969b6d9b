// Package insights implements the Job Satisfaction Insights engine: scoring,
// trend and anomaly analysis, baselines, benchmarks, topic rotation and
// report export. Every function here is a pure computation over
// already-materialized records; persistence and transport live elsewhere.
package insights

import (
	"time"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Dimension names one of the five sub-scores of a DimensionSet.
type Dimension string

const (
	WorkEngagement      Dimension = "workEngagement"
	CareerAlignment     Dimension = "careerAlignment"
	ManagerRelationship Dimension = "managerRelationship"
	PersonalWellbeing   Dimension = "personalWellbeing"
	JobMobility         Dimension = "jobMobility"
)

// AllDimensions returns the dimensions in their canonical order.
func AllDimensions() []Dimension {
	return []Dimension{WorkEngagement, CareerAlignment, ManagerRelationship, PersonalWellbeing, JobMobility}
}

// DimensionSet holds the five satisfaction sub-scores of one measurement.
type DimensionSet struct {
	WorkEngagement      float64 `json:"workEngagement" validate:"gte=0,lte=100"`
	CareerAlignment     float64 `json:"careerAlignment" validate:"gte=0,lte=100"`
	ManagerRelationship float64 `json:"managerRelationship" validate:"gte=0,lte=100"`
	PersonalWellbeing   float64 `json:"personalWellbeing" validate:"gte=0,lte=100"`
	JobMobility         float64 `json:"jobMobility" validate:"gte=0,lte=100"`
}

// Get returns the value of a single dimension.
func (d DimensionSet) Get(dim Dimension) float64 {
	switch dim {
	case WorkEngagement:
		return d.WorkEngagement
	case CareerAlignment:
		return d.CareerAlignment
	case ManagerRelationship:
		return d.ManagerRelationship
	case PersonalWellbeing:
		return d.PersonalWellbeing
	case JobMobility:
		return d.JobMobility
	}
	return 0
}

func dimensionSetFrom(get func(Dimension) float64) DimensionSet {
	return DimensionSet{
		WorkEngagement:      get(WorkEngagement),
		CareerAlignment:     get(CareerAlignment),
		ManagerRelationship: get(ManagerRelationship),
		PersonalWellbeing:   get(PersonalWellbeing),
		JobMobility:         get(JobMobility),
	}
}

// Weights has the shape of a DimensionSet. The overall score is a literal
// weighted sum, so weights are not normalized.
type Weights struct {
	WorkEngagement      float64 `json:"workEngagement" validate:"gte=0"`
	CareerAlignment     float64 `json:"careerAlignment" validate:"gte=0"`
	ManagerRelationship float64 `json:"managerRelationship" validate:"gte=0"`
	PersonalWellbeing   float64 `json:"personalWellbeing" validate:"gte=0"`
	JobMobility         float64 `json:"jobMobility" validate:"gte=0"`
}

type Thresholds struct {
	LowScoreThreshold  float64 `json:"lowScoreThreshold" validate:"gte=0,lte=100"`
	RapidDropThreshold float64 `json:"rapidDropThreshold" validate:"gte=0,lte=100"`
	RapidDropDays      int     `json:"rapidDropDays" validate:"gte=1"`
	RiskFlagThreshold  float64 `json:"riskFlagThreshold" validate:"gte=0,lte=100"`
}

// ScoringConfig is the per-customer (optionally per-agency) scoring setup.
type ScoringConfig struct {
	CustomerID string     `json:"customerId,omitempty"`
	AgencyID   string     `json:"agencyId,omitempty"`
	Enabled    bool       `json:"enabled"`
	Weights    Weights    `json:"weights"`
	Thresholds Thresholds `json:"thresholds"`
}

// ScoreRecord is one measurement event for one worker. It is created once
// and never mutated.
type ScoreRecord struct {
	ID           string       `json:"id"`
	WorkerID     string       `json:"workerId"`
	CustomerID   string       `json:"customerId"`
	AgencyID     string       `json:"agencyId,omitempty"`
	Department   string       `json:"department,omitempty"`
	Location     string       `json:"location,omitempty"`
	Supervisor   string       `json:"supervisor,omitempty"`
	Team         string       `json:"team,omitempty"`
	Dimensions   DimensionSet `json:"dimensions"`
	OverallScore int          `json:"overallScore"`
	Trend        Trend        `json:"trend"`
	RiskLevel    RiskLevel    `json:"riskLevel"`
	Flags        []string     `json:"flags"`
	Timestamp    time.Time    `json:"timestamp"`
}

// NeedsAlert reports whether downstream alerting should be triggered.
func (r ScoreRecord) NeedsAlert() bool {
	return r.RiskLevel == RiskHigh || len(r.Flags) > 0
}

// Customer carries the industry membership used by industry benchmarks.
type Customer struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"name"`
	IndustryCode string `json:"industryCode,omitempty"`
	IndustryName string `json:"industryName,omitempty"`
}

// DateRange is an inclusive timestamp filter. A zero bound is unbounded.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// DateSpan is the reported date-only span of a derived record.
type DateSpan struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}
