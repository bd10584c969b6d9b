package service

import (
	"time"

	"github.com/godilite/jsi-server/internal/insights"
)

// Scope selects the records an analytics query runs over. Empty or "all"
// department and location do not filter.
type Scope struct {
	CustomerID string
	Department string
	Location   string
	Range      insights.DateRange
}

type TrendQuery struct {
	Scope
	Granularity string
}

// AnomalyQuery looks back LookbackDays from now. Zero uses the customer's
// rapidDropDays threshold.
type AnomalyQuery struct {
	CustomerID   string
	AgencyID     string
	Department   string
	Location     string
	LookbackDays int
}

type InsightsQuery struct {
	Scope
	Granularity string
}

type ExportQuery struct {
	Scope
	Format insights.ExportFormat
	Type   insights.ExportType
}

// InsightsReport is the dashboard view of a scope.
type InsightsReport struct {
	Summary     insights.Summary          `json:"summary"`
	Momentum    insights.MomentumAnalysis `json:"momentum"`
	Baseline    *insights.Baseline        `json:"baseline,omitempty"`
	Insights    []insights.Insight        `json:"insights"`
	GeneratedAt time.Time                 `json:"generatedAt"`
}
