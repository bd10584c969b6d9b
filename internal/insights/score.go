package insights

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Per-dimension flag cutoffs. These do not depend on ScoringConfig.
const (
	trendDeadband        = 5
	engagementFlagCutoff = 40
	careerFlagCutoff     = 40
	managerFlagCutoff    = 40
	wellbeingFlagCutoff  = 40
	mobilityFlagCutoff   = 30
)

const (
	FlagLowOverallScore    = "low_overall_score"
	FlagLowEngagement      = "low_engagement"
	FlagCareerMisalignment = "career_misalignment"
	FlagManagerIssues      = "manager_issues"
	FlagMobilityRisk       = "mobility_risk"
	FlagWellbeingConcern   = "wellbeing_concern"
)

// ScoreRequest is one measurement event before scoring.
type ScoreRequest struct {
	WorkerID   string       `json:"workerId" validate:"required"`
	CustomerID string       `json:"customerId" validate:"required"`
	AgencyID   string       `json:"agencyId,omitempty"`
	Department string       `json:"department,omitempty"`
	Location   string       `json:"location,omitempty"`
	Supervisor string       `json:"supervisor,omitempty"`
	Team       string       `json:"team,omitempty"`
	Dimensions DimensionSet `json:"dimensions"`
}

// Validate rejects missing identity fields and dimensions outside [0,100].
func (r ScoreRequest) Validate() error {
	return validateStruct(r)
}

// OverallScore is the rounded literal weighted sum of the dimensions.
func OverallScore(d DimensionSet, w Weights) int {
	sum := d.WorkEngagement*w.WorkEngagement +
		d.CareerAlignment*w.CareerAlignment +
		d.ManagerRelationship*w.ManagerRelationship +
		d.PersonalWellbeing*w.PersonalWellbeing +
		d.JobMobility*w.JobMobility
	return int(roundHalfUp(sum))
}

// ClassifyTrend compares a score to the worker's previous record.
func ClassifyTrend(overall int, prior *ScoreRecord) Trend {
	if prior == nil {
		return TrendStable
	}
	delta := overall - prior.OverallScore
	switch {
	case delta > trendDeadband:
		return TrendUp
	case delta < -trendDeadband:
		return TrendDown
	default:
		return TrendStable
	}
}

func ClassifyRisk(overall int, th Thresholds) RiskLevel {
	score := float64(overall)
	switch {
	case score <= th.RiskFlagThreshold:
		return RiskHigh
	case score <= th.LowScoreThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// RiskFlags returns the flags that fire for a score, in a fixed order.
// The result is never nil.
func RiskFlags(overall int, d DimensionSet, th Thresholds) []string {
	flags := make([]string, 0, 6)
	if float64(overall) <= th.LowScoreThreshold {
		flags = append(flags, FlagLowOverallScore)
	}
	if d.WorkEngagement <= engagementFlagCutoff {
		flags = append(flags, FlagLowEngagement)
	}
	if d.CareerAlignment <= careerFlagCutoff {
		flags = append(flags, FlagCareerMisalignment)
	}
	if d.ManagerRelationship <= managerFlagCutoff {
		flags = append(flags, FlagManagerIssues)
	}
	if d.JobMobility <= mobilityFlagCutoff {
		flags = append(flags, FlagMobilityRisk)
	}
	if d.PersonalWellbeing <= wellbeingFlagCutoff {
		flags = append(flags, FlagWellbeingConcern)
	}
	return flags
}

// CalculateScore turns a measurement into a ScoreRecord. prior is the
// worker's most recent record, or nil for a first measurement.
func CalculateScore(req ScoreRequest, cfg ScoringConfig, prior *ScoreRecord, now time.Time) (ScoreRecord, error) {
	if err := req.Validate(); err != nil {
		return ScoreRecord{}, err
	}
	if !cfg.Enabled {
		return ScoreRecord{}, fmt.Errorf("%w: customer %s", ErrConfigDisabled, req.CustomerID)
	}
	if err := cfg.Validate(); err != nil {
		return ScoreRecord{}, err
	}

	overall := OverallScore(req.Dimensions, cfg.Weights)
	return ScoreRecord{
		ID:           uuid.NewString(),
		WorkerID:     req.WorkerID,
		CustomerID:   req.CustomerID,
		AgencyID:     req.AgencyID,
		Department:   req.Department,
		Location:     req.Location,
		Supervisor:   req.Supervisor,
		Team:         req.Team,
		Dimensions:   req.Dimensions,
		OverallScore: overall,
		Trend:        ClassifyTrend(overall, prior),
		RiskLevel:    ClassifyRisk(overall, cfg.Thresholds),
		Flags:        RiskFlags(overall, req.Dimensions, cfg.Thresholds),
		Timestamp:    now.UTC(),
	}, nil
}
