package insights

import (
	"fmt"
	"time"
)

const allSlices = "all"

type Baseline struct {
	ID           string       `json:"id"`
	CustomerID   string       `json:"customerId"`
	Department   string       `json:"department"`
	Location     string       `json:"location"`
	Dimensions   DimensionSet `json:"dimensions"`
	OverallScore int          `json:"overallScore"`
	WorkerCount  int          `json:"workerCount"`
	DateRange    DateSpan     `json:"dateRange"`
	CalculatedAt time.Time    `json:"calculatedAt"`
}

// BaselineRequest selects the slice and window a baseline is computed over.
// Empty or "all" department and location mean no filter.
type BaselineRequest struct {
	CustomerID string `json:"customerId" validate:"required"`
	Department string `json:"department,omitempty"`
	Location   string `json:"location,omitempty"`
	WindowDays int    `json:"windowDays,omitempty" validate:"gte=0"`
}

func normalizeSlice(v string) string {
	if v == "" {
		return allSlices
	}
	return v
}

// BaselineKey is the identity of a baseline slice.
func BaselineKey(customerID, department, location string) string {
	return fmt.Sprintf("%s_%s_%s", customerID, normalizeSlice(department), normalizeSlice(location))
}

// MatchesSlice reports whether a record belongs to the department and
// location slice. "all" and empty match everything.
func MatchesSlice(r ScoreRecord, department, location string) bool {
	if d := normalizeSlice(department); d != allSlices && r.Department != d {
		return false
	}
	if l := normalizeSlice(location); l != allSlices && r.Location != l {
		return false
	}
	return true
}

// CalculateBaseline averages the customer's slice over the trailing window
// ending at now. An empty population is ErrEmptyPopulation.
func CalculateBaseline(records []ScoreRecord, req BaselineRequest, now time.Time) (Baseline, error) {
	if err := validateStruct(req); err != nil {
		return Baseline{}, err
	}
	window := req.WindowDays
	if window == 0 {
		window = DefaultBaselineWindowDays
	}
	start := now.AddDate(0, 0, -window)
	span := DateRange{Start: start, End: now}

	population := make([]ScoreRecord, 0, len(records))
	for _, r := range records {
		if r.CustomerID != req.CustomerID || !span.Contains(r.Timestamp) {
			continue
		}
		if MatchesSlice(r, req.Department, req.Location) {
			population = append(population, r)
		}
	}
	if len(population) == 0 {
		return Baseline{}, fmt.Errorf("%w: baseline for %s", ErrEmptyPopulation,
			BaselineKey(req.CustomerID, req.Department, req.Location))
	}

	return Baseline{
		ID:           BaselineKey(req.CustomerID, req.Department, req.Location),
		CustomerID:   req.CustomerID,
		Department:   normalizeSlice(req.Department),
		Location:     normalizeSlice(req.Location),
		Dimensions:   averageDimensions(population),
		OverallScore: int(roundHalfUp(averageOverall(population))),
		WorkerCount:  len(population),
		DateRange:    DateSpan{Start: formatDate(start), End: formatDate(now)},
		CalculatedAt: now.UTC(),
	}, nil
}
