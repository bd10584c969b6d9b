package insights

import (
	"fmt"
	"sort"
	"time"
)

type AnomalyType string

const (
	AnomalyRapidDrop         AnomalyType = "rapid_drop"
	AnomalySustainedLowScore AnomalyType = "sustained_low_score"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

type Anomaly struct {
	WorkerID      string      `json:"workerId"`
	Type          AnomalyType `json:"type"`
	Severity      Severity    `json:"severity"`
	Description   string      `json:"description"`
	ScoreDrop     *int        `json:"scoreDrop,omitempty"`
	CurrentScore  int         `json:"currentScore"`
	PreviousScore int         `json:"previousScore"`
	DetectedAt    time.Time   `json:"detectedAt"`
	Department    string      `json:"department"`
	Location      string      `json:"location"`
}

// FilterWindow keeps the records whose timestamp is within the trailing
// number of days ending at now.
func FilterWindow(records []ScoreRecord, now time.Time, days int) []ScoreRecord {
	if days <= 0 {
		return records
	}
	r := DateRange{Start: now.AddDate(0, 0, -days), End: now}
	out := make([]ScoreRecord, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.Timestamp) {
			out = append(out, rec)
		}
	}
	return out
}

// DetectAnomalies compares each worker's two most recent records. A drop
// strictly greater than RapidDropThreshold is a rapid drop; both scores
// strictly below LowScoreThreshold is a sustained low score. Results are
// ordered by worker ID.
func DetectAnomalies(records []ScoreRecord, th Thresholds, now time.Time) []Anomaly {
	byWorker := make(map[string][]ScoreRecord)
	for _, r := range sortByTimestamp(records) {
		byWorker[r.WorkerID] = append(byWorker[r.WorkerID], r)
	}

	workers := make([]string, 0, len(byWorker))
	for id, history := range byWorker {
		if len(history) >= 2 {
			workers = append(workers, id)
		}
	}
	sort.Strings(workers)

	anomalies := make([]Anomaly, 0)
	for _, id := range workers {
		history := byWorker[id]
		latest := history[len(history)-1]
		previous := history[len(history)-2]

		base := Anomaly{
			WorkerID:      id,
			CurrentScore:  latest.OverallScore,
			PreviousScore: previous.OverallScore,
			DetectedAt:    now.UTC(),
			Department:    latest.Department,
			Location:      latest.Location,
		}

		drop := previous.OverallScore - latest.OverallScore
		if float64(drop) > th.RapidDropThreshold {
			a := base
			a.Type = AnomalyRapidDrop
			a.Severity = SeverityHigh
			a.ScoreDrop = &drop
			a.Description = fmt.Sprintf("Score dropped by %d points (from %d to %d)",
				drop, previous.OverallScore, latest.OverallScore)
			anomalies = append(anomalies, a)
		}

		if float64(latest.OverallScore) < th.LowScoreThreshold && float64(previous.OverallScore) < th.LowScoreThreshold {
			a := base
			a.Type = AnomalySustainedLowScore
			a.Severity = SeverityMedium
			a.Description = fmt.Sprintf("Score has stayed below %v for two consecutive measurements (%d, %d)",
				th.LowScoreThreshold, previous.OverallScore, latest.OverallScore)
			anomalies = append(anomalies, a)
		}
	}
	return anomalies
}
