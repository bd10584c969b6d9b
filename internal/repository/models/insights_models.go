package models

import "time"

// ScoreFilter narrows a score history query. Empty fields do not filter;
// a department or location of "all" is the same as empty.
type ScoreFilter struct {
	CustomerID string
	WorkerID   string
	Department string
	Location   string
	Start      time.Time
	End        time.Time
}

// ScoreRecordRow mirrors one row of score_records.
type ScoreRecordRow struct {
	ID                  string
	WorkerID            string
	CustomerID          string
	AgencyID            string
	Department          string
	Location            string
	Supervisor          string
	Team                string
	WorkEngagement      float64
	CareerAlignment     float64
	ManagerRelationship float64
	PersonalWellbeing   float64
	JobMobility         float64
	OverallScore        int
	Trend               string
	RiskLevel           string
	Flags               string
	RecordedAt          string
}

// PayloadRow is a JSON document keyed by id, used for baselines,
// benchmarks and configuration.
type PayloadRow struct {
	ID        string
	Payload   []byte
	UpdatedAt string
}
