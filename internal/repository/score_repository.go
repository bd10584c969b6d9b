package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/godilite/jsi-server/internal/insights"
	"github.com/godilite/jsi-server/internal/repository/models"
)

const scoreColumns = `
	id, worker_id, customer_id, agency_id, department, location, supervisor, team,
	work_engagement, career_alignment, manager_relationship, personal_wellbeing, job_mobility,
	overall_score, trend, risk_level, flags, recorded_at`

// InsertScore appends a score record. Records are never updated.
func (s *InsightsRepository) InsertScore(ctx context.Context, rec insights.ScoreRecord) error {
	flags, err := json.Marshal(nonNilFlags(rec.Flags))
	if err != nil {
		return fmt.Errorf("encode flags: %w", err)
	}

	const query = `INSERT INTO score_records (` + scoreColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	d := rec.Dimensions
	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.WorkerID, rec.CustomerID, rec.AgencyID,
		rec.Department, rec.Location, rec.Supervisor, rec.Team,
		d.WorkEngagement, d.CareerAlignment, d.ManagerRelationship, d.PersonalWellbeing, d.JobMobility,
		rec.OverallScore, string(rec.Trend), string(rec.RiskLevel), string(flags), formatTime(rec.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("insert score record: %w", err)
	}
	return nil
}

// LatestScore returns the worker's most recent record for a customer.
func (s *InsightsRepository) LatestScore(ctx context.Context, customerID, workerID string) (insights.ScoreRecord, error) {
	query := `SELECT ` + scoreColumns + `
		FROM score_records
		WHERE customer_id = ? AND worker_id = ?
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT 1`

	rec, err := scanScore(s.db.QueryRowContext(ctx, query, customerID, workerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return insights.ScoreRecord{}, ErrNotFound
		}
		return insights.ScoreRecord{}, fmt.Errorf("query LatestScore: %w", err)
	}
	return rec, nil
}

// ListScores returns matching records in ascending time order. Records
// sharing a timestamp keep insertion order.
func (s *InsightsRepository) ListScores(ctx context.Context, f models.ScoreFilter) ([]insights.ScoreRecord, error) {
	var (
		conds []string
		args  []any
	)
	if f.CustomerID != "" {
		conds = append(conds, "customer_id = ?")
		args = append(args, f.CustomerID)
	}
	if f.WorkerID != "" {
		conds = append(conds, "worker_id = ?")
		args = append(args, f.WorkerID)
	}
	if f.Department != "" && f.Department != "all" {
		conds = append(conds, "department = ?")
		args = append(args, f.Department)
	}
	if f.Location != "" && f.Location != "all" {
		conds = append(conds, "location = ?")
		args = append(args, f.Location)
	}
	if !f.Start.IsZero() {
		conds = append(conds, "recorded_at >= ?")
		args = append(args, formatTime(f.Start))
	}
	if !f.End.IsZero() {
		conds = append(conds, "recorded_at <= ?")
		args = append(args, formatTime(f.End))
	}

	query := `SELECT ` + scoreColumns + ` FROM score_records`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY recorded_at ASC, rowid ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ListScores: %w", err)
	}
	defer rows.Close()

	results := make([]insights.ScoreRecord, 0)
	for rows.Next() {
		rec, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ListScores row: %w", err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListScores: %w", err)
	}
	return results, nil
}

func scanScore(row scanner) (insights.ScoreRecord, error) {
	var r models.ScoreRecordRow
	err := row.Scan(
		&r.ID, &r.WorkerID, &r.CustomerID, &r.AgencyID, &r.Department, &r.Location, &r.Supervisor, &r.Team,
		&r.WorkEngagement, &r.CareerAlignment, &r.ManagerRelationship, &r.PersonalWellbeing, &r.JobMobility,
		&r.OverallScore, &r.Trend, &r.RiskLevel, &r.Flags, &r.RecordedAt,
	)
	if err != nil {
		return insights.ScoreRecord{}, err
	}
	return toScoreRecord(r)
}

func toScoreRecord(r models.ScoreRecordRow) (insights.ScoreRecord, error) {
	ts, err := parseTime(r.RecordedAt)
	if err != nil {
		return insights.ScoreRecord{}, err
	}
	flags := []string{}
	if r.Flags != "" {
		if err := json.Unmarshal([]byte(r.Flags), &flags); err != nil {
			return insights.ScoreRecord{}, fmt.Errorf("decode flags of %s: %w", r.ID, err)
		}
	}
	return insights.ScoreRecord{
		ID:         r.ID,
		WorkerID:   r.WorkerID,
		CustomerID: r.CustomerID,
		AgencyID:   r.AgencyID,
		Department: r.Department,
		Location:   r.Location,
		Supervisor: r.Supervisor,
		Team:       r.Team,
		Dimensions: insights.DimensionSet{
			WorkEngagement:      r.WorkEngagement,
			CareerAlignment:     r.CareerAlignment,
			ManagerRelationship: r.ManagerRelationship,
			PersonalWellbeing:   r.PersonalWellbeing,
			JobMobility:         r.JobMobility,
		},
		OverallScore: r.OverallScore,
		Trend:        insights.Trend(r.Trend),
		RiskLevel:    insights.RiskLevel(r.RiskLevel),
		Flags:        flags,
		Timestamp:    ts,
	}, nil
}

func nonNilFlags(flags []string) []string {
	if flags == nil {
		return []string{}
	}
	return flags
}
