package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("record not found")

// timeLayout is fixed width so TEXT comparison in SQL orders like time.
const timeLayout = "2006-01-02T15:04:05.000000Z"

type InsightsRepository struct {
	db *sql.DB
}

func NewInsightsRepository(db *sql.DB) *InsightsRepository {
	return &InsightsRepository{db: db}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

type scanner interface {
	Scan(dest ...any) error
}
