package insights

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

type ExportType string

const (
	ExportDetailed ExportType = "detailed"
	ExportSummary  ExportType = "summary"
)

var detailedHeader = []string{
	"Worker ID", "Customer ID", "Department", "Location", "Timestamp",
	"Overall Score", "Work Engagement", "Career Alignment", "Manager Relationship",
	"Personal Wellbeing", "Job Mobility", "Risk Level", "Trend", "Flags",
	"Change vs Baseline (%)",
}

// DetailedRow is one exported score record.
type DetailedRow struct {
	WorkerID           string       `json:"workerId"`
	CustomerID         string       `json:"customerId"`
	Department         string       `json:"department"`
	Location           string       `json:"location"`
	Timestamp          time.Time    `json:"timestamp"`
	OverallScore       int          `json:"overallScore"`
	Dimensions         DimensionSet `json:"dimensions"`
	RiskLevel          RiskLevel    `json:"riskLevel"`
	Trend              Trend        `json:"trend"`
	Flags              []string     `json:"flags"`
	ChangeFromBaseline *float64     `json:"changeFromBaseline"`
}

// SummaryMetric is one named value of a summary export.
type SummaryMetric struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

// ExportReport formats records as CSV or JSON. CSV fields containing a
// comma are wrapped in double quotes; embedded quotes are left as is.
func ExportReport(records []ScoreRecord, baseline *Baseline, format ExportFormat, exportType ExportType) (string, error) {
	if format != FormatCSV && format != FormatJSON {
		return "", fmt.Errorf("%w: format %q", ErrUnsupportedFormat, format)
	}
	if exportType != ExportDetailed && exportType != ExportSummary {
		return "", fmt.Errorf("%w: export type %q", ErrUnsupportedFormat, exportType)
	}

	if exportType == ExportSummary {
		metrics := SummaryMetrics(records, baseline)
		if format == FormatJSON {
			return marshalReport(metrics)
		}
		lines := []string{"Metric,Value"}
		for _, m := range metrics {
			lines = append(lines, csvField(m.Metric)+","+formatNumber(m.Value))
		}
		return strings.Join(lines, "\n"), nil
	}

	rows := DetailedRows(records, baseline)
	if format == FormatJSON {
		return marshalReport(rows)
	}
	lines := []string{strings.Join(detailedHeader, ",")}
	for _, r := range rows {
		change := ""
		if r.ChangeFromBaseline != nil {
			change = formatNumber(*r.ChangeFromBaseline)
		}
		fields := []string{
			csvField(r.WorkerID),
			csvField(r.CustomerID),
			csvField(r.Department),
			csvField(r.Location),
			r.Timestamp.UTC().Format(time.RFC3339),
			strconv.Itoa(r.OverallScore),
			formatNumber(r.Dimensions.WorkEngagement),
			formatNumber(r.Dimensions.CareerAlignment),
			formatNumber(r.Dimensions.ManagerRelationship),
			formatNumber(r.Dimensions.PersonalWellbeing),
			formatNumber(r.Dimensions.JobMobility),
			string(r.RiskLevel),
			string(r.Trend),
			csvField(strings.Join(r.Flags, ", ")),
			change,
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n"), nil
}

// DetailedRows keeps input order. Without a baseline the change column is
// nil.
func DetailedRows(records []ScoreRecord, baseline *Baseline) []DetailedRow {
	rows := make([]DetailedRow, 0, len(records))
	for _, r := range records {
		row := DetailedRow{
			WorkerID:     r.WorkerID,
			CustomerID:   r.CustomerID,
			Department:   r.Department,
			Location:     r.Location,
			Timestamp:    r.Timestamp,
			OverallScore: r.OverallScore,
			Dimensions:   r.Dimensions,
			RiskLevel:    r.RiskLevel,
			Trend:        r.Trend,
			Flags:        r.Flags,
		}
		if row.Flags == nil {
			row.Flags = []string{}
		}
		if baseline != nil {
			change := PercentChange(float64(r.OverallScore), float64(baseline.OverallScore))
			row.ChangeFromBaseline = &change
		}
		rows = append(rows, row)
	}
	return rows
}

// SummaryMetrics lists the named metrics of a summary export in a fixed
// order. Baseline metrics are only present when a baseline is given.
func SummaryMetrics(records []ScoreRecord, baseline *Baseline) []SummaryMetric {
	s := Summarize(records)
	metrics := []SummaryMetric{
		{Metric: "Total Records", Value: float64(s.TotalRecords)},
		{Metric: "Unique Workers", Value: float64(s.UniqueWorkers)},
		{Metric: "Average Overall Score", Value: s.AverageScore},
		{Metric: "Average Work Engagement", Value: s.DimensionAverages.WorkEngagement},
		{Metric: "Average Career Alignment", Value: s.DimensionAverages.CareerAlignment},
		{Metric: "Average Manager Relationship", Value: s.DimensionAverages.ManagerRelationship},
		{Metric: "Average Personal Wellbeing", Value: s.DimensionAverages.PersonalWellbeing},
		{Metric: "Average Job Mobility", Value: s.DimensionAverages.JobMobility},
		{Metric: "High Risk Records", Value: float64(s.RiskDistribution[RiskHigh])},
		{Metric: "Medium Risk Records", Value: float64(s.RiskDistribution[RiskMedium])},
		{Metric: "Low Risk Records", Value: float64(s.RiskDistribution[RiskLow])},
	}
	if baseline != nil {
		metrics = append(metrics,
			SummaryMetric{Metric: "Baseline Overall Score", Value: float64(baseline.OverallScore)},
			SummaryMetric{Metric: "Change vs Baseline (%)", Value: PercentChange(s.AverageScore, float64(baseline.OverallScore))},
		)
	}
	return metrics
}

func csvField(v string) string {
	if strings.Contains(v, ",") {
		return `"` + v + `"`
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func marshalReport(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(b), nil
}
