package grpc

import (
	"time"

	"github.com/godilite/jsi-server/internal/insights"
	"github.com/godilite/jsi-server/internal/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Request payloads of the jsi.v1.Insights methods. Dates are RFC3339.

type ScopeRequest struct {
	CustomerID  string `json:"customerId"`
	Department  string `json:"department,omitempty"`
	Location    string `json:"location,omitempty"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	Granularity string `json:"granularity,omitempty"`
}

type AnomalyRequest struct {
	CustomerID   string `json:"customerId"`
	AgencyID     string `json:"agencyId,omitempty"`
	Department   string `json:"department,omitempty"`
	Location     string `json:"location,omitempty"`
	LookbackDays int    `json:"lookbackDays,omitempty"`
}

type BenchmarkRequest struct {
	CustomerID string `json:"customerId"`
	Start      string `json:"start,omitempty"`
	End        string `json:"end,omitempty"`
}

type ExportRequest struct {
	ScopeRequest
	Format     string `json:"format,omitempty"`
	ExportType string `json:"exportType,omitempty"`
}

type ExportResponse struct {
	Format     insights.ExportFormat `json:"format"`
	ExportType insights.ExportType   `json:"exportType"`
	Content    string                `json:"content"`
}

type TopicsRequest struct {
	CustomerID string `json:"customerId"`
	AgencyID   string `json:"agencyId,omitempty"`
	Strategy   string `json:"strategy,omitempty"`
}

type ConfigRequest struct {
	CustomerID string `json:"customerId"`
	AgencyID   string `json:"agencyId,omitempty"`
}

type UpdateScoringConfigRequest struct {
	ConfigRequest
	Config insights.ScoringConfigOverride `json:"config"`
}

type UpdateMessagingConfigRequest struct {
	ConfigRequest
	Config insights.MessagingConfigOverride `json:"config"`
}

type AddTopicRequest struct {
	ConfigRequest
	Topic insights.MessagingTopic `json:"topic"`
}

func parseTime(field, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s must be an RFC3339 timestamp", field)
	}
	return t.UTC(), nil
}

func parseRange(start, end string) (insights.DateRange, error) {
	s, err := parseTime("start", start)
	if err != nil {
		return insights.DateRange{}, err
	}
	e, err := parseTime("end", end)
	if err != nil {
		return insights.DateRange{}, err
	}
	if !s.IsZero() && !e.IsZero() && e.Before(s) {
		return insights.DateRange{}, status.Error(codes.InvalidArgument, "end date must be after start date")
	}
	return insights.DateRange{Start: s, End: e}, nil
}

func requireCustomer(customerID string) error {
	if customerID == "" {
		return status.Error(codes.InvalidArgument, "customerId is required")
	}
	return nil
}

func (r ScopeRequest) scope() (service.Scope, error) {
	if err := requireCustomer(r.CustomerID); err != nil {
		return service.Scope{}, err
	}
	dr, err := parseRange(r.Start, r.End)
	if err != nil {
		return service.Scope{}, err
	}
	return service.Scope{
		CustomerID: r.CustomerID,
		Department: r.Department,
		Location:   r.Location,
		Range:      dr,
	}, nil
}
