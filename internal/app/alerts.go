package app

import (
	"context"
	"fmt"
	"time"

	"github.com/godilite/jsi-server/internal/insights"
	"go.uber.org/zap"
)

type publisher interface {
	Publish(ctx context.Context, channel string, value any) (int64, error)
}

// alertMessage is the pub/sub payload for a score record that needs
// attention.
type alertMessage struct {
	RecordID     string             `json:"recordId"`
	WorkerID     string             `json:"workerId"`
	CustomerID   string             `json:"customerId"`
	AgencyID     string             `json:"agencyId,omitempty"`
	Department   string             `json:"department,omitempty"`
	Location     string             `json:"location,omitempty"`
	OverallScore int                `json:"overallScore"`
	RiskLevel    insights.RiskLevel `json:"riskLevel"`
	Trend        insights.Trend     `json:"trend"`
	Flags        []string           `json:"flags"`
	Timestamp    string             `json:"timestamp"`
}

// redisAlertPublisher fans alerts out on a redis pub/sub channel.
type redisAlertPublisher struct {
	client  publisher
	channel string
	logger  *zap.Logger
}

func newAlertPublisher(client publisher, channel string, logger *zap.Logger) *redisAlertPublisher {
	return &redisAlertPublisher{client: client, channel: channel, logger: logger.Named("alerts")}
}

func (p *redisAlertPublisher) PublishAlert(ctx context.Context, rec insights.ScoreRecord) error {
	msg := alertMessage{
		RecordID:     rec.ID,
		WorkerID:     rec.WorkerID,
		CustomerID:   rec.CustomerID,
		AgencyID:     rec.AgencyID,
		Department:   rec.Department,
		Location:     rec.Location,
		OverallScore: rec.OverallScore,
		RiskLevel:    rec.RiskLevel,
		Trend:        rec.Trend,
		Flags:        rec.Flags,
		Timestamp:    rec.Timestamp.UTC().Format(time.RFC3339),
	}
	receivers, err := p.client.Publish(ctx, p.channel, msg)
	if err != nil {
		return fmt.Errorf("publish alert on %s: %w", p.channel, err)
	}
	if receivers == 0 {
		p.logger.Debug("alert published without subscribers", zap.String("channel", p.channel))
	}
	return nil
}
