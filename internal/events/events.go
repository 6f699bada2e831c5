// Package events publishes admin account decisions for operational consumers.
// Nothing here reaches end users.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Mukungiisaac/Sakeja/internal/metrics"

	"github.com/nats-io/nats.go"
)

type Action string

const (
	ActionApproved Action = "approved"
	ActionRejected Action = "rejected"
	ActionRevoked  Action = "revoked"
)

// AccountDecision is emitted after an admin approves, rejects or revokes an account.
type AccountDecision struct {
	Action    Action    `json:"action"`
	UserID    int       `json:"userId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AdminID   int       `json:"adminId"`
	DecidedAt time.Time `json:"decidedAt"`
}

type Publisher interface {
	PublishDecision(ctx context.Context, event AccountDecision) error
	Close() error
}

type natsPublisher struct {
	conn    *nats.Conn
	subject string
	metrics *metrics.MessagingMetrics
	logger  *slog.Logger
}

func NewNATSPublisher(url, subject string, m *metrics.MessagingMetrics, logger *slog.Logger) (Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("sakeja"))
	if err != nil {
		return nil, err
	}

	logger.Info("NATS publisher initialized", "url", url, "subject", subject)

	return &natsPublisher{
		conn:    nc,
		subject: subject,
		metrics: m,
		logger:  logger,
	}, nil
}

func (p *natsPublisher) PublishDecision(ctx context.Context, event AccountDecision) error {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return err
	}

	start := time.Now()
	err = p.conn.Publish(p.subject, data)
	p.metrics.RecordPublish(ctx, p.subject, time.Since(start), err)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event to NATS", "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "event published", "subject", p.subject, "action", event.Action)
	return nil
}

func (p *natsPublisher) Close() error {
	return p.conn.Drain()
}

type nopPublisher struct{}

// NewNop returns a Publisher that drops every event. Used when NATS is not configured.
func NewNop() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishDecision(context.Context, AccountDecision) error { return nil }

func (nopPublisher) Close() error { return nil }
