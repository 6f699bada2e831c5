package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics groups the application counters and the database collectors.
// Every Record* method is safe on a nil receiver or a mock.
type Metrics struct {
	Database  *DatabaseMetrics
	Messaging *MessagingMetrics

	usersRegistered  metric.Int64Counter
	logins           metric.Int64Counter
	accountDecisions metric.Int64Counter
	listingsPosted   metric.Int64Counter
	bookingsCreated  metric.Int64Counter
	accessDenied     metric.Int64Counter
}

func New(serviceName string) (*Metrics, error) {
	meter := otel.Meter(serviceName)
	m := &Metrics{}

	var err error

	m.Database, err = NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	m.Messaging, err = NewMessagingMetrics(meter)
	if err != nil {
		return nil, err
	}

	m.usersRegistered, err = meter.Int64Counter(
		"sakeja.users.registered",
		metric.WithDescription("Total number of accounts registered"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	m.logins, err = meter.Int64Counter(
		"sakeja.users.logins",
		metric.WithDescription("Total number of login attempts"),
		metric.WithUnit("{login}"),
	)
	if err != nil {
		return nil, err
	}

	m.accountDecisions, err = meter.Int64Counter(
		"sakeja.admin.decisions",
		metric.WithDescription("Total number of admin approve/reject/revoke decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}

	m.listingsPosted, err = meter.Int64Counter(
		"sakeja.listings.posted",
		metric.WithDescription("Total number of houses and items posted"),
		metric.WithUnit("{listing}"),
	)
	if err != nil {
		return nil, err
	}

	m.bookingsCreated, err = meter.Int64Counter(
		"sakeja.bookings.created",
		metric.WithDescription("Total number of booking requests"),
		metric.WithUnit("{booking}"),
	)
	if err != nil {
		return nil, err
	}

	m.accessDenied, err = meter.Int64Counter(
		"sakeja.access.denied",
		metric.WithDescription("Total number of soft-denied requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordRegistration(ctx context.Context, role string) {
	if m != nil && m.usersRegistered != nil {
		m.usersRegistered.Add(ctx, 1, metric.WithAttributes(attribute.String("role", role)))
	}
}

func (m *Metrics) RecordLogin(ctx context.Context, success bool) {
	if m != nil && m.logins != nil {
		m.logins.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
	}
}

func (m *Metrics) RecordAccountDecision(ctx context.Context, decision string) {
	if m != nil && m.accountDecisions != nil {
		m.accountDecisions.Add(ctx, 1, metric.WithAttributes(attribute.String("decision", decision)))
	}
}

func (m *Metrics) RecordListingPosted(ctx context.Context, kind string) {
	if m != nil && m.listingsPosted != nil {
		m.listingsPosted.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
}

func (m *Metrics) RecordBooking(ctx context.Context) {
	if m != nil && m.bookingsCreated != nil {
		m.bookingsCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordDenied(ctx context.Context, route string) {
	if m != nil && m.accessDenied != nil {
		m.accessDenied.Add(ctx, 1, metric.WithAttributes(attribute.String("route", route)))
	}
}

// NewMock creates a no-op Metrics instance for testing.
func NewMock() *Metrics {
	return &Metrics{Database: &DatabaseMetrics{}, Messaging: &MessagingMetrics{}}
}
