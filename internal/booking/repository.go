package booking

import (
	"context"
	"time"

	"github.com/Mukungiisaac/Sakeja/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) (*Booking, error)
	// ListForLandlord returns bookings on the landlord's houses, house attached.
	ListForLandlord(ctx context.Context, landlordID int) ([]Booking, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(b).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "bookings", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repository) ListForLandlord(ctx context.Context, landlordID int) ([]Booking, error) {
	start := time.Now()
	var bookings []Booking
	err := r.db.NewSelect().
		Model(&bookings).
		Relation("House").
		Where(`"house"."landlord_id" = ?`, landlordID).
		Order("b.created_at DESC", "b.id DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "bookings", time.Since(start), err)

	return bookings, err
}
