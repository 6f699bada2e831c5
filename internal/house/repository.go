package house

import (
	"context"
	"fmt"
	"time"

	"github.com/Mukungiisaac/Sakeja/internal/db"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"

	"github.com/uptrace/bun"
)

var ErrHouseNotFound = fmt.Errorf("house %w", db.ErrNotFound)

type Repository interface {
	Create(ctx context.Context, h *House) (*House, error)
	GetByID(ctx context.Context, id int) (*House, error)
	List(ctx context.Context) ([]House, error)
	ListByLandlord(ctx context.Context, landlordID int) ([]House, error)
	// ListPhotosByLandlord returns the photo keys of every house the landlord owns.
	ListPhotosByLandlord(ctx context.Context, landlordID int) ([]string, error)
	Update(ctx context.Context, h *House) error
	Delete(ctx context.Context, id int) error
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

func (r *repository) Create(ctx context.Context, h *House) (*House, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(h).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "houses", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return h, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*House, error) {
	start := time.Now()
	h := new(House)
	err := r.db.NewSelect().Model(h).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "houses", time.Since(start), err)

	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrHouseNotFound
		}
		return nil, err
	}
	return h, nil
}

func (r *repository) List(ctx context.Context) ([]House, error) {
	start := time.Now()
	var houses []House
	err := r.db.NewSelect().
		Model(&houses).
		Order("created_at DESC", "id DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "houses", time.Since(start), err)

	return houses, err
}

func (r *repository) ListByLandlord(ctx context.Context, landlordID int) ([]House, error) {
	start := time.Now()
	var houses []House
	err := r.db.NewSelect().
		Model(&houses).
		Where("landlord_id = ?", landlordID).
		Order("created_at DESC", "id DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "houses", time.Since(start), err)

	return houses, err
}

func (r *repository) ListPhotosByLandlord(ctx context.Context, landlordID int) ([]string, error) {
	start := time.Now()
	var keys []string
	err := r.db.NewSelect().
		Model((*House)(nil)).
		Column("photo").
		Where("landlord_id = ?", landlordID).
		Where("photo <> ''").
		Scan(ctx, &keys)

	r.metrics.Database.RecordQuery(ctx, "select", "houses", time.Since(start), err)

	return keys, err
}

func (r *repository) Update(ctx context.Context, h *House) error {
	start := time.Now()
	h.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(h).
		Column("title", "location", "rent", "distance", "deposit", "house_type",
			"water", "wifi", "photo", "contact_number", "updated_at").
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "houses", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrHouseNotFound
	}
	return nil
}

// Delete removes the house; its bookings go with it through ON DELETE CASCADE.
func (r *repository) Delete(ctx context.Context, id int) error {
	start := time.Now()
	result, err := r.db.NewDelete().Model((*House)(nil)).Where("id = ?", id).Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "houses", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrHouseNotFound
	}
	return nil
}
