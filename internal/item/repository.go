package item

import (
	"context"
	"fmt"
	"time"

	"github.com/Mukungiisaac/Sakeja/internal/db"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"

	"github.com/uptrace/bun"
)

var ErrItemNotFound = fmt.Errorf("item %w", db.ErrNotFound)

type Repository interface {
	Create(ctx context.Context, it *Item) (*Item, error)
	GetByID(ctx context.Context, id int) (*Item, error)
	List(ctx context.Context) ([]Item, error)
	ListBySeller(ctx context.Context, sellerID int) ([]Item, error)
	ListPhotosBySeller(ctx context.Context, sellerID int) ([]string, error)
	Update(ctx context.Context, it *Item) error
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

func (r *repository) Create(ctx context.Context, it *Item) (*Item, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(it).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "items", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Item, error) {
	start := time.Now()
	it := new(Item)
	err := r.db.NewSelect().Model(it).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "items", time.Since(start), err)

	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return it, nil
}

func (r *repository) List(ctx context.Context) ([]Item, error) {
	start := time.Now()
	var items []Item
	err := r.db.NewSelect().
		Model(&items).
		Order("created_at DESC", "id DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "items", time.Since(start), err)

	return items, err
}

func (r *repository) ListBySeller(ctx context.Context, sellerID int) ([]Item, error) {
	start := time.Now()
	var items []Item
	err := r.db.NewSelect().
		Model(&items).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC", "id DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "items", time.Since(start), err)

	return items, err
}

func (r *repository) ListPhotosBySeller(ctx context.Context, sellerID int) ([]string, error) {
	start := time.Now()
	var keys []string
	err := r.db.NewSelect().
		Model((*Item)(nil)).
		Column("photo").
		Where("seller_id = ?", sellerID).
		Where("photo <> ''").
		Scan(ctx, &keys)

	r.metrics.Database.RecordQuery(ctx, "select", "items", time.Since(start), err)

	return keys, err
}

func (r *repository) Update(ctx context.Context, it *Item) error {
	start := time.Now()
	it.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(it).
		Column("title", "description", "price", "phone", "location", "photo", "updated_at").
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "items", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	start := time.Now()
	result, err := r.db.NewDelete().Model((*Item)(nil)).Where("id = ?", id).Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "items", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}
