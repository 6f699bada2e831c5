// Package itemtest provides an in-memory item.Repository for tests.
package itemtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Mukungiisaac/Sakeja/internal/item"
)

type Repository struct {
	mu     sync.Mutex
	nextID int
	items  map[int]item.Item
}

var _ item.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{nextID: 1, items: make(map[int]item.Item)}
}

func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *Repository) Create(ctx context.Context, it *item.Item) (*item.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it.ID = r.nextID
	r.nextID++
	now := time.Now()
	it.CreatedAt, it.UpdatedAt = now, now
	r.items[it.ID] = *it
	stored := *it
	return &stored, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*item.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, item.ErrItemNotFound
	}
	return &it, nil
}

func (r *Repository) List(ctx context.Context) ([]item.Item, error) {
	return r.filter(func(item.Item) bool { return true }), nil
}

func (r *Repository) ListBySeller(ctx context.Context, sellerID int) ([]item.Item, error) {
	return r.filter(func(it item.Item) bool { return it.SellerID == sellerID }), nil
}

func (r *Repository) ListPhotosBySeller(ctx context.Context, sellerID int) ([]string, error) {
	var keys []string
	for _, it := range r.filter(func(it item.Item) bool { return it.SellerID == sellerID }) {
		if it.Photo != "" {
			keys = append(keys, it.Photo)
		}
	}
	return keys, nil
}

func (r *Repository) Update(ctx context.Context, it *item.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[it.ID]; !ok {
		return item.ErrItemNotFound
	}
	it.UpdatedAt = time.Now()
	r.items[it.ID] = *it
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return item.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

// DeleteBySeller mimics the ON DELETE CASCADE from users.
func (r *Repository) DeleteBySeller(sellerID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, it := range r.items {
		if it.SellerID == sellerID {
			delete(r.items, id)
		}
	}
}

func (r *Repository) filter(keep func(item.Item) bool) []item.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []item.Item
	for _, it := range r.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
