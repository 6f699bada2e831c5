// Package housetest provides an in-memory house.Repository for tests.
package housetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Mukungiisaac/Sakeja/internal/house"
)

type Repository struct {
	mu     sync.Mutex
	nextID int
	houses map[int]house.House
}

var _ house.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{nextID: 1, houses: make(map[int]house.House)}
}

func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.houses)
}

func (r *Repository) Create(ctx context.Context, h *house.House) (*house.House, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h.ID = r.nextID
	r.nextID++
	now := time.Now()
	h.CreatedAt, h.UpdatedAt = now, now
	r.houses[h.ID] = *h
	stored := *h
	return &stored, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*house.House, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.houses[id]
	if !ok {
		return nil, house.ErrHouseNotFound
	}
	return &h, nil
}

func (r *Repository) List(ctx context.Context) ([]house.House, error) {
	return r.filter(func(house.House) bool { return true }), nil
}

func (r *Repository) ListByLandlord(ctx context.Context, landlordID int) ([]house.House, error) {
	return r.filter(func(h house.House) bool { return h.LandlordID == landlordID }), nil
}

func (r *Repository) ListPhotosByLandlord(ctx context.Context, landlordID int) ([]string, error) {
	var keys []string
	for _, h := range r.filter(func(h house.House) bool { return h.LandlordID == landlordID }) {
		if h.Photo != "" {
			keys = append(keys, h.Photo)
		}
	}
	return keys, nil
}

func (r *Repository) Update(ctx context.Context, h *house.House) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.houses[h.ID]; !ok {
		return house.ErrHouseNotFound
	}
	h.UpdatedAt = time.Now()
	r.houses[h.ID] = *h
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.houses[id]; !ok {
		return house.ErrHouseNotFound
	}
	delete(r.houses, id)
	return nil
}

// DeleteByLandlord mimics the ON DELETE CASCADE from users.
func (r *Repository) DeleteByLandlord(landlordID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, h := range r.houses {
		if h.LandlordID == landlordID {
			delete(r.houses, id)
		}
	}
}

func (r *Repository) filter(keep func(house.House) bool) []house.House {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []house.House
	for _, h := range r.houses {
		if keep(h) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
