// Package usertest provides an in-memory user.Repository for tests.
package usertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Mukungiisaac/Sakeja/internal/user"
)

type Repository struct {
	mu     sync.Mutex
	nextID int
	users  map[int]user.User

	// Deleted records the ids passed to Delete, in order.
	Deleted []int
}

var _ user.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{nextID: 1, users: make(map[int]user.User)}
}

// Add stores u as-is, assigning an id, and returns the stored copy.
func (r *Repository) Add(u user.User) *user.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.nextID
	r.nextID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.users[u.ID] = u
	return &u
}

func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *Repository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	stored := r.Add(*u)
	*u = *stored
	return stored, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *Repository) ListManaged(ctx context.Context, approved bool) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []user.User
	for _, u := range r.users {
		if u.Role.NeedsApproval() && u.IsApproved == approved {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) SetApproved(ctx context.Context, id int, approved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.IsApproved = approved
	r.users[id] = u
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.users, id)
	r.Deleted = append(r.Deleted, id)
	return nil
}
