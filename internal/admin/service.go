// Package admin holds the account decisions an admin takes on landlords and sellers.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mukungiisaac/Sakeja/internal/access"
	"github.com/Mukungiisaac/Sakeja/internal/events"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"
	"github.com/Mukungiisaac/Sakeja/internal/photo"
	"github.com/Mukungiisaac/Sakeja/internal/user"
)

// HousePhotos lists the photo keys of a landlord's houses.
type HousePhotos interface {
	ListPhotosByLandlord(ctx context.Context, landlordID int) ([]string, error)
}

// ItemPhotos lists the photo keys of a seller's items.
type ItemPhotos interface {
	ListPhotosBySeller(ctx context.Context, sellerID int) ([]string, error)
}

// SessionRevoker logs a user out everywhere.
type SessionRevoker interface {
	RevokeSessions(ctx context.Context, userID int) error
}

// Overview is what the admin dashboard shows.
type Overview struct {
	Pending  []user.User
	Approved []user.User
}

type Service interface {
	Overview(ctx context.Context, actor *user.User) (*Overview, error)
	// Approve is idempotent.
	Approve(ctx context.Context, actor *user.User, userID int) (*user.User, error)
	// Reject deletes the account together with its listings, their bookings,
	// its stored photos and its sessions.
	Reject(ctx context.Context, actor *user.User, userID int) (*user.User, error)
	// Revoke withdraws approval. Existing listings stay published.
	Revoke(ctx context.Context, actor *user.User, userID int) (*user.User, error)
}

type Deps struct {
	Users     user.Repository
	Houses    HousePhotos
	Items     ItemPhotos
	Sessions  SessionRevoker
	Photos    photo.Store
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

type service struct {
	Deps
}

func NewService(deps Deps) Service {
	if deps.Publisher == nil {
		deps.Publisher = events.NewNop()
	}
	return &service{Deps: deps}
}

func (s *service) Overview(ctx context.Context, actor *user.User) (*Overview, error) {
	if err := access.RequireRole(actor, user.RoleAdmin).Err(); err != nil {
		return nil, err
	}

	pending, err := s.Users.ListManaged(ctx, false)
	if err != nil {
		return nil, err
	}
	approved, err := s.Users.ListManaged(ctx, true)
	if err != nil {
		return nil, err
	}
	return &Overview{Pending: pending, Approved: approved}, nil
}

func (s *service) Approve(ctx context.Context, actor *user.User, userID int) (*user.User, error) {
	target, err := s.target(ctx, actor, userID)
	if err != nil {
		return nil, err
	}

	if !target.IsApproved {
		if err := s.Users.SetApproved(ctx, target.ID, true); err != nil {
			return nil, err
		}
		target.IsApproved = true
	}

	s.record(ctx, actor, target, events.ActionApproved)
	return target, nil
}

func (s *service) Revoke(ctx context.Context, actor *user.User, userID int) (*user.User, error) {
	target, err := s.target(ctx, actor, userID)
	if err != nil {
		return nil, err
	}

	if target.IsApproved {
		if err := s.Users.SetApproved(ctx, target.ID, false); err != nil {
			return nil, err
		}
		target.IsApproved = false
	}

	s.record(ctx, actor, target, events.ActionRevoked)
	return target, nil
}

func (s *service) Reject(ctx context.Context, actor *user.User, userID int) (*user.User, error) {
	target, err := s.target(ctx, actor, userID)
	if err != nil {
		return nil, err
	}

	// Collect keys first: the rows referencing them vanish with the user.
	keys, err := s.photoKeys(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}

	if err := s.Users.Delete(ctx, target.ID); err != nil {
		return nil, err
	}

	if err := s.Sessions.RevokeSessions(ctx, target.ID); err != nil {
		s.Logger.ErrorContext(ctx, "failed to revoke sessions of rejected user", "user_id", target.ID, "error", err)
	}
	photo.Discard(ctx, s.Photos, s.Logger, keys...)

	s.record(ctx, actor, target, events.ActionRejected)
	return target, nil
}

// target loads the account an admin acts on and checks both sides of the decision.
func (s *service) target(ctx context.Context, actor *user.User, userID int) (*user.User, error) {
	if err := access.RequireRole(actor, user.RoleAdmin).Err(); err != nil {
		return nil, err
	}

	target, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireManaged(target).Err(); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *service) photoKeys(ctx context.Context, target *user.User) ([]string, error) {
	switch target.Role {
	case user.RoleLandlord:
		return s.Houses.ListPhotosByLandlord(ctx, target.ID)
	case user.RoleSeller:
		return s.Items.ListPhotosBySeller(ctx, target.ID)
	}
	return nil, nil
}

func (s *service) record(ctx context.Context, actor, target *user.User, action events.Action) {
	s.Metrics.RecordAccountDecision(ctx, string(action))
	s.Logger.InfoContext(ctx, "account decision",
		"action", action,
		"user_id", target.ID,
		"role", target.Role,
		"admin_id", actor.ID,
	)

	err := s.Publisher.PublishDecision(ctx, events.AccountDecision{
		Action:    action,
		UserID:    target.ID,
		Email:     target.Email,
		Role:      string(target.Role),
		AdminID:   actor.ID,
		DecidedAt: time.Now().UTC(),
	})
	if err != nil {
		s.Logger.WarnContext(ctx, "failed to publish account decision", "action", action, "error", err)
	}
}
