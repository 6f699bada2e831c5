package house

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Mukungiisaac/Sakeja/internal/access"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"
	"github.com/Mukungiisaac/Sakeja/internal/photo"
	"github.com/Mukungiisaac/Sakeja/internal/user"
)

type Service interface {
	Create(ctx context.Context, actor *user.User, in Input, upload *photo.Upload) (*House, error)
	Update(ctx context.Context, actor *user.User, id int, in Input, upload *photo.Upload) (*House, error)
	Delete(ctx context.Context, actor *user.User, id int) error
	Get(ctx context.Context, id int) (*House, error)
	List(ctx context.Context) ([]House, error)
	ListByLandlord(ctx context.Context, landlordID int) ([]House, error)
}

type service struct {
	repo    Repository
	photos  photo.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(repo Repository, photos photo.Store, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		repo:    repo,
		photos:  photos,
		metrics: m,
		logger:  logger,
	}
}

// Create publishes a house for an approved landlord. A photo is mandatory.
func (s *service) Create(ctx context.Context, actor *user.User, in Input, upload *photo.Upload) (*House, error) {
	if err := access.CanPublish(actor, user.RoleLandlord).Err(); err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, access.Denied(access.MsgPhotoRequired)
	}

	key, err := s.photos.Save(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("save photo: %w", err)
	}

	h := &House{LandlordID: actor.ID, Photo: key}
	in.apply(h)

	created, err := s.repo.Create(ctx, h)
	if err != nil {
		photo.Discard(ctx, s.photos, s.logger, key)
		return nil, err
	}

	s.metrics.RecordListingPosted(ctx, "house")
	s.logger.InfoContext(ctx, "house posted", "house_id", created.ID, "landlord_id", actor.ID)
	return created, nil
}

// Update edits a house the actor owns. Approval is not required, so a revoked
// landlord can still maintain existing listings. Without a new upload the
// current photo is kept.
func (s *service) Update(ctx context.Context, actor *user.User, id int, in Input, upload *photo.Upload) (*House, error) {
	if err := access.RequireRole(actor, user.RoleLandlord).Err(); err != nil {
		return nil, err
	}

	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwner(actor, h.LandlordID, access.MsgNotOwner).Err(); err != nil {
		return nil, err
	}

	oldPhoto := h.Photo
	if upload != nil {
		key, err := s.photos.Save(ctx, upload)
		if err != nil {
			return nil, fmt.Errorf("save photo: %w", err)
		}
		h.Photo = key
	}
	in.apply(h)

	if err := s.repo.Update(ctx, h); err != nil {
		if h.Photo != oldPhoto {
			photo.Discard(ctx, s.photos, s.logger, h.Photo)
		}
		return nil, err
	}
	if h.Photo != oldPhoto {
		photo.Discard(ctx, s.photos, s.logger, oldPhoto)
	}

	s.logger.InfoContext(ctx, "house updated", "house_id", h.ID)
	return h, nil
}

func (s *service) Delete(ctx context.Context, actor *user.User, id int) error {
	if err := access.RequireRole(actor, user.RoleLandlord).Err(); err != nil {
		return err
	}

	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := access.RequireOwner(actor, h.LandlordID, access.MsgNotOwnerDelete).Err(); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	photo.Discard(ctx, s.photos, s.logger, h.Photo)

	s.logger.InfoContext(ctx, "house deleted", "house_id", id)
	return nil
}

func (s *service) Get(ctx context.Context, id int) (*House, error) {
	if id <= 0 {
		return nil, ErrHouseNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]House, error) {
	return s.repo.List(ctx)
}

func (s *service) ListByLandlord(ctx context.Context, landlordID int) ([]House, error) {
	return s.repo.ListByLandlord(ctx, landlordID)
}
