package item

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
	Create(ctx context.Context, actor *user.User, in Input, upload *photo.Upload) (*Item, error)
	Update(ctx context.Context, actor *user.User, id int, in Input, upload *photo.Upload) (*Item, error)
	Delete(ctx context.Context, actor *user.User, id int) error
	Get(ctx context.Context, id int) (*Item, error)
	List(ctx context.Context) ([]Item, error)
	ListBySeller(ctx context.Context, sellerID int) ([]Item, error)
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

func (s *service) Create(ctx context.Context, actor *user.User, in Input, upload *photo.Upload) (*Item, error) {
	if err := access.CanPublish(actor, user.RoleSeller).Err(); err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, access.Denied(access.MsgPhotoRequired)
	}

	key, err := s.photos.Save(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("save photo: %w", err)
	}

	it := &Item{SellerID: actor.ID, Photo: key}
	in.apply(it)

	created, err := s.repo.Create(ctx, it)
	if err != nil {
		photo.Discard(ctx, s.photos, s.logger, key)
		return nil, err
	}

	s.metrics.RecordListingPosted(ctx, "item")
	s.logger.InfoContext(ctx, "item posted", "item_id", created.ID, "seller_id", actor.ID)
	return created, nil
}

func (s *service) Update(ctx context.Context, actor *user.User, id int, in Input, upload *photo.Upload) (*Item, error) {
	if err := access.RequireRole(actor, user.RoleSeller).Err(); err != nil {
		return nil, err
	}

	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwner(actor, it.SellerID, access.MsgNotOwner).Err(); err != nil {
		return nil, err
	}

	oldPhoto := it.Photo
	if upload != nil {
		key, err := s.photos.Save(ctx, upload)
		if err != nil {
			return nil, fmt.Errorf("save photo: %w", err)
		}
		it.Photo = key
	}
	in.apply(it)

	if err := s.repo.Update(ctx, it); err != nil {
		if it.Photo != oldPhoto {
			photo.Discard(ctx, s.photos, s.logger, it.Photo)
		}
		return nil, err
	}
	if it.Photo != oldPhoto {
		photo.Discard(ctx, s.photos, s.logger, oldPhoto)
	}

	s.logger.InfoContext(ctx, "item updated", "item_id", it.ID)
	return it, nil
}

func (s *service) Delete(ctx context.Context, actor *user.User, id int) error {
	if err := access.RequireRole(actor, user.RoleSeller).Err(); err != nil {
		return err
	}

	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := access.RequireOwner(actor, it.SellerID, access.MsgNotOwnerDelete).Err(); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	photo.Discard(ctx, s.photos, s.logger, it.Photo)

	s.logger.InfoContext(ctx, "item deleted", "item_id", id)
	return nil
}

func (s *service) Get(ctx context.Context, id int) (*Item, error) {
	if id <= 0 {
		return nil, ErrItemNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx)
}

func (s *service) ListBySeller(ctx context.Context, sellerID int) ([]Item, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}
