package booking

import (
	"context"
	"log/slog"

	"github.com/Mukungiisaac/Sakeja/internal/house"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"
)

// HouseFinder looks up the house being booked.
type HouseFinder interface {
	Get(ctx context.Context, id int) (*house.House, error)
}

type Service interface {
	// Book records a request for houseID. Dates are not validated and repeat
	// bookings are accepted.
	Book(ctx context.Context, houseID int, in Input) (*Booking, error)
	ListForLandlord(ctx context.Context, landlordID int) ([]Booking, error)
}

type service struct {
	repo    Repository
	houses  HouseFinder
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(repo Repository, houses HouseFinder, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		repo:    repo,
		houses:  houses,
		metrics: m,
		logger:  logger,
	}
}

func (s *service) Book(ctx context.Context, houseID int, in Input) (*Booking, error) {
	h, err := s.houses.Get(ctx, houseID)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Booking{
		HouseID:      h.ID,
		StudentName:  in.StudentName,
		StudentEmail: in.StudentEmail,
		StudentPhone: in.StudentPhone,
		IDNumber:     in.IDNumber,
		MoveInDate:   in.MoveInDate,
		Message:      in.Message,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordBooking(ctx)
	s.logger.InfoContext(ctx, "house booked", "booking_id", created.ID, "house_id", h.ID)
	return created, nil
}

func (s *service) ListForLandlord(ctx context.Context, landlordID int) ([]Booking, error) {
	return s.repo.ListForLandlord(ctx, landlordID)
}
