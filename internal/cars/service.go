package cars

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service interface defines the contract for car availability queries
type Service interface {
	GetCar(ctx context.Context, id uuid.UUID) (*Car, error)
	GetReservedWindows(ctx context.Context, carID uuid.UUID) ([]Availability, error)
	IsWindowFree(ctx context.Context, carID uuid.UUID, start, end time.Time) (bool, error)
}

type service struct {
	repo Repository
}

// NewService creates a new car service instance
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetCar(ctx context.Context, id uuid.UUID) (*Car, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetReservedWindows(ctx context.Context, carID uuid.UUID) ([]Availability, error) {
	return s.repo.GetAvailability(ctx, carID)
}

// IsWindowFree reports whether no reserved window intersects (start, end).
// Booking creation does not reject on overlap; this is a read-side check for
// callers that want to surface clashes before collecting payment.
func (s *service) IsWindowFree(ctx context.Context, carID uuid.UUID, start, end time.Time) (bool, error) {
	overlap, err := s.repo.HasOverlap(ctx, carID, start, end)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}
