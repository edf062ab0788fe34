package services

import (
	"context"
	"errors"

	"github.com/srgjo27/parking_lot/internal/core/domain"
	"github.com/srgjo27/parking_lot/internal/core/ports"
)

// IssuanceService hands out tickets at the gate. Issuing is idempotent: a
// vehicle already in the lot gets its open ticket back instead of a second
// one.
type IssuanceService struct {
	store ports.TicketStore
	clock ports.Clock
}

func NewIssuanceService(store ports.TicketStore, clock ports.Clock) *IssuanceService {
	return &IssuanceService{
		store: store,
		clock: clock,
	}
}

func (s *IssuanceService) Issue(ctx context.Context, vehicle domain.Vehicle) (*domain.Ticket, error) {
	existing, err := s.store.FindOpenByPlate(ctx, vehicle.Plate)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, domain.ErrTicketNotFound) {
		return nil, &domain.ExternalError{Op: "failed to look up open ticket", Err: err}
	}

	ticket := domain.NewTicket(vehicle, s.clock.Now())

	stored, err := s.store.Save(ctx, ticket)
	if err != nil {
		return nil, &domain.ExternalError{Op: "failed to save ticket", Err: err}
	}

	return stored, nil
}
