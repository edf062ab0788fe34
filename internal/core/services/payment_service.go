package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/srgjo27/parking_lot/internal/core/domain"
	"github.com/srgjo27/parking_lot/internal/core/ports"
)

// PaymentService charges the amount owed through the external gateway and
// records the payment on the ticket. A gateway failure leaves the ticket
// untouched.
type PaymentService struct {
	gateway    ports.PaymentGateway
	calculator *PriceCalculator
	store      ports.TicketStore
	clock      ports.Clock
}

func NewPaymentService(gateway ports.PaymentGateway, calculator *PriceCalculator, store ports.TicketStore, clock ports.Clock) *PaymentService {
	return &PaymentService{
		gateway:    gateway,
		calculator: calculator,
		store:      store,
		clock:      clock,
	}
}

func (s *PaymentService) Pay(ctx context.Context, ticket *domain.Ticket) error {
	now := s.clock.Now()

	if err := s.gateway.Charge(ctx, s.calculator.Calculate(ticket, now)); err != nil {
		return &domain.ExternalError{Op: "failed to process payment", Err: err}
	}

	if err := ticket.Pay(now); err != nil {
		return err
	}

	if _, err := s.store.Save(ctx, ticket); err != nil {
		return &domain.ExternalError{Op: "failed to save ticket", Err: err}
	}

	return nil
}

// AmountDue quotes what the ticket owes right now without charging anything.
func (s *PaymentService) AmountDue(ticket *domain.Ticket) decimal.Decimal {
	return s.calculator.Calculate(ticket, s.clock.Now())
}
