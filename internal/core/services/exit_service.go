package services

import (
	"context"
	"time"

	"github.com/srgjo27/parking_lot/internal/core/domain"
	"github.com/srgjo27/parking_lot/internal/core/ports"
)

const (
	// Pending tickets may leave for free within this window after entry.
	pendingGraceMinutes = 15
	// Paid tickets must leave within this window after the payment.
	paymentToleranceMinutes = 15
	// Receipt-exempt tickets must leave within this window after entry,
	// not after the exemption was granted.
	exemptionToleranceMinutes = 120
)

// Operating window for exits, compared on time-of-day only. Both bounds are
// inclusive. Employee-exempt tickets ignore the window.
var (
	lotOpensAt  = 8 * time.Hour
	lotClosesAt = 22 * time.Hour
)

// ExitService decides whether an exit is legal and finalizes the ticket.
// The check order is load-bearing: chronology, then operating hours, then
// tolerance windows, then finalization eligibility. The first failing check
// wins.
type ExitService struct {
	store ports.TicketStore
	clock ports.Clock
}

func NewExitService(store ports.TicketStore, clock ports.Clock) *ExitService {
	return &ExitService{
		store: store,
		clock: clock,
	}
}

// ProcessExit finalizes the ticket and persists it, or reports why the exit
// is refused. The only refusals with a side effect are the two tolerance
// expiries, which persist the expired status before returning
// *domain.ToleranceExpiredError.
func (s *ExitService) ProcessExit(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	now := s.clock.Now()

	if now.Before(ticket.EnteredAt) {
		return nil, &domain.InvalidStateError{Op: "finalized before its entry", Status: ticket.Status}
	}

	if outsideOperatingHours(now) && ticket.Status != domain.TicketExemptEmployee {
		return nil, &domain.InvalidStateError{Op: "finalized outside operating hours", Status: ticket.Status}
	}

	if ticket.Status == domain.TicketPaid {
		if minutesBetween(*ticket.PaidAt, now) > paymentToleranceMinutes {
			return nil, s.expire(ctx, ticket, (*domain.Ticket).ExpirePayment)
		}
	}

	if ticket.Status == domain.TicketExemptReceipt {
		if minutesBetween(ticket.EnteredAt, now) > exemptionToleranceMinutes {
			return nil, s.expire(ctx, ticket, (*domain.Ticket).ExpireExemption)
		}
	}

	if !exitEligible(ticket, now) {
		return nil, &domain.InvalidStateError{Op: "finalized", Status: ticket.Status}
	}

	if err := ticket.Finalize(now); err != nil {
		return nil, err
	}

	stored, err := s.store.Save(ctx, ticket)
	if err != nil {
		return nil, &domain.ExternalError{Op: "failed to save ticket", Err: err}
	}

	return stored, nil
}

// expire applies a tolerance-expiry transition, persists it, and builds the
// error handed back to the caller.
func (s *ExitService) expire(ctx context.Context, ticket *domain.Ticket, transition func(*domain.Ticket) error) error {
	if err := transition(ticket); err != nil {
		return err
	}

	if _, err := s.store.Save(ctx, ticket); err != nil {
		return &domain.ExternalError{Op: "failed to save ticket", Err: err}
	}

	return &domain.ToleranceExpiredError{Op: "finalized", Status: ticket.Status}
}

// exitEligible reports whether the ticket may finalize now: paid or exempt
// tickets that survived their tolerance checks, or a pending ticket still
// inside the free grace period.
func exitEligible(ticket *domain.Ticket, now time.Time) bool {
	switch ticket.Status {
	case domain.TicketPaid, domain.TicketExemptReceipt, domain.TicketExemptEmployee:
		return true
	case domain.TicketPending:
		return minutesBetween(ticket.EnteredAt, now) < pendingGraceMinutes
	default:
		return false
	}
}

// minutesBetween truncates toward zero, so 15m59s still counts as 15.
func minutesBetween(from, to time.Time) int64 {
	return int64(to.Sub(from) / time.Minute)
}

func outsideOperatingHours(t time.Time) bool {
	tod := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second

	return tod < lotOpensAt || tod > lotClosesAt
}
