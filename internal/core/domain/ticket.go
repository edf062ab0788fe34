package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketPending                   TicketStatus = "PENDING"
	TicketPaid                      TicketStatus = "PAID"
	TicketExemptReceipt             TicketStatus = "EXEMPT_RECEIPT"
	TicketExemptEmployee            TicketStatus = "EXEMPT_EMPLOYEE"
	TicketPaymentToleranceExpired   TicketStatus = "PAYMENT_TOLERANCE_EXPIRED"
	TicketExemptionToleranceExpired TicketStatus = "EXEMPTION_TOLERANCE_EXPIRED"
	TicketFinalized                 TicketStatus = "FINALIZED"
)

// Ticket records one vehicle's stay from entry to exit. Status only moves
// through the guarded transition methods below; FINALIZED is terminal.
type Ticket struct {
	ID        uuid.UUID
	Vehicle   Vehicle
	EnteredAt time.Time
	PaidAt    *time.Time
	ExitedAt  *time.Time
	Status    TicketStatus
}

func NewTicket(vehicle Vehicle, enteredAt time.Time) *Ticket {
	return &Ticket{
		ID:        uuid.New(),
		Vehicle:   vehicle,
		EnteredAt: enteredAt,
		Status:    TicketPending,
	}
}

func (t *Ticket) IsOpen() bool {
	return t.Status != TicketFinalized
}

// Pay records the payment time and moves the ticket to PAID. Only a PENDING
// ticket can be paid.
func (t *Ticket) Pay(at time.Time) error {
	if t.Status != TicketPending {
		return &InvalidStateError{Op: "paid", Status: t.Status}
	}

	paidAt := at
	t.PaidAt = &paidAt
	t.Status = TicketPaid
	return nil
}

// ExpirePayment marks a PAID ticket whose post-payment tolerance ran out.
func (t *Ticket) ExpirePayment() error {
	if t.Status != TicketPaid {
		return &InvalidStateError{Op: "expired", Status: t.Status}
	}

	t.Status = TicketPaymentToleranceExpired
	return nil
}

// ExpireExemption marks an EXEMPT_RECEIPT ticket whose overall stay limit
// ran out.
func (t *Ticket) ExpireExemption() error {
	if t.Status != TicketExemptReceipt {
		return &InvalidStateError{Op: "expired", Status: t.Status}
	}

	t.Status = TicketExemptionToleranceExpired
	return nil
}

// Exempt grants a fee waiver. The kind must be one of the two exemption
// statuses; that is checked before the state guard, so a bogus kind fails
// even on a FINALIZED ticket.
func (t *Ticket) Exempt(kind TicketStatus) error {
	if kind != TicketExemptReceipt && kind != TicketExemptEmployee {
		return &ValidationError{Msg: fmt.Sprintf("invalid exemption status %s", kind)}
	}

	if t.Status == TicketFinalized {
		return &InvalidStateError{Op: "exempted", Status: t.Status}
	}

	t.Status = kind
	return nil
}

// Finalize records the exit time and closes the ticket. Allowed from any
// status except FINALIZED itself; the exit time never changes afterwards.
func (t *Ticket) Finalize(at time.Time) error {
	if t.Status == TicketFinalized {
		return &InvalidStateError{Op: "finalized", Status: t.Status}
	}

	exitedAt := at
	t.ExitedAt = &exitedAt
	t.Status = TicketFinalized
	return nil
}
