package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/parking_lot/internal/core/domain"
)

// TicketStore owns persistence and cross-caller consistency for tickets.
// FindByID and FindOpenByPlate return domain.ErrTicketNotFound (possibly
// wrapped) when no matching ticket exists.
type TicketStore interface {
	Save(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	FindOpenByPlate(ctx context.Context, plate string) (*domain.Ticket, error)
	Delete(ctx context.Context, ticket *domain.Ticket) error
	CountOpen(ctx context.Context) (int, error)
}

type PaymentGateway interface {
	Charge(ctx context.Context, amount decimal.Decimal) error
}

type ReceiptValidator interface {
	Validate(ctx context.Context, token string) (bool, error)
}

type EmployeeRegistry interface {
	IsEmployee(ctx context.Context, plate string) (bool, error)
}

// Clock is injected everywhere the core reads the current time, so every
// check within one operation observes the same "now" and tests can pin it.
type Clock interface {
	Now() time.Time
}
