package services

import (
	"context"

	"github.com/srgjo27/parking_lot/internal/core/domain"
	"github.com/srgjo27/parking_lot/internal/core/ports"
)

// ExemptionService grants fee waivers, either for a validated purchase
// receipt or for an employee plate.
type ExemptionService struct {
	store     ports.TicketStore
	employees ports.EmployeeRegistry
	receipts  ports.ReceiptValidator
}

func NewExemptionService(store ports.TicketStore, employees ports.EmployeeRegistry, receipts ports.ReceiptValidator) *ExemptionService {
	return &ExemptionService{
		store:     store,
		employees: employees,
		receipts:  receipts,
	}
}

func (s *ExemptionService) ExemptByReceipt(ctx context.Context, ticket *domain.Ticket, token string) error {
	valid, err := s.receipts.Validate(ctx, token)
	if err != nil {
		return &domain.ExternalError{Op: "failed to validate receipt", Err: err}
	}

	if !valid {
		return &domain.ValidationError{Msg: "invalid receipt"}
	}

	return s.exempt(ctx, ticket, domain.TicketExemptReceipt)
}

func (s *ExemptionService) ExemptEmployee(ctx context.Context, ticket *domain.Ticket) error {
	employee, err := s.employees.IsEmployee(ctx, ticket.Vehicle.Plate)
	if err != nil {
		return &domain.ExternalError{Op: "failed to check employee registry", Err: err}
	}

	if !employee {
		return &domain.ValidationError{Msg: "plate does not belong to an employee"}
	}

	return s.exempt(ctx, ticket, domain.TicketExemptEmployee)
}

func (s *ExemptionService) exempt(ctx context.Context, ticket *domain.Ticket, kind domain.TicketStatus) error {
	if err := ticket.Exempt(kind); err != nil {
		return err
	}

	if _, err := s.store.Save(ctx, ticket); err != nil {
		return &domain.ExternalError{Op: "failed to save ticket", Err: err}
	}

	return nil
}
