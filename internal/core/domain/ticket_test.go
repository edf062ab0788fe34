package domain_test

import (
	"testing"
	"time"

	"github.com/srgjo27/parking_lot/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

var entryTime = time.Date(2025, 11, 25, 10, 0, 0, 0, time.UTC)

func newTestTicket(t *testing.T) *domain.Ticket {
	t.Helper()

	vehicle, err := domain.NewVehicle("ABC1D23", domain.ClassCar)
	assert.NoError(t, err)

	return domain.NewTicket(vehicle, entryTime)
}

func TestNewTicket_StartsPending(t *testing.T) {
	ticket := newTestTicket(t)

	assert.Equal(t, domain.TicketPending, ticket.Status)
	assert.Equal(t, entryTime, ticket.EnteredAt)
	assert.Nil(t, ticket.PaidAt)
	assert.Nil(t, ticket.ExitedAt)
	assert.NotEqual(t, "", ticket.ID.String())
	assert.True(t, ticket.IsOpen())
}

func TestPay_FromPending(t *testing.T) {
	ticket := newTestTicket(t)
	paymentTime := entryTime.Add(1 * time.Hour)

	err := ticket.Pay(paymentTime)

	assert.NoError(t, err)
	assert.Equal(t, domain.TicketPaid, ticket.Status)
	if assert.NotNil(t, ticket.PaidAt) {
		assert.Equal(t, paymentTime, *ticket.PaidAt)
	}
}

func TestPay_TwiceKeepsFirstPaymentTime(t *testing.T) {
	ticket := newTestTicket(t)
	firstPayment := entryTime.Add(1 * time.Hour)

	assert.NoError(t, ticket.Pay(firstPayment))

	err := ticket.Pay(firstPayment.Add(10 * time.Minute))

	var stateErr *domain.InvalidStateError
	if assert.ErrorAs(t, err, &stateErr) {
		assert.Equal(t, domain.TicketPaid, stateErr.Status)
	}
	assert.Equal(t, firstPayment, *ticket.PaidAt)
}

func TestExpirePayment_OnlyFromPaid(t *testing.T) {
	ticket := newTestTicket(t)

	err := ticket.ExpirePayment()

	var stateErr *domain.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
	assert.Equal(t, domain.TicketPending, ticket.Status)

	assert.NoError(t, ticket.Pay(entryTime.Add(time.Hour)))
	assert.NoError(t, ticket.ExpirePayment())
	assert.Equal(t, domain.TicketPaymentToleranceExpired, ticket.Status)
}

func TestExpireExemption_OnlyFromExemptReceipt(t *testing.T) {
	ticket := newTestTicket(t)

	err := ticket.ExpireExemption()

	var stateErr *domain.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)

	assert.NoError(t, ticket.Exempt(domain.TicketExemptReceipt))
	assert.NoError(t, ticket.ExpireExemption())
	assert.Equal(t, domain.TicketExemptionToleranceExpired, ticket.Status)
}

func TestExempt_InvalidKind(t *testing.T) {
	ticket := newTestTicket(t)

	err := ticket.Exempt(domain.TicketPaid)

	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, domain.TicketPending, ticket.Status)
}

func TestExempt_InvalidKindCheckedBeforeState(t *testing.T) {
	ticket := newTestTicket(t)
	assert.NoError(t, ticket.Finalize(entryTime.Add(5*time.Minute)))

	// A bogus kind fails as a validation error even on a finalized ticket.
	err := ticket.Exempt(domain.TicketFinalized)

	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestExempt_FromAnyOpenStatus(t *testing.T) {
	ticket := newTestTicket(t)
	assert.NoError(t, ticket.Pay(entryTime.Add(time.Hour)))

	err := ticket.Exempt(domain.TicketExemptEmployee)

	assert.NoError(t, err)
	assert.Equal(t, domain.TicketExemptEmployee, ticket.Status)
}

func TestExempt_FinalizedFails(t *testing.T) {
	ticket := newTestTicket(t)
	assert.NoError(t, ticket.Finalize(entryTime.Add(5*time.Minute)))

	err := ticket.Exempt(domain.TicketExemptReceipt)

	var stateErr *domain.InvalidStateError
	if assert.ErrorAs(t, err, &stateErr) {
		assert.Equal(t, domain.TicketFinalized, stateErr.Status)
	}
}

func TestFinalize_IsOneWay(t *testing.T) {
	ticket := newTestTicket(t)
	exitTime := entryTime.Add(30 * time.Minute)

	assert.NoError(t, ticket.Finalize(exitTime))
	assert.Equal(t, domain.TicketFinalized, ticket.Status)
	assert.False(t, ticket.IsOpen())

	err := ticket.Finalize(exitTime.Add(time.Hour))

	var stateErr *domain.InvalidStateError
	if assert.ErrorAs(t, err, &stateErr) {
		assert.Equal(t, domain.TicketFinalized, stateErr.Status)
	}
	assert.Equal(t, exitTime, *ticket.ExitedAt)
}

func TestFinalize_FromExpiredStatus(t *testing.T) {
	ticket := newTestTicket(t)
	assert.NoError(t, ticket.Pay(entryTime.Add(time.Hour)))
	assert.NoError(t, ticket.ExpirePayment())

	// Finalize is allowed from every status except FINALIZED itself.
	err := ticket.Finalize(entryTime.Add(2 * time.Hour))

	assert.NoError(t, err)
	assert.Equal(t, domain.TicketFinalized, ticket.Status)
}
