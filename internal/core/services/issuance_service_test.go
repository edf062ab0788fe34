package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/srgjo27/parking_lot/internal/core/domain"
	"github.com/srgjo27/parking_lot/internal/core/ports/mocks"
	"github.com/srgjo27/parking_lot/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestIssue_NewTicket(t *testing.T) {
	mockStore := mocks.NewTicketStore(t)
	mockClock := mocks.NewClock(t)

	entryTime := time.Date(2025, 11, 25, 10, 0, 0, 0, time.UTC)
	mockClock.On("Now").Return(entryTime)

	service := services.NewIssuanceService(mockStore, mockClock)

	ctx := context.Background()
	vehicle, err := domain.NewVehicle("ABC1D23", domain.ClassCar)
	assert.NoError(t, err)

	mockStore.On("FindOpenByPlate", ctx, "ABC1D23").Return(nil, domain.ErrTicketNotFound)
	mockStore.On("Save", ctx, mock.AnythingOfType("*domain.Ticket")).
		Return(func(ctx context.Context, ticket *domain.Ticket) *domain.Ticket { return ticket }, nil)

	ticket, err := service.Issue(ctx, vehicle)

	assert.NoError(t, err)
	if assert.NotNil(t, ticket) {
		assert.Equal(t, domain.TicketPending, ticket.Status)
		assert.Equal(t, entryTime, ticket.EnteredAt)
		assert.Equal(t, vehicle, ticket.Vehicle)
	}
}

func TestIssue_ReturnsOpenTicket(t *testing.T) {
	mockStore := mocks.NewTicketStore(t)
	mockClock := mocks.NewClock(t)

	service := services.NewIssuanceService(mockStore, mockClock)

	ctx := context.Background()
	vehicle, err := domain.NewVehicle("ABC1D23", domain.ClassCar)
	assert.NoError(t, err)

	existing := domain.NewTicket(vehicle, time.Date(2025, 11, 25, 9, 0, 0, 0, time.UTC))

	mockStore.On("FindOpenByPlate", ctx, "ABC1D23").Return(existing, nil)

	// A vehicle already in the lot is never double-ticketed: no save, no
	// clock read.
	ticket, err := service.Issue(ctx, vehicle)

	assert.NoError(t, err)
	assert.Same(t, existing, ticket)
	mockStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestIssue_StoreLookupFailure(t *testing.T) {
	mockStore := mocks.NewTicketStore(t)
	mockClock := mocks.NewClock(t)

	service := services.NewIssuanceService(mockStore, mockClock)

	ctx := context.Background()
	vehicle, err := domain.NewVehicle("ABC1D23", domain.ClassCar)
	assert.NoError(t, err)

	mockStore.On("FindOpenByPlate", ctx, "ABC1D23").Return(nil, errors.New("connection refused"))

	ticket, err := service.Issue(ctx, vehicle)

	assert.Nil(t, ticket)

	var externalErr *domain.ExternalError
	assert.ErrorAs(t, err, &externalErr)
}
