package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/parking_lot/internal/core/domain"
	"github.com/srgjo27/parking_lot/internal/core/ports/mocks"
	"github.com/srgjo27/parking_lot/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domain.ErrTicketNotFound, http.StatusNotFound},
		{"validation", &domain.ValidationError{Msg: "invalid plate"}, http.StatusBadRequest},
		{"invalid state", &domain.InvalidStateError{Op: "paid", Status: domain.TicketPaid}, http.StatusConflict},
		{"tolerance expired", &domain.ToleranceExpiredError{Op: "finalized", Status: domain.TicketPaymentToleranceExpired}, http.StatusConflict},
		{"external", &domain.ExternalError{Op: "failed to save ticket", Err: errors.New("down")}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusCode(tt.err))
		})
	}
}

func newTestMux(t *testing.T) (*http.ServeMux, *mocks.TicketStore) {
	t.Helper()

	mockStore := mocks.NewTicketStore(t)
	mockClock := mocks.NewClock(t)
	mockClock.On("Now").Return(time.Date(2025, 11, 25, 10, 0, 0, 0, time.UTC)).Maybe()

	issuance := services.NewIssuanceService(mockStore, mockClock)
	exits := services.NewExitService(mockStore, mockClock)

	h := NewTicketHandler(issuance, nil, nil, exits, mockStore)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /tickets", h.IssueTicket)
	mux.HandleFunc("GET /tickets/{id}", h.GetTicket)
	mux.HandleFunc("PUT /tickets/{id}/exit", h.ProcessExit)

	return mux, mockStore
}

func TestIssueTicket_InvalidPlate(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/tickets",
		strings.NewReader(`{"plate": "not-a-plate", "vehicle_class": "CAR"}`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid plate")
}

func TestIssueTicket_CreatesTicket(t *testing.T) {
	mux, mockStore := newTestMux(t)

	mockStore.On("FindOpenByPlate", mock.Anything, "ABC1D23").Return(nil, domain.ErrTicketNotFound)
	mockStore.On("Save", mock.Anything, mock.AnythingOfType("*domain.Ticket")).
		Return(func(ctx context.Context, ticket *domain.Ticket) *domain.Ticket { return ticket }, nil)

	req := httptest.NewRequest(http.MethodPost, "/tickets",
		strings.NewReader(`{"plate": "ABC1D23", "vehicle_class": "CAR"}`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"PENDING"`)
}

func TestGetTicket_NotFound(t *testing.T) {
	mux, mockStore := newTestMux(t)

	id := uuid.New()
	mockStore.On("FindByID", mock.Anything, id).Return(nil, domain.ErrTicketNotFound)

	req := httptest.NewRequest(http.MethodGet, "/tickets/"+id.String(), nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTicket_InvalidID(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/tickets/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessExit_ConflictOnPendingOutsideGrace(t *testing.T) {
	mux, mockStore := newTestMux(t)

	vehicle, err := domain.NewVehicle("ABC1D23", domain.ClassCar)
	assert.NoError(t, err)

	// Entered an hour before the fixture clock, still pending.
	ticket := domain.NewTicket(vehicle, time.Date(2025, 11, 25, 9, 0, 0, 0, time.UTC))
	mockStore.On("FindByID", mock.Anything, ticket.ID).Return(ticket, nil)

	req := httptest.NewRequest(http.MethodPut, "/tickets/"+ticket.ID.String()+"/exit", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "PENDING")
}
