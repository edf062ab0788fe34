package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/srgjo27/parking_lot/internal/core/domain"
	"github.com/srgjo27/parking_lot/internal/core/ports"
	"github.com/srgjo27/parking_lot/internal/core/services"
)

type TicketHandler struct {
	issuance   *services.IssuanceService
	payments   *services.PaymentService
	exemptions *services.ExemptionService
	exits      *services.ExitService
	store      ports.TicketStore
}

func NewTicketHandler(
	issuance *services.IssuanceService,
	payments *services.PaymentService,
	exemptions *services.ExemptionService,
	exits *services.ExitService,
	store ports.TicketStore,
) *TicketHandler {
	return &TicketHandler{
		issuance:   issuance,
		payments:   payments,
		exemptions: exemptions,
		exits:      exits,
		store:      store,
	}
}

type IssueTicketRequest struct {
	Plate        string `json:"plate"`
	VehicleClass string `json:"vehicle_class"`
}

type ExemptByReceiptRequest struct {
	Receipt string `json:"receipt"`
}

type TicketResponse struct {
	TicketID     string  `json:"ticket_id"`
	Plate        string  `json:"plate"`
	VehicleClass string  `json:"vehicle_class"`
	Status       string  `json:"status"`
	EnteredAt    string  `json:"entered_at"`
	PaidAt       *string `json:"paid_at,omitempty"`
	ExitedAt     *string `json:"exited_at,omitempty"`
}

type AmountDueResponse struct {
	TicketID  string `json:"ticket_id"`
	AmountDue string `json:"amount_due"`
}

func toTicketResponse(t *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		TicketID:     t.ID.String(),
		Plate:        t.Vehicle.Plate,
		VehicleClass: string(t.Vehicle.Class),
		Status:       string(t.Status),
		EnteredAt:    t.EnteredAt.Format(time.RFC3339),
	}

	if t.PaidAt != nil {
		paidAt := t.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}

	if t.ExitedAt != nil {
		exitedAt := t.ExitedAt.Format(time.RFC3339)
		resp.ExitedAt = &exitedAt
	}

	return resp
}

func (h *TicketHandler) IssueTicket(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req IssueTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Msg: "invalid json body"})
		return
	}

	vehicle, err := domain.NewVehicle(req.Plate, domain.VehicleClass(req.VehicleClass))
	if err != nil {
		writeError(w, err)
		return
	}

	ticket, err := h.issuance.Issue(r.Context(), vehicle)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toTicketResponse(ticket))
}

func (h *TicketHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ticket, ok := h.loadTicket(w, r)
	if !ok {
		return
	}

	json.NewEncoder(w).Encode(toTicketResponse(ticket))
}

func (h *TicketHandler) GetAmountDue(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ticket, ok := h.loadTicket(w, r)
	if !ok {
		return
	}

	json.NewEncoder(w).Encode(AmountDueResponse{
		TicketID:  ticket.ID.String(),
		AmountDue: h.payments.AmountDue(ticket).StringFixed(2),
	})
}

func (h *TicketHandler) PayTicket(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ticket, ok := h.loadTicket(w, r)
	if !ok {
		return
	}

	if err := h.payments.Pay(r.Context(), ticket); err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(toTicketResponse(ticket))
}

func (h *TicketHandler) ProcessExit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ticket, ok := h.loadTicket(w, r)
	if !ok {
		return
	}

	finalized, err := h.exits.ProcessExit(r.Context(), ticket)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(toTicketResponse(finalized))
}

func (h *TicketHandler) ExemptByReceipt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req ExemptByReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Msg: "invalid json body"})
		return
	}

	ticket, ok := h.loadTicket(w, r)
	if !ok {
		return
	}

	if err := h.exemptions.ExemptByReceipt(r.Context(), ticket, req.Receipt); err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(toTicketResponse(ticket))
}

func (h *TicketHandler) ExemptEmployee(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ticket, ok := h.loadTicket(w, r)
	if !ok {
		return
	}

	if err := h.exemptions.ExemptEmployee(r.Context(), ticket); err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(toTicketResponse(ticket))
}

// DeleteTicket is an administrative correction, not part of the normal
// lifecycle.
func (h *TicketHandler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ticket, ok := h.loadTicket(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), ticket); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TicketHandler) loadTicket(w http.ResponseWriter, r *http.Request) (*domain.Ticket, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, &domain.ValidationError{Msg: "invalid ticket id"})
		return nil, false
	}

	ticket, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	return ticket, true
}

func writeError(w http.ResponseWriter, err error) {
	w.WriteHeader(statusCode(err))
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// statusCode maps the domain error kinds onto HTTP statuses. A tolerance
// expiry unwraps to an invalid-state error, so both land on 409.
func statusCode(err error) int {
	var validationErr *domain.ValidationError
	var stateErr *domain.InvalidStateError
	var externalErr *domain.ExternalError

	switch {
	case errors.Is(err, domain.ErrTicketNotFound):
		return http.StatusNotFound
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &stateErr):
		return http.StatusConflict
	case errors.As(err, &externalErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
