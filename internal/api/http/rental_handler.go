package http

import (
	"context"
	"net/http"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"
	"carrental-backend/internal/timeutil"
)

type RentalHandler struct {
	rentals service.RentalService
}

func NewRentalHandler(rentals service.RentalService) *RentalHandler {
	return &RentalHandler{rentals: rentals}
}

func (h *RentalHandler) Book(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req bookRentalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rental, err := h.rentals.Book(r.Context(), claims.UserID, req.CarID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRentalResponse(rental))
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	rentalID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	rental, err := h.rentals.Get(r.Context(), claims.UserID, rentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalResponse(rental))
}

// ListMine returns the calling customer's rental history.
func (h *RentalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	rentals, err := h.rentals.ListForCustomer(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalResponses(rentals))
}

// List is the admin view. It filters by ?status= or by a
// ?from=&to= date range, defaulting to pending requests.
func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	q := r.URL.Query()

	if from, to := q.Get("from"), q.Get("to"); from != "" || to != "" {
		fromDate, err := timeutil.ParseDate(from)
		if err != nil {
			writeError(w, err)
			return
		}
		toDate, err := timeutil.ParseDate(to)
		if err != nil {
			writeError(w, err)
			return
		}
		rentals, err := h.rentals.ListInDateRange(r.Context(), claims.UserID, fromDate, toDate)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRentalResponses(rentals))
		return
	}

	statusParam := q.Get("status")
	if statusParam == "" {
		statusParam = string(domain.RentalStatusPending)
	}
	status, err := domain.ParseRentalStatus(statusParam)
	if err != nil {
		writeError(w, err)
		return
	}
	rentals, err := h.rentals.ListByStatus(r.Context(), claims.UserID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalResponses(rentals))
}

func (h *RentalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentals.Approve)
}

func (h *RentalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentals.Reject)
}

func (h *RentalHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentals.Start)
}

func (h *RentalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentals.Complete)
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentals.Cancel)
}

func (h *RentalHandler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error)) {
	claims, _ := ClaimsFromContext(r.Context())

	rentalID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	rental, err := op(r.Context(), claims.UserID, rentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalResponse(rental))
}

func (h *RentalHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	stats, err := h.rentals.Statistics(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
