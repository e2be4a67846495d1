package http

import (
	"net/http"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"
)

type CarHandler struct {
	inventory service.InventoryService
}

func NewCarHandler(inventory service.InventoryService) *CarHandler {
	return &CarHandler{inventory: inventory}
}

// List returns available cars for customers and the full fleet,
// including unavailable and retired cars, for admins with ?all=true.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	if r.URL.Query().Get("all") == "true" && claims.Role == domain.UserRoleAdmin {
		cars, err := h.inventory.ListAllCars(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cars)
		return
	}

	cars, err := h.inventory.ListAvailableCars(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	car, err := h.inventory.GetCar(r.Context(), carID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req createCarRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	car := &domain.Car{
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		PlateNumber:    req.PlateNumber,
		Mileage:        req.Mileage,
		DailyRateCents: req.DailyRateCents,
		MinRentalDays:  req.MinRentalDays,
		MaxRentalDays:  req.MaxRentalDays,
	}
	if err := h.inventory.AddCar(r.Context(), claims.UserID, car); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	carID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateCarRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	car, err := h.inventory.UpdateCar(r.Context(), claims.UserID, carID, req.toUpdate())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	carID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.inventory.DeleteCar(r.Context(), claims.UserID, carID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
