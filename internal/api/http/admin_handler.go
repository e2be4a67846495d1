package http

import (
	"net/http"

	"carrental-backend/internal/service"
)

type AdminHandler struct {
	admin service.AdminService
}

func NewAdminHandler(admin service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) LockUser(w http.ResponseWriter, r *http.Request) {
	h.setLock(w, r, true)
}

func (h *AdminHandler) UnlockUser(w http.ResponseWriter, r *http.Request) {
	h.setLock(w, r, false)
}

func (h *AdminHandler) setLock(w http.ResponseWriter, r *http.Request, locked bool) {
	claims, _ := ClaimsFromContext(r.Context())

	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.admin.SetUserLock(r.Context(), claims.UserID, userID, locked); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"locked": locked})
}

func (h *AdminHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	users, err := h.admin.ListCustomers(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
