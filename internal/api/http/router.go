package http

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"

	"carrental-backend/internal/security"
	"carrental-backend/internal/service"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth      service.AuthService
	Inventory service.InventoryService
	Rentals   service.RentalService
	Admin     service.AdminService
	Tokens    security.TokenManager
	DB        *sql.DB
}

// NewRouter wires all routes. Authentication is applied per subrouter
// rather than globally so /health and /v1/auth stay open.
func NewRouter(h Handlers) http.Handler {
	authHandler := NewAuthHandler(h.Auth)
	carHandler := NewCarHandler(h.Inventory)
	rentalHandler := NewRentalHandler(h.Rentals)
	adminHandler := NewAdminHandler(h.Admin)

	r := mux.NewRouter()
	r.Use(RequestID, AccessLog, Recover)

	r.HandleFunc("/health", healthHandler(h.DB)).Methods(http.MethodGet)

	public := r.PathPrefix("/v1/auth").Subrouter()
	public.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	public.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/refresh", authHandler.Refresh).Methods(http.MethodPost)

	authed := r.PathPrefix("/v1").Subrouter()
	authed.Use(Authenticate(h.Tokens))

	authed.HandleFunc("/cars", carHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/cars/{id:[0-9]+}", carHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/rentals", rentalHandler.Book).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/my", rentalHandler.ListMine).Methods(http.MethodGet)
	authed.HandleFunc("/rentals/{id:[0-9]+}", rentalHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/rentals/{id:[0-9]+}/cancel", rentalHandler.Cancel).Methods(http.MethodPost)

	admin := authed.NewRoute().Subrouter()
	admin.Use(RequireAdmin)
	admin.HandleFunc("/cars", carHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/cars/{id:[0-9]+}", carHandler.Update).Methods(http.MethodPatch)
	admin.HandleFunc("/cars/{id:[0-9]+}", carHandler.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/rentals", rentalHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/rentals/{id:[0-9]+}/approve", rentalHandler.Approve).Methods(http.MethodPost)
	admin.HandleFunc("/rentals/{id:[0-9]+}/reject", rentalHandler.Reject).Methods(http.MethodPost)
	admin.HandleFunc("/rentals/{id:[0-9]+}/start", rentalHandler.Start).Methods(http.MethodPost)
	admin.HandleFunc("/rentals/{id:[0-9]+}/complete", rentalHandler.Complete).Methods(http.MethodPost)
	admin.HandleFunc("/reports/statistics", rentalHandler.Statistics).Methods(http.MethodGet)
	admin.HandleFunc("/admin/users", adminHandler.ListCustomers).Methods(http.MethodGet)
	admin.HandleFunc("/admin/users/{id:[0-9]+}/lock", adminHandler.LockUser).Methods(http.MethodPost)
	admin.HandleFunc("/admin/users/{id:[0-9]+}/unlock", adminHandler.UnlockUser).Methods(http.MethodPost)

	return r
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
