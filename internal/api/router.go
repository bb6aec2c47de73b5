package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"parkwise/internal/auth"
	"parkwise/internal/service"
)

type RouterDeps struct {
	JWTSecret  string
	Users      *service.UserService
	Vehicles   *service.VehicleService
	Slots      *service.SlotService
	Requests   *service.RequestService
	Allocation *service.AllocationService
}

// NewRouter wires every endpoint. Three tiers: public (auth, pricing),
// authenticated, and administrator-only.
func NewRouter(deps RouterDeps) *mux.Router {
	authHandler := NewAuthHandler(deps.Users)
	userHandler := NewUserHandler(deps.Users)
	vehicleHandler := NewVehicleHandler(deps.Vehicles)
	slotHandler := NewSlotHandler(deps.Slots)
	requestHandler := NewRequestHandler(deps.Requests, deps.Allocation)
	pricingHandler := NewPricingHandler()

	r := mux.NewRouter()
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/pricing/estimate", pricingHandler.Estimate).Methods(http.MethodGet)
	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	authMw := auth.Middleware(deps.JWTSecret)

	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(authMw)
	authed.HandleFunc("/profile", authHandler.GetProfile).Methods(http.MethodGet)
	authed.HandleFunc("/profile", authHandler.UpdateProfile).Methods(http.MethodPut)
	authed.HandleFunc("/vehicles", vehicleHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/vehicles", vehicleHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/vehicles/{id}", vehicleHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/vehicles/{id}", vehicleHandler.Update).Methods(http.MethodPut)
	authed.HandleFunc("/vehicles/{id}", vehicleHandler.Delete).Methods(http.MethodDelete)
	authed.HandleFunc("/parking-slots", slotHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/parking-slots/{id}", slotHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/slot-requests", requestHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/slot-requests", requestHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/slot-requests/{id}", requestHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/slot-requests/{id}", requestHandler.Delete).Methods(http.MethodDelete)

	admin := r.PathPrefix("/api").Subrouter()
	admin.Use(authMw, auth.RequireAdmin)
	admin.HandleFunc("/users", userHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/logs", requestHandler.ListLogs).Methods(http.MethodGet)
	admin.HandleFunc("/parking-slots", slotHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/parking-slots/bulk", slotHandler.CreateBulk).Methods(http.MethodPost)
	admin.HandleFunc("/parking-slots/{id}", slotHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/parking-slots/{id}", slotHandler.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/parking-slots/{id}/maintenance", slotHandler.SetMaintenance).Methods(http.MethodPatch)
	admin.HandleFunc("/slot-requests/{id}/approve", requestHandler.Approve).Methods(http.MethodPatch)
	admin.HandleFunc("/slot-requests/{id}/reject", requestHandler.Reject).Methods(http.MethodPatch)
	admin.HandleFunc("/slot-requests/{id}/release", requestHandler.Release).Methods(http.MethodPatch)

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
