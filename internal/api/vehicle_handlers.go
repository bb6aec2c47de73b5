package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"parkwise/internal/db"
	"parkwise/internal/service"
)

type VehicleHandler struct {
	vehicles *service.VehicleService
}

func NewVehicleHandler(vehicles *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	var body VehicleRequest
	if !decodeBody(w, r, &body) {
		return
	}
	vehicle, err := h.vehicles.Create(r.Context(), actor, vehicleInput(body))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVehicleResponse(vehicle))
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	vehicle, err := h.vehicles.Get(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleResponse(vehicle))
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	var body VehicleRequest
	if !decodeBody(w, r, &body) {
		return
	}
	vehicle, err := h.vehicles.Update(r.Context(), actor, mux.Vars(r)["id"], vehicleInput(body))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleResponse(vehicle))
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	if err := h.vehicles.Delete(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "vehicle deleted"})
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	page := pageFromQuery(r)
	vehicles, total, err := h.vehicles.List(r.Context(), actor, page)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		items = append(items, toVehicleResponse(&vehicles[i]))
	}
	writeJSON(w, http.StatusOK, newListResponse(items, total, page.Page, page.Limit))
}

func vehicleInput(body VehicleRequest) service.VehicleInput {
	return service.VehicleInput{
		PlateNumber: body.PlateNumber,
		VehicleType: db.VehicleType(body.VehicleType),
		Size:        db.SizeClass(body.Size),
		Color:       body.Color,
		Model:       body.Model,
	}
}
