package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"parkwise/internal/db"
	"parkwise/internal/repository"
	"parkwise/internal/service"
)

type SlotHandler struct {
	slots *service.SlotService
}

func NewSlotHandler(slots *service.SlotService) *SlotHandler {
	return &SlotHandler{slots: slots}
}

func (h *SlotHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	var body SlotRequestBody
	if !decodeBody(w, r, &body) {
		return
	}
	slot, err := h.slots.Create(r.Context(), actor, service.SlotInput{
		SlotNumber:  body.SlotNumber,
		Size:        db.SizeClass(body.Size),
		VehicleType: db.VehicleType(body.VehicleType),
		Location:    db.Location(body.Location),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSlotResponse(slot))
}

func (h *SlotHandler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	var body BulkSlotRequest
	if !decodeBody(w, r, &body) {
		return
	}
	slots, err := h.slots.CreateBulk(r.Context(), actor, service.BulkSlotInput{
		Prefix:      body.Prefix,
		StartNumber: body.StartNumber,
		Count:       body.Count,
		Size:        db.SizeClass(body.Size),
		VehicleType: db.VehicleType(body.VehicleType),
		Location:    db.Location(body.Location),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]SlotResponse, 0, len(slots))
	for i := range slots {
		items = append(items, toSlotResponse(&slots[i]))
	}
	writeJSON(w, http.StatusCreated, map[string]any{"items": items, "created": len(items)})
}

func (h *SlotHandler) Get(w http.ResponseWriter, r *http.Request) {
	slot, err := h.slots.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSlotResponse(slot))
}

func (h *SlotHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.SlotFilter{
		Size:        db.SizeClass(q.Get("size")),
		VehicleType: db.VehicleType(q.Get("vehicleType")),
		Location:    db.Location(q.Get("location")),
		Status:      db.SlotStatus(q.Get("status")),
	}
	page := pageFromQuery(r)
	slots, total, err := h.slots.List(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]SlotResponse, 0, len(slots))
	for i := range slots {
		items = append(items, toSlotResponse(&slots[i]))
	}
	writeJSON(w, http.StatusOK, newListResponse(items, total, page.Page, page.Limit))
}

func (h *SlotHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	var body SlotRequestBody
	if !decodeBody(w, r, &body) {
		return
	}
	slot, err := h.slots.Update(r.Context(), actor, mux.Vars(r)["id"], service.UpdateSlotInput{
		SlotNumber:  body.SlotNumber,
		Size:        db.SizeClass(body.Size),
		VehicleType: db.VehicleType(body.VehicleType),
		Location:    db.Location(body.Location),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSlotResponse(slot))
}

func (h *SlotHandler) SetMaintenance(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	var body MaintenanceRequest
	if !decodeBody(w, r, &body) {
		return
	}
	slot, err := h.slots.SetMaintenance(r.Context(), actor, mux.Vars(r)["id"], body.Maintenance)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSlotResponse(slot))
}

func (h *SlotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	if err := h.slots.Delete(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "slot deleted"})
}
