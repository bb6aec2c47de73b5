package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"parkwise/internal/db"
	"parkwise/internal/repository"
	"parkwise/internal/service"
)

type RequestHandler struct {
	requests   *service.RequestService
	allocation *service.AllocationService
}

func NewRequestHandler(requests *service.RequestService, allocation *service.AllocationService) *RequestHandler {
	return &RequestHandler{requests: requests, allocation: allocation}
}

func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	var body CreateSlotRequestBody
	if !decodeBody(w, r, &body) {
		return
	}
	req, err := h.requests.Create(r.Context(), actor, service.RequestInput{
		VehicleID:         body.VehicleID,
		PreferredLocation: db.Location(body.PreferredLocation),
		StartTime:         body.StartTime,
		EndTime:           body.EndTime,
		Notes:             body.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSlotRequestResponse(req))
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	req, err := h.requests.Get(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSlotRequestResponse(req))
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := repository.RequestFilter{
		Status: db.RequestStatus(q.Get("status")),
		UserID: q.Get("userId"),
	}
	page := pageFromQuery(r)
	reqs, total, err := h.requests.List(r.Context(), actor, filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]SlotRequestResponse, 0, len(reqs))
	for i := range reqs {
		items = append(items, toSlotRequestResponse(&reqs[i]))
	}
	writeJSON(w, http.StatusOK, newListResponse(items, total, page.Page, page.Limit))
}

func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	if err := h.requests.Delete(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "request deleted"})
}

// Approve assigns a slot and moves the request to APPROVED. An empty body
// (or empty slotId) asks the engine to pick a compatible slot itself.
func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	var body ApproveRequestBody
	if r.ContentLength > 0 && !decodeBody(w, r, &body) {
		return
	}
	req, err := h.allocation.Approve(r.Context(), actor, mux.Vars(r)["id"], body.SlotID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSlotRequestResponse(req))
}

func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	var body RejectRequestBody
	if !decodeBody(w, r, &body) {
		return
	}
	req, err := h.allocation.Reject(r.Context(), actor, mux.Vars(r)["id"], body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSlotRequestResponse(req))
}

func (h *RequestHandler) Release(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	if err := h.allocation.Release(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "slot released"})
}

func (h *RequestHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	page := pageFromQuery(r)
	logs, total, err := h.requests.ListLogs(r.Context(), actor, page)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]LogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, LogResponse{
			ID:        l.ID,
			UserID:    l.UserID,
			Action:    l.Action,
			RequestID: l.RequestID,
			Detail:    l.Detail,
			CreatedAt: l.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, newListResponse(items, total, page.Page, page.Limit))
}
