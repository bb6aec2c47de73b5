package api

import (
	"net/http"

	"parkwise/internal/service"
)

type PricingHandler struct{}

func NewPricingHandler() *PricingHandler {
	return &PricingHandler{}
}

// Estimate returns the projected cost for a start/end window given as
// HH:MM query parameters. Both empty means no window, which estimates zero.
func (h *PricingHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	estimate, err := service.EstimateCost(q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}
