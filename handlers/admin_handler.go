package handlers

import (
	"net/http"

	"github.com/lennartwolf/tippliga/services"
)

type AdminHandler struct {
	recomputeService services.RecomputeService
}

func NewAdminHandler(recomputeService services.RecomputeService) *AdminHandler {
	return &AdminHandler{recomputeService: recomputeService}
}

// TriggerRecompute runs a full points recomputation synchronously and
// returns the run report.
func (h *AdminHandler) TriggerRecompute(w http.ResponseWriter, r *http.Request) {
	report, err := h.recomputeService.RecomputeAll(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
