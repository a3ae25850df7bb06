package handlers

import (
	"net/http"

	"github.com/lennartwolf/tippliga/middleware"
	"github.com/lennartwolf/tippliga/services"
)

type TipHandler struct {
	tipService services.TipService
}

func NewTipHandler(tipService services.TipService) *TipHandler {
	return &TipHandler{tipService: tipService}
}

func (h *TipHandler) Place(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	groupID, err := getIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.TipInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tip, err := h.tipService.PlaceTip(r.Context(), userID, groupID, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tip": tip}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TipHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	tipID, err := getIDFromURL(r, "tipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.TipInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tip, err := h.tipService.UpdateTip(r.Context(), userID, tipID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tip": tip}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
