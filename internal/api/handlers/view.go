package handlers

import (
	"aed-dispatch-service/internal/api/dto"
	"aed-dispatch-service/internal/domain"
	"net/http"
)

type ViewHandler struct {
	Console Console
}

// Switch tears down the active view and builds the requested one.
func (h *ViewHandler) Switch(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ViewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	v, err := domain.ParseView(req.View)
	if err != nil {
		writeServiceError(w, r, "switch view", err)
		return
	}
	if err := h.Console.SwitchView(r.Context(), v); err != nil {
		writeServiceError(w, r, "switch view", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ViewResponse{View: string(h.Console.View())})
}

// Resize asks the map to re-measure its container.
func (h *ViewHandler) Resize(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	h.Console.Resize()
	w.WriteHeader(http.StatusNoContent)
}
