package handlers

import (
	"aed-dispatch-service/internal/api/dto"
	"net/http"
)

type UserHandler struct {
	Console Console
}

func (h *UserHandler) State(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, r, http.StatusOK, h.state())
}

// Recycle records the user's answer to the equipment return prompt.
// Accepted is false when the prompt is not applicable.
func (h *UserHandler) Recycle(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RecycleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	accepted := h.Console.Recycle(r.Context(), *req.Confirmed)
	writeJSON(w, r, http.StatusOK, dto.RecycleResponse{
		Accepted:     accepted,
		RecycleStage: h.Console.DeliveryState().RecycleStage.String(),
	})
}

func (h *UserHandler) state() dto.DeliveryStateResponse {
	st := h.Console.DeliveryState()
	return dto.DeliveryStateResponse{
		Phase:           st.Phase.String(),
		ETAMinutes:      st.ETAMinutes,
		Recycled:        st.Recycled,
		RecycleStage:    st.RecycleStage.String(),
		ProgressPercent: h.Console.ProgressPercent(),
		StatusText:      h.Console.StatusText(),
	}
}
