package handlers

import (
	"aed-dispatch-service/internal/adapters/surface"
	"net/http"
)

type SceneSource interface {
	Snapshot() surface.Snapshot
}

type SceneHandler struct {
	Scene SceneSource
}

// Snapshot returns everything currently drawn on the map.
func (h *SceneHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, r, http.StatusOK, h.Scene.Snapshot())
}
