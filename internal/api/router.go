package api

import (
	"aed-dispatch-service/internal/adapters/surface"
	"aed-dispatch-service/internal/api/handlers"
	"aed-dispatch-service/internal/platform/obs"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(console handlers.Console, scene *surface.Scene, metrics *obs.Metrics) http.Handler {
	mux := http.NewServeMux()

	viewHandler := &handlers.ViewHandler{Console: console}
	userHandler := &handlers.UserHandler{Console: console}
	adminHandler := &handlers.AdminHandler{Console: console}
	sceneHandler := &handlers.SceneHandler{Scene: scene}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/view", viewHandler.Switch)
	mux.HandleFunc("/resize", viewHandler.Resize)

	mux.HandleFunc("/user/state", userHandler.State)
	mux.HandleFunc("/user/recycle", userHandler.Recycle)

	mux.HandleFunc("/admin/alerts", adminHandler.Alerts)
	mux.HandleFunc("/admin/alerts/{id}/focus", adminHandler.Focus)
	mux.HandleFunc("/admin/alerts/{id}/dispatch", adminHandler.Dispatch)
	mux.HandleFunc("/admin/tasks", adminHandler.Tasks)
	mux.HandleFunc("/admin/stats", adminHandler.Stats)
	mux.HandleFunc("/admin/stations", adminHandler.Stations)
	mux.HandleFunc("/aeds", adminHandler.AEDs)

	mux.HandleFunc("/scene", sceneHandler.Snapshot)
	mux.HandleFunc("/ws", scene.ServeWS)
	mux.Handle("/metrics", metrics.Handler())

	return loggingMiddleware(mux)
}
