package handlers

import (
	"aed-dispatch-service/internal/api/dto"
	"net/http"
)

type AdminHandler struct {
	Console Console
}

func (h *AdminHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	alerts := h.Console.Alerts()
	res := dto.ListAlertResponse{Alerts: make([]dto.AlertResponse, 0, len(alerts))}
	for _, a := range alerts {
		res.Alerts = append(res.Alerts, dto.AlertResponse{
			ID:          a.ID,
			Location:    a.Location,
			Label:       a.Label,
			Description: a.Description,
			Time:        a.Time,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Focus flies the camera to an alert and opens its popup.
func (h *AdminHandler) Focus(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	id, ok := alertID(w, r)
	if !ok {
		return
	}

	if err := h.Console.FocusAlert(r.Context(), id); err != nil {
		writeServiceError(w, r, "focus alert", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dispatch starts a drone toward the alert and returns the new task.
// The animation keeps running after the response is written.
func (h *AdminHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	id, ok := alertID(w, r)
	if !ok {
		return
	}

	task, err := h.Console.DispatchAlert(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "dispatch alert", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.NewTaskResponse(task))
}

// Tasks lists the task board, most recent first.
func (h *AdminHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	tasks, err := h.Console.Tasks(r.Context())
	if err != nil {
		writeServiceError(w, r, "list tasks", err)
		return
	}

	res := dto.ListTaskResponse{Tasks: make([]dto.TaskResponse, 0, len(tasks))}
	for _, t := range tasks {
		res.Tasks = append(res.Tasks, dto.NewTaskResponse(t))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	s := h.Console.Stats()
	writeJSON(w, r, http.StatusOK, dto.StatsResponse{
		DronesAvailable: s.DronesAvailable,
		DronesTotal:     s.DronesTotal,
		AEDsAvailable:   s.AEDsAvailable,
		AEDsTotal:       s.AEDsTotal,
	})
}

func (h *AdminHandler) Stations(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	stations := h.Console.Stations()
	res := dto.ListStationResponse{Stations: make([]dto.StationResponse, 0, len(stations))}
	for _, s := range stations {
		res.Stations = append(res.Stations, dto.StationResponse{
			Name:       s.Name,
			Location:   s.Location,
			DroneCount: s.DroneCount,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *AdminHandler) AEDs(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	sites, err := h.Console.AEDs(r.Context())
	if err != nil {
		writeServiceError(w, r, "list aeds", err)
		return
	}

	res := dto.ListAEDResponse{AEDs: make([]dto.AEDResponse, 0, len(sites))}
	for _, s := range sites {
		res.AEDs = append(res.AEDs, dto.AEDResponse{
			Name:     s.Name,
			Address:  s.Address,
			Location: s.Location,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
