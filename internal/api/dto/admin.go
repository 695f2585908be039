package dto

import (
	"aed-dispatch-service/internal/domain"
	"time"
)

type AlertResponse struct {
	ID          int           `json:"id"`
	Location    domain.LatLng `json:"location"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
	Time        string        `json:"time"`
}

type ListAlertResponse struct {
	Alerts []AlertResponse `json:"alerts"`
}

type TaskResponse struct {
	ID         string    `json:"id"`
	AlertID    int       `json:"alert_id,omitempty"`
	DroneLabel string    `json:"drone_label"`
	Status     string    `json:"status"`
	ETAMinutes float64   `json:"eta_minutes"`
	DistanceKm float64   `json:"distance_km"`
	CreatedAt  time.Time `json:"created_at"`
}

type ListTaskResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

type StatsResponse struct {
	DronesAvailable int `json:"drones_available"`
	DronesTotal     int `json:"drones_total"`
	AEDsAvailable   int `json:"aeds_available"`
	AEDsTotal       int `json:"aeds_total"`
}

type StationResponse struct {
	Name       string        `json:"name"`
	Location   domain.LatLng `json:"location"`
	DroneCount int           `json:"drone_count"`
}

type ListStationResponse struct {
	Stations []StationResponse `json:"stations"`
}

type AEDResponse struct {
	Name     string        `json:"name"`
	Address  string        `json:"address"`
	Location domain.LatLng `json:"location"`
}

type ListAEDResponse struct {
	AEDs []AEDResponse `json:"aeds"`
}

func NewTaskResponse(t domain.DispatchTask) TaskResponse {
	return TaskResponse{
		ID:         t.ID,
		AlertID:    t.AlertID,
		DroneLabel: t.DroneLabel,
		Status:     string(t.Status),
		ETAMinutes: t.ETAMinutes,
		DistanceKm: t.DistanceKm,
		CreatedAt:  t.CreatedAt,
	}
}
