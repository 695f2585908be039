package domain

import "time"

// TaskStatus is the dispatcher-visible status of a drone task.
type TaskStatus string

const (
	TaskEnRouteToPickup   TaskStatus = "en_route_to_pickup"
	TaskEnRouteToIncident TaskStatus = "en_route_to_incident"
	TaskDelivered         TaskStatus = "delivered"
	// Only used by demo seed tasks; the animator never returns drones.
	TaskReturning TaskStatus = "returning"
)

// Represents a dispatcher-visible record tracking one simulated delivery.
// Tasks are created on dispatch and mutated in place while the animation runs.
type DispatchTask struct {
	ID         string
	AlertID    int
	DroneLabel string
	Status     TaskStatus
	ETAMinutes float64
	DistanceKm float64
	CreatedAt  time.Time
}
