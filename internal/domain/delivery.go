package domain

// DeliveryPhase is the stage of the delivery narrative shown to the end user.
// Phases only move forward within one simulation run.
type DeliveryPhase int

const (
	PhaseDispatching DeliveryPhase = iota
	PhasePickedUp
	PhaseDelivering
	PhaseArrived
)

func (p DeliveryPhase) String() string {
	switch p {
	case PhaseDispatching:
		return "dispatching"
	case PhasePickedUp:
		return "picked_up"
	case PhaseDelivering:
		return "delivering"
	case PhaseArrived:
		return "arrived"
	default:
		return "unknown"
	}
}

// RecycleStage tracks the equipment return sub-machine, orthogonal to the delivery phase.
type RecycleStage int

const (
	RecycleNone RecycleStage = iota
	RecycleAwaitingPickup
	RecycleDone
)

func (s RecycleStage) String() string {
	switch s {
	case RecycleNone:
		return "not_recycled"
	case RecycleAwaitingPickup:
		return "awaiting_pickup"
	case RecycleDone:
		return "recycled"
	default:
		return "unknown"
	}
}

// Represents the user-facing state of one simulated delivery.
type DeliveryState struct {
	Phase        DeliveryPhase
	ETAMinutes   int
	Recycled     bool
	RecycleStage RecycleStage
}
