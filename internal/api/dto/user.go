package dto

type DeliveryStateResponse struct {
	Phase           string  `json:"phase"`
	ETAMinutes      int     `json:"eta_minutes"`
	Recycled        bool    `json:"recycled"`
	RecycleStage    string  `json:"recycle_stage"`
	ProgressPercent float64 `json:"progress_percent"`
	StatusText      string  `json:"status_text"`
}

// Confirmed is a pointer so a missing field is rejected rather than read as false.
type RecycleRequest struct {
	Confirmed *bool `json:"confirmed" validate:"required"`
}

type RecycleResponse struct {
	Accepted     bool   `json:"accepted"`
	RecycleStage string `json:"recycle_stage"`
}
