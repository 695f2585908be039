package handlers

import (
	"aed-dispatch-service/internal/domain"
	"context"
)

// Console is the view controller surface the handlers drive.
type Console interface {
	SwitchView(ctx context.Context, v domain.View) error
	View() domain.View
	Resize()

	DeliveryState() domain.DeliveryState
	ProgressPercent() float64
	StatusText() string
	Recycle(ctx context.Context, confirmed bool) bool

	Alerts() []domain.Alert
	FocusAlert(ctx context.Context, id int) error
	DispatchAlert(ctx context.Context, id int) (domain.DispatchTask, error)
	Tasks(ctx context.Context) ([]domain.DispatchTask, error)
	Stats() domain.Stats
	Stations() []domain.Station
	AEDs(ctx context.Context) ([]domain.AEDSite, error)
}
