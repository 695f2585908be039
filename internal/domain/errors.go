package domain

import "errors"

var (
	ErrUnknownView   = errors.New("unknown view")
	ErrViewInactive  = errors.New("view is not active")
	ErrAlertNotFound = errors.New("alert not found")
	ErrAlertInFlight = errors.New("alert already has a drone in flight")
	ErrTaskNotFound  = errors.New("task not found")
)
