package domain

import (
	"fmt"
	"strings"
)

// View names one of the two alternate panels.
type View string

const (
	ViewUser  View = "user"
	ViewAdmin View = "admin"
)

func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewUser, ViewAdmin:
		return v, nil
	default:
		return "", fmt.Errorf("parse view %q: %w", s, ErrUnknownView)
	}
}
