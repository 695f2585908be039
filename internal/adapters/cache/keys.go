package cache

import (
	"aed-dispatch-service/internal/domain"
	"encoding/json"
	"fmt"
)

// pointKey renders a coordinate at roughly 10 cm precision so equal inputs share a key.
func pointKey(p domain.LatLng) string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}

func encodePath(path []domain.LatLng) (string, error) {
	b, err := json.Marshal(path)
	if err != nil {
		return "", fmt.Errorf("encode path: %w", err)
	}
	return string(b), nil
}

func decodePath(raw string) ([]domain.LatLng, error) {
	var path []domain.LatLng
	if err := json.Unmarshal([]byte(raw), &path); err != nil {
		return nil, fmt.Errorf("decode path: %w", err)
	}
	if len(path) < 2 {
		return nil, fmt.Errorf("decode path: %d points cached", len(path))
	}
	return path, nil
}
