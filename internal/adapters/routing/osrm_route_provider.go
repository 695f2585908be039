package routing

import (
	"aed-dispatch-service/internal/domain"
	"aed-dispatch-service/internal/platform/obs"
	"aed-dispatch-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// OSRMRouteProvider implements RouteProvider against an OSRM-compatible
// HTTP routing service.
//
// Routed paths are written to the optional cache and served from it on later
// requests for the same origin and destination. The provider is safe for
// concurrent use.
type OSRMRouteProvider struct {
	session   *http.Client
	baseURL   string
	profile   string
	userAgent string
	cache     ports.RouteCache
	metrics   *obs.Metrics
}

type OSRMOption func(*OSRMRouteProvider)

func WithHTTPClient(c *http.Client) OSRMOption {
	return func(o *OSRMRouteProvider) { o.session = c }
}

func WithRouteCache(c ports.RouteCache) OSRMOption {
	return func(o *OSRMRouteProvider) { o.cache = c }
}

func WithMetrics(m *obs.Metrics) OSRMOption {
	return func(o *OSRMRouteProvider) { o.metrics = m }
}

func WithUserAgent(ua string) OSRMOption {
	return func(o *OSRMRouteProvider) { o.userAgent = ua }
}

func NewOSRMRouteProvider(baseURL, profile string, opts ...OSRMOption) (*OSRMRouteProvider, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OSRM base url is empty")
	}
	if strings.TrimSpace(profile) == "" {
		profile = "driving"
	}

	o := &OSRMRouteProvider{
		session:   &http.Client{Timeout: 10 * time.Second},
		baseURL:   baseURL,
		profile:   profile,
		userAgent: "aed-dispatch-service",
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Route returns the first route's geometry converted to (lat, lng).
func (o *OSRMRouteProvider) Route(
	ctx context.Context,
	origin domain.LatLng,
	destination domain.LatLng,
) (_ []domain.LatLng, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	if o.cache != nil {
		path, ok, err := o.cache.Get(ctx, origin, destination)
		if err != nil {
			log.Printf("route cache read failed: %v", err)
		} else if ok {
			o.metrics.RouteOutcome(obs.RouteCacheHit)
			return path, nil
		}
	}

	path, err := o.fetchRoute(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("route %v -> %v: %w", origin, destination, err)
	}

	if o.cache != nil {
		if err := o.cache.Put(ctx, origin, destination, path); err != nil {
			log.Printf("route cache write failed: %v", err)
		}
	}

	return path, nil
}

func (o *OSRMRouteProvider) routeURL(origin, destination domain.LatLng) string {
	return fmt.Sprintf(
		"%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=geojson",
		o.baseURL, o.profile,
		origin.Lng, origin.Lat,
		destination.Lng, destination.Lat,
	)
}

func (o *OSRMRouteProvider) fetchRoute(ctx context.Context, origin, destination domain.LatLng) ([]domain.LatLng, error) {
	req, err := o.newRequest(ctx, o.routeURL(origin, destination))
	if err != nil {
		return nil, err
	}

	resp, err := o.do(req)
	if err != nil {
		return nil, fmt.Errorf("request OSRM route: %w", err)
	}
	defer resp.Body.Close()

	var parsed osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode OSRM response: %w", err)
	}

	if parsed.Code != "Ok" {
		return nil, fmt.Errorf("OSRM code %q %s: %w", parsed.Code, parsed.Message, ErrNoRoute)
	}
	if len(parsed.Routes) == 0 {
		return nil, fmt.Errorf("OSRM returned no routes: %w", ErrNoRoute)
	}

	coords := parsed.Routes[0].Geometry.Coordinates
	path := make([]domain.LatLng, 0, len(coords))
	for i, pair := range coords {
		p, ok := domain.FromLngLat(pair)
		if !ok {
			return nil, fmt.Errorf("OSRM coordinate %d has %d values", i, len(pair))
		}
		path = append(path, p)
	}

	if len(path) < 2 {
		return nil, fmt.Errorf("OSRM route has %d points: %w", len(path), ErrNoRoute)
	}

	return path, nil
}
