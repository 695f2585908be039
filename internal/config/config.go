package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Dispatch selection modes.
const (
	SelectionFixed   = "fixed"
	SelectionNearest = "nearest"
)

// Config is the runtime configuration read from the environment.
type Config struct {
	Port        string
	AEDDataPath string
	DatabaseURL string
	RedisAddr   string
	LogFile     string

	RoutingBaseURL string
	RoutingProfile string
	RoutingEnabled bool
	RouteCacheTTL  time.Duration

	DispatchSelection     string
	DispatchAllowStacking bool

	TickPeriod    time.Duration
	FrameInterval time.Duration
	RandomSeed    int64
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads Config from the environment. Malformed values are errors.
func Load() (Config, error) {
	cfg := Config{
		Port:           Get("PORT", "8080"),
		AEDDataPath:    Get("AED_DATA_PATH", "data/aed_data.json"),
		DatabaseURL:    Get("DATABASE_URL", ""),
		RedisAddr:      Get("REDIS_ADDR", ""),
		LogFile:        Get("LOG_FILE", ""),
		RoutingBaseURL: strings.TrimRight(Get("ROUTING_BASE_URL", "https://router.project-osrm.org"), "/"),
		RoutingProfile: Get("ROUTING_PROFILE", "driving"),
	}

	var err error
	if cfg.RoutingEnabled, err = getBool("ROUTING_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.RouteCacheTTL, err = getDuration("ROUTE_CACHE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.DispatchAllowStacking, err = getBool("DISPATCH_ALLOW_STACKING", false); err != nil {
		return Config{}, err
	}
	if cfg.TickPeriod, err = getDuration("TICK_PERIOD", time.Second); err != nil {
		return Config{}, err
	}
	if cfg.FrameInterval, err = getDuration("FRAME_INTERVAL", 16*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.RandomSeed, err = getInt64("RANDOM_SEED", 0); err != nil {
		return Config{}, err
	}

	cfg.DispatchSelection = strings.ToLower(Get("DISPATCH_SELECTION", SelectionFixed))
	switch cfg.DispatchSelection {
	case SelectionFixed, SelectionNearest:
	default:
		return Config{}, fmt.Errorf("load config: DISPATCH_SELECTION must be %q or %q, got %q",
			SelectionFixed, SelectionNearest, cfg.DispatchSelection)
	}

	if cfg.TickPeriod <= 0 {
		return Config{}, fmt.Errorf("load config: TICK_PERIOD must be positive, got %s", cfg.TickPeriod)
	}
	if cfg.FrameInterval <= 0 {
		return Config{}, fmt.Errorf("load config: FRAME_INTERVAL must be positive, got %s", cfg.FrameInterval)
	}

	return cfg, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("load config: parse %s=%q: %w", key, raw, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("load config: parse %s=%q: %w", key, raw, err)
	}
	return v, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("load config: parse %s=%q: %w", key, raw, err)
	}
	return v, nil
}
