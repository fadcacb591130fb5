package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	apiconfig "github.com/Danielbeltranh/competencia-los-cabos/services/api/config"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultProbeRPS       = 4.0
	defaultProbeWorkers   = 8
	defaultMaxDistanceKM  = 60.0
)

// Config holds runtime configuration for the catalogue auditor. The data
// source, anchor and lookup tables are shared with the dashboard API.
type Config struct {
	App            apiconfig.Config
	RequestTimeout time.Duration
	ProbeRPS       float64
	ProbeWorkers   int
	MaxDistanceKM  float64
}

// Load reads the shared configuration plus AUDITOR_* environment variables.
func Load() (Config, error) {
	app, err := apiconfig.Load()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		App:            app,
		RequestTimeout: defaultRequestTimeout,
		ProbeRPS:       defaultProbeRPS,
		ProbeWorkers:   defaultProbeWorkers,
		MaxDistanceKM:  defaultMaxDistanceKM,
	}

	if v := strings.TrimSpace(os.Getenv("AUDITOR_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid AUDITOR_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	if v := strings.TrimSpace(os.Getenv("AUDITOR_PROBE_RPS")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return cfg, fmt.Errorf("invalid AUDITOR_PROBE_RPS: %s", v)
		}
		cfg.ProbeRPS = f
	}

	if v := strings.TrimSpace(os.Getenv("AUDITOR_PROBE_WORKERS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid AUDITOR_PROBE_WORKERS: %s", v)
		}
		cfg.ProbeWorkers = n
	}

	if v := strings.TrimSpace(os.Getenv("AUDITOR_MAX_DISTANCE_KM")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return cfg, fmt.Errorf("invalid AUDITOR_MAX_DISTANCE_KM: %s", v)
		}
		cfg.MaxDistanceKM = f
	}

	return cfg, nil
}
