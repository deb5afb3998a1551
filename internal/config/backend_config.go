package config

import (
	"strconv"
	"time"
)

// BackendConfig describes how to reach the consular backend REST API.
type BackendConfig interface {
	GetBackendBaseURL() string
	GetBackendTimeout() time.Duration
}

const (
	backendURLVar     = "BACKEND_URL"
	backendTimeoutVar = "BACKEND_TIMEOUT_SECONDS"

	defaultBackendURL     = "http://localhost:4000"
	defaultBackendTimeout = 10 * time.Second
)

type Backend struct{}

var _ BackendConfig = Backend{}

func (Backend) GetBackendBaseURL() string {
	return GetEnv(backendURLVar, defaultBackendURL)
}

func (Backend) GetBackendTimeout() time.Duration {
	raw := GetEnv(backendTimeoutVar, "")
	if raw == "" {
		return defaultBackendTimeout
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return defaultBackendTimeout
	}
	return time.Duration(seconds) * time.Second
}
