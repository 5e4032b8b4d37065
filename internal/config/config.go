// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and HEALTHFETCH_ env vars.
// - External errors must be wrapped with this package's sentinel kinds.
package config

import (
	"time"
)

// Database drivers understood by the repository layer.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogJSON switches log records to JSON.
	LogJSON bool `koanf:"log_json"`
	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// APIBaseURL is the root of the reporting API; paths are appended to it.
	APIBaseURL string `koanf:"api_base_url"`
	// APISecretKey and APIClientKey form the credential pair sent to generateToken.
	APISecretKey string `koanf:"api_secret_key"`
	APIClientKey string `koanf:"api_client_key"`

	// DBDriver selects the record store: postgres or sqlite.
	DBDriver string `koanf:"db_driver"`
	// DBDSN is the driver specific connection string.
	DBDSN string `koanf:"db_dsn"`
	// TableName is the target table for daily records.
	TableName string `koanf:"table_name"`

	// TokenTimeoutMS bounds a single credential exchange attempt.
	TokenTimeoutMS int `koanf:"token_timeout_ms"`
	// FetchTimeoutMS bounds a single endpoint fetch attempt.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`
	// MaxRetries is the number of retries after the first attempt on transient failures.
	MaxRetries int `koanf:"max_retries"`
	// BackoffFactorMS is the base of the exponential backoff (factor, 2*factor, ...).
	BackoffFactorMS int `koanf:"backoff_factor_ms"`
	// InsecureSkipVerify disables TLS certificate validation for the upstream API.
	// The reporting API serves a certificate that does not validate.
	InsecureSkipVerify bool `koanf:"insecure_skip_verify"`
	// RequestRPS caps upstream requests per second; 0 means unlimited.
	RequestRPS float64 `koanf:"request_rps"`
	// FanOutWorkers sizes the per-date worker pool; 0 means one per endpoint.
	FanOutWorkers int `koanf:"fan_out_workers"`

	// StateName, FocusArea and Source are constant bookkeeping columns.
	StateName string `koanf:"state_name"`
	FocusArea string `koanf:"focus_area"`
	Source    string `koanf:"source"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8000",
		APIBaseURL:         "https://bipard.bhavyabiharhealth.in/api/bhavya",
		DBDriver:           DriverSQLite,
		DBDSN:              "file:healthfetch.db",
		TableName:          "bhavya_realtime_health__report_data",
		TokenTimeoutMS:     30_000,
		FetchTimeoutMS:     10_000,
		MaxRetries:         2,
		BackoffFactorMS:    1_000,
		InsecureSkipVerify: true,
		RequestRPS:         0,
		FanOutWorkers:      0,
		StateName:          "Bihar",
		FocusArea:          "State Health System Performance",
		Source:             "Bhavya",
	}
}

// TokenTimeout returns the credential exchange timeout.
func (c *Config) TokenTimeout() time.Duration {
	return time.Duration(c.TokenTimeoutMS) * time.Millisecond
}

// FetchTimeout returns the endpoint fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// BackoffFactor returns the retry backoff base.
func (c *Config) BackoffFactor() time.Duration {
	return time.Duration(c.BackoffFactorMS) * time.Millisecond
}
