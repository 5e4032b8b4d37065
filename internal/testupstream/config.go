// Package testupstream is an in-process fake of the remote reporting API.
// It issues tokens, enforces bearer auth and serves deterministic payloads per
// endpoint and date, with per-path overrides for failure scenarios.
package testupstream

import "time"

// Behavior overrides how one endpoint path answers.
type Behavior struct {
	// Status is written instead of 200 when non-zero.
	Status int
	// Body replaces the generated payload when non-empty.
	Body string
	// Delay holds the response; the request context still cancels it.
	Delay time.Duration
	// Times limits how often the override applies; zero means always.
	Times int
}

// Credentials accepted by generateToken.
type Credentials struct {
	SecretKey string `json:"secretKey"`
	ClientKey string `json:"clientKey"`
}
