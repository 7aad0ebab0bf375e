package config

import "fmt"

// APIConfig defines the HTTP listener of the serve command.
type APIConfig struct {
	Addr string `json:"addr"`
	// Token, when set, must be sent as "Authorization: Bearer <token>".
	Token string `json:"token"`
	// TimeoutSeconds bounds request handling.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c APIConfig) Validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	return nil
}
