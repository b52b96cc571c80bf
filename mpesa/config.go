// SPDX-License-Identifier: GPL-3.0-only

package mpesa

import (
	"fmt"
	"rentdesk-server/commons"
	"strings"
	"time"
)

type Environment string

const (
	Sandbox    Environment = "sandbox"
	Production Environment = "production"
)

const (
	SandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	ProductionBaseURL = "https://api.safaricom.co.ke"
)

const DefaultTimeout = 30 * time.Second

// Config is read once when the client is constructed. Timeout is mandatory:
// both outbound calls are bounded by it.
type Config struct {
	Environment    Environment
	ConsumerKey    string
	ConsumerSecret string
	Shortcode      string
	Passkey        string
	CallbackURL    string
	Timeout        time.Duration
	// BaseURL overrides the host selected by Environment.
	BaseURL string
}

// LoadConfig reads the MPESA_* variables.
func LoadConfig() Config {
	return Config{
		Environment:    Environment(strings.ToLower(commons.GetEnv("MPESA_ENVIRONMENT", string(Sandbox)))),
		ConsumerKey:    commons.GetEnv("MPESA_CONSUMER_KEY"),
		ConsumerSecret: commons.GetEnv("MPESA_CONSUMER_SECRET"),
		Shortcode:      commons.GetEnv("MPESA_SHORTCODE"),
		Passkey:        commons.GetEnv("MPESA_PASSKEY"),
		CallbackURL:    commons.GetEnv("MPESA_CALLBACK_URL"),
		Timeout:        commons.GetEnvDuration("MPESA_TIMEOUT", DefaultTimeout),
		BaseURL:        commons.GetEnv("MPESA_BASE_URL"),
	}
}

func (c Config) resolveBaseURL() (string, error) {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/"), nil
	}
	switch c.Environment {
	case Sandbox:
		return SandboxBaseURL, nil
	case Production:
		return ProductionBaseURL, nil
	default:
		return "", fmt.Errorf("unknown M-Pesa environment %q, expected %q or %q", c.Environment, Sandbox, Production)
	}
}

func (c Config) validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("M-Pesa timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
