// Manages server configuration stored in server_config.json.

package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config stores all server-wide configuration.
// Loaded from server_config.json, created with defaults if missing.
type Config struct {
	// AdminToken authorizes mutations. Compared for exact equality against
	// the X-Admin-Token request header. Auto-generated if empty on first
	// load; the ADMIN_TOKEN environment variable overrides it.
	AdminToken string `json:"admin_token"`

	// RateLimits defines rate limiting for write endpoints.
	RateLimits RateLimits `json:"rate_limits"`

	// DataDir is the directory holding the document file, history snapshots
	// and this configuration. Not persisted; set from the -data-dir flag.
	DataDir string `json:"-"`

	// RemoteURL and RemoteKey select the remote backend when both are set.
	// Supplied via SUPABASE_URL / SUPABASE_SERVICE_KEY, never persisted.
	RemoteURL string `json:"-"`
	RemoteKey string `json:"-"`
}

// RateLimits defines rate limiting configuration (requests per minute).
type RateLimits struct {
	// WriteRatePerMin limits mutation requests per client.
	// 0 means unlimited.
	WriteRatePerMin int `json:"write_rate_per_min"`
}

// Validate checks that rate limit values are non-negative.
func (r *RateLimits) Validate() error {
	if r.WriteRatePerMin < 0 {
		return errors.New("write_rate_per_min must be non-negative")
	}
	return nil
}

// DefaultRateLimits returns the default rate limits.
func DefaultRateLimits() RateLimits {
	return RateLimits{WriteRatePerMin: 60}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.AdminToken == "" {
		return errors.New("admin_token is required")
	}
	if err := c.RateLimits.Validate(); err != nil {
		return fmt.Errorf("rate_limits: %w", err)
	}
	return nil
}

// LoadConfig loads configuration from dataDir/server_config.json.
// Creates the file with defaults if it doesn't exist.
// Auto-generates AdminToken if empty.
func LoadConfig(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, "server_config.json")

	cfg := Config{RateLimits: DefaultRateLimits()}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is constructed from dataDir, not user input
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read server_config.json: %w", err)
		}
		// File doesn't exist, will create with defaults
	} else {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse server_config.json: %w", err)
		}
	}

	// Auto-generate admin token if missing
	modified := false
	if cfg.AdminToken == "" {
		b := make([]byte, 24)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("failed to generate admin token: %w", err)
		}
		cfg.AdminToken = fmt.Sprintf("%x", b)
		modified = true
	}

	// Save if we created defaults or generated a token
	if modified || errors.Is(err, os.ErrNotExist) {
		if err := cfg.Save(dataDir); err != nil {
			return nil, err
		}
	}

	cfg.DataDir = dataDir
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server_config.json: %w", err)
	}
	return &cfg, nil
}

// Save saves configuration to dataDir/server_config.json.
func (c *Config) Save(dataDir string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dataDir, "server_config.json"), data, 0o600); err != nil {
		return fmt.Errorf("failed to write server_config.json: %w", err)
	}
	return nil
}
