package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/evcraddock/smartvisit/internal/db"
	"github.com/evcraddock/smartvisit/internal/slot"
)

// Validate checks the loaded configuration and fills derived defaults.
// Load calls it automatically.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535 (got %d)", c.Port)
	}

	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	if c.Storage == "" {
		c.Storage = slot.MediumSQLite
	}
	if !validMedium(c.Storage) {
		return fmt.Errorf("storage must be one of %s (got %q)", strings.Join(slot.ValidMedia, ", "), c.Storage)
	}
	if c.Storage != slot.MediumSQLite && c.StoragePath == "" {
		return fmt.Errorf("storage_path is required for storage %q", c.Storage)
	}

	if c.DBPath == "" {
		path, err := db.DefaultPath()
		if err != nil {
			return fmt.Errorf("db_path: %w", err)
		}
		c.DBPath = path
	}

	if c.StaffPassword == "" {
		return fmt.Errorf("staff_password must not be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error (got %q)", c.LogLevel)
	}

	if c.BaseURL == "" {
		c.BaseURL = fmt.Sprintf("http://localhost:%d", c.Port)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if err := checkURL(c.BaseURL); err != nil {
		return fmt.Errorf("base_url: %w", err)
	}

	if c.RegistrationURL == "" {
		c.RegistrationURL = c.BaseURL + "/"
	}
	if err := checkURL(c.RegistrationURL); err != nil {
		return fmt.Errorf("registration_url: %w", err)
	}

	if c.LLM.Enabled() && c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required when llm.api_key is set")
	}

	return nil
}

func validMedium(m string) bool {
	for _, v := range slot.ValidMedia {
		if v == m {
			return true
		}
	}
	return false
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https (got %q)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
