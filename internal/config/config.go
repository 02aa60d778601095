// Package config loads the server configuration from an optional YAML file
// and SV_* environment variables.
package config

// Config holds the server settings for sv serve.
type Config struct {
	Port        int    `yaml:"port" env:"SV_PORT" env-default:"8080"`
	DBPath      string `yaml:"db_path" env:"SV_DB_PATH"`
	Storage     string `yaml:"storage" env:"SV_STORAGE" env-default:"sqlite"`
	StoragePath string `yaml:"storage_path" env:"SV_STORAGE_PATH"`
	DevMode     bool   `yaml:"dev_mode" env:"SV_DEV_MODE"`
	LogLevel    string `yaml:"log_level" env:"SV_LOG_LEVEL" env-default:"info"`

	StaffPassword  string `yaml:"staff_password" env:"SV_STAFF_PASSWORD" env-default:"admin123"`
	SessionCleanup string `yaml:"session_cleanup" env:"SV_SESSION_CLEANUP" env-default:"@hourly"`

	BaseURL         string `yaml:"base_url" env:"SV_BASE_URL"`
	RegistrationURL string `yaml:"registration_url" env:"SV_REGISTRATION_URL"`

	LLM LLMConfig `yaml:"llm"`
}

// LLMConfig configures the advisory collaborator. An empty APIKey disables it.
type LLMConfig struct {
	APIKey  string `yaml:"api_key" env:"SV_LLM_API_KEY"`
	Model   string `yaml:"model" env:"SV_LLM_MODEL" env-default:"claude-3-5-haiku-latest"`
	BaseURL string `yaml:"base_url" env:"SV_LLM_BASE_URL"`
}

// Enabled reports whether an LLM backend is configured.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}
