package config

import (
	"fmt"
	"os"

	"invoicebridge/internal/logger"
	"invoicebridge/internal/zoho"
)

type Config struct {
	// Zoho Books Configuration
	ZohoClientID     string
	ZohoClientSecret string
	ZohoRefreshToken string
	ZohoOrgID        string
	ZohoDC           string

	// Document Understanding Configuration
	GeminiAPIKey string
	GeminiModel  string

	// Optional: LLM line-item structuring
	OpenAIAPIKey string
	OpenAIModel  string

	// HTTP Server Configuration
	Port         string
	ResponsesDir string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from the environment. Nothing is required
// at load time: each command validates the slice of configuration it
// actually needs (RequireZoho, RequireGemini), so the parse-only path
// works with an empty environment.
func Load() *Config {
	return &Config{
		ZohoClientID:     getEnv("ZOHO_CLIENT_ID", ""),
		ZohoClientSecret: getEnv("ZOHO_CLIENT_SECRET", ""),
		ZohoRefreshToken: getEnv("ZOHO_REFRESH_TOKEN", ""),
		ZohoOrgID:        getEnv("ZOHO_ORG_ID", ""),
		ZohoDC:           getEnv("ZOHO_DC", "com"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-pro"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		Port:             getEnv("PORT", "8000"),
		ResponsesDir:     getEnv("RESPONSES_DIR", "responses"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:    getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:        getEnv("LOG_OUTPUT", "stdout"),
	}
}

// RequireZoho validates the accounting-platform credentials.
func (c *Config) RequireZoho() error {
	if c.ZohoClientID == "" {
		return fmt.Errorf("ZOHO_CLIENT_ID is required")
	}
	if c.ZohoClientSecret == "" {
		return fmt.Errorf("ZOHO_CLIENT_SECRET is required")
	}
	if c.ZohoRefreshToken == "" {
		return fmt.Errorf("ZOHO_REFRESH_TOKEN is required")
	}
	if c.ZohoOrgID == "" {
		return fmt.Errorf("ZOHO_ORG_ID is required")
	}
	return nil
}

// RequireGemini validates the document-understanding credentials.
func (c *Config) RequireGemini() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	return nil
}

// ZohoConfig returns the sync-client configuration slice.
func (c *Config) ZohoConfig() zoho.Config {
	return zoho.Config{
		ClientID:       c.ZohoClientID,
		ClientSecret:   c.ZohoClientSecret,
		RefreshToken:   c.ZohoRefreshToken,
		OrganizationID: c.ZohoOrgID,
		Region:         c.ZohoDC,
	}
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
