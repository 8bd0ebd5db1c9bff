package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/intriguedcoder/medical-report-agent/internal/logger"
)

type Config struct {
	// Sarvam Configuration
	SarvamAPIKey string

	// Google Cloud Configuration
	GoogleCloudProject      string
	GoogleCloudLocation     string
	DocumentAIProcessorID   string
	GoogleServiceAccountKey string

	// Analysis Configuration
	DefaultLanguage string
	EnableAI        bool
	TTSCharLimit    int

	// Server Configuration
	ServerAddr  string
	AudioDir    string
	DedupTTLMin int

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		SarvamAPIKey:            getEnv("SARVAM_API_KEY", ""),
		GoogleCloudProject:      getEnv("GOOGLE_CLOUD_PROJECT", getEnv("GOOGLE_PROJECT_ID", "")),
		GoogleCloudLocation:     getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID:   getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		GoogleServiceAccountKey: getEnv("GOOGLE_SERVICE_ACCOUNT_KEY", ""),
		DefaultLanguage:         getEnv("DEFAULT_LANGUAGE", "en-IN"),
		EnableAI:                getEnvBool("ENABLE_AI_ANALYSIS", true),
		TTSCharLimit:            getEnvInt("TTS_CHAR_LIMIT", 500),
		ServerAddr:              getEnv("SERVER_ADDR", ":8080"),
		AudioDir:                getEnv("AUDIO_DIR", "static/audio"),
		DedupTTLMin:             getEnvInt("DEDUP_TTL_MINUTES", 60),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:           getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:               getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.SarvamAPIKey == "" {
		return fmt.Errorf("SARVAM_API_KEY is required")
	}
	if c.TTSCharLimit <= 0 {
		return fmt.Errorf("TTS_CHAR_LIMIT must be positive")
	}
	return nil
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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
