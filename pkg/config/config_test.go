package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_AIProviderConfig(t *testing.T) {
	os.Setenv("OPENAI_API_KEY", "sk-test")
	os.Setenv("OPENAI_PRIORITY", "12")
	os.Setenv("GEMINI_ENABLED", "false")
	defer func() {
		os.Unsetenv("OPENAI_API_KEY")
		os.Unsetenv("OPENAI_PRIORITY")
		os.Unsetenv("GEMINI_ENABLED")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, 12, cfg.OpenAI.Priority)
	assert.True(t, cfg.OpenAI.Enabled)
	assert.False(t, cfg.Gemini.Enabled)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("STORAGE_DRIVER")
	os.Unsetenv("OPENAI_MODEL")
	os.Unsetenv("OPENAI_TIMEOUT_SECONDS")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 20, cfg.OpenAI.TimeoutSeconds)
	assert.Equal(t, "mock", cfg.Geolocation.Provider)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "app",
		Password: "secret",
		Database: "vitalpoint",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5433 user=app password=secret dbname=vitalpoint sslmode=disable", cfg.DatabaseDSN())
}
