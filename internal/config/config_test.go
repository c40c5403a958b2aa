package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.Scoring.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Scoring.Timeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "riskdesk_session", cfg.Cookie.Name)
	assert.Equal(t, 7, cfg.Session.Days)
	assert.NotEmpty(t, cfg.Session.Secret)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
	assert.Same(t, cfg, AppConfig)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("SCORING_API_BASE_URL", "https://scoring.internal/")
	t.Setenv("SCORING_API_TIMEOUT_SECONDS", "3")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DEV_DB_NAME", "risk_dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://scoring.internal", cfg.Scoring.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Scoring.Timeout)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "risk_dev", cfg.Database.DBName)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad mode", map[string]string{"APP_MODE": "staging"}},
		{"bad url", map[string]string{"APP_MODE": "dev", "SCORING_API_BASE_URL": "scoring:8000"}},
		{"bad timeout", map[string]string{"APP_MODE": "dev", "SCORING_API_TIMEOUT_SECONDS": "0"}},
		{"bad driver", map[string]string{"APP_MODE": "dev", "DB_DRIVER": "postgres"}},
		{"prod without secret", map[string]string{"APP_MODE": "prod"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
