package config_test

import (
	"testing"
	"time"

	"github.com/SscSPs/property_ledger/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PGSQL_URL", "postgres://ledger@localhost/ledger")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "@hourly", cfg.OverdueSweepSchedule)
	assert.True(t, cfg.SweepBeforeReports)
	assert.Equal(t, 10*time.Second, cfg.DBStatementTimeout)
	assert.Equal(t, 3*time.Second, cfg.DBLockTimeout)
	assert.Equal(t, int32(2), cfg.CurrencyMinorUnits)
	assert.Empty(t, cfg.ImpactSigns)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("OVERDUE_SWEEP_SCHEDULE", "*/15 * * * *")
	t.Setenv("IMPACT_SIGN_TAX", "none")
	t.Setenv("CURRENCY_MINOR_UNITS", "0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("DB_LOCK_TIMEOUT", "750ms")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "*/15 * * * *", cfg.OverdueSweepSchedule)
	assert.Equal(t, map[string]string{"tax": "none"}, cfg.ImpactSigns)
	assert.Equal(t, int32(0), cfg.CurrencyMinorUnits)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 750*time.Millisecond, cfg.DBLockTimeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad schedule", key: "OVERDUE_SWEEP_SCHEDULE", val: "every hour"},
		{name: "bad rate limit", key: "RATE_LIMIT", val: "lots"},
		{name: "bad duration", key: "DB_STATEMENT_TIMEOUT", val: "ten seconds"},
		{name: "minor units out of range", key: "CURRENCY_MINOR_UNITS", val: "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := config.LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("JWT_SECRET", "")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}
