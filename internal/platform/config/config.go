package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

const insecureDefaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// impactSignKeys maps obligation types to the variables overriding their owner impact sign.
var impactSignKeys = map[string]string{
	"rent":        "IMPACT_SIGN_RENT",
	"expenses":    "IMPACT_SIGN_EXPENSES",
	"maintenance": "IMPACT_SIGN_MAINTENANCE",
	"tax":         "IMPACT_SIGN_TAX",
	"service":     "IMPACT_SIGN_SERVICE",
}

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	JWTSecret          string
	DBStatementTimeout time.Duration
	DBLockTimeout      time.Duration
	MigrationsPath     string

	// Overdue sweeper
	OverdueSweepSchedule string // cron spec or descriptor such as @hourly
	SweepBeforeReports   bool

	RunLegacyMigrationOnStart bool

	// Optional Redis used for the sweep lock and the rate limiter store
	RedisURL string

	RateLimit          string // ulule/limiter format, e.g. 100-M
	CORSAllowedOrigins []string

	CurrencyMinorUnits int32
	ImpactSigns        map[string]string // obligation type -> credit|debit|none
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", insecureDefaultJWTSecret)
	viper.SetDefault("DB_STATEMENT_TIMEOUT", "10s")
	viper.SetDefault("DB_LOCK_TIMEOUT", "3s")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("OVERDUE_SWEEP_SCHEDULE", "@hourly")
	viper.SetDefault("SWEEP_BEFORE_REPORTS", true)
	viper.SetDefault("RUN_LEGACY_MIGRATION_ON_START", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CURRENCY_MINOR_UNITS", 2)
	for _, key := range impactSignKeys {
		viper.SetDefault(key, "")
	}

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == insecureDefaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = insecureDefaultJWTSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	var err error
	if cfg.DBStatementTimeout, err = parseDuration("DB_STATEMENT_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.DBLockTimeout, err = parseDuration("DB_LOCK_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.OverdueSweepSchedule = strings.TrimSpace(viper.GetString("OVERDUE_SWEEP_SCHEDULE"))
	if cfg.OverdueSweepSchedule != "" {
		if _, err := cron.ParseStandard(cfg.OverdueSweepSchedule); err != nil {
			return nil, fmt.Errorf("invalid OVERDUE_SWEEP_SCHEDULE %q: %w", cfg.OverdueSweepSchedule, err)
		}
	}
	cfg.SweepBeforeReports = viper.GetBool("SWEEP_BEFORE_REPORTS")
	cfg.RunLegacyMigrationOnStart = viper.GetBool("RUN_LEGACY_MIGRATION_ON_START")
	cfg.RedisURL = viper.GetString("REDIS_URL")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	if _, err := limiter.NewRateFromFormatted(cfg.RateLimit); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	minorUnits := viper.GetInt("CURRENCY_MINOR_UNITS")
	if minorUnits < 0 || minorUnits > 8 {
		return nil, fmt.Errorf("CURRENCY_MINOR_UNITS must be between 0 and 8, got %d", minorUnits)
	}
	cfg.CurrencyMinorUnits = int32(minorUnits)

	cfg.ImpactSigns = make(map[string]string, len(impactSignKeys))
	for obType, key := range impactSignKeys {
		if sign := strings.TrimSpace(viper.GetString(key)); sign != "" {
			cfg.ImpactSigns[obType] = sign
		}
	}

	return cfg, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := viper.GetString(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
