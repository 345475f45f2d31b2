package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	// Server
	Environment string
	Port        int
	APIVersion  string
	LogLevel    string
	TrustRealIP bool

	// Database
	DatabaseDriver string
	DatabaseURL    string
	SQLitePath     string
	DBMaxConns     int

	// Redis
	RedisURL        string
	SummaryCacheTTL time.Duration

	// Statistics
	StatsFile      string
	StatsSchedule  string
	BiotoolsAPIURL string

	// Analyzer
	AnalyzerCommand       []string
	AnalyzerTimeout       time.Duration
	AnalyzerExitMalformed int
	AnalyzerExitNoData    int

	// Relint
	RelintInterval         time.Duration
	RelintValidationStatus int
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:            getEnv("ENV", "development"),
		Port:                   getEnvInt("PORT", 3000),
		APIVersion:             getEnv("API_VERSION", "1.0.0"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		TrustRealIP:            getEnvBool("TRUST_REAL_IP", true),
		DatabaseDriver:         strings.ToLower(getEnv("DATABASE_DRIVER", DriverPostgres)),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		SQLitePath:             getEnv("SQLITE_PATH", "./data/messages.db"),
		DBMaxConns:             getEnvInt("DB_MAX_CONNS", 5),
		RedisURL:               getEnv("REDIS_URL", ""),
		SummaryCacheTTL:        getEnvDuration("SUMMARY_CACHE_TTL", time.Minute),
		StatsFile:              getEnv("STATS_FILE", ""),
		StatsSchedule:          getEnv("STATS_SCHEDULE", ""),
		BiotoolsAPIURL:         getEnv("BIOTOOLS_API_URL", "https://bio.tools/api/tool/?format=json"),
		AnalyzerCommand:        strings.Fields(getEnv("ANALYZER_COMMAND", "python3 ../linter/cli.py")),
		AnalyzerTimeout:        getEnvDuration("ANALYZER_TIMEOUT", 0),
		AnalyzerExitMalformed:  getEnvInt("ANALYZER_EXIT_MALFORMED", 1),
		AnalyzerExitNoData:     getEnvInt("ANALYZER_EXIT_NO_DATA", 3),
		RelintInterval:         getEnvDuration("RELINT_INTERVAL", 2*time.Second),
		RelintValidationStatus: getEnvInt("RELINT_VALIDATION_STATUS", 500),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combination of settings.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DatabaseDriver)
	}
	if c.StatsFile == "" {
		return fmt.Errorf("STATS_FILE is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if len(c.AnalyzerCommand) == 0 {
		return fmt.Errorf("ANALYZER_COMMAND is required")
	}
	if c.AnalyzerTimeout < 0 {
		return fmt.Errorf("ANALYZER_TIMEOUT must not be negative")
	}
	if c.AnalyzerExitMalformed == 0 || c.AnalyzerExitNoData == 0 {
		return fmt.Errorf("analyzer exit codes must be non-zero")
	}
	if c.AnalyzerExitMalformed == c.AnalyzerExitNoData {
		return fmt.Errorf("ANALYZER_EXIT_MALFORMED and ANALYZER_EXIT_NO_DATA must differ")
	}
	if c.RelintInterval <= 0 {
		return fmt.Errorf("RELINT_INTERVAL must be positive")
	}
	if c.RelintValidationStatus != 400 && c.RelintValidationStatus != 500 {
		return fmt.Errorf("RELINT_VALIDATION_STATUS must be 400 or 500")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") and bare seconds ("90").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
