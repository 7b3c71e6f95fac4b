package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/payroll"
)

const (
	BackendModeHTTP     = "http"
	BackendModePostgres = "postgres"
)

type Config struct {
	App      AppConfig
	JWT      JWTConfig
	Backend  BackendConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Session  SessionConfig
	Leave    LeaveConfig
	MPF      MPFConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

// JWTConfig holds JWT configuration. The secret is shared with the backend
// that issues the tokens.
type JWTConfig struct {
	Secret string
}

// BackendConfig selects where leave and salary data live
type BackendConfig struct {
	Mode    string
	URL     string
	Timeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32

	// MaxConnIdleTime closes pooled connections left unused this long.
	MaxConnIdleTime time.Duration
}

type CacheConfig struct {
	TTL time.Duration
}

// SessionConfig controls how long unused drafts are kept in memory
type SessionConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

type LeaveConfig struct {
	AllowBackdate bool
	Timezone      string
}

type MPFConfig struct {
	Rate              decimal.Decimal
	MinRelevantIncome decimal.Decimal
	MaxRelevantIncome decimal.Decimal
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}
	return LoadFromEnv()
}

// LoadFromEnv builds the configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	config := &Config{}
	var errs []error

	config.App = AppConfig{
		Port:               getEnvInt("APP_PORT", 8080, &errs),
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	config.Backend = BackendConfig{
		Mode:    strings.ToLower(getEnv("BACKEND_MODE", BackendModeHTTP)),
		URL:     getEnv("BACKEND_URL", ""),
		Timeout: getEnvDuration("BACKEND_TIMEOUT", 15*time.Second, &errs),
	}

	config.Database = loadDatabase(&errs)

	config.Cache = CacheConfig{
		TTL: getEnvDuration("CACHE_TTL", 30*time.Second, &errs),
	}

	config.Session = SessionConfig{
		IdleTimeout:   getEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute, &errs),
		SweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute, &errs),
	}

	config.Leave = LeaveConfig{
		AllowBackdate: getEnvBool("LEAVE_ALLOW_BACKDATE", true, &errs),
		Timezone:      getEnv("LEAVE_TIMEZONE", "Asia/Hong_Kong"),
	}

	defaults := payroll.DefaultMPFRule()
	config.MPF = MPFConfig{
		Rate:              getEnvDecimal("MPF_RATE", defaults.Rate, &errs),
		MinRelevantIncome: getEnvDecimal("MPF_MIN_RELEVANT_INCOME", defaults.MinRelevantIncome, &errs),
		MaxRelevantIncome: getEnvDecimal("MPF_MAX_RELEVANT_INCOME", defaults.MaxRelevantIncome, &errs),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	switch c.Backend.Mode {
	case BackendModeHTTP:
		if c.Backend.URL == "" {
			return fmt.Errorf("BACKEND_URL is required when BACKEND_MODE=%s", BackendModeHTTP)
		}
	case BackendModePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when BACKEND_MODE=%s", BackendModePostgres)
		}
	default:
		return fmt.Errorf("BACKEND_MODE must be %q or %q, got %q", BackendModeHTTP, BackendModePostgres, c.Backend.Mode)
	}

	if _, err := c.Leave.Location(); err != nil {
		return fmt.Errorf("invalid LEAVE_TIMEZONE: %w", err)
	}

	if c.MPF.Rate.IsNegative() || c.MPF.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("MPF_RATE must be between 0 and 1")
	}
	if c.MPF.MinRelevantIncome.GreaterThan(c.MPF.MaxRelevantIncome) {
		return fmt.Errorf("MPF_MIN_RELEVANT_INCOME must not exceed MPF_MAX_RELEVANT_INCOME")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return c.Database.URL()
}

func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
		c.SSLMode,
	)
}

// LoadDatabase reads only the DB_* settings, for tools that never serve
// requests.
func LoadDatabase() (DatabaseConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}
	var errs []error
	db := loadDatabase(&errs)
	if len(errs) > 0 {
		return DatabaseConfig{}, errors.Join(errs...)
	}
	return db, nil
}

func loadDatabase(errs *[]error) DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432, errs),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "employee_portal"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(getEnvInt("DB_MAX_CONNS", 25, errs)),
		MinConns: int32(getEnvInt("DB_MIN_CONNS", 5, errs)),

		MaxConnIdleTime: getEnvDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute, errs),
	}
}

func (c LeaveConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c MPFConfig) Rule() payroll.MPFRule {
	return payroll.MPFRule{
		Rate:              c.Rate,
		MinRelevantIncome: c.MinRelevantIncome,
		MaxRelevantIncome: c.MaxRelevantIncome,
	}
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c AppConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool, errs *[]error) bool {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return d
}

func getEnvDecimal(key string, fallback decimal.Decimal, errs *[]error) decimal.Decimal {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return d
}
