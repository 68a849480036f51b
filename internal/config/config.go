package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	JWT      JWTConfig
	Personio PersonioConfig
	Cache    CacheConfig
	Projects ProjectsConfig
	Accounts AccountsConfig
	Database DatabaseConfig
	Warmup   WarmupConfig
	Storage  StorageConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
	CompanyName    string
}

// JWTConfig holds JWT configuration for dashboard sessions
type JWTConfig struct {
	Secret           string
	AccessExpiration string
	SecureCookie     bool
}

// PersonioConfig holds the upstream HR API credentials
type PersonioConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	PageSize     int
	Timeout      time.Duration
}

// CacheConfig holds freshness windows for cached aggregates
type CacheConfig struct {
	Default       time.Duration
	CurrentMonth  time.Duration
	PreviousMonth time.Duration
	OlderMonths   time.Duration
}

// ProjectsConfig holds the naming convention for external projects
type ProjectsConfig struct {
	ExternalPrefix     string
	ExclusionSubstring string
	DisplayPrefixLen   int
}

// AccountsConfig selects where dashboard accounts are stored
type AccountsConfig struct {
	Driver        string
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type WarmupConfig struct {
	Interval time.Duration
}

// StorageConfig holds where the CLI writes rendered reports
type StorageConfig struct {
	BasePath string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	} else if err != nil {
		slog.Debug("No .env file found, using process environment")
	}

	config := &Config{}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS"),
		CompanyName:    getEnv("COMPANY_NAME", ""),
	}
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{"http://localhost:3000"}
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
		SecureCookie:     config.App.Env == "production",
	}

	// Personio configuration
	pageSize, err := getEnvInt("PERSONIO_PAGE_SIZE", 200)
	if err != nil {
		return nil, err
	}
	personioTimeout, err := getEnvDuration("PERSONIO_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	config.Personio = PersonioConfig{
		BaseURL:      getEnv("PERSONIO_BASE_URL", "https://api.personio.de"),
		ClientID:     getEnv("PERSONIO_CLIENT_ID", ""),
		ClientSecret: getEnv("PERSONIO_CLIENT_SECRET", ""),
		PageSize:     pageSize,
		Timeout:      personioTimeout,
	}

	// Cache configuration
	config.Cache.Default, err = getEnvDuration("CACHE_TTL_DEFAULT", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	config.Cache.CurrentMonth, err = getEnvDuration("CACHE_TTL_CURRENT_MONTH", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	config.Cache.PreviousMonth, err = getEnvDuration("CACHE_TTL_PREVIOUS_MONTH", 6*time.Hour)
	if err != nil {
		return nil, err
	}
	config.Cache.OlderMonths, err = getEnvDuration("CACHE_TTL_OLDER_MONTHS", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	// External project naming convention
	prefixLen, err := getEnvInt("PROJECT_DISPLAY_PREFIX_LEN", 5)
	if err != nil {
		return nil, err
	}
	config.Projects = ProjectsConfig{
		ExternalPrefix:     getEnv("PROJECT_EXTERNAL_PREFIX", "_ext"),
		ExclusionSubstring: getEnv("PROJECT_EXCLUSION_SUBSTRING", "RDA"),
		DisplayPrefixLen:   prefixLen,
	}

	// Accounts
	config.Accounts = AccountsConfig{
		Driver:        getEnv("ACCOUNTS_DRIVER", "memory"),
		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	// Database configuration, only used by the postgres accounts driver
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timesheet_reports"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Warmup.Interval, err = getEnvDuration("WARMUP_INTERVAL", 0)
	if err != nil {
		return nil, err
	}

	config.Storage.BasePath = getEnv("REPORT_OUTPUT_DIR", "./reports")

	return config, nil
}

// Validate validates the configuration needed by the API server
func (c *Config) Validate() error {
	if err := c.ValidatePersonio(); err != nil {
		return err
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	switch c.Accounts.Driver {
	case "memory":
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when ACCOUNTS_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported ACCOUNTS_DRIVER: %q", c.Accounts.Driver)
	}
	return nil
}

// ValidatePersonio validates only the upstream credentials; the CLI needs nothing else.
func (c *Config) ValidatePersonio() error {
	if c.Personio.ClientID == "" {
		return fmt.Errorf("PERSONIO_CLIENT_ID is required")
	}
	if c.Personio.ClientSecret == "" {
		return fmt.Errorf("PERSONIO_CLIENT_SECRET is required")
	}
	if c.Personio.PageSize <= 0 {
		return fmt.Errorf("PERSONIO_PAGE_SIZE must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
