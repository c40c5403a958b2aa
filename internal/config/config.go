package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Scoring  ScoringConfig
	Database DatabaseConfig
	Session  SessionConfig
	Cookie   CookieConfig
	OTLP     string
}

// ScoringConfig holds the external scoring service settings
type ScoringConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string
	SQLitePath string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
}

// SessionConfig holds client session settings
type SessionConfig struct {
	Secret        string
	Days          int
	PurgeSchedule string
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Name     string
	Secure   bool
	SameSite string
	Domain   string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	scoring, err := loadScoringConfig(appMode)
	if err != nil {
		return nil, err
	}

	database, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig(appMode)
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Scoring:  scoring,
		Database: database,
		Session:  session,
		Cookie:   loadCookieConfig(appMode),
		OTLP:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadScoringConfig loads the scoring service config based on mode
func loadScoringConfig(mode string) (ScoringConfig, error) {
	defaultURL := "http://127.0.0.1:8000"
	if mode == "prod" {
		defaultURL = "https://loan-risk-system-production.up.railway.app"
	}

	baseURL := strings.TrimRight(getEnv("SCORING_API_BASE_URL", defaultURL), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return ScoringConfig{}, fmt.Errorf("invalid SCORING_API_BASE_URL: '%s' (must start with http:// or https://)", baseURL)
	}

	timeoutSecs, err := strconv.Atoi(getEnv("SCORING_API_TIMEOUT_SECONDS", "15"))
	if err != nil || timeoutSecs < 1 {
		return ScoringConfig{}, fmt.Errorf("invalid SCORING_API_TIMEOUT_SECONDS: must be a positive integer")
	}

	return ScoringConfig{
		BaseURL: baseURL,
		Timeout: time.Duration(timeoutSecs) * time.Second,
	}, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := "DEV_"
	defaultDriver := "sqlite"
	if mode == "prod" {
		prefix = "PROD_"
		defaultDriver = "mysql"
	}

	driver := strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", defaultDriver)))
	if driver != "sqlite" && driver != "mysql" {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'sqlite' or 'mysql')", driver)
	}

	return DatabaseConfig{
		Driver:     driver,
		SQLitePath: getEnv("SQLITE_PATH", "riskdesk.db"),
		Host:       getEnv(prefix+"DB_HOST", "localhost"),
		Port:       getEnv(prefix+"DB_PORT", "3306"),
		User:       getEnv(prefix+"DB_USER", "root"),
		Password:   getEnv(prefix+"DB_PASS", ""),
		DBName:     getEnv(prefix+"DB_NAME", "riskdesk"),
	}, nil
}

// loadSessionConfig loads client session config based on mode
func loadSessionConfig(mode string) (SessionConfig, error) {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secret := getEnv(prefix+"SESSION_SECRET", "")
	if secret == "" {
		if mode == "prod" {
			return SessionConfig{}, fmt.Errorf("PROD_SESSION_SECRET is required in prod mode")
		}
		secret = "default_session_secret"
	}

	days, _ := strconv.Atoi(getEnv("SESSION_DAYS", "7"))
	if days < 1 {
		days = 7
	}

	return SessionConfig{
		Secret:        secret,
		Days:          days,
		PurgeSchedule: getEnv("SESSION_PURGE_SCHEDULE", "@every 15m"),
	}, nil
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Name:     getEnv("COOKIE_NAME", "riskdesk_session"),
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		// Default production origins
		return "https://loan-risk-system.vercel.app"
	}
	return origins
}
