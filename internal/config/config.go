package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Email     EmailConfig
	Cleanup   CleanupConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	TrustedProxies []string

	// Basic credentials guarding content writes (blogs/posts admin surface).
	AdminLogin    string
	AdminPassword string
}

type AuthConfig struct {
	AccessSecret       string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	CookieDomain   string
	CookieSecure   bool
	CookieSameSite string
}

// RateLimitConfig bounds repeated requests per source address. Window and
// SweepInterval are deliberately independent knobs.
type RateLimitConfig struct {
	Window        time.Duration
	SweepInterval time.Duration

	// Coarse per-IP ceiling in front of the whole API, ahead of the
	// per-category limits below.
	GlobalRequestsPerMinute int

	MaxLoginAttempts        int
	MaxRegistrationAttempts int
	MaxConfirmationAttempts int
	MaxEmailResendAttempts  int
	MaxRecoveryAttempts     int
	MaxNewPasswordAttempts  int

	// Ceiling on confirmation emails per address within EmailSendWindow.
	MaxEmailsPerAddress int
	EmailSendWindow     time.Duration
}

type EmailConfig struct {
	AWSRegion          string
	FromAddress        string
	ConfirmURLBase     string
	ConfirmCodeExpiry  time.Duration
	RecoveryCodeExpiry time.Duration
}

type CleanupConfig struct {
	Interval       time.Duration // device sessions, blacklist, stale accounts
	UnconfirmedTTL time.Duration // unconfirmed accounts older than this are removed
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	accessSecret := getEnv("ACCESS_SECRET_KEY", "")
	refreshSecret := getEnv("REFRESH_SECRET_KEY", "")
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("ACCESS_SECRET_KEY and REFRESH_SECRET_KEY are required")
	}
	if accessSecret == refreshSecret {
		return nil, fmt.Errorf("ACCESS_SECRET_KEY and REFRESH_SECRET_KEY must differ")
	}

	env := getEnv("ENV", "development")

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "bloghub"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
			TrustedProxies: parseList(getEnv("TRUSTED_PROXIES", "")),
			AdminLogin:     getEnv("BASIC_AUTH_LOGIN", "admin"),
			AdminPassword:  getEnv("BASIC_AUTH_PASSWORD", ""),
		},
		Auth: AuthConfig{
			AccessSecret:       accessSecret,
			RefreshSecret:      refreshSecret,
			AccessTokenExpiry:  getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 300*time.Second),
			RefreshTokenExpiry: getEnvAsDuration("REFRESH_TOKEN_EXPIRY", 600*time.Second),
			CookieDomain:       getEnv("COOKIE_DOMAIN", ""),
			CookieSecure:       getEnvAsBool("COOKIE_SECURE", true),
			CookieSameSite:     getEnv("COOKIE_SAMESITE", "strict"),
		},
		RateLimit: RateLimitConfig{
			Window:                  getEnvAsDuration("RATE_LIMIT_WINDOW", 10*time.Second),
			SweepInterval:           getEnvAsDuration("RATE_LIMIT_SWEEP_INTERVAL", 60*time.Second),
			GlobalRequestsPerMinute: getEnvAsInt("RATE_LIMIT_GLOBAL_PER_MINUTE", 300),
			MaxLoginAttempts:        getEnvAsInt("RATE_LIMIT_LOGIN", 5),
			MaxRegistrationAttempts: getEnvAsInt("RATE_LIMIT_REGISTRATION", 5),
			MaxConfirmationAttempts: getEnvAsInt("RATE_LIMIT_CONFIRMATION", 5),
			MaxEmailResendAttempts:  getEnvAsInt("RATE_LIMIT_EMAIL_RESENDING", 5),
			MaxRecoveryAttempts:     getEnvAsInt("RATE_LIMIT_PASSWORD_RECOVERY", 5),
			MaxNewPasswordAttempts:  getEnvAsInt("RATE_LIMIT_NEW_PASSWORD", 5),
			MaxEmailsPerAddress:     getEnvAsInt("MAX_EMAILS_PER_ADDRESS", 5),
			EmailSendWindow:         getEnvAsDuration("EMAIL_SEND_WINDOW", 1*time.Hour),
		},
		Email: EmailConfig{
			AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
			FromAddress:        getEnv("EMAIL_FROM_ADDRESS", ""),
			ConfirmURLBase:     getEnv("EMAIL_CONFIRM_URL_BASE", "http://localhost:8080"),
			ConfirmCodeExpiry:  getEnvAsDuration("CONFIRM_CODE_EXPIRY", 65*time.Minute),
			RecoveryCodeExpiry: getEnvAsDuration("RECOVERY_CODE_EXPIRY", 65*time.Minute),
		},
		Cleanup: CleanupConfig{
			Interval:       getEnvAsDuration("CLEANUP_INTERVAL", 1*time.Hour),
			UnconfirmedTTL: getEnvAsDuration("UNCONFIRMED_ACCOUNT_TTL", 24*time.Hour),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	if err := validateSecret("ACCESS_SECRET_KEY", accessSecret, env); err != nil {
		return nil, err
	}
	if err := validateSecret("REFRESH_SECRET_KEY", refreshSecret, env); err != nil {
		return nil, err
	}

	if env == "production" && cfg.Server.AdminPassword == "" {
		return nil, fmt.Errorf("BASIC_AUTH_PASSWORD is required in production")
	}

	return cfg, nil
}

// validateSecret enforces minimum strength for the JWT signing secrets
func validateSecret(name, secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("%s must be at least %d characters in %s environment (got %d)",
			name, minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("%s cannot be a common weak value", name)
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		originsStr := getEnv("ALLOWED_ORIGINS", "")
		if originsStr == "" {
			return []string{}
		}
		origins := strings.Split(originsStr, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		return origins
	}

	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
		"http://127.0.0.1:5173",
	}
}
