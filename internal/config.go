package internal

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// Safe fallbacks applied when the token TTL configuration is malformed.
	// Startup proceeds with these rather than failing.
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
	DefaultResetTokenTTL   = 30 * time.Minute

	DefaultRefreshCookieName = "refreshToken"
)

type Config struct {
	Environment   string              `mapstructure:"environment"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Mail          MailConfig          `mapstructure:"mail"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source" validate:"required"`
}

type SecurityConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// Raw values from configuration; read through AccessTokenTTL and
	// RefreshTokenTTL so malformed values degrade to defaults.
	AccessTokenMinutes string `mapstructure:"access_token_minutes"`
	RefreshTokenDays   string `mapstructure:"refresh_token_days"`
	ResetTokenMinutes  string `mapstructure:"reset_token_minutes"`

	BCryptCost        int    `mapstructure:"bcrypt_cost" validate:"required,min=10,max=15"`
	RefreshCookieName string `mapstructure:"refresh_cookie_name"`
}

type MailConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromAddress string `mapstructure:"from_address"`
	FrontendURL string `mapstructure:"frontend_url"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json text"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ----------------- HELPERS -----------------

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

// LoadConfigFromEnv builds configuration purely from environment variables,
// used for container deployments without a config file.
func LoadConfigFromEnv() *Config {
	return &Config{
		Environment: getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("BASE_URL", ""),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", ""),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Database: DatabaseConfig{
			Source:          getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Security: SecurityConfig{
			JWTSecret:          getEnv("JWT_SECRET", ""),
			AccessTokenMinutes: getEnv("ACCESS_TOKEN_MINUTES", "15"),
			RefreshTokenDays:   getEnv("REFRESH_TOKEN_DAYS", "7"),
			ResetTokenMinutes:  getEnv("RESET_TOKEN_MINUTES", "30"),
			BCryptCost:         getEnvAsInt("BCRYPT_COST", 12),
			RefreshCookieName:  getEnv("REFRESH_COOKIE_NAME", DefaultRefreshCookieName),
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: getEnv("METRICS_ENABLED", "true") == "true",
				Path:    getEnv("METRICS_PATH", "/metrics"),
			},
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
		Mail: MailConfig{
			Host:        getEnv("SMTP_HOST", ""),
			Port:        getEnvAsInt("SMTP_PORT", 587),
			Username:    getEnv("SMTP_USERNAME", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			FromAddress: getEnv("SMTP_FROM", "no-reply@pos.local"),
			FrontendURL: getEnv("FRONTEND_URL", ""),
		},
	}
}

// ----------------- VALIDATION -----------------

var configValidator = validator.New()

func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}
	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return fmt.Errorf("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

// AccessTokenTTL parses the configured access-token lifetime in minutes,
// falling back to 15 minutes when the value is missing or malformed. The
// fallback is logged rather than failing startup.
func (c *SecurityConfig) AccessTokenTTL() time.Duration {
	if c.AccessTokenMinutes == "" {
		return DefaultAccessTokenTTL
	}
	minutes, err := strconv.Atoi(c.AccessTokenMinutes)
	if err != nil || minutes <= 0 {
		slog.Warn("malformed access_token_minutes, using default",
			"value", c.AccessTokenMinutes,
			"default", DefaultAccessTokenTTL)
		return DefaultAccessTokenTTL
	}
	return time.Duration(minutes) * time.Minute
}

// RefreshTokenTTL parses the configured refresh-token lifetime in days,
// falling back to 7 days on malformed input.
func (c *SecurityConfig) RefreshTokenTTL() time.Duration {
	if c.RefreshTokenDays == "" {
		return DefaultRefreshTokenTTL
	}
	days, err := strconv.Atoi(c.RefreshTokenDays)
	if err != nil || days <= 0 {
		slog.Warn("malformed refresh_token_days, using default",
			"value", c.RefreshTokenDays,
			"default", DefaultRefreshTokenTTL)
		return DefaultRefreshTokenTTL
	}
	return time.Duration(days) * 24 * time.Hour
}

func (c *SecurityConfig) ResetTokenTTL() time.Duration {
	if c.ResetTokenMinutes == "" {
		return DefaultResetTokenTTL
	}
	minutes, err := strconv.Atoi(c.ResetTokenMinutes)
	if err != nil || minutes <= 0 {
		slog.Warn("malformed reset_token_minutes, using default",
			"value", c.ResetTokenMinutes,
			"default", DefaultResetTokenTTL)
		return DefaultResetTokenTTL
	}
	return time.Duration(minutes) * time.Minute
}

func (c *SecurityConfig) CookieName() string {
	if c.RefreshCookieName == "" {
		return DefaultRefreshCookieName
	}
	return c.RefreshCookieName
}
