// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all service configuration
type Config struct {
	Port            string        `env:"PORT" envDefault:"3001"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	Log        LogConfig
	CORS       CORSConfig       `envPrefix:"CORS_"`
	Mongo      MongoConfig      `envPrefix:"MONGO_"`
	Redis      RedisConfig      `envPrefix:"REDIS_"`
	Assessment AssessmentConfig `envPrefix:"ASSESSMENT_"`
	AI         AIConfig         `envPrefix:"GEMINI_"`
	Mail       MailConfig       `envPrefix:"EMAIL_"`
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"` // text or json
}

// CORSConfig is applied to every REST response
type CORSConfig struct {
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"*"`
	AllowedMethods string `env:"ALLOWED_METHODS" envDefault:"GET, POST, PUT, DELETE, OPTIONS"`
	AllowedHeaders string `env:"ALLOWED_HEADERS" envDefault:"Content-Type, Authorization"`
}

// MongoConfig points at the document store
type MongoConfig struct {
	URI            string        `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database       string        `env:"DB" envDefault:"inflecto"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"15s"`
}

// RedisConfig points at the result cache
type RedisConfig struct {
	URI string `env:"URI" envDefault:"localhost:6379"` // host:port or redis:// URL
}

// IsURL reports whether URI is a redis:// or rediss:// URL rather than host:port
func (c RedisConfig) IsURL() bool {
	return strings.HasPrefix(c.URI, "redis://") || strings.HasPrefix(c.URI, "rediss://")
}

// AssessmentConfig tunes the readiness socket
type AssessmentConfig struct {
	CloseGrace      time.Duration `env:"CLOSE_GRACE" envDefault:"200ms"`
	ResultTTL       time.Duration `env:"RESULT_TTL" envDefault:"24h"`
	ExposeScoreMap  bool          `env:"EXPOSE_SCORE_MAP" envDefault:"false"`
	MaxMessageBytes int64         `env:"MAX_MESSAGE_BYTES" envDefault:"4096"`
	ReportTimeout   time.Duration `env:"REPORT_TIMEOUT" envDefault:"2m"`
}

// MailConfig configures report delivery over SMTP
type MailConfig struct {
	Host     string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port     int    `env:"PORT" envDefault:"587"`
	User     string `env:"USER"`
	Password string `env:"PASS"`
	From     string `env:"FROM" envDefault:"Inflecto AI"`
}

// Enabled reports whether SMTP credentials are configured
func (c MailConfig) Enabled() bool {
	return c.User != "" && c.Password != ""
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Assessment.MaxMessageBytes <= 0 {
		return nil, fmt.Errorf("ASSESSMENT_MAX_MESSAGE_BYTES must be positive")
	}
	return &cfg, nil
}
