package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Images   ImagesConfig
	Auth     AuthConfig
	Log      LogConfig
	Calendar CalendarConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"1919"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	MaxUploadBytes  int64         `env:"SERVER_MAX_UPLOAD_BYTES" envDefault:"8388608"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        string `env:"DB_PORT" envDefault:"5432"`
	User        string `env:"DB_USER" envDefault:"postgres"`
	Password    string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName      string `env:"DB_NAME" envDefault:"carpool"`
	SSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string `env:"NEW_RELIC_APP_NAME" envDefault:"carpool-service"`
	LicenseKey string `env:"NEW_RELIC_LICENSE_KEY"`
	Enabled    bool   `env:"NEW_RELIC_ENABLED" envDefault:"false"`
}

// ImagesConfig selects where uploaded car images are kept.
// Backend is "disk" or "s3"; the S3 fields also cover MinIO.
type ImagesConfig struct {
	Backend     string `env:"IMAGES_BACKEND" envDefault:"disk"`
	Dir         string `env:"IMAGES_DIR" envDefault:"./images"`
	S3Endpoint  string `env:"IMAGES_S3_ENDPOINT"`
	S3Region    string `env:"IMAGES_S3_REGION" envDefault:"us-east-1"`
	S3Bucket    string `env:"IMAGES_S3_BUCKET"`
	S3AccessKey string `env:"IMAGES_S3_ACCESS_KEY"`
	S3SecretKey string `env:"IMAGES_S3_SECRET_KEY"`
	S3UseSSL    bool   `env:"IMAGES_S3_USE_SSL" envDefault:"false"`
	S3PublicURL string `env:"IMAGES_S3_PUBLIC_URL"`
}

// AuthConfig holds credential settings.
type AuthConfig struct {
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// CalendarConfig controls how route dates map to calendar days.
type CalendarConfig struct {
	TimeZone string `env:"TIMEZONE" envDefault:"Local"`

	// Location is resolved from TimeZone by Load.
	Location *time.Location `env:"-"`
}

// Load loads configuration from environment variables, reading .env first if it exists.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Calendar.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Calendar.TimeZone, err)
	}
	cfg.Calendar.Location = loc

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Images.Backend {
	case "disk":
		if c.Images.Dir == "" {
			return fmt.Errorf("IMAGES_DIR is required for the disk backend")
		}
	case "s3":
		if c.Images.S3Endpoint == "" || c.Images.S3Bucket == "" {
			return fmt.Errorf("IMAGES_S3_ENDPOINT and IMAGES_S3_BUCKET are required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown IMAGES_BACKEND %q", c.Images.Backend)
	}
	return nil
}
