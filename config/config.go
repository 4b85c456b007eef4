// Package config loads the task service settings from the environment.
// Outside of production a local .env file is overlaid first so developers
// can keep secrets out of their shell profile.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Mail providers understood by the notification hook
const (
	MailProviderLog   = ""
	MailProviderSMTP  = "smtp"
	MailProviderKafka = "kafka"
)

// Config holds runtime settings for the task service
type Config struct {
	Env  string `env:"ENV"`
	Port string `env:"PORT" envDefault:"8080"`

	// Maintenance makes every route answer 503
	Maintenance bool `env:"MAINTENANCE" envDefault:"false"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite3"`
	DatabaseURL    string `env:"DATABASE_URL" envDefault:"./task_service.db"`

	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"0"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12"`

	Mail  MailConfig
	Kafka KafkaConfig
	Cache CacheConfig
}

// MailConfig is the outbound mail gateway
// SMTPPassword doubles as the gateway API key for relay providers
type MailConfig struct {
	Provider     string        `env:"MAIL_PROVIDER"`
	From         string        `env:"MAIL_FROM" envDefault:"no-reply@task-service.local"`
	FromName     string        `env:"MAIL_FROM_NAME" envDefault:"Task Service"`
	SMTPHost     string        `env:"SMTP_HOST"`
	SMTPPort     int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string        `env:"SMTP_USERNAME"`
	SMTPPassword string        `env:"SMTP_PASSWORD"`
	SendTimeout  time.Duration `env:"MAIL_SEND_TIMEOUT" envDefault:"15s"`
}

// KafkaConfig is the mail queue used by the kafka provider and the mail worker
type KafkaConfig struct {
	Broker   string `env:"KAFKA_BROKER"`
	Topic    string `env:"KAFKA_TOPIC" envDefault:"account-mail"`
	GroupID  string `env:"KAFKA_GROUP_ID" envDefault:"task-service-mailer"`
	Username string `env:"KAFKA_USERNAME"`
	Password string `env:"KAFKA_PASSWORD"`
}

// CacheConfig selects the avatar cache backend; an empty Type disables caching
type CacheConfig struct {
	Type          string        `env:"CACHE_TYPE"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	AvatarTTL     time.Duration `env:"AVATAR_CACHE_TTL" envDefault:"10m"`
}

var ErrMissingSecret = errors.New("JWT_SECRET must be set")

// Load reads configuration from the environment, overlaying .env when not in prod
func Load() (*Config, error) {
	if os.Getenv("ENV") != "prod" {
		// a missing .env is fine, real deployments use the environment
		_ = godotenv.Load()
	}
	return Parse()
}

// Parse reads configuration from the current environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no safe default
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	// the migrations and the repository SQL are written for sqlite
	if c.DatabaseDriver != "sqlite3" {
		return fmt.Errorf("unsupported DATABASE_DRIVER %q, only sqlite3 is supported", c.DatabaseDriver)
	}
	switch c.Mail.Provider {
	case MailProviderLog, MailProviderSMTP, MailProviderKafka:
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER %q", c.Mail.Provider)
	}
	if c.Mail.Provider == MailProviderKafka && c.Kafka.Broker == "" {
		return errors.New("KAFKA_BROKER must be set for the kafka mail provider")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST out of range: %d", c.BcryptCost)
	}
	return nil
}
