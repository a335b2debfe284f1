package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envPrefix префикс переменных окружения с секретами (RESERVATION_DB_PASSWORD и т.д.)
const envPrefix = "RESERVATION"

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	PopupService PopupServiceConfig `toml:"popup_service"`
	Payments     PaymentsConfig     `toml:"payments"`
	Redis        RedisConfig        `toml:"redis"`
	Cache        CacheConfig        `toml:"cache"`
	Events       EventsConfig       `toml:"events"`
	Reservation  ReservationConfig  `toml:"reservation"`
	RateLimit    RateLimitConfig    `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type PopupServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// PaymentsConfig настройки возвратов через Stripe
// Пустой StripeSecretKey отключает возвраты: оплаченные бронирования отменить нельзя
type PaymentsConfig struct {
	StripeSecretKey string `toml:"stripe_secret_key"`
	StripeAPIURL    string `toml:"stripe_api_url"` // пусто - api.stripe.com
	RefundTimeout   int    `toml:"refund_timeout"` // секунды
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// CacheConfig кеш настроек бронирования
// driver: "redis" или "memory"
type CacheConfig struct {
	Driver     string `toml:"driver"`
	TTLSeconds int    `toml:"ttl_seconds"`
	KeyPrefix  string `toml:"key_prefix"`
}

// EventsConfig шина доменных событий
// driver: "nats", "kafka" или "none"
type EventsConfig struct {
	Driver        string   `toml:"driver"`
	NATSURL       string   `toml:"nats_url"`
	KafkaBrokers  []string `toml:"kafka_brokers"`
	SubjectPrefix string   `toml:"subject_prefix"`
	WriteTimeout  int      `toml:"write_timeout"` // секунды
}

type ReservationConfig struct {
	// Timezone часовой пояс попапов: даты и часы работы интерпретируются в нём
	Timezone string `toml:"timezone"`
}

// Location загружает часовой пояс из конфигурации
func (c ReservationConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// RateLimitConfig ограничение частоты создания бронирований на пользователя
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerMinute float64 `toml:"requests_per_minute"`
	Burst             int     `toml:"burst"`
}

// Secrets значения, которые не хранятся в config.toml
// Переопределяют toml, если заданы в окружении или .env
type Secrets struct {
	DBPassword      string `envconfig:"DB_PASSWORD"`
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY"`
	RedisPassword   string `envconfig:"REDIS_PASSWORD"`
}

// Load читает конфигурацию из toml файла, затем накладывает секреты из окружения
// .env рядом с бинарником загружается, если существует
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var secrets Secrets
	if err := envconfig.Process(envPrefix, &secrets); err != nil {
		return nil, fmt.Errorf("failed to process env secrets: %w", err)
	}
	cfg.applySecrets(secrets)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applySecrets(s Secrets) {
	if s.DBPassword != "" {
		c.Database.Password = s.DBPassword
	}
	if s.StripeSecretKey != "" {
		c.Payments.StripeSecretKey = s.StripeSecretKey
	}
	if s.RedisPassword != "" {
		c.Redis.Password = s.RedisPassword
	}
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "reservation-service"
	}
	if c.PopupService.Timeout == 0 {
		c.PopupService.Timeout = 5
	}
	if c.Payments.RefundTimeout == 0 {
		c.Payments.RefundTimeout = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 300
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "reservation:settings:"
	}
	if c.Events.Driver == "" {
		c.Events.Driver = "none"
	}
	if c.Events.WriteTimeout == 0 {
		c.Events.WriteTimeout = 5
	}
	if c.Reservation.Timezone == "" {
		c.Reservation.Timezone = "Asia/Seoul"
	}
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 3
	}
}

// Validate проверяет, что конфигурация пригодна для запуска
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database host and dbname are required", ErrInvalidConfig)
	}
	if c.PopupService.URL == "" {
		return fmt.Errorf("%w: popup_service.url is required", ErrInvalidConfig)
	}

	switch c.Cache.Driver {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required for redis cache", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown cache driver %q", ErrInvalidConfig, c.Cache.Driver)
	}

	switch c.Events.Driver {
	case "none":
	case "nats":
		if c.Events.NATSURL == "" {
			return fmt.Errorf("%w: events.nats_url is required for nats driver", ErrInvalidConfig)
		}
	case "kafka":
		if len(c.Events.KafkaBrokers) == 0 {
			return fmt.Errorf("%w: events.kafka_brokers is required for kafka driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown events driver %q", ErrInvalidConfig, c.Events.Driver)
	}

	if _, err := c.Reservation.Location(); err != nil {
		return fmt.Errorf("%w: reservation.timezone: %v", ErrInvalidConfig, err)
	}

	return nil
}
