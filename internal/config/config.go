package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store drivers
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreMySQL  = "mysql"
)

// Settings drivers
const (
	SettingsMemory = "memory"
	SettingsRedis  = "redis"
)

// DevJWTSecret is used when ADMIN_JWT_SECRET is not set
const DevJWTSecret = "tubevibes-dev-secret-change-me"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Store    StoreConfig
	DB       DBConfig
	Media    MediaConfig
	Admin    AdminConfig
	Settings SettingsConfig
	Notify   NotifyConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port     int    `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// CatalogConfig holds the artificial latency of catalog operations
type CatalogConfig struct {
	ListDelay   time.Duration `envconfig:"CATALOG_LIST_DELAY" default:"500ms"`
	GetDelay    time.Duration `envconfig:"CATALOG_GET_DELAY" default:"300ms"`
	CreateDelay time.Duration `envconfig:"CATALOG_CREATE_DELAY" default:"1500ms"`
	Seed        bool          `envconfig:"CATALOG_SEED" default:"true"`
}

// StoreConfig selects the catalog store backend
type StoreConfig struct {
	Driver     string `envconfig:"STORE_DRIVER" default:"memory"`
	SQLitePath string `envconfig:"STORE_SQLITE_PATH" default:"tubevibes.db"`
}

// DBConfig holds MySQL configuration, used when STORE_DRIVER=mysql
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"3306"`
	User     string `envconfig:"DB_USER" default:"root"`
	Password string `envconfig:"DB_PASSWORD"`
	Database string `envconfig:"DB_NAME" default:"tubevibes"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"10"`
}

// MediaConfig holds object URL registry configuration
type MediaConfig struct {
	MaxUploadBytes int64         `envconfig:"MEDIA_MAX_UPLOAD_BYTES" default:"268435456"`
	URLPrefix      string        `envconfig:"MEDIA_URL_PREFIX" default:"/media"`
	SweepInterval  time.Duration `envconfig:"MEDIA_SWEEP_INTERVAL" default:"10m"`
	SweepGrace     time.Duration `envconfig:"MEDIA_SWEEP_GRACE" default:"5m"`
}

// AdminConfig holds admin login configuration
type AdminConfig struct {
	Password    string        `envconfig:"ADMIN_PASSWORD" default:"tubevibesdemo123"`
	JWTSecret   string        `envconfig:"ADMIN_JWT_SECRET"`
	SessionTTL  time.Duration `envconfig:"ADMIN_SESSION_TTL" default:"12h"`
	RememberTTL time.Duration `envconfig:"ADMIN_REMEMBER_TTL" default:"720h"`
}

// SettingsConfig selects the site settings backend
type SettingsConfig struct {
	Driver        string `envconfig:"SETTINGS_DRIVER" default:"memory"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// NotifyConfig holds catalog event sinks; empty values disable a sink
type NotifyConfig struct {
	TelegramToken  string  `envconfig:"NOTIFY_TELEGRAM_TOKEN"`
	TelegramChatID int64   `envconfig:"NOTIFY_TELEGRAM_CHAT_ID" default:"0"`
	AMQPURL        string  `envconfig:"NOTIFY_AMQP_URL"`
	AMQPExchange   string  `envconfig:"NOTIFY_AMQP_EXCHANGE" default:"tubevibes.videos"`
	RateLimit      float64 `envconfig:"NOTIFY_RATE_LIMIT" default:"20"`
	PublicURL      string  `envconfig:"NOTIFY_PUBLIC_URL"`
}

// DSN returns the MySQL data source name
func (c *DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// TelegramEnabled reports whether the Telegram sink is configured
func (c *NotifyConfig) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	sections := []struct {
		name   string
		target interface{}
	}{
		{"server", &cfg.Server},
		{"catalog", &cfg.Catalog},
		{"store", &cfg.Store},
		{"db", &cfg.DB},
		{"media", &cfg.Media},
		{"admin", &cfg.Admin},
		{"settings", &cfg.Settings},
		{"notify", &cfg.Notify},
	}
	for _, s := range sections {
		if err := envconfig.Process("", s.target); err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", s.name, err)
		}
	}

	if cfg.Admin.JWTSecret == "" {
		cfg.Admin.JWTSecret = DevJWTSecret
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}
	if c.Catalog.ListDelay < 0 || c.Catalog.GetDelay < 0 || c.Catalog.CreateDelay < 0 {
		return fmt.Errorf("CATALOG_*_DELAY must not be negative")
	}
	switch c.Store.Driver {
	case StoreMemory, StoreSQLite:
	case StoreMySQL:
		if c.DB.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when STORE_DRIVER=mysql")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of memory, sqlite, mysql")
	}
	if c.Media.MaxUploadBytes <= 0 {
		return fmt.Errorf("MEDIA_MAX_UPLOAD_BYTES must be positive")
	}
	if c.Media.SweepInterval <= 0 {
		return fmt.Errorf("MEDIA_SWEEP_INTERVAL must be positive")
	}
	if c.Media.SweepGrace <= 0 {
		return fmt.Errorf("MEDIA_SWEEP_GRACE must be positive")
	}
	if c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if c.Admin.SessionTTL <= 0 || c.Admin.RememberTTL <= 0 {
		return fmt.Errorf("ADMIN_SESSION_TTL and ADMIN_REMEMBER_TTL must be positive")
	}
	switch c.Settings.Driver {
	case SettingsMemory, SettingsRedis:
	default:
		return fmt.Errorf("SETTINGS_DRIVER must be one of memory, redis")
	}
	if c.Notify.RateLimit <= 0 {
		return fmt.Errorf("NOTIFY_RATE_LIMIT must be positive")
	}
	return nil
}
