// Package config reads application configuration via Viper from environment
// variables, with an optional config file for local development.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application configuration.
type Config struct {
	App    AppConfig
	DB     DBConfig
	HTTP   HTTPConfig
	Log    LogConfig
	Ledger LedgerConfig
	Worker WorkerConfig
}

// AppConfig is general application configuration.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// IsDevelopment reports whether the app runs in development mode.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// DBConfig is PostgreSQL configuration. When DatabaseURL is set it is used
// as the full connection string; otherwise the DSN is built from the parts.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int32
	MinConns    int32
}

// ConnectionString returns the DSN to use.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}

	return u.String()
}

// HTTPConfig is HTTP server configuration.
type HTTPConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig is logger configuration.
type LogConfig struct {
	Level string // debug, info, warn, error
}

// LedgerConfig holds ledger and costing parameters.
type LedgerConfig struct {
	// DefaultRate prices items that have no costed receipts at all.
	// Decimal string, e.g. "10.00".
	DefaultRate string

	// FinishedGoodsRate is the standard rate finished goods are received at
	// from heat treatment. Decimal string.
	FinishedGoodsRate string

	// Material item bindings. Melting documents carry quantities per
	// material name, not item references; these map the names onto catalog
	// item ids (UUID strings).
	ScrapItemID     string
	CarbonItemID    string
	ManganeseItemID string
	SiliconItemID   string
	AluminiumItemID string
	CalciumItemID   string
	WIPItemID       string
}

// WorkerConfig configures the outbox relay worker.
type WorkerConfig struct {
	BatchSize    int
	PollInterval time.Duration
}

// Load reads configuration from environment variables and, when present,
// a config file. Environment variables take precedence.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // file is optional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		DB: DBConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			MinConns:    v.GetInt32("DB_MIN_CONNS"),
		},
		HTTP: HTTPConfig{
			Host:            v.GetString("HTTP_HOST"),
			Port:            v.GetInt("HTTP_PORT"),
			ReadTimeout:     v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("HTTP_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("HTTP_SHUTDOWN_TIMEOUT"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Ledger: LedgerConfig{
			DefaultRate:       v.GetString("LEDGER_DEFAULT_RATE"),
			FinishedGoodsRate: v.GetString("LEDGER_FINISHED_GOODS_RATE"),
			ScrapItemID:       v.GetString("LEDGER_ITEM_SCRAP"),
			CarbonItemID:      v.GetString("LEDGER_ITEM_CARBON"),
			ManganeseItemID:   v.GetString("LEDGER_ITEM_MANGANESE"),
			SiliconItemID:     v.GetString("LEDGER_ITEM_SILICON"),
			AluminiumItemID:   v.GetString("LEDGER_ITEM_ALUMINIUM"),
			CalciumItemID:     v.GetString("LEDGER_ITEM_CALCIUM"),
			WIPItemID:         v.GetString("LEDGER_ITEM_WIP"),
		},
		Worker: WorkerConfig{
			BatchSize:    v.GetInt("WORKER_BATCH_SIZE"),
			PollInterval: v.GetDuration("WORKER_POLL_INTERVAL"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "heatstock")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "heatstock")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MIN_CONNS", 5)

	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("HTTP_READ_TIMEOUT", "15s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "30s")
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("LEDGER_DEFAULT_RATE", "10.00")
	v.SetDefault("LEDGER_FINISHED_GOODS_RATE", "50.00")

	v.SetDefault("WORKER_BATCH_SIZE", 100)
	v.SetDefault("WORKER_POLL_INTERVAL", "5s")
}
