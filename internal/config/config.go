package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownConfigStore          = errors.New("unknown config store driver")
)

// Config store drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string      `mapstructure:"env"`          // current application environment (local, dev, production etc)
	TelegramAPIToken string      `mapstructure:"-"`            // Telegram API token loaded from environment
	Bank             Bank        `mapstructure:"bank"`         // question bank file and its backups
	Quiz             Quiz        `mapstructure:"quiz"`         // question selection policy
	ConfigStore      ConfigStore `mapstructure:"config_store"` // where the daily quiz config is persisted
	Drift            Drift       `mapstructure:"drift"`        // background drift check
	DB               DB          `mapstructure:"database"`     // database configuration section
}

// Bank locates the question bank document.
type Bank struct {
	Path      string `mapstructure:"path"`
	BackupDir string `mapstructure:"backup_dir"` // empty means "backup" next to the bank
}

// Quiz configures the chapter filter.
type Quiz struct {
	SelectionMode        string `mapstructure:"selection_mode"`        // ceiling or exact
	IncludeUncategorized bool   `mapstructure:"include_uncategorized"` // serve questions without a chapter
}

// ConfigStore selects the quiz config backend.
type ConfigStore struct {
	Driver     string `mapstructure:"driver"`      // file, postgres or sqlite
	Path       string `mapstructure:"path"`        // JSON document for the file driver
	SQLitePath string `mapstructure:"sqlite_path"` // database file for the sqlite driver
}

// Drift configures the periodic bank drift check.
type Drift struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"` // cron expression, e.g. "@every 15m"
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// TelegramToken returns the bot token if it is configured.
func (c *Config) TelegramToken() (string, error) {
	if c.TelegramAPIToken == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return c.TelegramAPIToken, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("bank.path", "data/questions.json")
	v.SetDefault("bank.backup_dir", "")
	v.SetDefault("quiz.selection_mode", "ceiling")
	v.SetDefault("quiz.include_uncategorized", true)
	v.SetDefault("config_store.driver", DriverFile)
	v.SetDefault("config_store.path", "data/quiz_config.json")
	v.SetDefault("config_store.sqlite_path", "data/quiz.db")
	v.SetDefault("drift.enabled", true)
	v.SetDefault("drift.schedule", "@every 15m")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	cfg.ConfigStore.Driver = strings.ToLower(strings.TrimSpace(cfg.ConfigStore.Driver))
	switch cfg.ConfigStore.Driver {
	case DriverFile, DriverSQLite:
	case DriverPostgres:
		if cfg.DB.URL == "" {
			return nil, ErrMissingEnvironmentVariables
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownConfigStore, cfg.ConfigStore.Driver)
	}

	return &cfg, nil
}
