// Package config loads the server configuration from the environment and .env files.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App      App      `mapstructure:",squash"`
	Server   Server   `mapstructure:",squash"`
	Visitors Visitors `mapstructure:",squash"`
	Admin    Admin    `mapstructure:",squash"`
}

type App struct {
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host              string        `mapstructure:"host"`
	Port              string        `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	GzipEnabled       bool          `mapstructure:"gzip_enabled"`
}

type Visitors struct {
	Enabled       bool     `mapstructure:"visitors_enabled"`
	DBPath        string   `mapstructure:"visitors_db_path"`
	Salt          string   `mapstructure:"visitors_salt"`
	RetentionDays int      `mapstructure:"visitors_retention_days"`
	CleanupCron   string   `mapstructure:"visitors_cleanup_cron"`
	QueueSize     int      `mapstructure:"visitors_queue_size"`
	SkipPrefixes  []string `mapstructure:"visitors_skip_prefixes"`
}

type Admin struct {
	Token string `mapstructure:"admin_token"`
}

// Addr is the listen address for the HTTP server.
func (s Server) Addr() string {
	return s.Host + ":" + s.Port
}

// IsProduction reports whether APP_ENV selects production behaviour.
func (a App) IsProduction() bool {
	env := strings.ToLower(a.Env)
	return env == "production" || env == "prod"
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("HOST", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("READ_HEADER_TIMEOUT", 5*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 15*time.Second)
	v.SetDefault("GZIP_ENABLED", true)

	// visitor tracking is opt-in; the page itself needs no storage
	v.SetDefault("VISITORS_ENABLED", false)
	v.SetDefault("VISITORS_DB_PATH", filepath.Join("data", "visitors.db"))
	v.SetDefault("VISITORS_SALT", "")
	v.SetDefault("VISITORS_RETENTION_DAYS", 365)
	v.SetDefault("VISITORS_CLEANUP_CRON", "0 3 * * *")
	v.SetDefault("VISITORS_QUEUE_SIZE", 256)
	v.SetDefault("VISITORS_SKIP_PREFIXES", "/static/,/charts/,/admin/,/favicon,/healthz,/privacy")

	v.SetDefault("ADMIN_TOKEN", "")
}

// NewConfig reads .env (when present) and the process environment.
func NewConfig() (*Config, error) {
	loadEnvFile()
	return Load(viper.New())
}

// Load decodes the configuration known to v, after applying defaults and
// binding environment variables.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	config := &Config{}
	err := v.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, errors.Wrap(err, "decoding configuration")
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return errors.New("config: PORT must not be empty")
	}
	if c.Visitors.Enabled && c.Visitors.DBPath == "" {
		return errors.New("config: VISITORS_DB_PATH is required when visitor tracking is enabled")
	}
	if c.Visitors.RetentionDays < 1 {
		return errors.Errorf("config: VISITORS_RETENTION_DAYS must be positive, got %d", c.Visitors.RetentionDays)
	}
	if c.Visitors.QueueSize < 1 {
		return errors.Errorf("config: VISITORS_QUEUE_SIZE must be positive, got %d", c.Visitors.QueueSize)
	}
	return nil
}

// loadEnvFile tries the usual .env locations; a missing file is not an error.
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.WithError(err).Warn("could not resolve working directory")
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.WithField("path", location).Debug("loaded .env file")
			return
		}
	}
	logrus.Debug("no .env file found, using process environment")
}
