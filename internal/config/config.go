package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata" // time zones resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Strava   StravaConfig   `mapstructure:"strava"`
	Review   ReviewConfig   `mapstructure:"review"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	Env         string   `mapstructure:"env"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StravaConfig holds OAuth client credentials and API endpoints
type StravaConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	RedirectURL  string        `mapstructure:"redirect_url"`
	AuthURL      string        `mapstructure:"auth_url"`
	TokenURL     string        `mapstructure:"token_url"`
	APIURL       string        `mapstructure:"api_url"`
	Scopes       []string      `mapstructure:"scopes"`
	PerPage      int           `mapstructure:"per_page"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// Configured reports whether OAuth client credentials are present.
func (s StravaConfig) Configured() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

// ReviewConfig controls which year is reviewed and how it is bucketed
type ReviewConfig struct {
	Year          int           `mapstructure:"year"`
	Timezone      string        `mapstructure:"timezone"`
	SlideDuration time.Duration `mapstructure:"slide_duration"`
}

// Location resolves the configured time zone.
func (r ReviewConfig) Location() (*time.Location, error) {
	return time.LoadLocation(r.Timezone)
}

// DatabaseConfig holds the SQLite location
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig holds Redis settings. An empty address disables caching.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// SyncConfig controls the background activity sync
type SyncConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Schedule    string `mapstructure:"schedule"`
	Concurrency int    `mapstructure:"concurrency"`
}

// LoggingConfig controls the process logger
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NotifyConfig holds the optional Telegram chat that receives sync reports
// and share cards
type NotifyConfig struct {
	TelegramToken    string `mapstructure:"telegram_token"`
	TelegramChatID   int64  `mapstructure:"telegram_chat_id"`
	TelegramEndpoint string `mapstructure:"telegram_endpoint"`
}

// Enabled reports whether a bot token and chat are configured.
func (n NotifyConfig) Enabled() bool {
	return n.TelegramToken != "" && n.TelegramChatID != 0
}

// Load reads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches
// for config.yaml in the working directory and ./config.
func LoadFile(path string) (*Config, error) {
	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("YIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional names used by hosting platforms and the Strava docs
	v.BindEnv("server.port", "YIM_SERVER_PORT", "PORT")
	v.BindEnv("strava.client_id", "YIM_STRAVA_CLIENT_ID", "STRAVA_CLIENT_ID")
	v.BindEnv("strava.client_secret", "YIM_STRAVA_CLIENT_SECRET", "STRAVA_CLIENT_SECRET")
	v.BindEnv("notify.telegram_token", "YIM_NOTIFY_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("strava.client_id", "")
	v.SetDefault("strava.client_secret", "")
	v.SetDefault("strava.redirect_url", "http://localhost:8080/auth/callback")
	v.SetDefault("strava.auth_url", "https://www.strava.com/oauth/authorize")
	v.SetDefault("strava.token_url", "https://www.strava.com/oauth/token")
	v.SetDefault("strava.api_url", "https://www.strava.com/api/v3")
	v.SetDefault("strava.scopes", []string{"activity:read_all"})
	v.SetDefault("strava.per_page", 200)
	v.SetDefault("strava.timeout", 30*time.Second)

	v.SetDefault("review.year", 2025)
	v.SetDefault("review.timezone", "UTC")
	v.SetDefault("review.slide_duration", 3*time.Second)

	v.SetDefault("database.path", "./data/yearinmotion.db")

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", 30*time.Minute)

	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.schedule", "@hourly")
	v.SetDefault("sync.concurrency", 4)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("notify.telegram_token", "")
	v.SetDefault("notify.telegram_chat_id", 0)
	v.SetDefault("notify.telegram_endpoint", "https://api.telegram.org/bot%s/%s")
}

// Validate checks that configuration values are usable
func (c *Config) Validate() error {
	if _, err := c.Review.Location(); err != nil {
		return fmt.Errorf("review.timezone %q is invalid: %w", c.Review.Timezone, err)
	}
	if c.Review.Year < 2009 || c.Review.Year > 9999 {
		return fmt.Errorf("review.year %d is out of range", c.Review.Year)
	}
	if c.Review.SlideDuration <= 0 {
		return fmt.Errorf("review.slide_duration must be positive")
	}
	if c.Strava.PerPage < 1 || c.Strava.PerPage > 200 {
		return fmt.Errorf("strava.per_page must be between 1 and 200")
	}
	if c.Strava.APIURL == "" || c.Strava.TokenURL == "" || c.Strava.AuthURL == "" {
		return fmt.Errorf("strava endpoints are required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Sync.Enabled {
		if _, err := cron.ParseStandard(c.Sync.Schedule); err != nil {
			return fmt.Errorf("sync.schedule %q is invalid: %w", c.Sync.Schedule, err)
		}
		if c.Sync.Concurrency < 1 {
			return fmt.Errorf("sync.concurrency must be at least 1")
		}
	}
	if c.Notify.TelegramToken != "" && !strings.Contains(c.Notify.TelegramEndpoint, "%s") {
		return fmt.Errorf("notify.telegram_endpoint must contain %%s placeholders for token and method")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
