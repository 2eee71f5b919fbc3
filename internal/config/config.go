package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	Host           string        `mapstructure:"host"`
	LocalHost      string        `mapstructure:"local_host"`
	UseLocalHost   bool          `mapstructure:"use_local_host"`
	APIKey         string        `mapstructure:"api_key"`
	APIVersion     int           `mapstructure:"api_version"`
	TimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout time.Duration `mapstructure:"-"`

	ScriptFile     string `mapstructure:"script_file"`
	PublishersFile string `mapstructure:"publishers_file"`

	JournalType            string        `mapstructure:"journal_type"`
	JournalPath            string        `mapstructure:"journal_path"`
	JournalTTLSeconds      int64         `mapstructure:"journal_ttl_seconds"`
	JournalCleanupSeconds  int64         `mapstructure:"journal_cleanup_interval_seconds"`
	JournalTTL             time.Duration `mapstructure:"-"`
	JournalCleanupInterval time.Duration `mapstructure:"-"`
}

// String hides the API key so the config can be logged.
func (c Config) String() string {
	key := ""
	if c.APIKey != "" {
		key = "***"
	}
	return fmt.Sprintf("{app=%s env=%s host=%s local_host=%s use_local_host=%t api_key=%s version=%d timeout=%s script=%s publishers=%s journal=%s:%s}",
		c.AppName, c.Env, c.Host, c.LocalHost, c.UseLocalHost, key, c.APIVersion, c.RequestTimeout,
		c.ScriptFile, c.PublishersFile, c.JournalType, c.JournalPath)
}

// EffectiveHost returns the host requests should be sent to.
func (c *Config) EffectiveHost() string {
	if c.UseLocalHost {
		return c.LocalHost
	}
	return c.Host
}

// Load reads configuration from environment variables and config files.
// Missing HOST, LOCAL_HOST or API_KEY are left empty.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_name", "samvad-rest-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("host", "")
	v.SetDefault("local_host", "")
	v.SetDefault("use_local_host", false)
	v.SetDefault("api_key", "")
	v.SetDefault("api_version", 3)
	v.SetDefault("request_timeout_seconds", 30)
	v.SetDefault("script_file", "./configs/script.yaml")
	v.SetDefault("publishers_file", "")
	v.SetDefault("journal_type", "none")
	v.SetDefault("journal_path", "./data/journal.db")
	v.SetDefault("journal_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("journal_cleanup_interval_seconds", int64((time.Hour)/time.Second))

	v.AutomaticEnv()
	if err := v.BindEnv("api_key", "API_KEY", "SENDGRID_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind api_key env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Host = strings.TrimRight(strings.TrimSpace(cfg.Host), "/")
	cfg.LocalHost = strings.TrimRight(strings.TrimSpace(cfg.LocalHost), "/")
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	if cfg.APIVersion < 0 {
		return nil, fmt.Errorf("invalid api_version (must not be negative)")
	}
	if cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.TimeoutSeconds) * time.Second

	if cfg.JournalTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_ttl_seconds (must be positive seconds)")
	}
	if cfg.JournalCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.JournalTTL = time.Duration(cfg.JournalTTLSeconds) * time.Second
	cfg.JournalCleanupInterval = time.Duration(cfg.JournalCleanupSeconds) * time.Second

	return &cfg, nil
}
