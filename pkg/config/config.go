package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/threadworks/gatehouse/pkg/common"
	"github.com/threadworks/gatehouse/pkg/hooks"
	"github.com/threadworks/gatehouse/pkg/moderation"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Moderation ModerationConfig `mapstructure:"moderation"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type MetricsConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	EnableLatency  bool `mapstructure:"enable_latency"`
	EnableVerdicts bool `mapstructure:"enable_verdicts"`
	EnablePerCheck bool `mapstructure:"enable_per_check"`
	EnableLookups  bool `mapstructure:"enable_lookups"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type CacheConfig struct {
	MemberTTL time.Duration `mapstructure:"member_ttl"`
	OptionTTL time.Duration `mapstructure:"option_ttl"`
}

type ModerationConfig struct {
	Hooks    []hooks.Config `mapstructure:"hooks"`
	Messages MessagesConfig `mapstructure:"messages"`
}

// MessagesConfig overrides the rejection text per kind. Empty fields
// keep the built-in default.
type MessagesConfig struct {
	TooManyLinks    string `mapstructure:"too_many_links"`
	WordMatch       string `mapstructure:"word_match"`
	DisallowedMatch string `mapstructure:"disallowed_key_match"`
}

// Overlay applies the configured overrides on top of base.
func (m MessagesConfig) Overlay(base moderation.Messages) moderation.Messages {
	if m.TooManyLinks != "" {
		base.TooManyLinks = m.TooManyLinks
	}
	if m.WordMatch != "" {
		base.WordMatch = m.WordMatch
	}
	if m.DisallowedMatch != "" {
		base.DisallowedMatch = m.DisallowedMatch
	}
	return base
}

var globalConfig Config

// Load reads config.yaml from configPath, ./config or the working
// directory, then lets environment variables override file values
// (server.port becomes SERVER_PORT).
func Load(configPath string) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range []string{configPath, "./config", "."} {
		v.AddConfigPath(dir)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("no config.yaml under %s, ./config or the working directory: %w", configPath, err)
		}
		return fmt.Errorf("read config.yaml: %w", err)
	}
	if err := v.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("decode config.yaml: %w", err)
	}

	applyDefaults(&globalConfig)
	return nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.MetricsPort == 0 {
		c.Server.MetricsPort = 9090
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Cache.MemberTTL <= 0 {
		c.Cache.MemberTTL = common.MemberCacheTTL
	}
	if c.Cache.OptionTTL <= 0 {
		c.Cache.OptionTTL = common.OptionCacheTTL
	}
}

func GetConfig() *Config {
	return &globalConfig
}
