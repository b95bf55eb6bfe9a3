// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath      = "config.toml"
	DefaultHTTPAddr        = ":3000"
	DefaultBodyLimit       = "1M"
	DefaultJWTExpiresIn    = "24h"
	DefaultLoginRate       = 1.0
	DefaultLoginBurst      = 5
	DefaultPGHost          = "127.0.0.1"
	DefaultPGPort          = 5432
	DefaultPGUser          = "postgres"
	DefaultPGDatabase      = "setu"
	DefaultPGSSLMode       = "disable"
	DefaultLLMProvider     = "openai"
	DefaultLLMBaseURL      = "https://api.groq.com/openai/v1"
	DefaultLLMModel        = "llama-3.1-8b-instant"
	DefaultLLMTemperature  = 0.2
	DefaultLLMMaxTokens    = 800
	DefaultLLMTimeout      = 60
	DefaultHistoryWindow   = 10
	DefaultWriteTimeoutSec = 10
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Auth     AuthConfig     `toml:"auth"`
	Postgres PostgresConfig `toml:"postgres"`
	LLM      LLMConfig      `toml:"llm"`
	Chat     ChatConfig     `toml:"chat"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP listen address, allowed CORS origins and request body limit.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
	BodyLimit   string   `toml:"body_limit"`
}

// AuthConfig holds JWT secret, token expiry (e.g. 24h) and the login rate limit per client IP.
type AuthConfig struct {
	JWTSecret    string  `toml:"jwt_secret"`
	JWTExpiresIn string  `toml:"jwt_expires_in"`
	LoginRate    float64 `toml:"login_rate"`
	LoginBurst   int     `toml:"login_burst"`
}

// PostgresConfig holds PostgreSQL connection parameters.
// URL, when set, takes precedence over the discrete fields (managed providers hand out URLs).
type PostgresConfig struct {
	URL      string `toml:"url"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// LLMConfig selects the completion provider and its request parameters.
type LLMConfig struct {
	Provider       string  `toml:"provider"`
	BaseURL        string  `toml:"base_url"`
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	Temperature    float64 `toml:"temperature"`
	MaxTokens      int     `toml:"max_tokens"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Timeout returns the per-request timeout for completion calls.
func (c LLMConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultLLMTimeout * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ChatConfig holds chat turn settings.
type ChatConfig struct {
	HistoryWindow       int `toml:"history_window"`
	WriteTimeoutSeconds int `toml:"write_timeout_seconds"`
}

// WriteTimeout bounds background writes issued by a chat turn.
func (c ChatConfig) WriteTimeout() time.Duration {
	if c.WriteTimeoutSeconds <= 0 {
		return DefaultWriteTimeoutSec * time.Second
	}
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:        DefaultHTTPAddr,
			CORSOrigins: []string{"*"},
			BodyLimit:   DefaultBodyLimit,
		},
		Auth: AuthConfig{
			JWTExpiresIn: DefaultJWTExpiresIn,
			LoginRate:    DefaultLoginRate,
			LoginBurst:   DefaultLoginBurst,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		LLM: LLMConfig{
			Provider:       DefaultLLMProvider,
			BaseURL:        DefaultLLMBaseURL,
			Model:          DefaultLLMModel,
			Temperature:    DefaultLLMTemperature,
			MaxTokens:      DefaultLLMMaxTokens,
			TimeoutSeconds: DefaultLLMTimeout,
		},
		Chat: ChatConfig{
			HistoryWindow:       DefaultHistoryWindow,
			WriteTimeoutSeconds: DefaultWriteTimeoutSec,
		},
	}
}

// Load reads and parses the TOML config file at path and applies default values for missing fields.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
