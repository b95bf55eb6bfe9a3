// Package boot provides runtime configuration derived from the loaded config and the environment.
package boot

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/startupsetu/setu/internal/config"
)

// RuntimeConfig holds parsed runtime settings (JWT, server address, database DSN, completion provider).
// Values may be overridden by environment variables (e.g. HTTP_ADDR, DATABASE_URL, GROQ_API_KEY).
type RuntimeConfig struct {
	JwtSecret    string
	JwtExpiresIn time.Duration
	ServerAddr   string
	DatabaseURL  string
	LLM          config.LLMConfig
}

// ProvideRuntimeConfig builds RuntimeConfig from the given config and applies env overrides.
func ProvideRuntimeConfig(cfg config.Config) (*RuntimeConfig, error) {
	ret := &RuntimeConfig{
		JwtSecret:   cfg.Auth.JWTSecret,
		ServerAddr:  cfg.Server.Addr,
		DatabaseURL: cfg.Postgres.URL,
		LLM:         cfg.LLM,
	}

	if value := os.Getenv("JWT_SECRET"); value != "" {
		ret.JwtSecret = value
	}
	if strings.TrimSpace(ret.JwtSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}

	jwtExpiresIn, err := time.ParseDuration(cfg.Auth.JWTExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("invalid jwt expires in: %w", err)
	}
	if jwtExpiresIn <= 0 {
		return nil, errors.New("jwt expires in must be positive")
	}
	ret.JwtExpiresIn = jwtExpiresIn

	if value := os.Getenv("PORT"); value != "" {
		ret.ServerAddr = ":" + strings.TrimPrefix(value, ":")
	}
	if value := os.Getenv("HTTP_ADDR"); value != "" {
		ret.ServerAddr = value
	}
	ret.DatabaseURL = ResolveDatabaseURL(cfg)
	ret.LLM = applyLLMEnv(ret.LLM)
	return ret, nil
}

// ResolveDatabaseURL returns DATABASE_URL when set, else the configured postgres URL (possibly empty).
func ResolveDatabaseURL(cfg config.Config) string {
	if value := os.Getenv("DATABASE_URL"); value != "" {
		return value
	}
	return cfg.Postgres.URL
}

func applyLLMEnv(cfg config.LLMConfig) config.LLMConfig {
	if value := os.Getenv("LLM_PROVIDER"); value != "" {
		cfg.Provider = value
	}
	if value := os.Getenv("LLM_MODEL"); value != "" {
		cfg.Model = value
	}
	if value := os.Getenv("GROQ_MODEL"); value != "" && cfg.Model == config.DefaultLLMModel {
		cfg.Model = value
	}
	keyEnv := []string{"LLM_API_KEY", "GROQ_API_KEY"}
	if strings.EqualFold(strings.TrimSpace(cfg.Provider), "anthropic") {
		keyEnv = []string{"LLM_API_KEY", "ANTHROPIC_API_KEY"}
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		for _, name := range keyEnv {
			if value := os.Getenv(name); value != "" {
				cfg.APIKey = value
				break
			}
		}
	}
	return cfg
}
