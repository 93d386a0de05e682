package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Confirm ConfirmConfig `toml:"confirm"`
	Counter CounterConfig `toml:"counter"`
	Logging LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ConfirmConfig toggles the confirmation dialog per destructive action.
type ConfirmConfig struct {
	DeleteTask     bool `toml:"delete_task"`
	DeleteCategory bool `toml:"delete_category"`
	MoveStatus     bool `toml:"move_status"`
}

// CounterConfig sets the weighted length limits for task content.
type CounterConfig struct {
	LatinLimit int `toml:"latin_limit"`
	CJKLimit   int `toml:"cjk_limit"`
}

type LoggingConfig struct {
	Level   string `toml:"level"`
	DevFile string `toml:"dev_file"`
}

func Default(serverURL string) Config {
	return Config{
		Server: ServerConfig{
			BaseURL:        serverURL,
			TimeoutSeconds: 10,
		},
		Confirm: ConfirmConfig{
			DeleteTask:     true,
			DeleteCategory: true,
			MoveStatus:     true,
		},
		Counter: CounterConfig{
			LatinLimit: 280,
			CJKLimit:   140,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	baseURL := strings.TrimSpace(c.Server.BaseURL)
	if baseURL == "" {
		return errors.New("server base_url is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid server.base_url: %q", c.Server.BaseURL)
	}
	switch parsed.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("invalid server.base_url scheme: %q", parsed.Scheme)
	}

	if c.Server.TimeoutSeconds <= 0 {
		return errors.New("server.timeout_seconds must be > 0")
	}

	if c.Counter.LatinLimit <= 0 {
		return errors.New("counter.latin_limit must be > 0")
	}
	if c.Counter.CJKLimit <= 0 {
		return errors.New("counter.cjk_limit must be > 0")
	}
	if c.Counter.CJKLimit > c.Counter.LatinLimit {
		return errors.New("counter.cjk_limit must not exceed counter.latin_limit")
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
