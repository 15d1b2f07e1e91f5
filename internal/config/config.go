package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port         string        `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		IdleTimeout  time.Duration `yaml:"idle_timeout"`
	} `yaml:"server"`
	DataSource struct {
		Provider          string        `yaml:"provider"`
		DefaultSymbol     string        `yaml:"default_symbol"`
		LookbackDays      int           `yaml:"lookback_days"`
		Proxy             string        `yaml:"proxy"`
		RequestsPerMinute int           `yaml:"requests_per_minute"`
		Timeout           time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Model struct {
		Kind        string `yaml:"kind"`
		Path        string `yaml:"path"`
		ONNXLibrary string `yaml:"onnx_library"`
		InputName   string `yaml:"input_name"`
		OutputName  string `yaml:"output_name"`
	} `yaml:"model"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Sync struct {
		Enabled      bool     `yaml:"enabled"`
		Cron         string   `yaml:"cron"`
		Symbols      []string `yaml:"symbols"`
		LookbackDays int      `yaml:"lookback_days"`
		Provider     string   `yaml:"provider"`
	} `yaml:"sync"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// Load reads config from a YAML file, then .env, then environment variable overrides.
// A missing file or .env is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Environment variable overrides
func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("DEFAULT_SYMBOL"); v != "" {
		c.DataSource.DefaultSymbol = v
	}
	if v := os.Getenv("LOOKBACK_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOOKBACK_DAYS: %w", err)
		}
		c.DataSource.LookbackDays = n
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.DataSource.Proxy = v
	}
	if v := os.Getenv("MODEL_KIND"); v != "" {
		c.Model.Kind = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		c.Model.Path = v
	}
	if v := os.Getenv("ONNXRUNTIME_LIB"); v != "" {
		c.Model.ONNXLibrary = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("SYNC_CRON"); v != "" {
		c.Sync.Cron = v
	}
	if v := os.Getenv("SYNC_SYMBOLS"); v != "" {
		c.Sync.Symbols = splitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.DefaultSymbol == "" {
		c.DataSource.DefaultSymbol = "9104.T"
	}
	if c.DataSource.LookbackDays == 0 {
		c.DataSource.LookbackDays = 90
	}
	if c.DataSource.RequestsPerMinute == 0 {
		c.DataSource.RequestsPerMinute = 60
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.Model.Kind == "" {
		c.Model.Kind = "onnx"
	}
	if c.Model.Path == "" {
		c.Model.Path = "models/xgb_model_7day.onnx"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/forecaster.db"
	}
	if c.Sync.Cron == "" {
		c.Sync.Cron = "0 30 18 * * 1-5"
	}
	if c.Sync.LookbackDays == 0 {
		c.Sync.LookbackDays = 250
	}
	if c.Sync.Provider == "" {
		c.Sync.Provider = "yahoo"
	}
	if len(c.Sync.Symbols) == 0 {
		c.Sync.Symbols = []string{c.DataSource.DefaultSymbol}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "financego", "sqlite", "mock":
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, financego, sqlite, mock", c.DataSource.Provider)
	}
	switch c.Sync.Provider {
	case "yahoo", "financego", "mock":
	default:
		return fmt.Errorf("sync.provider %q is not one of yahoo, financego, mock", c.Sync.Provider)
	}
	if c.DataSource.LookbackDays < 75 {
		return fmt.Errorf("data_source.lookback_days must be at least 75, got %d", c.DataSource.LookbackDays)
	}
	if c.DataSource.RequestsPerMinute < 0 {
		return fmt.Errorf("data_source.requests_per_minute must not be negative")
	}
	switch c.Model.Kind {
	case "onnx", "linear":
	default:
		return fmt.Errorf("model.kind %q is not one of onnx, linear", c.Model.Kind)
	}
	if c.Model.Path == "" {
		return fmt.Errorf("model.path is required")
	}
	if c.Sync.Enabled && len(c.Sync.Symbols) == 0 {
		return fmt.Errorf("sync.symbols is required when sync is enabled")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
