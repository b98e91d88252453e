package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Environment          string   `yaml:"environment"`
	ServerPort           int      `yaml:"server_port"`
	LogLevel             string   `yaml:"log_level"`
	Database             Database `yaml:"database"`
	RedisURL             string   `yaml:"redis_url"`
	ImageDirectory       string   `yaml:"image_directory"`
	SessionTTLMinutes    int      `yaml:"session_ttl_minutes"`
	SweepIntervalMinutes int      `yaml:"sweep_interval_minutes"`
	RateLimitPerMinute   int      `yaml:"rate_limit_per_minute"`
	OTLPEndpoint         string   `yaml:"otlp_endpoint"`
}

// Database holds the Postgres connection settings
type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// Load reads configuration from an optional YAML file (CONFIG_FILE) and
// then environment variables; the environment always wins.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:          "development",
		ServerPort:           8080,
		LogLevel:             "info",
		ImageDirectory:       "./images",
		SessionTTLMinutes:    1440,
		SweepIntervalMinutes: 10,
		RateLimitPerMinute:   100,
		Database: Database{
			Host:    "localhost",
			Port:    5432,
			User:    "nestboxd",
			Name:    "nestboxd",
			SSLMode: "disable",
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(&cfg.Environment, "ENVIRONMENT")
	applyEnv(&cfg.LogLevel, "LOG_LEVEL")
	applyEnv(&cfg.RedisURL, "REDIS_URL")
	applyEnv(&cfg.ImageDirectory, "IMAGE_DIRECTORY")
	applyEnv(&cfg.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	applyEnv(&cfg.Database.Host, "DB_HOST")
	applyEnv(&cfg.Database.User, "DB_USER")
	applyEnv(&cfg.Database.Password, "DB_PASSWORD")
	applyEnv(&cfg.Database.Name, "DB_NAME")
	applyEnv(&cfg.Database.SSLMode, "DB_SSLMODE")

	intVars := []struct {
		target *int
		key    string
	}{
		{&cfg.ServerPort, "SERVER_PORT"},
		{&cfg.Database.Port, "DB_PORT"},
		{&cfg.SessionTTLMinutes, "SESSION_TTL_MINUTES"},
		{&cfg.SweepIntervalMinutes, "SWEEP_INTERVAL_MINUTES"},
		{&cfg.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE"},
	}
	for _, v := range intVars {
		if err := applyEnvInt(v.target, v.key); err != nil {
			return nil, err
		}
	}

	if cfg.ImageDirectory == "" {
		return nil, fmt.Errorf("image directory must not be empty")
	}
	return cfg, nil
}

func applyEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func applyEnvInt(target *int, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*target = parsed
	return nil
}
