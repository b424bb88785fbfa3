package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	NATS       NATSConfig       `yaml:"nats"`
	Assignment AssignmentConfig `yaml:"assignment"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type AssignmentConfig struct {
	StatsIntervalMs int `yaml:"stats_interval_ms"`
}

type ScoringConfig struct {
	Weights ScoringWeights `yaml:"weights"`
}

type ScoringWeights struct {
	SkillMatch   float64 `yaml:"skill_match"`
	Productivity float64 `yaml:"productivity"`
	Availability float64 `yaml:"availability"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) StatsInterval() time.Duration {
	return time.Duration(c.Assignment.StatsIntervalMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		NATS: NATSConfig{
			URL: "nats://localhost:4222",
		},
		Assignment: AssignmentConfig{
			StatsIntervalMs: 60000,
		},
		Scoring: ScoringConfig{
			Weights: ScoringWeights{
				SkillMatch:   0.50,
				Productivity: 0.30,
				Availability: 0.20,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BOUNTY_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("BOUNTY_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("BOUNTY_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("BOUNTY_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("BOUNTY_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("BOUNTY_STATS_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Assignment.StatsIntervalMs = n
		}
	}
	if v := os.Getenv("BOUNTY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
