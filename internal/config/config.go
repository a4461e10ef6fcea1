package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ServiceConfig struct {
	Name     string `yaml:"name"`
	HTTPAddr string `yaml:"http_addr"`
}

type LogConfig struct {
	Mode string `yaml:"mode"`
}

type NATSConfig struct {
	Enabled                bool   `yaml:"enabled"`
	URL                    string `yaml:"url"`
	SubjectFacts           string `yaml:"subject_facts"`
	SubjectRecommendations string `yaml:"subject_recommendations"`
	QueueGroup             string `yaml:"queue_group"`
}

type StorageConfig struct {
	PostgresDSN  string `yaml:"postgres_dsn"`
	WriteHistory bool   `yaml:"write_history"`
}

type RulesConfig struct {
	IncludeBuiltin *bool  `yaml:"include_builtin"`
	RulesPath      string `yaml:"rules_path"`
}

// Builtin reports whether the built-in rule table is loaded; defaults to true.
func (r RulesConfig) Builtin() bool {
	return r.IncludeBuiltin == nil || *r.IncludeBuiltin
}

type RecommendConfig struct {
	TopN int `yaml:"top_n"`
}

type Config struct {
	ConfigVersion int             `yaml:"config_version"`
	Service       ServiceConfig   `yaml:"service"`
	Log           LogConfig       `yaml:"log"`
	NATS          NATSConfig      `yaml:"nats"`
	Storage       StorageConfig   `yaml:"storage"`
	Rules         RulesConfig     `yaml:"rules"`
	Recommend     RecommendConfig `yaml:"recommend"`
	Timeout       time.Duration   `yaml:"-"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Service.HTTPAddr == "" {
		return nil, fmt.Errorf("service.http_addr is required")
	}
	if cfg.NATS.Enabled {
		if cfg.NATS.URL == "" {
			return nil, fmt.Errorf("nats.url is required when nats is enabled")
		}
		if cfg.NATS.SubjectFacts == "" {
			return nil, fmt.Errorf("nats.subject_facts is required when nats is enabled")
		}
	}
	if cfg.Storage.WriteHistory && cfg.Storage.PostgresDSN == "" {
		return nil, fmt.Errorf("storage.postgres_dsn is required when write_history is set")
	}

	if cfg.Service.Name == "" {
		cfg.Service.Name = "majorwise"
	}
	if cfg.NATS.QueueGroup == "" {
		cfg.NATS.QueueGroup = "majorwise"
	}
	if cfg.Recommend.TopN <= 0 {
		cfg.Recommend.TopN = 3
	}

	cfg.Timeout = 10 * time.Second
	return &cfg, nil
}

// Default is the configuration used by the one-shot CLI commands when no
// file is given.
func Default() *Config {
	return &Config{
		ConfigVersion: 1,
		Service:       ServiceConfig{Name: "majorwise", HTTPAddr: ":8080"},
		Log:           LogConfig{Mode: "development"},
		NATS:          NATSConfig{QueueGroup: "majorwise"},
		Recommend:     RecommendConfig{TopN: 3},
		Timeout:       10 * time.Second,
	}
}
