package config

import (
	"os"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// DefaultTimezone is where the event runs; schedule days are cut at its midnight.
const DefaultTimezone = "America/Toronto"

type Config struct {
	Server struct {
		Port     string `yaml:"port"`
		Timezone string `yaml:"timezone"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Schedule struct {
		CacheTTL string `yaml:"cache_ttl"`
		Visible  bool   `yaml:"visible"`
	} `yaml:"schedule"`
	Points struct {
		// TokenSecret signs workshop QR tokens and must match on every instance.
		TokenSecret string `yaml:"token_secret"`
		TokenTTL    string `yaml:"token_ttl"`
	} `yaml:"points"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Location resolves the configured timezone, falling back to DefaultTimezone.
func (c Config) Location() (*time.Location, error) {
	name := c.Server.Timezone
	if name == "" {
		name = DefaultTimezone
	}
	return time.LoadLocation(name)
}
