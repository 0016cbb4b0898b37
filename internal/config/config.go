package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" env:"PORT"`
	} `yaml:"server" envPrefix:"SERVER_"`
	Redis struct {
		Addr     string `yaml:"addr" env:"ADDR"`
		Password string `yaml:"password" env:"PASSWORD"`
		DB       int    `yaml:"db" env:"DB"`
		TTL      string `yaml:"ttl" env:"TTL"`
	} `yaml:"redis" envPrefix:"REDIS_"`
	Postgres struct {
		URL string `yaml:"url" env:"URL"`
	} `yaml:"postgres" envPrefix:"POSTGRES_"`
	Bank struct {
		ID  string `yaml:"id" env:"ID"`
		TTL string `yaml:"ttl" env:"TTL"`
	} `yaml:"bank" envPrefix:"BANK_"`
	Game struct {
		RevealDelay string `yaml:"revealDelay" env:"REVEAL_DELAY"`
		Sound       *bool  `yaml:"sound" env:"SOUND"`
		IdleTTL     string `yaml:"idleTTL" env:"IDLE_TTL"`
	} `yaml:"game" envPrefix:"GAME_"`
}

// envPrefix scopes every override, e.g. NETQUEST_REDIS_ADDR.
const envPrefix = "NETQUEST_"

// Load reads YAML config from path, then applies NETQUEST_* environment
// overrides. An empty path or a missing file yields env/defaults only.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// SoundEnabled defaults to on when unset.
func (c Config) SoundEnabled() bool {
	return c.Game.Sound == nil || *c.Game.Sound
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
