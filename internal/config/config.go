package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" toml:"port"`
		// AppURL prefixes links sent in confirmation and reset e-mails.
		AppURL string `yaml:"appUrl" toml:"app_url"`
		// AllowedOrigins feeds the CORS policy; empty allows any origin.
		AllowedOrigins []string `yaml:"allowedOrigins" toml:"allowed_origins"`
	} `yaml:"server" toml:"server"`
	Redis struct {
		Addr     string `yaml:"addr" toml:"addr"`
		Password string `yaml:"password" toml:"password"`
		DB       int    `yaml:"db" toml:"db"`
	} `yaml:"redis" toml:"redis"`
	Postgres struct {
		URL string `yaml:"url" toml:"url"`
	} `yaml:"postgres" toml:"postgres"`
	Questions struct {
		CacheTTL string `yaml:"cacheTtl" toml:"cache_ttl"`
	} `yaml:"questions" toml:"questions"`
	Auth struct {
		JWTSecret  string `yaml:"jwtSecret" toml:"jwt_secret"`
		TokenTTL   string `yaml:"tokenTtl" toml:"token_ttl"`
		ConfirmTTL string `yaml:"confirmTtl" toml:"confirm_ttl"`
		BcryptCost int    `yaml:"bcryptCost" toml:"bcrypt_cost"`
	} `yaml:"auth" toml:"auth"`
	Mail struct {
		Host     string `yaml:"host" toml:"host"`
		Port     int    `yaml:"port" toml:"port"`
		Username string `yaml:"username" toml:"username"`
		Password string `yaml:"password" toml:"password"`
		From     string `yaml:"from" toml:"from"`
	} `yaml:"mail" toml:"mail"`
}

// Load reads config from path, as TOML for a .toml extension and YAML otherwise.
// ${VAR} references are expanded from the environment before decoding.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	expanded := os.ExpandEnv(string(data))

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return cfg, fmt.Errorf("decode toml config: %w", err)
		}
	default:
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return cfg, fmt.Errorf("decode yaml config: %w", err)
		}
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
