package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `json:"server"`
}

type ServerConfig struct {
	BaseURL string `json:"base_url"`
	Timeout string `json:"timeout"`
}

// Load reads the JSON config file; when the file is absent it falls back to
// .env/.env.local and plain environment variables.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if err := godotenv.Load(); err != nil {
			if err := godotenv.Load(".env.local"); err != nil {
				fmt.Printf("No .env or .env.local file found. Using environment variables.\n")
			}
		}

		return &Config{
			Server: ServerConfig{
				BaseURL: getEnv("CRON_CONSOLE_URL", "http://localhost:8000"),
				Timeout: getEnv("CRON_CONSOLE_TIMEOUT", "10s"),
			},
		}, nil
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Server.BaseURL == "" {
		config.Server.BaseURL = "http://localhost:8000"
	}
	if config.Server.Timeout == "" {
		config.Server.Timeout = "10s"
	}

	return &config, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000",
			Timeout: "10s",
		},
	}
}

// RequestTimeout parses the configured timeout string.
func (c *Config) RequestTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Server.Timeout, err)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Profile is a named backend target from profiles.yaml, so one console can
// switch between, say, a local cronsim and a staging deployment.
type Profile struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type Profiles struct {
	Profiles []Profile `yaml:"profiles"`
}

func LoadProfiles(path string) (*Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var profiles Profiles
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file: %w", err)
	}

	return &profiles, nil
}

func (p *Profiles) Get(name string) (*Profile, error) {
	for _, profile := range p.Profiles {
		if profile.Name == name {
			return &profile, nil
		}
	}
	return nil, fmt.Errorf("profile %s not found", name)
}
