// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	SoundCloud SoundCloudConfig `yaml:"soundcloud"`
	Playlists  PlaylistsConfig  `yaml:"playlists"`
	Messages   MessagesConfig   `yaml:"messages"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr" default:":8000"`
}

// SoundCloudConfig represents upstream SoundCloud API configuration.
type SoundCloudConfig struct {
	BaseURL    string `yaml:"base_url" default:"https://api.soundcloud.com" validate:"url"`
	TimeoutSec int    `yaml:"timeout_sec" default:"10" validate:"gte=1,lte=120"`
}

// PlaylistsConfig represents playlist creation configuration.
type PlaylistsConfig struct {
	DefaultTitle       string `yaml:"default_title" default:"Unplayed Tracks"`
	DefaultRandomCount int    `yaml:"default_random_count" default:"30" validate:"gte=1"`
	TrackLimit         int    `yaml:"track_limit" default:"500" validate:"gte=1,lte=500"`
	Visibility         string `yaml:"visibility" default:"private" validate:"oneof=private public"`
}

// MessagesConfig represents user-facing messages.
type MessagesConfig struct {
	UnplayedCreated string `yaml:"unplayed_created" default:"Unplayed tracks playlist created successfully. Check your playlists :)"`
	RandomCreated   string `yaml:"random_created" default:"Random playlist generated successfully. Check your playlists :)"`
	MergedCreated   string `yaml:"merged_created" default:"Merged playlist created successfully. Check your playlists :)"`
}

// Default returns a configuration with all defaults applied.
func Default() (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	cfg.overrideFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

// Load loads configuration from a YAML file. A missing file is not an
// error: the service runs fine on defaults alone.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default()
		}
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SOUNDCLOUD_BASE_URL"); v != "" {
		c.SoundCloud.BaseURL = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
