// ABOUTME: Player configuration loaded from an optional YAML file
// ABOUTME: Provides defaults and validation; CLI flags are layered on top by main
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultLogFile is used when no log file is configured
const DefaultLogFile = "bgmusic.log"

// Config holds player configuration
type Config struct {
	// Source is the audio resource to loop (path, file:// or http(s):// URL)
	Source string `yaml:"src"`

	// Autoplay starts the music as soon as the player is up
	Autoplay bool `yaml:"autoplay"`

	// AllowAutoplay lets playback start before the first key press. Without
	// it an autoplay attempt is refused and the user is asked to interact.
	AllowAutoplay bool `yaml:"allow_autoplay"`

	// NoTUI switches to the line console with logs on stdout
	NoTUI bool `yaml:"no_tui"`

	// LogFile receives logs in every mode
	LogFile string `yaml:"log_file"`

	// CacheDir stores downloaded tracks
	CacheDir string `yaml:"cache_dir"`

	// Debug enables debug logging
	Debug bool `yaml:"debug"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		LogFile: DefaultLogFile,
	}
}

// Load reads a YAML file over the defaults. An empty path returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks required fields
func (c Config) Validate() error {
	if c.Source == "" {
		return errors.New("no audio source configured (use -src or src: in the config file)")
	}
	if c.LogFile == "" {
		return errors.New("log file path must not be empty")
	}
	return nil
}
