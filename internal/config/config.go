// Package config loads client settings from defaults, an optional YAML file
// and VENUEBOOK_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/naveenspark/venuebook/pkg/client"
)

// Environment overrides.
const (
	EnvAPIURL   = "VENUEBOOK_API_URL"
	EnvStateDir = "VENUEBOOK_STATE_DIR"
	EnvTimeout  = "VENUEBOOK_TIMEOUT"
	EnvDebug    = "VENUEBOOK_DEBUG"
)

// FileName is the config file looked up in the state directory.
const FileName = "config.yaml"

// Config holds the resolved settings.
type Config struct {
	APIURL   string        `yaml:"api_url"`
	Timeout  time.Duration `yaml:"timeout"`
	StateDir string        `yaml:"state_dir"`
	LogFile  string        `yaml:"log_file"`
	Debug    bool          `yaml:"debug"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:  client.DefaultBaseURL,
		Timeout: client.DefaultTimeout,
	}
}

// DefaultStateDir is ~/.venuebook.
func DefaultStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".venuebook"), nil
}

// Load resolves the configuration. An empty path means <state dir>/config.yaml,
// where a missing file is not an error. An explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		dir := os.Getenv(EnvStateDir)
		if dir == "" {
			d, err := DefaultStateDir()
			if err != nil {
				return Config{}, err
			}
			dir = d
		}
		path = filepath.Join(dir, FileName)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config.Load: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg.normalize()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvStateDir); v != "" {
		c.StateDir = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvTimeout, v, err)
		}
		c.Timeout = d
	}
	if v := os.Getenv(EnvDebug); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvDebug, v, err)
		}
		c.Debug = b
	}
	return nil
}

func (c Config) normalize() (Config, error) {
	c.APIURL = strings.TrimSpace(c.APIURL)
	if c.APIURL == "" {
		c.APIURL = client.DefaultBaseURL
	}
	if !strings.HasSuffix(c.APIURL, "/") {
		c.APIURL += "/"
	}
	if c.Timeout <= 0 {
		c.Timeout = client.DefaultTimeout
	}
	if c.StateDir == "" {
		dir, err := DefaultStateDir()
		if err != nil {
			return Config{}, err
		}
		c.StateDir = dir
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.StateDir, "venuebook.log")
	}
	return c, nil
}
