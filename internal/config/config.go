package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// WeatherConfig holds defaults for the weather proxy.
type WeatherConfig struct {
	// City is the default city used when a request carries neither
	// coordinates nor a city parameter.
	City string `yaml:"city" json:"city"`
	// FallbackLat / FallbackLon are used when geocoding fails or
	// returns no result.
	FallbackLat float64 `yaml:"fallback_lat" json:"fallback_lat"`
	FallbackLon float64 `yaml:"fallback_lon" json:"fallback_lon"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// DataDir is the directory holding the SQLite database file.
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// Debug enables debug logging.
	Debug bool `yaml:"debug" json:"debug"`

	// StaticDir, if set, is served as the SPA frontend. Non-API paths
	// that do not match a file fall back to index.html.
	StaticDir string `yaml:"static_dir" json:"static_dir"`

	// SyncCron is a cron-style schedule for background CalDAV sync of
	// the enabled calendar_syncs rows. Empty disables the scheduler.
	SyncCron string `yaml:"sync_cron" json:"sync_cron"`

	// Weather holds weather proxy defaults.
	Weather WeatherConfig `yaml:"weather" json:"weather"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /api/health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:  "127.0.0.1:8080",
		DataDir: "./data",
		Weather: WeatherConfig{
			City:        "London",
			FallbackLat: 51.5074,
			FallbackLon: -0.1278,
		},
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.Weather.City == "" {
		c.Weather.City = "London"
	}
	if c.Weather.FallbackLat == 0 && c.Weather.FallbackLon == 0 {
		c.Weather.FallbackLat = 51.5074
		c.Weather.FallbackLon = -0.1278
	}
}

// DatabasePath returns the SQLite database file path under DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "ecal.db")
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (0600,
// parent directory created as needed) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename)
// with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".ecal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
