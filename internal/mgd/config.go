// Package mgd holds the mediagrid application's configuration and
// logging setup.
package mgd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration for mediagrid.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Cache     CacheConfig     `toml:"cache"`
	Slideshow SlideshowConfig `toml:"slideshow"`
	Log       LogSettings     `toml:"log"`
}

// ServerConfig points at the media server.
type ServerConfig struct {
	URL       string `toml:"url"`
	TimeoutMS int64  `toml:"timeout_ms"`
}

// CacheConfig tunes the client-side caches.
type CacheConfig struct {
	ThumbTTLMS int64 `toml:"thumb_ttl_ms"`
}

// SlideshowConfig tunes the viewer slideshow.
type SlideshowConfig struct {
	IntervalMS int64 `toml:"interval_ms"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// LoadConfig loads a config file from path. A missing file is not an
// error when optional is set; flags can carry the whole configuration.
func LoadConfig(path string, optional bool) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, errors.New("config path required")
	}

	info, err := os.Stat(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if info.IsDir() {
		return cfg, errors.New("config path is a directory")
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultConfigPath returns the default config location.
func DefaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "mediagrid", "mediagrid.toml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mediagrid", "mediagrid.toml"), nil
}
