// Package config loads the service configuration from config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

const DefaultFile = "config.yaml"

type Config struct {
	Http struct {
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
		MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	} `yaml:"http"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	Model struct {
		ArtifactPath  string `yaml:"artifact_path"`
		WatchArtifact bool   `yaml:"watch_artifact"`
	} `yaml:"model"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
	Display struct {
		Locale string `yaml:"locale"`
	} `yaml:"display"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var c Config
	c.Http.Port = 8501
	c.Http.Timeout = 30 * time.Second
	c.Http.AllowedOrigins = []string{"*"}
	c.Http.MaxBodyBytes = 64 << 10
	c.Log.Level = "info"
	c.Log.MaxSizeMB = 50
	c.Log.MaxBackups = 3
	c.Log.MaxAgeDays = 28
	c.Model.ArtifactPath = filepath.Join("experiment", "artifacts", "best_model.json")
	c.Model.WatchArtifact = true
	c.Cache.Size = 256
	c.Display.Locale = "en-IN"
	return &c
}

// Locate returns name if it exists in the working directory, otherwise the
// same file one directory up (for runs from cmd/ or a test directory).
func Locate(name string) string {
	if _, err := os.Stat(name); err == nil {
		return name
	}
	parent := filepath.Join("..", name)
	if _, err := os.Stat(parent); err == nil {
		return parent
	}
	return name
}

// Load reads path over the defaults. A missing file is not an error; found
// reports whether it existed. Relative artifact paths are resolved against
// the directory holding the file.
func Load(path string) (cfg *Config, found bool, err error) {
	cfg = Default()
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, false, cfg.Validate()
		}
		return nil, false, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, true, fmt.Errorf("parse %s: %w", path, err)
	}
	if !filepath.IsAbs(cfg.Model.ArtifactPath) {
		cfg.Model.ArtifactPath = filepath.Join(filepath.Dir(path), cfg.Model.ArtifactPath)
	}
	return cfg, true, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.Http.Port)
	}
	if c.Http.Timeout <= 0 {
		return errors.New("http.timeout must be positive")
	}
	if c.Model.ArtifactPath == "" {
		return errors.New("model.artifact_path is required")
	}
	if c.Cache.Size < 0 {
		return errors.New("cache.size must not be negative")
	}
	if _, err := language.Parse(c.Display.Locale); err != nil {
		return fmt.Errorf("display.locale: %w", err)
	}
	return nil
}
