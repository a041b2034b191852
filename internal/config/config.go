// Package config loads catalog's settings: built-in defaults, then a YAML
// file, then a .env file, then CATALOG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix      = "CATALOG_"
	defaultEnvFile = ".env"
	configFileName = "config.yaml"
	defaultDataDir = "~/.catalog"
)

type Config struct {
	API struct {
		BaseURL         string        `koanf:"base_url" validate:"required,url"`
		Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
		RequestInterval time.Duration `koanf:"request_interval" validate:"gte=0"`
		Burst           int           `koanf:"burst" validate:"gte=1"`
	} `koanf:"api"`

	Browse struct {
		PageSize           int           `koanf:"page_size" validate:"gte=1,lte=100"`
		Debounce           time.Duration `koanf:"debounce" validate:"gt=0"`
		ScrollTopThreshold int           `koanf:"scroll_top_threshold" validate:"gte=1"`
	} `koanf:"browse"`

	Data struct {
		Dir          string `koanf:"dir" validate:"required"`
		HistoryLimit int    `koanf:"history_limit" validate:"gte=0,lte=500"`
	} `koanf:"data"`

	Log struct {
		Level string `koanf:"level" validate:"oneof=debug info warn error"`
	} `koanf:"log"`
}

func (c Config) String() string {
	return fmt.Sprintf("api.base_url=%s, api.timeout=%v, api.request_interval=%v, api.burst=%d, browse.page_size=%d, browse.debounce=%v, browse.scroll_top_threshold=%d, data.dir=%s, data.history_limit=%d, log.level=%s",
		c.API.BaseURL,
		c.API.Timeout,
		c.API.RequestInterval,
		c.API.Burst,
		c.Browse.PageSize,
		c.Browse.Debounce,
		c.Browse.ScrollTopThreshold,
		c.Data.Dir,
		c.Data.HistoryLimit,
		c.Log.Level)
}

// Defaults returns the built-in settings as koanf keys.
func Defaults() map[string]any {
	return map[string]any{
		"api.base_url":                "https://dummyjson.com",
		"api.timeout":                 "15s",
		"api.request_interval":        "200ms",
		"api.burst":                   2,
		"browse.page_size":            20,
		"browse.debounce":             "500ms",
		"browse.scroll_top_threshold": 30,
		"data.dir":                    defaultDataDir,
		"data.history_limit":          20,
		"log.level":                   "info",
	}
}

// Options overrides where Load looks for files. Empty fields use the
// defaults: <default data dir>/config.yaml and ./.env.
type Options struct {
	ConfigFile string
	EnvFile    string
}

// Load builds the effective configuration. Missing files are skipped;
// unreadable or malformed ones are errors.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// 2. YAML file
	configFile := opts.ConfigFile
	explicit := configFile != ""
	if !explicit {
		configFile = filepath.Join(ExpandHome(defaultDataDir), configFileName)
	}
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config file %s: %w", configFile, err)
		}
	}

	// 3. .env file
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if envFileMap, err := godotenv.Read(envFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if strings.HasPrefix(key, envPrefix) {
				envMap[keyTransformer(key)] = value
			}
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}

	// 4. Environment, the highest priority
	if err := k.Load(env.Provider(envPrefix, ".", keyTransformer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Data.Dir = ExpandHome(cfg.Data.Dir)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be http or https: %s", c.API.BaseURL)
	}
	return nil
}

// keyTransformer maps CATALOG_API_BASE_URL to api.base_url. Only the first
// underscore after the prefix separates section from key.
func keyTransformer(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DBPath returns the search history database path.
func (c *Config) DBPath() string {
	return filepath.Join(c.Data.Dir, "catalog.db")
}

// EventsPath returns the JSONL event log path.
func (c *Config) EventsPath() string {
	return filepath.Join(c.Data.Dir, "catalog.events.jsonl")
}
