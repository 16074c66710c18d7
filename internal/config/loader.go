package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load discovers a config file, merges it with defaults, applies environment
// variable overrides, validates the result, and returns the final config.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return LoadFrom(cwd)
}

// LoadFrom loads config using dir as the starting point for file discovery.
func LoadFrom(dir string) (*Config, error) {
	cfg := DefaultConfig()

	path, err := discoverConfigPath(dir)
	if err != nil {
		return nil, fmt.Errorf("config discovery: %w", err)
	}

	if path != "" {
		override, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		merge(&cfg, override)
	}

	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigPath returns the first config file that exists, or "" when
// running on defaults only.
func discoverConfigPath(dir string) (string, error) {
	candidates := []string{
		filepath.Join(dir, "logtree.yaml"),
		filepath.Join(dir, "logtree.toml"),
	}
	if home, err := os.UserHomeDir(); err == nil {
		userDir := filepath.Join(home, ".config", "logtree")
		candidates = append(candidates,
			filepath.Join(userDir, "config.yaml"),
			filepath.Join(userDir, "config.toml"),
		)
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", nil
}

// loadFromFile reads a YAML or TOML config file, chosen by extension.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parsing TOML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	}

	return &cfg, nil
}

// merge overlays override onto base. Scalars override when non-zero,
// pointer-to-bool fields override when non-nil.
func merge(base *Config, override *Config) {
	// View
	if override.View.Format != "" {
		base.View.Format = override.View.Format
	}
	if override.View.ScrollSpeed != 0 {
		base.View.ScrollSpeed = override.View.ScrollSpeed
	}
	if override.View.ShowConsole != nil {
		base.View.ShowConsole = override.View.ShowConsole
	}
	if override.View.ExpandFailures != nil {
		base.View.ExpandFailures = override.View.ExpandFailures
	}

	// Source
	if override.Source.Follow != nil {
		base.Source.Follow = override.Source.Follow
	}
	if override.Source.PollIntervalMs != 0 {
		base.Source.PollIntervalMs = override.Source.PollIntervalMs
	}
	if override.Source.BatchSize != 0 {
		base.Source.BatchSize = override.Source.BatchSize
	}

	if override.Update.Repo != "" {
		base.Update.Repo = override.Update.Repo
	}
}

// applyEnvOverrides applies LOGTREE_* environment variables on top of the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOGTREE_FORMAT"); v != "" {
		cfg.View.Format = v
	}
	if v := os.Getenv("LOGTREE_FOLLOW"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Source.Follow = boolPtr(b)
		} else {
			fmt.Fprintf(os.Stderr, "warning: LOGTREE_FOLLOW=%q is not a valid boolean, ignoring\n", v)
		}
	}
	if v := os.Getenv("LOGTREE_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Source.BatchSize = n
		} else {
			fmt.Fprintf(os.Stderr, "warning: LOGTREE_BATCH_SIZE=%q is not a valid integer, ignoring\n", v)
		}
	}
}
