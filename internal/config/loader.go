package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// WachterDir is the name of the wachter configuration directory.
	WachterDir = ".wachter"
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.yaml"
)

// ConfigPaths returns config file candidates, lowest priority first.
func ConfigPaths(repoRoot string) []string {
	home, _ := os.UserHomeDir()
	paths := []string{
		filepath.Join(home, WachterDir, ConfigFileName), // global user config
	}
	if repoRoot != "" {
		paths = append(paths, filepath.Join(repoRoot, WachterDir, ConfigFileName))
	}
	return paths
}

// Load reads configuration for a repository. Files are applied over the
// defaults in priority order; a missing file is not an error.
func Load(repoRoot string) (*Config, error) {
	cfg := NewDefault()

	for _, path := range ConfigPaths(repoRoot) {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to the repository's .wachter/config.yaml.
func Save(repoRoot string, cfg *Config) error {
	path := filepath.Join(repoRoot, WachterDir, ConfigFileName)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
