// Package config reads and writes the project-local .ordr/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/marcus/ordr/internal/models"
)

const (
	// Dir is the project-local state directory.
	Dir        = ".ordr"
	configFile = ".ordr/config.json"
	lockName   = ".ordr/config.json.lock"
)

// Path returns the config file path under baseDir.
func Path(baseDir string) string {
	return filepath.Join(baseDir, configFile)
}

// Load reads the config from disk. A missing file yields an empty config.
func Load(baseDir string) (*models.Config, error) {
	data, err := os.ReadFile(Path(baseDir))
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Config{}, nil
		}
		return nil, err
	}

	var cfg models.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to disk using atomic write (temp file + rename)
func Save(baseDir string, cfg *models.Config) error {
	configPath := Path(baseDir)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, configPath)
}

// Update loads the config, applies fn, and saves it while holding the config lock.
func Update(baseDir string, fn func(cfg *models.Config) error) error {
	return withConfigLock(baseDir, func() error {
		cfg, err := Load(baseDir)
		if err != nil {
			return err
		}
		if err := fn(cfg); err != nil {
			return err
		}
		return Save(baseDir, cfg)
	})
}

// GetFeatureFlag returns a feature flag from local config.
// The second return value indicates whether the flag is explicitly set.
func GetFeatureFlag(baseDir, name string) (bool, bool, error) {
	cfg, err := Load(baseDir)
	if err != nil {
		return false, false, err
	}
	if cfg.FeatureFlags == nil {
		return false, false, nil
	}
	value, ok := cfg.FeatureFlags[name]
	return value, ok, nil
}

// SetFeatureFlag persists a feature flag in local config.
func SetFeatureFlag(baseDir, name string, enabled bool) error {
	return Update(baseDir, func(cfg *models.Config) error {
		if cfg.FeatureFlags == nil {
			cfg.FeatureFlags = make(map[string]bool)
		}
		cfg.FeatureFlags[name] = enabled
		return nil
	})
}

// UnsetFeatureFlag removes an explicitly-set feature flag from local config.
func UnsetFeatureFlag(baseDir, name string) error {
	return Update(baseDir, func(cfg *models.Config) error {
		if cfg.FeatureFlags == nil {
			return nil
		}
		delete(cfg.FeatureFlags, name)
		if len(cfg.FeatureFlags) == 0 {
			cfg.FeatureFlags = nil
		}
		return nil
	})
}

// SetDefaultStore records the store used when none is given on the command line.
func SetDefaultStore(baseDir, store string) error {
	return Update(baseDir, func(cfg *models.Config) error {
		cfg.DefaultStore = store
		return nil
	})
}
