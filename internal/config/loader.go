package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadPhyzzle loads PhyZzle configuration.
// Search order: customPath -> ~/.phyzzle/configs/phyzzle.yaml -> ./configs/phyzzle.yaml -> embedded default
//
// Files are decoded on top of the defaults, so a partial file only overrides
// the keys it sets.
func LoadPhyzzle(customPath string) (PhyzzleConfig, error) {
	cfg := DefaultPhyzzleConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory, then the local configs directory
	for _, path := range []string{userConfigPath("phyzzle.yaml"), filepath.Join("configs", "phyzzle.yaml")} {
		if path == "" {
			continue
		}
		if loaded, ok := tryLoad(path); ok {
			return loaded, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultPhyzzleYAML, &cfg); err != nil {
		return DefaultPhyzzleConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryLoad reads an optional config file. Unreadable or invalid files are
// skipped so the next source in the search order is used.
func tryLoad(path string) (PhyzzleConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PhyzzleConfig{}, false
	}
	cfg := DefaultPhyzzleConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return PhyzzleConfig{}, false
	}
	if cfg.Validate() != nil {
		return PhyzzleConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".phyzzle", "configs", filename)
}
