package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyZen    DifficultyPreset = "zen"
)

// Presets returns every preset in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyZen}
}

// ParsePreset converts a flag value to a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return DifficultyNormal, nil
	}
	for _, known := range Presets() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or zen): %w", s, ErrInvalid)
}

// IsRelaxed returns true if the preset disables the stability clock.
func IsRelaxed(preset DifficultyPreset) bool {
	return preset == DifficultyZen
}

// ApplyPhyzzlePreset modifies the config based on a difficulty preset.
func ApplyPhyzzlePreset(cfg *PhyzzleConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Stability.DecayBaseMs = 550
		cfg.Stability.DecayFloorMs = 200
		cfg.Quiz.TimeoutMs = 15000
		cfg.Quiz.WrongStability = 15
		cfg.Obstacles.Cap = 0.1
	case DifficultyHard:
		cfg.Grid.StartLevel = max(cfg.Grid.StartLevel, 3)
		cfg.Stability.DecayBaseMs = 340
		cfg.Stability.DecayFloorMs = 100
		cfg.Quiz.TimeoutMs = 7000
		cfg.Quiz.WrongStability = 35
		cfg.Obstacles.Cap = 0.3
	case DifficultyZen:
		cfg.Stability.DecayEnabled = false
		cfg.Quiz.Enabled = false
	}
}
