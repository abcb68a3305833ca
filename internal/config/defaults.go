package config

import (
	_ "embed"
)

//go:embed defaults/phyzzle.yaml
var defaultPhyzzleYAML []byte

// DefaultPhyzzleConfig returns the default PhyZzle configuration.
func DefaultPhyzzleConfig() PhyzzleConfig {
	return PhyzzleConfig{
		Grid: GridConfig{
			Size:        7,
			StartLevel:  1,
			StableStart: true,
		},
		Obstacles: ObstacleConfig{
			Step: 0.05,
			Cap:  0.2,
		},
		Cascade: CascadeConfig{
			MaxPasses:   0,
			PassDelayMs: 300,
		},
		Scoring: ScoringConfig{
			PointsPerCell: 25,
			ZapBonus:      500,
		},
		Stability: StabilityConfig{
			Max:             100,
			PerCell:         2,
			ZapBonus:        20,
			DecayEnabled:    true,
			DecayAmount:     1,
			DecayBaseMs:     400,
			DecayPerLevelMs: 30,
			DecayFloorMs:    120,
		},
		Targets: TargetConfig{
			Base:     8,
			PerLevel: 4,
			Initial:  "gravity",
			Cycle:    []string{"gravity", "force", "mass", "velocity", "acceleration"},
		},
		Quiz: QuizConfig{
			Enabled:          true,
			DelayMinMs:       20000,
			DelayMaxMs:       45000,
			TimeoutMs:        10000,
			CorrectScore:     500,
			CorrectStability: 30,
			WrongScore:       200,
			WrongStability:   25,
		},
		Word: WordConfig{
			Score: 5000,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "phyzzle", "phyzzle_zen":
		return defaultPhyzzleYAML
	default:
		return nil
	}
}
