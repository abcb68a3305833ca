// Package config provides YAML-based game configuration loading and
// difficulty presets for PhyZzle.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/phyzzle/internal/match3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// PhyzzleConfig contains all configuration for the PhyZzle game.
type PhyzzleConfig struct {
	Grid      GridConfig      `yaml:"grid"`
	Obstacles ObstacleConfig  `yaml:"obstacles"`
	Cascade   CascadeConfig   `yaml:"cascade"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Stability StabilityConfig `yaml:"stability"`
	Targets   TargetConfig    `yaml:"targets"`
	Quiz      QuizConfig      `yaml:"quiz"`
	Word      WordConfig      `yaml:"word"`
}

// GridConfig defines the board.
type GridConfig struct {
	Size        int  `yaml:"size"`
	StartLevel  int  `yaml:"start_level"`
	StableStart bool `yaml:"stable_start"`
}

// ObstacleConfig defines how obstacle probability grows with the level.
type ObstacleConfig struct {
	Step float64 `yaml:"step"`
	Cap  float64 `yaml:"cap"`
}

// CascadeConfig defines cascade resolution and playback.
type CascadeConfig struct {
	MaxPasses   int `yaml:"max_passes"`    // 0 = unbounded
	PassDelayMs int `yaml:"pass_delay_ms"` // Time each pass stays on screen
}

// ScoringConfig defines match points.
type ScoringConfig struct {
	PointsPerCell int `yaml:"points_per_cell"`
	ZapBonus      int `yaml:"zap_bonus"`
}

// StabilityConfig defines the stability meter.
type StabilityConfig struct {
	Max             int  `yaml:"max"`
	PerCell         int  `yaml:"per_cell"`
	ZapBonus        int  `yaml:"zap_bonus"`
	DecayEnabled    bool `yaml:"decay_enabled"`
	DecayAmount     int  `yaml:"decay_amount"`
	DecayBaseMs     int  `yaml:"decay_base_ms"`
	DecayPerLevelMs int  `yaml:"decay_per_level_ms"`
	DecayFloorMs    int  `yaml:"decay_floor_ms"`
}

// TargetConfig defines the per-level collection goal.
type TargetConfig struct {
	Base     int      `yaml:"base"`
	PerLevel int      `yaml:"per_level"`
	Initial  string   `yaml:"initial"`
	Cycle    []string `yaml:"cycle"`
}

// QuizConfig defines the random quiz interruptions.
type QuizConfig struct {
	Enabled          bool   `yaml:"enabled"`
	DelayMinMs       int    `yaml:"delay_min_ms"`
	DelayMaxMs       int    `yaml:"delay_max_ms"`
	TimeoutMs        int    `yaml:"timeout_ms"`
	CorrectScore     int    `yaml:"correct_score"`
	CorrectStability int    `yaml:"correct_stability"`
	WrongScore       int    `yaml:"wrong_score"`
	WrongStability   int    `yaml:"wrong_stability"`
	Bank             string `yaml:"bank"` // Optional external bank file
}

// WordConfig defines the level-up word challenge.
type WordConfig struct {
	Score int `yaml:"score"`
}

// Validate checks that the configuration can drive a game.
func (c PhyzzleConfig) Validate() error {
	if c.Grid.Size < match3.MinGridSize {
		return fmt.Errorf("config: grid.size %d below %d: %w", c.Grid.Size, match3.MinGridSize, ErrInvalid)
	}
	if c.Grid.StartLevel < 1 {
		return fmt.Errorf("config: grid.start_level %d: %w", c.Grid.StartLevel, ErrInvalid)
	}
	if c.Obstacles.Step < 0 || c.Obstacles.Cap < 0 || c.Obstacles.Cap > 1 {
		return fmt.Errorf("config: obstacles step=%v cap=%v: %w", c.Obstacles.Step, c.Obstacles.Cap, ErrInvalid)
	}
	if c.Cascade.MaxPasses < 0 || c.Cascade.PassDelayMs < 0 {
		return fmt.Errorf("config: cascade values must not be negative: %w", ErrInvalid)
	}
	if c.Stability.Max <= 0 {
		return fmt.Errorf("config: stability.max must be positive: %w", ErrInvalid)
	}
	if c.Stability.DecayEnabled && (c.Stability.DecayAmount <= 0 || c.Stability.DecayFloorMs <= 0) {
		return fmt.Errorf("config: decay needs a positive amount and floor: %w", ErrInvalid)
	}

	for name, v := range map[string]int{
		"scoring.points_per_cell":   c.Scoring.PointsPerCell,
		"scoring.zap_bonus":         c.Scoring.ZapBonus,
		"stability.per_cell":        c.Stability.PerCell,
		"stability.zap_bonus":       c.Stability.ZapBonus,
		"quiz.correct_score":        c.Quiz.CorrectScore,
		"quiz.correct_stability":    c.Quiz.CorrectStability,
		"quiz.wrong_score":          c.Quiz.WrongScore,
		"quiz.wrong_stability":      c.Quiz.WrongStability,
		"word.score":                c.Word.Score,
		"targets.per_level":         c.Targets.PerLevel,
		"stability.decay_per_level": c.Stability.DecayPerLevelMs,
	} {
		if v < 0 {
			return fmt.Errorf("config: %s is negative: %w", name, ErrInvalid)
		}
	}

	if c.Targets.Base <= 0 {
		return fmt.Errorf("config: targets.base must be positive: %w", ErrInvalid)
	}
	if _, err := c.InitialTarget(); err != nil {
		return err
	}
	if _, err := c.TargetCycle(); err != nil {
		return err
	}

	if c.Quiz.Enabled {
		if c.Quiz.DelayMinMs <= 0 || c.Quiz.DelayMaxMs < c.Quiz.DelayMinMs {
			return fmt.Errorf("config: quiz delay %d..%d ms: %w", c.Quiz.DelayMinMs, c.Quiz.DelayMaxMs, ErrInvalid)
		}
		if c.Quiz.TimeoutMs <= 0 {
			return fmt.Errorf("config: quiz.timeout_ms must be positive: %w", ErrInvalid)
		}
	}
	return nil
}

// InitialTarget parses targets.initial.
func (c PhyzzleConfig) InitialTarget() (match3.TileType, error) {
	t, err := match3.ParseTileType(c.Targets.Initial)
	if err != nil || t.IsObstacle() {
		return 0, fmt.Errorf("config: targets.initial %q: %w", c.Targets.Initial, ErrInvalid)
	}
	return t, nil
}

// TargetCycle parses targets.cycle.
func (c PhyzzleConfig) TargetCycle() ([]match3.TileType, error) {
	out := make([]match3.TileType, 0, len(c.Targets.Cycle))
	for _, name := range c.Targets.Cycle {
		t, err := match3.ParseTileType(name)
		if err != nil || t.IsObstacle() {
			return nil, fmt.Errorf("config: targets.cycle entry %q: %w", name, ErrInvalid)
		}
		out = append(out, t)
	}
	return out, nil
}
