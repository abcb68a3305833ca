package phyzzle

import (
	"time"

	"github.com/vovakirdan/phyzzle/internal/config"
	"github.com/vovakirdan/phyzzle/internal/content"
	"github.com/vovakirdan/phyzzle/internal/match3"
	"github.com/vovakirdan/phyzzle/internal/session"
)

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// EngineConfig maps the game config onto the grid engine.
func EngineConfig(cfg config.PhyzzleConfig) match3.Config {
	return match3.Config{
		GridSize: cfg.Grid.Size,
		Level:    cfg.Grid.StartLevel,
		Obstacles: match3.ObstacleRule{
			Step: cfg.Obstacles.Step,
			Cap:  cfg.Obstacles.Cap,
		},
		MaxPasses:   cfg.Cascade.MaxPasses,
		StableStart: cfg.Grid.StableStart,
	}
}

// SessionRules maps the game config onto session rules.
// cfg must have passed Validate.
func SessionRules(cfg config.PhyzzleConfig) session.Rules {
	r := session.DefaultRules()
	r.StartLevel = cfg.Grid.StartLevel

	r.PointsPerCell = cfg.Scoring.PointsPerCell
	r.ZapBonus = cfg.Scoring.ZapBonus

	r.StabilityMax = cfg.Stability.Max
	r.StabilityPerCell = cfg.Stability.PerCell
	r.StabilityZapBonus = cfg.Stability.ZapBonus
	r.DecayEnabled = cfg.Stability.DecayEnabled
	r.DecayAmount = cfg.Stability.DecayAmount
	r.DecayBase = ms(cfg.Stability.DecayBaseMs)
	r.DecayPerLevel = ms(cfg.Stability.DecayPerLevelMs)
	r.DecayFloor = ms(cfg.Stability.DecayFloorMs)

	r.TargetBase = cfg.Targets.Base
	r.TargetPerLevel = cfg.Targets.PerLevel
	if t, err := cfg.InitialTarget(); err == nil {
		r.InitialTarget = t
	}
	if cycle, err := cfg.TargetCycle(); err == nil {
		r.TargetCycle = cycle
	}

	r.QuizEnabled = cfg.Quiz.Enabled
	r.QuizDelayMin = ms(cfg.Quiz.DelayMinMs)
	r.QuizDelayMax = ms(cfg.Quiz.DelayMaxMs)
	r.QuizTimeout = ms(cfg.Quiz.TimeoutMs)
	r.QuizCorrectScore = cfg.Quiz.CorrectScore
	r.QuizCorrectStability = cfg.Quiz.CorrectStability
	r.QuizWrongScore = cfg.Quiz.WrongScore
	r.QuizWrongStability = cfg.Quiz.WrongStability

	r.WordScore = cfg.Word.Score
	return r
}

// loadBank returns the configured bank, or the embedded one.
func loadBank(cfg config.PhyzzleConfig) (*content.Bank, error) {
	if cfg.Quiz.Bank != "" {
		return content.LoadBank(cfg.Quiz.Bank)
	}
	return content.DefaultBank()
}
