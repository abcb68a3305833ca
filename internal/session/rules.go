package session

import (
	"time"

	"github.com/vovakirdan/phyzzle/internal/match3"
)

// Rules holds the scoring and progression constants of a session.
type Rules struct {
	StartLevel int

	PointsPerCell int
	ZapBonus      int

	StabilityMax      int
	StabilityPerCell  int
	StabilityZapBonus int
	DecayEnabled      bool
	DecayAmount       int
	DecayBase         time.Duration
	DecayPerLevel     time.Duration
	DecayFloor        time.Duration

	TargetBase     int
	TargetPerLevel int
	InitialTarget  match3.TileType
	TargetCycle    []match3.TileType

	QuizEnabled          bool
	QuizDelayMin         time.Duration
	QuizDelayMax         time.Duration
	QuizTimeout          time.Duration
	QuizCorrectScore     int
	QuizCorrectStability int
	QuizWrongScore       int
	QuizWrongStability   int

	WordScore int
}

// DefaultRules returns the lab mode rules.
func DefaultRules() Rules {
	return Rules{
		StartLevel: 1,

		PointsPerCell: 25,
		ZapBonus:      500,

		StabilityMax:      100,
		StabilityPerCell:  2,
		StabilityZapBonus: 20,
		DecayEnabled:      true,
		DecayAmount:       1,
		DecayBase:         400 * time.Millisecond,
		DecayPerLevel:     30 * time.Millisecond,
		DecayFloor:        120 * time.Millisecond,

		TargetBase:     8,
		TargetPerLevel: 4,
		InitialTarget:  match3.Gravity,
		TargetCycle: []match3.TileType{
			match3.Gravity, match3.Force, match3.Mass, match3.Velocity, match3.Acceleration,
		},

		QuizEnabled:          true,
		QuizDelayMin:         20 * time.Second,
		QuizDelayMax:         45 * time.Second,
		QuizTimeout:          10 * time.Second,
		QuizCorrectScore:     500,
		QuizCorrectStability: 30,
		QuizWrongScore:       200,
		QuizWrongStability:   25,

		WordScore: 5000,
	}
}

// ZenRules returns rules without decay and quizzes.
func ZenRules() Rules {
	r := DefaultRules()
	r.DecayEnabled = false
	r.QuizEnabled = false
	return r
}

// DecayInterval returns max(floor, base - level*perLevel).
func (r Rules) DecayInterval(level int) time.Duration {
	d := r.DecayBase - time.Duration(level)*r.DecayPerLevel
	if d < r.DecayFloor {
		d = r.DecayFloor
	}
	return d
}

// RequiredTarget returns the target count for a level.
// Level 1 uses the base; later levels add perLevel for every level.
func (r Rules) RequiredTarget(level int) int {
	if level <= 1 {
		return r.TargetBase
	}
	return r.TargetBase + level*r.TargetPerLevel
}

// TargetType returns the tile type to collect at a level.
func (r Rules) TargetType(level int) match3.TileType {
	if level <= 1 || len(r.TargetCycle) == 0 {
		return r.InitialTarget
	}
	return r.TargetCycle[level%len(r.TargetCycle)]
}

// QuizDelay picks the wait before the next quiz from src.
func (r Rules) QuizDelay(src match3.Source) time.Duration {
	span := r.QuizDelayMax - r.QuizDelayMin
	if span <= 0 {
		return r.QuizDelayMin
	}
	return r.QuizDelayMin + time.Duration(src.Float64()*float64(span))
}
