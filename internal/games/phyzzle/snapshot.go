package phyzzle

import (
	"github.com/vovakirdan/phyzzle/internal/match3"
	"github.com/vovakirdan/phyzzle/internal/session"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateCascading   GameStateType = "cascading"
	StatePaused      GameStateType = "paused"
	StateQuiz        GameStateType = "quiz"
	StateWord        GameStateType = "word_challenge"
	StateGameOver    GameStateType = "game_over"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Mode      string // "lab" or "zen"
	Level     int
	Score     int
	Stability int
	Target    match3.TileType
	Collected int
	Required  int
	Cursor    match3.Coord
	Shuffles  int
	Grid      [][]match3.TileType
	State     GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	st := g.session.State()

	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case len(g.frames) > 0:
		state = StateCascading
	default:
		switch st.Phase {
		case session.PhasePaused:
			state = StatePaused
		case session.PhaseQuiz:
			state = StateQuiz
		case session.PhaseWordChallenge:
			state = StateWord
		case session.PhaseGameOver:
			state = StateGameOver
		}
	}

	return Snapshot{
		Tick:      g.tick,
		Mode:      string(g.mode),
		Level:     st.Level,
		Score:     st.Score,
		Stability: st.Stability,
		Target:    st.Target,
		Collected: st.Collected,
		Required:  st.Required,
		Cursor:    g.cursor,
		Shuffles:  g.shuffles,
		Grid:      g.engine.Snapshot(),
		State:     state,
	}
}
