// Package phyzzle is the playable PhyZzle game: a match3 engine and a
// progression session behind the registry.Game interface.
package phyzzle

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/phyzzle/internal/config"
	"github.com/vovakirdan/phyzzle/internal/content"
	"github.com/vovakirdan/phyzzle/internal/core"
	"github.com/vovakirdan/phyzzle/internal/match3"
	"github.com/vovakirdan/phyzzle/internal/registry"
	"github.com/vovakirdan/phyzzle/internal/session"
)

// Mode represents the game mode.
type Mode string

const (
	ModeLab Mode = "lab" // Decay and quizzes
	ModeZen Mode = "zen" // No decay, no quizzes
)

const (
	IDLab = "phyzzle"
	IDZen = "phyzzle_zen"

	messageTicks = 2 // Seconds a status message stays up, in TickRate units
)

// Package-level variables set from the CLI
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset applied on every Reset.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

// frame is one step of cascade playback.
type frame struct {
	grid  [][]match3.TileType
	flash map[match3.Coord]bool // Cells about to clear
}

// Game implements the PhyZzle match-and-cascade game.
type Game struct {
	mode   Mode
	tick   uint64
	preset config.DifficultyPreset // Overrides the package preset when set

	cfg      config.PhyzzleConfig
	engine   *match3.Engine
	session  *session.Session
	bank     *content.Bank
	cursor   match3.Coord
	shuffles int

	// Cascade playback; input is blocked while frames remain
	frames     []frame
	frameTicks int
	holdTicks  int

	message      string
	messageLeft  int
	tickRate     int
	dt           time.Duration
	screenW      int
	screenH      int
	tooSmall     bool
	levelPending bool

	listeners        []match3.Listener
	sessionListeners []session.Listener
}

// New creates a lab mode game.
func New() *Game {
	return &Game{mode: ModeLab}
}

// NewZen creates a zen mode game.
func NewZen() *Game {
	return &Game{mode: ModeZen}
}

func init() {
	registry.Register(IDLab, func() registry.Game {
		return New()
	})
	registry.Register(IDZen, func() registry.Game {
		return NewZen()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeZen {
		return IDZen
	}
	return IDLab
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeZen {
		return "PhyZzle (Zen)"
	}
	return "PhyZzle Lab"
}

// Summary returns a one-line description for menus.
func (g *Game) Summary() string {
	if g.mode == ModeZen {
		return "Match physics tiles at your own pace"
	}
	return "Keep the reactor stable, answer quizzes, unscramble words"
}

// AddListener registers a match listener. It survives Reset.
func (g *Game) AddListener(l match3.Listener) {
	g.listeners = append(g.listeners, l)
	if g.engine != nil {
		g.engine.Subscribe(l)
	}
}

// AddSessionListener registers a session listener. It survives Reset.
func (g *Game) AddSessionListener(l session.Listener) {
	g.sessionListeners = append(g.sessionListeners, l)
	if g.session != nil {
		g.session.Subscribe(l)
	}
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.tick = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.dt = time.Second / time.Duration(g.tickRate)
	g.frames = nil
	g.frameTicks = 0
	g.shuffles = 0
	g.levelPending = false
	g.message = ""
	g.messageLeft = 0

	gameCfg, err := config.LoadPhyzzle(configPath)
	if err != nil {
		gameCfg = config.DefaultPhyzzleConfig()
		g.setMessage("Config error, using defaults")
	}
	if preset := g.difficulty(); preset != "" {
		config.ApplyPhyzzlePreset(&gameCfg, preset)
	}
	if g.mode == ModeZen {
		config.ApplyPhyzzlePreset(&gameCfg, config.DifficultyZen)
	}
	g.cfg = gameCfg
	g.holdTicks = max(1, gameCfg.Cascade.PassDelayMs*g.tickRate/1000/2)

	bank, err := loadBank(gameCfg)
	if err != nil {
		bank, _ = content.DefaultBank()
		g.setMessage("Question bank error, using built-in bank")
	}
	g.bank = bank

	rng := rand.New(rand.NewSource(cfg.Seed))
	engine, err := match3.New(EngineConfig(gameCfg), rng)
	if err != nil {
		// Validated configs always build an engine
		engine, _ = match3.New(match3.DefaultConfig(), rng)
	}
	g.engine = engine
	g.session = session.New(SessionRules(gameCfg), bank, rng)

	g.engine.Subscribe(g.session)
	for _, l := range g.listeners {
		g.engine.Subscribe(l)
	}
	g.session.Subscribe(session.ListenerFunc(g.onSessionEvent))
	for _, l := range g.sessionListeners {
		g.session.Subscribe(l)
	}

	mid := g.engine.Grid().Size() / 2
	g.cursor = match3.At(mid, mid)

	g.checkScreenSize()
	_ = g.session.Start(cfg.Player)
	g.ensureMoves()
}

// SetDifficulty sets this instance's preset; it applies from the next Reset.
func (g *Game) SetDifficulty(preset config.DifficultyPreset) {
	g.preset = preset
}

func (g *Game) difficulty() config.DifficultyPreset {
	if g.preset != "" {
		return g.preset
	}
	return difficultyPreset
}

// Resize adapts to a new terminal size without restarting the run.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	if g.engine != nil {
		g.checkScreenSize()
	}
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	l := g.layout()
	g.tooSmall = g.screenW < l.minW || g.screenH < l.minH
}

func (g *Game) onSessionEvent(ev session.Event) {
	switch ev.Kind {
	case session.EventLevelUp:
		g.levelPending = true
	case session.EventQuizAnswered:
		switch {
		case ev.TimedOut:
			g.setMessage("Time's up!")
		case ev.Correct:
			g.setMessage("Correct!")
		default:
			g.setMessage("Wrong answer")
		}
	case session.EventWordAnswered:
		if !ev.Correct {
			g.setMessage("Not quite, try again")
		}
	}
}

func (g *Game) setMessage(msg string) {
	g.message = msg
	g.messageLeft = messageTicks * max(1, g.tickRate)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	// Handle window size check
	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	// Handle pause
	if in.Has(core.ActionPause) {
		if g.session.Phase() == session.PhasePaused {
			_ = g.session.Resume()
		} else {
			_ = g.session.Pause()
		}
	}

	phase := g.session.Phase()
	if phase == session.PhasePaused || phase == session.PhaseGameOver {
		// Restart is handled by the platform
		return core.StepResult{State: g.State()}
	}

	g.session.Advance(g.dt)
	if g.messageLeft > 0 {
		g.messageLeft--
		if g.messageLeft == 0 {
			g.message = ""
		}
	}

	if len(g.frames) > 0 {
		g.advancePlayback()
		return core.StepResult{State: g.State()}
	}

	switch g.session.Phase() {
	case session.PhaseQuiz:
		if i, ok := g.choice(in, len(g.currentOptions())); ok {
			_, _ = g.session.AnswerQuestion(i)
		}
	case session.PhaseWordChallenge:
		opts := g.currentOptions()
		if i, ok := g.choice(in, len(opts)); ok {
			_, _ = g.session.AnswerWord(opts[i])
		}
	case session.PhasePlaying:
		g.handleBoard(in)
	}

	if g.levelPending {
		g.levelPending = false
		_ = g.engine.SetLevel(g.session.State().Level)
		g.setMessage(fmt.Sprintf("Level %d! New target: %s", g.session.State().Level, g.session.State().Target))
	}
	if len(g.frames) == 0 && g.session.Phase() == session.PhasePlaying {
		g.ensureMoves()
	}

	return core.StepResult{State: g.State()}
}

// handleBoard moves the cursor and forwards selections to the engine.
func (g *Game) handleBoard(in core.InputFrame) {
	size := g.engine.Grid().Size()
	switch {
	case in.Has(core.ActionUp):
		g.cursor.Row = core.Wrap(g.cursor.Row-1, size)
	case in.Has(core.ActionDown):
		g.cursor.Row = core.Wrap(g.cursor.Row+1, size)
	case in.Has(core.ActionLeft):
		g.cursor.Column = core.Wrap(g.cursor.Column-1, size)
	case in.Has(core.ActionRight):
		g.cursor.Column = core.Wrap(g.cursor.Column+1, size)
	}

	if in.Has(core.ActionSelect) || in.Has(core.ActionConfirm) {
		g.click(g.cursor)
	}

	for _, p := range in.Clicks {
		if len(g.frames) > 0 || g.session.Phase() != session.PhasePlaying {
			break
		}
		c, ok := g.cellAt(p.X, p.Y)
		if !ok {
			continue
		}
		g.cursor = c
		g.click(c)
	}
}

// choice returns the option picked this frame by key or by mouse.
func (g *Game) choice(in core.InputFrame, n int) (int, bool) {
	for i, a := range core.ChoiceActions() {
		if i < n && in.Has(a) {
			return i, true
		}
	}
	for _, p := range in.Clicks {
		if i, ok := g.optionAt(p.X, p.Y); ok && i < n {
			return i, true
		}
	}
	return 0, false
}

// currentOptions returns the answer options of the open question or word.
func (g *Game) currentOptions() []string {
	st := g.session.State()
	switch {
	case st.Question != nil:
		return st.Question.Options
	case st.Word != nil:
		return st.Word.Options
	}
	return nil
}

// click applies the selection protocol and queues cascade playback.
func (g *Game) click(c match3.Coord) {
	before := g.engine.Snapshot()
	from, _ := g.engine.Selected()

	res := g.engine.Click(c)
	switch res.Kind {
	case match3.ClickSwapped:
		resolution := res.Outcome.Resolution
		g.queuePlayback(before, from, c, resolution)
		switch {
		case resolution.ObstaclesCleared:
			g.setMessage("ZAP! Obstacles vaporized")
		case len(resolution.Passes) > 1:
			g.setMessage(fmt.Sprintf("Chain reaction x%d", len(resolution.Passes)))
		}
	case match3.ClickRejected:
		g.setMessage("Swap rejected: " + res.Outcome.Reason.String())
	}
}

// queuePlayback turns a resolution into frames: for every pass the board
// with the cleared cells flashing, then the board after refill.
func (g *Game) queuePlayback(before [][]match3.TileType, a, b match3.Coord, res match3.Resolution) {
	if g.cfg.Cascade.PassDelayMs == 0 {
		return
	}

	prev := before
	prev[a.Row][a.Column], prev[b.Row][b.Column] = prev[b.Row][b.Column], prev[a.Row][a.Column]
	for _, p := range res.Passes {
		flash := make(map[match3.Coord]bool, len(p.Cleared))
		for _, c := range p.Cleared {
			flash[c] = true
		}
		g.frames = append(g.frames, frame{grid: prev, flash: flash}, frame{grid: p.Grid})
		prev = p.Grid
	}
	g.frameTicks = 0
}

func (g *Game) advancePlayback() {
	g.frameTicks++
	if g.frameTicks < g.holdTicks {
		return
	}
	g.frameTicks = 0
	g.frames = g.frames[1:]
}

// ensureMoves reshuffles until the board has a legal swap.
func (g *Game) ensureMoves() {
	for range 100 {
		if match3.HasMoves(g.engine.Grid()) {
			return
		}
		g.engine.Shuffle()
		g.shuffles++
		g.setMessage("No moves left, board reshuffled")
	}
}

// Busy reports whether cascade playback is blocking input.
func (g *Game) Busy() bool {
	return len(g.frames) > 0
}

// Session returns a snapshot of the session state.
func (g *Game) Session() session.State {
	return g.session.State()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := g.session.State()
	return core.GameState{
		Score:    st.Score,
		Level:    st.Level,
		GameOver: st.Phase == session.PhaseGameOver,
		Paused:   st.Phase == session.PhasePaused || g.tooSmall,
	}
}
