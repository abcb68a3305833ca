package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/phyzzle/internal/config"
	"github.com/vovakirdan/phyzzle/internal/core"
	"github.com/vovakirdan/phyzzle/internal/match3"
	"github.com/vovakirdan/phyzzle/internal/registry"
	"github.com/vovakirdan/phyzzle/internal/session"
	"github.com/vovakirdan/phyzzle/internal/storage"
)

// Hooks are observers attached to every game the shell starts, such as the
// sound manager or a feed publisher.
type Hooks struct {
	Match   []match3.Listener
	Session []session.Listener
}

// observable is implemented by games that emit engine and session events.
type observable interface {
	AddListener(match3.Listener)
	AddSessionListener(session.Listener)
}

// resizer is implemented by games that adapt to a new size in place.
type resizer interface {
	Resize(w, h int)
}

// difficultySetter is implemented by games with per-instance presets.
type difficultySetter interface {
	SetDifficulty(config.DifficultyPreset)
}

// attach wires hooks into game if it supports them.
func (h Hooks) attach(game registry.Game) {
	obs, ok := game.(observable)
	if !ok {
		return
	}
	for _, l := range h.Match {
		obs.AddListener(l)
	}
	for _, l := range h.Session {
		obs.AddSessionListener(l)
	}
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	gen        uint64
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether score has been saved for current game over
	saveErr    error
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		gen:        nextGen(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)
	return tickCmd(m.config.TickRate, m.gen)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.keyMapper.MapMouseToFrame(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		// Back leaves a finished or paused run, otherwise it pauses
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
			return m, tea.Quit
		}
		m.inputFrame.Set(core.ActionPause)
	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, msg.Height)
		return m, nil
	}
	// Games without in-place resize restart with the new dimensions
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.saveErr = nil
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate, m.gen)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.saveScore()

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate, m.gen)
}

// saveScore records the final score once per game over.
func (m *Model) saveScore() {
	if !m.gameState.GameOver || m.scoreSaved {
		return
	}
	m.scoreSaved = true
	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	_, m.saveErr = m.store.SaveScore(m.game.ID(), m.config.Player, m.gameState.Score, m.gameState.Level)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".phyzzle", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// SaveErr returns the error from the last score save, if any.
func (m Model) SaveErr() error {
	return m.saveErr
}

// Config returns the runtime config, updated by resizes.
func (m Model) Config() core.RuntimeConfig {
	return m.config
}

// RunResult is what a finished game hands back to the menu loop.
type RunResult struct {
	BackToMenu bool
	Config     core.RuntimeConfig
	SaveErr    error
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, hooks Hooks) (RunResult, error) {
	hooks.attach(game)
	model := NewModel(game, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if err != nil {
		return RunResult{Config: cfg}, err
	}
	m, ok := final.(Model)
	if !ok {
		return RunResult{Config: cfg}, nil
	}
	return RunResult{BackToMenu: m.BackToMenu(), Config: m.Config(), SaveErr: m.SaveErr()}, nil
}
