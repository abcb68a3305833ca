package match3

import (
	"errors"
	"fmt"
)

// MinGridSize is the smallest grid that can hold a run.
const MinGridSize = 3

var (
	ErrGridTooSmall = errors.New("grid too small")
	ErrInvalidLevel = errors.New("level must be at least 1")
)

// Config configures an Engine.
type Config struct {
	GridSize    int          `yaml:"grid_size"`
	Level       int          `yaml:"level"`
	Obstacles   ObstacleRule `yaml:"obstacles"`
	MaxPasses   int          `yaml:"max_passes"`   // 0 = unbounded
	StableStart bool         `yaml:"stable_start"` // Resolve the initial grid silently
}

// DefaultConfig returns a 7x7 level 1 configuration.
func DefaultConfig() Config {
	return Config{
		GridSize:    7,
		Level:       1,
		Obstacles:   DefaultObstacleRule(),
		StableStart: true,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.GridSize < MinGridSize {
		return fmt.Errorf("match3: grid size %d: %w", c.GridSize, ErrGridTooSmall)
	}
	if c.Level < 1 {
		return fmt.Errorf("match3: level %d: %w", c.Level, ErrInvalidLevel)
	}
	return nil
}

// MatchEvent is emitted once per accepted swap, after the whole cascade.
type MatchEvent struct {
	Details          []MatchDetail `json:"details"`
	ObstaclesCleared bool          `json:"obstacles_cleared"`
	Cleared          []Coord       `json:"cleared"`
	Passes           int           `json:"passes"`
	Level            int           `json:"level"`
}

// CountOf returns how many details carry type t.
func (e MatchEvent) CountOf(t TileType) int {
	n := 0
	for _, d := range e.Details {
		if d.Type == t {
			n += d.Count
		}
	}
	return n
}

// Listener observes accepted swaps.
type Listener interface {
	OnMatch(MatchEvent)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(MatchEvent)

// OnMatch calls f(ev).
func (f ListenerFunc) OnMatch(ev MatchEvent) {
	f(ev)
}

// ClickKind classifies the effect of a click.
type ClickKind int

const (
	ClickIgnored ClickKind = iota
	ClickSelected
	ClickSwapped
	ClickRejected
)

// ClickResult describes what a click did.
type ClickResult struct {
	Kind    ClickKind
	Outcome SwapOutcome // Set for ClickSwapped and ClickRejected
}

// Engine owns the grid and applies the selection and swap protocol.
// It is not safe for concurrent use.
type Engine struct {
	cfg       Config
	src       Source
	factory   *Factory
	resolver  *Resolver
	grid      *Grid
	selected  *Coord
	busy      bool
	listeners []Listener
}

// New creates an engine with a freshly generated grid.
func New(cfg Config, src Source) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		src:     src,
		factory: NewFactory(src),
	}
	e.rebuild()
	return e, nil
}

// rebuild replaces the grid for the current level.
func (e *Engine) rebuild() {
	prob := e.cfg.Obstacles.Probability(e.cfg.Level)
	e.resolver = NewResolver(e.factory, prob, e.cfg.MaxPasses)
	e.grid = NewGrid(e.cfg.GridSize, e.factory, prob)
	e.selected = nil

	if e.cfg.StableStart {
		// The pass guard does not apply to the silent start
		NewResolver(e.factory, prob, 0).Resolve(e.grid)
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Grid returns the live grid. Callers must not modify it.
func (e *Engine) Grid() *Grid {
	return e.grid
}

// Snapshot returns a copy of the tile types.
func (e *Engine) Snapshot() [][]TileType {
	return e.grid.Types()
}

// Level returns the current level.
func (e *Engine) Level() int {
	return e.cfg.Level
}

// ObstacleProbability returns the obstacle probability of the current level.
func (e *Engine) ObstacleProbability() float64 {
	return e.resolver.ObstacleProbability()
}

// SetLevel switches to level and replaces the grid wholesale.
func (e *Engine) SetLevel(level int) error {
	if level < 1 {
		return fmt.Errorf("match3: level %d: %w", level, ErrInvalidLevel)
	}
	e.cfg.Level = level
	e.rebuild()
	return nil
}

// Load replaces the grid with g, which must match the configured size.
func (e *Engine) Load(g *Grid) error {
	if g.Size() != e.cfg.GridSize {
		return fmt.Errorf("match3: load grid of size %d into engine of size %d", g.Size(), e.cfg.GridSize)
	}
	e.grid = g.Clone()
	e.selected = nil
	return nil
}

// Shuffle regenerates the grid at the current level.
func (e *Engine) Shuffle() {
	e.rebuild()
}

// Selected returns the selected cell, if any.
func (e *Engine) Selected() (Coord, bool) {
	if e.selected == nil {
		return Coord{}, false
	}
	return *e.selected, true
}

// ClearSelection drops the current selection.
func (e *Engine) ClearSelection() {
	e.selected = nil
}

// Busy reports whether a cascade is being resolved.
func (e *Engine) Busy() bool {
	return e.busy
}

// Subscribe registers a listener for match events.
func (e *Engine) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

// Click applies the selection protocol to cell c.
func (e *Engine) Click(c Coord) ClickResult {
	if e.busy || !e.grid.InBounds(c) || e.grid.TypeAt(c).IsObstacle() {
		return ClickResult{Kind: ClickIgnored}
	}

	if e.selected == nil || !e.selected.Adjacent(c) {
		sel := c
		e.selected = &sel
		return ClickResult{Kind: ClickSelected}
	}

	from := *e.selected
	e.selected = nil

	out := e.Swap(from, c)
	if !out.Accepted {
		return ClickResult{Kind: ClickRejected, Outcome: out}
	}
	return ClickResult{Kind: ClickSwapped, Outcome: out}
}

// Swap exchanges a and b directly, resolves the cascade and notifies listeners.
func (e *Engine) Swap(a, b Coord) SwapOutcome {
	if e.busy {
		return SwapOutcome{Reason: RejectBusy}
	}

	e.busy = true
	defer func() { e.busy = false }()

	out := e.resolver.Swap(e.grid, a, b)
	if !out.Accepted {
		return out
	}

	ev := MatchEvent{
		Details:          out.Resolution.Details,
		ObstaclesCleared: out.Resolution.ObstaclesCleared,
		Cleared:          out.Resolution.Cleared,
		Passes:           len(out.Resolution.Passes),
		Level:            e.cfg.Level,
	}
	for _, l := range e.listeners {
		l.OnMatch(ev)
	}

	return out
}
