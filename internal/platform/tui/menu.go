package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/phyzzle/internal/config"
	"github.com/vovakirdan/phyzzle/internal/core"
	"github.com/vovakirdan/phyzzle/internal/registry"
	"github.com/vovakirdan/phyzzle/internal/storage"
)

const nameLimit = 24

// MenuItem represents a selectable game mode in the menu.
type MenuItem struct {
	GameID  string
	Title   string
	Summary string
}

// MenuModel is the Bubble Tea model for the start menu: a researcher name,
// a difficulty and the list of modes.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	difficulty     int
	presets        []config.DifficultyPreset
	name           textinput.Model
	editing        bool // Keys go to the name field
	width          int
	height         int
	store          *storage.Store
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem // Set when user selects a game
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model. The name field starts focused when
// cfg carries no player yet.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		items = append(items, MenuItem{GameID: g.ID, Title: g.Title, Summary: g.Summary})
	}

	ti := textinput.New()
	ti.Placeholder = "Researcher name"
	ti.CharLimit = nameLimit
	ti.Width = nameLimit
	ti.Prompt = "Name: "
	ti.SetValue(cfg.Player)

	m := MenuModel{
		items:      items,
		presets:    config.Presets(),
		difficulty: 1, // normal
		name:       ti,
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
		store:      store,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
	}
	if strings.TrimSpace(cfg.Player) == "" {
		m.editing = true
		m.name.Focus()
	}
	return m
}

// WithDifficulty preselects preset; unknown presets leave normal.
func (m MenuModel) WithDifficulty(preset config.DifficultyPreset) MenuModel {
	for i, p := range m.presets {
		if p == preset {
			m.difficulty = i
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	if m.editing {
		return textinput.Blink
	}
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.handleNameKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleNameKey edits the name until enter, tab or down moves to the list.
func (m MenuModel) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "enter", "tab", "down", "esc":
		m.editing = false
		m.name.Blur()
		m.config.Player = strings.TrimSpace(m.name.Value())
		return m, nil
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "n" {
		m.editing = true
		return m, m.name.Focus()
	}

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		} else {
			m.editing = true
			return m, m.name.Focus()
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionDifficulty:
		step := 1
		if k := msg.String(); k == "left" || k == "h" {
			step = -1
		}
		m.difficulty = core.Wrap(m.difficulty+step, len(m.presets))

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			m.config.Player = strings.TrimSpace(m.name.Value())
			return m, tea.Quit // Exit menu to start game
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit // Exit menu to show scoreboard
	}

	return m, nil
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerStyled(menuTitleStyle, "  P H Y Z Z L E  ", m.width))
	b.WriteString("\n")
	b.WriteString(centerStyled(menuDimStyle, "Match the forces, keep the reactor stable", m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(m.name.View(), m.width))
	b.WriteString("\n\n")

	diff := fmt.Sprintf("Difficulty: < %s >", m.Difficulty())
	if config.IsRelaxed(m.Difficulty()) {
		diff += "  no decay, no quizzes"
	}
	b.WriteString(centerText(diff, m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor && !m.editing {
			cursor = "> "
			style = menuActiveStyle
		}
		b.WriteString(centerStyled(style, cursor+item.Title, m.width))
		b.WriteString("\n")
		if item.Summary != "" {
			b.WriteString(centerStyled(menuDimStyle, item.Summary, m.width))
			b.WriteString("\n")
		}
	}

	if best := m.bestLine(); best != "" {
		b.WriteString("\n")
		b.WriteString(centerStyled(menuDimStyle, best, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Left/Right: Difficulty  |  N: Name  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	if m.editing {
		controls = "Type your name  |  Enter: Done"
	}
	b.WriteString(centerStyled(menuDimStyle, controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// bestLine shows the named player's best run on the highlighted mode.
func (m MenuModel) bestLine() string {
	player := strings.TrimSpace(m.name.Value())
	if m.store == nil || player == "" || len(m.items) == 0 {
		return ""
	}
	best, err := m.store.PlayerBest(m.items[m.cursor].GameID, player)
	if err != nil || best == nil {
		return ""
	}
	return fmt.Sprintf("Your best: %d (level %d)", best.Score, best.Level)
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Difficulty returns the chosen preset.
func (m MenuModel) Difficulty() config.DifficultyPreset {
	return m.presets[m.difficulty]
}

// Player returns the entered name.
func (m MenuModel) Player() string {
	return strings.TrimSpace(m.name.Value())
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

func centerStyled(style lipgloss.Style, text string, width int) string {
	return centerText(style.Render(text), width)
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Player          string
	Difficulty      config.DifficultyPreset
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig, preset config.DifficultyPreset) (MenuResult, error) {
	model := NewMenuModel(store, cfg).WithDifficulty(preset)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.Result(), nil
}

// Result summarizes the menu's final state.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{
		Player:     m.Player(),
		Difficulty: m.Difficulty(),
		Config:     m.Config(),
	}
	result.Config.Player = result.Player

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting():
		result.Quit = true
	case m.Selected() != nil:
		result.GameID = m.Selected().GameID
	default:
		result.Quit = true
	}
	return result
}
