package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/phyzzle/internal/audio"
	"github.com/vovakirdan/phyzzle/internal/config"
	"github.com/vovakirdan/phyzzle/internal/core"
	"github.com/vovakirdan/phyzzle/internal/games/phyzzle"
	"github.com/vovakirdan/phyzzle/internal/match3"
	"github.com/vovakirdan/phyzzle/internal/platform/tui"
	"github.com/vovakirdan/phyzzle/internal/registry"
	"github.com/vovakirdan/phyzzle/internal/session"
	"github.com/vovakirdan/phyzzle/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagName       string
	flagSound      bool
	flagVolume     float64
)

var playCmd = &cobra.Command{
	Use:   "play [lab|zen]",
	Short: "Play a mode",
	Long: `Start playing PhyZzle. The mode defaults to lab.

Modes:
  lab  - Stability decays, quizzes interrupt, the reactor can melt down
  zen  - No decay and no quizzes

Controls:
  Arrows/WASD/HJKL  - Move cursor
  Space/Enter       - Select tile, swap with an adjacent selection
  Mouse             - Click tiles and answers
  1-4               - Answer a quiz or word challenge
  P/Esc             - Pause (Esc again returns to the menu)
  R                 - Restart (after game over)
  Q/Ctrl+C          - Quit

Difficulty options:
  easy    - Slow decay, gentle quizzes
  normal  - The default lab
  hard    - Starts at level 3 with fast decay
  zen     - No decay, no quizzes

Examples:
  phyzzle play
  phyzzle play zen
  phyzzle play --difficulty hard --name Ada
  phyzzle play --config ./my-lab.yaml --sound`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	addGameFlags(playCmd)
}

// addGameFlags registers the flags shared by play and menu.
func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, zen")
	cmd.Flags().StringVar(&flagName, "name", "", "Researcher name saved with scores")
	cmd.Flags().BoolVar(&flagSound, "sound", false, "Play sound effects")
	cmd.Flags().Float64Var(&flagVolume, "volume", 1, "Sound volume between 0 and 1")
}

// resolveGameID maps a mode name or registry ID to a registry ID.
func resolveGameID(arg string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", string(phyzzle.ModeLab):
		return phyzzle.IDLab, nil
	case string(phyzzle.ModeZen):
		return phyzzle.IDZen, nil
	}
	if registry.Exists(arg) {
		return arg, nil
	}
	return "", fmt.Errorf("unknown mode %q (run 'phyzzle list')", arg)
}

// applyGameFlags pushes --config and --difficulty into the game package.
func applyGameFlags() (config.DifficultyPreset, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return "", err
	}
	phyzzle.SetConfigPath(flagConfig)
	phyzzle.SetDifficultyPreset(preset)
	return preset, nil
}

// runtimeConfig builds the config from the terminal size and global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
		Player:   strings.TrimSpace(flagName),
	}
}

// openStore opens the scores database; a failure only disables scores.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// soundHooks starts the sound manager when --sound is set. The returned
// cleanup is always safe to call.
func soundHooks(logger *log.Logger) (tui.Hooks, func()) {
	if !flagSound {
		return tui.Hooks{}, func() {}
	}
	sm := audio.NewSoundManager()
	sm.SetVolume(flagVolume)
	if err := sm.Initialize(); err != nil {
		logger.Warn("sound disabled", "error", err)
		return tui.Hooks{}, func() {}
	}
	return tui.Hooks{
		Match:   []match3.Listener{sm},
		Session: []session.Listener{sm},
	}, sm.Cleanup
}

func runPlay(_ *cobra.Command, args []string) error {
	logger := newLogger("phyzzle")

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	gameID, err := resolveGameID(arg)
	if err != nil {
		return err
	}
	if _, err := applyGameFlags(); err != nil {
		return err
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	hooks, cleanup := soundHooks(logger)
	defer cleanup()

	res, err := tui.Run(game, store, runtimeConfig(), hooks)
	if err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	if res.SaveErr != nil {
		logger.Warn("score was not saved", "error", res.SaveErr)
	}
	return nil
}
