package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/phyzzle/internal/games/phyzzle"
	"github.com/vovakirdan/phyzzle/internal/platform/tui"
	"github.com/vovakirdan/phyzzle/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start PhyZzle with the interactive menu",
	Long: `Start PhyZzle in interactive menu mode.

Enter your researcher name, pick a difficulty with Left/Right and a mode
with Up/Down. After a run ends you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Left/Right   - Change difficulty
  N            - Edit name
  Enter/Space  - Start the highlighted mode
  Tab          - Leaderboard
  Q            - Quit

Examples:
  phyzzle menu
  phyzzle menu --fps 30 --sound
  phyzzle menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	addGameFlags(menuCmd)
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger := newLogger("phyzzle")

	preset, err := applyGameFlags()
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	hooks, cleanup := soundHooks(logger)
	defer cleanup()

	cfg := runtimeConfig()

	for {
		menuResult, err := tui.RunMenu(store, cfg, preset)
		if err != nil {
			return err
		}
		cfg = menuResult.Config
		preset = menuResult.Difficulty

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				logger.Error("scoreboard failed", "error", sbErr)
			}
			if goBack {
				continue
			}
			return nil
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			logger.Error("creating game", "game", menuResult.GameID, "error", err)
			continue
		}
		if g, ok := game.(*phyzzle.Game); ok {
			g.SetDifficulty(menuResult.Difficulty)
		}

		// Fresh seed for every run unless one was given
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		res, err := tui.Run(game, store, cfg, hooks)
		if err != nil {
			logger.Error("running game", "error", err)
		}
		if res.SaveErr != nil {
			logger.Warn("score was not saved", "error", res.SaveErr)
		}
		cfg = res.Config
		if !res.BackToMenu {
			return nil
		}
	}
}
