// phyzzle is a physics-themed match-3 puzzle for the terminal.
//
// Usage:
//
//	phyzzle list              - List available modes
//	phyzzle play [lab|zen]    - Play a mode
//	phyzzle menu              - Start menu to pick modes interactively
//	phyzzle scores [game]     - Show the leaderboard
//	phyzzle serve             - Start the SSH server and the event feed
//	phyzzle sim               - Run headless cascades
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.phyzzle/scores.db)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import modes to register them
	_ "github.com/vovakirdan/phyzzle/internal/games/phyzzle"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "phyzzle",
	Short: "PhyZzle - match the forces of physics in your terminal",
	Long: `PhyZzle is a match-3 puzzle about physics. Swap adjacent tiles to line up
forces, masses, velocities, accelerations and gravity, keep the reactor
stable, and answer the quizzes the lab throws at you.

Available commands:
  list     - Show all available modes
  play     - Play a mode directly
  menu     - Interactive start menu
  scores   - View the leaderboard
  serve    - Start the SSH server and the live event feed
  sim      - Run headless cascades from a seed

Examples:
  phyzzle play
  phyzzle play zen --name Ada
  phyzzle menu --sound
  phyzzle serve --ssh :2222 --feed :8080
  phyzzle sim --moves 50 --seed 7`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.phyzzle/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
}

// newLogger returns a timestamped logger at the global level.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	logger.SetLevel(log.GetLevel())
	return logger
}
