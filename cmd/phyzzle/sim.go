package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/phyzzle/internal/match3"
)

var (
	flagSimMoves int
	flagSimSize  int
	flagSimLevel int
	flagSimJSON  bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run headless cascades on a seeded grid",
	Long: `Play random valid swaps on a grid without a terminal UI and print every
cascade. The same --seed always produces the same run.

Examples:
  phyzzle sim --seed 42
  phyzzle sim --moves 50 --size 9 --level 4
  phyzzle sim --seed 7 --json | jq .passes`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimMoves, "moves", 20, "Number of swaps to play")
	simCmd.Flags().IntVar(&flagSimSize, "size", 7, "Grid size")
	simCmd.Flags().IntVar(&flagSimLevel, "level", 1, "Level (raises the obstacle probability)")
	simCmd.Flags().BoolVar(&flagSimJSON, "json", false, "Print one JSON match event per line")
}

// simResult summarizes a headless run.
type simResult struct {
	Moves     int
	Shuffles  int
	Cleared   int
	Passes    int
	MaxPasses int
	Obstacles int
}

func runSim(_ *cobra.Command, _ []string) error {
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cfg := match3.DefaultConfig()
	cfg.GridSize = flagSimSize
	cfg.Level = flagSimLevel

	res, engine, err := simulate(os.Stdout, cfg, seed, flagSimMoves, flagSimJSON)
	if err != nil {
		return err
	}
	if flagSimJSON {
		return nil
	}

	fmt.Println()
	fmt.Printf("Seed: %d  |  Moves: %d  |  Shuffles: %d\n", seed, res.Moves, res.Shuffles)
	fmt.Printf("Cleared: %d  |  Passes: %d  |  Longest cascade: %d  |  Obstacle clears: %d\n",
		res.Cleared, res.Passes, res.MaxPasses, res.Obstacles)
	fmt.Println()
	fmt.Print(engine.Grid().String())
	return nil
}

// simulate plays up to moves random valid swaps, shuffling whenever the grid
// has no move left.
func simulate(w io.Writer, cfg match3.Config, seed int64, moves int, asJSON bool) (simResult, *match3.Engine, error) {
	rng := rand.New(rand.NewSource(seed))
	engine, err := match3.New(cfg, rng)
	if err != nil {
		return simResult{}, nil, err
	}

	var res simResult
	enc := json.NewEncoder(w)
	engine.Subscribe(match3.ListenerFunc(func(ev match3.MatchEvent) {
		res.Cleared += len(ev.Cleared)
		res.Passes += ev.Passes
		res.MaxPasses = max(res.MaxPasses, ev.Passes)
		if ev.ObstaclesCleared {
			res.Obstacles++
		}
		if asJSON {
			_ = enc.Encode(ev)
			return
		}
		fmt.Fprintf(w, "#%-3d passes=%d cleared=%-3d %s\n", res.Moves+1, ev.Passes, len(ev.Cleared), formatDetails(ev.Details))
	}))

	for res.Moves < moves {
		candidates := match3.FindMoves(engine.Grid())
		if len(candidates) == 0 {
			// Bail out on grids that stay stuck
			if res.Shuffles > moves {
				break
			}
			engine.Shuffle()
			res.Shuffles++
			continue
		}

		mv := candidates[rng.Intn(len(candidates))]
		out := engine.Swap(mv.A, mv.B)
		if !out.Accepted {
			return res, engine, fmt.Errorf("swap %s-%s rejected: %s", mv.A, mv.B, out.Reason)
		}
		res.Moves++
	}
	return res, engine, nil
}

func formatDetails(details []match3.MatchDetail) string {
	parts := make([]string, 0, len(details))
	for _, d := range details {
		parts = append(parts, fmt.Sprintf("%s:%d", d.Type, d.Count))
	}
	return strings.Join(parts, " ")
}
