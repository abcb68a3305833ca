package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/phyzzle/internal/registry"
	"github.com/vovakirdan/phyzzle/internal/storage"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show the leaderboard",
	Long: `Display the top scores for a mode, or a summary of every mode when no
mode is given.

Examples:
  phyzzle scores
  phyzzle scores lab
  phyzzle scores zen --limit 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", storage.LeaderboardSize, "Number of entries to show")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		return printSummary(store)
	}

	gameID, err := resolveGameID(args[0])
	if err != nil {
		return err
	}
	return printLeaderboard(store, gameID, flagLimit)
}

func printLeaderboard(store *storage.Store, gameID string, limit int) error {
	title := gameID
	if info, ok := registry.Info(gameID); ok {
		title = info.Title
	}

	scores, err := store.TopScores(gameID, limit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Run 'phyzzle play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-8s  %-5s  %s\n", "Rank", "Researcher", "Score", "Level", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %-5s  %s\n", "----", "----------", "-----", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-16s  %-8d  %-5d  %s\n", i+1, entry.Player, entry.Score, entry.Level, dateStr)
	}

	fmt.Println()
	if stats, err := store.GetGameStats(gameID); err == nil {
		fmt.Printf("Best: %d  |  Runs: %d  |  Researchers: %d  |  Average: %.0f\n",
			stats.HighScore, stats.GamesCount, stats.Players, stats.AvgScore)
	}
	return nil
}

func printSummary(store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	if len(all) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-14s  %-6s  %-11s  %-8s  %-9s  %s\n", "Mode", "Runs", "Researchers", "Best", "Max level", "Last played")
	fmt.Printf("  %-14s  %-6s  %-11s  %-8s  %-9s  %s\n", "----", "----", "-----------", "----", "---------", "-----------")
	for _, id := range ids {
		s := all[id]
		fmt.Printf("  %-14s  %-6d  %-11d  %-8d  %-9d  %s\n",
			id, s.GamesCount, s.Players, s.HighScore, s.MaxLevel, s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
