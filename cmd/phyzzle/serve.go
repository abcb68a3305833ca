package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/phyzzle/internal/feed"
	"github.com/vovakirdan/phyzzle/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagFeedAddr    string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server and the live event feed",
	Long: `Start an SSH server that lets users connect and play, and optionally an
HTTP server streaming every game's events over a websocket.

Each SSH connection gets its own session with the start menu.
Scores are stored per-server (all users share the same leaderboard).

Feed routes:
  GET /events         websocket stream of match and session events
  GET /scores/:game   leaderboard as JSON (?limit=N)
  GET /healthz        liveness and client count

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.phyzzle/host_key

Examples:
  phyzzle serve                           # SSH on :23234
  phyzzle serve --ssh :2222 --feed :8080  # SSH plus the event feed
  phyzzle serve --ssh "" --feed :8080     # Feed and leaderboard only

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (empty disables)")
	serveCmd.Flags().StringVar(&flagFeedAddr, "feed", "", "Event feed HTTP address (empty disables)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagSSHAddr == "" && flagFeedAddr == "" {
		return errors.New("nothing to serve: set --ssh and/or --feed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var servers []func(context.Context) error

	var hub *feed.Hub
	if flagFeedAddr != "" {
		logger := newLogger("phyzzle-feed")
		hub = feed.NewHub(logger)

		var scores feed.ScoreSource
		if store := openStore(logger); store != nil {
			defer store.Close()
			scores = store
		}
		srv := feed.NewServer(hub, scores, logger)
		servers = append(servers, func(ctx context.Context) error {
			return srv.ListenAndServe(ctx, flagFeedAddr)
		})
	}

	if flagSSHAddr != "" {
		cfg := tui.DefaultSSHServerConfig()
		cfg.Address = flagSSHAddr
		cfg.HostKeyPath = flagHostKey
		cfg.DBPath = flagDBPath
		cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
		cfg.TickRate = flagFPS
		cfg.Logger = newLogger("phyzzle-ssh")
		if hub != nil {
			cfg.Feed = hub
		}

		server, err := tui.NewSSHServer(cfg)
		if err != nil {
			return err
		}
		servers = append(servers, server.ListenAndServe)
	}

	// The first server to stop takes the others down with it
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errCh := make(chan error, len(servers))
	for _, run := range servers {
		go func() {
			err := run(ctx)
			cancel()
			errCh <- err
		}()
	}

	var firstErr error
	for range servers {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
