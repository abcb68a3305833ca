package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matryer/way"

	"github.com/vovakirdan/phyzzle/internal/storage"
)

// Route paths.
const (
	URIEvents = "/events"
	URIScores = "/scores/:game"
	URIHealth = "/healthz"
)

const maxLimit = 100

// ScoreSource is the read side of the score store.
type ScoreSource interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
}

// Server exposes the hub and leaderboard over HTTP.
type Server struct {
	hub    *Hub
	scores ScoreSource
	router *way.Router
	logger *log.Logger
	http   *http.Server
}

// NewServer wires the routes. scores may be nil, in which case the
// leaderboard route answers 503.
func NewServer(hub *Hub, scores ScoreSource, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{hub: hub, scores: scores, logger: logger}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", URIEvents, s.hub.ServeWS)
	s.router.HandleFunc("GET", URIScores, s.handleScores)
	s.router.HandleFunc("GET", URIHealth, s.handleHealth)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting feed server", "address", addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down feed server")
	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

type scoresResponse struct {
	Game   string               `json:"game"`
	Scores []storage.ScoreEntry `json:"scores"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "scores unavailable"})
		return
	}

	game := way.Param(r.Context(), "game")
	limit := storage.LeaderboardSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxLimit)
	}

	entries, err := s.scores.TopScores(game, limit)
	if err != nil {
		s.logger.Error("top scores", "game", game, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not load scores"})
		return
	}
	if entries == nil {
		entries = []storage.ScoreEntry{}
	}
	writeJSON(w, http.StatusOK, scoresResponse{Game: game, Scores: entries})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.hub.Count(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
