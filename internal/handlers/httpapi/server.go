// Package httpapi exposes the game's outer HTTP surface: leaderboard
// reads and submissions, the websocket relay for two-player rooms, and
// a QR share image for room codes.
package httpapi

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"

	"lastchamber/internal/handlers/relay"
	"lastchamber/internal/models"
	"lastchamber/internal/repositories/leaderboard"
)

// Server bundles the router, the leaderboard repository, and the relay
type Server struct {
	r     *chi.Mux
	repo  leaderboard.Repository
	relay *relay.Manager
	log   zerolog.Logger
}

// Config holds configuration for the HTTP server
type Config struct {
	// Repository persists leaderboard entries
	Repository leaderboard.Repository

	// Relay pairs two-player rooms; optional, the /ws route is skipped
	// when nil
	Relay *relay.Manager

	// Logger is the structured logger, a no-op logger when zero
	Logger zerolog.Logger
}

// New constructs a Server, installs middleware, and registers routes
func New(cfg *Config) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		repo:  cfg.Repository,
		relay: cfg.Relay,
		log:   cfg.Logger,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(corsFromEnv)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/api/leaderboard", func(r chi.Router) {
		r.Use(jsonContentType)
		r.Use(chimw.Timeout(10 * time.Second))
		r.Get("/", s.handleGetLeaderboard)
		r.Post("/", s.handleSubmitScore)
	})

	s.r.Get("/api/room/{code}/qr", s.handleRoomQR)

	if s.relay != nil {
		s.r.Get("/ws", s.relay.ServeHTTP)
	}

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests)
func (s *Server) Router() chi.Router { return s.r }

// jsonContentType sets a default JSON Content-Type header
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables CORS for a single origin. Uses CLIENT_ORIGIN env
// var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ---------------------------- leaderboard ----------------------------

func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	out, err := s.repo.GetEntries(r.Context(), &leaderboard.GetEntriesInput{})
	if err != nil {
		s.log.Error().Err(err).Msg("get leaderboard")
		http.Error(w, `{"error":"storage_failed"}`, http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(leaderboardRes{Leaderboard: out.Entries})
}

// leaderboardRes wraps the GET /api/leaderboard payload
type leaderboardRes struct {
	Leaderboard []*models.LeaderboardEntry `json:"leaderboard"`
}

// submitScoreReq/Res payloads for POST /api/leaderboard
type submitScoreReq struct {
	Name   string `json:"name"`
	Rounds *int   `json:"rounds"`
}

type submitScoreRes struct {
	Success     bool                       `json:"success"`
	Entry       *models.LeaderboardEntry   `json:"entry"`
	Rank        int                        `json:"rank"`
	Leaderboard []*models.LeaderboardEntry `json:"leaderboard"`
}

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var req submitScoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	name := sanitizeName(req.Name)
	if name == "" {
		http.Error(w, `{"error":"invalid_name"}`, http.StatusBadRequest)
		return
	}
	if req.Rounds == nil || *req.Rounds < 0 {
		http.Error(w, `{"error":"invalid_rounds"}`, http.StatusBadRequest)
		return
	}

	out, err := s.repo.AddEntry(r.Context(), &leaderboard.AddEntryInput{
		Name:   name,
		Rounds: *req.Rounds,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("add leaderboard entry")
		http.Error(w, `{"error":"storage_failed"}`, http.StatusInternalServerError)
		return
	}

	top := out.Entries
	if len(top) > models.LeaderboardTopN {
		top = top[:models.LeaderboardTopN]
	}

	_ = json.NewEncoder(w).Encode(submitScoreRes{
		Success:     true,
		Entry:       out.Entry,
		Rank:        out.Rank,
		Leaderboard: top,
	})
}

// ------------------------------ QR share ------------------------------

// handleRoomQR renders a PNG QR code for joining the given room,
// pointing at this deployment's join URL
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.Error(w, `{"error":"missing_code"}`, http.StatusBadRequest)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	url := scheme + "://" + r.Host + "/?join=" + strings.ToUpper(code)

	const qrSize = 320
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		s.log.Error().Err(err).Msg("qr generation")
		http.Error(w, `{"error":"qr_failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
