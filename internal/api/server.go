package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"klondike/internal/app"
	"klondike/internal/domain"
	"klondike/internal/ports"
	"klondike/internal/ws"
)

// Server handles the solo-portal HTTP API.
type Server struct {
	svc         *app.Service
	ledger      ports.LedgerPort
	hub         *ws.Hub
	logger      *log.Logger
	tokenSecret string

	mu    sync.Mutex
	games map[string]*gameEntry
}

// gameEntry tracks one live solo game.
type gameEntry struct {
	ID       string
	PlayerID string
	Game     *domain.Game
	Recorded bool // terminal result already sent to the ledger
}

// NewServer creates a new API server.
func NewServer(svc *app.Service, ledger ports.LedgerPort, hub *ws.Hub, tokenSecret string) *Server {
	return &Server{
		svc:         svc,
		ledger:      ledger,
		hub:         hub,
		logger:      log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile),
		tokenSecret: tokenSecret,
		games:       make(map[string]*gameEntry),
	}
}

// Routes sets up the HTTP routes with middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.hub.ServeWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/games", s.handleCreateGame)
		r.Get("/stats/{playerID}", s.handleStats)

		r.Route("/games/{gameID}", func(r chi.Router) {
			r.Use(s.gameAuth)
			r.Get("/", s.handleGetGame)
			r.Post("/moves", s.handleMove)
			r.Post("/undo", s.handleUndo)
			r.Post("/autocomplete", s.handleAutoComplete)
			r.Get("/hint", s.handleHint)
			r.Post("/reset", s.handleReset)
		})
	})

	return r
}

// gameAuth requires a bearer token scoped to the addressed game.
func (s *Server) gameAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if token == "" || token == auth {
			s.writeError(w, http.StatusUnauthorized, ErrTypeUnauthorized, "missing bearer token")
			return
		}

		scope, err := verifyGameToken(s.tokenSecret, token)
		if err != nil || scope != gameID {
			s.writeError(w, http.StatusUnauthorized, ErrTypeUnauthorized, "token not valid for this game")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) entry(gameID string) (*gameEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.games[gameID]
	return e, ok
}

// writeJSON writes a JSON response with proper headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError writes a structured error response.
func (s *Server) writeError(w http.ResponseWriter, status int, errType, message string) {
	s.writeJSON(w, status, ErrorResponse{Type: errType, Message: message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
