// Package devserver is an in-memory stand-in for the gym backend, serving
// the same REST surface the mobile client consumes. It backs local
// development and the API client tests; it is not the production backend.
package devserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/claude/gymtrack/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Server holds the seeded account, workouts and issued tokens.
type Server struct {
	log    *slog.Logger
	router chi.Router

	mu     sync.Mutex
	tokens map[string]bool

	email      string
	password   string
	profile    models.ProfileWire
	aluno      loginAluno
	workouts   []models.WorkoutWire
	membership *models.MembershipWire
	finalized  []int
}

// New creates a devserver with the default seed data.
func New(log *slog.Logger) *Server {
	s := &Server{
		log:    log,
		router: chi.NewRouter(),
		tokens: make(map[string]bool),
	}
	s.seed()
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))

	s.router.Post("/aluno/login", s.handleLogin)

	s.router.Group(func(r chi.Router) {
		r.Use(s.bearerAuth)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/mobile/profile", s.handleProfile)
		r.Get("/mobile/treinos", s.handleWorkouts)
		r.Get("/mobile/treinos/{id}", s.handleWorkout)
		r.Post("/mobile/treinos/{id}/finalizar", s.handleFinalize)
		r.Get("/mobile/mensalidades/proxima", s.handleNextMembership)
	})
}

// Finalized returns the workout ids the server received completion notices
// for, in order.
func (s *Server) Finalized() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.finalized...)
}

type loginAluno struct {
	ID     int    `json:"id"`
	Nome   string `json:"nome"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid JSON"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Email != s.email || req.Password != s.password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "credenciais inválidas"})
		return
	}

	token := uuid.NewString()
	s.tokens[token] = true

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "login realizado",
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   3600,
		"aluno":        s.aluno,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "logout realizado"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeData(w, s.profile)
}

func (s *Server) handleWorkouts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeData(w, s.workouts)
}

func (s *Server) handleWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, wk := range s.workouts {
		if wk.ID == id {
			writeData(w, wk)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "treino não encontrado"})
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid id"})
		return
	}

	s.mu.Lock()
	s.finalized = append(s.finalized, id)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "treino finalizado"})
}

func (s *Server) handleNextMembership(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.membership == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "nenhuma mensalidade pendente"})
		return
	}
	writeData(w, *s.membership)
}

// SetMembership replaces the seeded next-due membership; nil makes the
// endpoint return 404.
func (s *Server) SetMembership(m *models.MembershipWire) {
	s.mu.Lock()
	s.membership = m
	s.mu.Unlock()
}

func (s *Server) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		s.mu.Lock()
		ok := token != "" && s.tokens[token]
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "não autenticado"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if after, found := strings.CutPrefix(auth, "Bearer "); found {
		return after
	}
	return ""
}

// RequestLogging returns middleware that logs each request.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// writeData wraps v in the backend's standard {success, data} envelope.
func writeData(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": v})
}
