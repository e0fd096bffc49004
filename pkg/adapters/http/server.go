package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/cvrguide"
	"github.com/aretw0/cvrguide/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Fixed replies of the web transports.
const (
	ReplyChatApology  = "I apologize for the technical issue. Please refresh the page and try again."
	ReplyTelexApology = "I apologize, I'm having trouble processing your request. Please try again in a moment."
	ReplyWelcome      = "Hello! I can guide you through INEC CVR services. Say hi to get started."
)

// SessionCookie carries the chat session id.
const SessionCookie = "cvr_session"

// Engine is the conversation core the transport drives.
type Engine interface {
	HandleMessage(ctx context.Context, sessionID, text string) (string, error)
	ResetSession(ctx context.Context, sessionID string) error
}

// Server serves the chat and Telex endpoints.
type Server struct {
	Engine  Engine
	Streams *StreamManager

	metrics http.Handler
	health  func(context.Context) error
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStreams publishes state diffs on GET /events. The same manager's Hooks
// must be registered on the engine.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithHealthCheck makes GET /health report the result of check (e.g. a Redis ping).
func WithHealthCheck(check func(context.Context) error) Option {
	return func(s *Server) {
		s.health = check
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/", s.Index)
	r.Post("/chat", s.Chat)
	r.Post("/reset", s.Reset)
	r.Post("/telex/a2a", s.TelexA2A)
	r.Post("/telex/webhook", s.TelexWebhook)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.Streams != nil {
		r.Get("/events", s.SubscribeEvents)
	}
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type resetResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

// Index starts a fresh web conversation by expiring the session cookie.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, chatResponse{Reply: ReplyWelcome}, s.logger)
}

// Chat handles POST /chat. A malformed body is treated as an empty message.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("chat: invalid request body", "err", err)
	}

	sessionID := s.chatSession(w, r)
	reply, err := s.Engine.HandleMessage(r.Context(), sessionID, body.Message)
	if err != nil {
		s.logger.Error("chat: turn failed", "session_id", sessionID, "err", err)
		reply = ReplyChatApology
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply}, s.logger)
}

// Reset handles POST /reset.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	if id, ok := cookieSession(r); ok {
		if err := s.Engine.ResetSession(r.Context(), id); err != nil {
			s.logger.Error("reset failed", "session_id", id, "err", err)
		}
	}
	writeJSON(w, http.StatusOK, resetResponse{Status: "success", Reply: cvrguide.ReplyReset}, s.logger)
}

// cookieSession returns the chat session id if the request carries one this
// server could have issued: a UUID in canonical form.
func cookieSession(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil || id.String() != c.Value {
		return "", false
	}
	return c.Value, true
}

// chatSession returns the cookie session id, issuing a new one if it is
// absent or not one of ours.
func (s *Server) chatSession(w http.ResponseWriter, r *http.Request) string {
	if id, ok := cookieSession(r); ok {
		return id
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		s.logger.Warn("chat: replacing unrecognized session cookie", "length", len(c.Value))
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health(ctx); err != nil {
			s.logger.Warn("health check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}, s.logger)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "cvrguide-http",
		"version": cvrguide.Version,
	}, s.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
