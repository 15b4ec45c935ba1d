// Package server exposes chat sessions over HTTP and WebSocket.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ppiankov/studyprep/internal/chat"
	"github.com/ppiankov/studyprep/internal/model"
	"github.com/ppiankov/studyprep/internal/worker"
)

// Config holds server configuration.
type Config struct {
	Addr              string
	AllowAllOrigins   bool // allow all CORS origins (dev mode)
	AllowedOrigins    []string
	SessionTTL        time.Duration
	RequestsPerSecond float64 // per client address; 0 disables limiting
	Burst             int
	SeedMessages      bool // start new sessions with the demo conversation
}

// ConfigFromModel converts the loaded configuration
func ConfigFromModel(cfg *model.Config) Config {
	return Config{
		Addr:              cfg.Server.Addr,
		AllowAllOrigins:   cfg.Server.AllowAllOrigins,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		SessionTTL:        cfg.Server.SessionTTL,
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
		Burst:             cfg.Server.Burst,
		SeedMessages:      cfg.Chat.SeedMessages,
	}
}

// Server serves the study chat API.
type Server struct {
	cfg        Config
	engine     *chat.Engine
	sessions   *SessionStore
	reports    chat.ReportSink
	limiter    *worker.Limiter
	logger     *zap.SugaredLogger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server around the chat engine. A nil logger discards logs.
func New(cfg Config, engine *chat.Engine, reports chat.ReportSink, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if reports == nil {
		reports = &chat.MemoryReportSink{}
	}

	s := &Server{
		cfg:      cfg,
		engine:   engine,
		sessions: NewSessionStore(cfg.SessionTTL, cfg.SeedMessages),
		reports:  reports,
		limiter:  worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		logger:   logger,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(s.cfg.AllowedOrigins) > 0 {
		corsOpts.AllowedOrigins = s.cfg.AllowedOrigins
	}
	if s.cfg.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
		corsOpts.AllowCredentials = false
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Hijacked WebSocket connections must not inherit the request timeout
	r.Get("/ws/chat", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Route("/api", func(r chi.Router) {
			r.Get("/catalog/topics", s.handleTopics)
			r.Post("/sessions", s.handleCreateSession)
			r.Route("/sessions/{id}", func(r chi.Router) {
				r.Get("/messages", s.handleListMessages)
				r.With(s.rateLimit).Post("/messages", s.handlePostMessage)
				r.Delete("/messages", s.handleClearMessages)
				r.Get("/export", s.handleExport)
				r.Post("/reports", s.handleReport)
			})
		})
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Sessions returns the session store.
func (s *Server) Sessions() *SessionStore { return s.sessions }

// Start begins listening on the configured address. It returns nil after Shutdown.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Infow("studyprep server listening", "addr", s.cfg.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// rateLimit rejects submissions beyond the per-client budget
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(remoteKey(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request through zap
func requestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// remoteKey identifies the client for rate limiting
func remoteKey(r *http.Request) string {
	return worker.KeyForRemoteAddr(r.RemoteAddr)
}
