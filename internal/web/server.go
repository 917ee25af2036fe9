// Package web serves the hosted interface: a single page that uploads a
// photo, shows the recipe and reads it aloud with the browser's own speech
// engine, driven over Server-Sent Events.
package web

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hammamikhairi/chefai/internal/domain"
	"github.com/hammamikhairi/chefai/internal/kitchen"
	"github.com/hammamikhairi/chefai/internal/logger"
	"github.com/hammamikhairi/chefai/internal/speech"
)

//go:embed static
var staticFiles embed.FS

// Cooker produces dishes from photos.
type Cooker interface {
	Cook(ctx context.Context, img domain.Image, meal domain.MealType) (*kitchen.Dish, error)
}

// Compile-time interface check.
var _ Cooker = (*kitchen.Kitchen)(nil)

// Option configures the Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS allow-list. Defaults to any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithHeartbeat sets the SSE keep-alive interval.
func WithHeartbeat(d time.Duration) Option {
	return func(s *Server) { s.heartbeat = d }
}

// Server holds the single shared "current recipe". The hosted deployment
// has no per-user sessions, so the last cooked dish is what gets read aloud.
type Server struct {
	cook      Cooker
	speech    domain.SpeechBackend
	hub       *speech.Hub
	log       *logger.Logger
	origins   []string
	heartbeat time.Duration

	mu       sync.RWMutex
	current  *kitchen.Dish
	id       string
	segments []string
}

// NewServer creates the web server. hub is where the browser subscribes
// for speech commands issued through backend.
func NewServer(cook Cooker, backend domain.SpeechBackend, hub *speech.Hub, log *logger.Logger, opts ...Option) *Server {
	s := &Server{
		cook:      cook,
		speech:    backend,
		hub:       hub,
		log:       log.Named("web"),
		origins:   []string{"*"},
		heartbeat: 25 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.healthz)

	static, _ := fs.Sub(staticFiles, "static")
	r.Handle("/*", http.FileServer(http.FS(static)))

	r.Route("/api", func(r chi.Router) {
		r.Post("/recipes", s.createRecipe)
		r.Get("/recipes/current", s.currentRecipe)

		r.Route("/speech", func(r chi.Router) {
			r.Get("/events", s.speechEvents)
			r.Get("/status", s.speechStatus)
			r.Post("/play", s.speechPlay)
			r.Post("/pause", s.speechPause)
			r.Post("/resume", s.speechResume)
			r.Post("/stop", s.speechStop)
			r.Post("/selftest", s.speechSelfTest)
		})
	})

	return r
}

func (s *Server) setCurrent(id string, dish *kitchen.Dish) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	s.current = dish
	s.segments = speech.PrepareSegments(dish.Recipe)
}

func (s *Server) snapshot() (string, *kitchen.Dish, []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id, s.current, s.segments
}
