package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/yash2003ruhela/mind-map/pkg/cache"
	"github.com/yash2003ruhela/mind-map/pkg/editor"
	"github.com/yash2003ruhela/mind-map/pkg/pipeline"
)

// DefaultCacheSize is the artifact cache size used when no runner is given.
const DefaultCacheSize = 8 << 20

// ShutdownTimeout bounds graceful shutdown in [Server.Run].
const ShutdownTimeout = 5 * time.Second

// Server serves one editing session.
type Server struct {
	mu   sync.Mutex
	sess *editor.Session

	runner  *pipeline.Runner
	export  pipeline.Options
	origins []string
	logger  *log.Logger
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithAllowedOrigins sets the CORS origins. No origins disables CORS.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithRunner sets the export runner.
func WithRunner(r *pipeline.Runner) Option {
	return func(s *Server) { s.runner = r }
}

// WithExportDefaults sets the scale and font size used when an export
// request does not name them.
func WithExportDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.export = opts }
}

// New creates a server around sess.
func New(sess *editor.Session, opts ...Option) *Server {
	s := &Server{sess: sess}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(cache.NewMemoryCache(DefaultCacheSize), s.logger)
	}
	s.handler = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)

	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/view", s.getView)
		r.Get("/history", s.getHistory)

		r.Post("/nodes", s.addNode)
		r.Patch("/nodes/{id}", s.updateNode)
		r.Delete("/nodes/{id}", s.deleteNode)

		r.Post("/selection", s.toggleSelection)
		r.Delete("/selection", s.clearSelection)
		r.Post("/selection/connect", s.connect)
		r.Post("/selection/delete", s.deleteSelected)

		r.Delete("/edges/{from}/{to}", s.disconnect)

		r.Post("/undo", s.undo)
		r.Post("/redo", s.redo)
		r.Post("/diagram", s.newDiagram)

		r.Get("/snapshot", s.getSnapshot)
		r.Put("/snapshot", s.putSnapshot)

		r.Get("/export/{format}", s.exportDiagram)
	})

	return r
}

// withSession runs fn while holding the session lock.
func (s *Server) withSession(fn func(*editor.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.sess)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
