package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/hpungsan/hmchef/internal/config"
	"github.com/hpungsan/hmchef/internal/media"
	"github.com/hpungsan/hmchef/internal/ops"
	"github.com/hpungsan/hmchef/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Deps are the collaborators the web UI is built from.
type Deps struct {
	Store   *store.Store
	Catalog ops.Catalog
	Media   *media.Library
	Config  *config.Config
	Logger  *zap.Logger
	Version string
}

// NewServer creates and configures the HTTP server for the web UI.
func NewServer(deps Deps, bind string, port int) (*http.Server, error) {
	handler, err := NewHandler(deps)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bind, port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// NewHandler builds the routed, middleware-wrapped handler.
func NewHandler(deps Deps) (http.Handler, error) {
	h, err := newHandlers(deps)
	if err != nil {
		return nil, err
	}
	return h.routes(), nil
}

func newHandlers(deps Deps) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	// Create sub-FS for templates (strip "templates/" prefix)
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("template sub-FS: %w", err)
	}

	renderer, err := NewRenderer(templateSub, deps.Version, logger)
	if err != nil {
		return nil, err
	}

	return &Handlers{
		store:    deps.Store,
		catalog:  deps.Catalog,
		media:    deps.Media,
		cfg:      cfg,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}, nil
}

func (h *Handlers) routes() http.Handler {
	// Create sub-FS for static files (strip "static/" prefix)
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embedded directory is always present
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /{$}", h.HandleHome)
	mux.HandleFunc("GET /recipes/new", h.HandleNewRecipe)
	mux.HandleFunc("POST /recipes", h.HandleCreateRecipe)
	mux.HandleFunc("GET /recipes", h.HandleList)
	mux.HandleFunc("GET /recipes/events", h.HandleRecipeEvents)
	mux.HandleFunc("GET /search", h.HandleSearch)
	mux.HandleFunc("GET /planner", h.HandlePlanner)
	mux.HandleFunc("GET /planner/events", h.HandlePlannerEvents)
	mux.HandleFunc("GET /media/{name}", h.HandleMedia)

	// Static file server
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	var handler http.Handler = provideStore(h.store, mux)
	handler = requestLog(h.logger, handler)
	if len(h.cfg.AllowedOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: h.cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "HX-Request", "HX-Target"},
		}).Handler(handler)
	}
	return securityHeaders(handler)
}

// provideStore makes the live store reachable from every request context.
func provideStore(s *store.Store, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(store.WithStore(r.Context(), s)))
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the Flusher underneath.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// requestLog tags each request with a ULID and logs it at debug.
func requestLog(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.ToLower(ulid.Make().String())
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Debug("http request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// securityHeaders adds security-related HTTP headers to all responses.
// Catalog thumbnails are remote https images.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'; img-src 'self' https: data:; connect-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, logger *zap.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Event streams end when this is cancelled, so Shutdown does not wait on them.
	baseCtx, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()
	srv.BaseContext = func(net.Listener) context.Context { return baseCtx }

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("hmchef UI running", zap.String("url", "http://"+srv.Addr))

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		logger.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("shutting down")
		cancelStreams()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
