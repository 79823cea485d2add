package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/adapterkit/adapter"
	"github.com/kbukum/adapterkit/logger"
)

// Server is the ops HTTP surface for a set of managed adapters: health and
// metrics snapshots plus the administrative circuit/cache operations, served
// by Gin behind an http.ServeMux so extra handlers can share the port.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	mux        *http.ServeMux
	registry   *adapter.Registry
	config     Config
	log        *logger.Logger

	mu   sync.Mutex
	addr string
}

// New builds the server around a registry. The middleware stack and the ops
// routes are registered here; additional handlers can be mounted with Handle
// before Start.
func New(cfg Config, registry *adapter.Registry, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	// h2c keeps HTTP/2 available without TLS for co-mounted handlers.
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      h2c.NewHandler(mux, h2s),
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
		},
		engine:   engine,
		mux:      mux,
		registry: registry,
		config:   cfg,
		log:      log.WithComponent("server"),
	}
	s.addr = s.httpServer.Addr

	engine.Use(Recovery(s.log))
	engine.Use(RequestID())
	engine.Use(RequestLogger(s.log))
	s.registerRoutes()
	return s
}

// GinEngine returns the underlying Gin engine for extra route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handle mounts an http.Handler on the root ServeMux alongside the ops
// routes. Subtree patterns need the trailing slash.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("handler mounted", logger.Fields("pattern", pattern))
}

// Start binds the listener and serves in a goroutine. It returns once the
// port is bound, so callers can rely on Addr immediately after.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("ops server started", logger.Fields("addr", s.Addr()))
	return nil
}

// Stop shuts the server down gracefully with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down ops server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Addr returns the bound address once Start has run, the configured address
// before that.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}
