// Package introspection assembles the loopback HTTP endpoint that
// exposes the runtime's state to the embedding UI and local tooling.
// Every route is read-only; actions go through the Go API.
package introspection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/config"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/logger"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/interfaces/http/handler"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/interfaces/http/middleware"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/interfaces/http/router"
)

// Options carries everything the server needs beyond its bind address.
type Options struct {
	Container   *store.Container
	Version     string
	ServiceName string
	Tracing     bool
	Logger      *zap.Logger
}

// Server is the introspection endpoint's lifecycle handle.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
	addr   string
}

// New builds the gin engine and the server around it. The engine runs
// in release mode in production; tests set their own mode first.
func New(cfg config.IntrospectionConfig, env string, opts Options) (*Server, error) {
	if opts.Container == nil {
		return nil, errors.New("introspection: container is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Tracing(opts.ServiceName, opts.Tracing),
		middleware.SpanErrorMarker(),
	)

	// Health stays outside the versioned group so probes survive a
	// version bump.
	engine.GET("/healthz", handler.NewSystemHandler(opts.Container, opts.Version).Healthz)

	router.NewRouter(engine).
		Register(handler.NewStateHandler(opts.Container)).
		Setup()

	return &Server{
		srv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      engine,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: log,
	}, nil
}

// Start binds the listener and begins serving in the background. It
// returns once the address is bound, so a taken port fails the boot
// instead of a goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("introspection: listen %s: %w", s.srv.Addr, err)
	}
	s.addr = ln.Addr().String()
	s.logger.Info("introspection endpoint listening", zap.String("addr", s.addr))

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("introspection endpoint failed", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound address. Meaningful only after Start; with a
// ":0" port this is where the listener actually landed.
func (s *Server) Addr() string {
	return s.addr
}

// Shutdown drains in-flight requests until the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
