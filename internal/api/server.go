package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/taskdeck/taskdeck-core/internal/auth"
	"github.com/taskdeck/taskdeck-core/internal/infrastructure/config"
	"github.com/taskdeck/taskdeck-core/internal/infrastructure/database"
	"github.com/taskdeck/taskdeck-core/internal/infrastructure/influxdb"
	"github.com/taskdeck/taskdeck-core/internal/infrastructure/logging"
	"github.com/taskdeck/taskdeck-core/internal/project"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	Auth        config.AuthConfig
	Logger      *logging.Logger
	DB          *database.DB
	Codec       *auth.Codec
	Registry    *auth.Registry
	Issuer      *auth.Issuer
	ProjectRepo project.Repository
	Metrics     *influxdb.Client // optional, nil when the sink is disabled
	Version     string
}

// Server is the HTTP API server for TaskDeck Core.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg          config.APIConfig
	logger       *logging.Logger
	db           *database.DB
	codec        *auth.Codec
	registry     *auth.Registry
	issuer       *auth.Issuer
	projectRepo  project.Repository
	metrics      *influxdb.Client
	issueLimiter *ipLimiter
	version      string
	server       *http.Server
	cancel       context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Codec == nil || deps.Registry == nil || deps.Issuer == nil {
		return nil, fmt.Errorf("auth codec, registry, and issuer are required")
	}
	if deps.ProjectRepo == nil {
		return nil, fmt.Errorf("project repository is required")
	}
	// Metrics and DB are optional; health reports degraded without a DB.

	s := &Server{
		cfg:         deps.Config,
		logger:      deps.Logger,
		db:          deps.DB,
		codec:       deps.Codec,
		registry:    deps.Registry,
		issuer:      deps.Issuer,
		projectRepo: deps.ProjectRepo,
		metrics:     deps.Metrics,
		version:     deps.Version,
	}

	if rl := deps.Auth.RateLimit; rl.Enabled {
		window := time.Duration(rl.WindowS) * time.Second
		s.issueLimiter = newIPLimiter(rl.Requests, window)
	}

	return s, nil
}

// Start begins listening for HTTP connections.
//
// It builds the router, launches the registry sweep and limiter prune
// loops, and starts the listener in a background goroutine. The server
// is stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	// Internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	go s.sweepSessionsLoop(srvCtx)
	if s.issueLimiter != nil {
		go s.pruneLimiterLoop(srvCtx)
	}

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// Handler returns the fully assembled router. Exposed for tests that
// drive the server through httptest without a real listener.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

// sweepSessionsLoop periodically drops expired sessions from the
// registry until the context is cancelled.
func (s *Server) sweepSessionsLoop(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := s.registry.SweepExpired(now); removed > 0 {
				s.logger.Debug("expired sessions swept", "removed", removed)
			}
		}
	}
}
