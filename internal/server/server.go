package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jackzampolin/freestyle/internal/advice"
	"github.com/jackzampolin/freestyle/internal/api"
	"github.com/jackzampolin/freestyle/internal/auth"
	"github.com/jackzampolin/freestyle/internal/catalog"
	"github.com/jackzampolin/freestyle/internal/config"
	"github.com/jackzampolin/freestyle/internal/home"
	"github.com/jackzampolin/freestyle/internal/providers"
	"github.com/jackzampolin/freestyle/internal/server/endpoints"
	"github.com/jackzampolin/freestyle/internal/store"
	"github.com/jackzampolin/freestyle/internal/svcctx"
)

// Server is the main Freestyle HTTP server.
// When database.managed.enabled is set it owns the Postgres container,
// starting it on server start and stopping it on shutdown.
type Server struct {
	httpServer *http.Server
	dbManager  *store.DockerManager
	store      *store.Store
	ownsStore  bool
	registry   *providers.Registry
	configMgr  *config.Manager
	home       *home.Dir
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: server.host, then 127.0.0.1)
	Host string
	// Port is the port to listen on (default: server.port, then 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Home locates the SQLite file and the managed Postgres data directory
	Home *home.Dir
	// Logger is the structured logger to use
	Logger *slog.Logger
	// Store, when set, is used as-is and left open on shutdown.
	Store *store.Store
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.ConfigManager == nil {
		return nil, errors.New("server: config manager is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	c := cfg.ConfigManager.Get()
	if cfg.Host == "" {
		cfg.Host = c.Server.Host
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = c.Server.Port
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	// Create provider registry and rebuild it when the llm section changes
	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)
	registry.Reload(c.ToProviderRegistryConfig())
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		registry.Reload(c.ToProviderRegistryConfig())
		cfg.Logger.Info("provider registry reloaded from config")
	})

	s := &Server{
		registry:  registry,
		configMgr: cfg.ConfigManager,
		home:      cfg.Home,
		logger:    cfg.Logger,
	}

	if cfg.Store == nil {
		mgr, err := NewDBManager(c, cfg.Home)
		if err != nil {
			return nil, err
		}
		s.dbManager = mgr
	}

	if cfg.Store != nil {
		s.store = cfg.Store
		if err := s.initServices(); err != nil {
			return nil, err
		}
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{DBManager: s.dbManager}) {
		s.endpointRegistry.Register(ep)
	}

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start opens the database (starting the managed container first when
// configured) and serves HTTP.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if s.services == nil {
		if s.dbManager != nil {
			if err := s.home.EnsurePostgresDir(); err != nil {
				s.setNotRunning()
				return fmt.Errorf("failed to create postgres data dir: %w", err)
			}
			s.logger.Info("starting managed Postgres", "container", s.dbManager.ContainerName())
			if err := s.dbManager.Start(ctx); err != nil {
				s.setNotRunning()
				return fmt.Errorf("failed to start Postgres: %w", err)
			}
		}

		st, err := s.openStore()
		if err != nil {
			_ = s.shutdown()
			return err
		}
		s.store = st
		s.ownsStore = true

		if err := s.initServices(); err != nil {
			_ = s.shutdown()
			return err
		}
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// openStore connects to the configured database.
func (s *Server) openStore() (*store.Store, error) {
	st, err := OpenStore(s.configMgr.Get(), s.home, s.dbManager, s.logger)
	if err != nil {
		return nil, err
	}
	s.logger.Info("database ready", "driver", st.DB().Dialector.Name())
	return st, nil
}

// OpenStore opens the database described by c. A non-nil dbManager means
// Postgres runs in the managed container; otherwise SQLite under h is the
// default. The CLI uses this for commands that work on the database directly.
func OpenStore(c *config.Config, h *home.Dir, dbManager *store.DockerManager, logger *slog.Logger) (*store.Store, error) {
	driver := strings.ToLower(c.Database.Driver)
	dsn := c.Database.DSN
	maxConns := 0

	switch {
	case dbManager != nil:
		driver = store.DriverPostgres
		if dsn == "" {
			dsn = dbManager.DSN()
		}
	case driver == "" || driver == store.DriverSQLite:
		driver = store.DriverSQLite
		if dsn == "" {
			if h == nil {
				return nil, errors.New("database.dsn or a home directory is required for sqlite")
			}
			if err := h.EnsureExists(); err != nil {
				return nil, fmt.Errorf("failed to create home directory: %w", err)
			}
			dsn = store.SQLiteDSN(h.DatabasePath())
		}
		// SQLite has a single writer; one connection avoids busy errors
		// between overlapping transactions.
		maxConns = 1
	case driver == store.DriverPostgres && dsn == "":
		return nil, errors.New("database.dsn is required for postgres unless database.managed.enabled is set")
	}

	if logger == nil {
		logger = slog.Default()
	}
	gormLogger, err := store.NewLogger(logger, c.Database.LogLevel, c.SlowQueryThreshold())
	if err != nil {
		logger.Warn("invalid database.log_level, using default", "error", err)
	}

	return store.Open(store.Options{
		Driver:       driver,
		DSN:          dsn,
		Logger:       gormLogger,
		MaxOpenConns: maxConns,
	})
}

// NewDBManager returns the managed Postgres container manager, or nil when
// database.managed.enabled is off.
func NewDBManager(c *config.Config, h *home.Dir) (*store.DockerManager, error) {
	if !c.Database.Managed.Enabled {
		return nil, nil
	}
	if h == nil {
		return nil, errors.New("home directory is required for the managed database")
	}
	mgr, err := store.NewDockerManager(store.DockerConfig{
		ContainerName: c.Database.Managed.ContainerName,
		Image:         c.Database.Managed.Image,
		DataPath:      h.PostgresDataPath(),
		HostPort:      c.Database.Managed.HostPort,
		Password:      c.ResolvedDBPassword(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	return mgr, nil
}

// initServices builds the domain services over s.store.
func (s *Server) initServices() error {
	c := s.configMgr.Get()

	tokens, err := auth.NewTokenIssuer(c.ResolvedJWTSecret(), c.TokenTTL())
	if err != nil {
		return fmt.Errorf("auth.jwt_secret: %w", err)
	}

	cat := catalog.NewService(s.store, s.logger)
	authSvc, err := auth.NewService(auth.Config{
		Store:      s.store,
		Tokens:     tokens,
		Logger:     s.logger,
		OnRegister: cat.Recompute,
	})
	if err != nil {
		return err
	}

	s.services = &svcctx.Services{
		Store:         s.store,
		Catalog:       cat,
		Auth:          authSvc,
		Advisor:       advice.NewAdvisor(s.registry, providers.OpenAIName, s.logger),
		Registry:      s.registry,
		ConfigManager: s.configMgr,
		Logger:        s.logger,
		Home:          s.home,
	}
	return nil
}

// shutdown performs graceful shutdown of the HTTP server and the database.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	if s.ownsStore && s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("database close error", "error", err)
		}
	}

	if s.dbManager != nil {
		s.logger.Info("stopping managed Postgres")
		if err := s.dbManager.Stop(shutdownCtx); err != nil {
			s.logger.Error("Postgres stop error", "error", err)
		}
		if err := s.dbManager.Close(); err != nil {
			s.logger.Error("database manager close error", "error", err)
		}
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the full middleware chain, for tests that drive the
// server through httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// Services returns the services built for the current store, or nil before
// Start has opened the database.
func (s *Server) Services() *svcctx.Services {
	return s.services
}
