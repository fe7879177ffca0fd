package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	database "github.com/eventify/eventify-go/internal/db"
	"github.com/eventify/eventify-go/internal/pkg/config"
)

// Server owns the database pool and assembles the HTTP server around a
// router built separately.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	dbPool *pgxpool.Pool
	router http.Handler
}

// New connects to Postgres, runs migrations and returns a Server ready for
// a router.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database configuration: %w", err)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	database.WaitForDB(ctx, pool, logger)
	logger.Info("Connected to Postgres",
		zap.String("host", cfg.Repositories.Postgres.Host),
		zap.String("port", cfg.Repositories.Postgres.Port),
		zap.String("database", cfg.Repositories.Postgres.DB))

	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Server{
		cfg:    cfg,
		logger: logger,
		dbPool: pool,
	}, nil
}

// Pool exposes the connection pool for route wiring.
func (s *Server) Pool() *pgxpool.Pool {
	return s.dbPool
}

// SetRouter installs the HTTP handler the server will serve.
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// HTTPServer builds the http.Server with the service's timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Close releases the database pool.
func (s *Server) Close() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
}
