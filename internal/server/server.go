package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/glucolog/backend/config"
	"github.com/pageza/glucolog/backend/internal/api"
	"github.com/pageza/glucolog/backend/internal/database"
	"github.com/pageza/glucolog/backend/internal/middleware"
	"github.com/pageza/glucolog/backend/internal/report"
	"github.com/pageza/glucolog/backend/internal/router"
	"github.com/pageza/glucolog/backend/internal/service"
	"github.com/pageza/glucolog/backend/internal/store"
)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	logger *zap.Logger
	redis  *redis.Client
	cron   *cron.Cron
	export *service.ExportService
}

// New wires services, middleware and routes over db
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *zap.Logger) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{cfg: cfg, db: db, logger: logger}
	st := store.New(db)

	deps := api.Dependencies{
		Dashboard: service.NewDashboardService(st, logger, loc, report.Options{StrictReferences: cfg.StrictReferences}),
		Records:   service.NewRecordService(st),
		Ping:      func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
	}

	if cfg.AuthEnabled() {
		deps.Tokens = service.NewTokenService(cfg.JWTSecret)
	}

	// Continue without rate limiting if Redis is not available
	if s.redis, err = database.NewRedisClient(cfg, logger); err != nil {
		logger.Warn("rate limiting disabled", zap.Error(err))
	} else if s.redis != nil && cfg.RateLimitPerMinute > 0 {
		deps.RateLimiter = middleware.NewDashboardRateLimiter(s.redis, cfg.RateLimitPerMinute, logger)
	}

	var objects service.ObjectStore
	if cfg.ExportEnabled() {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3: %w", err)
		}
		objects = s3cfg
	}
	s.export = service.NewExportService(st, objects, logger)
	deps.Export = s.export

	s.router = router.SetupRouter(logger, cfg.CORSOrigins, middleware.NewMetrics(), deps)
	s.serveStatic(s.router)

	if cfg.ExportSchedule != "" {
		s.cron = cron.New()
		if _, err := s.cron.AddFunc(cfg.ExportSchedule, s.runScheduledExport); err != nil {
			return nil, fmt.Errorf("invalid export schedule: %w", err)
		}
	}

	return s, nil
}

// Router exposes the gin engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// serveStatic serves the dashboard frontend when STATIC_DIR exists
func (s *Server) serveStatic(router *gin.Engine) {
	dir := s.cfg.StaticDir
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		s.logger.Debug("static directory not found, frontend disabled", zap.String("dir", dir))
		return
	}
	router.Static("/static", dir)
	router.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(dir, "index.html"))
	})
}

func (s *Server) runScheduledExport() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := s.export.Export(ctx)
	if err != nil {
		s.logger.Error("scheduled export failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled export finished", zap.String("key", res.Key))
}

// Start runs the scheduler and serves HTTP until Shutdown is called
func (s *Server) Start() error {
	if s.cron != nil {
		s.cron.Start()
	}

	s.http = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, the scheduler and Redis
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cron != nil {
		select {
		case <-s.cron.Stop().Done():
		case <-ctx.Done():
		}
	}

	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
