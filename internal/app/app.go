package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"job_scoring_backend/internal/config"
	"job_scoring_backend/internal/controller"
	"job_scoring_backend/internal/middleware"
	"job_scoring_backend/internal/repository"
	"job_scoring_backend/internal/scoring"
	"job_scoring_backend/internal/service"
	"job_scoring_backend/pkg/configwatcher"
	"job_scoring_backend/pkg/database"
	"job_scoring_backend/pkg/logger"
	"job_scoring_backend/pkg/monitoring"
	"job_scoring_backend/pkg/security"
	"job_scoring_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	rateLimiter     *security.RateLimiter
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	job         *repository.JobRepository
	application *repository.JobApplicationRepository
}

type services struct {
	job         *service.JobService
	application *service.JobApplicationService
}

type controllers struct {
	job         *controller.JobController
	application *controller.JobApplicationController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 将热更新后的配置分发给所有回调
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	a.Config = cfg
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		job:         repository.NewJobRepository(db),
		application: repository.NewJobApplicationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	var opts []scoring.Option
	if cfg.Scoring.StrictTypes {
		opts = append(opts, scoring.WithStrictTypes())
	}

	s := &services{}
	s.job = service.NewJobService(repos.job, rdb, cfg.Cache.JobTTL)
	s.application = service.NewJobApplicationService(repos.application, s.job, scoring.New(opts...))
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		job:         controller.NewJobController(s.job),
		application: controller.NewJobApplicationController(s.application),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.rateLimiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New wires the HTTP surface on top of already opened stores. rdb may be nil.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config:      cfg,
		DB:          db,
		Redis:       rdb,
		rateLimiter: security.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimitWindow()),
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	app.RegisterConfigCallback(func(c *config.Config) {
		logger.SetLevel(logger.LevelFor(c))
	})
	app.RegisterConfigCallback(func(c *config.Config) {
		app.rateLimiter.Update(c.RateLimit.MaxRequests, c.RateLimitWindow())
	})

	return app
}

// NewApp 初始化日志、数据库、Redis，并按需执行迁移
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	debug := cfg.Server.Mode == gin.DebugMode
	db, err := database.InitDB(&cfg.Database, debug)
	if err != nil {
		return nil, err
	}

	// release 模式下默认不迁移，需显式 --migrate
	if debug || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}, nil
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rdb == nil {
		logger.Log.Info("Redis disabled, job cache off")
	}

	return New(cfg, db, rdb), nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
// configDir is watched for config.yaml changes; empty disables the watcher.
func (a *App) Run(ctx context.Context, configDir string) error {
	defer a.rateLimiter.Stop()

	if a.Config.Tracing.Enabled {
		tp, err := tracing.InitTracer(a.Config.Tracing.ServiceName, a.Config.Tracing.CollectorEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	if configDir != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, configDir, a.ApplyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Warn("Failed to close redis", zap.Error(err))
		}
	}
	logger.Log.Info("Server exiting")
	return nil
}
