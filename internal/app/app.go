package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"skillkart_backend/internal/config"
	"skillkart_backend/internal/controller"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/service"
	"skillkart_backend/pkg/configwatcher"
	"skillkart_backend/pkg/database"
	"skillkart_backend/pkg/logger"
	"skillkart_backend/pkg/monitoring"
	"skillkart_backend/pkg/security"
	"skillkart_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config      *config.Config
	Router      *gin.Engine
	DB          *gorm.DB
	Redis       *redis.Client
	services    *services
	rateLimiter *security.RateLimiter
	tracer      *sdktrace.TracerProvider

	// 后台任务（通知中心、配置监听、限流清理）共用的生命周期
	ctx    context.Context
	cancel context.CancelFunc

	cfgMu           sync.RWMutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	roadmap      *repository.RoadmapRepository
	progress     *repository.ProgressRepository
	quizAttempt  *repository.QuizAttemptRepository
	discussion   *repository.DiscussionRepository
	article      *repository.ArticleRepository
	catalogCache *repository.CatalogCache
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	roadmap    *service.RoadmapService
	progress   *service.ProgressService
	quiz       *service.QuizService
	analytics  *service.AnalyticsService
	discussion *service.DiscussionService
	article    *service.ArticleService
	media      *service.MediaService
	hub        *service.NotificationHub
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	roadmap      *controller.RoadmapController
	progress     *controller.ProgressController
	quiz         *controller.QuizController
	analytics    *controller.AnalyticsController
	discussion   *controller.DiscussionController
	media        *controller.MediaController
	notification *controller.NotificationController
	health       *controller.HealthController
}

// RegisterConfigCallback 配置文件变更后依次调用
func (a *App) RegisterConfigCallback(cb func(*config.Config)) {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	a.configCallbacks = append(a.configCallbacks, cb)
}

func (a *App) currentConfig() *config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.Config
}

func (a *App) reloadConfig(newCfg *config.Config) {
	a.cfgMu.Lock()
	a.Config = newCfg
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.cfgMu.Unlock()

	for _, cb := range callbacks {
		cb(newCfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		roadmap:      repository.NewRoadmapRepository(db),
		progress:     repository.NewProgressRepository(db),
		quizAttempt:  repository.NewQuizAttemptRepository(db),
		discussion:   repository.NewDiscussionRepository(db),
		article:      repository.NewArticleRepository(db),
		catalogCache: repository.NewCatalogCache(rdb, cfg.App.CatalogCacheTTL()),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	hub := service.NewNotificationHub(rdb)

	location := func() *time.Location {
		return a.currentConfig().App.Location()
	}

	return &services{
		auth: service.NewAuthService(repos.user, cfg),
		user: service.NewUserService(repos.user),
		roadmap: service.NewRoadmapService(
			db,
			repos.roadmap,
			repos.progress,
			repos.quizAttempt,
			repos.discussion,
			repos.catalogCache,
			cfg.App.MinResourcesPerTopic,
		),
		progress:   service.NewProgressService(db, repos.progress, repos.roadmap, repos.user, hub, location),
		quiz:       service.NewQuizService(repos.roadmap, repos.quizAttempt),
		analytics:  service.NewAnalyticsService(repos.roadmap, repos.progress, repos.user),
		discussion: service.NewDiscussionService(repos.discussion, repos.roadmap),
		article:    service.NewArticleService(repos.article),
		media:      service.NewMediaService(service.NewStorageProvider(&cfg.Storage)),
		hub:        hub,
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.user),
		user:         controller.NewUserController(s.user),
		roadmap:      controller.NewRoadmapController(s.roadmap),
		progress:     controller.NewProgressController(s.progress),
		quiz:         controller.NewQuizController(s.quiz),
		analytics:    controller.NewAnalyticsController(s.analytics),
		discussion:   controller.NewDiscussionController(s.discussion),
		media:        controller.NewMediaController(s.media, s.article),
		notification: controller.NewNotificationController(s.hub),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	a.rateLimiter = security.NewRateLimiter(
		cfg.RateLimit.MaxRequests,
		time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute,
	)
	router.Use(a.rateLimiter.Middleware())

	router.Use(monitoring.MetricsMiddleware())
}

// registerConfigCallbacks 可热更新的配置项：日志级别、向导校验规则、限流参数
func (a *App) registerConfigCallbacks(s *services) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		logger.SetMode(cfg.Server.Mode)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.roadmap.SetMinResourcesPerTopic(cfg.App.MinResourcesPerTopic)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		a.rateLimiter.Update(
			cfg.RateLimit.MaxRequests,
			time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute,
		)
	})
}

func (a *App) startBackgroundTasks(s *services) {
	go s.hub.Run(a.ctx)

	go a.rateLimiter.RunCleanup(a.ctx.Done())

	configPath := a.currentConfig().File()
	go func() {
		if err := configwatcher.WatchConfig(a.ctx, configPath, a.reloadConfig); err != nil {
			logger.Log.Warn("Config watcher disabled", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	// Redis 只承载目录缓存与跨实例通知，不可用时降级为单实例运行
	rdb, err := database.InitRedis(&cfg.Redis)
	switch {
	case errors.Is(err, database.ErrRedisDisabled):
		logger.Log.Info("Redis not configured, running without catalog cache")
		rdb = nil
	case err != nil:
		logger.Log.Warn("Redis unavailable, catalog cache and cross-instance notifications disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb
	app.ctx, app.cancel = context.WithCancel(context.Background())

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("skillkart-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
		router.Use(tracing.GinMiddleware())
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.registerConfigCallbacks(services)
	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	port := a.currentConfig().Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server")

	// 关闭 WebSocket 连接、配置监听与限流清理
	a.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
