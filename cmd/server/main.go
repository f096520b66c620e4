// Package main - точка входа для API-сервера SkillSprint.
//
// SkillSprint - это бэкенд адаптивного обучения: курирование учебных
// ресурсов, анализ поведения ученика, коллаборативные рекомендации и
// адаптивный подбор сложности квизов.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: реализация репозиториев, внешние API
// - Interface: HTTP endpoints
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/skillsprint/skillsprint-backend/config"

	// Application layer
	"github.com/skillsprint/skillsprint-backend/internal/application/command"
	"github.com/skillsprint/skillsprint-backend/internal/application/query"

	// Infrastructure layer
	"github.com/skillsprint/skillsprint-backend/internal/infrastructure/cache"
	"github.com/skillsprint/skillsprint-backend/internal/infrastructure/persistence/postgres"
	"github.com/skillsprint/skillsprint-backend/internal/infrastructure/persistence/redis"
	"github.com/skillsprint/skillsprint-backend/internal/infrastructure/supplier"

	// Interface layer
	httpserver "github.com/skillsprint/skillsprint-backend/internal/interface/http"

	// Packages
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	logOpts := logger.DefaultOptions()
	logOpts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	logOpts.AddCaller = cfg.Observability.AddCaller
	log := logger.New(logOpts)

	log.Info("starting SkillSprint backend",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.Migrate {
		log.Info("running database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("migrations completed")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ КЕША (Redis или in-process fallback)
	// ─────────────────────────────────────────────────────────────────────────
	var resourceCache query.ResourceCache
	var cachePinger httpserver.Pinger
	var requestLimiter httpserver.RequestLimiter

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err := redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, using in-process cache", logger.Err(err))
		} else {
			defer redisCache.Close()
			resourceCache = redis.NewResourceCache(redisCache, cfg.Redis.ResourceTTL)
			cachePinger = redisCache
			// Лимит запросов делится между инстансами через Redis.
			requestLimiter = redis.NewRateLimiter(redisCache,
				cfg.HTTP.RateLimitPerMinute, redis.TTLRateLimitWindow, "http")
			log.Info("Redis connection established")
		}
	}
	if resourceCache == nil {
		memCfg := cache.DefaultConfig()
		memCfg.TTL = cfg.Redis.ResourceTTL
		resourceCache = cache.NewMemory(memCfg)
		log.Info("using in-process resource cache")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	learnerRepo := postgres.NewLearnerRepository(dbConn)
	xpRepo := postgres.NewXPTransactionRepository(dbConn)
	skillRepo := postgres.NewSkillRepository(dbConn)
	progressRepo := postgres.NewProgressRepository(dbConn)
	quizRepo := postgres.NewQuizRepository(dbConn)
	behaviorRepo := postgres.NewBehaviorRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ ВНЕШНИХ КЛИЕНТОВ
	// ─────────────────────────────────────────────────────────────────────────
	var resourceSupplier query.ResourceSupplier

	if cfg.Supplier.BaseURL != "" {
		log.Info("initializing resource supplier client...",
			logger.String("base_url", cfg.Supplier.BaseURL))

		supplierCfg := supplier.DefaultClientConfig(cfg.Supplier.BaseURL)
		supplierCfg.APIKey = cfg.Supplier.APIKey
		supplierCfg.Timeout = cfg.Supplier.RequestTimeout
		supplierCfg.RateLimiter.RequestsPerSecond = cfg.Supplier.RateLimit
		supplierCfg.RateLimiter.BurstSize = cfg.Supplier.RateLimitBurst
		supplierCfg.Logger = log
		supplierCfg.Debug = cfg.App.Debug
		resourceSupplier = supplier.NewClient(supplierCfg)
	} else {
		log.Info("resource supplier disabled, curation runs on catalog only")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	registerCmd := command.NewRegisterLearnerHandler(learnerRepo, log,
		command.DefaultRegisterLearnerHandlerConfig())
	authenticateCmd := command.NewAuthenticateLearnerHandler(learnerRepo, log)
	startSkillCmd := command.NewStartSkillHandler(learnerRepo, skillRepo, progressRepo, xpRepo, behaviorRepo, log)
	completeSubskillCmd := command.NewCompleteSubskillHandler(learnerRepo, skillRepo, progressRepo, xpRepo, behaviorRepo, log)
	uncompleteSubskillCmd := command.NewUncompleteSubskillHandler(skillRepo, progressRepo, behaviorRepo, log)
	trackInteractionCmd := command.NewTrackInteractionHandler(learnerRepo, behaviorRepo, log)
	submitQuizCmd := command.NewSubmitQuizHandler(learnerRepo, progressRepo, quizRepo, xpRepo, behaviorRepo, log)

	resourcesQuery := query.NewGetSubskillResourcesHandler(resourceCache, resourceSupplier, nil, log,
		query.GetSubskillResourcesHandlerConfig{SupplierLimit: cfg.Supplier.SearchLimit})
	recommendationsQuery := query.NewGetRecommendationsHandler(learnerRepo, skillRepo, progressRepo, nil, log)
	profileQuery := query.NewGetBehaviorProfileHandler(behaviorRepo, quizRepo, progressRepo, skillRepo, nil, log)
	difficultyQuery := query.NewAdjustDifficultyHandler(quizRepo, skillRepo, progressRepo, nil, log)
	quizQuery := query.NewGetQuizHandler(skillRepo, difficultyQuery, log)
	pathQuery := query.NewGetLearningPathHandler(skillRepo, progressRepo, profileQuery, resourcesQuery, log)
	dashboardQuery := query.NewGetDashboardHandler(learnerRepo, progressRepo, skillRepo, xpRepo, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. СОЗДАНИЕ HTTP-СЕРВЕРА
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.EnableCORS = cfg.HTTP.EnableCORS
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	serverCfg.JWTSecret = cfg.HTTP.JWTSecret
	serverCfg.TokenTTL = cfg.HTTP.TokenTTL

	if serverCfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is empty, authenticated endpoints will return 501")
	}

	server := httpserver.NewServer(serverCfg, httpserver.Dependencies{
		RegisterLearnerHandler:     registerCmd,
		AuthenticateLearnerHandler: authenticateCmd,
		StartSkillHandler:          startSkillCmd,
		CompleteSubskillHandler:    completeSubskillCmd,
		UncompleteSubskillHandler:  uncompleteSubskillCmd,
		TrackInteractionHandler:    trackInteractionCmd,
		SubmitQuizHandler:          submitQuizCmd,

		GetSubskillResourcesHandler: resourcesQuery,
		GetRecommendationsHandler:   recommendationsQuery,
		GetBehaviorProfileHandler:   profileQuery,
		AdjustDifficultyHandler:     difficultyQuery,
		GetQuizHandler:              quizQuery,
		GetLearningPathHandler:      pathQuery,
		GetDashboardHandler:         dashboardQuery,

		Logger:         log,
		RequestLimiter: requestLimiter,
		Database:       dbConn,
		Cache:          cachePinger,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 10. ЗАПУСК И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := server.StartAsync()
	log.Info("HTTP server started", logger.String("address", server.Address()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}
