package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/threadworks/gatehouse/pkg/app/member"
	"github.com/threadworks/gatehouse/pkg/app/option"
	"github.com/threadworks/gatehouse/pkg/config"
	handlers "github.com/threadworks/gatehouse/pkg/handlers/http"
	"github.com/threadworks/gatehouse/pkg/hooks"
	"github.com/threadworks/gatehouse/pkg/infra/cache"
	"github.com/threadworks/gatehouse/pkg/infra/database"
	"github.com/threadworks/gatehouse/pkg/infra/floodgate"
	infraLogger "github.com/threadworks/gatehouse/pkg/infra/logger"
	_ "github.com/threadworks/gatehouse/pkg/infra/migrations"
	"github.com/threadworks/gatehouse/pkg/infra/repository"
	"github.com/threadworks/gatehouse/pkg/middleware"
	"github.com/threadworks/gatehouse/pkg/moderation"
	"github.com/threadworks/gatehouse/pkg/server"
	"github.com/threadworks/gatehouse/pkg/server/router"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	// Initialize database; registered migrations run here
	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Error("failed to close database")
		}
	}()

	cacheClient, err := cache.NewClient(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	}, logger)
	if err != nil {
		logger.Fatalf("failed to initialize cache: %v", err)
	}

	initializeMemoryCache(cacheClient, cfg)

	// repository
	memberRepository := repository.NewMemberRepository(db.DB)
	optionRepository := repository.NewOptionRepository(db.DB)

	// app services
	memberFinder := member.NewFinder(memberRepository, cacheClient, logger)
	optionProvider := option.NewProvider(optionRepository, cacheClient, logger)
	floodStore := floodgate.NewRedisStore(cacheClient.RedisClient(), logger)

	// moderation hooks from config
	registry := moderation.NewRegistry()
	hookManager := hooks.NewManager(logger)
	if err := hookManager.Attach(cfg.Moderation.Hooks, registry); err != nil {
		logger.Fatalf("failed to attach moderation hooks: %v", err)
	}

	messages := cfg.Moderation.Messages.Overlay(moderation.DefaultMessages())
	engine := moderation.NewEngine(
		optionProvider,
		memberFinder,
		floodStore,
		registry,
		logger,
		&moderation.Opts{Messages: &messages},
	)

	// middleware
	middlewareTransport := &middleware.Transport{
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
		TraceMiddleware:        middleware.NewTraceMiddleware(logger),
		MetricsMiddleware:      middleware.NewMetricsMiddleware(logger),
	}

	// handlers
	handlerTransport := handlers.HandlerTransport{
		CheckFloodHandler:      handlers.NewCheckFloodHandler(logger, engine),
		CheckModerationHandler: handlers.NewCheckModerationHandler(logger, engine),
		CheckDisallowedHandler: handlers.NewCheckDisallowedHandler(logger, engine),
		GateHandler:            handlers.NewGateHandler(logger, engine, optionProvider, floodStore),
		GetVersionHandler:      handlers.NewGetVersionHandler(logger),
		InvalidateCacheHandler: handlers.NewInvalidateCacheHandler(logger, cacheClient),
	}

	srv := server.NewGateServer(server.GateServerDI{
		Config: cfg,
		Logger: logger,
		Routers: []router.ServerRouter{
			router.NewGateRouter(middlewareTransport, handlerTransport),
		},
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	fmt.Println("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		fmt.Println("error shutting down server:", err)
		os.Exit(1)
	}
	fmt.Println("server gracefully stopped")
}

func initializeMemoryCache(cacheClient cache.Client, cfg *config.Config) {
	_ = cacheClient.CreateTTLMap(cache.MemberTTLName, cfg.Cache.MemberTTL)
	_ = cacheClient.CreateTTLMap(cache.OptionTTLName, cfg.Cache.OptionTTL)
}
