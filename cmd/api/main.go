package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/conversation-service/internal/api/http"
	"github.com/spec-kit/conversation-service/internal/api/http/handlers"
	"github.com/spec-kit/conversation-service/internal/auth"
	"github.com/spec-kit/conversation-service/internal/config"
	"github.com/spec-kit/conversation-service/internal/events"
	"github.com/spec-kit/conversation-service/internal/observability"
	"github.com/spec-kit/conversation-service/internal/persistence"
	"github.com/spec-kit/conversation-service/internal/repository"
	"github.com/spec-kit/conversation-service/internal/service"
	"github.com/spec-kit/conversation-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		pg               *persistence.Postgres
		rds              *persistence.Redis
		conversationRepo repository.ConversationRepository
		messageRepo      repository.MessageRepository
		customerRepo     repository.CustomerRepository
		resolutionRepo   repository.ResolutionRepository
		agentRepo        repository.AgentRepository
		tokenStore       repository.TokenStore
	)

	switch cfg.Store.EntityBackend {
	case config.BackendPostgres:
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		pool := pg.PoolHandle()
		conversationRepo = repository.NewPostgresConversationRepository(pool)
		messageRepo = repository.NewPostgresMessageRepository(pool)
		customerRepo = repository.NewPostgresCustomerRepository(pool)
		resolutionRepo = repository.NewPostgresResolutionRepository(pool)
		agentRepo = repository.NewPostgresAgentRepository(pool)
	default:
		conversationRepo = repository.NewMemoryConversationRepository()
		messageRepo = repository.NewMemoryMessageRepository()
		customerRepo = repository.NewMemoryCustomerRepository()
		resolutionRepo = repository.NewMemoryResolutionRepository()
		agentRepo = repository.NewMemoryAgentRepository()
	}

	switch cfg.Store.TokenBackend {
	case config.BackendRedis:
		rds = persistence.NewRedis(cfg.Redis, logger)
		defer rds.Close()
		tokenStore = repository.NewRedisTokenStore(rds.Client)
	default:
		tokenStore = repository.NewMemoryTokenStore()
	}

	dispatcher := events.NewInMemoryDispatcher()

	conversationService := service.NewConversationService(service.ConversationDependencies{
		ConversationRepo: conversationRepo,
		MessageRepo:      messageRepo,
		CustomerRepo:     customerRepo,
		ResolutionRepo:   resolutionRepo,
		Dispatcher:       dispatcher,
	})
	resolutionService := service.NewResolutionService(service.ResolutionDependencies{
		ResolutionRepo:   resolutionRepo,
		ConversationRepo: conversationRepo,
		Dispatcher:       dispatcher,
	})
	customerService := service.NewCustomerService(customerRepo)
	authService := service.NewAuthService(cfg.Auth, agentRepo, tokenStore)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	if err := authService.SeedAgents(ctx, cfg.Auth.BootstrapAgents, logger); err != nil {
		logger.Fatal("failed to seed agents", zap.Error(err))
	}
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rds),
		Auth:           handlers.NewAuthHandler(authService),
		Conversations:  handlers.NewConversationsHandler(conversationService),
		Customers:      handlers.NewCustomersHandler(customerService),
		Resolutions:    handlers.NewResolutionsHandler(resolutionService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
