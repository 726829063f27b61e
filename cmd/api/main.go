package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/repository/memstore"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
)

var defaultDepartments = []string{"IT", "HR", "Finance", "Operations"}

type stores struct {
	users       repository.UserRepository
	tickets     repository.TicketRepository
	departments repository.DepartmentRepository
	unitOfWork  repository.UnitOfWork
}

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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisClient := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redisClient.Close()

	st := buildStores(pg)
	dependencies := map[string]handlers.Pinger{}
	if pg.Enabled() {
		dependencies["postgres"] = pg
	}
	if redisClient.Enabled() {
		dependencies["redis"] = redisClient
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	dispatcher := events.NewInMemoryDispatcher()
	var relay *events.RedisRelay
	if redisClient.Enabled() {
		relay = events.NewRedisRelay(redisClient.Client, cfg.Redis.EventsChannel, logger)
	}
	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(dispatcher, notifications, relay)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:     st.users,
		TokenManager: tokens,
		Logger:       logger,
	})
	routing := service.NewRoutingService(st.users)
	lifecycle := service.NewLifecycleService(service.LifecycleDependencies{
		TicketRepo: st.tickets,
		UnitOfWork: st.unitOfWork,
		Routing:    routing,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	assignment := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo: st.tickets,
		UserRepo:   st.users,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: st.tickets,
		Logger:     logger,
	})
	directory := service.NewDirectoryService(service.DirectoryDependencies{
		UserRepo:       st.users,
		DepartmentRepo: st.departments,
	})

	development := cfg.App.IsDevelopment()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, development),
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:           logger,
		Metrics:          metrics,
		Timeout:          cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
		Development:      development,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Auth:    handlers.NewAuthHandler(authService),
		Tickets: handlers.NewTicketsHandler(ticketService, lifecycle),
		Agent:   handlers.NewAgentHandler(ticketService, lifecycle),
		Supervisor: handlers.NewSupervisorHandler(handlers.SupervisorHandlerDependencies{
			Tickets:    ticketService,
			Assignment: assignment,
			Directory:  directory,
		}),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func buildStores(pg *persistence.Postgres) stores {
	if !pg.Enabled() {
		mem := memstore.New(defaultDepartments...)
		return stores{
			users:       mem.Users(),
			tickets:     mem.Tickets(),
			departments: mem.Departments(),
			unitOfWork:  mem.UnitOfWork(),
		}
	}
	pool := pg.PoolHandle()
	return stores{
		users:       repository.NewUserRepository(pool),
		tickets:     repository.NewTicketRepository(pool),
		departments: repository.NewDepartmentRepository(pool),
		unitOfWork:  repository.NewUnitOfWork(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
