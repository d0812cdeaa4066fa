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

	httptransport "github.com/devicecare/repair-booking/internal/api/http"
	"github.com/devicecare/repair-booking/internal/api/http/handlers"
	"github.com/devicecare/repair-booking/internal/auth"
	"github.com/devicecare/repair-booking/internal/bootstrap"
	"github.com/devicecare/repair-booking/internal/config"
	"github.com/devicecare/repair-booking/internal/events"
	"github.com/devicecare/repair-booking/internal/observability"
	"github.com/devicecare/repair-booking/internal/payment"
	"github.com/devicecare/repair-booking/internal/persistence"
	"github.com/devicecare/repair-booking/internal/service"
	"github.com/devicecare/repair-booking/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.Tracing, cfg.App, logger)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}

	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err), zap.String("driver", cfg.Store.Driver))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	deps := append([]persistence.Pinger{}, store.Deps...)
	var locker service.Locker
	if redis != nil {
		deps = append(deps, redis)
		locker = redis
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	var forwarder *events.AMQPForwarder
	if cfg.AMQP.URL != "" {
		forwarder, err = events.DialAMQPForwarder(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
		if err != nil {
			logger.Warn("amqp forwarder disabled", zap.Error(err))
			forwarder = nil
		}
	}
	worker.StartNotificationWorker(dispatcher, notificationService, forwarder)

	repos := store.Repos
	authService := service.NewAuthService(cfg.Auth, repos.Users)
	bookingService := service.NewBookingService(cfg.Booking, service.BookingDependencies{
		BookingRepo:    repos.Bookings,
		TechnicianRepo: repos.Technicians,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	paymentService := service.NewPaymentService(service.PaymentDependencies{
		BookingRepo: repos.Bookings,
		Gateway:     payment.NewStubGateway(logger),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	catalogService := service.NewCatalogService(repos.Catalog)

	if cfg.Seed.OnStartup {
		seeder := service.NewSeedService(service.SeedDependencies{
			UserRepo:       repos.Users,
			TechnicianRepo: repos.Technicians,
			Locker:         locker,
			Logger:         logger,
			Location:       cfg.Booking.DefaultLocation,
			LockTTL:        cfg.Seed.LockTTL(),
			BcryptCost:     cfg.Auth.BcryptCost,
		})
		if _, err := seeder.SeedTechnicians(ctx); err != nil {
			logger.Error("technician seed failed", zap.Error(err))
		}
		if _, err := seeder.SeedAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
			logger.Error("admin seed failed", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics()
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), repos.Users)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:      logger,
		Metrics:     metrics,
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps...),
		Users:          handlers.NewUsersHandler(authService),
		Bookings:       handlers.NewBookingsHandler(bookingService),
		Payments:       handlers.NewPaymentsHandler(paymentService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Metrics:        handlers.NewMetricsHandler(metrics),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("store", cfg.Store.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCancel()
	if forwarder != nil {
		if err := forwarder.Close(); err != nil {
			logger.Warn("close amqp forwarder", zap.Error(err))
		}
	}
	redis.Close()
	store.Close(closeCtx)
	if err := shutdownTracer(closeCtx); err != nil {
		logger.Warn("tracer shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
