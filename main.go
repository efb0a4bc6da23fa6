// File: relocare/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"relocare/config"
	relocareCron "relocare/cron"
	"relocare/database"
	bookingRepo "relocare/database/repository/booking"
	catalogRepo "relocare/database/repository/catalog"
	memoryRepo "relocare/database/repository/memory"
	userRepoPkg "relocare/database/repository/user"
	"relocare/handlers"
	"relocare/middleware"
	"relocare/routes"
	"relocare/services/booking"
	"relocare/services/catalog"
	"relocare/services/notification"
	"relocare/services/user"
	"relocare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stores struct {
	bookings bookingRepo.BookingRepository
	catalog  catalogRepo.CatalogRepository
	users    userRepoPkg.UserRepository
}

func openStores(logger *zap.Logger) stores {
	if config.AppConfig.DatabaseDriver == "memory" {
		logger.Warn("using in-memory store, data is lost on restart")
		return stores{
			bookings: memoryRepo.NewBookingStore(),
			catalog:  memoryRepo.NewCatalogStore(),
			users:    memoryRepo.NewUserStore(),
		}
	}

	database.InitDB()
	db := database.Database()
	return stores{
		bookings: bookingRepo.NewMongoBookingRepo(db),
		catalog:  catalogRepo.NewMongoCatalogRepo(db, config.AppConfig.MongoTransactions),
		users:    userRepoPkg.NewMongoUserRepo(db),
	}
}

func healthChecks() map[string]utils.HealthCheck {
	checks := map[string]utils.HealthCheck{}
	if database.MongoClient != nil {
		checks["mongo"] = func(ctx context.Context) error {
			return database.MongoClient.Ping(ctx, nil)
		}
	}
	if client := utils.GetAuthCacheClient(); client != nil {
		checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
	return checks
}

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// repositories.
	st := openStores(logger)
	roleCache := utils.NewRedisRoleCache(utils.InitAuthCache())
	notifier := notification.NewLogSink(logger)

	// services.
	bookingService := booking.NewDefaultBookingService(st.bookings, notifier, booking.Options{
		MinDetailsLength:  config.AppConfig.BookingMinDetailsLength,
		StrictTransitions: config.AppConfig.BookingStrictTransitions,
		RecentWindow:      time.Duration(config.AppConfig.BookingRecentWindowDays) * 24 * time.Hour,
		Location:          config.Location(),
		PageSize:          config.AppConfig.AdminPageSize,
	})
	catalogService := catalog.NewDefaultCatalogService(st.catalog, notifier)
	userService := user.NewDefaultUserService(st.users, roleCache)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo:          st.users,
		RoleCache:         roleCache,
		JWTSecret:         config.AppConfig.JWTSecret,
		MaxRequestsPerMin: config.AppConfig.MaxRequestsPerMin,
		AllowedOrigins:    config.AllowedOrigins(),

		Bookings: handlers.NewBookingHandler(bookingService),
		Admin:    handlers.NewAdminHandler(bookingService, userService, config.Location()),
		Catalog:  handlers.NewCatalogHandler(catalogService),
		Session:  handlers.NewSessionHandler(userService),
	}

	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	routes.Setup(router, handlerBundle)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	utils.StartHealthMonitor(ctx, 30*time.Second, healthChecks())

	if schedule := config.AppConfig.OrphanSweepSchedule; schedule != "" {
		sweeper, err := relocareCron.StartOrphanSweeper(schedule, catalogService, logger)
		if err != nil {
			logger.Fatal("main: failed to start orphan sweeper", zap.Error(err))
		}
		defer sweeper.Stop()
	}

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
