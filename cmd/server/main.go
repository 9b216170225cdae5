package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recharge-travels/service-booking/internal/application"
	"github.com/recharge-travels/service-booking/internal/auth"
	"github.com/recharge-travels/service-booking/internal/config"
	bookingDomain "github.com/recharge-travels/service-booking/internal/domain/booking"
	bookingEvents "github.com/recharge-travels/service-booking/internal/events"
	"github.com/recharge-travels/service-booking/internal/handler"
	"github.com/recharge-travels/service-booking/internal/middleware"
	"github.com/recharge-travels/service-booking/internal/repository"
	"github.com/recharge-travels/service-booking/internal/scheduler"
	"github.com/recharge-travels/service-booking/pkg/database"
	"github.com/recharge-travels/service-booking/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
	)

	// Reference time zone for the reporting engine
	loc, err := time.LoadLocation(cfg.Business.ReportTimezone)
	if err != nil {
		log.Fatal("invalid report timezone", zap.String("tz", cfg.Business.ReportTimezone), zap.Error(err))
	}

	// Connect to database
	db, err := database.Connect(cfg.DB.DSN(), log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.BookingModel{},
			&repository.ProductModel{},
			&repository.ReviewModel{},
			&repository.CustomerModel{},
			&repository.DriverModel{},
			&repository.AgencyModel{},
			&repository.OutboxMessageModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DB.URL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, "recharge-travels", 24*time.Hour)

	// Initialize Kafka producer
	producer := bookingEvents.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = producer.Close() }()

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	productRepo := repository.NewGormProductRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)
	directoryRepo := repository.NewGormDirectoryRepository(db)

	// Initialize domain policies
	pricingStrategy := bookingDomain.NewStandardPricingStrategy(
		cfg.Business.TaxRate,
		cfg.Business.ServiceFeeCents,
		cfg.Business.CommissionRate,
	)
	admissionValidator := bookingDomain.NewAdmissionValidator(cfg.Business.MinLeadHours, time.Now)

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		productRepo,
		pricingStrategy,
		admissionValidator,
		directoryRepo,
		producer,
		loc,
		log,
	)
	catalogService := application.NewCatalogService(productRepo, log)
	reviewService := application.NewReviewService(reviewRepo, bookingRepo, log)
	reportService := application.NewReportService(bookingRepo, directoryRepo, reviewRepo, loc, log)

	// Initialize and start payment event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.Kafka.GroupPrefix + "booking-service"
	paymentConsumer := bookingEvents.NewPaymentEventConsumer(
		cfg.Kafka.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = paymentConsumer.Close() }()

	go func() {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("payment event consumer error", zap.Error(err))
		}
	}()

	// Start the snapshot refresh scheduler
	snapshotScheduler := scheduler.NewScheduler(reportService, cfg.Business.SnapshotCron, log)
	if err := snapshotScheduler.Start(); err != nil {
		log.Fatal("failed to start snapshot scheduler", zap.Error(err))
	}

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	adminHandler := handler.NewAdminHandler(bookingService, reportService, loc)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS([]string{"*"}))
	router.Use(middleware.SecurityHeaders())

	// Register health check routes
	healthHandler := handler.NewHealthHandler(db, "service-booking")
	healthHandler.RegisterRoutes(&router.RouterGroup)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	catalogHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	reviewHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context and stop the scheduler
	cancel()
	snapshotScheduler.Stop()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
