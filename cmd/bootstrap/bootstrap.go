package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicai/clinicai-api/config"
	deliveryHttp "github.com/clinicai/clinicai-api/internal/delivery/http"
	"github.com/clinicai/clinicai-api/internal/delivery/http/handler"
	"github.com/clinicai/clinicai-api/internal/delivery/http/middleware"
	"github.com/clinicai/clinicai-api/internal/gateway"
	"github.com/clinicai/clinicai-api/internal/infrastructure/cache"
	"github.com/clinicai/clinicai-api/internal/infrastructure/database"
	"github.com/clinicai/clinicai-api/internal/repository"
	"github.com/clinicai/clinicai-api/internal/service"
	"github.com/clinicai/clinicai-api/internal/usecase"
	"github.com/clinicai/clinicai-api/pkg/jwt"
	"github.com/clinicai/clinicai-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config          *config.Config
	DB              *gorm.DB
	RedisClient     *redis.Client
	Server          *http.Server
	PaymentSessions *service.PaymentSessionService
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	log := logrus.StandardLogger()

	// Rebuild the seat counters before the server accepts bookings
	quotaService := service.NewSlotQuotaService(db, redisClient, log)
	syncCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := quotaService.SyncOnStartup(syncCtx); err != nil {
		return nil, fmt.Errorf("failed to sync slot quotas: %w", err)
	}

	server, paymentSessions := initializeServer(cfg, db, redisClient, quotaService, log)
	app.Server = server
	app.PaymentSessions = paymentSessions

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer wires every layer and returns the configured HTTP server
func initializeServer(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	quotaService *service.SlotQuotaService,
	log *logrus.Logger,
) (*http.Server, *service.PaymentSessionService) {
	jwtManager := jwt.NewManager(cfg.JWT)
	customValidator := validator.NewValidator()

	// External collaborators
	paymentGateway := gateway.NewSePayGateway(cfg.Payment, log)
	adviceService := gateway.NewAdviceService(cfg.Advice, log)
	paymentSessions := service.NewPaymentSessionService(paymentGateway, log)

	// Repositories
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	timeSlotRepo := repository.NewTimeSlotRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	notificationRepo := repository.NewNotificationRepository()
	medicalRecordRepo := repository.NewMedicalRecordRepository()
	reviewRepo := repository.NewReviewRepository()
	aiLogRepo := repository.NewAIInteractionLogRepository()

	// Usecases
	notificationUsecase := usecase.NewNotificationUsecase(db, log, notificationRepo, userRepo, aiLogRepo)
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, doctorProfileRepo, jwtManager, redisClient)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, timeSlotRepo, quotaService, notificationUsecase)
	bookingUsecase := usecase.NewBookingUsecase(db, log, appointmentRepo, timeSlotRepo, doctorProfileRepo, quotaService, paymentSessions, notificationUsecase)
	consultationUsecase := usecase.NewConsultationUsecase(db, log, appointmentRepo, medicalRecordRepo, appointmentUsecase, adviceService, notificationUsecase)
	timeSlotUsecase := usecase.NewTimeSlotUsecase(db, log, timeSlotRepo, quotaService)
	reviewUsecase := usecase.NewReviewUsecase(db, log, reviewRepo, appointmentRepo, doctorProfileRepo, userRepo)
	triageUsecase := usecase.NewTriageUsecase(db, log, aiLogRepo, doctorProfileRepo, adviceService, notificationUsecase)

	// Handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator)
	timeSlotHandler := handler.NewTimeSlotHandler(timeSlotUsecase, customValidator)
	consultationHandler := handler.NewConsultationHandler(consultationUsecase, customValidator)
	notificationHandler := handler.NewNotificationHandler(notificationUsecase)
	reviewHandler := handler.NewReviewHandler(reviewUsecase, customValidator)
	triageHandler := handler.NewTriageHandler(triageUsecase, customValidator)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Router
	router := deliveryHttp.NewRouter(
		authHandler,
		appointmentHandler,
		bookingHandler,
		timeSlotHandler,
		consultationHandler,
		notificationHandler,
		reviewHandler,
		triageHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}, paymentSessions
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Stop payment polling before closing connections
	if app.PaymentSessions != nil {
		app.PaymentSessions.Shutdown()
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
