package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/mock-interview/internal/config"
	"github.com/fadilmartias/mock-interview/internal/domain/fiber/handler"
	"github.com/fadilmartias/mock-interview/internal/logger"
	"github.com/fadilmartias/mock-interview/internal/metrics"
	"github.com/fadilmartias/mock-interview/internal/middleware"
	"github.com/fadilmartias/mock-interview/internal/model"
	"github.com/fadilmartias/mock-interview/internal/prompts"
	"github.com/fadilmartias/mock-interview/internal/repository"
	"github.com/fadilmartias/mock-interview/internal/service"
	"github.com/fadilmartias/mock-interview/internal/storage"
	"github.com/fadilmartias/mock-interview/internal/usecase"
	"github.com/fadilmartias/mock-interview/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	zapLogger, err := logger.New(appConfig.Env, appConfig.LogLevel)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := ConnectDB(appConfig, config.LoadDBConfig())
	if err != nil {
		zapLogger.Fatal("could not connect to database", zap.Error(err))
	}

	planConfig, err := config.LoadPlanConfig()
	if err != nil {
		zapLogger.Fatal("invalid plan limits", zap.Error(err))
	}
	plans := repository.NewPlanRepository(db)
	if err := plans.Seed(ctx, toPlanModels(planConfig.Limits)); err != nil {
		zapLogger.Fatal("could not seed plan limits", zap.Error(err))
	}
	if seeded, err := plans.List(ctx); err == nil {
		for _, p := range seeded {
			zapLogger.Info("plan limits", zap.String("plan", p.Name),
				zap.Int("max_interviews", p.MaxInterviews), zap.Int("max_feedbacks", p.MaxFeedbacks))
		}
	}

	completer, err := service.NewCompleter(ctx, config.LoadLLMConfig(), zapLogger)
	if err != nil {
		zapLogger.Fatal("could not create LLM client", zap.Error(err))
	}
	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		zapLogger.Fatal("could not load prompts", zap.Error(err))
	}
	zapLogger.Debug("prompt templates loaded", zap.Strings("names", promptManager.Names()))

	users := repository.NewUserRepository(db)
	interviews := repository.NewInterviewRepository(db)
	feedbacks := repository.NewFeedbackRepository(db)
	gate := usecase.NewPlanGate(plans)

	authUC := usecase.NewAuthUsecase(users, config.LoadAuthConfig())
	interviewUC := usecase.NewInterviewUsecase(users, interviews, gate, completer, promptManager, zapLogger)
	feedbackUC := usecase.NewFeedbackUsecase(users, interviews, feedbacks, gate, completer, promptManager, zapLogger)
	analyticsUC := usecase.NewAnalyticsUsecase(users, plans, interviews, feedbacks)

	if redisConfig := config.LoadRedisConfig(); redisConfig.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     redisConfig.Addr,
			Password: redisConfig.Password,
			DB:       redisConfig.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			zapLogger.Fatal("could not connect to redis", zap.Error(err))
		}
		limiterStore := storage.NewRedisStorage(rdb, "limiter:")
		defer func() { _ = limiterStore.Close() }()
		middleware.SetLimiterStorage(limiterStore)
		zapLogger.Info("rate limits shared through redis", zap.String("addr", redisConfig.Addr))
	}

	app := newApp(appConfig)
	auth := middleware.JWTAuth(authUC)
	handler.NewAuthHandler(authUC).RegisterRoutes(app)
	handler.NewInterviewHandler(interviewUC).RegisterRoutes(app, auth)
	handler.NewFeedbackHandler(feedbackUC).RegisterRoutes(app, auth)
	handler.NewAnalyticsHandler(analyticsUC).RegisterRoutes(app, auth)

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				zapLogger.Debug("runtime stats", zap.Int("goroutines", runtime.NumGoroutine()))
			}
		}
	}()

	go func() {
		<-ctx.Done()
		zapLogger.Info("shutting down")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			zapLogger.Error("shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("server running", zap.String("port", appConfig.Port), zap.String("env", appConfig.Env))
	if err := app.Listen(appConfig.Port); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func newApp(appConfig *config.AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Status code defaults to 500
			code := fiber.StatusInternalServerError

			// Retrieve the custom status code if it's a *fiber.Error
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			return util.ErrorResponse(c, util.ErrorResponseFormat{Code: code, Message: message}, err)
		},
	})
	app.Use(fiberlogger.New())
	app.Use(metrics.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Get("/metrics", metrics.Handler())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))
	return app
}

func ConnectDB(appConfig *config.AppConfig, dbConfig *config.DBConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{TranslateError: true}
	if appConfig.IsProduction() {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Error)
	}

	var dialector gorm.Dialector
	switch dbConfig.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			dbConfig.Host,
			dbConfig.User,
			dbConfig.Password,
			dbConfig.Name,
			dbConfig.Port,
			dbConfig.SSLMode,
		)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dbConfig.Path)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", dbConfig.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	if appConfig.IsProduction() {
		sqlDB.SetMaxIdleConns(20)
		sqlDB.SetMaxOpenConns(200)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := model.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func toPlanModels(limits []config.PlanLimit) []model.PlanLimit {
	out := make([]model.PlanLimit, 0, len(limits))
	for _, l := range limits {
		out = append(out, model.PlanLimit{
			Name:          l.Name,
			MaxInterviews: l.MaxInterviews,
			MaxFeedbacks:  l.MaxFeedbacks,
		})
	}
	return out
}
