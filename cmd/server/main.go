package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	billingapp "github.com/dormbill/backend/internal/application/billing"
	tenancyapp "github.com/dormbill/backend/internal/application/tenancy"
	"github.com/dormbill/backend/internal/domain/billing"
	"github.com/dormbill/backend/internal/domain/shared"
	"github.com/dormbill/backend/internal/infrastructure/cache"
	"github.com/dormbill/backend/internal/infrastructure/config"
	"github.com/dormbill/backend/internal/infrastructure/logger"
	"github.com/dormbill/backend/internal/infrastructure/notification"
	"github.com/dormbill/backend/internal/infrastructure/persistence"
	"github.com/dormbill/backend/internal/infrastructure/rateoverride"
	"github.com/dormbill/backend/internal/infrastructure/scheduler"
	"github.com/dormbill/backend/internal/interfaces/http/handler"
	"github.com/dormbill/backend/internal/interfaces/http/middleware"
	"github.com/dormbill/backend/internal/interfaces/http/router"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	// Optional .env file for local development
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting dorm billing backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.HTTP.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("failed to migrate database schema", zap.Error(err))
	}
	log.Info("database connected")

	// Repositories
	roomRepo := persistence.NewGormRoomRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	readingRepo := persistence.NewGormMeterReadingRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	dormConfigRepo := persistence.NewGormDormConfigRepository(db.DB)
	autoSendRepo := persistence.NewGormAutoSendConfigRepository(db.DB)
	activityRepo := persistence.NewGormActivityLogRepository(db.DB)
	txManager := persistence.NewGormTransactionManager(db.DB)
	activityLog := persistence.NewActivityLogger(activityRepo, log)

	// Outbound adapters
	var notifier billing.Notifier
	if cfg.Notification.WebhookURL != "" {
		notifier = notification.NewWebhookNotifier(cfg.Notification.WebhookURL, cfg.Notification.Timeout, log)
		log.Info("webhook notifier enabled", zap.String("url", cfg.Notification.WebhookURL))
	} else {
		notifier = notification.NewLogNotifier(log)
	}

	var overrideSource billing.RateOverrideSource
	if cfg.RateOverride.URL != "" {
		overrideSource = rateoverride.NewHTTPSource(cfg.RateOverride.URL, cfg.RateOverride.Timeout)
		log.Info("remote rate override enabled", zap.String("url", cfg.RateOverride.URL))
	}

	var runGuard shared.RunGuardStore
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := cache.NewRedisRunGuardStoreWithClient(client, "")
		defer func() {
			if err := store.Close(); err != nil {
				log.Error("error closing redis run guard", zap.Error(err))
			}
		}()
		runGuard = store
		log.Info("redis run guard enabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		store := cache.NewInMemoryRunGuardStore()
		defer func() {
			_ = store.Close()
		}()
		runGuard = store
	}

	// Application services
	roomService := tenancyapp.NewRoomService(roomRepo, log)
	contractService := tenancyapp.NewContractService(contractRepo, roomRepo, activityLog, log)
	meterService := tenancyapp.NewMeterService(readingRepo, roomRepo, log)
	settingsService := billingapp.NewSettingsService(dormConfigRepo, overrideSource, activityLog, log)
	invoiceService := billingapp.NewInvoiceService(
		invoiceRepo, contractRepo, roomRepo, readingRepo,
		settingsService, notifier, activityLog, txManager, log,
	)
	scheduleService := billingapp.NewScheduleService(
		autoSendRepo, invoiceService, settingsService, runGuard, activityLog, log,
	)

	// Background scheduler
	billingScheduler := scheduler.NewBillingScheduler(scheduler.Config{
		Enabled:       cfg.Scheduler.Enabled,
		OverdueHour:   cfg.Scheduler.OverdueHour,
		OverdueMinute: cfg.Scheduler.OverdueMinute,
	}, scheduleService, log)
	billingScheduler.Start(context.Background())
	defer billingScheduler.Stop()

	// HTTP layer
	middleware.SetupValidator()
	mode := gin.DebugMode
	if cfg.IsProduction() {
		mode = gin.ReleaseMode
	}
	engine := router.New(router.Config{
		Mode:         mode,
		AllowOrigins: cfg.HTTP.CORSOrigins,
	}, router.Handlers{
		System:   handler.NewSystemHandler(db),
		Rooms:    handler.NewRoomHandler(roomService),
		Contract: handler.NewContractHandler(contractService),
		Meter:    handler.NewMeterHandler(meterService),
		Invoice:  handler.NewInvoiceHandler(invoiceService),
		Settings: handler.NewSettingsHandler(settingsService, scheduleService),
	}, log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
