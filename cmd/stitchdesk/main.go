package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quanghuydn8/app-theu/internal/config"
	"github.com/quanghuydn8/app-theu/internal/middleware"
	"github.com/quanghuydn8/app-theu/internal/order/alert"
	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/handler"
	"github.com/quanghuydn8/app-theu/internal/order/intake"
	"github.com/quanghuydn8/app-theu/internal/order/repository"
	"github.com/quanghuydn8/app-theu/internal/order/service"
	"github.com/quanghuydn8/app-theu/internal/order/storage"
	"github.com/quanghuydn8/app-theu/internal/shared/feishu"
	"github.com/quanghuydn8/app-theu/internal/shared/sse"
	"github.com/quanghuydn8/app-theu/internal/shared/telegram"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

const uploadDir = "./uploads"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting stitchdesk",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("AutoMigrate failed", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zapLogger.Warn("Redis not reachable, dashboard cache disabled", zap.Error(err))
		rdb = nil
	}

	images, err := initImageStore(cfg.MinIO, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init image storage", zap.Error(err))
	}

	dispatcher := alert.NewDispatcher(initNotifier(cfg, zapLogger), cfg.Alert.Timeout, zapLogger)

	var extractor intake.Extractor
	if cfg.Extractor.Endpoint != "" {
		extractor = intake.NewHTTPExtractor(cfg.Extractor.Endpoint, cfg.Extractor.APIKey, cfg.Extractor.Timeout)
	} else {
		zapLogger.Warn("Extractor endpoint not configured, chat parsing disabled")
	}

	hub := sse.NewHub(zapLogger)
	loc := cfg.Server.Location()
	repos := repository.NewRepositories(db)

	deps := service.Deps{
		Orders:    repos.Order,
		Customers: repos.Customer,
		Images:    images,
		Events:    hub,
		Alerts:    dispatcher,
		Extractor: extractor,
		Logger:    zapLogger,
		Now:       func() time.Time { return time.Now().In(loc) },
	}
	// a nil *SummaryCache in the interface would still be non-nil
	if rdb != nil {
		deps.Cache = repository.NewSummaryCache(rdb, cfg.Redis.CacheTTL)
	}
	services := service.NewServices(deps)
	handlers := handler.NewHandlers(services, hub)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/events"})))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 0, // SSE streams stay open
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	dispatcher.Wait()

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	if cfg.Output != "file" || cfg.FilePath == "" {
		return zapCfg.Build()
	}

	// rotate through lumberjack
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	})
	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(zapCfg.EncoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(zapCfg.EncoderConfig)
	}
	core := zapcore.NewCore(encoder, sink, zapCfg.Level)
	return zap.New(core, zap.AddCaller()), nil
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// initImageStore uses MinIO when an endpoint is configured, else the local upload dir.
func initImageStore(cfg config.MinIOConfig, zapLogger *zap.Logger) (service.ImageStore, error) {
	if cfg.Endpoint == "" {
		zapLogger.Info("MinIO not configured, storing images under " + uploadDir)
		return storage.NewLocalStore(uploadDir, "/uploads"), nil
	}
	store, err := storage.NewMinIOStore(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Bucket, cfg.UseSSL, cfg.PublicURL)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func initNotifier(cfg *config.Config, zapLogger *zap.Logger) alert.Notifier {
	var notifiers alert.MultiNotifier
	if cfg.Telegram.Enabled() {
		notifiers = append(notifiers, telegram.NewBot(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Alert.Timeout))
	}
	if cfg.Feishu.Enabled() {
		client := feishu.NewClient(cfg.Feishu.AppID, cfg.Feishu.AppSecret)
		notifiers = append(notifiers, feishu.NewAlertNotifier(client, cfg.Feishu.ChatID))
	}
	if len(notifiers) == 0 {
		zapLogger.Warn("No alert channel configured, tag alerts are dropped")
		return nil
	}
	return notifiers
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	r.Static("/uploads", uploadDir)

	api := r.Group("/api/v1", middleware.JWTAuth(cfg.JWT.Secret))
	h.Register(api)
}
