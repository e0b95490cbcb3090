package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/MirosMazurenko/Banking-solution/internal/cache"
	"github.com/MirosMazurenko/Banking-solution/internal/config"
	"github.com/MirosMazurenko/Banking-solution/internal/handler"
	"github.com/MirosMazurenko/Banking-solution/internal/repository"
	"github.com/MirosMazurenko/Banking-solution/internal/scheduler"
	"github.com/MirosMazurenko/Banking-solution/internal/service"
	"github.com/MirosMazurenko/Banking-solution/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	store := repository.NewPostgresStore(db)
	if err := store.InitSchema(context.Background()); err != nil {
		logger.Fatalf("Failed to initialize schema: %v", err)
	}

	// Optional Redis read cache for account lookups
	var accountCache *cache.AccountCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatalf("Failed to ping redis: %v", err)
		}
		accountCache = cache.New(rdb, 5*time.Minute, logger)
		logger.Infof("Account cache enabled at %s", cfg.RedisAddr)
	}

	// Initialize layers
	svc := service.NewService(store, accountCache, logger)
	h := handler.NewHandler(svc, logger)

	// Scheduled balance-consistency audit
	var alerts scheduler.AlertSender
	if cfg.AlertEmail != "" {
		alerts = email.NewSender(cfg, logger)
	}
	sched := scheduler.New(svc, alerts, logger)
	if err := sched.Start(cfg.AuditSchedule); err != nil {
		logger.Fatalf("Failed to start audit scheduler: %v", err)
	}
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	h.Register(r)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
