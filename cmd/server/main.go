package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/config"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/es"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/httpserver"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/logging"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/mykafka"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/repo"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/search"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/service"
	"github.com/Lachitha/EAD-Ecommerce-Backend/pkg/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
	} else {
		logger.Warn("KAFKA_BROKERS not set, event publishing disabled")
	}

	var searchSvc *search.Service
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		searchSvc = &search.Service{ES: esClient, Index: cfg.ESIndex}
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	gormRepo := &repo.GormRepo{DB: database}

	notificationSvc := &service.NotificationService{Repo: gormRepo}
	if producer != nil {
		notificationSvc.Producer = producer
	}
	stockSvc := &service.StockService{Repo: gormRepo, Notifier: notificationSvc}
	cartSvc := &service.CartService{Repo: gormRepo, Stock: stockSvc}
	orderSvc := &service.OrderService{Repo: gormRepo, Stock: stockSvc, Notifier: notificationSvc}
	productSvc := &service.ProductService{Repo: gormRepo, Stock: stockSvc}
	if searchSvc != nil {
		productSvc.Indexer = searchSvc
	}
	authSvc := &service.AuthService{Repo: gormRepo, JWTSecret: cfg.JWTSecret}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		JWTSecret:           cfg.JWTSecret,
		AuthHandler:         &httpserver.AuthHTTP{Svc: authSvc},
		ProductHandler:      &httpserver.ProductHTTP{Svc: productSvc},
		CartHandler:         &httpserver.CartHTTP{Svc: cartSvc},
		OrderHandler:        &httpserver.OrderHTTP{Svc: orderSvc},
		NotificationHandler: &httpserver.NotificationHTTP{Svc: notificationSvc},
	}
	if searchSvc != nil {
		deps.SearchHandler = &httpserver.SearchHTTP{Svc: searchSvc}
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	logger.Info("shutdown complete")
}
