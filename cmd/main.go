package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HuzaifaIlyas02/order-service/internal/application"
	"github.com/HuzaifaIlyas02/order-service/internal/config"
	"github.com/HuzaifaIlyas02/order-service/internal/inventory"
	"github.com/HuzaifaIlyas02/order-service/internal/kafka"
	"github.com/HuzaifaIlyas02/order-service/internal/logger"
	"github.com/HuzaifaIlyas02/order-service/internal/migrate"
	"github.com/HuzaifaIlyas02/order-service/internal/presentation"
	"github.com/HuzaifaIlyas02/order-service/internal/product"
	"github.com/HuzaifaIlyas02/order-service/internal/repository"
	"github.com/HuzaifaIlyas02/order-service/internal/resilience"
)

func main() {
	logger.Init()
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warn("config load failed", "err", err)
		os.Exit(1)
	}

	// DB pool
	pool, err := pgxpool.New(context.Background(), cfg.DB_STRING)
	if err != nil {
		logger.Warn("pgxpool new failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		logger.Warn("db ping failed", "err", err)
		os.Exit(1)
	}
	logger.Info("db connected")

	if err := migrate.Up(cfg.DB_STRING); err != nil {
		logger.Warn("migrations failed", "err", err)
		os.Exit(1)
	}

	// Wiring
	repo := repository.NewOrderRepository(pool)

	prod := kafka.NewProducer(cfg.KAFKA_BROKERS, cfg.KAFKA_TOPIC)
	defer prod.Close()

	invClient := inventory.NewClient(cfg.INVENTORY_URL)
	// One breaker instance for the inventory dependency, shared by every
	// in-flight request.
	stockGuard := resilience.NewPolicy("inventory", invClient.Check, cfg.Inventory)

	productClient := product.NewClient(cfg.PRODUCT_URL)

	svc := application.NewOrdersService(repo, stockGuard, prod, productClient)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// API
	h := presentation.NewOrdersHandler(svc)
	h.Register(r)

	addr := ":" + cfg.HTTP_PORT
	logger.Info("starting http", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Warn("http server crashed", "err", err)
		os.Exit(1)
	}
}
