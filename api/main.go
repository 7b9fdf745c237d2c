package main

import (
	"context"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/fabbrica-mes/backoffice/internal/auth"
	"github.com/fabbrica-mes/backoffice/internal/cache"
	"github.com/fabbrica-mes/backoffice/internal/config"
	"github.com/fabbrica-mes/backoffice/internal/dashboard"
	"github.com/fabbrica-mes/backoffice/internal/db"
	"github.com/fabbrica-mes/backoffice/internal/http/handlers"
	mw "github.com/fabbrica-mes/backoffice/internal/http/middleware"
	rl "github.com/fabbrica-mes/backoffice/internal/http/rate_limiter"
	"github.com/fabbrica-mes/backoffice/internal/http/router"
	"github.com/fabbrica-mes/backoffice/internal/portal"
	"github.com/fabbrica-mes/backoffice/internal/repo"
)

// @title Manufacturing Back Office API
// @version 1.0
// @description REST API for customers, offers, articles, production orders, the management dashboard and the production portal.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	go rl.StartVisitorCleanupLoop()

	var store cache.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("❌ Could not connect to Redis: %v", err)
		}
		defer rdb.Close()
		store = cache.NewRedisStore(rdb)
	} else {
		log.Println("⚠️  REDIS_ADDR not set, using in-process cache")
		store = cache.NewMemoryStore()
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Could not connect to database:", err)
	}
	defer database.Close()

	orderRepo := repo.NewPostgresOrderRepository(database)
	articleRepo := repo.NewPostgresArticleRepository(database, store)
	employeeRepo := repo.NewPostgresEmployeeRepository(database)

	handlers.SetCustomerRepo(repo.NewPostgresCustomerRepository(database, store))
	handlers.SetDivisionRepo(repo.NewPostgresDivisionRepository(database, store))
	handlers.SetShippingAddressRepo(repo.NewPostgresShippingAddressRepository(database, store))
	handlers.SetOfferRepo(repo.NewPostgresOfferRepository(database, store))
	handlers.SetArticleRepo(articleRepo)
	handlers.SetOrderRepo(orderRepo)
	handlers.SetEmployeeRepo(employeeRepo)
	handlers.SetDashboardRepo(dashboard.NewPostgresRepository(database))
	handlers.SetUrgentHorizonDays(cfg.UrgentHorizonDays)
	handlers.SetCacheStore(store, cfg.TokenTTL)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	mw.SetTokenManager(tokens)
	mw.SetRevocationStore(store)
	handlers.SetPortalService(portal.NewService(employeeRepo, orderRepo, articleRepo, tokens, cfg.LabelPrinterURL))

	r := router.NewRouter()
	log.Printf("✅ Server running on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal(err)
	}
}
