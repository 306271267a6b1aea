package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"distris-api/internal/config"
	custommiddleware "distris-api/internal/middleware"
	"distris-api/internal/repository"
	"distris-api/internal/service"
	"distris-api/internal/supplier"
	"distris-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Redis client for rate limiting
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	productRepo := repository.NewProductRepository(db)

	// Supplier API sync plumbing
	rates := supplier.NewRateHolder(cfg.Pricing.ExchangeRate)
	fetchClient := supplier.NewClient(
		time.Duration(cfg.Suppliers.FetchTimeout)*time.Second,
		cfg.Suppliers.FetchRPS,
	)
	syncer := supplier.NewSyncer(fetchClient, cfg.Suppliers.Endpoints, rates, logger)

	// Initialize services
	userService := service.NewUserService(
		userRepo,
		refreshTokenRepo,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshExpiry)*24*time.Hour,
	)
	supplierService := service.NewSupplierService(supplierRepo)
	catalogService := service.NewCatalogService(productRepo, supplierRepo, syncer, rates, cfg.Pricing.DefaultVAT)

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService, logger)
	supplierHandler := transport.NewSupplierHandler(supplierService, catalogService, logger)
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)
	syncHandler := transport.NewSyncHandler(catalogService, logger)
	settingsHandler := transport.NewSettingsHandler(rates, cfg.Pricing.DefaultVAT, logger)

	// Route middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)
	syncRateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:sync",
	}, logger)

	// Register routes
	userHandler.RegisterRoutes(router, authMiddleware)
	supplierHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	catalogHandler.RegisterRoutes(router, authMiddleware)
	syncHandler.RegisterRoutes(router, authMiddleware, adminMiddleware, syncRateLimit)
	settingsHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
