package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"freshcart/internal/config"
	custommiddleware "freshcart/internal/middleware"
	"freshcart/internal/repository"
	"freshcart/internal/service"
	"freshcart/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
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

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Repositories
	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	stockRepo := repository.NewStockRepository(db)
	cartRepo := repository.NewCartRepository(db)
	voucherRepo := repository.NewVoucherRepository(db)

	// Services
	tokens := service.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	userService := service.NewUserService(userRepo, cartRepo, tokens)
	adminService := service.NewAdminService(adminRepo, userRepo, storeRepo, tokens)
	storeService := service.NewStoreService(storeRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo, stockRepo, storeRepo, adminRepo)
	cartService := service.NewCartService(cartRepo, stockRepo)
	voucherService := service.NewVoucherService(voucherRepo)

	// Handlers
	userHandler := transport.NewUserHandler(userService, logger)
	adminHandler := transport.NewAdminHandler(adminService, logger)
	storeHandler := transport.NewStoreHandler(storeService, logger)
	categoryHandler := transport.NewCategoryHandler(categoryService, logger)
	productHandler := transport.NewProductHandler(productService, logger)
	cartHandler := transport.NewCartHandler(cartService, logger)
	voucherHandler := transport.NewVoucherHandler(voucherService, logger)

	// Route middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	requireUser := custommiddleware.RequireUser(logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)
	requireSuperAdmin := custommiddleware.RequireSuperAdmin(logger)
	loginRateLimiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:auth",
	}, logger)

	userHandler.RegisterRoutes(router, authMiddleware, loginRateLimiter)
	adminHandler.RegisterRoutes(router, authMiddleware, requireAdmin, requireSuperAdmin, loginRateLimiter)
	storeHandler.RegisterRoutes(router)
	categoryHandler.RegisterRoutes(router, authMiddleware, requireAdmin, requireSuperAdmin)
	productHandler.RegisterRoutes(router, authMiddleware, requireAdmin, requireSuperAdmin)
	cartHandler.RegisterRoutes(router, authMiddleware, requireUser)
	voucherHandler.RegisterRoutes(router, authMiddleware, requireUser)

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
