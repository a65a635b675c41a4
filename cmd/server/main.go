package main

import (
	"context" // context package is needed for Redis operations

	"proxy_manager/internal/api"     // Custom package for API handlers
	"proxy_manager/internal/config"  // Custom package for configuration
	"proxy_manager/internal/db"      // Database connection
	"proxy_manager/internal/service" // Proxy, SSL and user services
	"proxy_manager/internal/utils"   // Cache store and logger

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	utils.SetupLogger(cfg.LogLevel, cfg.LogFile, cfg.IsProd)

	if cfg.BaseDomain == "" {
		logrus.Warn("BASE_DOMAIN is empty, no domain will be rejected as reserved")
	}

	if cfg.LoginProviderSecret == "" {
		logrus.Warn("LOGIN_PROVIDER_SECRET is empty, external login is disabled")
	}

	// Connect to the database
	conn, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup proxy cache
	var cache utils.CacheStore
	switch cfg.CacheDriver {
	case "memory":
		cache = utils.NewMemoryCache()
	default:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		cache = utils.NewRedisHashCache(redisClient, cfg.CacheKey)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	api.RegisterRoutes(r, api.Deps{
		Proxies:      service.NewProxyService(conn, cache, service.NewSslService()),
		Users:        service.NewUserService(conn),
		JWTSecret:    cfg.JWTSecret,
		LoginSecret:  cfg.LoginProviderSecret,
		BaseDomain:   cfg.BaseDomain,
		AdminUsers:   cfg.AdminUsers,
		GatewayToken: cfg.GatewayToken,
	})

	logrus.WithFields(logrus.Fields{
		"port":  cfg.AppPort,
		"db":    cfg.DBDriver,
		"cache": cfg.CacheDriver,
	}).Info("Server starting")
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
