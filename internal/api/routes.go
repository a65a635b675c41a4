package api

import (
	"proxy_manager/internal/middleware" // Custom package for middleware
	"proxy_manager/internal/service"    // Proxy and user services

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps carries everything the handlers need
type Deps struct {
	Proxies      *service.ProxyService
	Users        *service.UserService
	JWTSecret    string
	LoginSecret  string // Verifies relay-signed login assertions
	BaseDomain   string
	AdminUsers   []string
	GatewayToken string
}

// RegisterRoutes mounts every endpoint on r
func RegisterRoutes(r *gin.Engine, d Deps) {
	checker := DomainChecker{BaseDomain: d.BaseDomain}

	// External login callback, fed by the login relay
	r.POST("/user", ExternalLoginHandler(d.Users, d.JWTSecret, d.LoginSecret))

	// Proxy routes (protected by JWT)
	proxyGroup := r.Group("/proxy")
	proxyGroup.Use(middleware.JWTAuthMiddleware(d.JWTSecret), middleware.SessionUserMiddleware(d.Users))
	proxyGroup.GET("", ListProxiesHandler(d.Proxies))
	proxyGroup.POST("", CreateProxyHandler(d.Proxies, checker))
	proxyGroup.PUT("", UpdateProxyHandler(d.Proxies, checker))
	proxyGroup.DELETE("", DeleteProxyHandler(d.Proxies))

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(d.JWTSecret), middleware.AdminOnlyMiddleware(d.AdminUsers))
	adminGroup.GET("/users", SearchUsersHandler(d.Users))
	adminGroup.GET("/users/:user_id", GetUserHandler(d.Users))
	adminGroup.PUT("/users/:user_id", UpdateUserHandler(d.Users))
	adminGroup.DELETE("/users/:user_id", DeleteUserHandler(d.Users))

	// Edge proxy lookups
	internalGroup := r.Group("/internal")
	internalGroup.Use(middleware.GatewayTokenMiddleware(d.GatewayToken))
	internalGroup.GET("/lookup", LookupProxyHandler(d.Proxies))
}
