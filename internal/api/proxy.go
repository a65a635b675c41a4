package api

import (
	"math"     // Integral id checks
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"proxy_manager/internal/domain"  // Importing domain models
	"proxy_manager/internal/service" // Proxy and user services

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/datatypes"        // JSON column type
)

// DomainChecker rejects the reserved base domain
type DomainChecker struct {
	BaseDomain string
}

// Legal reports whether d may be registered as a proxy domain
func (dc DomainChecker) Legal(d string) bool {
	return d != dc.BaseDomain
}

// CreateProxyRequest represents a proxy creation request
type CreateProxyRequest struct {
	Domain     string         `json:"domain" binding:"required"` // Domain to serve
	IsEnabled  *bool          `json:"is_enabled"`                // Defaults to true
	Upstream   string         `json:"upstream"`                  // Routing target
	ForceHTTPS bool           `json:"force_https"`               // Redirect HTTP to HTTPS
	Options    datatypes.JSON `json:"options"`                   // Free-form routing options
}

// UpdateProxyRequest represents a proxy update request; omitted fields are kept.
// ProxyID accepts a number or a numeric string; anything else is a 404.
type UpdateProxyRequest struct {
	ProxyID    any            `json:"proxy_id"` // Proxy to update
	Domain     *string        `json:"domain"`
	IsEnabled  *bool          `json:"is_enabled"`
	Upstream   *string        `json:"upstream"`
	ForceHTTPS *bool          `json:"force_https"`
	Options    datatypes.JSON `json:"options"`
}

// ListProxiesHandler returns the session user and every proxy they own
func ListProxiesHandler(proxies *service.ProxyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*domain.User) // Set by SessionUserMiddleware
		list, err := proxies.ListByUser(c.Request.Context(), user.UserID)
		if err != nil {
			respondError(c, err, "Failed to fetch proxies")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "list": list})
	}
}

// CreateProxyHandler registers a new proxy owned by the session user
func CreateProxyHandler(proxies *service.ProxyService, checker DomainChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProxyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, BadRequest("Invalid request"), "")
			return
		}
		if !checker.Legal(req.Domain) {
			respondError(c, Forbidden("Illegal domain"), "")
			return
		}
		enabled := true
		if req.IsEnabled != nil {
			enabled = *req.IsEnabled
		}
		proxy := &domain.Proxy{
			Domain:     req.Domain,
			UserID:     c.GetString("userID"), // Owner always comes from the session
			IsEnabled:  enabled,
			Upstream:   req.Upstream,
			ForceHTTPS: req.ForceHTTPS,
			Options:    req.Options,
		}
		// Duplicate domains fail on the unique index and surface as a 500
		if _, err := proxies.Add(c.Request.Context(), proxy); err != nil {
			respondError(c, err, "Failed to create proxy")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"result": true})
	}
}

// UpdateProxyHandler changes a proxy owned by the session user
func UpdateProxyHandler(proxies *service.ProxyService, checker DomainChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateProxyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, BadRequest("Invalid request"), "")
			return
		}
		ctx := c.Request.Context()
		proxyID, ok := parseProxyID(req.ProxyID)
		if !ok {
			respondError(c, NotFound("Proxy not found"), "") // Unparseable ids cannot exist
			return
		}
		if _, err := ownedProxy(c, proxies, proxyID); err != nil {
			respondError(c, err, "Failed to fetch proxy")
			return
		}
		if req.Domain != nil && *req.Domain == "" {
			req.Domain = nil // Empty domain means "keep"
		}
		if req.Domain != nil && !checker.Legal(*req.Domain) {
			respondError(c, Forbidden("Illegal domain"), "")
			return
		}
		patch := service.ProxyPatch{
			Domain:     req.Domain,
			IsEnabled:  req.IsEnabled,
			Upstream:   req.Upstream,
			ForceHTTPS: req.ForceHTTPS,
			Options:    req.Options,
		}
		updated, err := proxies.Update(ctx, proxyID, patch)
		if err == nil && updated == nil {
			err = NotFound("Proxy not found") // Deleted between the ownership check and the update
		}
		if err != nil {
			respondError(c, err, "Failed to update proxy")
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": true})
	}
}

// DeleteProxyHandler removes a proxy owned by the session user, and its certificate
func DeleteProxyHandler(proxies *service.ProxyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		proxyID, ok := parseProxyID(c.Query("proxy_id"))
		if !ok {
			respondError(c, NotFound("Proxy not found"), "") // Unparseable ids cannot exist
			return
		}
		if _, err := ownedProxy(c, proxies, proxyID); err != nil {
			respondError(c, err, "Failed to fetch proxy")
			return
		}
		removed, err := proxies.Remove(c.Request.Context(), proxyID, nil)
		if err == nil && removed == nil {
			err = NotFound("Proxy not found")
		}
		if err != nil {
			respondError(c, err, "Failed to delete proxy")
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": true})
	}
}

// parseProxyID accepts a JSON number or a decimal string. Zero, negative and
// fractional ids are rejected.
func parseProxyID(raw any) (uint, bool) {
	switch v := raw.(type) {
	case float64:
		if v < 1 || v != math.Trunc(v) || v > math.MaxUint32 {
			return 0, false
		}
		return uint(v), true
	case string:
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil || id == 0 {
			return 0, false
		}
		return uint(id), true
	default:
		return 0, false
	}
}

// ownedProxy loads a proxy and hides it from anyone but its owner
func ownedProxy(c *gin.Context, proxies *service.ProxyService, proxyID uint) (*domain.Proxy, error) {
	proxy, err := proxies.Get(c.Request.Context(), proxyID)
	if err != nil {
		return nil, err
	}
	if proxy == nil || proxy.UserID != c.GetString("userID") {
		return nil, NotFound("Proxy not found")
	}
	return proxy, nil
}

// LookupProxyHandler resolves a domain for the edge proxy
func LookupProxyHandler(proxies *service.ProxyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("domain")
		if name == "" {
			respondError(c, BadRequest("domain is required"), "")
			return
		}
		withDisabled, _ := strconv.ParseBool(c.DefaultQuery("with_disabled", "false"))
		proxy, err := proxies.LookupByDomain(c.Request.Context(), name, withDisabled)
		if err == nil && proxy == nil {
			err = NotFound("Proxy not found")
		}
		if err != nil {
			respondError(c, err, "Failed to look up proxy")
			return
		}
		c.JSON(http.StatusOK, proxy)
	}
}
