package api

import (
	"net/http" // HTTP status codes

	"proxy_manager/internal/domain"  // Importing domain models
	"proxy_manager/internal/service" // User directory
	"proxy_manager/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// AuthResponse is returned by the external login callback
type AuthResponse struct {
	Token string       `json:"token"` // JWT token
	User  *domain.User `json:"user"`  // Refreshed profile
}

// LoginRequest carries the relay-signed profile assertion
type LoginRequest struct {
	Assertion string `json:"assertion"` // HS256 token signed with the provider secret
}

// ExternalLoginHandler accepts a profile assertion signed by the login relay,
// refreshes the user row and hands back a session token. Profiles are never
// taken from the request body directly.
func ExternalLoginHandler(users *service.UserService, jwtSecret, providerSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, BadRequest("Invalid request"), "")
			return
		}
		assertion, err := utils.ParseLoginAssertion(req.Assertion, providerSecret)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"ip":    c.ClientIP(),
				"error": err.Error(),
			}).Warn("Rejected login assertion")
			respondError(c, Unauthorized("Invalid login assertion"), "")
			return
		}
		user, err := users.UpsertByExternalIdentity(c.Request.Context(), service.ExternalProfile{
			UserID: assertion.UserID,
			Name:   assertion.Name,
			Gender: assertion.Gender,
			Mobile: assertion.Mobile,
			Email:  assertion.Email,
			Avatar: assertion.Avatar,
		})
		if err != nil {
			respondError(c, err, "Failed to save user")
			return
		}
		if user.IsLocked {
			respondError(c, Forbidden("Account is locked"), "")
			return
		}
		token, err := utils.GenerateJWT(user.UserID, jwtSecret)
		if err != nil {
			respondError(c, err, "Failed to generate token")
			return
		}
		logrus.WithField("user_id", user.UserID).Info("User signed in")
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
	}
}

// SearchUsersHandler lists users whose id or name contains ?key=
func SearchUsersHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.Search(c.Request.Context(), c.Query("key"))
		if err != nil {
			respondError(c, err, "Failed to search users")
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": list})
	}
}

// GetUserHandler returns one user
func GetUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.Get(c.Request.Context(), c.Param("user_id"))
		if err == nil && user == nil {
			err = NotFound("User not found")
		}
		if err != nil {
			respondError(c, err, "Failed to fetch user")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// UpdateUserHandler edits a user's profile or lock state
func UpdateUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch service.UserPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			respondError(c, BadRequest("Invalid request"), "")
			return
		}
		user, err := users.Update(c.Request.Context(), c.Param("user_id"), patch)
		if err == nil && user == nil {
			err = NotFound("User not found")
		}
		if err != nil {
			respondError(c, err, "Failed to update user")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// DeleteUserHandler removes a user. Their proxies are kept.
func DeleteUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		removed, err := users.Remove(c.Request.Context(), c.Param("user_id"))
		if err == nil && !removed {
			err = NotFound("User not found")
		}
		if err != nil {
			respondError(c, err, "Failed to delete user")
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": true})
	}
}
