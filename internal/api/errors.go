package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// HTTPError is a failure that is safe to show to the client
type HTTPError struct {
	Status  int
	Message string
}

// Error returns the client-facing message
func (e *HTTPError) Error() string { return e.Message }

// NotFound covers both missing rows and rows owned by someone else
func NotFound(msg string) *HTTPError { return &HTTPError{Status: http.StatusNotFound, Message: msg} }

// Unauthorized is returned when a login assertion cannot be verified
func Unauthorized(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusUnauthorized, Message: msg}
}

// Forbidden is returned for illegal domains and locked accounts
func Forbidden(msg string) *HTTPError { return &HTTPError{Status: http.StatusForbidden, Message: msg} }

// BadRequest is returned when the body or query cannot be parsed
func BadRequest(msg string) *HTTPError { return &HTTPError{Status: http.StatusBadRequest, Message: msg} }

// respondError renders err as {"error": ...}. Anything that is not an
// HTTPError is logged and reported as a generic 500 with fallback as message.
func respondError(c *gin.Context, err error, fallback string) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		c.AbortWithStatusJSON(httpErr.Status, gin.H{"error": httpErr.Message})
		return
	}
	logrus.WithFields(logrus.Fields{
		"method": c.Request.Method,      // HTTP method
		"path":   c.Request.URL.Path,    // Request path
		"user":   c.GetString("userID"), // Session user, if any
		"error":  err.Error(),           // Error message
	}).Error(fallback)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fallback})
}
