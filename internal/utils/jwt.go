package utils

import (
	"errors" // Claim validation errors
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrMissingSubject is returned when a token verifies but names no user
var ErrMissingSubject = errors.New("token carries no user id")

// Claims is the session token issued to signed-in users
type Claims struct {
	UserID               string `json:"user_id"` // External user id
	jwt.RegisteredClaims        // Standard JWT claims
}

// LoginAssertion is the profile the login relay signs after talking to the
// federated provider. Only assertions signed with the shared provider secret
// are accepted.
type LoginAssertion struct {
	UserID string `json:"userid"` // Provider user id
	Name   string `json:"name"`   // Display name
	Gender int    `json:"gender"` // 0 unknown, 1 male, 2 female
	Mobile string `json:"mobile"` // Mobile number
	Email  string `json:"email"`  // Email address
	Avatar string `json:"avatar"` // Avatar URL
	jwt.RegisteredClaims
}

// GenerateJWT creates a session token for a given user ID
func GenerateJWT(userID string, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return sign(claims, secret)
}

// ParseJWT validates a session token and returns its claims
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	claims := &Claims{}
	if err := parseSigned(tokenStr, secret, claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// ParseLoginAssertion validates a relay-signed profile. The assertion must
// carry an expiry; an empty secret rejects everything.
func ParseLoginAssertion(tokenStr, secret string) (*LoginAssertion, error) {
	if secret == "" {
		return nil, jwt.ErrTokenUnverifiable
	}
	assertion := &LoginAssertion{}
	if err := parseSigned(tokenStr, secret, assertion, jwt.WithExpirationRequired()); err != nil {
		return nil, err
	}
	if assertion.UserID == "" {
		return nil, ErrMissingSubject
	}
	return assertion, nil
}

func sign(claims jwt.Claims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// parseSigned only accepts HS256 so a token cannot pick its own algorithm
func parseSigned(tokenStr, secret string, claims jwt.Claims, opts ...jwt.ParserOption) error {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return err
	}
	if !token.Valid {
		return jwt.ErrSignatureInvalid
	}
	return nil
}
