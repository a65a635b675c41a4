package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("u1", "secret")
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT("u1", "secret")
	require.NoError(t, err)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	_, err := ParseJWT("not-a-token", "secret")
	assert.Error(t, err)
}

func TestParseJWTRejectsMissingUser(t *testing.T) {
	token, err := GenerateJWT("", "secret")
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func signAssertion(t *testing.T, a LoginAssertion, secret string) string {
	t.Helper()
	token, err := sign(a, secret)
	require.NoError(t, err)
	return token
}

func TestParseLoginAssertion(t *testing.T) {
	exp := jwt.NewNumericDate(time.Now().Add(time.Minute))
	valid := LoginAssertion{UserID: "wx1", Name: "Wei", Gender: 1, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}

	got, err := ParseLoginAssertion(signAssertion(t, valid, "provider"), "provider")
	require.NoError(t, err)
	assert.Equal(t, "wx1", got.UserID)
	assert.Equal(t, "Wei", got.Name)
	assert.Equal(t, 1, got.Gender)

	cases := []struct {
		name      string
		assertion LoginAssertion
		signWith  string
		secret    string
	}{
		{"wrong secret", valid, "attacker", "provider"},
		{"login disabled", valid, "provider", ""},
		{"no expiry", LoginAssertion{UserID: "wx1"}, "provider", "provider"},
		{"expired", LoginAssertion{UserID: "wx1", RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}}, "provider", "provider"},
		{"no user id", LoginAssertion{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}, "provider", "provider"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLoginAssertion(signAssertion(t, tc.assertion, tc.signWith), tc.secret)
			assert.Error(t, err)
		})
	}
}

func TestParseLoginAssertionRejectsUnsignedToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, LoginAssertion{
		UserID:           "admin",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseLoginAssertion(token, "provider")
	assert.Error(t, err)
}
