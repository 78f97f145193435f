package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/pkg/logger_i"
	"github.com/golang-jwt/jwt/v5"
)

// Authenticator accepts either the static API token or an HS256 JWT carrying a sub
// claim. With neither configured every request is rejected unless bypass is set.
type Authenticator struct {
	token     string
	jwtSecret []byte
	bypass    bool
}

func NewAuthenticator(token string, jwtSecret string, bypass bool) *Authenticator {
	a := &Authenticator{token: token, bypass: bypass}
	if jwtSecret != "" {
		a.jwtSecret = []byte(jwtSecret)
	}
	return a
}

// Verify returns the authenticated subject. Static tokens authenticate as "api-token".
func (a *Authenticator) Verify(authHeader string, log *logger_i.Logger) (string, bool) {
	if a.bypass {
		log.Error("auth bypass is enabled, request not authenticated")
		return "bypass", true
	}
	if authHeader == "" {
		log.Warn("Empty authorization header")
		return "", false
	}
	raw, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || raw == "" {
		log.Warn("No Bearer header")
		return "", false
	}

	if a.token != "" && subtle.ConstantTimeCompare([]byte(raw), []byte(a.token)) == 1 {
		return "api-token", true
	}
	if a.jwtSecret == nil {
		log.Warn("Invalid authorization header")
		return "", false
	}

	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return a.jwtSecret, nil
	}, jwt.WithValidMethods([]string{config.JWTSigningMethod}), jwt.WithExpirationRequired())
	if err != nil {
		log.Warn("Invalid token", "error", err)
		return "", false
	}
	if claims.Subject == "" {
		log.Warn("Token without subject")
		return "", false
	}
	return claims.Subject, true
}
