package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ===== Session/JWT primitives =====

type AuthConfig struct {
	HMACSecret []byte
	TTL        time.Duration
}

type AuthManager struct{ cfg AuthConfig }

func NewAuthManager(secret string, ttl time.Duration) *AuthManager {
	return &AuthManager{cfg: AuthConfig{
		HMACSecret: []byte(secret),
		TTL:        ttl, // e.g., 30 * time.Minute
	}}
}

type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Mint signs a short-lived session token.
func (a *AuthManager) Mint() (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Role: "editor",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.TTL)),
			Subject:   "editor",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.cfg.HMACSecret)
}

func (a *AuthManager) ParseFromRequest(r *http.Request) (*SessionClaims, error) {
	// Authorization: Bearer <jwt>
	if hdr := r.Header.Get("Authorization"); hdr != "" {
		if strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			return a.parse(strings.TrimSpace(hdr[7:]))
		}
	}
	return nil, errors.New("missing token")
}

func (a *AuthManager) parse(tok string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.cfg.HMACSecret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Middleware rejects requests without a valid session token.
func (a *AuthManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(a.cfg.HMACSecret) == 0 {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if _, err := a.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
