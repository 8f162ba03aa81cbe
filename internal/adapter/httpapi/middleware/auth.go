// Package middleware carries the HTTP middleware for the listing API.
// Authentication only extracts the broker identity from a bearer token
// issued by the identity provider; credentials and sessions are managed
// elsewhere.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/casalivre/listing-service/internal/listing/domain"
	"github.com/casalivre/listing-service/internal/platform/logger"
)

type identityKeyType struct{}

var identityKey identityKeyType

// Claims is the token payload issued by the identity provider.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Authenticate rejects requests without a valid bearer token and stores
// the resolved identity on the request context.
func Authenticate(jwtSecret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := identityFromHeader(r.Header.Get("Authorization"), jwtSecret)
			if err != nil {
				log.Warn("authentication rejected", "path", r.URL.Path, "error", err.Error())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"message": domain.ErrUnauthenticated.Error(),
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
		})
	}
}

func identityFromHeader(header, jwtSecret string) (*domain.Identity, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, fmt.Errorf("missing or malformed authorization header")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("invalid token")
	}

	return &domain.Identity{
		ID:    claims.UserID,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}

// WithIdentity attaches the broker identity to the context.
func WithIdentity(ctx context.Context, ident *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFrom returns the authenticated identity, or nil on public
// routes.
func IdentityFrom(ctx context.Context) *domain.Identity {
	ident, _ := ctx.Value(identityKey).(*domain.Identity)
	return ident
}
