package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/campusconnect-go/apperror"
	"github.com/user/campusconnect-go/config"
	"github.com/user/campusconnect-go/response"
)

// PrincipalSource resolves a token's erp claim to the current account state.
// The students package provides the database-backed implementation; the
// indirection keeps role changes and deactivations effective immediately
// instead of living as long as the token.
type PrincipalSource interface {
	Principal(ctx context.Context, erp string) (*Principal, error)
}

// Middleware returns a middleware enforcing bearer-token authentication. On
// success the resolved principal is attached to the request context; every
// failure short-circuits with a 401 envelope.
func Middleware(authConfig config.AuthConfig, source PrincipalSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Error(w, apperror.NewTokenMissingError())
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				response.Error(w, apperror.NewTokenVerificationError("invalid authorization header format", nil))
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(authConfig.JWTSecret), nil
			})
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					response.Error(w, apperror.NewTokenExpiredError(err))
					return
				}
				response.Error(w, apperror.NewTokenVerificationError("invalid or malformed token", err))
				return
			}
			if !token.Valid || claims.TokenType != tokenTypeAccess {
				response.Error(w, apperror.NewTokenVerificationError("invalid or malformed token", nil))
				return
			}

			principal, err := source.Principal(r.Context(), claims.ERP)
			if err != nil {
				if apperror.IsNotFound(err) {
					response.Error(w, apperror.NewTokenVerificationError("token account no longer exists", nil))
					return
				}
				response.Error(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContextWithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAdmin rejects requests whose principal does not hold the admin role.
// It must sit behind Middleware on the route chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			response.Error(w, apperror.NewTokenMissingError())
			return
		}
		if !principal.IsAdmin() {
			response.Error(w, apperror.NewForbiddenError())
			return
		}
		next.ServeHTTP(w, r)
	})
}
