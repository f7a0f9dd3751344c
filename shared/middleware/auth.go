package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/feedbackhub/feedbackhub/shared/domain"
	"github.com/feedbackhub/feedbackhub/shared/errors"
	jwt_internal "github.com/feedbackhub/feedbackhub/shared/jwt"
	"github.com/feedbackhub/feedbackhub/shared/logger"
	"github.com/feedbackhub/feedbackhub/shared/revocation"
	"github.com/feedbackhub/feedbackhub/shared/utils"
)

const AccessTokenCookie = "accessToken"

// Key to store the user claims in the request context
type key int

const (
	UserClaimsKey key = iota
	TokenClaimsKey
)

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService jwt_internal.JwtService
	revoked    revocation.Store
}

func NewAuth(jwtService jwt_internal.JwtService, revoked revocation.Store) *Auth {
	return &Auth{jwtService: jwtService, revoked: revoked}
}

// NeedAuth returns middleware that requires authentication
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// AdminOnly returns middleware that requires admin authentication
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

// bearer token first (API clients), accessToken cookie as fallback (browsers)
func tokenFromRequest(r *http.Request) string {
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		return strings.TrimSpace(token)
	}
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func (a *Auth) extractClaims(r *http.Request) (*jwt_internal.Claims, error) {
	tokenString := tokenFromRequest(r)
	if tokenString == "" {
		return nil, errors.Authentication("Please sign-in")
	}

	claims, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, err
	}

	if a.revoked != nil && claims.TokenId != "" {
		revoked, err := a.revoked.IsRevoked(r.Context(), claims.TokenId)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, errors.Authentication("Token has been revoked")
		}
	}

	return claims, nil
}

func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := a.extractClaims(r)
			if err != nil {
				if _, ok := errors.As(err); !ok {
					logger.Log.Error("token check failed", "error", err)
				}
				utils.WriteErrorAndStatusCode(w, err)
				return
			}

			user := claims.User
			if adminOnly && !user.IsAdmin() {
				utils.WriteErrorAndStatusCode(w, errors.Authorization("Access denied. Only for admin"))
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, &user)
			ctx = context.WithValue(ctx, TokenClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext retrieves the user from the context
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// GetClaimsFromContext returns the decoded token, needed to revoke it on logout.
func GetClaimsFromContext(r *http.Request) *jwt_internal.Claims {
	claims, ok := r.Context().Value(TokenClaimsKey).(*jwt_internal.Claims)
	if !ok {
		return nil
	}
	return claims
}
