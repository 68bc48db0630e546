/*
auth.go - JWT bearer authentication middleware

PURPOSE:
  Validates bearer tokens issued by the chamber's identity provider
  (HS256, shared secret) and threads the authenticated user through the
  request context. Role slugs ride in the token claims; the profile store
  remains the source of truth when the claims carry none.

SEE ALSO:
  - server.go: Middleware wiring
  - workflow/transitions.go: Role definitions
*/
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/camara-itapoa/diaria-engine/workflow"
)

type contextKey string

const userContextKey contextKey = "authenticated-user"

// AuthenticatedUser is the identity extracted from a validated token.
type AuthenticatedUser struct {
	ID    string
	Email string
	Name  string
	Roles []workflow.Role
}

// Claims is the token payload the identity provider signs.
type Claims struct {
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// ValidateToken parses and verifies one bearer token.
func ValidateToken(tokenString, secret string) (*AuthenticatedUser, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenMalformed
	}

	user := &AuthenticatedUser{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}
	for _, r := range claims.Roles {
		user.Roles = append(user.Roles, workflow.Role(r))
	}
	return user, nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated user in the request context.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "Authorization header required", nil)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "Invalid authorization header format", nil)
				return
			}

			user, err := ValidateToken(parts[1], secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user, nil when absent.
func UserFromContext(ctx context.Context) *AuthenticatedUser {
	user, _ := ctx.Value(userContextKey).(*AuthenticatedUser)
	return user
}

// hasRole reports whether the user carries the given role slug.
func (u *AuthenticatedUser) hasRole(role workflow.Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
