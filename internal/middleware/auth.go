package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-vidtube/internal/model"
)

// AccessTokenCookie is the cookie the session middleware reads first.
const AccessTokenCookie = "accessToken"

type authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (model.User, error)
}

type contextKey string

const currentUserContextKey contextKey = "current_user"

type AuthMiddleware struct {
	auth authenticator
}

func NewAuthMiddleware(auth authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireAuth resolves the access token (cookie first, then bearer header) to a
// live user and stores it in the request context. Any failure ends the request with 401.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := accessTokenFromRequest(r)
		if token == "" {
			writeErrorEnvelope(w, http.StatusUnauthorized, "unauthorized request")
			return
		}

		user, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			writeErrorEnvelope(w, http.StatusUnauthorized, "invalid access token")
			return
		}

		recordUser(r.Context(), user.ID)
		ctx := context.WithValue(r.Context(), currentUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(currentUserContextKey).(model.User)
	return user, ok
}

// WithUser returns a context carrying user, as RequireAuth would.
func WithUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, currentUserContextKey, user)
}

func accessTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && strings.TrimSpace(cookie.Value) != "" {
		return strings.TrimSpace(cookie.Value)
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}

	return ""
}
