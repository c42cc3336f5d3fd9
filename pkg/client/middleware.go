package client

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

// AuthUser is the authenticated principal extracted from a verified
// access token.
type AuthUser struct {
	UserID uuid.UUID
}

func (u AuthUser) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user", u.UserID.String()),
	)
}

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "client context value " + k.name
}

var (
	AuthUserKey = &contextKey{"AuthUser"}
)

// Verifier verifies access tokens from the Authorization header or the
// accessToken cookie and stashes the result in the request context.
func Verifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return jwtauth.Verify(ja, jwtauth.TokenFromHeader, TokenFromCookie)(next)
	}
}

// TokenFromCookie reads the access token from the accessToken cookie
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie("accessToken")
	if err != nil {
		return ""
	}
	return cookie.Value
}

// AuthUserMiddleware turns verified token claims into an AuthUser and
// rejects requests whose subject is missing or malformed. It must run
// after Verifier and jwtauth.Authenticator.
func AuthUserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			http.Error(w, "missing jwt", http.StatusUnauthorized)
			return
		}

		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			http.Error(w, "missing subject", http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(sub)
		if err != nil {
			slog.Error("Failed to parse token subject", "err", err)
			http.Error(w, "invalid subject", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), AuthUserKey, &AuthUser{UserID: userID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAuthUser returns the AuthUser placed in the context by
// AuthUserMiddleware, or nil when the request is unauthenticated.
func GetAuthUser(ctx context.Context) *AuthUser {
	u, _ := ctx.Value(AuthUserKey).(*AuthUser)
	return u
}
