// Package middleware authenticates production-portal requests. Tokens are
// checked against the signing secret and against the revocation list kept in
// the cache, so a logged-out token stops working before it expires.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fabbrica-mes/backoffice/internal/auth"
	"github.com/fabbrica-mes/backoffice/internal/cache"
)

type contextKey string

const sessionKey = contextKey("portal_session")

var (
	tokenManager *auth.TokenManager
	revocations  cache.Store
)

func SetTokenManager(tm *auth.TokenManager) {
	tokenManager = tm
}

func SetRevocationStore(s cache.Store) {
	revocations = s
}

func PortalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		session, err := tokenManager.Parse(tokenStr)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		if revocations != nil && session.TokenID != "" {
			var revoked bool
			found, err := revocations.Get(r.Context(), cache.KeyRevokedToken(session.TokenID), &revoked)
			if err == nil && found {
				http.Error(w, "session expired", http.StatusUnauthorized)
				return
			}
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetSession(r *http.Request) (auth.Session, bool) {
	session, ok := r.Context().Value(sessionKey).(auth.Session)
	return session, ok
}
